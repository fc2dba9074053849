package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string
type VerificationStatus string
type BlockchainValidationStatus string
type Direction string

const (
	StatusReceived                 TransactionStatus = "RECEIVED"
	StatusLEIVerificationRunning   TransactionStatus = "LEI_VERIFICATION_IN_PROGRESS"
	StatusBlockchainTxnValidating  TransactionStatus = "BLOCKCHAIN_TXN_VALIDATION_IN_PROGRESS"
	StatusFxMessageCreationRunning TransactionStatus = "FX_MESSAGE_CREATION_IN_PROGRESS"
	StatusCompleted                TransactionStatus = "COMPLETED"
	StatusFailed                   TransactionStatus = "FAILED"
)

const (
	VerificationUnverified VerificationStatus = "UNVERIFIED"
	VerificationVerified   VerificationStatus = "VERIFIED"
	VerificationFailed     VerificationStatus = "FAILED"
)

const (
	BlockchainValidated BlockchainValidationStatus = "VALIDATED"
	BlockchainFailed    BlockchainValidationStatus = "FAILED"
	BlockchainSkipped   BlockchainValidationStatus = "SKIPPED"
)

const (
	DirectionInbound  Direction = "INBOUND"
	DirectionOutbound Direction = "OUTBOUND"
)

type AuditTrailEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

type BlockchainTransactionDetails struct {
	Network string `json:"network,omitempty"`
	Token   string `json:"token,omitempty"`
	TxID    string `json:"tx_id,omitempty"`
}

// StoredMessage is the persisted record a payment message moves through the
// pipeline as. Stages never hold a reference across store operations: each
// stage reads a fresh copy, mutates it and writes it back.
type StoredMessage struct {
	MessageID string    `json:"message_id"`
	Timestamp time.Time `json:"timestamp"`
	Direction Direction `json:"direction"`

	DebitorAgentBIC        string             `json:"debitor_agent_bic,omitempty"`
	DebitorAgentLEI        string             `json:"debitor_agent_lei,omitempty"`
	DebitorAgentLegalName  string             `json:"debitor_agent_legal_name,omitempty"`
	DebitorLEIStatus       VerificationStatus `json:"debitor_lei_status,omitempty"`
	CreditorAgentBIC       string             `json:"creditor_agent_bic,omitempty"`
	CreditorAgentLEI       string             `json:"creditor_agent_lei,omitempty"`
	CreditorAgentLegalName string             `json:"creditor_agent_legal_name,omitempty"`
	CreditorLEIStatus      VerificationStatus `json:"creditor_lei_status,omitempty"`

	Ccy       string           `json:"ccy,omitempty"`
	TargetCcy string           `json:"target_ccy,omitempty"`
	Amt       *decimal.Decimal `json:"amt,omitempty"`
	TargetAmt *decimal.Decimal `json:"target_amt,omitempty"`

	DebitorWallet   string `json:"debitor_wallet,omitempty"`
	DebitorNetwork  string `json:"debitor_network,omitempty"`
	CreditorWallet  string `json:"creditor_wallet,omitempty"`
	CreditorNetwork string `json:"creditor_network,omitempty"`

	BlckchnDetails                     *BlockchainTransactionDetails `json:"blckchn_details,omitempty"`
	BlckchnTransactionValidationStatus BlockchainValidationStatus    `json:"blckchn_transaction_validation_status,omitempty"`

	FxRate      *decimal.Decimal `json:"fx_rate,omitempty"`
	FxTradeDate string           `json:"fx_trade_date,omitempty"` // ISO date, yyyy-mm-dd

	TransactionStatus TransactionStatus `json:"transaction_status"`

	Payload     string `json:"payload,omitempty"`      // base64 pacs.008
	FxtrPayload string `json:"fxtr_payload,omitempty"` // base64 fxtr.014

	AuditTrail []AuditTrailEntry `json:"audit_trail"`
}

// AddAuditEntry appends one entry to the audit trail. The trail is
// append-only; entries are never reordered or removed.
func (m *StoredMessage) AddAuditEntry(action, details string) {
	m.AuditTrail = append(m.AuditTrail, AuditTrailEntry{
		Timestamp: time.Now(),
		Action:    action,
		Details:   details,
	})
}
