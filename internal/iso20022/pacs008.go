package iso20022

import "encoding/xml"

// Pacs008Document models the subset of the FI-to-FI customer credit
// transfer (pacs.008) the pipeline reads, including the digital-asset
// account extensions (token id, wallet address, wallet network).
type Pacs008Document struct {
	XMLName           xml.Name                     `xml:"Document"`
	FIToFICstmrCdtTrf FIToFICustomerCreditTransfer `xml:"FIToFICstmrCdtTrf"`
}

type FIToFICustomerCreditTransfer struct {
	GrpHdr      *GroupHeader                `xml:"GrpHdr,omitempty"`
	CdtTrfTxInf []CreditTransferTransaction `xml:"CdtTrfTxInf" validate:"required,min=1,dive"`
}

type GroupHeader struct {
	MsgID   string `xml:"MsgId,omitempty"`
	CreDtTm string `xml:"CreDtTm,omitempty"`
}

type CreditTransferTransaction struct {
	PmtID          PaymentIdentification         `xml:"PmtId" validate:"required"`
	IntrBkSttlmAmt ActiveCurrencyAndAmount       `xml:"IntrBkSttlmAmt"`
	InstdAmt       *ActiveCurrencyAndAmount      `xml:"InstdAmt,omitempty"`
	Dbtr           PartyIdentification           `xml:"Dbtr"`
	DbtrAcct       *CashAccount                  `xml:"DbtrAcct,omitempty"`
	DbtrAgt        BranchAndFinancialInstitution `xml:"DbtrAgt" validate:"required"`
	Cdtr           PartyIdentification           `xml:"Cdtr"`
	CdtrAcct       *CashAccount                  `xml:"CdtrAcct,omitempty"`
	CdtrAgt        BranchAndFinancialInstitution `xml:"CdtrAgt" validate:"required"`
	RmtInf         *RemittanceInformation        `xml:"RmtInf,omitempty"`
}

type PaymentIdentification struct {
	InstrID    string `xml:"InstrId,omitempty"`
	EndToEndID string `xml:"EndToEndId" validate:"required"`
	TxHash     string `xml:"TxHash,omitempty"`
}

type PartyIdentification struct {
	Nm string         `xml:"Nm,omitempty"`
	ID *PartyChoiceID `xml:"Id,omitempty"`
}

type PartyChoiceID struct {
	OrgID *OrganisationIdentification `xml:"OrgId,omitempty"`
}

type OrganisationIdentification struct {
	AnyBIC string `xml:"AnyBIC,omitempty"`
	LEI    string `xml:"LEI,omitempty"`
}

// CashAccount carries either a conventional currency or the digital-asset
// extension fields (token id plus wallet identification).
type CashAccount struct {
	ID          *AccountID            `xml:"Id,omitempty"`
	Ccy         string                `xml:"Ccy,omitempty"`
	TokenID     string                `xml:"TokenId,omitempty"`
	WalletID    *WalletIdentification `xml:"WalletId,omitempty"`
	WalletNtwrk *WalletNetwork        `xml:"WalletNtwrk,omitempty"`
}

type AccountID struct {
	IBAN string            `xml:"IBAN,omitempty"`
	Othr *GenericAccountID `xml:"Othr,omitempty"`
}

type GenericAccountID struct {
	ID string `xml:"Id,omitempty"`
}

type WalletIdentification struct {
	DbtrWalletAddr string `xml:"DbtrWalletAddr,omitempty"`
	CdtrWalletAddr string `xml:"CdtrWalletAddr,omitempty"`
}

type WalletNetwork struct {
	DbtrWalletNtwrk string `xml:"DbtrWalletNtwrk,omitempty"`
	CdtrWalletNtwrk string `xml:"CdtrWalletNtwrk,omitempty"`
}

type BranchAndFinancialInstitution struct {
	FinInstnID FinancialInstitutionIdentification `xml:"FinInstnId" validate:"required"`
}

type FinancialInstitutionIdentification struct {
	BICFI string `xml:"BICFI" validate:"required"`
	LEI   string `xml:"LEI,omitempty"`
}

type RemittanceInformation struct {
	Ustrd []string `xml:"Ustrd,omitempty"`
}

// WalletAddress returns whichever wallet address side is populated.
func (w *WalletIdentification) WalletAddress() string {
	if w == nil {
		return ""
	}
	if w.DbtrWalletAddr != "" {
		return w.DbtrWalletAddr
	}
	return w.CdtrWalletAddr
}

// Network returns whichever wallet network side is populated.
func (w *WalletNetwork) Network() string {
	if w == nil {
		return ""
	}
	if w.DbtrWalletNtwrk != "" {
		return w.DbtrWalletNtwrk
	}
	return w.CdtrWalletNtwrk
}
