package iso20022

import (
	"encoding/xml"

	"github.com/shopspring/decimal"
)

// Fxtr014Document is the derived foreign-exchange trade instruction
// (fxtr.014) built from an accepted payment message.
type Fxtr014Document struct {
	XMLName     xml.Name                        `xml:"Document"`
	Xmlns       string                          `xml:"xmlns,attr"`
	FXTradInstr ForeignExchangeTradeInstruction `xml:"FXTradInstr"`
}

type ForeignExchangeTradeInstruction struct {
	TradInf    TradeAgreement           `xml:"TradInf"`
	TradgSdID  TradePartyIdentification `xml:"TradgSdId"`
	CtrPtySdID TradePartyIdentification `xml:"CtrPtySdId"`
	TradAmts   AmountsAndValueDate      `xml:"TradAmts"`
	AgrdRate   AgreedRate               `xml:"AgrdRate"`
}

type TradeAgreement struct {
	TradDt   ISODate `xml:"TradDt"`
	OrgtrRef string  `xml:"OrgtrRef,omitempty"`
}

type TradePartyIdentification struct {
	SubmitgPty PartyIdentificationChoice `xml:"SubmitgPty"`
}

type PartyIdentificationChoice struct {
	PtyID TradeParty `xml:"PtyId"`
}

type TradeParty struct {
	PtyNm      string `xml:"PtyNm,omitempty"`
	LglNttyIdr string `xml:"LglNttyIdr,omitempty"`
}

type AmountsAndValueDate struct {
	TradgSdSellAmt CurrencyOrDigitalTokenAmount `xml:"TradgSdSellAmt"`
	TradgSdBuyAmt  CurrencyOrDigitalTokenAmount `xml:"TradgSdBuyAmt"`
	SttlmDt        ISODate                      `xml:"SttlmDt"`
}

type AgreedRate struct {
	XchgRate decimal.Decimal `xml:"XchgRate"`
	UnitCcy  string          `xml:"UnitCcy,omitempty"`
	QtdCcy   string          `xml:"QtdCcy,omitempty"`
}

// BuyAmount returns the buy-side amount regardless of representation: the
// token unit count for a digital leg, the currency amount otherwise.
func (a AmountsAndValueDate) BuyAmount() decimal.Decimal {
	if a.TradgSdBuyAmt.DgtlTknAmt != nil {
		return a.TradgSdBuyAmt.DgtlTknAmt.Unit
	}
	if a.TradgSdBuyAmt.Amt != nil {
		return a.TradgSdBuyAmt.Amt.Value
	}
	return decimal.Zero
}
