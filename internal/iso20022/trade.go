package iso20022

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robert8597/swifthackathon/pkg/currency"
)

// BuildTradeInstruction derives an fxtr.014 trade instruction from an
// accepted pacs.008 document. Pure: no I/O, no mutation of the source.
//
// The sell side carries the settlement amount of the source document, the
// buy side carries sourceAmount * rate rounded half-up to 2 decimals.
// Digital-asset sides are rendered as token amounts with the XXX sentinel
// in the agreed-rate currency pair; settlement is T+2 calendar days.
func BuildTradeInstruction(pacs *Pacs008Document, sourceCcy, targetCcy string, rate decimal.Decimal) (*Fxtr014Document, error) {
	if len(pacs.FIToFICstmrCdtTrf.CdtTrfTxInf) == 0 {
		return nil, fmt.Errorf("pacs.008 document carries no credit transfer transaction")
	}
	txInf := pacs.FIToFICstmrCdtTrf.CdtTrfTxInf[0]

	tradeDate := NewISODate(time.Now())
	sourceAmount := txInf.IntrBkSttlmAmt.Value
	targetAmount := sourceAmount.Mul(rate).Round(2)

	doc := &Fxtr014Document{
		FXTradInstr: ForeignExchangeTradeInstruction{
			TradInf: TradeAgreement{
				TradDt:   tradeDate,
				OrgtrRef: txInf.PmtID.InstrID,
			},
			TradgSdID:  tradeParty(txInf.Dbtr),
			CtrPtySdID: tradeParty(txInf.Cdtr),
			TradAmts: AmountsAndValueDate{
				TradgSdSellAmt: currencyOrTokenAmount(sourceCcy, sourceAmount),
				TradgSdBuyAmt:  currencyOrTokenAmount(targetCcy, targetAmount),
				SttlmDt:        tradeDate.AddCalendarDays(2),
			},
			AgrdRate: AgreedRate{
				XchgRate: rate,
				UnitCcy:  rateCurrency(sourceCcy),
				QtdCcy:   rateCurrency(targetCcy),
			},
		},
	}

	return doc, nil
}

func tradeParty(party PartyIdentification) TradePartyIdentification {
	tp := TradeParty{PtyNm: party.Nm}
	if party.ID != nil && party.ID.OrgID != nil {
		tp.LglNttyIdr = party.ID.OrgID.LEI
	}
	return TradePartyIdentification{
		SubmitgPty: PartyIdentificationChoice{PtyID: tp},
	}
}

func currencyOrTokenAmount(ccy string, amount decimal.Decimal) CurrencyOrDigitalTokenAmount {
	if currency.IsDigital(ccy) {
		return CurrencyOrDigitalTokenAmount{
			DgtlTknAmt: &DigitalTokenAmount{Unit: amount, Desc: ccy},
		}
	}
	return CurrencyOrDigitalTokenAmount{
		Amt: &ActiveCurrencyAndAmount{Ccy: ccy, Value: amount},
	}
}

func rateCurrency(ccy string) string {
	if currency.IsDigital(ccy) {
		return currency.NoCurrencyCode
	}
	return ccy
}
