package iso20022

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Schema references the codec validates documents against. The reference is
// the ISO 20022 message namespace; a document declaring a different
// namespace is a schema violation, not malformed input.
const (
	SchemaPacs008 = "urn:iso:std:iso:20022:tech:xsd:pacs.008.001.14"
	SchemaFxtr014 = "urn:iso:std:iso:20022:tech:xsd:fxtr.014.001.06"
)

// ISODate is a calendar date rendered as yyyy-mm-dd in both XML and JSON.
type ISODate struct {
	time.Time
}

func NewISODate(t time.Time) ISODate {
	return ISODate{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d ISODate) MarshalText() ([]byte, error) {
	return []byte(d.Format("2006-01-02")), nil
}

func (d *ISODate) UnmarshalText(text []byte) error {
	t, err := time.Parse("2006-01-02", string(text))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// AddCalendarDays returns the date shifted by whole calendar days.
func (d ISODate) AddCalendarDays(days int) ISODate {
	return ISODate{d.AddDate(0, 0, days)}
}

// ActiveCurrencyAndAmount is an ISO amount with its currency carried as an
// attribute, e.g. <Amt Ccy="EUR">100.00</Amt>.
type ActiveCurrencyAndAmount struct {
	Ccy   string
	Value decimal.Decimal
}

func (a ActiveCurrencyAndAmount) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "Ccy"}, Value: a.Ccy})
	return e.EncodeElement(a.Value.String(), start)
}

func (a *ActiveCurrencyAndAmount) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var raw struct {
		Ccy   string `xml:"Ccy,attr"`
		Value string `xml:",chardata"`
	}
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	value, err := decimal.NewFromString(strings.TrimSpace(raw.Value))
	if err != nil {
		return err
	}
	a.Ccy = raw.Ccy
	a.Value = value
	return nil
}

// DigitalTokenAmount renders a digital-asset leg as a token unit count with
// the token code as description, instead of an ISO currency amount.
type DigitalTokenAmount struct {
	Unit decimal.Decimal `xml:"Unit"`
	Desc string          `xml:"Desc,omitempty"`
}

// CurrencyOrDigitalTokenAmount is the choice between a fiat amount and a
// digital token amount. Exactly one side is set.
type CurrencyOrDigitalTokenAmount struct {
	Amt        *ActiveCurrencyAndAmount `xml:"Amt,omitempty"`
	DgtlTknAmt *DigitalTokenAmount      `xml:"DgtlTknAmt,omitempty"`
}
