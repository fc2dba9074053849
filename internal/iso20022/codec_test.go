package iso20022

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPacs008 = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pacs.008.001.14">
  <FIToFICstmrCdtTrf>
    <GrpHdr>
      <MsgId>MSG-1</MsgId>
      <CreDtTm>2026-09-01T10:00:00</CreDtTm>
    </GrpHdr>
    <CdtTrfTxInf>
      <PmtId>
        <InstrId>INSTR-1</InstrId>
        <EndToEndId>E2E-1</EndToEndId>
      </PmtId>
      <IntrBkSttlmAmt Ccy="EUR">1000.00</IntrBkSttlmAmt>
      <Dbtr>
        <Nm>ACME GMBH</Nm>
        <Id><OrgId><LEI>5299000J2N45DDNE4Y28</LEI></OrgId></Id>
      </Dbtr>
      <DbtrAcct><Ccy>EUR</Ccy></DbtrAcct>
      <DbtrAgt><FinInstnId><BICFI>COBADEFFXXX</BICFI><LEI>851WYGNLUQLFZBSYGB56</LEI></FinInstnId></DbtrAgt>
      <Cdtr>
        <Nm>GLOBEX CORP</Nm>
        <Id><OrgId><LEI>549300GKFG0RYRRQ1414</LEI></OrgId></Id>
      </Cdtr>
      <CdtrAcct><Ccy>USD</Ccy></CdtrAcct>
      <CdtrAgt><FinInstnId><BICFI>DEUTDEFFXXX</BICFI><LEI>7LTWFZYICNSX8D621K86</LEI></FinInstnId></CdtrAgt>
    </CdtTrfTxInf>
  </FIToFICstmrCdtTrf>
</Document>`

func TestDecodePacs008Valid(t *testing.T) {
	codec := NewCodec()

	doc, err := codec.DecodePacs008([]byte(validPacs008), SchemaPacs008)
	require.NoError(t, err)

	require.Len(t, doc.FIToFICstmrCdtTrf.CdtTrfTxInf, 1)
	txInf := doc.FIToFICstmrCdtTrf.CdtTrfTxInf[0]
	assert.Equal(t, "EUR", txInf.IntrBkSttlmAmt.Ccy)
	assert.True(t, txInf.IntrBkSttlmAmt.Value.Equal(decimal.RequireFromString("1000.00")))
	assert.Equal(t, "DEUTDEFFXXX", txInf.CdtrAgt.FinInstnID.BICFI)
	assert.Equal(t, "COBADEFFXXX", txInf.DbtrAgt.FinInstnID.BICFI)
	assert.Equal(t, "5299000J2N45DDNE4Y28", txInf.Dbtr.ID.OrgID.LEI)
	assert.Equal(t, "INSTR-1", txInf.PmtID.InstrID)
}

func TestDecodePacs008WrongNamespace(t *testing.T) {
	codec := NewCodec()

	data := strings.Replace(validPacs008, "pacs.008.001.14", "pacs.008.001.02", 1)
	_, err := codec.DecodePacs008([]byte(data), SchemaPacs008)
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestDecodePacs008MissingTransaction(t *testing.T) {
	codec := NewCodec()

	data := `<?xml version="1.0"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pacs.008.001.14">
  <FIToFICstmrCdtTrf></FIToFICstmrCdtTrf>
</Document>`
	_, err := codec.DecodePacs008([]byte(data), SchemaPacs008)
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestDecodePacs008MalformedXML(t *testing.T) {
	codec := NewCodec()

	_, err := codec.DecodePacs008([]byte("this is not xml <"), SchemaPacs008)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestEncodeDecodeFxtr014RoundTrip(t *testing.T) {
	codec := NewCodec()

	source, err := codec.DecodePacs008([]byte(validPacs008), SchemaPacs008)
	require.NoError(t, err)

	rate := decimal.RequireFromString("0.9217")
	doc, err := BuildTradeInstruction(source, "EUR", "USD", rate)
	require.NoError(t, err)

	encoded, err := codec.EncodeFxtr014(doc)
	require.NoError(t, err)

	decoded, err := codec.DecodeFxtr014(encoded)
	require.NoError(t, err)

	// Decimal equality must survive the round trip exactly.
	assert.True(t, decoded.FXTradInstr.AgrdRate.XchgRate.Equal(rate),
		"rate changed across encode/decode: %s", decoded.FXTradInstr.AgrdRate.XchgRate)
	assert.True(t, decoded.FXTradInstr.TradAmts.BuyAmount().Equal(doc.FXTradInstr.TradAmts.BuyAmount()),
		"buy amount changed across encode/decode")
	assert.Equal(t, doc.FXTradInstr.TradInf.TradDt.Format("2006-01-02"),
		decoded.FXTradInstr.TradInf.TradDt.Format("2006-01-02"))
}
