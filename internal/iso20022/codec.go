package iso20022

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrMalformedInput marks input that is not parseable XML at all.
	ErrMalformedInput = errors.New("malformed document")
	// ErrSchemaViolation marks well-formed XML that does not satisfy the
	// declared schema: wrong namespace or missing required elements.
	ErrSchemaViolation = errors.New("schema violation")
)

// Codec decodes and encodes ISO 20022 documents, validating inbound
// documents against their declared schema reference before handing them to
// the pipeline.
type Codec struct {
	validate *validator.Validate
}

func NewCodec() *Codec {
	return &Codec{validate: validator.New()}
}

// DecodePacs008 parses and validates a pacs.008 document. The document's
// declared namespace must match schemaRef, and the required structural
// elements must be present.
func (c *Codec) DecodePacs008(data []byte, schemaRef string) (*Pacs008Document, error) {
	var doc Pacs008Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	if doc.XMLName.Space != schemaRef {
		return nil, fmt.Errorf("%w: document namespace %q does not match schema %q", ErrSchemaViolation, doc.XMLName.Space, schemaRef)
	}

	if err := c.validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	return &doc, nil
}

// EncodeFxtr014 serializes a trade instruction document. Total for
// well-formed documents built by BuildTradeInstruction.
func (c *Codec) EncodeFxtr014(doc *Fxtr014Document) ([]byte, error) {
	doc.Xmlns = SchemaFxtr014

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode fxtr.014 document: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("failed to encode fxtr.014 document: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodeFxtr014 parses a previously encoded trade instruction.
func (c *Codec) DecodeFxtr014(data []byte) (*Fxtr014Document, error) {
	var doc Fxtr014Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return &doc, nil
}
