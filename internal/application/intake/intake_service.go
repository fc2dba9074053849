package intake

import (
	"context"
	"fmt"

	"github.com/robert8597/swifthackathon/internal/domain"
)

// RejectionError marks a submission the service refuses synchronously:
// malformed or schema-invalid payloads and internal consistency violations.
// The workflow never starts for a rejected submission.
type RejectionError struct {
	Reason string
	Cause  error
}

func (e *RejectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Cause)
	}
	return e.Reason
}

func (e *RejectionError) Unwrap() error {
	return e.Cause
}

// IIntakeService accepts a base64-encoded pacs.008 payment document,
// validates and classifies it, persists the message record and kicks off
// the asynchronous pipeline.
type IIntakeService interface {
	SubmitMessage(ctx context.Context, payloadB64 string) (*domain.MessageResponse, error)
}
