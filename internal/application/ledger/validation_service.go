package ledger

import "context"

// IValidationService validates the on-ledger transaction a stored message
// references. Messages without a reference, and outbound messages, skip
// validation by policy.
type IValidationService interface {
	ValidateTransaction(ctx context.Context, messageID string) error
}
