package verification

import "context"

// IVerificationService verifies the debtor and creditor agent LEIs of a
// stored message against the external registry. The returned error reports
// infrastructure problems (record missing, store unavailable); business
// failures are resolved to FAILED statuses on the record and are not
// errors.
type IVerificationService interface {
	VerifyLEIsForMessage(ctx context.Context, messageID string) error
}
