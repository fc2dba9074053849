package fx

import "context"

// IFXService derives the fxtr.014 trade instruction for a verified message
// and completes the workflow.
type IFXService interface {
	HandleFxTradeCreation(ctx context.Context, messageID string) error
}
