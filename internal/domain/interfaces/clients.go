package interfaces

import (
	"context"

	"github.com/robert8597/swifthackathon/internal/domain"
)

// ILEIRegistryClient resolves a legal entity identifier against an external
// registry. A missing record or malformed envelope is returned as an error;
// callers map it to a verification failure, never a crash.
type ILEIRegistryClient interface {
	LookupLEI(ctx context.Context, lei string) (*domain.LEIRecord, error)
}
