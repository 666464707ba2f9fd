package identity

import (
	"context"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

type LinkRepository interface {
	GetByProviderID(ctx context.Context, p provider.Provider, providerPlayerID string) (Link, bool, error)
	GetByPlayerAndProvider(ctx context.Context, playerID string, p provider.Provider) (Link, bool, error)
	ListByPlayer(ctx context.Context, playerID string) ([]Link, error)
	// Create fails with ErrLinkExists when either uniqueness constraint is hit.
	Create(ctx context.Context, link Link) error
	// Touch refreshes confidence and updated_at of an existing link.
	Touch(ctx context.Context, p provider.Provider, providerPlayerID string, confidence float64, at time.Time) error
	// Reassign points an existing link at another player. It fails with
	// ErrLinkExists when that player is already linked on the provider.
	Reassign(ctx context.Context, p provider.Provider, providerPlayerID, playerID string, confidence float64, at time.Time) error
}

type ReviewRepository interface {
	// UpsertPending stores item, reusing the id of an existing pending item for
	// the same provider identity. It returns the stored row.
	UpsertPending(ctx context.Context, item ReviewItem) (ReviewItem, error)
	GetByID(ctx context.Context, id string) (ReviewItem, bool, error)
	ListByStatus(ctx context.Context, status ReviewStatus, limit int) ([]ReviewItem, error)
	MarkResolved(ctx context.Context, id string, status ReviewStatus, resolvedPlayerID string, at time.Time) error
}
