package player

import (
	"context"
	"time"
)

// Repository describes canonical player persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, playerID string) (CanonicalPlayer, bool, error)
	GetByIDs(ctx context.Context, playerIDs []string) ([]CanonicalPlayer, error)
	ListByNormalizedName(ctx context.Context, normalizedName string) ([]CanonicalPlayer, error)
	ListByTeam(ctx context.Context, teamID string) ([]CanonicalPlayer, error)
	ListByCompetition(ctx context.Context, competitionID string) ([]CanonicalPlayer, error)
	ListAll(ctx context.Context) ([]CanonicalPlayer, error)
	Insert(ctx context.Context, p CanonicalPlayer) error
	// Update overwrites the mutable identity fields of an existing player.
	Update(ctx context.Context, p CanonicalPlayer) error
	// SoftDelete hides a player from every read.
	SoftDelete(ctx context.Context, playerID string, at time.Time) error
}
