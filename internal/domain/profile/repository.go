package profile

import (
	"context"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

type SnapshotRepository interface {
	// Upsert overwrites the snapshot for (player, provider).
	Upsert(ctx context.Context, snapshot Snapshot) error
	Get(ctx context.Context, playerID string, p provider.Provider) (Snapshot, bool, error)
	ListByPlayer(ctx context.Context, playerID string) ([]Snapshot, error)
}

type ConflictRepository interface {
	// Upsert stores conflict keyed by (player, field, provider), reopening a
	// resolved or superseded row.
	Upsert(ctx context.Context, conflict FieldConflict) error
	Get(ctx context.Context, playerID string, field player.Field, p provider.Provider) (FieldConflict, bool, error)
	// List returns the player's conflicts; an empty status means all.
	List(ctx context.Context, playerID string, status ConflictStatus) ([]FieldConflict, error)
	// Close moves an open conflict to status with resolution. Closing a
	// conflict that is not open is a no-op.
	Close(ctx context.Context, playerID string, field player.Field, p provider.Provider, status ConflictStatus, resolution string, at time.Time) error
}
