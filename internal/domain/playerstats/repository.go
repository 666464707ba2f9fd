package playerstats

import (
	"context"
	"time"
)

type AppearanceRepository interface {
	// Upsert stores appearances keyed by (provider, fixture, player).
	Upsert(ctx context.Context, appearances []MatchAppearance) error
	// Delete removes the stored rows sharing a key with any of appearances and
	// reports how many existed.
	Delete(ctx context.Context, appearances []MatchAppearance) (int, error)
	ListByPlayer(ctx context.Context, playerID string) ([]MatchAppearance, error)
	// ListByPlayers returns appearances dated up to and including until,
	// grouped by player id.
	ListByPlayers(ctx context.Context, playerIDs []string, until time.Time) (map[string][]MatchAppearance, error)
}

type WindowRepository interface {
	// Replace overwrites the stored windows keyed by (player, kind).
	Replace(ctx context.Context, windows []Window) error
	ListByPlayer(ctx context.Context, playerID string) ([]Window, error)
}
