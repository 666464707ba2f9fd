package rating

import (
	"context"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/player"
)

type ProfileRepository interface {
	List(ctx context.Context) ([]Profile, error)
	GetByPositionGroup(ctx context.Context, group player.PositionGroup) (Profile, bool, error)
	Upsert(ctx context.Context, profile Profile) error
}

type PlayerRatingRepository interface {
	// Upsert writes ratings keyed by (player, competition). Each row is
	// written atomically; a batch is not.
	Upsert(ctx context.Context, ratings []PlayerRating) error
	ListByPlayer(ctx context.Context, playerID string) ([]PlayerRating, error)
	ListTop(ctx context.Context, group player.PositionGroup, limit int) ([]PlayerRating, error)
	// DeleteStale removes ratings of the given competitions computed before
	// cutoff and reports how many rows went.
	DeleteStale(ctx context.Context, competitionIDs []string, cutoff time.Time) (int, error)
}

type CompetitionRatingRepository interface {
	Upsert(ctx context.Context, ratings []CompetitionRating) error
	GetByCompetition(ctx context.Context, competitionID string) (CompetitionRating, bool, error)
	List(ctx context.Context) ([]CompetitionRating, error)
	DeleteStale(ctx context.Context, competitionIDs []string, cutoff time.Time) (int, error)
}
