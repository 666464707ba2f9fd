package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	ListByCompetition(ctx context.Context, competitionID string) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	ListByNormalizedName(ctx context.Context, normalizedName string) ([]Team, error)
	Upsert(ctx context.Context, t Team) error
}
