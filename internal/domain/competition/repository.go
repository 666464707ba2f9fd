package competition

import "context"

// Repository describes competition persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Competition, error)
	ListByCountry(ctx context.Context, countryCode string) ([]Competition, error)
	GetByID(ctx context.Context, competitionID string) (Competition, bool, error)
	Upsert(ctx context.Context, c Competition) error
}
