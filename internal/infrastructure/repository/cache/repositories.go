package cache

import (
	"context"

	"github.com/riskibarqy/scout-core/internal/domain/competition"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/rating"
	"github.com/riskibarqy/scout-core/internal/domain/team"
	basecache "github.com/riskibarqy/scout-core/internal/platform/cache"
)

type CompetitionRepository struct {
	next  competition.Repository
	cache *basecache.Store[any]
}

func NewCompetitionRepository(next competition.Repository, cache *basecache.Store[any]) *CompetitionRepository {
	return &CompetitionRepository{next: next, cache: cache}
}

func (r *CompetitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	v, err := r.cache.GetOrLoad(ctx, "competition:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]competition.Competition(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]competition.Competition)
	return append([]competition.Competition(nil), items...), nil
}

func (r *CompetitionRepository) ListByCountry(ctx context.Context, countryCode string) ([]competition.Competition, error) {
	key := "competition:country:" + countryCode
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByCountry(ctx, countryCode)
		if err != nil {
			return nil, err
		}
		return append([]competition.Competition(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]competition.Competition)
	return append([]competition.Competition(nil), items...), nil
}

func (r *CompetitionRepository) GetByID(ctx context.Context, competitionID string) (competition.Competition, bool, error) {
	key := "competition:id:" + competitionID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, competitionID)
		if err != nil {
			return nil, err
		}
		return cachedCompetitionByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return competition.Competition{}, false, err
	}

	cached, _ := v.(cachedCompetitionByID)
	return cached.value, cached.exists, nil
}

func (r *CompetitionRepository) Upsert(ctx context.Context, c competition.Competition) error {
	if err := r.next.Upsert(ctx, c); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "competition:")
	return nil
}

type cachedCompetitionByID struct {
	value  competition.Competition
	exists bool
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store[any]
}

func NewTeamRepository(next team.Repository, cache *basecache.Store[any]) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) ListByCompetition(ctx context.Context, competitionID string) ([]team.Team, error) {
	key := "team:list:" + competitionID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByCompetition(ctx, competitionID)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) ListByNormalizedName(ctx context.Context, normalizedName string) ([]team.Team, error) {
	key := "team:name:" + normalizedName
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByNormalizedName(ctx, normalizedName)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	key := "team:id:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, t team.Team) error {
	if err := r.next.Upsert(ctx, t); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "team:")
	return nil
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

type RatingProfileRepository struct {
	next  rating.ProfileRepository
	cache *basecache.Store[any]
}

func NewRatingProfileRepository(next rating.ProfileRepository, cache *basecache.Store[any]) *RatingProfileRepository {
	return &RatingProfileRepository{next: next, cache: cache}
}

func (r *RatingProfileRepository) List(ctx context.Context) ([]rating.Profile, error) {
	v, err := r.cache.GetOrLoad(ctx, "rating_profile:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]rating.Profile(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]rating.Profile)
	return append([]rating.Profile(nil), items...), nil
}

func (r *RatingProfileRepository) GetByPositionGroup(ctx context.Context, group player.PositionGroup) (rating.Profile, bool, error) {
	key := "rating_profile:group:" + string(group)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByPositionGroup(ctx, group)
		if err != nil {
			return nil, err
		}
		return cachedRatingProfile{value: item, exists: exists}, nil
	})
	if err != nil {
		return rating.Profile{}, false, err
	}

	cached, _ := v.(cachedRatingProfile)
	return cached.value, cached.exists, nil
}

func (r *RatingProfileRepository) Upsert(ctx context.Context, profile rating.Profile) error {
	if err := r.next.Upsert(ctx, profile); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "rating_profile:")
	return nil
}

type cachedRatingProfile struct {
	value  rating.Profile
	exists bool
}
