package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/rating"
)

type RatingProfileRepository struct {
	mu       sync.RWMutex
	profiles map[player.PositionGroup]rating.Profile
}

func NewRatingProfileRepository(profiles map[player.PositionGroup]rating.Profile) *RatingProfileRepository {
	r := &RatingProfileRepository{profiles: make(map[player.PositionGroup]rating.Profile, len(profiles))}
	for group, profile := range profiles {
		r.profiles[group] = profile
	}
	return r
}

func (r *RatingProfileRepository) List(_ context.Context) ([]rating.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rating.Profile, 0, len(r.profiles))
	for _, group := range player.OrderedPositionGroups {
		if profile, ok := r.profiles[group]; ok {
			out = append(out, profile)
		}
	}
	return out, nil
}

func (r *RatingProfileRepository) GetByPositionGroup(_ context.Context, group player.PositionGroup) (rating.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[group]
	return profile, ok, nil
}

func (r *RatingProfileRepository) Upsert(_ context.Context, profile rating.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.PositionGroup] = profile
	return nil
}

type PlayerRatingRepository struct {
	mu      sync.RWMutex
	ratings map[string]rating.PlayerRating
}

func NewPlayerRatingRepository() *PlayerRatingRepository {
	return &PlayerRatingRepository{ratings: make(map[string]rating.PlayerRating)}
}

func (r *PlayerRatingRepository) Upsert(_ context.Context, ratings []rating.PlayerRating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range ratings {
		r.ratings[item.PlayerID+":"+item.CompetitionID] = item
	}
	return nil
}

func (r *PlayerRatingRepository) ListByPlayer(_ context.Context, playerID string) ([]rating.PlayerRating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rating.PlayerRating, 0)
	for _, item := range r.ratings {
		if item.PlayerID == playerID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompetitionID < out[j].CompetitionID })
	return out, nil
}

func (r *PlayerRatingRepository) ListTop(_ context.Context, group player.PositionGroup, limit int) ([]rating.PlayerRating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rating.PlayerRating, 0)
	for _, item := range r.ratings {
		if item.PositionGroup == group {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LevelScore != out[j].LevelScore {
			return out[i].LevelScore > out[j].LevelScore
		}
		if out[i].Rating365 != out[j].Rating365 {
			return out[i].Rating365 > out[j].Rating365
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *PlayerRatingRepository) DeleteStale(_ context.Context, competitionIDs []string, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	scope := idSet(competitionIDs)
	removed := 0
	for key, item := range r.ratings {
		if _, ok := scope[item.CompetitionID]; ok && item.ComputedAt.Before(cutoff) {
			delete(r.ratings, key)
			removed++
		}
	}
	return removed, nil
}

type CompetitionRatingRepository struct {
	mu      sync.RWMutex
	ratings map[string]rating.CompetitionRating
}

func NewCompetitionRatingRepository() *CompetitionRatingRepository {
	return &CompetitionRatingRepository{ratings: make(map[string]rating.CompetitionRating)}
}

func (r *CompetitionRatingRepository) Upsert(_ context.Context, ratings []rating.CompetitionRating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range ratings {
		r.ratings[item.CompetitionID] = item
	}
	return nil
}

func (r *CompetitionRatingRepository) GetByCompetition(_ context.Context, competitionID string) (rating.CompetitionRating, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.ratings[competitionID]
	return item, ok, nil
}

func (r *CompetitionRatingRepository) List(_ context.Context) ([]rating.CompetitionRating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rating.CompetitionRating, 0, len(r.ratings))
	for _, item := range r.ratings {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StrengthScore != out[j].StrengthScore {
			return out[i].StrengthScore > out[j].StrengthScore
		}
		return out[i].CompetitionID < out[j].CompetitionID
	})
	return out, nil
}

func (r *CompetitionRatingRepository) DeleteStale(_ context.Context, competitionIDs []string, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, id := range competitionIDs {
		if item, ok := r.ratings[id]; ok && item.ComputedAt.Before(cutoff) {
			delete(r.ratings, id)
			removed++
		}
	}
	return removed, nil
}

func idSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
