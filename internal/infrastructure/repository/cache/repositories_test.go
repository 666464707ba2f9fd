package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/scout-core/internal/domain/competition"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/rating"
	"github.com/riskibarqy/scout-core/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/scout-core/internal/platform/cache"
)

type countingCompetitions struct {
	competition.Repository
	gets int
}

func (c *countingCompetitions) GetByID(ctx context.Context, id string) (competition.Competition, bool, error) {
	c.gets++
	return c.Repository.GetByID(ctx, id)
}

func TestCompetitionRepository_CachesAndInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := &countingCompetitions{Repository: memory.NewCompetitionRepository(memory.SeedCompetitions())}
	repo := NewCompetitionRepository(inner, basecache.NewStore[any](time.Minute))

	first, ok, err := repo.GetByID(ctx, memory.CompetitionIDEredivisie)
	require.NoError(t, err)
	require.True(t, ok)
	_, _, err = repo.GetByID(ctx, memory.CompetitionIDEredivisie)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.gets)

	first.Tier = 3
	require.NoError(t, repo.Upsert(ctx, first))

	updated, ok, err := repo.GetByID(ctx, memory.CompetitionIDEredivisie)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, updated.Tier)
	assert.Equal(t, 2, inner.gets)
}

func TestCompetitionRepository_CachesMisses(t *testing.T) {
	ctx := context.Background()
	inner := &countingCompetitions{Repository: memory.NewCompetitionRepository(nil)}
	repo := NewCompetitionRepository(inner, basecache.NewStore[any](time.Minute))

	for i := 0; i < 2; i++ {
		_, ok, err := repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 1, inner.gets)
}

func TestRatingProfileRepository_UpsertInvalidatesList(t *testing.T) {
	ctx := context.Background()
	repo := NewRatingProfileRepository(
		memory.NewRatingProfileRepository(rating.DefaultProfiles()),
		basecache.NewStore[any](time.Minute),
	)

	profiles, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 4)

	gk, ok, err := repo.GetByPositionGroup(ctx, player.PositionGroupGoalkeeper)
	require.NoError(t, err)
	require.True(t, ok)

	gk.Weights = rating.DefaultProfiles()[player.PositionGroupAttacker].Weights
	require.NoError(t, repo.Upsert(ctx, gk))

	reloaded, ok, err := repo.GetByPositionGroup(ctx, player.PositionGroupGoalkeeper)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rating.DefaultProfiles()[player.PositionGroupAttacker].Weights, reloaded.Weights)
}
