package rating

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/playerstats"
)

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, 0.5, Percentile(3, sorted))
	assert.Equal(t, 0.1, Percentile(1, sorted))
	assert.Equal(t, 0.9, Percentile(5, sorted))
	assert.Equal(t, 0.0, Percentile(0, sorted))
	assert.Equal(t, 1.0, Percentile(6, sorted))
	assert.Equal(t, 0.5, Percentile(2, []float64{2, 2, 2, 2}))
}

func TestPercentile_DegeneratePopulations(t *testing.T) {
	assert.Equal(t, 0.5, Percentile(10, nil))
	assert.Equal(t, 0.5, Percentile(10, []float64{3}))
}

func TestTransform_Bounded(t *testing.T) {
	for _, score := range []float64{-1, 0, 0.001, 0.25, 0.5, 0.75, 0.999, 1, 2, math.NaN(), math.Inf(1), math.Inf(-1)} {
		got := Transform(score)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
	assert.Equal(t, 0, Transform(0))
	assert.Equal(t, 100, Transform(1))
	assert.Equal(t, 54, Transform(0.5))
}

func TestLevelScore(t *testing.T) {
	assert.Equal(t, 80, LevelScore(80, 1))
	assert.Equal(t, 75, LevelScore(80, 2))
	assert.Equal(t, 56, LevelScore(80, 6))
	assert.Equal(t, 56, LevelScore(80, 0))
	assert.Equal(t, 100, LevelScore(100, 1))
}

func TestCompetitionStrength(t *testing.T) {
	assert.Equal(t, 0, CompetitionStrength(nil, 25))
	assert.Equal(t, 70, CompetitionStrength([]int{60, 80}, 25))
	assert.Equal(t, 85, CompetitionStrength([]int{10, 90, 80, 20}, 2))
	assert.Equal(t, 50, CompetitionStrength([]int{10, 90}, 0))
}

func TestWeightedScore_InvertsAndSkips(t *testing.T) {
	profile := Profile{
		PositionGroup: player.PositionGroupGoalkeeper,
		Weights: map[playerstats.Feature]float64{
			playerstats.FeatureGoalsConcededPer90: 1,
			playerstats.FeatureSavesPer90:         0,
			playerstats.FeatureSaveRate:           2,
		},
		InvertMetrics: DefaultInvertMetrics(),
	}
	dist := map[playerstats.Feature][]float64{
		playerstats.FeatureGoalsConcededPer90: {0.5, 1, 1.5, 2, 2.5},
	}

	// save rate has no distribution and is skipped; 0.5 conceded ranks 0.1
	// and inverts to 0.9.
	got := WeightedScore(playerstats.Features{
		playerstats.FeatureGoalsConcededPer90: 0.5,
		playerstats.FeatureSaveRate:           0.8,
	}, profile, dist)
	assert.InDelta(t, 0.9, got, 1e-9)

	assert.Equal(t, 0.5, WeightedScore(playerstats.Features{}, profile, dist))
	assert.Equal(t, 0.5, WeightedScore(playerstats.Features{playerstats.FeatureSaveRate: 1}, Profile{}, dist))
}

func TestBuildDistributions_SeparatesGroupsAndSkipsNaN(t *testing.T) {
	dist := BuildDistributions(
		[]player.PositionGroup{player.PositionGroupAttacker, player.PositionGroupGoalkeeper, player.PositionGroupAttacker},
		[]playerstats.Features{
			{playerstats.FeatureGoalsPer90: 0.8},
			{playerstats.FeatureGoalsPer90: 0},
			{playerstats.FeatureGoalsPer90: 0.3, playerstats.FeatureXGPer90: math.NaN()},
		},
	)

	assert.Equal(t, []float64{0.3, 0.8}, dist[player.PositionGroupAttacker][playerstats.FeatureGoalsPer90])
	assert.Equal(t, []float64{0}, dist[player.PositionGroupGoalkeeper][playerstats.FeatureGoalsPer90])
	assert.Empty(t, dist[player.PositionGroupAttacker][playerstats.FeatureXGPer90])
}

func features(goals float64) playerstats.Features {
	out := make(playerstats.Features, len(playerstats.FeatureNames))
	for _, name := range playerstats.FeatureNames {
		out[name] = 0
	}
	out[playerstats.FeatureGoalsPer90] = goals
	out[playerstats.FeatureMinutes] = 900
	return out
}

func TestComputeAllRatings(t *testing.T) {
	profiles := map[player.PositionGroup]Profile{
		player.PositionGroupAttacker: {
			PositionGroup: player.PositionGroupAttacker,
			Weights:       map[playerstats.Feature]float64{playerstats.FeatureGoalsPer90: 1},
		},
	}
	inputs := []Input{
		{PlayerID: "a", CompetitionID: "c1", PositionGroup: player.PositionGroupAttacker, Tier: 1, Minutes365: 900, Features365: features(1.0), FeaturesLast5: features(0.1)},
		{PlayerID: "b", CompetitionID: "c1", PositionGroup: player.PositionGroupAttacker, Tier: 1, Minutes365: 900, Features365: features(0.5), FeaturesLast5: features(0.9)},
		{PlayerID: "c", CompetitionID: "c2", PositionGroup: player.PositionGroupAttacker, Tier: 3, Minutes365: 900, Features365: features(0.1), FeaturesLast5: features(0.5)},
		{PlayerID: "thin", CompetitionID: "c2", PositionGroup: player.PositionGroupAttacker, Tier: 3, Minutes365: 120, Features365: features(3.0)},
		{PlayerID: "gk", CompetitionID: "c2", PositionGroup: player.PositionGroupGoalkeeper, Tier: 3, Minutes365: 900, Features365: features(0)},
	}

	out := ComputeAllRatings(inputs, profiles, Options{MinMinutes: DefaultMinMinutes})
	require.Len(t, out, 4)

	byID := make(map[string]Output, len(out))
	for _, item := range out {
		assert.GreaterOrEqual(t, item.Rating365, 0)
		assert.LessOrEqual(t, item.Rating365, 100)
		byID[item.PlayerID] = item
	}
	assert.NotContains(t, byID, "thin")

	// 1.0 ranks top of three attackers: (2 + 0.5) / 3.
	assert.Equal(t, Transform(2.5/3), byID["a"].Rating365)
	assert.Equal(t, Transform(0.5/3), byID["a"].RatingLast5)
	assert.Greater(t, byID["a"].Rating365, byID["c"].Rating365)
	assert.Equal(t, LevelScore(byID["c"].Rating365, 3), byID["c"].LevelScore)

	// no profile for goalkeepers: neutral score.
	assert.Equal(t, Transform(0.5), byID["gk"].Rating365)

	competitions := RateCompetitions(out, map[string]int{"c1": 1, "c2": 3}, DefaultTopN)
	require.Len(t, competitions, 2)
	assert.Equal(t, "c1", competitions[0].CompetitionID)
	assert.Equal(t, 2, competitions[0].RatedPlayers)
	assert.Equal(t, 1, competitions[0].Tier)
	assert.Equal(t, CompetitionStrength([]int{byID["a"].LevelScore, byID["b"].LevelScore}, DefaultTopN), competitions[0].StrengthScore)
}

func TestDefaultProfilesAreValid(t *testing.T) {
	profiles := DefaultProfiles()
	require.Len(t, profiles, len(player.OrderedPositionGroups))
	for _, group := range player.OrderedPositionGroups {
		profile, ok := profiles[group]
		require.True(t, ok, group)
		assert.NoError(t, profile.Validate())
	}
}

func TestProfileValidate_RejectsUnknownFeature(t *testing.T) {
	profile := Profile{
		PositionGroup: player.PositionGroupMidfielder,
		Weights:       map[playerstats.Feature]float64{"vibes": 1},
	}
	assert.Error(t, profile.Validate())
}
