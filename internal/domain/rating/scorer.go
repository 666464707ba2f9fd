package rating

import (
	"math"
	"sort"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/playerstats"
)

const (
	DefaultMinMinutes = 300
	DefaultTopN       = 25

	ratingExponent = 0.9
	neutralScore   = 0.5
)

// tierFactors scales a rating by competition tier, 1 being the strongest.
var tierFactors = map[int]float64{
	1: 1.00,
	2: 0.94,
	3: 0.88,
	4: 0.82,
	5: 0.76,
	6: 0.70,
}

const lowestTierFactor = 0.70

// TierFactor returns the factor for tier; untiered competitions get the
// lowest tier's factor.
func TierFactor(tier int) float64 {
	if factor, ok := tierFactors[tier]; ok {
		return factor
	}
	return lowestTierFactor
}

// Input is one player's data for a rating run.
type Input struct {
	PlayerID      string
	CompetitionID string
	PositionGroup player.PositionGroup
	Tier          int
	Minutes365    int
	Features365   playerstats.Features
	FeaturesLast5 playerstats.Features
}

// Output is one player's computed rating.
type Output struct {
	PlayerID      string
	CompetitionID string
	PositionGroup player.PositionGroup
	Tier          int
	Minutes365    int
	Rating365     int
	RatingLast5   int
	LevelScore    int
}

type Options struct {
	MinMinutes int
}

// Distributions holds, per position group and feature, the population's
// values sorted ascending.
type Distributions map[player.PositionGroup]map[playerstats.Feature][]float64

// BuildDistributions collects every feature value of every player by position
// group. NaN and missing values are skipped.
func BuildDistributions(groups []player.PositionGroup, vectors []playerstats.Features) Distributions {
	out := make(Distributions)
	for i, features := range vectors {
		group := groups[i]
		byFeature, ok := out[group]
		if !ok {
			byFeature = make(map[playerstats.Feature][]float64)
			out[group] = byFeature
		}
		for name, value := range features {
			if math.IsNaN(value) || math.IsInf(value, 0) {
				continue
			}
			byFeature[name] = append(byFeature[name], value)
		}
	}
	for _, byFeature := range out {
		for _, values := range byFeature {
			sort.Float64s(values)
		}
	}
	return out
}

// Percentile returns the mid-rank percentile of v in sorted:
// (count below + half the count equal) / n. Populations of 0 or 1 return 0.5.
func Percentile(v float64, sorted []float64) float64 {
	n := len(sorted)
	if n <= 1 {
		return neutralScore
	}
	below := sort.SearchFloat64s(sorted, v)
	notAbove := sort.Search(n, func(i int) bool { return sorted[i] > v })
	equal := notAbove - below
	return (float64(below) + 0.5*float64(equal)) / float64(n)
}

// WeightedScore combines the percentiles of the profile's features into a
// score in [0,1]. Features with zero weight, no value or no distribution are
// skipped; with nothing usable the score is 0.5.
func WeightedScore(features playerstats.Features, profile Profile, dist map[playerstats.Feature][]float64) float64 {
	var weightedSum, totalWeight float64
	for _, name := range playerstats.FeatureNames {
		weight := profile.Weights[name]
		if weight == 0 {
			continue
		}
		value, ok := features[name]
		if !ok || math.IsNaN(value) {
			continue
		}
		sorted := dist[name]
		if len(sorted) == 0 {
			continue
		}

		p := Percentile(value, sorted)
		if profile.IsInverted(name) {
			p = 1 - p
		}
		weightedSum += p * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return neutralScore
	}
	return weightedSum / totalWeight
}

// Transform maps a score in [0,1] to a 0-100 rating with round(100*score^0.9).
func Transform(score float64) int {
	if math.IsNaN(score) {
		score = neutralScore
	}
	score = clamp(score, 0, 1)
	return clampInt(int(math.Round(100*math.Pow(score, ratingExponent))), 0, 100)
}

// LevelScore adjusts a 365-day rating by competition tier.
func LevelScore(rating365, tier int) int {
	return clampInt(int(math.Round(float64(rating365)*TierFactor(tier))), 0, 100)
}

// CompetitionStrength averages the top n level scores, or all of them when
// fewer than n are available. An empty input yields 0.
func CompetitionStrength(levelScores []int, n int) int {
	if len(levelScores) == 0 {
		return 0
	}
	sorted := append([]int(nil), levelScores...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}

	sum := 0
	for _, score := range sorted {
		sum += score
	}
	return int(math.Round(float64(sum) / float64(len(sorted))))
}

// ComputeAllRatings rates every eligible player. Distributions for the 365-day
// and last-5 windows are built per position group from the eligible
// population before any player is scored.
func ComputeAllRatings(inputs []Input, profiles map[player.PositionGroup]Profile, opts Options) []Output {
	eligible := make([]Input, 0, len(inputs))
	for _, item := range inputs {
		if _, ok := player.AllPositionGroups[item.PositionGroup]; !ok {
			continue
		}
		if item.Minutes365 < opts.MinMinutes {
			continue
		}
		eligible = append(eligible, item)
	}

	groups := make([]player.PositionGroup, len(eligible))
	vectors365 := make([]playerstats.Features, len(eligible))
	vectorsLast5 := make([]playerstats.Features, len(eligible))
	for i, item := range eligible {
		groups[i] = item.PositionGroup
		vectors365[i] = item.Features365
		vectorsLast5[i] = item.FeaturesLast5
	}
	dist365 := BuildDistributions(groups, vectors365)
	distLast5 := BuildDistributions(groups, vectorsLast5)

	out := make([]Output, 0, len(eligible))
	for _, item := range eligible {
		profile := profiles[item.PositionGroup]
		rating365 := Transform(WeightedScore(item.Features365, profile, dist365[item.PositionGroup]))
		ratingLast5 := Transform(WeightedScore(item.FeaturesLast5, profile, distLast5[item.PositionGroup]))

		out = append(out, Output{
			PlayerID:      item.PlayerID,
			CompetitionID: item.CompetitionID,
			PositionGroup: item.PositionGroup,
			Tier:          item.Tier,
			Minutes365:    item.Minutes365,
			Rating365:     rating365,
			RatingLast5:   ratingLast5,
			LevelScore:    LevelScore(rating365, item.Tier),
		})
	}
	return out
}

// RateCompetitions groups outputs by competition and computes each strength
// from the top n level scores.
func RateCompetitions(outputs []Output, tiers map[string]int, n int) []CompetitionRating {
	scores := make(map[string][]int)
	order := make([]string, 0)
	for _, item := range outputs {
		if item.CompetitionID == "" {
			continue
		}
		if _, ok := scores[item.CompetitionID]; !ok {
			order = append(order, item.CompetitionID)
		}
		scores[item.CompetitionID] = append(scores[item.CompetitionID], item.LevelScore)
	}
	sort.Strings(order)

	out := make([]CompetitionRating, 0, len(order))
	for _, competitionID := range order {
		out = append(out, CompetitionRating{
			CompetitionID: competitionID,
			Tier:          tiers[competitionID],
			StrengthScore: CompetitionStrength(scores[competitionID], n),
			RatedPlayers:  len(scores[competitionID]),
		})
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
