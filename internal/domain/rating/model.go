package rating

import (
	"fmt"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/playerstats"
)

// Profile weights features for one position group. Features listed in
// InvertMetrics are "lower is better".
type Profile struct {
	PositionGroup player.PositionGroup
	Weights       map[playerstats.Feature]float64
	InvertMetrics map[playerstats.Feature]struct{}
	UpdatedAt     time.Time
}

func (p Profile) Validate() error {
	if _, ok := player.AllPositionGroups[p.PositionGroup]; !ok {
		return fmt.Errorf("invalid rating profile position group: %s", p.PositionGroup)
	}
	if len(p.Weights) == 0 {
		return fmt.Errorf("rating profile %s has no weights", p.PositionGroup)
	}

	positive := false
	for feature, weight := range p.Weights {
		if !playerstats.IsKnownFeature(feature) {
			return fmt.Errorf("rating profile %s: unknown feature %q", p.PositionGroup, feature)
		}
		if weight < 0 {
			return fmt.Errorf("rating profile %s: negative weight for %q", p.PositionGroup, feature)
		}
		if weight > 0 {
			positive = true
		}
	}
	if !positive {
		return fmt.Errorf("rating profile %s needs at least one positive weight", p.PositionGroup)
	}
	for feature := range p.InvertMetrics {
		if !playerstats.IsKnownFeature(feature) {
			return fmt.Errorf("rating profile %s: unknown inverted feature %q", p.PositionGroup, feature)
		}
	}
	return nil
}

func (p Profile) IsInverted(feature playerstats.Feature) bool {
	_, ok := p.InvertMetrics[feature]
	return ok
}

// PlayerRating is one run's result for a (player, competition) pair.
type PlayerRating struct {
	PlayerID      string
	CompetitionID string
	PositionGroup player.PositionGroup
	Rating365     int
	RatingLast5   int
	Tier          int
	LevelScore    int
	Minutes365    int
	ComputedAt    time.Time
}

// CompetitionRating is the strength of a competition from its best rated
// players.
type CompetitionRating struct {
	CompetitionID string
	Tier          int
	StrengthScore int
	RatedPlayers  int
	ComputedAt    time.Time
}
