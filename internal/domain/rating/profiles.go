package rating

import (
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/playerstats"
)

// DefaultInvertMetrics are the features where a lower value is better.
func DefaultInvertMetrics() map[playerstats.Feature]struct{} {
	return map[playerstats.Feature]struct{}{
		playerstats.FeatureFoulsCommittedPer90: {},
		playerstats.FeatureDispossessedPer90:   {},
		playerstats.FeatureCardsPenaltyPer90:   {},
		playerstats.FeatureGoalsConcededPer90:  {},
	}
}

// DefaultProfiles returns the seed profile of every position group.
func DefaultProfiles() map[player.PositionGroup]Profile {
	return map[player.PositionGroup]Profile{
		player.PositionGroupGoalkeeper: {
			PositionGroup: player.PositionGroupGoalkeeper,
			Weights: map[playerstats.Feature]float64{
				playerstats.FeatureSaveRate:           4,
				playerstats.FeatureSavesPer90:         3,
				playerstats.FeatureGoalsConcededPer90: 3,
				playerstats.FeatureCleanSheetRate:     3,
				playerstats.FeaturePassCompletion:     1,
				playerstats.FeaturePassesPer90:        0.5,
				playerstats.FeatureAerialsWonPer90:    0.5,
				playerstats.FeatureRecoveriesPer90:    0.5,
				playerstats.FeatureCardsPenaltyPer90:  0.5,
			},
			InvertMetrics: DefaultInvertMetrics(),
		},
		player.PositionGroupDefender: {
			PositionGroup: player.PositionGroupDefender,
			Weights: map[playerstats.Feature]float64{
				playerstats.FeatureTacklesInterceptionsPer90: 3,
				playerstats.FeatureClearancesPer90:           2,
				playerstats.FeatureAerialWinRate:             2,
				playerstats.FeatureDuelWinRate:               2,
				playerstats.FeatureBlocksPer90:               1.5,
				playerstats.FeatureAerialsWonPer90:           1.5,
				playerstats.FeaturePassCompletion:            1.5,
				playerstats.FeatureRecoveriesPer90:           1,
				playerstats.FeaturePassesPer90:               1,
				playerstats.FeatureGoalsConcededPer90:        1,
				playerstats.FeatureCleanSheetRate:            1,
				playerstats.FeatureCardsPenaltyPer90:         1,
				playerstats.FeatureKeyPassesPer90:            0.5,
				playerstats.FeatureXAPer90:                   0.5,
				playerstats.FeatureFoulsCommittedPer90:       0.5,
				playerstats.FeatureDispossessedPer90:         0.5,
			},
			InvertMetrics: DefaultInvertMetrics(),
		},
		player.PositionGroupMidfielder: {
			PositionGroup: player.PositionGroupMidfielder,
			Weights: map[playerstats.Feature]float64{
				playerstats.FeatureKeyPassesPer90:            2.5,
				playerstats.FeatureXAPer90:                   2,
				playerstats.FeaturePassesPer90:               2,
				playerstats.FeaturePassCompletion:            2,
				playerstats.FeatureAssistsPer90:              1.5,
				playerstats.FeatureBigChancesCreatedPer90:    1.5,
				playerstats.FeatureTacklesInterceptionsPer90: 1.5,
				playerstats.FeatureSuccessfulDribblesPer90:   1,
				playerstats.FeatureRecoveriesPer90:           1,
				playerstats.FeatureDuelWinRate:               1,
				playerstats.FeatureGoalsPer90:                1,
				playerstats.FeatureXGPer90:                   1,
				playerstats.FeatureDispossessedPer90:         1,
				playerstats.FeatureFoulsCommittedPer90:       0.5,
				playerstats.FeatureCardsPenaltyPer90:         0.5,
			},
			InvertMetrics: DefaultInvertMetrics(),
		},
		player.PositionGroupAttacker: {
			PositionGroup: player.PositionGroupAttacker,
			Weights: map[playerstats.Feature]float64{
				playerstats.FeatureGoalsPer90:              3.5,
				playerstats.FeatureXGPer90:                 3,
				playerstats.FeatureShotsOnTargetPer90:      1.5,
				playerstats.FeatureAssistsPer90:            1.5,
				playerstats.FeatureXAPer90:                 1.5,
				playerstats.FeatureSuccessfulDribblesPer90: 1.5,
				playerstats.FeatureShotAccuracy:            1,
				playerstats.FeatureKeyPassesPer90:          1,
				playerstats.FeatureBigChancesCreatedPer90:  1,
				playerstats.FeatureDribbleSuccessRate:      1,
				playerstats.FeatureDispossessedPer90:       1,
				playerstats.FeatureFoulsDrawnPer90:         0.5,
				playerstats.FeatureAerialsWonPer90:         0.5,
				playerstats.FeatureDuelsWonPer90:           0.5,
				playerstats.FeatureCardsPenaltyPer90:       0.5,
			},
			InvertMetrics: DefaultInvertMetrics(),
		},
	}
}
