package playerstats

// Feature names one entry of the dense feature vector used for rating.
type Feature string

const (
	FeatureGoalsPer90                Feature = "goalsPer90"
	FeatureAssistsPer90              Feature = "assistsPer90"
	FeatureShotsPer90                Feature = "shotsPer90"
	FeatureShotsOnTargetPer90        Feature = "shotsOnTargetPer90"
	FeatureXGPer90                   Feature = "xgPer90"
	FeatureXAPer90                   Feature = "xaPer90"
	FeatureKeyPassesPer90            Feature = "keyPassesPer90"
	FeatureBigChancesCreatedPer90    Feature = "bigChancesCreatedPer90"
	FeaturePassesPer90               Feature = "passesPer90"
	FeaturePassCompletion            Feature = "passCompletion"
	FeatureSuccessfulDribblesPer90   Feature = "successfulDribblesPer90"
	FeatureDribbleSuccessRate        Feature = "dribbleSuccessRate"
	FeatureTacklesPer90              Feature = "tacklesPer90"
	FeatureInterceptionsPer90        Feature = "interceptionsPer90"
	FeatureTacklesInterceptionsPer90 Feature = "tacklesInterceptionsPer90"
	FeatureClearancesPer90           Feature = "clearancesPer90"
	FeatureBlocksPer90               Feature = "blocksPer90"
	FeatureRecoveriesPer90           Feature = "recoveriesPer90"
	FeatureDuelsWonPer90             Feature = "duelsWonPer90"
	FeatureDuelWinRate               Feature = "duelWinRate"
	FeatureAerialsWonPer90           Feature = "aerialsWonPer90"
	FeatureAerialWinRate             Feature = "aerialWinRate"
	FeatureFoulsCommittedPer90       Feature = "foulsCommittedPer90"
	FeatureFoulsDrawnPer90           Feature = "foulsDrawnPer90"
	FeatureDispossessedPer90         Feature = "dispossessedPer90"
	FeatureCardsPenaltyPer90         Feature = "cardsPenaltyPer90"
	FeatureShotAccuracy              Feature = "shotAccuracy"
	FeatureSavesPer90                Feature = "savesPer90"
	FeatureSaveRate                  Feature = "saveRate"
	FeatureGoalsConcededPer90        Feature = "goalsConcededPer90"
	FeatureCleanSheetRate            Feature = "cleanSheetRate"
	FeatureMinutes                   Feature = "minutes"
	FeatureAppearances               Feature = "appearances"
)

// FeatureNames is the fixed shape of every feature vector.
var FeatureNames = []Feature{
	FeatureGoalsPer90,
	FeatureAssistsPer90,
	FeatureShotsPer90,
	FeatureShotsOnTargetPer90,
	FeatureXGPer90,
	FeatureXAPer90,
	FeatureKeyPassesPer90,
	FeatureBigChancesCreatedPer90,
	FeaturePassesPer90,
	FeaturePassCompletion,
	FeatureSuccessfulDribblesPer90,
	FeatureDribbleSuccessRate,
	FeatureTacklesPer90,
	FeatureInterceptionsPer90,
	FeatureTacklesInterceptionsPer90,
	FeatureClearancesPer90,
	FeatureBlocksPer90,
	FeatureRecoveriesPer90,
	FeatureDuelsWonPer90,
	FeatureDuelWinRate,
	FeatureAerialsWonPer90,
	FeatureAerialWinRate,
	FeatureFoulsCommittedPer90,
	FeatureFoulsDrawnPer90,
	FeatureDispossessedPer90,
	FeatureCardsPenaltyPer90,
	FeatureShotAccuracy,
	FeatureSavesPer90,
	FeatureSaveRate,
	FeatureGoalsConcededPer90,
	FeatureCleanSheetRate,
	FeatureMinutes,
	FeatureAppearances,
}

var knownFeatures = func() map[Feature]struct{} {
	out := make(map[Feature]struct{}, len(FeatureNames))
	for _, name := range FeatureNames {
		out[name] = struct{}{}
	}
	return out
}()

func IsKnownFeature(name Feature) bool {
	_, ok := knownFeatures[name]
	return ok
}

// Features is a dense feature vector: every name in FeatureNames is present.
type Features map[Feature]float64

var per90Features = []struct {
	feature Feature
	stat    Stat
}{
	{FeatureGoalsPer90, StatGoals},
	{FeatureAssistsPer90, StatAssists},
	{FeatureShotsPer90, StatShots},
	{FeatureShotsOnTargetPer90, StatShotsOnTarget},
	{FeatureXGPer90, StatExpectedGoals},
	{FeatureXAPer90, StatExpectedAssists},
	{FeatureKeyPassesPer90, StatKeyPasses},
	{FeatureBigChancesCreatedPer90, StatBigChancesCreated},
	{FeaturePassesPer90, StatPasses},
	{FeatureSuccessfulDribblesPer90, StatDribblesWon},
	{FeatureTacklesPer90, StatTackles},
	{FeatureInterceptionsPer90, StatInterceptions},
	{FeatureClearancesPer90, StatClearances},
	{FeatureBlocksPer90, StatBlocks},
	{FeatureRecoveriesPer90, StatRecoveries},
	{FeatureDuelsWonPer90, StatDuelsWon},
	{FeatureAerialsWonPer90, StatAerialsWon},
	{FeatureFoulsCommittedPer90, StatFoulsCommitted},
	{FeatureFoulsDrawnPer90, StatFoulsDrawn},
	{FeatureDispossessedPer90, StatDispossessed},
	{FeatureSavesPer90, StatSaves},
	{FeatureGoalsConcededPer90, StatGoalsConceded},
}

// buildFeatures is the single place where absent values become 0.
func buildFeatures(w Window) Features {
	out := make(Features, len(FeatureNames))
	for _, name := range FeatureNames {
		out[name] = 0
	}

	for _, item := range per90Features {
		out[item.feature] = w.Per90[item.stat]
	}
	out[FeatureTacklesInterceptionsPer90] = w.Per90[StatTackles] + w.Per90[StatInterceptions]
	if w.Minutes > 0 {
		cards := w.Totals[StatYellowCards] + 3*w.Totals[StatRedCards]
		out[FeatureCardsPenaltyPer90] = cards * 90 / float64(w.Minutes)
	}

	out[FeaturePassCompletion] = orZero(w.Ratios.PassCompletion)
	out[FeatureDribbleSuccessRate] = orZero(w.Ratios.DribbleSuccessRate)
	out[FeatureDuelWinRate] = orZero(w.Ratios.DuelWinRate)
	out[FeatureAerialWinRate] = orZero(w.Ratios.AerialWinRate)
	out[FeatureShotAccuracy] = orZero(w.Ratios.ShotAccuracy)
	out[FeatureSaveRate] = orZero(w.Ratios.SaveRate)
	out[FeatureCleanSheetRate] = orZero(w.Ratios.CleanSheetRate)

	out[FeatureMinutes] = float64(w.Minutes)
	out[FeatureAppearances] = float64(w.Appearances)
	return out
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
