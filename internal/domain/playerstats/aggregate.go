package playerstats

import (
	"sort"
	"time"
)

// Aggregate builds a window over appearances dated within [from, to]
// inclusive. Appearances without minutes are ignored.
func Aggregate(playerID string, appearances []MatchAppearance, from, to time.Time) Window {
	included := make([]MatchAppearance, 0, len(appearances))
	for _, item := range appearances {
		if item.Minutes <= 0 {
			continue
		}
		if item.MatchDate.Before(from) || item.MatchDate.After(to) {
			continue
		}
		included = append(included, item)
	}

	w := summarize(playerID, included)
	w.Kind = WindowKindDays
	w.From = from
	w.To = to
	return w
}

// AggregateLastN builds a window over the n most recent appearances with
// minutes. From and To span the dates of the appearances taken.
func AggregateLastN(playerID string, appearances []MatchAppearance, n int) Window {
	sorted := make([]MatchAppearance, 0, len(appearances))
	for _, item := range appearances {
		if item.Minutes > 0 {
			sorted = append(sorted, item)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MatchDate.After(sorted[j].MatchDate)
	})
	if n < 0 {
		n = 0
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	w := summarize(playerID, sorted)
	w.Kind = WindowKindLastN
	if len(sorted) > 0 {
		w.To = sorted[0].MatchDate
		w.From = sorted[len(sorted)-1].MatchDate
	}
	return w
}

func summarize(playerID string, included []MatchAppearance) Window {
	w := Window{
		PlayerID: playerID,
		Totals:   make(map[Stat]float64),
		Per90:    make(map[Stat]float64),
	}

	var (
		accuracySum   float64
		accuracyCount int
	)
	for _, item := range included {
		w.Appearances++
		w.Minutes += item.Minutes
		if item.CleanSheet {
			w.CleanSheets++
		}
		if item.PassAccuracy != nil {
			accuracySum += *item.PassAccuracy
			accuracyCount++
		}
		for _, stat := range CountingStats {
			if v, ok := item.Value(stat); ok {
				w.Totals[stat] += v
			}
		}
	}

	if w.Minutes > 0 {
		for stat, total := range w.Totals {
			w.Per90[stat] = total * 90 / float64(w.Minutes)
		}
	}

	if accuracyCount > 0 {
		w.Ratios.PassCompletion = ptr(accuracySum / float64(accuracyCount))
	}
	w.Ratios.DuelWinRate = ratio(w.Totals, StatDuelsWon, StatDuels)
	w.Ratios.AerialWinRate = ratio(w.Totals, StatAerialsWon, StatAerials)
	w.Ratios.DribbleSuccessRate = ratio(w.Totals, StatDribblesWon, StatDribbles)
	w.Ratios.ShotAccuracy = ratio(w.Totals, StatShotsOnTarget, StatShots)
	if w.Appearances > 0 {
		w.Ratios.CleanSheetRate = ptr(float64(w.CleanSheets) / float64(w.Appearances))
	}
	if saves, conceded := w.Totals[StatSaves], w.Totals[StatGoalsConceded]; saves+conceded > 0 {
		w.Ratios.SaveRate = ptr(saves / (saves + conceded))
	}

	w.Features = buildFeatures(w)
	return w
}

func ratio(totals map[Stat]float64, numerator, denominator Stat) *float64 {
	d := totals[denominator]
	if d == 0 {
		return nil
	}
	return ptr(totals[numerator] / d)
}

func ptr(v float64) *float64 {
	return &v
}
