package playerstats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

// Stat names one counting statistic of a match appearance.
type Stat string

const (
	StatGoals             Stat = "goals"
	StatAssists           Stat = "assists"
	StatShots             Stat = "shots"
	StatShotsOnTarget     Stat = "shots_on_target"
	StatExpectedGoals     Stat = "xg"
	StatExpectedAssists   Stat = "xa"
	StatKeyPasses         Stat = "key_passes"
	StatBigChancesCreated Stat = "big_chances_created"
	StatPasses            Stat = "passes"
	StatDribbles          Stat = "dribbles"
	StatDribblesWon       Stat = "dribbles_won"
	StatTackles           Stat = "tackles"
	StatInterceptions     Stat = "interceptions"
	StatClearances        Stat = "clearances"
	StatBlocks            Stat = "blocks"
	StatRecoveries        Stat = "recoveries"
	StatDuels             Stat = "duels"
	StatDuelsWon          Stat = "duels_won"
	StatAerials           Stat = "aerials"
	StatAerialsWon        Stat = "aerials_won"
	StatFoulsCommitted    Stat = "fouls_committed"
	StatFoulsDrawn        Stat = "fouls_drawn"
	StatDispossessed      Stat = "dispossessed"
	StatYellowCards       Stat = "yellow_cards"
	StatRedCards          Stat = "red_cards"
	StatSaves             Stat = "saves"
	StatGoalsConceded     Stat = "goals_conceded"
)

// CountingStats is every summable statistic in aggregation order.
var CountingStats = []Stat{
	StatGoals, StatAssists, StatShots, StatShotsOnTarget,
	StatExpectedGoals, StatExpectedAssists, StatKeyPasses, StatBigChancesCreated,
	StatPasses, StatDribbles, StatDribblesWon, StatTackles, StatInterceptions,
	StatClearances, StatBlocks, StatRecoveries, StatDuels, StatDuelsWon,
	StatAerials, StatAerialsWon, StatFoulsCommitted, StatFoulsDrawn,
	StatDispossessed, StatYellowCards, StatRedCards, StatSaves, StatGoalsConceded,
}

// MatchAppearance is one player's statistics for one match. Nil pointers mean
// the provider did not report the stat, which is different from zero.
// PassAccuracy is the fraction of completed passes in [0,1].
type MatchAppearance struct {
	Provider      provider.Provider `json:"provider" validate:"required"`
	FixtureID     string            `json:"fixture_id" validate:"required"`
	PlayerID      string            `json:"player_id" validate:"required"`
	CompetitionID string            `json:"competition_id,omitempty"`
	TeamID        string            `json:"team_id,omitempty"`
	MatchDate     time.Time         `json:"match_date" validate:"required"`
	Minutes       int               `json:"minutes" validate:"gte=0,lte=150"`
	CleanSheet    bool              `json:"clean_sheet"`
	PassAccuracy  *float64          `json:"pass_accuracy,omitempty" validate:"omitempty,gte=0,lte=1"`

	Goals             *int     `json:"goals,omitempty"`
	Assists           *int     `json:"assists,omitempty"`
	Shots             *int     `json:"shots,omitempty"`
	ShotsOnTarget     *int     `json:"shots_on_target,omitempty"`
	ExpectedGoals     *float64 `json:"xg,omitempty"`
	ExpectedAssists   *float64 `json:"xa,omitempty"`
	KeyPasses         *int     `json:"key_passes,omitempty"`
	BigChancesCreated *int     `json:"big_chances_created,omitempty"`
	Passes            *int     `json:"passes,omitempty"`
	Dribbles          *int     `json:"dribbles,omitempty"`
	DribblesWon       *int     `json:"dribbles_won,omitempty"`
	Tackles           *int     `json:"tackles,omitempty"`
	Interceptions     *int     `json:"interceptions,omitempty"`
	Clearances        *int     `json:"clearances,omitempty"`
	Blocks            *int     `json:"blocks,omitempty"`
	Recoveries        *int     `json:"recoveries,omitempty"`
	Duels             *int     `json:"duels,omitempty"`
	DuelsWon          *int     `json:"duels_won,omitempty"`
	Aerials           *int     `json:"aerials,omitempty"`
	AerialsWon        *int     `json:"aerials_won,omitempty"`
	FoulsCommitted    *int     `json:"fouls_committed,omitempty"`
	FoulsDrawn        *int     `json:"fouls_drawn,omitempty"`
	Dispossessed      *int     `json:"dispossessed,omitempty"`
	YellowCards       *int     `json:"yellow_cards,omitempty"`
	RedCards          *int     `json:"red_cards,omitempty"`
	Saves             *int     `json:"saves,omitempty"`
	GoalsConceded     *int     `json:"goals_conceded,omitempty"`
}

func (a MatchAppearance) Validate() error {
	if err := a.Provider.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(a.FixtureID) == "" {
		return fmt.Errorf("fixture id is required")
	}
	if strings.TrimSpace(a.PlayerID) == "" {
		return fmt.Errorf("player id is required")
	}
	if a.MatchDate.IsZero() {
		return fmt.Errorf("match date is required")
	}
	if a.Minutes < 0 {
		return fmt.Errorf("minutes must be >= 0")
	}
	return nil
}

// Key is the natural upsert key of an appearance.
func (a MatchAppearance) Key() string {
	return string(a.Provider) + ":" + a.FixtureID + ":" + a.PlayerID
}

// Value returns the reported value of s, or false when it is absent.
func (a MatchAppearance) Value(s Stat) (float64, bool) {
	switch s {
	case StatExpectedGoals:
		return floatValue(a.ExpectedGoals)
	case StatExpectedAssists:
		return floatValue(a.ExpectedAssists)
	}

	var v *int
	switch s {
	case StatGoals:
		v = a.Goals
	case StatAssists:
		v = a.Assists
	case StatShots:
		v = a.Shots
	case StatShotsOnTarget:
		v = a.ShotsOnTarget
	case StatKeyPasses:
		v = a.KeyPasses
	case StatBigChancesCreated:
		v = a.BigChancesCreated
	case StatPasses:
		v = a.Passes
	case StatDribbles:
		v = a.Dribbles
	case StatDribblesWon:
		v = a.DribblesWon
	case StatTackles:
		v = a.Tackles
	case StatInterceptions:
		v = a.Interceptions
	case StatClearances:
		v = a.Clearances
	case StatBlocks:
		v = a.Blocks
	case StatRecoveries:
		v = a.Recoveries
	case StatDuels:
		v = a.Duels
	case StatDuelsWon:
		v = a.DuelsWon
	case StatAerials:
		v = a.Aerials
	case StatAerialsWon:
		v = a.AerialsWon
	case StatFoulsCommitted:
		v = a.FoulsCommitted
	case StatFoulsDrawn:
		v = a.FoulsDrawn
	case StatDispossessed:
		v = a.Dispossessed
	case StatYellowCards:
		v = a.YellowCards
	case StatRedCards:
		v = a.RedCards
	case StatSaves:
		v = a.Saves
	case StatGoalsConceded:
		v = a.GoalsConceded
	}
	if v == nil {
		return 0, false
	}
	return float64(*v), true
}

// SetValue stores v as the reported value of s. Counting stats are rounded to
// the nearest integer.
func (a *MatchAppearance) SetValue(s Stat, v float64) {
	switch s {
	case StatExpectedGoals:
		a.ExpectedGoals = &v
		return
	case StatExpectedAssists:
		a.ExpectedAssists = &v
		return
	}

	n := int(math.Round(v))
	switch s {
	case StatGoals:
		a.Goals = &n
	case StatAssists:
		a.Assists = &n
	case StatShots:
		a.Shots = &n
	case StatShotsOnTarget:
		a.ShotsOnTarget = &n
	case StatKeyPasses:
		a.KeyPasses = &n
	case StatBigChancesCreated:
		a.BigChancesCreated = &n
	case StatPasses:
		a.Passes = &n
	case StatDribbles:
		a.Dribbles = &n
	case StatDribblesWon:
		a.DribblesWon = &n
	case StatTackles:
		a.Tackles = &n
	case StatInterceptions:
		a.Interceptions = &n
	case StatClearances:
		a.Clearances = &n
	case StatBlocks:
		a.Blocks = &n
	case StatRecoveries:
		a.Recoveries = &n
	case StatDuels:
		a.Duels = &n
	case StatDuelsWon:
		a.DuelsWon = &n
	case StatAerials:
		a.Aerials = &n
	case StatAerialsWon:
		a.AerialsWon = &n
	case StatFoulsCommitted:
		a.FoulsCommitted = &n
	case StatFoulsDrawn:
		a.FoulsDrawn = &n
	case StatDispossessed:
		a.Dispossessed = &n
	case StatYellowCards:
		a.YellowCards = &n
	case StatRedCards:
		a.RedCards = &n
	case StatSaves:
		a.Saves = &n
	case StatGoalsConceded:
		a.GoalsConceded = &n
	}
}

// ReportedStats returns every stat the appearance reports.
func (a MatchAppearance) ReportedStats() map[Stat]float64 {
	out := make(map[Stat]float64)
	for _, stat := range CountingStats {
		if v, ok := a.Value(stat); ok {
			out[stat] = v
		}
	}
	return out
}

func floatValue(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

type WindowKind string

const (
	WindowKindDays  WindowKind = "days"
	WindowKindLastN WindowKind = "last_n"
)

// Ratios are rate ratios; a nil field means its denominator was zero.
type Ratios struct {
	PassCompletion     *float64 `json:"pass_completion,omitempty"`
	DuelWinRate        *float64 `json:"duel_win_rate,omitempty"`
	AerialWinRate      *float64 `json:"aerial_win_rate,omitempty"`
	DribbleSuccessRate *float64 `json:"dribble_success_rate,omitempty"`
	ShotAccuracy       *float64 `json:"shot_accuracy,omitempty"`
	CleanSheetRate     *float64 `json:"clean_sheet_rate,omitempty"`
	SaveRate           *float64 `json:"save_rate,omitempty"`
}

// Window is a recomputable aggregate over a date range or the last N matches.
// Totals only holds stats reported by at least one included appearance, Per90
// is empty when Minutes is 0, and Features is always dense.
type Window struct {
	PlayerID    string
	Kind        WindowKind
	From        time.Time
	To          time.Time
	Appearances int
	Minutes     int
	CleanSheets int
	Totals      map[Stat]float64
	Per90       map[Stat]float64
	Ratios      Ratios
	Features    Features
	ComputedAt  time.Time
}
