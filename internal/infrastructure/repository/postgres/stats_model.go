package postgres

import "time"

type appearanceTableModel struct {
	ID            int64     `db:"id"`
	Provider      string    `db:"provider"`
	FixtureID     string    `db:"fixture_id"`
	PlayerID      string    `db:"player_public_id"`
	CompetitionID string    `db:"competition_public_id"`
	TeamID        string    `db:"team_public_id"`
	MatchDate     time.Time `db:"match_date"`
	Minutes       int       `db:"minutes"`
	CleanSheet    bool      `db:"clean_sheet"`
	PassAccuracy  *float64  `db:"pass_accuracy"`
	Stats         string    `db:"stats"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type appearanceInsertModel struct {
	Provider      string    `db:"provider"`
	FixtureID     string    `db:"fixture_id"`
	PlayerID      string    `db:"player_public_id"`
	CompetitionID string    `db:"competition_public_id"`
	TeamID        string    `db:"team_public_id"`
	MatchDate     time.Time `db:"match_date"`
	Minutes       int       `db:"minutes"`
	CleanSheet    bool      `db:"clean_sheet"`
	PassAccuracy  *float64  `db:"pass_accuracy"`
	Stats         string    `db:"stats"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type windowTableModel struct {
	PlayerID    string     `db:"player_public_id"`
	Kind        string     `db:"kind"`
	From        *time.Time `db:"from_date"`
	To          *time.Time `db:"to_date"`
	Appearances int        `db:"appearances"`
	Minutes     int        `db:"minutes"`
	CleanSheets int        `db:"clean_sheets"`
	Totals      string     `db:"totals"`
	Per90       string     `db:"per90"`
	Ratios      string     `db:"ratios"`
	Features    string     `db:"features"`
	ComputedAt  time.Time  `db:"computed_at"`
}
