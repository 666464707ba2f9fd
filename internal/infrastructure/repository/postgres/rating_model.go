package postgres

import "time"

type ratingProfileTableModel struct {
	PositionGroup string    `db:"position_group"`
	Weights       string    `db:"weights"`
	InvertMetrics string    `db:"invert_metrics"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type playerRatingTableModel struct {
	PlayerID      string    `db:"player_public_id"`
	CompetitionID string    `db:"competition_public_id"`
	PositionGroup string    `db:"position_group"`
	Rating365     int       `db:"rating_365"`
	RatingLast5   int       `db:"rating_last5"`
	Tier          int       `db:"tier"`
	LevelScore    int       `db:"level_score"`
	Minutes365    int       `db:"minutes_365"`
	ComputedAt    time.Time `db:"computed_at"`
}

type competitionRatingTableModel struct {
	CompetitionID string    `db:"competition_public_id"`
	Tier          int       `db:"tier"`
	StrengthScore int       `db:"strength_score"`
	RatedPlayers  int       `db:"rated_players"`
	ComputedAt    time.Time `db:"computed_at"`
}
