package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	DisplayName    string         `db:"display_name"`
	NormalizedName string         `db:"normalized_name"`
	BirthDate      sql.NullString `db:"birth_date"`
	Nationality    string         `db:"nationality"`
	HeightCm       *float64       `db:"height_cm"`
	WeightKg       *float64       `db:"weight_kg"`
	PreferredFoot  string         `db:"preferred_foot"`
	PhotoURL       string         `db:"photo_url"`
	Position       string         `db:"position"`
	PositionGroup  string         `db:"position_group"`
	TeamID         string         `db:"team_public_id"`
	CompetitionID  string         `db:"competition_public_id"`
	FieldSources   string         `db:"field_sources"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DeletedAt      *time.Time     `db:"deleted_at"`
}

type playerInsertModel struct {
	PublicID       string    `db:"public_id"`
	DisplayName    string    `db:"display_name"`
	NormalizedName string    `db:"normalized_name"`
	BirthDate      *string   `db:"birth_date"`
	Nationality    string    `db:"nationality"`
	HeightCm       *float64  `db:"height_cm"`
	WeightKg       *float64  `db:"weight_kg"`
	PreferredFoot  string    `db:"preferred_foot"`
	PhotoURL       string    `db:"photo_url"`
	Position       string    `db:"position"`
	PositionGroup  string    `db:"position_group"`
	TeamID         string    `db:"team_public_id"`
	CompetitionID  string    `db:"competition_public_id"`
	FieldSources   string    `db:"field_sources"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
