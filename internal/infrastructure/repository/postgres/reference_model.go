package postgres

import "time"

type competitionTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	Name        string     `db:"name"`
	CountryCode string     `db:"country_code"`
	Tier        int        `db:"tier"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type competitionInsertModel struct {
	PublicID    string `db:"public_id"`
	Name        string `db:"name"`
	CountryCode string `db:"country_code"`
	Tier        int    `db:"tier"`
}

type teamTableModel struct {
	ID             int64      `db:"id"`
	PublicID       string     `db:"public_id"`
	CompetitionID  string     `db:"competition_public_id"`
	Name           string     `db:"name"`
	Short          string     `db:"short_name"`
	NormalizedName string     `db:"normalized_name"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type teamInsertModel struct {
	PublicID       string `db:"public_id"`
	CompetitionID  string `db:"competition_public_id"`
	Name           string `db:"name"`
	Short          string `db:"short_name"`
	NormalizedName string `db:"normalized_name"`
}
