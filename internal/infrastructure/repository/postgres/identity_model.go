package postgres

import "time"

type identityLinkTableModel struct {
	ID               int64     `db:"id"`
	Provider         string    `db:"provider"`
	ProviderPlayerID string    `db:"provider_player_id"`
	PlayerID         string    `db:"player_public_id"`
	Confidence       float64   `db:"confidence"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type identityLinkInsertModel struct {
	Provider         string    `db:"provider"`
	ProviderPlayerID string    `db:"provider_player_id"`
	PlayerID         string    `db:"player_public_id"`
	Confidence       float64   `db:"confidence"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type reviewItemTableModel struct {
	ID                  int64      `db:"id"`
	PublicID            string     `db:"public_id"`
	Provider            string     `db:"provider"`
	ProviderPlayerID    string     `db:"provider_player_id"`
	Record              string     `db:"record"`
	Reason              string     `db:"reason"`
	Candidates          string     `db:"candidates"`
	SuggestedNew        bool       `db:"suggested_new"`
	ProvisionalPlayerID string     `db:"provisional_player_id"`
	Status              string     `db:"status"`
	ResolvedPlayerID    string     `db:"resolved_player_id"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
	ResolvedAt          *time.Time `db:"resolved_at"`
}

type reviewItemInsertModel struct {
	PublicID            string    `db:"public_id"`
	Provider            string    `db:"provider"`
	ProviderPlayerID    string    `db:"provider_player_id"`
	Record              string    `db:"record"`
	Reason              string    `db:"reason"`
	Candidates          string    `db:"candidates"`
	SuggestedNew        bool      `db:"suggested_new"`
	ProvisionalPlayerID string    `db:"provisional_player_id"`
	Status              string    `db:"status"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// reviewRecordJSON is the jsonb shape of identity.ProviderRecord.
type reviewRecordJSON struct {
	Name          string `json:"name"`
	BirthDate     string `json:"birth_date,omitempty"`
	Nationality   string `json:"nationality,omitempty"`
	Position      string `json:"position,omitempty"`
	PositionGroup string `json:"position_group,omitempty"`
	TeamID        string `json:"team_id,omitempty"`
	TeamName      string `json:"team_name,omitempty"`
	CompetitionID string `json:"competition_id,omitempty"`
}
