package postgres

import "time"

type snapshotTableModel struct {
	PlayerID   string    `db:"player_public_id"`
	Provider   string    `db:"provider"`
	Raw        string    `db:"raw_payload"`
	Normalized string    `db:"normalized_payload"`
	FetchedAt  time.Time `db:"fetched_at"`
}

type fieldConflictTableModel struct {
	PlayerID        string     `db:"player_public_id"`
	Field           string     `db:"field"`
	Provider        string     `db:"provider"`
	CanonicalValue  string     `db:"canonical_value"`
	ProviderValue   string     `db:"provider_value"`
	CanonicalSource string     `db:"canonical_source"`
	Adopted         bool       `db:"adopted"`
	Status          string     `db:"status"`
	Resolution      string     `db:"resolution"`
	DetectedAt      time.Time  `db:"detected_at"`
	ResolvedAt      *time.Time `db:"resolved_at"`
}
