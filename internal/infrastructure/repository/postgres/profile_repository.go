package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/profile"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
	qb "github.com/riskibarqy/scout-core/internal/platform/querybuilder"
)

type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Upsert(ctx context.Context, snapshot profile.Snapshot) error {
	raw := "{}"
	if len(snapshot.Raw) > 0 && sonic.Valid(snapshot.Raw) {
		raw = string(snapshot.Raw)
	}

	insertModel := snapshotTableModel{
		PlayerID:   snapshot.PlayerID,
		Provider:   string(snapshot.Provider),
		Raw:        raw,
		Normalized: encodeJSON(snapshot.Normalized, "{}"),
		FetchedAt:  snapshot.FetchedAt.UTC(),
	}

	query, args, err := qb.InsertModel("provider_profile_snapshots", insertModel, `ON CONFLICT (player_public_id, provider)
DO UPDATE SET
    raw_payload = EXCLUDED.raw_payload,
    normalized_payload = EXCLUDED.normalized_payload,
    fetched_at = EXCLUDED.fetched_at`)
	if err != nil {
		return fmt.Errorf("build upsert profile snapshot query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert profile snapshot player=%s provider=%s: %w", snapshot.PlayerID, snapshot.Provider, err)
	}
	return nil
}

func (r *SnapshotRepository) Get(ctx context.Context, playerID string, p provider.Provider) (profile.Snapshot, bool, error) {
	query, args, err := qb.Select("*").From("provider_profile_snapshots").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Eq("provider", string(p)),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return profile.Snapshot{}, false, fmt.Errorf("build get profile snapshot query: %w", err)
	}

	var row snapshotTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return profile.Snapshot{}, false, nil
		}
		return profile.Snapshot{}, false, fmt.Errorf("get profile snapshot: %w", err)
	}
	return snapshotFromRow(row), true, nil
}

func (r *SnapshotRepository) ListByPlayer(ctx context.Context, playerID string) ([]profile.Snapshot, error) {
	query, args, err := qb.Select("*").From("provider_profile_snapshots").
		Where(qb.Eq("player_public_id", playerID)).
		OrderBy("provider").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list profile snapshots query: %w", err)
	}

	var rows []snapshotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list profile snapshots: %w", err)
	}

	out := make([]profile.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, snapshotFromRow(row))
	}
	return out, nil
}

func snapshotFromRow(row snapshotTableModel) profile.Snapshot {
	var normalized profile.NormalizedProfile
	decodeJSON(row.Normalized, &normalized)

	return profile.Snapshot{
		PlayerID:   row.PlayerID,
		Provider:   provider.Provider(row.Provider),
		Raw:        []byte(row.Raw),
		Normalized: normalized,
		FetchedAt:  row.FetchedAt,
	}
}

type ConflictRepository struct {
	db *sqlx.DB
}

func NewConflictRepository(db *sqlx.DB) *ConflictRepository {
	return &ConflictRepository{db: db}
}

func (r *ConflictRepository) Upsert(ctx context.Context, conflict profile.FieldConflict) error {
	insertModel := fieldConflictTableModel{
		PlayerID:        conflict.PlayerID,
		Field:           string(conflict.Field),
		Provider:        string(conflict.Provider),
		CanonicalValue:  conflict.CanonicalValue,
		ProviderValue:   conflict.ProviderValue,
		CanonicalSource: string(conflict.CanonicalSource),
		Adopted:         conflict.Adopted,
		Status:          string(conflict.Status),
		Resolution:      conflict.Resolution,
		DetectedAt:      conflict.DetectedAt.UTC(),
		ResolvedAt:      conflict.ResolvedAt,
	}

	query, args, err := qb.InsertModel("field_conflicts", insertModel, `ON CONFLICT (player_public_id, field, provider)
DO UPDATE SET
    canonical_value = EXCLUDED.canonical_value,
    provider_value = EXCLUDED.provider_value,
    canonical_source = EXCLUDED.canonical_source,
    adopted = EXCLUDED.adopted,
    status = EXCLUDED.status,
    resolution = EXCLUDED.resolution,
    detected_at = EXCLUDED.detected_at,
    resolved_at = EXCLUDED.resolved_at`)
	if err != nil {
		return fmt.Errorf("build upsert field conflict query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert field conflict player=%s field=%s provider=%s: %w", conflict.PlayerID, conflict.Field, conflict.Provider, err)
	}
	return nil
}

func (r *ConflictRepository) Get(ctx context.Context, playerID string, field player.Field, p provider.Provider) (profile.FieldConflict, bool, error) {
	query, args, err := qb.Select("*").From("field_conflicts").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Eq("field", string(field)),
			qb.Eq("provider", string(p)),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return profile.FieldConflict{}, false, fmt.Errorf("build get field conflict query: %w", err)
	}

	var row fieldConflictTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return profile.FieldConflict{}, false, nil
		}
		return profile.FieldConflict{}, false, fmt.Errorf("get field conflict: %w", err)
	}
	return conflictFromRow(row), true, nil
}

func (r *ConflictRepository) List(ctx context.Context, playerID string, status profile.ConflictStatus) ([]profile.FieldConflict, error) {
	conditions := []qb.Condition{qb.Eq("player_public_id", playerID)}
	if status != "" {
		conditions = append(conditions, qb.Eq("status", string(status)))
	}

	query, args, err := qb.Select("*").From("field_conflicts").
		Where(conditions...).
		OrderBy("detected_at DESC", "field", "provider").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list field conflicts query: %w", err)
	}

	var rows []fieldConflictTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list field conflicts: %w", err)
	}

	out := make([]profile.FieldConflict, 0, len(rows))
	for _, row := range rows {
		out = append(out, conflictFromRow(row))
	}
	return out, nil
}

func (r *ConflictRepository) Close(ctx context.Context, playerID string, field player.Field, p provider.Provider, status profile.ConflictStatus, resolution string, at time.Time) error {
	query, args, err := qb.Update("field_conflicts").
		Set("status", string(status)).
		Set("resolution", resolution).
		Set("resolved_at", at.UTC()).
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Eq("field", string(field)),
			qb.Eq("provider", string(p)),
			qb.Eq("status", string(profile.ConflictStatusOpen)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build close field conflict query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("close field conflict player=%s field=%s provider=%s: %w", playerID, field, p, err)
	}
	return nil
}

func conflictFromRow(row fieldConflictTableModel) profile.FieldConflict {
	return profile.FieldConflict{
		PlayerID:        row.PlayerID,
		Field:           player.Field(row.Field),
		Provider:        provider.Provider(row.Provider),
		CanonicalValue:  row.CanonicalValue,
		ProviderValue:   row.ProviderValue,
		CanonicalSource: provider.Provider(row.CanonicalSource),
		Adopted:         row.Adopted,
		Status:          profile.ConflictStatus(row.Status),
		Resolution:      row.Resolution,
		DetectedAt:      row.DetectedAt,
		ResolvedAt:      row.ResolvedAt,
	}
}
