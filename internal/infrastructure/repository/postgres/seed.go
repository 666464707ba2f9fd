package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/rating"
	"github.com/riskibarqy/scout-core/internal/infrastructure/repository/memory"
)

// BootstrapSeed installs the default rating profiles and reference
// competitions into an empty database. Existing rows are never touched.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM rating_profiles`); err != nil {
		return fmt.Errorf("count rating profiles for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	profiles := rating.DefaultProfiles()
	for _, group := range player.OrderedPositionGroups {
		profile := profiles[group]
		inverted := make([]string, 0, len(profile.InvertMetrics))
		for feature := range profile.InvertMetrics {
			inverted = append(inverted, string(feature))
		}
		sort.Strings(inverted)

		sqlQuery, args, err := sqlx.Named(`
INSERT INTO rating_profiles (position_group, weights, invert_metrics, updated_at)
VALUES (:position_group, :weights, :invert_metrics, :updated_at)
ON CONFLICT (position_group) DO NOTHING`, map[string]any{
			"position_group": string(group),
			"weights":        encodeJSON(profile.Weights, "{}"),
			"invert_metrics": encodeJSON(inverted, "[]"),
			"updated_at":     now,
		})
		if err != nil {
			return fmt.Errorf("bind seed rating profile %s query: %w", group, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed rating profile %s: %w", group, err)
		}
	}

	for _, c := range memory.SeedCompetitions() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO competitions (public_id, name, country_code, tier)
VALUES (:public_id, :name, :country_code, :tier)
ON CONFLICT (public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id":    c.ID,
			"name":         c.Name,
			"country_code": c.CountryCode,
			"tier":         c.Tier,
		})
		if err != nil {
			return fmt.Errorf("bind seed competition %s query: %w", c.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed competition %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
