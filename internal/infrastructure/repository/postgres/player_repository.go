package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
	qb "github.com/riskibarqy/scout-core/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = []string{
	"id",
	"public_id",
	"display_name",
	"normalized_name",
	"birth_date::text AS birth_date",
	"nationality",
	"height_cm",
	"weight_kg",
	"preferred_foot",
	"photo_url",
	"position",
	"position_group",
	"team_public_id",
	"competition_public_id",
	"field_sources",
	"created_at",
	"updated_at",
	"deleted_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.CanonicalPlayer, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("canonical_players").
		Where(
			qb.Eq("public_id", playerID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.CanonicalPlayer{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.CanonicalPlayer{}, false, nil
		}
		return player.CanonicalPlayer{}, false, fmt.Errorf("get player: %w", err)
	}

	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.CanonicalPlayer, error) {
	if len(playerIDs) == 0 {
		return []player.CanonicalPlayer{}, nil
	}

	return r.list(ctx, "players by ids",
		qb.InStrings("public_id", playerIDs),
		qb.IsNull("deleted_at"),
	)
}

func (r *PlayerRepository) ListByNormalizedName(ctx context.Context, normalizedName string) ([]player.CanonicalPlayer, error) {
	return r.list(ctx, "players by normalized name",
		qb.Eq("normalized_name", normalizedName),
		qb.IsNull("deleted_at"),
	)
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.CanonicalPlayer, error) {
	return r.list(ctx, "players by team",
		qb.Eq("team_public_id", teamID),
		qb.IsNull("deleted_at"),
	)
}

func (r *PlayerRepository) ListByCompetition(ctx context.Context, competitionID string) ([]player.CanonicalPlayer, error) {
	return r.list(ctx, "players by competition",
		qb.Eq("competition_public_id", competitionID),
		qb.IsNull("deleted_at"),
	)
}

func (r *PlayerRepository) ListAll(ctx context.Context) ([]player.CanonicalPlayer, error) {
	return r.list(ctx, "players", qb.IsNull("deleted_at"))
}

func (r *PlayerRepository) Insert(ctx context.Context, p player.CanonicalPlayer) error {
	insertModel := playerInsertModel{
		PublicID:       p.ID,
		DisplayName:    p.DisplayName,
		NormalizedName: p.NormalizedName,
		BirthDate:      nullableString(p.BirthDate),
		Nationality:    p.Nationality,
		HeightCm:       p.HeightCm,
		WeightKg:       p.WeightKg,
		PreferredFoot:  p.PreferredFoot,
		PhotoURL:       p.PhotoURL,
		Position:       p.Position,
		PositionGroup:  string(p.PositionGroup),
		TeamID:         p.TeamID,
		CompetitionID:  p.CompetitionID,
		FieldSources:   encodeJSON(p.FieldSources, "{}"),
		CreatedAt:      p.CreatedAt.UTC(),
		UpdatedAt:      p.UpdatedAt.UTC(),
	}

	query, args, err := qb.InsertModel("canonical_players", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert player id=%s: %w", p.ID, err)
	}
	return nil
}

func (r *PlayerRepository) Update(ctx context.Context, p player.CanonicalPlayer) error {
	query, args, err := qb.Update("canonical_players").
		Set("display_name", p.DisplayName).
		Set("normalized_name", p.NormalizedName).
		Set("birth_date", nullableString(p.BirthDate)).
		Set("nationality", p.Nationality).
		Set("height_cm", p.HeightCm).
		Set("weight_kg", p.WeightKg).
		Set("preferred_foot", p.PreferredFoot).
		Set("photo_url", p.PhotoURL).
		Set("position", p.Position).
		Set("position_group", string(p.PositionGroup)).
		Set("team_public_id", p.TeamID).
		Set("competition_public_id", p.CompetitionID).
		Set("field_sources", encodeJSON(p.FieldSources, "{}")).
		Set("updated_at", p.UpdatedAt.UTC()).
		Where(
			qb.Eq("public_id", p.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update player id=%s: %w", p.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update player id=%s: no rows affected", p.ID)
	}
	return nil
}

func (r *PlayerRepository) SoftDelete(ctx context.Context, playerID string, at time.Time) error {
	query, args, err := qb.Update("canonical_players").
		Set("deleted_at", at.UTC()).
		Set("updated_at", at.UTC()).
		Where(
			qb.Eq("public_id", playerID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build soft delete player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete player id=%s: %w", playerID, err)
	}
	return nil
}

func (r *PlayerRepository) list(ctx context.Context, what string, conditions ...qb.Condition) ([]player.CanonicalPlayer, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("canonical_players").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select %s query: %w", what, err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", what, err)
	}

	out := make([]player.CanonicalPlayer, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func playerFromRow(row playerTableModel) player.CanonicalPlayer {
	var sources map[player.Field]provider.Provider
	decodeJSON(row.FieldSources, &sources)

	return player.CanonicalPlayer{
		ID:             row.PublicID,
		DisplayName:    row.DisplayName,
		NormalizedName: row.NormalizedName,
		BirthDate:      nullStringToString(row.BirthDate),
		Nationality:    row.Nationality,
		HeightCm:       row.HeightCm,
		WeightKg:       row.WeightKg,
		PreferredFoot:  row.PreferredFoot,
		PhotoURL:       row.PhotoURL,
		Position:       row.Position,
		PositionGroup:  player.PositionGroup(row.PositionGroup),
		TeamID:         row.TeamID,
		CompetitionID:  row.CompetitionID,
		FieldSources:   sources,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
