package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/scout-core/internal/domain/team"
	qb "github.com/riskibarqy/scout-core/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListByCompetition(ctx context.Context, competitionID string) ([]team.Team, error) {
	return r.list(ctx, "teams by competition",
		qb.Eq("competition_public_id", competitionID),
		qb.IsNull("deleted_at"),
	)
}

func (r *TeamRepository) ListByNormalizedName(ctx context.Context, normalizedName string) ([]team.Team, error) {
	return r.list(ctx, "teams by normalized name",
		qb.Eq("normalized_name", normalizedName),
		qb.IsNull("deleted_at"),
	)
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}
	return teamFromRow(row), true, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, t team.Team) error {
	insertModel := teamInsertModel{
		PublicID:       t.ID,
		CompetitionID:  t.CompetitionID,
		Name:           t.Name,
		Short:          t.Short,
		NormalizedName: t.NormalizedName,
	}

	query, args, err := qb.InsertModel("teams", insertModel, `ON CONFLICT (public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    competition_public_id = EXCLUDED.competition_public_id,
    name = EXCLUDED.name,
    short_name = EXCLUDED.short_name,
    normalized_name = EXCLUDED.normalized_name,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team id=%s: %w", t.ID, err)
	}
	return nil
}

func (r *TeamRepository) list(ctx context.Context, what string, conditions ...qb.Condition) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select %s query: %w", what, err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", what, err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:             row.PublicID,
		CompetitionID:  row.CompetitionID,
		Name:           row.Name,
		Short:          row.Short,
		NormalizedName: row.NormalizedName,
	}
}
