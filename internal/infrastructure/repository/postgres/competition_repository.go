package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/scout-core/internal/domain/competition"
	qb "github.com/riskibarqy/scout-core/internal/platform/querybuilder"
)

type CompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	return r.list(ctx, "competitions", qb.IsNull("deleted_at"))
}

func (r *CompetitionRepository) ListByCountry(ctx context.Context, countryCode string) ([]competition.Competition, error) {
	return r.list(ctx, "competitions by country",
		qb.Eq("country_code", strings.ToUpper(strings.TrimSpace(countryCode))),
		qb.IsNull("deleted_at"),
	)
}

func (r *CompetitionRepository) GetByID(ctx context.Context, competitionID string) (competition.Competition, bool, error) {
	query, args, err := qb.Select("*").From("competitions").
		Where(
			qb.Eq("public_id", competitionID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return competition.Competition{}, false, fmt.Errorf("build get competition query: %w", err)
	}

	var row competitionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Competition{}, false, nil
		}
		return competition.Competition{}, false, fmt.Errorf("get competition: %w", err)
	}
	return competitionFromRow(row), true, nil
}

func (r *CompetitionRepository) Upsert(ctx context.Context, c competition.Competition) error {
	insertModel := competitionInsertModel{
		PublicID:    c.ID,
		Name:        c.Name,
		CountryCode: strings.ToUpper(strings.TrimSpace(c.CountryCode)),
		Tier:        c.Tier,
	}

	query, args, err := qb.InsertModel("competitions", insertModel, `ON CONFLICT (public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    name = EXCLUDED.name,
    country_code = EXCLUDED.country_code,
    tier = EXCLUDED.tier,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert competition query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert competition id=%s: %w", c.ID, err)
	}
	return nil
}

func (r *CompetitionRepository) list(ctx context.Context, what string, conditions ...qb.Condition) ([]competition.Competition, error) {
	query, args, err := qb.Select("*").From("competitions").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select %s query: %w", what, err)
	}

	var rows []competitionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", what, err)
	}

	out := make([]competition.Competition, 0, len(rows))
	for _, row := range rows {
		out = append(out, competitionFromRow(row))
	}
	return out, nil
}

func competitionFromRow(row competitionTableModel) competition.Competition {
	return competition.Competition{
		ID:          row.PublicID,
		Name:        row.Name,
		CountryCode: row.CountryCode,
		Tier:        row.Tier,
	}
}
