package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/scout-core/internal/domain/playerstats"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
	qb "github.com/riskibarqy/scout-core/internal/platform/querybuilder"
)

// Keeps each multi-row insert well under the 65535 bind parameter limit.
const maxRowsPerInsert = 1000

type AppearanceRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewAppearanceRepository(db *sqlx.DB) *AppearanceRepository {
	return &AppearanceRepository{db: db, now: time.Now}
}

func (r *AppearanceRepository) Upsert(ctx context.Context, appearances []playerstats.MatchAppearance) error {
	if len(appearances) == 0 {
		return nil
	}

	now := r.now().UTC()
	models := make([]appearanceInsertModel, 0, len(appearances))
	position := make(map[string]int, len(appearances))
	for _, item := range appearances {
		model := appearanceInsertModel{
			Provider:      string(item.Provider),
			FixtureID:     item.FixtureID,
			PlayerID:      item.PlayerID,
			CompetitionID: item.CompetitionID,
			TeamID:        item.TeamID,
			MatchDate:     item.MatchDate.UTC(),
			Minutes:       item.Minutes,
			CleanSheet:    item.CleanSheet,
			PassAccuracy:  item.PassAccuracy,
			Stats:         encodeJSON(item.ReportedStats(), "{}"),
			UpdatedAt:     now,
		}
		// A single INSERT .. ON CONFLICT cannot touch the same row twice.
		if idx, ok := position[item.Key()]; ok {
			models[idx] = model
			continue
		}
		position[item.Key()] = len(models)
		models = append(models, model)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert match appearances: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for start := 0; start < len(models); start += maxRowsPerInsert {
		end := min(start+maxRowsPerInsert, len(models))
		query, args, err := qb.InsertModels("match_appearances", models[start:end], `ON CONFLICT (provider, fixture_id, player_public_id)
DO UPDATE SET
    competition_public_id = EXCLUDED.competition_public_id,
    team_public_id = EXCLUDED.team_public_id,
    match_date = EXCLUDED.match_date,
    minutes = EXCLUDED.minutes,
    clean_sheet = EXCLUDED.clean_sheet,
    pass_accuracy = EXCLUDED.pass_accuracy,
    stats = EXCLUDED.stats,
    updated_at = EXCLUDED.updated_at`)
		if err != nil {
			return fmt.Errorf("build upsert match appearances query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert match appearances rows %d-%d: %w", start, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert match appearances tx: %w", err)
	}
	return nil
}

func (r *AppearanceRepository) Delete(ctx context.Context, appearances []playerstats.MatchAppearance) (int, error) {
	if len(appearances) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx delete match appearances: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	removed := 0
	for _, item := range appearances {
		query, args, err := qb.DeleteFrom("match_appearances").
			Where(
				qb.Eq("provider", string(item.Provider)),
				qb.Eq("fixture_id", item.FixtureID),
				qb.Eq("player_public_id", item.PlayerID),
			).
			ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build delete match appearance query: %w", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("delete match appearance %s: %w", item.Key(), err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("delete match appearance %s rows affected: %w", item.Key(), err)
		}
		removed += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete match appearances tx: %w", err)
	}
	return removed, nil
}

func (r *AppearanceRepository) ListByPlayer(ctx context.Context, playerID string) ([]playerstats.MatchAppearance, error) {
	query, args, err := qb.Select("*").From("match_appearances").
		Where(qb.Eq("player_public_id", playerID)).
		OrderBy("match_date DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match appearances query: %w", err)
	}

	var rows []appearanceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match appearances: %w", err)
	}

	out := make([]playerstats.MatchAppearance, 0, len(rows))
	for _, row := range rows {
		out = append(out, appearanceFromRow(row))
	}
	return out, nil
}

func (r *AppearanceRepository) ListByPlayers(ctx context.Context, playerIDs []string, until time.Time) (map[string][]playerstats.MatchAppearance, error) {
	out := make(map[string][]playerstats.MatchAppearance, len(playerIDs))
	if len(playerIDs) == 0 {
		return out, nil
	}

	query, args, err := qb.Select("*").From("match_appearances").
		Where(
			qb.InStrings("player_public_id", playerIDs),
			qb.Lte("match_date", until.UTC()),
		).
		OrderBy("player_public_id", "match_date DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match appearances by players query: %w", err)
	}

	var rows []appearanceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match appearances by players: %w", err)
	}

	for _, row := range rows {
		out[row.PlayerID] = append(out[row.PlayerID], appearanceFromRow(row))
	}
	return out, nil
}

func appearanceFromRow(row appearanceTableModel) playerstats.MatchAppearance {
	item := playerstats.MatchAppearance{
		Provider:      provider.Provider(row.Provider),
		FixtureID:     row.FixtureID,
		PlayerID:      row.PlayerID,
		CompetitionID: row.CompetitionID,
		TeamID:        row.TeamID,
		MatchDate:     row.MatchDate,
		Minutes:       row.Minutes,
		CleanSheet:    row.CleanSheet,
		PassAccuracy:  row.PassAccuracy,
	}

	var stats map[playerstats.Stat]float64
	decodeJSON(row.Stats, &stats)
	for stat, value := range stats {
		item.SetValue(stat, value)
	}
	return item
}

type WindowRepository struct {
	db *sqlx.DB
}

func NewWindowRepository(db *sqlx.DB) *WindowRepository {
	return &WindowRepository{db: db}
}

func (r *WindowRepository) Replace(ctx context.Context, windows []playerstats.Window) error {
	if len(windows) == 0 {
		return nil
	}

	models := make([]windowTableModel, 0, len(windows))
	for _, w := range windows {
		models = append(models, windowTableModel{
			PlayerID:    w.PlayerID,
			Kind:        string(w.Kind),
			From:        nullableTime(w.From),
			To:          nullableTime(w.To),
			Appearances: w.Appearances,
			Minutes:     w.Minutes,
			CleanSheets: w.CleanSheets,
			Totals:      encodeJSON(w.Totals, "{}"),
			Per90:       encodeJSON(w.Per90, "{}"),
			Ratios:      encodeJSON(w.Ratios, "{}"),
			Features:    encodeJSON(w.Features, "{}"),
			ComputedAt:  w.ComputedAt.UTC(),
		})
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace stat windows: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for start := 0; start < len(models); start += maxRowsPerInsert {
		end := min(start+maxRowsPerInsert, len(models))
		query, args, err := qb.InsertModels("rolling_stat_windows", models[start:end], `ON CONFLICT (player_public_id, kind)
DO UPDATE SET
    from_date = EXCLUDED.from_date,
    to_date = EXCLUDED.to_date,
    appearances = EXCLUDED.appearances,
    minutes = EXCLUDED.minutes,
    clean_sheets = EXCLUDED.clean_sheets,
    totals = EXCLUDED.totals,
    per90 = EXCLUDED.per90,
    ratios = EXCLUDED.ratios,
    features = EXCLUDED.features,
    computed_at = EXCLUDED.computed_at`)
		if err != nil {
			return fmt.Errorf("build replace stat windows query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("replace stat windows rows %d-%d: %w", start, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace stat windows tx: %w", err)
	}
	return nil
}

func (r *WindowRepository) ListByPlayer(ctx context.Context, playerID string) ([]playerstats.Window, error) {
	query, args, err := qb.Select("*").From("rolling_stat_windows").
		Where(qb.Eq("player_public_id", playerID)).
		OrderBy("kind").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list stat windows query: %w", err)
	}

	var rows []windowTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list stat windows: %w", err)
	}

	out := make([]playerstats.Window, 0, len(rows))
	for _, row := range rows {
		w := playerstats.Window{
			PlayerID:    row.PlayerID,
			Kind:        playerstats.WindowKind(row.Kind),
			From:        timeOrZero(row.From),
			To:          timeOrZero(row.To),
			Appearances: row.Appearances,
			Minutes:     row.Minutes,
			CleanSheets: row.CleanSheets,
			Totals:      map[playerstats.Stat]float64{},
			Per90:       map[playerstats.Stat]float64{},
			Features:    playerstats.Features{},
			ComputedAt:  row.ComputedAt,
		}
		decodeJSON(row.Totals, &w.Totals)
		decodeJSON(row.Per90, &w.Per90)
		decodeJSON(row.Ratios, &w.Ratios)
		decodeJSON(row.Features, &w.Features)
		out = append(out, w)
	}
	return out, nil
}
