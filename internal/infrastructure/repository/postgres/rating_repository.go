package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/playerstats"
	"github.com/riskibarqy/scout-core/internal/domain/rating"
	qb "github.com/riskibarqy/scout-core/internal/platform/querybuilder"
)

type RatingProfileRepository struct {
	db *sqlx.DB
}

func NewRatingProfileRepository(db *sqlx.DB) *RatingProfileRepository {
	return &RatingProfileRepository{db: db}
}

func (r *RatingProfileRepository) List(ctx context.Context) ([]rating.Profile, error) {
	query, args, err := qb.Select("*").From("rating_profiles").
		OrderBy("position_group").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rating profiles query: %w", err)
	}

	var rows []ratingProfileTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rating profiles: %w", err)
	}

	out := make([]rating.Profile, 0, len(rows))
	for _, row := range rows {
		out = append(out, ratingProfileFromRow(row))
	}
	return out, nil
}

func (r *RatingProfileRepository) GetByPositionGroup(ctx context.Context, group player.PositionGroup) (rating.Profile, bool, error) {
	query, args, err := qb.Select("*").From("rating_profiles").
		Where(qb.Eq("position_group", string(group))).
		Limit(1).
		ToSQL()
	if err != nil {
		return rating.Profile{}, false, fmt.Errorf("build get rating profile query: %w", err)
	}

	var row ratingProfileTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rating.Profile{}, false, nil
		}
		return rating.Profile{}, false, fmt.Errorf("get rating profile: %w", err)
	}
	return ratingProfileFromRow(row), true, nil
}

func (r *RatingProfileRepository) Upsert(ctx context.Context, profile rating.Profile) error {
	inverted := make([]string, 0, len(profile.InvertMetrics))
	for feature := range profile.InvertMetrics {
		inverted = append(inverted, string(feature))
	}
	sort.Strings(inverted)

	insertModel := ratingProfileTableModel{
		PositionGroup: string(profile.PositionGroup),
		Weights:       encodeJSON(profile.Weights, "{}"),
		InvertMetrics: encodeJSON(inverted, "[]"),
		UpdatedAt:     profile.UpdatedAt.UTC(),
	}

	query, args, err := qb.InsertModel("rating_profiles", insertModel, `ON CONFLICT (position_group)
DO UPDATE SET
    weights = EXCLUDED.weights,
    invert_metrics = EXCLUDED.invert_metrics,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert rating profile query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert rating profile %s: %w", profile.PositionGroup, err)
	}
	return nil
}

func ratingProfileFromRow(row ratingProfileTableModel) rating.Profile {
	weights := map[playerstats.Feature]float64{}
	decodeJSON(row.Weights, &weights)

	var inverted []string
	decodeJSON(row.InvertMetrics, &inverted)
	invert := make(map[playerstats.Feature]struct{}, len(inverted))
	for _, name := range inverted {
		invert[playerstats.Feature(name)] = struct{}{}
	}

	return rating.Profile{
		PositionGroup: player.PositionGroup(row.PositionGroup),
		Weights:       weights,
		InvertMetrics: invert,
		UpdatedAt:     row.UpdatedAt,
	}
}

type PlayerRatingRepository struct {
	db *sqlx.DB
}

func NewPlayerRatingRepository(db *sqlx.DB) *PlayerRatingRepository {
	return &PlayerRatingRepository{db: db}
}

// Upsert writes one statement per row so a failing row never rolls back the
// rows before it.
func (r *PlayerRatingRepository) Upsert(ctx context.Context, ratings []rating.PlayerRating) error {
	for _, item := range ratings {
		insertModel := playerRatingTableModel{
			PlayerID:      item.PlayerID,
			CompetitionID: item.CompetitionID,
			PositionGroup: string(item.PositionGroup),
			Rating365:     item.Rating365,
			RatingLast5:   item.RatingLast5,
			Tier:          item.Tier,
			LevelScore:    item.LevelScore,
			Minutes365:    item.Minutes365,
			ComputedAt:    item.ComputedAt.UTC(),
		}

		query, args, err := qb.InsertModel("player_ratings", insertModel, `ON CONFLICT (player_public_id, competition_public_id)
DO UPDATE SET
    position_group = EXCLUDED.position_group,
    rating_365 = EXCLUDED.rating_365,
    rating_last5 = EXCLUDED.rating_last5,
    tier = EXCLUDED.tier,
    level_score = EXCLUDED.level_score,
    minutes_365 = EXCLUDED.minutes_365,
    computed_at = EXCLUDED.computed_at`)
		if err != nil {
			return fmt.Errorf("build upsert player rating query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player rating player=%s competition=%s: %w", item.PlayerID, item.CompetitionID, err)
		}
	}
	return nil
}

func (r *PlayerRatingRepository) ListByPlayer(ctx context.Context, playerID string) ([]rating.PlayerRating, error) {
	return r.list(ctx, "player ratings by player", 0, []string{"competition_public_id"},
		qb.Eq("player_public_id", playerID),
	)
}

func (r *PlayerRatingRepository) ListTop(ctx context.Context, group player.PositionGroup, limit int) ([]rating.PlayerRating, error) {
	return r.list(ctx, "top player ratings", limit, []string{"level_score DESC", "rating_365 DESC", "player_public_id"},
		qb.Eq("position_group", string(group)),
	)
}

func (r *PlayerRatingRepository) list(ctx context.Context, what string, limit int, orderBy []string, conditions ...qb.Condition) ([]rating.PlayerRating, error) {
	query, args, err := qb.Select("*").From("player_ratings").
		Where(conditions...).
		OrderBy(orderBy...).
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select %s query: %w", what, err)
	}

	var rows []playerRatingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", what, err)
	}

	out := make([]rating.PlayerRating, 0, len(rows))
	for _, row := range rows {
		out = append(out, rating.PlayerRating{
			PlayerID:      row.PlayerID,
			CompetitionID: row.CompetitionID,
			PositionGroup: player.PositionGroup(row.PositionGroup),
			Rating365:     row.Rating365,
			RatingLast5:   row.RatingLast5,
			Tier:          row.Tier,
			LevelScore:    row.LevelScore,
			Minutes365:    row.Minutes365,
			ComputedAt:    row.ComputedAt,
		})
	}
	return out, nil
}

func (r *PlayerRatingRepository) DeleteStale(ctx context.Context, competitionIDs []string, cutoff time.Time) (int, error) {
	return deleteStaleRatings(ctx, r.db, "player_ratings", competitionIDs, cutoff)
}

type CompetitionRatingRepository struct {
	db *sqlx.DB
}

func NewCompetitionRatingRepository(db *sqlx.DB) *CompetitionRatingRepository {
	return &CompetitionRatingRepository{db: db}
}

func (r *CompetitionRatingRepository) Upsert(ctx context.Context, ratings []rating.CompetitionRating) error {
	if len(ratings) == 0 {
		return nil
	}

	models := make([]competitionRatingTableModel, 0, len(ratings))
	for _, item := range ratings {
		models = append(models, competitionRatingTableModel{
			CompetitionID: item.CompetitionID,
			Tier:          item.Tier,
			StrengthScore: item.StrengthScore,
			RatedPlayers:  item.RatedPlayers,
			ComputedAt:    item.ComputedAt.UTC(),
		})
	}

	query, args, err := qb.InsertModels("competition_ratings", models, `ON CONFLICT (competition_public_id)
DO UPDATE SET
    tier = EXCLUDED.tier,
    strength_score = EXCLUDED.strength_score,
    rated_players = EXCLUDED.rated_players,
    computed_at = EXCLUDED.computed_at`)
	if err != nil {
		return fmt.Errorf("build upsert competition ratings query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert competition ratings: %w", err)
	}
	return nil
}

func (r *CompetitionRatingRepository) GetByCompetition(ctx context.Context, competitionID string) (rating.CompetitionRating, bool, error) {
	query, args, err := qb.Select("*").From("competition_ratings").
		Where(qb.Eq("competition_public_id", competitionID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return rating.CompetitionRating{}, false, fmt.Errorf("build get competition rating query: %w", err)
	}

	var row competitionRatingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rating.CompetitionRating{}, false, nil
		}
		return rating.CompetitionRating{}, false, fmt.Errorf("get competition rating: %w", err)
	}
	return competitionRatingFromRow(row), true, nil
}

func (r *CompetitionRatingRepository) List(ctx context.Context) ([]rating.CompetitionRating, error) {
	query, args, err := qb.Select("*").From("competition_ratings").
		OrderBy("strength_score DESC", "competition_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list competition ratings query: %w", err)
	}

	var rows []competitionRatingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list competition ratings: %w", err)
	}

	out := make([]rating.CompetitionRating, 0, len(rows))
	for _, row := range rows {
		out = append(out, competitionRatingFromRow(row))
	}
	return out, nil
}

func (r *CompetitionRatingRepository) DeleteStale(ctx context.Context, competitionIDs []string, cutoff time.Time) (int, error) {
	return deleteStaleRatings(ctx, r.db, "competition_ratings", competitionIDs, cutoff)
}

func deleteStaleRatings(ctx context.Context, db *sqlx.DB, table string, competitionIDs []string, cutoff time.Time) (int, error) {
	if len(competitionIDs) == 0 {
		return 0, nil
	}
	query, args, err := qb.DeleteFrom(table).
		Where(qb.InStrings("competition_public_id", competitionIDs), qb.Lt("computed_at", cutoff.UTC())).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete stale %s query: %w", table, err)
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete stale %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete stale %s rows affected: %w", table, err)
	}
	return int(affected), nil
}

func competitionRatingFromRow(row competitionRatingTableModel) rating.CompetitionRating {
	return rating.CompetitionRating{
		CompetitionID: row.CompetitionID,
		Tier:          row.Tier,
		StrengthScore: row.StrengthScore,
		RatedPlayers:  row.RatedPlayers,
		ComputedAt:    row.ComputedAt,
	}
}
