package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/scout-core/internal/domain/identity"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
	qb "github.com/riskibarqy/scout-core/internal/platform/querybuilder"
)

type IdentityLinkRepository struct {
	db *sqlx.DB
}

func NewIdentityLinkRepository(db *sqlx.DB) *IdentityLinkRepository {
	return &IdentityLinkRepository{db: db}
}

func (r *IdentityLinkRepository) GetByProviderID(ctx context.Context, p provider.Provider, providerPlayerID string) (identity.Link, bool, error) {
	return r.get(ctx, "link by provider id",
		qb.Eq("provider", string(p)),
		qb.Eq("provider_player_id", providerPlayerID),
	)
}

func (r *IdentityLinkRepository) GetByPlayerAndProvider(ctx context.Context, playerID string, p provider.Provider) (identity.Link, bool, error) {
	return r.get(ctx, "link by player and provider",
		qb.Eq("player_public_id", playerID),
		qb.Eq("provider", string(p)),
	)
}

func (r *IdentityLinkRepository) ListByPlayer(ctx context.Context, playerID string) ([]identity.Link, error) {
	query, args, err := qb.Select("*").From("external_identity_links").
		Where(qb.Eq("player_public_id", playerID)).
		OrderBy("provider").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select links by player query: %w", err)
	}

	var rows []identityLinkTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select links by player: %w", err)
	}

	out := make([]identity.Link, 0, len(rows))
	for _, row := range rows {
		out = append(out, linkFromRow(row))
	}
	return out, nil
}

func (r *IdentityLinkRepository) Create(ctx context.Context, link identity.Link) error {
	insertModel := identityLinkInsertModel{
		Provider:         string(link.Provider),
		ProviderPlayerID: link.ProviderPlayerID,
		PlayerID:         link.PlayerID,
		Confidence:       link.Confidence,
		CreatedAt:        link.CreatedAt.UTC(),
		UpdatedAt:        link.UpdatedAt.UTC(),
	}

	query, args, err := qb.InsertModel("external_identity_links", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert link query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert link %s:%s: %w", link.Provider, link.ProviderPlayerID, identity.ErrLinkExists)
		}
		return fmt.Errorf("insert link %s:%s: %w", link.Provider, link.ProviderPlayerID, err)
	}
	return nil
}

func (r *IdentityLinkRepository) Touch(ctx context.Context, p provider.Provider, providerPlayerID string, confidence float64, at time.Time) error {
	query, args, err := qb.Update("external_identity_links").
		Set("confidence", confidence).
		Set("updated_at", at.UTC()).
		Where(
			qb.Eq("provider", string(p)),
			qb.Eq("provider_player_id", providerPlayerID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build touch link query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("touch link %s:%s: %w", p, providerPlayerID, err)
	}
	return nil
}

func (r *IdentityLinkRepository) Reassign(ctx context.Context, p provider.Provider, providerPlayerID, playerID string, confidence float64, at time.Time) error {
	query, args, err := qb.Update("external_identity_links").
		Set("player_public_id", playerID).
		Set("confidence", confidence).
		Set("updated_at", at.UTC()).
		Where(
			qb.Eq("provider", string(p)),
			qb.Eq("provider_player_id", providerPlayerID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build reassign link query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("reassign link %s:%s to %s: %w", p, providerPlayerID, playerID, identity.ErrLinkExists)
		}
		return fmt.Errorf("reassign link %s:%s to %s: %w", p, providerPlayerID, playerID, err)
	}
	return nil
}

func (r *IdentityLinkRepository) get(ctx context.Context, what string, conditions ...qb.Condition) (identity.Link, bool, error) {
	query, args, err := qb.Select("*").From("external_identity_links").
		Where(conditions...).
		Limit(1).
		ToSQL()
	if err != nil {
		return identity.Link{}, false, fmt.Errorf("build get %s query: %w", what, err)
	}

	var row identityLinkTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return identity.Link{}, false, nil
		}
		return identity.Link{}, false, fmt.Errorf("get %s: %w", what, err)
	}
	return linkFromRow(row), true, nil
}

func linkFromRow(row identityLinkTableModel) identity.Link {
	return identity.Link{
		Provider:         provider.Provider(row.Provider),
		ProviderPlayerID: row.ProviderPlayerID,
		PlayerID:         row.PlayerID,
		Confidence:       row.Confidence,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) UpsertPending(ctx context.Context, item identity.ReviewItem) (identity.ReviewItem, error) {
	insertModel := reviewItemInsertModel{
		PublicID:            item.ID,
		Provider:            string(item.Provider),
		ProviderPlayerID:    item.ProviderPlayerID,
		Record:              encodeJSON(recordToJSON(item.Record), "{}"),
		Reason:              item.Reason,
		Candidates:          encodeJSON(item.Candidates, "[]"),
		SuggestedNew:        item.SuggestedNew,
		ProvisionalPlayerID: item.ProvisionalPlayerID,
		Status:              string(identity.ReviewStatusPending),
		CreatedAt:           item.CreatedAt.UTC(),
		UpdatedAt:           item.UpdatedAt.UTC(),
	}

	query, args, err := qb.InsertModel("identity_review_items", insertModel, `ON CONFLICT (provider, provider_player_id) WHERE status = 'pending'
DO UPDATE SET
    record = EXCLUDED.record,
    reason = EXCLUDED.reason,
    candidates = EXCLUDED.candidates,
    suggested_new = EXCLUDED.suggested_new,
    provisional_player_id = COALESCE(NULLIF(EXCLUDED.provisional_player_id, ''), identity_review_items.provisional_player_id),
    updated_at = EXCLUDED.updated_at
RETURNING *`)
	if err != nil {
		return identity.ReviewItem{}, fmt.Errorf("build upsert review item query: %w", err)
	}

	var row reviewItemTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return identity.ReviewItem{}, fmt.Errorf("upsert review item %s:%s: %w", item.Provider, item.ProviderPlayerID, err)
	}
	return reviewItemFromRow(row), nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (identity.ReviewItem, bool, error) {
	query, args, err := qb.Select("*").From("identity_review_items").
		Where(qb.Eq("public_id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return identity.ReviewItem{}, false, fmt.Errorf("build get review item query: %w", err)
	}

	var row reviewItemTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return identity.ReviewItem{}, false, nil
		}
		return identity.ReviewItem{}, false, fmt.Errorf("get review item: %w", err)
	}
	return reviewItemFromRow(row), true, nil
}

func (r *ReviewRepository) ListByStatus(ctx context.Context, status identity.ReviewStatus, limit int) ([]identity.ReviewItem, error) {
	query, args, err := qb.Select("*").From("identity_review_items").
		Where(qb.Eq("status", string(status))).
		OrderBy("created_at", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list review items query: %w", err)
	}

	var rows []reviewItemTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list review items: %w", err)
	}

	out := make([]identity.ReviewItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, reviewItemFromRow(row))
	}
	return out, nil
}

func (r *ReviewRepository) MarkResolved(ctx context.Context, id string, status identity.ReviewStatus, resolvedPlayerID string, at time.Time) error {
	query, args, err := qb.Update("identity_review_items").
		Set("status", string(status)).
		Set("resolved_player_id", resolvedPlayerID).
		Set("resolved_at", at.UTC()).
		Set("updated_at", at.UTC()).
		Where(
			qb.Eq("public_id", id),
			qb.Eq("status", string(identity.ReviewStatusPending)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build resolve review item query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("resolve review item id=%s: %w", id, err)
	}
	return nil
}

func recordToJSON(record identity.ProviderRecord) reviewRecordJSON {
	return reviewRecordJSON{
		Name:          record.Name,
		BirthDate:     record.BirthDate,
		Nationality:   record.Nationality,
		Position:      record.Position,
		PositionGroup: string(record.PositionGroup),
		TeamID:        record.TeamID,
		TeamName:      record.TeamName,
		CompetitionID: record.CompetitionID,
	}
}

func reviewItemFromRow(row reviewItemTableModel) identity.ReviewItem {
	var record reviewRecordJSON
	decodeJSON(row.Record, &record)

	var candidates []identity.ScoredCandidate
	decodeJSON(row.Candidates, &candidates)

	return identity.ReviewItem{
		ID:               row.PublicID,
		Provider:         provider.Provider(row.Provider),
		ProviderPlayerID: row.ProviderPlayerID,
		Record: identity.ProviderRecord{
			Provider:         provider.Provider(row.Provider),
			ProviderPlayerID: row.ProviderPlayerID,
			Name:             record.Name,
			BirthDate:        record.BirthDate,
			Nationality:      record.Nationality,
			Position:         record.Position,
			PositionGroup:    player.PositionGroup(record.PositionGroup),
			TeamID:           record.TeamID,
			TeamName:         record.TeamName,
			CompetitionID:    record.CompetitionID,
		},
		Reason:              row.Reason,
		Candidates:          candidates,
		SuggestedNew:        row.SuggestedNew,
		ProvisionalPlayerID: row.ProvisionalPlayerID,
		Status:              identity.ReviewStatus(row.Status),
		ResolvedPlayerID:    row.ResolvedPlayerID,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
		ResolvedAt:          row.ResolvedAt,
	}
}
