package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/scout-core/internal/domain/identity"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
	"github.com/riskibarqy/scout-core/internal/usecase"
)

type resolveIdentityRequest struct {
	Provider         string `json:"provider" validate:"required"`
	ProviderPlayerID string `json:"provider_player_id" validate:"required,max=128"`
	Name             string `json:"name" validate:"required,max=200"`
	BirthDate        string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Nationality      string `json:"nationality" validate:"omitempty,max=100"`
	Position         string `json:"position" validate:"omitempty,max=50"`
	PositionGroup    string `json:"position_group" validate:"omitempty,max=10"`
	TeamID           string `json:"team_id" validate:"omitempty,max=128"`
	TeamName         string `json:"team_name" validate:"omitempty,max=200"`
	CompetitionID    string `json:"competition_id" validate:"omitempty,max=128"`
}

type acceptReviewRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

func (h *Handler) ResolveIdentity(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveIdentity")
	defer span.End()

	var req resolveIdentityRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	record, err := req.toRecord()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.identityService.ResolveAndLink(ctx, record)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve identity failed",
			"provider", req.Provider,
			"provider_player_id", req.ProviderPlayerID,
			"caller", jobCallerFromContext(ctx),
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if result.IsNew {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, result)
}

func (h *Handler) ListReviewItems(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListReviewItems")
	defer span.End()

	limit, err := parseLimitQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.identityService.ListReviewItems(ctx, r.URL.Query().Get("status"), limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list review items failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]reviewItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, reviewItemToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) AcceptReviewItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptReviewItem")
	defer span.End()

	reviewID := r.PathValue("reviewID")
	var req acceptReviewRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.identityService.AcceptReviewItem(ctx, reviewID, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "accept review item failed", "review_id", reviewID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "review item accepted",
		"review_id", reviewID,
		"player_id", item.ResolvedPlayerID,
		"caller", jobCallerFromContext(ctx),
	)
	writeSuccess(ctx, w, http.StatusOK, reviewItemToDTO(item))
}

func (h *Handler) RejectReviewItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectReviewItem")
	defer span.End()

	reviewID := r.PathValue("reviewID")
	item, err := h.identityService.RejectReviewItem(ctx, reviewID)
	if err != nil {
		h.logger.WarnContext(ctx, "reject review item failed", "review_id", reviewID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "review item rejected",
		"review_id", reviewID,
		"player_id", item.ResolvedPlayerID,
		"caller", jobCallerFromContext(ctx),
	)
	writeSuccess(ctx, w, http.StatusOK, reviewItemToDTO(item))
}

func (req resolveIdentityRequest) toRecord() (identity.ProviderRecord, error) {
	p, err := provider.Parse(req.Provider)
	if err != nil {
		return identity.ProviderRecord{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	record := identity.ProviderRecord{
		Provider:         p,
		ProviderPlayerID: req.ProviderPlayerID,
		Name:             req.Name,
		BirthDate:        req.BirthDate,
		Nationality:      req.Nationality,
		Position:         req.Position,
		TeamID:           req.TeamID,
		TeamName:         req.TeamName,
		CompetitionID:    req.CompetitionID,
	}
	if strings.TrimSpace(req.PositionGroup) != "" {
		group, ok := player.ParsePositionGroup(req.PositionGroup)
		if !ok {
			return identity.ProviderRecord{}, fmt.Errorf("%w: unknown position group %q", usecase.ErrInvalidInput, req.PositionGroup)
		}
		record.PositionGroup = group
	}
	return record, nil
}
