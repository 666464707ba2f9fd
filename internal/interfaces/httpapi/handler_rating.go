package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/playerstats"
	"github.com/riskibarqy/scout-core/internal/domain/rating"
	"github.com/riskibarqy/scout-core/internal/usecase"
)

type upsertAppearancesRequest struct {
	Appearances []playerstats.MatchAppearance `json:"appearances" validate:"required,min=1,max=5000"`
}

type recomputeRatingsRequest struct {
	CompetitionID string     `json:"competition_id" validate:"omitempty,max=128"`
	Country       string     `json:"country" validate:"omitempty,max=64"`
	From          *time.Time `json:"from"`
	To            *time.Time `json:"to"`
	DryRun        bool       `json:"dry_run"`
}

type updateRatingProfileRequest struct {
	Weights       map[string]float64 `json:"weights" validate:"required,min=1,dive,gte=0"`
	InvertMetrics []string           `json:"invert_metrics" validate:"omitempty,dive,required"`
}

func (h *Handler) UpsertAppearances(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertAppearances")
	defer span.End()

	var req upsertAppearancesRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.appearanceService.UpsertAppearances(ctx, req.Appearances)
	if err != nil {
		h.logger.WarnContext(ctx, "upsert appearances failed", "rows", len(req.Appearances), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RecomputeRatings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeRatings")
	defer span.End()

	var req recomputeRatingsRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.CompetitionID != "" && req.Country != "" {
		writeError(ctx, w, fmt.Errorf("%w: competition_id and country are mutually exclusive", usecase.ErrInvalidInput))
		return
	}

	input := usecase.RecomputeInput{
		CompetitionID: req.CompetitionID,
		Country:       req.Country,
		DryRun:        req.DryRun,
	}
	if req.From != nil {
		input.From = req.From.UTC()
	}
	if req.To != nil {
		input.To = req.To.UTC()
	}

	result, err := h.ratingService.RecomputeRatings(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "recompute ratings failed",
			"competition_id", req.CompetitionID,
			"country", req.Country,
			"dry_run", req.DryRun,
			"caller", jobCallerFromContext(ctx),
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) UpdateRatingProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateRatingProfile")
	defer span.End()

	group, ok := player.ParsePositionGroup(r.PathValue("positionGroup"))
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown position group %q", usecase.ErrInvalidInput, r.PathValue("positionGroup")))
		return
	}

	var req updateRatingProfileRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item := rating.Profile{
		PositionGroup: group,
		Weights:       make(map[playerstats.Feature]float64, len(req.Weights)),
		InvertMetrics: make(map[playerstats.Feature]struct{}, len(req.InvertMetrics)),
	}
	for feature, weight := range req.Weights {
		item.Weights[playerstats.Feature(feature)] = weight
	}
	for _, feature := range req.InvertMetrics {
		item.InvertMetrics[playerstats.Feature(feature)] = struct{}{}
	}

	updated, err := h.ratingService.UpdateProfile(ctx, item)
	if err != nil {
		h.logger.WarnContext(ctx, "update rating profile failed", "position_group", group, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "rating profile updated",
		"position_group", group,
		"weights", len(updated.Weights),
		"caller", jobCallerFromContext(ctx),
	)
	writeSuccess(ctx, w, http.StatusOK, ratingProfileToDTO(updated))
}

func (h *Handler) ListRatingProfiles(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRatingProfiles")
	defer span.End()

	profiles, err := h.ratingService.ListProfiles(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list rating profiles failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]ratingProfileDTO, 0, len(profiles))
	for _, item := range profiles {
		out = append(out, ratingProfileToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListTopRated(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTopRated")
	defer span.End()

	limit, err := parseLimitQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	positionGroup := r.URL.Query().Get("position_group")
	ratings, err := h.ratingService.ListTopRated(ctx, positionGroup, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list top rated failed", "position_group", positionGroup, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerRatingsToDTO(ratings))
}

func (h *Handler) ListCompetitionRatings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitionRatings")
	defer span.End()

	items, err := h.ratingService.ListCompetitionRatings(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list competition ratings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]competitionRatingDTO, 0, len(items))
	for _, item := range items {
		out = append(out, competitionRatingDTO{
			CompetitionID: item.CompetitionID,
			Tier:          item.Tier,
			StrengthScore: item.StrengthScore,
			RatedPlayers:  item.RatedPlayers,
			ComputedAt:    item.ComputedAt,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
