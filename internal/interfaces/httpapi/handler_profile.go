package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/riskibarqy/scout-core/internal/domain/provider"
	"github.com/riskibarqy/scout-core/internal/usecase"
)

type resolveConflictRequest struct {
	Field          string `json:"field" validate:"required"`
	Provider       string `json:"provider" validate:"required"`
	AcceptProvider bool   `json:"accept_provider"`
}

func (h *Handler) MergeProviderProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MergeProviderProfile")
	defer span.End()

	playerID := r.PathValue("playerID")
	p, err := provider.Parse(r.PathValue("provider"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxProfilePayloadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(ctx, w, fmt.Errorf("%w: profile payload exceeds %d bytes", usecase.ErrInvalidInput, tooLarge.Limit))
			return
		}
		writeError(ctx, w, fmt.Errorf("%w: read profile payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if len(raw) == 0 {
		writeError(ctx, w, fmt.Errorf("%w: profile payload is empty", usecase.ErrInvalidInput))
		return
	}

	result, err := h.profileService.MergeProviderPayload(ctx, playerID, p, raw)
	if err != nil {
		h.logger.WarnContext(ctx, "merge provider profile failed", "player_id", playerID, "provider", p, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mergeResultToDTO(result))
}

func (h *Handler) ListFieldConflicts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFieldConflicts")
	defer span.End()

	playerID := r.PathValue("playerID")
	conflicts, err := h.profileService.ListConflicts(ctx, playerID, r.URL.Query().Get("status"))
	if err != nil {
		h.logger.WarnContext(ctx, "list field conflicts failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, conflictsToDTO(conflicts))
}

func (h *Handler) ResolveFieldConflict(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveFieldConflict")
	defer span.End()

	playerID := r.PathValue("playerID")
	var req resolveConflictRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	conflict, err := h.profileService.ResolveConflict(ctx, usecase.ResolveConflictInput{
		PlayerID:       playerID,
		Field:          req.Field,
		Provider:       req.Provider,
		AcceptProvider: req.AcceptProvider,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "resolve field conflict failed",
			"player_id", playerID,
			"field", req.Field,
			"provider", req.Provider,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, conflictToDTO(conflict))
}
