package httpapi

import "net/http"

func (h *Handler) GetPlayerDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerDetail")
	defer span.End()

	playerID := r.PathValue("playerID")
	detail, err := h.playerService.GetPlayerDetail(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player detail failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerDetailToDTO(detail))
}
