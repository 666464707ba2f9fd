package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayerDetail)
	mux.HandleFunc("GET /v1/ratings/top", handler.ListTopRated)
	mux.HandleFunc("GET /v1/ratings/competitions", handler.ListCompetitionRatings)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	guard := func(h http.HandlerFunc) http.Handler {
		return RequireInternalJobToken(internalJobToken, h)
	}

	mux.Handle("POST /v1/internal/identity/resolve", guard(handler.ResolveIdentity))
	mux.Handle("GET /v1/internal/identity/reviews", guard(handler.ListReviewItems))
	mux.Handle("POST /v1/internal/identity/reviews/{reviewID}/accept", guard(handler.AcceptReviewItem))
	mux.Handle("POST /v1/internal/identity/reviews/{reviewID}/reject", guard(handler.RejectReviewItem))

	mux.Handle("POST /v1/internal/players/{playerID}/profiles/{provider}", guard(handler.MergeProviderProfile))
	mux.Handle("GET /v1/internal/players/{playerID}/conflicts", guard(handler.ListFieldConflicts))
	mux.Handle("POST /v1/internal/players/{playerID}/conflicts/resolve", guard(handler.ResolveFieldConflict))

	mux.Handle("POST /v1/internal/appearances", guard(handler.UpsertAppearances))
	mux.Handle("POST /v1/internal/ratings/recompute", guard(handler.RecomputeRatings))
	mux.Handle("GET /v1/internal/rating-profiles", guard(handler.ListRatingProfiles))
	mux.Handle("PUT /v1/internal/rating-profiles/{positionGroup}", guard(handler.UpdateRatingProfile))
}
