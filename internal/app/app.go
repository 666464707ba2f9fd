package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/scout-core/external/providers"
	"github.com/riskibarqy/scout-core/internal/config"
	"github.com/riskibarqy/scout-core/internal/domain/identity"
	"github.com/riskibarqy/scout-core/internal/domain/profile"
	"github.com/riskibarqy/scout-core/internal/interfaces/httpapi"
	"github.com/riskibarqy/scout-core/internal/observability"
	"github.com/riskibarqy/scout-core/internal/platform/logging"
	"github.com/riskibarqy/scout-core/internal/platform/similarity"
	"github.com/riskibarqy/scout-core/internal/usecase"
)

// Services groups the use cases shared by the HTTP server and the CLI jobs.
type Services struct {
	Identity   *usecase.IdentityService
	Profile    *usecase.ProfileService
	Appearance *usecase.AppearanceService
	Rating     *usecase.RatingService
	Player     *usecase.PlayerService
}

type Runtime struct {
	Services Services
	registry *prometheus.Registry
	closeFn  func() error
}

func NewRuntime(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := observability.NewServiceMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("register service metrics: %w", err)
	}

	repos, closeFn, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	resolver := identity.NewResolver(scoringConfig(cfg), similarity.Scorer{MaxLengthGap: cfg.SimilarityMaxLengthGap})

	services := Services{
		Identity: usecase.NewIdentityService(
			repos.players,
			repos.teams,
			repos.links,
			repos.reviews,
			resolver,
			logger,
			metrics,
		),
		Profile: usecase.NewProfileService(
			repos.players,
			repos.snapshots,
			repos.conflicts,
			profile.DefaultPrecedence(),
			providers.Decoder{},
			logger,
			metrics,
		),
		Appearance: usecase.NewAppearanceService(repos.players, repos.appearances, logger, metrics),
		Rating: usecase.NewRatingService(
			repos.competitions,
			repos.players,
			repos.appearances,
			repos.windows,
			repos.ratingProfiles,
			repos.playerRatings,
			repos.competitionRatings,
			ratingConfig(cfg),
			logger,
			metrics,
		),
		Player: usecase.NewPlayerService(
			repos.players,
			repos.links,
			repos.snapshots,
			repos.conflicts,
			repos.windows,
			repos.playerRatings,
		),
	}

	return &Runtime{
		Services: services,
		registry: registry,
		closeFn:  closeFn,
	}, nil
}

func (r *Runtime) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

func (r *Runtime) Close() error {
	if r == nil || r.closeFn == nil {
		return nil
	}
	return r.closeFn()
}

func NewHTTPServer(cfg config.Config, runtime *Runtime, logger *logging.Logger) (*http.Server, error) {
	if runtime == nil {
		return nil, fmt.Errorf("runtime is required")
	}

	handler := httpapi.NewHandler(
		runtime.Services.Identity,
		runtime.Services.Profile,
		runtime.Services.Appearance,
		runtime.Services.Rating,
		runtime.Services.Player,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
		MetricsHandler:     runtime.MetricsHandler(),
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func scoringConfig(cfg config.Config) identity.ScoringConfig {
	out := identity.DefaultScoringConfig()
	out.ConfidenceThreshold = cfg.ResolverConfidenceThreshold
	out.MinLead = cfg.ResolverMinLead
	out.TeamSimilarity = cfg.ResolverTeamSimilarity
	out.CompetitionSimilarity = cfg.ResolverCompetitionSimilarity
	return out
}

func ratingConfig(cfg config.Config) usecase.RatingConfig {
	return usecase.RatingConfig{
		MinMinutes:     cfg.RatingMinMinutes,
		TopN:           cfg.RatingTopN,
		WindowDays:     cfg.RatingWindowDays,
		LastN:          cfg.RatingLastN,
		WriteChunkSize: cfg.RatingWriteChunkSize,
		WriteWorkers:   cfg.RatingWriteWorkers,
	}
}
