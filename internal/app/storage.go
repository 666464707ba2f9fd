package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/scout-core/internal/config"
	"github.com/riskibarqy/scout-core/internal/domain/competition"
	"github.com/riskibarqy/scout-core/internal/domain/identity"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/playerstats"
	"github.com/riskibarqy/scout-core/internal/domain/profile"
	"github.com/riskibarqy/scout-core/internal/domain/rating"
	"github.com/riskibarqy/scout-core/internal/domain/team"
	cacherepo "github.com/riskibarqy/scout-core/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/scout-core/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/scout-core/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/scout-core/internal/platform/cache"
	"github.com/riskibarqy/scout-core/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

type repositories struct {
	competitions       competition.Repository
	teams              team.Repository
	players            player.Repository
	links              identity.LinkRepository
	reviews            identity.ReviewRepository
	snapshots          profile.SnapshotRepository
	conflicts          profile.ConflictRepository
	appearances        playerstats.AppearanceRepository
	windows            playerstats.WindowRepository
	ratingProfiles     rating.ProfileRepository
	playerRatings      rating.PlayerRatingRepository
	competitionRatings rating.CompetitionRatingRepository
}

func newMemoryRepositories() repositories {
	return repositories{
		competitions:       memory.NewCompetitionRepository(memory.SeedCompetitions()),
		teams:              memory.NewTeamRepository(memory.SeedTeams()),
		players:            memory.NewPlayerRepository(nil),
		links:              memory.NewIdentityLinkRepository(),
		reviews:            memory.NewReviewRepository(),
		snapshots:          memory.NewSnapshotRepository(),
		conflicts:          memory.NewConflictRepository(),
		appearances:        memory.NewAppearanceRepository(),
		windows:            memory.NewWindowRepository(),
		ratingProfiles:     memory.NewRatingProfileRepository(rating.DefaultProfiles()),
		playerRatings:      memory.NewPlayerRatingRepository(),
		competitionRatings: memory.NewCompetitionRatingRepository(),
	}
}

func newPostgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		competitions:       postgres.NewCompetitionRepository(db),
		teams:              postgres.NewTeamRepository(db),
		players:            postgres.NewPlayerRepository(db),
		links:              postgres.NewIdentityLinkRepository(db),
		reviews:            postgres.NewReviewRepository(db),
		snapshots:          postgres.NewSnapshotRepository(db),
		conflicts:          postgres.NewConflictRepository(db),
		appearances:        postgres.NewAppearanceRepository(db),
		windows:            postgres.NewWindowRepository(db),
		ratingProfiles:     postgres.NewRatingProfileRepository(db),
		playerRatings:      postgres.NewPlayerRatingRepository(db),
		competitionRatings: postgres.NewCompetitionRatingRepository(db),
	}
}

// withReadCache wraps the reference and rating-profile repositories, which are
// read on every resolve and recompute but written rarely.
func (r repositories) withReadCache(ttl time.Duration) repositories {
	store := basecache.NewStore[any](ttl)
	r.competitions = cacherepo.NewCompetitionRepository(r.competitions, store)
	r.teams = cacherepo.NewTeamRepository(r.teams, store)
	r.ratingProfiles = cacherepo.NewRatingProfileRepository(r.ratingProfiles, store)
	return r
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	noopClose := func() error { return nil }

	var repos repositories
	closeFn := noopClose
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return repositories{}, noopClose, err
		}
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return repositories{}, noopClose, fmt.Errorf("bootstrap seed: %w", err)
		}
		repos = newPostgresRepositories(db)
		closeFn = db.Close
		logger.Info("storage ready", "storage_driver", cfg.StorageDriver, "db_name", dbNameFromURL(cfg.DBURL))
	default:
		repos = newMemoryRepositories()
		logger.Info("storage ready", "storage_driver", config.StorageMemory)
	}

	if cfg.CacheEnabled {
		repos = repos.withReadCache(cfg.CacheTTL)
	}
	return repos, closeFn, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
