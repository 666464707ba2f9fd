package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/scout-core/internal/domain/competition"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/playerstats"
	"github.com/riskibarqy/scout-core/internal/domain/rating"
	"github.com/riskibarqy/scout-core/internal/platform/logging"
	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultTopRatedLimit = 25
	maxTopRatedLimit     = 200
)

type RatingConfig struct {
	MinMinutes     int
	TopN           int
	WindowDays     int
	LastN          int
	WriteChunkSize int
	WriteWorkers   int
}

func DefaultRatingConfig() RatingConfig {
	return RatingConfig{
		MinMinutes:     rating.DefaultMinMinutes,
		TopN:           rating.DefaultTopN,
		WindowDays:     365,
		LastN:          5,
		WriteChunkSize: 500,
		WriteWorkers:   4,
	}
}

type RecomputeInput struct {
	CompetitionID string
	Country       string
	// From and To are read as UTC dates, both inclusive.
	From time.Time
	To   time.Time
	// DryRun computes everything and skips every write.
	DryRun bool
}

type RecomputeResult struct {
	PlayersProcessed  int       `json:"players_processed"`
	RatingsComputed   int       `json:"ratings_computed"`
	CompetitionsRated int       `json:"competitions_rated"`
	WindowsStored     int       `json:"windows_stored"`
	FailedWrites      int       `json:"failed_writes"`
	StaleRemoved      int       `json:"stale_removed"`
	DryRun            bool      `json:"dry_run"`
	From              time.Time `json:"from"`
	To                time.Time `json:"to"`
	DurationMs        int64     `json:"duration_ms"`
}

type RatingService struct {
	competitionRepo       competition.Repository
	playerRepo            player.Repository
	appearanceRepo        playerstats.AppearanceRepository
	windowRepo            playerstats.WindowRepository
	profileRepo           rating.ProfileRepository
	playerRatingRepo      rating.PlayerRatingRepository
	competitionRatingRepo rating.CompetitionRatingRepository
	cfg                   RatingConfig
	logger                *logging.Logger
	metrics               Recorder
	now                   func() time.Time
}

func NewRatingService(
	competitionRepo competition.Repository,
	playerRepo player.Repository,
	appearanceRepo playerstats.AppearanceRepository,
	windowRepo playerstats.WindowRepository,
	profileRepo rating.ProfileRepository,
	playerRatingRepo rating.PlayerRatingRepository,
	competitionRatingRepo rating.CompetitionRatingRepository,
	cfg RatingConfig,
	logger *logging.Logger,
	metrics Recorder,
) *RatingService {
	defaults := DefaultRatingConfig()
	if cfg.MinMinutes < 0 {
		cfg.MinMinutes = defaults.MinMinutes
	}
	if cfg.TopN <= 0 {
		cfg.TopN = defaults.TopN
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = defaults.WindowDays
	}
	if cfg.LastN <= 0 {
		cfg.LastN = defaults.LastN
	}
	if cfg.WriteChunkSize <= 0 {
		cfg.WriteChunkSize = defaults.WriteChunkSize
	}
	if cfg.WriteWorkers <= 0 {
		cfg.WriteWorkers = defaults.WriteWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	if metrics == nil {
		metrics = NewNoopRecorder()
	}

	return &RatingService{
		competitionRepo:       competitionRepo,
		playerRepo:            playerRepo,
		appearanceRepo:        appearanceRepo,
		windowRepo:            windowRepo,
		profileRepo:           profileRepo,
		playerRatingRepo:      playerRatingRepo,
		competitionRatingRepo: competitionRatingRepo,
		cfg:                   cfg,
		logger:                logger,
		metrics:               metrics,
		now:                   time.Now,
	}
}

type playerWindows struct {
	player  player.CanonicalPlayer
	days    playerstats.Window
	recent  playerstats.Window
	minutes int
}

// RecomputeRatings rebuilds windows and ratings for the scoped population.
// Every distribution is built before any player is scored; writes happen
// only after scoring finished.
func (s *RatingService) RecomputeRatings(ctx context.Context, input RecomputeInput) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.RecomputeRatings",
		attribute.String("competition_id", input.CompetitionID),
		attribute.String("country", input.Country),
		attribute.Bool("dry_run", input.DryRun),
	)
	defer span.End()

	started := s.now()
	now := started.UTC()

	from, to := recomputeRange(input, now, s.cfg.WindowDays)
	if from.After(to) {
		return RecomputeResult{}, fmt.Errorf("%w: from %s is after to %s", ErrInvalidInput, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}

	competitions, err := s.scopedCompetitions(ctx, input)
	if err != nil {
		return RecomputeResult{}, err
	}
	tiers := make(map[string]int, len(competitions))
	competitionIDs := make([]string, 0, len(competitions))
	for _, item := range competitions {
		tiers[item.ID] = item.Tier
		competitionIDs = append(competitionIDs, item.ID)
	}

	players, err := s.scopedPlayers(ctx, competitions)
	if err != nil {
		return RecomputeResult{}, err
	}

	profiles, err := s.loadProfiles(ctx)
	if err != nil {
		return RecomputeResult{}, err
	}

	windows, err := s.buildWindows(ctx, players, from, to, now)
	if err != nil {
		return RecomputeResult{}, err
	}

	inputs := make([]rating.Input, 0, len(windows))
	for _, item := range windows {
		inputs = append(inputs, rating.Input{
			PlayerID:      item.player.ID,
			CompetitionID: item.player.CompetitionID,
			PositionGroup: item.player.PositionGroup,
			Tier:          tiers[item.player.CompetitionID],
			Minutes365:    item.minutes,
			Features365:   item.days.Features,
			FeaturesLast5: item.recent.Features,
		})
	}

	outputs := rating.ComputeAllRatings(inputs, profiles, rating.Options{MinMinutes: s.cfg.MinMinutes})
	competitionRatings := rating.RateCompetitions(outputs, tiers, s.cfg.TopN)

	result := RecomputeResult{
		PlayersProcessed:  len(players),
		RatingsComputed:   len(outputs),
		CompetitionsRated: len(competitionRatings),
		DryRun:            input.DryRun,
		From:              from,
		To:                to,
	}

	if !input.DryRun {
		if err := s.persist(ctx, competitionIDs, windows, outputs, competitionRatings, now, &result); err != nil {
			return RecomputeResult{}, err
		}
	}

	elapsed := s.now().Sub(started)
	result.DurationMs = elapsed.Milliseconds()
	s.metrics.ObserveRatingRun(input.DryRun, result.RatingsComputed, result.FailedWrites, elapsed)
	s.logger.InfoContext(ctx, "rating recompute finished",
		"competition_id", input.CompetitionID,
		"country", input.Country,
		"players", result.PlayersProcessed,
		"ratings", result.RatingsComputed,
		"competitions", result.CompetitionsRated,
		"failed_writes", result.FailedWrites,
		"stale_removed", result.StaleRemoved,
		"dry_run", input.DryRun,
	)
	return result, nil
}

// recomputeRange resolves the aggregation window. Explicit bounds are whole
// UTC days: From starts at midnight and To covers its entire day, so a match
// kicked off in the evening of To is included. Timestamps are stored with
// microsecond precision, hence the last microsecond as the inclusive bound.
func recomputeRange(input RecomputeInput, now time.Time, windowDays int) (time.Time, time.Time) {
	to := now
	if !input.To.IsZero() {
		to = startOfDay(input.To).AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	from := to.AddDate(0, 0, -windowDays)
	if !input.From.IsZero() {
		from = startOfDay(input.From)
	}
	return from, to
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *RatingService) scopedCompetitions(ctx context.Context, input RecomputeInput) ([]competition.Competition, error) {
	competitionID := strings.TrimSpace(input.CompetitionID)
	country := strings.TrimSpace(input.Country)

	switch {
	case competitionID != "":
		item, exists, err := s.competitionRepo.GetByID(ctx, competitionID)
		if err != nil {
			return nil, fmt.Errorf("get competition: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: competition=%s", ErrNotFound, competitionID)
		}
		return []competition.Competition{item}, nil
	case country != "":
		items, err := s.competitionRepo.ListByCountry(ctx, country)
		if err != nil {
			return nil, fmt.Errorf("list competitions by country: %w", err)
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("%w: no competitions for country=%s", ErrNotFound, country)
		}
		return items, nil
	default:
		items, err := s.competitionRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list competitions: %w", err)
		}
		return items, nil
	}
}

func (s *RatingService) scopedPlayers(ctx context.Context, competitions []competition.Competition) ([]player.CanonicalPlayer, error) {
	out := make([]player.CanonicalPlayer, 0)
	seen := make(map[string]struct{})
	for _, item := range competitions {
		players, err := s.playerRepo.ListByCompetition(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("list players by competition=%s: %w", item.ID, err)
		}
		for _, p := range players {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// loadProfiles falls back to the built-in profile for any position group the
// store has no row for.
func (s *RatingService) loadProfiles(ctx context.Context) (map[player.PositionGroup]rating.Profile, error) {
	stored, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rating profiles: %w", err)
	}
	profiles := rating.DefaultProfiles()
	for _, item := range stored {
		profiles[item.PositionGroup] = item
	}
	return profiles, nil
}

func (s *RatingService) buildWindows(ctx context.Context, players []player.CanonicalPlayer, from, to, now time.Time) ([]playerWindows, error) {
	if len(players) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(players))
	for _, item := range players {
		ids = append(ids, item.ID)
	}
	appearances, err := s.appearanceRepo.ListByPlayers(ctx, ids, to)
	if err != nil {
		return nil, fmt.Errorf("list appearances by players: %w", err)
	}

	mapper := iter.Mapper[player.CanonicalPlayer, playerWindows]{MaxGoroutines: s.cfg.WriteWorkers}
	return mapper.Map(players, func(item *player.CanonicalPlayer) playerWindows {
		apps := appearances[item.ID]
		days := playerstats.Aggregate(item.ID, apps, from, to)
		recent := playerstats.AggregateLastN(item.ID, apps, s.cfg.LastN)
		days.ComputedAt = now
		recent.ComputedAt = now
		return playerWindows{
			player:  *item,
			days:    days,
			recent:  recent,
			minutes: days.Minutes,
		}
	}), nil
}

// persist writes windows, player ratings and competition ratings, then drops
// rows of the scoped competitions that this run did not rewrite. Stale rows
// of a target are kept when any of its writes failed.
func (s *RatingService) persist(
	ctx context.Context,
	competitionIDs []string,
	windows []playerWindows,
	outputs []rating.Output,
	competitionRatings []rating.CompetitionRating,
	now time.Time,
	result *RecomputeResult,
) error {
	windowRows := make([]playerstats.Window, 0, 2*len(windows))
	for _, item := range windows {
		windowRows = append(windowRows, item.days, item.recent)
	}

	ratingRows := make([]rating.PlayerRating, 0, len(outputs))
	for _, item := range outputs {
		ratingRows = append(ratingRows, rating.PlayerRating{
			PlayerID:      item.PlayerID,
			CompetitionID: item.CompetitionID,
			PositionGroup: item.PositionGroup,
			Rating365:     item.Rating365,
			RatingLast5:   item.RatingLast5,
			Tier:          item.Tier,
			LevelScore:    item.LevelScore,
			Minutes365:    item.Minutes365,
			ComputedAt:    now,
		})
	}

	pool, err := ants.NewPool(s.cfg.WriteWorkers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	storedWindows, failedWindows, err := writeInChunks(ctx, pool, windowRows, s.cfg.WriteChunkSize, s.windowRepo.Replace, s.logWriteFailure("windows"))
	if err != nil {
		return err
	}
	_, failedRatings, err := writeInChunks(ctx, pool, ratingRows, s.cfg.WriteChunkSize, s.playerRatingRepo.Upsert, s.logWriteFailure("player_ratings"))
	if err != nil {
		return err
	}

	for i := range competitionRatings {
		competitionRatings[i].ComputedAt = now
	}
	failedCompetitions := 0
	if len(competitionRatings) > 0 {
		if err := s.competitionRatingRepo.Upsert(ctx, competitionRatings); err != nil {
			s.logWriteFailure("competition_ratings")(len(competitionRatings), err)
			failedCompetitions = len(competitionRatings)
		}
	}

	result.WindowsStored = storedWindows
	result.FailedWrites = failedWindows + failedRatings + failedCompetitions
	if failedRatings == 0 {
		result.StaleRemoved += s.deleteStale(ctx, "player_ratings", competitionIDs, now, s.playerRatingRepo.DeleteStale)
	}
	if failedCompetitions == 0 {
		result.StaleRemoved += s.deleteStale(ctx, "competition_ratings", competitionIDs, now, s.competitionRatingRepo.DeleteStale)
	}
	return nil
}

func (s *RatingService) deleteStale(
	ctx context.Context,
	target string,
	competitionIDs []string,
	cutoff time.Time,
	remove func(context.Context, []string, time.Time) (int, error),
) int {
	removed, err := remove(ctx, competitionIDs, cutoff)
	if err != nil {
		s.logger.WarnContext(ctx, "stale rating cleanup failed", "target", target, "competitions", len(competitionIDs), "error", err)
		return 0
	}
	return removed
}

func (s *RatingService) logWriteFailure(target string) func(rows int, err error) {
	return func(rows int, err error) {
		s.logger.Warn("rating write chunk failed", "target", target, "rows", rows, "error", err)
	}
}

// writeInChunks submits one write per chunk to pool and waits for all of
// them. A failed chunk is reported through onFailure and counted; it never
// stops the other chunks.
func writeInChunks[T any](
	ctx context.Context,
	pool *ants.Pool,
	items []T,
	size int,
	write func(context.Context, []T) error,
	onFailure func(rows int, err error),
) (int, int, error) {
	var written atomic.Int64
	var failed atomic.Int64
	var workers sync.WaitGroup

	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunk := items[start:end]

		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if err := write(ctx, chunk); err != nil {
				failed.Add(int64(len(chunk)))
				onFailure(len(chunk), err)
				return
			}
			written.Add(int64(len(chunk)))
		}); err != nil {
			workers.Done()
			workers.Wait()
			return 0, 0, fmt.Errorf("submit write chunk to worker pool: %w", err)
		}
	}

	workers.Wait()
	return int(written.Load()), int(failed.Load()), nil
}

func (s *RatingService) UpdateProfile(ctx context.Context, item rating.Profile) (rating.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.UpdateProfile")
	defer span.End()

	if err := item.Validate(); err != nil {
		return rating.Profile{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	item.UpdatedAt = s.now().UTC()
	if err := s.profileRepo.Upsert(ctx, item); err != nil {
		return rating.Profile{}, fmt.Errorf("upsert rating profile: %w", err)
	}
	return item, nil
}

func (s *RatingService) ListProfiles(ctx context.Context) ([]rating.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.ListProfiles")
	defer span.End()

	profiles, err := s.loadProfiles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]rating.Profile, 0, len(profiles))
	for _, group := range player.OrderedPositionGroups {
		if item, ok := profiles[group]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *RatingService) ListTopRated(ctx context.Context, positionGroup string, limit int) ([]rating.PlayerRating, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.ListTopRated")
	defer span.End()

	group, ok := player.ParsePositionGroup(positionGroup)
	if !ok {
		return nil, fmt.Errorf("%w: invalid position group %q", ErrInvalidInput, positionGroup)
	}
	if limit <= 0 {
		limit = defaultTopRatedLimit
	}
	if limit > maxTopRatedLimit {
		limit = maxTopRatedLimit
	}

	items, err := s.playerRatingRepo.ListTop(ctx, group, limit)
	if err != nil {
		return nil, fmt.Errorf("list top rated players: %w", err)
	}
	return items, nil
}

func (s *RatingService) ListCompetitionRatings(ctx context.Context) ([]rating.CompetitionRating, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.ListCompetitionRatings")
	defer span.End()

	items, err := s.competitionRatingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list competition ratings: %w", err)
	}
	return items, nil
}
