package usecase

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/playerstats"
	"github.com/riskibarqy/scout-core/internal/platform/logging"
)

const maxAppearancesPerBatch = 5000

type UpsertAppearancesResult struct {
	Received int `json:"received"`
	Stored   int `json:"stored"`
	Dropped  int `json:"dropped"`
	Removed  int `json:"removed"`
}

type AppearanceService struct {
	playerRepo     player.Repository
	appearanceRepo playerstats.AppearanceRepository
	validator      *validator.Validate
	logger         *logging.Logger
	metrics        Recorder
}

func NewAppearanceService(
	playerRepo player.Repository,
	appearanceRepo playerstats.AppearanceRepository,
	logger *logging.Logger,
	metrics Recorder,
) *AppearanceService {
	if logger == nil {
		logger = logging.Default()
	}
	if metrics == nil {
		metrics = NewNoopRecorder()
	}
	return &AppearanceService{
		playerRepo:     playerRepo,
		appearanceRepo: appearanceRepo,
		validator:      validator.New(),
		logger:         logger,
		metrics:        metrics,
	}
}

// UpsertAppearances validates and stores a batch of match appearances. Rows
// without minutes are dropped and retract any stored row with the same key;
// every other row must reference a known player. The last row of a key in the
// batch decides.
func (s *AppearanceService) UpsertAppearances(ctx context.Context, appearances []playerstats.MatchAppearance) (UpsertAppearancesResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AppearanceService.UpsertAppearances")
	defer span.End()

	result := UpsertAppearancesResult{Received: len(appearances)}
	if len(appearances) == 0 {
		return result, nil
	}
	if len(appearances) > maxAppearancesPerBatch {
		return UpsertAppearancesResult{}, fmt.Errorf("%w: batch of %d exceeds %d appearances", ErrInvalidInput, len(appearances), maxAppearancesPerBatch)
	}

	kept := make([]playerstats.MatchAppearance, 0, len(appearances))
	retracted := make(map[string]playerstats.MatchAppearance)
	playerIDs := make(map[string]struct{})
	for i, item := range appearances {
		item.FixtureID = strings.TrimSpace(item.FixtureID)
		item.PlayerID = strings.TrimSpace(item.PlayerID)
		if err := s.validator.StructCtx(ctx, item); err != nil {
			return UpsertAppearancesResult{}, fmt.Errorf("%w: appearance[%d]: %v", ErrInvalidInput, i, err)
		}
		if err := item.Validate(); err != nil {
			return UpsertAppearancesResult{}, fmt.Errorf("%w: appearance[%d]: %v", ErrInvalidInput, i, err)
		}
		if item.Minutes == 0 {
			result.Dropped++
			retracted[item.Key()] = item
			continue
		}
		delete(retracted, item.Key())
		item.MatchDate = item.MatchDate.UTC()
		kept = append(kept, item)
	}
	if len(retracted) > 0 {
		kept = slices.DeleteFunc(kept, func(item playerstats.MatchAppearance) bool {
			_, ok := retracted[item.Key()]
			return ok
		})
	}
	for _, item := range kept {
		playerIDs[item.PlayerID] = struct{}{}
	}

	if err := s.ensurePlayersExist(ctx, playerIDs); err != nil {
		return UpsertAppearancesResult{}, err
	}

	if len(kept) > 0 {
		if err := s.appearanceRepo.Upsert(ctx, kept); err != nil {
			return UpsertAppearancesResult{}, fmt.Errorf("upsert appearances: %w", err)
		}
	}
	result.Stored = len(kept)

	if len(retracted) > 0 {
		removals := make([]playerstats.MatchAppearance, 0, len(retracted))
		for _, item := range retracted {
			removals = append(removals, item)
		}
		sort.Slice(removals, func(i, j int) bool { return removals[i].Key() < removals[j].Key() })
		removed, err := s.appearanceRepo.Delete(ctx, removals)
		if err != nil {
			return UpsertAppearancesResult{}, fmt.Errorf("delete retracted appearances: %w", err)
		}
		result.Removed = removed
	}

	s.metrics.ObserveAppearances(result.Stored, result.Dropped)
	if result.Dropped > 0 {
		s.logger.DebugContext(ctx, "dropped appearances without minutes", "dropped", result.Dropped, "removed", result.Removed, "received", result.Received)
	}
	return result, nil
}

func (s *AppearanceService) ensurePlayersExist(ctx context.Context, ids map[string]struct{}) error {
	if len(ids) == 0 {
		return nil
	}
	wanted := make([]string, 0, len(ids))
	for id := range ids {
		wanted = append(wanted, id)
	}
	sort.Strings(wanted)

	found, err := s.playerRepo.GetByIDs(ctx, wanted)
	if err != nil {
		return fmt.Errorf("get players by ids: %w", err)
	}
	known := make(map[string]struct{}, len(found))
	for _, item := range found {
		known[item.ID] = struct{}{}
	}

	missing := make([]string, 0)
	for _, id := range wanted {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: unknown players %s", ErrNotFound, strings.Join(missing, ","))
	}
	return nil
}

func (s *AppearanceService) ListByPlayer(ctx context.Context, playerID string) ([]playerstats.MatchAppearance, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AppearanceService.ListByPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	items, err := s.appearanceRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list appearances: %w", err)
	}
	return items, nil
}
