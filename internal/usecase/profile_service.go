package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/profile"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
	"github.com/riskibarqy/scout-core/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// ProfileDecoder turns a raw provider payload into the normalized profile.
type ProfileDecoder interface {
	DecodeProfile(p provider.Provider, raw []byte) (profile.NormalizedProfile, error)
}

type ResolveConflictInput struct {
	PlayerID       string
	Field          string
	Provider       string
	AcceptProvider bool
}

type ProfileService struct {
	playerRepo   player.Repository
	snapshotRepo profile.SnapshotRepository
	conflictRepo profile.ConflictRepository
	precedence   profile.Precedence
	decoder      ProfileDecoder
	logger       *logging.Logger
	metrics      Recorder
	now          func() time.Time
}

func NewProfileService(
	playerRepo player.Repository,
	snapshotRepo profile.SnapshotRepository,
	conflictRepo profile.ConflictRepository,
	precedence profile.Precedence,
	decoder ProfileDecoder,
	logger *logging.Logger,
	metrics Recorder,
) *ProfileService {
	if precedence == nil {
		precedence = profile.DefaultPrecedence()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if metrics == nil {
		metrics = NewNoopRecorder()
	}
	return &ProfileService{
		playerRepo:   playerRepo,
		snapshotRepo: snapshotRepo,
		conflictRepo: conflictRepo,
		precedence:   precedence,
		decoder:      decoder,
		logger:       logger,
		metrics:      metrics,
		now:          time.Now,
	}
}

// MergeProviderPayload decodes raw with the provider adapter and merges the
// result into the canonical player.
func (s *ProfileService) MergeProviderPayload(ctx context.Context, playerID string, p provider.Provider, raw []byte) (profile.MergeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.MergeProviderPayload")
	defer span.End()

	if err := p.Validate(); err != nil {
		return profile.MergeResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if s.decoder == nil {
		return profile.MergeResult{}, fmt.Errorf("%w: no profile decoder configured", ErrDependencyUnavailable)
	}

	normalized, err := s.decoder.DecodeProfile(p, raw)
	if err != nil {
		return profile.MergeResult{}, fmt.Errorf("%w: decode %s payload: %v", ErrInvalidInput, p, err)
	}
	return s.MergeProfile(ctx, playerID, p, normalized, raw)
}

// MergeProfile stores the provider snapshot and folds the normalized profile
// into the canonical player. Every disagreement is recorded as a conflict;
// open conflicts the provider now agrees with are superseded.
func (s *ProfileService) MergeProfile(ctx context.Context, playerID string, p provider.Provider, normalized profile.NormalizedProfile, raw []byte) (profile.MergeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.MergeProfile",
		attribute.String("player_id", playerID),
		attribute.String("provider", string(p)),
	)
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return profile.MergeResult{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if err := p.Validate(); err != nil {
		return profile.MergeResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if normalized.PositionGroup != "" {
		if _, ok := player.AllPositionGroups[normalized.PositionGroup]; !ok {
			return profile.MergeResult{}, fmt.Errorf("%w: invalid position group %q", ErrInvalidInput, normalized.PositionGroup)
		}
	}

	current, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return profile.MergeResult{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return profile.MergeResult{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	now := s.now().UTC()
	if err := s.snapshotRepo.Upsert(ctx, profile.Snapshot{
		PlayerID:   playerID,
		Provider:   p,
		Raw:        raw,
		Normalized: normalized,
		FetchedAt:  now,
	}); err != nil {
		return profile.MergeResult{}, fmt.Errorf("upsert profile snapshot: %w", err)
	}

	result := profile.Merge(current, p, normalized, s.precedence, now)
	if result.Changed() {
		if err := s.playerRepo.Update(ctx, result.Player); err != nil {
			return profile.MergeResult{}, fmt.Errorf("update player: %w", err)
		}
	}

	for _, conflict := range result.Conflicts {
		if err := s.recordConflict(ctx, conflict); err != nil {
			return profile.MergeResult{}, err
		}
	}
	for _, field := range result.Agreed {
		if err := s.supersede(ctx, playerID, field, p, now); err != nil {
			return profile.MergeResult{}, err
		}
	}

	s.metrics.ObserveMerge(string(p), len(result.UpdatedFields), len(result.Conflicts))
	if len(result.Conflicts) > 0 {
		s.logger.InfoContext(ctx, "profile merge recorded conflicts",
			"player_id", playerID,
			"provider", p,
			"conflicts", len(result.Conflicts),
			"updated_fields", len(result.UpdatedFields),
		)
	}
	return result, nil
}

// recordConflict skips rewriting an open conflict that already says the same
// thing, so repeated merges of one payload leave the audit trail untouched.
func (s *ProfileService) recordConflict(ctx context.Context, conflict profile.FieldConflict) error {
	existing, exists, err := s.conflictRepo.Get(ctx, conflict.PlayerID, conflict.Field, conflict.Provider)
	if err != nil {
		return fmt.Errorf("get field conflict: %w", err)
	}
	if exists &&
		existing.Status == profile.ConflictStatusOpen &&
		existing.ProviderValue == conflict.ProviderValue &&
		existing.CanonicalValue == conflict.CanonicalValue {
		return nil
	}
	if err := s.conflictRepo.Upsert(ctx, conflict); err != nil {
		return fmt.Errorf("upsert field conflict: %w", err)
	}
	return nil
}

// supersede closes an open, non-adopted conflict once the provider agrees with
// the canonical value. Adopted conflicts stay open as the record of a change.
func (s *ProfileService) supersede(ctx context.Context, playerID string, field player.Field, p provider.Provider, now time.Time) error {
	existing, exists, err := s.conflictRepo.Get(ctx, playerID, field, p)
	if err != nil {
		return fmt.Errorf("get field conflict: %w", err)
	}
	if !exists || existing.Status != profile.ConflictStatusOpen || existing.Adopted {
		return nil
	}
	if err := s.conflictRepo.Close(ctx, playerID, field, p, profile.ConflictStatusSuperseded, profile.ResolutionProviderAgreed, now); err != nil {
		return fmt.Errorf("supersede field conflict: %w", err)
	}
	return nil
}

func (s *ProfileService) ListConflicts(ctx context.Context, playerID, status string) ([]profile.FieldConflict, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.ListConflicts")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	conflictStatus := profile.ConflictStatus(strings.ToLower(strings.TrimSpace(status)))
	switch conflictStatus {
	case "", profile.ConflictStatusOpen, profile.ConflictStatusResolved, profile.ConflictStatusSuperseded:
	default:
		return nil, fmt.Errorf("%w: unknown conflict status %q", ErrInvalidInput, status)
	}

	items, err := s.conflictRepo.List(ctx, playerID, conflictStatus)
	if err != nil {
		return nil, fmt.Errorf("list field conflicts: %w", err)
	}
	return items, nil
}

// ResolveConflict settles an open conflict. Accepting the provider writes its
// value to the canonical player; keeping canonical reverts a value the merge
// had adopted.
func (s *ProfileService) ResolveConflict(ctx context.Context, input ResolveConflictInput) (profile.FieldConflict, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.ResolveConflict")
	defer span.End()

	playerID := strings.TrimSpace(input.PlayerID)
	if playerID == "" {
		return profile.FieldConflict{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	field, ok := player.ParseField(input.Field)
	if !ok {
		return profile.FieldConflict{}, fmt.Errorf("%w: unknown field %q", ErrInvalidInput, input.Field)
	}
	p, err := provider.Parse(input.Provider)
	if err != nil {
		return profile.FieldConflict{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	conflict, exists, err := s.conflictRepo.Get(ctx, playerID, field, p)
	if err != nil {
		return profile.FieldConflict{}, fmt.Errorf("get field conflict: %w", err)
	}
	if !exists {
		return profile.FieldConflict{}, fmt.Errorf("%w: conflict player=%s field=%s provider=%s", ErrNotFound, playerID, field, p)
	}
	if conflict.Status != profile.ConflictStatusOpen {
		return profile.FieldConflict{}, fmt.Errorf("%w: conflict is %s", ErrConflict, conflict.Status)
	}

	current, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return profile.FieldConflict{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return profile.FieldConflict{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	now := s.now().UTC()
	resolution := profile.ResolutionKeptCanonical
	updated := current.Clone()
	changed := false
	switch {
	case input.AcceptProvider && !conflict.Adopted:
		profile.Apply(&updated, field, profile.ParseFieldValue(field, conflict.ProviderValue), p)
		changed = true
	case !input.AcceptProvider && conflict.Adopted:
		profile.Apply(&updated, field, profile.ParseFieldValue(field, conflict.CanonicalValue), conflict.CanonicalSource)
		changed = true
	}
	if input.AcceptProvider {
		resolution = profile.ResolutionAcceptedProvider
	}

	if changed {
		updated.UpdatedAt = now
		if err := s.playerRepo.Update(ctx, updated); err != nil {
			return profile.FieldConflict{}, fmt.Errorf("update player: %w", err)
		}
	}
	if err := s.conflictRepo.Close(ctx, playerID, field, p, profile.ConflictStatusResolved, resolution, now); err != nil {
		return profile.FieldConflict{}, fmt.Errorf("close field conflict: %w", err)
	}

	conflict.Status = profile.ConflictStatusResolved
	conflict.Resolution = resolution
	conflict.ResolvedAt = &now
	return conflict, nil
}
