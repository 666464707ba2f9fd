package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/identity"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
	"github.com/riskibarqy/scout-core/internal/domain/team"
	idgen "github.com/riskibarqy/scout-core/internal/platform/id"
	"github.com/riskibarqy/scout-core/internal/platform/logging"
	"github.com/riskibarqy/scout-core/internal/platform/resilience"
	"github.com/riskibarqy/scout-core/internal/platform/textnorm"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultReviewListLimit = 50
	maxReviewListLimit     = 500
)

// ResolveResult is what ResolveAndLink reports back for one provider record.
// ReviewItemID is set when the decision was routed to manual review.
type ResolveResult struct {
	PlayerID     string                     `json:"player_id,omitempty"`
	Confidence   float64                    `json:"confidence"`
	IsNew        bool                       `json:"is_new"`
	Outcome      identity.Outcome           `json:"outcome"`
	Reason       string                     `json:"reason"`
	Candidates   []identity.ScoredCandidate `json:"candidates,omitempty"`
	ReviewItemID string                     `json:"review_item_id,omitempty"`
}

type IdentityService struct {
	playerRepo player.Repository
	teamRepo   team.Repository
	linkRepo   identity.LinkRepository
	reviewRepo identity.ReviewRepository
	resolver   *identity.Resolver
	playerIDs  idgen.Generator
	reviewIDs  idgen.Generator
	logger     *logging.Logger
	metrics    Recorder
	inflight   resilience.SingleFlight[ResolveResult]
	now        func() time.Time
}

func NewIdentityService(
	playerRepo player.Repository,
	teamRepo team.Repository,
	linkRepo identity.LinkRepository,
	reviewRepo identity.ReviewRepository,
	resolver *identity.Resolver,
	logger *logging.Logger,
	metrics Recorder,
) *IdentityService {
	if logger == nil {
		logger = logging.Default()
	}
	if metrics == nil {
		metrics = NewNoopRecorder()
	}
	return &IdentityService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		linkRepo:   linkRepo,
		reviewRepo: reviewRepo,
		resolver:   resolver,
		playerIDs:  idgen.NewUUIDGenerator("pl"),
		reviewIDs:  idgen.NewUUIDGenerator("rev"),
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

// ResolveAndLink maps a provider record onto a canonical player, creating the
// player and link when needed. Concurrent calls for the same provider identity
// share one resolution.
func (s *IdentityService) ResolveAndLink(ctx context.Context, record identity.ProviderRecord) (ResolveResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.ResolveAndLink",
		attribute.String("provider", string(record.Provider)),
		attribute.String("provider_player_id", record.ProviderPlayerID),
	)
	defer span.End()

	record.ProviderPlayerID = strings.TrimSpace(record.ProviderPlayerID)
	record.Name = strings.TrimSpace(record.Name)
	record.TeamID = strings.TrimSpace(record.TeamID)
	record.CompetitionID = strings.TrimSpace(record.CompetitionID)
	if err := record.Validate(); err != nil {
		return ResolveResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Waiters share one call; it runs detached from the first caller's cancellation.
	key := string(record.Provider) + ":" + record.ProviderPlayerID
	shared := context.WithoutCancel(ctx)
	result, err, _ := s.inflight.Do(key, func() (ResolveResult, error) {
		return s.resolveAndLink(shared, record)
	})
	if err != nil {
		return ResolveResult{}, err
	}
	return result, nil
}

func (s *IdentityService) resolveAndLink(ctx context.Context, record identity.ProviderRecord) (ResolveResult, error) {
	link, exists, err := s.linkRepo.GetByProviderID(ctx, record.Provider, record.ProviderPlayerID)
	if err != nil {
		return ResolveResult{}, fmt.Errorf("get link: %w", err)
	}
	if exists {
		decision := s.resolver.Resolve(record, &link, identity.CandidatePool{})
		if err := s.linkRepo.Touch(ctx, record.Provider, record.ProviderPlayerID, link.Confidence, s.now().UTC()); err != nil {
			s.logger.WarnContext(ctx, "touch identity link failed", "provider", record.Provider, "provider_player_id", record.ProviderPlayerID, "error", err)
		}
		s.metrics.ObserveResolve(string(decision.Outcome), decision.Reason)
		return fromDecision(decision), nil
	}

	if err := s.fillTeamScope(ctx, &record); err != nil {
		return ResolveResult{}, err
	}
	pool, err := s.candidatePool(ctx, record)
	if err != nil {
		return ResolveResult{}, err
	}

	decision := s.resolver.Resolve(record, nil, pool)
	var result ResolveResult
	switch {
	case decision.Outcome == identity.OutcomeMatched:
		result, err = s.linkMatched(ctx, record, decision)
	case decision.Outcome == identity.OutcomeNew:
		result, err = s.createNew(ctx, record, decision)
	default:
		result, err = s.enqueueReview(ctx, record, decision, "")
	}
	if err != nil {
		return ResolveResult{}, err
	}

	s.metrics.ObserveResolve(string(result.Outcome), result.Reason)
	return result, nil
}

// fillTeamScope fills TeamID from TeamName and CompetitionID from the team
// when the provider did not send them.
func (s *IdentityService) fillTeamScope(ctx context.Context, record *identity.ProviderRecord) error {
	if record.TeamID == "" && strings.TrimSpace(record.TeamName) != "" {
		normalized := textnorm.NormalizeTeamName(record.TeamName)
		if normalized == "" {
			return nil
		}
		teams, err := s.teamRepo.ListByNormalizedName(ctx, normalized)
		if err != nil {
			return fmt.Errorf("list teams by name: %w", err)
		}
		matches := make([]team.Team, 0, len(teams))
		for _, item := range teams {
			if record.CompetitionID == "" || item.CompetitionID == record.CompetitionID {
				matches = append(matches, item)
			}
		}
		if len(matches) == 1 {
			record.TeamID = matches[0].ID
		}
	}

	if record.TeamID != "" && record.CompetitionID == "" {
		item, exists, err := s.teamRepo.GetByID(ctx, record.TeamID)
		if err != nil {
			return fmt.Errorf("get team: %w", err)
		}
		if exists {
			record.CompetitionID = item.CompetitionID
		}
	}
	return nil
}

// candidatePool loads only the scopes the resolver will consult.
func (s *IdentityService) candidatePool(ctx context.Context, record identity.ProviderRecord) (identity.CandidatePool, error) {
	var pool identity.CandidatePool

	normalized := textnorm.Normalize(record.Name)
	if normalized == "" {
		return pool, nil
	}

	byName, err := s.playerRepo.ListByNormalizedName(ctx, normalized)
	if err != nil {
		return pool, fmt.Errorf("list players by name: %w", err)
	}
	pool.ByName = byName
	if len(byName) > 0 {
		return pool, nil
	}

	if record.TeamID != "" {
		byTeam, err := s.playerRepo.ListByTeam(ctx, record.TeamID)
		if err != nil {
			return pool, fmt.Errorf("list players by team: %w", err)
		}
		pool.ByTeam = byTeam
		if len(s.resolver.Candidates(normalized, record, pool)) > 0 {
			return pool, nil
		}
	}

	if record.CompetitionID != "" {
		byCompetition, err := s.playerRepo.ListByCompetition(ctx, record.CompetitionID)
		if err != nil {
			return pool, fmt.Errorf("list players by competition: %w", err)
		}
		pool.ByCompetition = byCompetition
	}
	return pool, nil
}

func (s *IdentityService) linkMatched(ctx context.Context, record identity.ProviderRecord, decision identity.Result) (ResolveResult, error) {
	taken, exists, err := s.linkRepo.GetByPlayerAndProvider(ctx, decision.PlayerID, record.Provider)
	if err != nil {
		return ResolveResult{}, fmt.Errorf("get link by player: %w", err)
	}
	if exists && taken.ProviderPlayerID != record.ProviderPlayerID {
		decision.Outcome = identity.OutcomeAmbiguous
		decision.Reason = identity.ReasonProviderLinkExists
		decision.PlayerID = ""
		return s.enqueueReview(ctx, record, decision, "")
	}

	now := s.now().UTC()
	err = s.linkRepo.Create(ctx, identity.Link{
		Provider:         record.Provider,
		ProviderPlayerID: record.ProviderPlayerID,
		PlayerID:         decision.PlayerID,
		Confidence:       decision.Confidence,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if errors.Is(err, identity.ErrLinkExists) {
		return s.raceWinner(ctx, record, decision)
	}
	if err != nil {
		return ResolveResult{}, fmt.Errorf("create link: %w", err)
	}
	return fromDecision(decision), nil
}

func (s *IdentityService) createNew(ctx context.Context, record identity.ProviderRecord, decision identity.Result) (ResolveResult, error) {
	playerID, err := s.playerIDs.NewID()
	if err != nil {
		return ResolveResult{}, fmt.Errorf("generate player id: %w", err)
	}

	now := s.now().UTC()
	created := newPlayerFromRecord(playerID, record, now)
	if err := s.playerRepo.Insert(ctx, created); err != nil {
		return ResolveResult{}, fmt.Errorf("insert player: %w", err)
	}

	err = s.linkRepo.Create(ctx, identity.Link{
		Provider:         record.Provider,
		ProviderPlayerID: record.ProviderPlayerID,
		PlayerID:         playerID,
		Confidence:       1.0,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if errors.Is(err, identity.ErrLinkExists) {
		s.logger.WarnContext(ctx, "identity link created concurrently, dropping new player",
			"provider", record.Provider,
			"provider_player_id", record.ProviderPlayerID,
			"player_id", playerID,
		)
		if err := s.playerRepo.SoftDelete(ctx, playerID, now); err != nil {
			s.logger.WarnContext(ctx, "soft delete orphan player failed", "player_id", playerID, "error", err)
		}
		return s.raceWinner(ctx, record, decision)
	}
	if err != nil {
		return ResolveResult{}, fmt.Errorf("create link: %w", err)
	}

	decision.PlayerID = playerID
	decision.Confidence = 1.0
	if decision.NeedsReview() {
		return s.enqueueReview(ctx, record, decision, playerID)
	}
	return fromDecision(decision), nil
}

// raceWinner returns the link another caller stored first, or routes the record
// to review when the conflict was on the player side.
func (s *IdentityService) raceWinner(ctx context.Context, record identity.ProviderRecord, decision identity.Result) (ResolveResult, error) {
	link, exists, err := s.linkRepo.GetByProviderID(ctx, record.Provider, record.ProviderPlayerID)
	if err != nil {
		return ResolveResult{}, fmt.Errorf("reload link: %w", err)
	}
	if exists {
		return fromDecision(s.resolver.Resolve(record, &link, identity.CandidatePool{})), nil
	}

	decision.Outcome = identity.OutcomeAmbiguous
	decision.Reason = identity.ReasonProviderLinkExists
	decision.PlayerID = ""
	decision.IsNew = false
	return s.enqueueReview(ctx, record, decision, "")
}

func (s *IdentityService) enqueueReview(ctx context.Context, record identity.ProviderRecord, decision identity.Result, provisionalPlayerID string) (ResolveResult, error) {
	reviewID, err := s.reviewIDs.NewID()
	if err != nil {
		return ResolveResult{}, fmt.Errorf("generate review id: %w", err)
	}

	now := s.now().UTC()
	stored, err := s.reviewRepo.UpsertPending(ctx, identity.ReviewItem{
		ID:                  reviewID,
		Provider:            record.Provider,
		ProviderPlayerID:    record.ProviderPlayerID,
		Record:              record,
		Reason:              decision.Reason,
		Candidates:          decision.Candidates,
		SuggestedNew:        decision.Outcome == identity.OutcomeNew,
		ProvisionalPlayerID: provisionalPlayerID,
		Status:              identity.ReviewStatusPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	})
	if err != nil {
		return ResolveResult{}, fmt.Errorf("upsert review item: %w", err)
	}

	s.logger.InfoContext(ctx, "identity routed to review",
		"provider", record.Provider,
		"provider_player_id", record.ProviderPlayerID,
		"reason", decision.Reason,
		"candidates", len(decision.Candidates),
		"review_item_id", stored.ID,
	)

	result := fromDecision(decision)
	result.ReviewItemID = stored.ID
	return result, nil
}

func (s *IdentityService) ListReviewItems(ctx context.Context, status string, limit int) ([]identity.ReviewItem, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.ListReviewItems")
	defer span.End()

	reviewStatus, err := parseReviewStatus(status)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultReviewListLimit
	}
	if limit > maxReviewListLimit {
		limit = maxReviewListLimit
	}

	items, err := s.reviewRepo.ListByStatus(ctx, reviewStatus, limit)
	if err != nil {
		return nil, fmt.Errorf("list review items: %w", err)
	}
	return items, nil
}

// AcceptReviewItem links the reviewed provider identity to playerID. A
// provisional player created for the item is dropped once it has no links left.
func (s *IdentityService) AcceptReviewItem(ctx context.Context, reviewID, playerID string) (identity.ReviewItem, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.AcceptReviewItem")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return identity.ReviewItem{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	item, err := s.pendingReviewItem(ctx, reviewID)
	if err != nil {
		return identity.ReviewItem{}, err
	}

	_, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return identity.ReviewItem{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return identity.ReviewItem{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	now := s.now().UTC()
	if item.ProvisionalPlayerID != "" {
		err = s.linkRepo.Reassign(ctx, item.Provider, item.ProviderPlayerID, playerID, 1.0, now)
	} else {
		err = s.linkRepo.Create(ctx, identity.Link{
			Provider:         item.Provider,
			ProviderPlayerID: item.ProviderPlayerID,
			PlayerID:         playerID,
			Confidence:       1.0,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}
	if errors.Is(err, identity.ErrLinkExists) {
		return identity.ReviewItem{}, fmt.Errorf("%w: player=%s already linked on %s", ErrConflict, playerID, item.Provider)
	}
	if err != nil {
		return identity.ReviewItem{}, fmt.Errorf("link reviewed identity: %w", err)
	}

	if item.ProvisionalPlayerID != "" && item.ProvisionalPlayerID != playerID {
		s.dropProvisional(ctx, item.ProvisionalPlayerID, now)
	}

	return s.finishReview(ctx, item, identity.ReviewStatusAccepted, playerID, now)
}

// RejectReviewItem declares the provider identity a new canonical player.
func (s *IdentityService) RejectReviewItem(ctx context.Context, reviewID string) (identity.ReviewItem, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.RejectReviewItem")
	defer span.End()

	item, err := s.pendingReviewItem(ctx, reviewID)
	if err != nil {
		return identity.ReviewItem{}, err
	}

	now := s.now().UTC()
	if item.ProvisionalPlayerID != "" {
		return s.finishReview(ctx, item, identity.ReviewStatusRejected, item.ProvisionalPlayerID, now)
	}

	playerID, err := s.playerIDs.NewID()
	if err != nil {
		return identity.ReviewItem{}, fmt.Errorf("generate player id: %w", err)
	}
	if err := s.playerRepo.Insert(ctx, newPlayerFromRecord(playerID, item.Record, now)); err != nil {
		return identity.ReviewItem{}, fmt.Errorf("insert player: %w", err)
	}
	err = s.linkRepo.Create(ctx, identity.Link{
		Provider:         item.Provider,
		ProviderPlayerID: item.ProviderPlayerID,
		PlayerID:         playerID,
		Confidence:       1.0,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if errors.Is(err, identity.ErrLinkExists) {
		if err := s.playerRepo.SoftDelete(ctx, playerID, now); err != nil {
			s.logger.WarnContext(ctx, "soft delete orphan player failed", "player_id", playerID, "error", err)
		}
		return identity.ReviewItem{}, fmt.Errorf("%w: %s:%s is already linked", ErrConflict, item.Provider, item.ProviderPlayerID)
	}
	if err != nil {
		return identity.ReviewItem{}, fmt.Errorf("create link: %w", err)
	}

	return s.finishReview(ctx, item, identity.ReviewStatusRejected, playerID, now)
}

func (s *IdentityService) pendingReviewItem(ctx context.Context, reviewID string) (identity.ReviewItem, error) {
	reviewID = strings.TrimSpace(reviewID)
	if reviewID == "" {
		return identity.ReviewItem{}, fmt.Errorf("%w: review item id is required", ErrInvalidInput)
	}
	item, exists, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return identity.ReviewItem{}, fmt.Errorf("get review item: %w", err)
	}
	if !exists {
		return identity.ReviewItem{}, fmt.Errorf("%w: review item=%s", ErrNotFound, reviewID)
	}
	if item.Status != identity.ReviewStatusPending {
		return identity.ReviewItem{}, fmt.Errorf("%w: review item=%s is %s", ErrConflict, reviewID, item.Status)
	}
	return item, nil
}

func (s *IdentityService) finishReview(ctx context.Context, item identity.ReviewItem, status identity.ReviewStatus, playerID string, now time.Time) (identity.ReviewItem, error) {
	if err := s.reviewRepo.MarkResolved(ctx, item.ID, status, playerID, now); err != nil {
		return identity.ReviewItem{}, fmt.Errorf("mark review item resolved: %w", err)
	}
	s.metrics.ObserveReviewResolved(string(status))

	item.Status = status
	item.ResolvedPlayerID = playerID
	item.UpdatedAt = now
	item.ResolvedAt = &now
	return item, nil
}

func (s *IdentityService) dropProvisional(ctx context.Context, playerID string, now time.Time) {
	links, err := s.linkRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		s.logger.WarnContext(ctx, "list provisional player links failed", "player_id", playerID, "error", err)
		return
	}
	if len(links) > 0 {
		return
	}
	if err := s.playerRepo.SoftDelete(ctx, playerID, now); err != nil {
		s.logger.WarnContext(ctx, "soft delete provisional player failed", "player_id", playerID, "error", err)
	}
}

func parseReviewStatus(raw string) (identity.ReviewStatus, error) {
	switch identity.ReviewStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case "", identity.ReviewStatusPending:
		return identity.ReviewStatusPending, nil
	case identity.ReviewStatusAccepted:
		return identity.ReviewStatusAccepted, nil
	case identity.ReviewStatusRejected:
		return identity.ReviewStatusRejected, nil
	default:
		return "", fmt.Errorf("%w: unknown review status %q", ErrInvalidInput, raw)
	}
}

func newPlayerFromRecord(playerID string, record identity.ProviderRecord, now time.Time) player.CanonicalPlayer {
	item := player.CanonicalPlayer{
		ID:             playerID,
		DisplayName:    strings.TrimSpace(record.Name),
		NormalizedName: textnorm.Normalize(record.Name),
		BirthDate:      record.BirthDate,
		Nationality:    strings.TrimSpace(record.Nationality),
		Position:       strings.TrimSpace(record.Position),
		PositionGroup:  record.PositionGroup,
		TeamID:         record.TeamID,
		CompetitionID:  record.CompetitionID,
		FieldSources:   make(map[player.Field]provider.Provider),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if item.BirthDate != "" {
		item.FieldSources[player.FieldBirthDate] = record.Provider
	}
	if item.Nationality != "" {
		item.FieldSources[player.FieldNationality] = record.Provider
	}
	if item.Position != "" {
		item.FieldSources[player.FieldPosition] = record.Provider
	}
	if item.PositionGroup != "" {
		item.FieldSources[player.FieldPositionGroup] = record.Provider
	}
	return item
}

func fromDecision(decision identity.Result) ResolveResult {
	return ResolveResult{
		PlayerID:   decision.PlayerID,
		Confidence: decision.Confidence,
		IsNew:      decision.IsNew,
		Outcome:    decision.Outcome,
		Reason:     decision.Reason,
		Candidates: decision.Candidates,
	}
}
