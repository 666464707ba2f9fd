package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/scout-core/internal/domain/identity"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/playerstats"
	"github.com/riskibarqy/scout-core/internal/domain/profile"
	"github.com/riskibarqy/scout-core/internal/domain/rating"
	"go.opentelemetry.io/otel/attribute"
)

// PlayerDetail is the read model of one canonical player with everything
// linked to it.
type PlayerDetail struct {
	Player        player.CanonicalPlayer
	Links         []identity.Link
	Snapshots     []profile.Snapshot
	OpenConflicts []profile.FieldConflict
	Windows       []playerstats.Window
	Ratings       []rating.PlayerRating
}

type PlayerService struct {
	playerRepo       player.Repository
	linkRepo         identity.LinkRepository
	snapshotRepo     profile.SnapshotRepository
	conflictRepo     profile.ConflictRepository
	windowRepo       playerstats.WindowRepository
	playerRatingRepo rating.PlayerRatingRepository
}

func NewPlayerService(
	playerRepo player.Repository,
	linkRepo identity.LinkRepository,
	snapshotRepo profile.SnapshotRepository,
	conflictRepo profile.ConflictRepository,
	windowRepo playerstats.WindowRepository,
	playerRatingRepo rating.PlayerRatingRepository,
) *PlayerService {
	return &PlayerService{
		playerRepo:       playerRepo,
		linkRepo:         linkRepo,
		snapshotRepo:     snapshotRepo,
		conflictRepo:     conflictRepo,
		windowRepo:       windowRepo,
		playerRatingRepo: playerRatingRepo,
	}
}

func (s *PlayerService) GetPlayerDetail(ctx context.Context, playerID string) (PlayerDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayerDetail", attribute.String("player_id", playerID))
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return PlayerDetail{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return PlayerDetail{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	links, err := s.linkRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("list identity links: %w", err)
	}
	snapshots, err := s.snapshotRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("list profile snapshots: %w", err)
	}
	conflicts, err := s.conflictRepo.List(ctx, playerID, profile.ConflictStatusOpen)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("list field conflicts: %w", err)
	}
	windows, err := s.windowRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("list stat windows: %w", err)
	}
	ratings, err := s.playerRatingRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("list player ratings: %w", err)
	}

	return PlayerDetail{
		Player:        item,
		Links:         links,
		Snapshots:     snapshots,
		OpenConflicts: conflicts,
		Windows:       windows,
		Ratings:       ratings,
	}, nil
}
