package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

var (
	// ErrLinkExists is returned by LinkRepository.Create when the
	// (provider, provider id) pair or the (player, provider) pair is taken.
	ErrLinkExists = errors.New("external identity link already exists")
)

// Link maps a provider-native identifier onto a canonical player.
type Link struct {
	Provider         provider.Provider
	ProviderPlayerID string
	PlayerID         string
	Confidence       float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (l Link) Validate() error {
	if err := l.Provider.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(l.ProviderPlayerID) == "" {
		return fmt.Errorf("provider player id is required")
	}
	if strings.TrimSpace(l.PlayerID) == "" {
		return fmt.Errorf("player id is required")
	}
	if l.Confidence < 0 || l.Confidence > 1 {
		return fmt.Errorf("link confidence must be within [0,1], got %f", l.Confidence)
	}
	return nil
}

// ProviderRecord is an inbound sighting of a player from one provider.
type ProviderRecord struct {
	Provider         provider.Provider
	ProviderPlayerID string
	Name             string
	BirthDate        string
	Nationality      string
	Position         string
	PositionGroup    player.PositionGroup

	// TeamID and CompetitionID optionally widen the candidate search. TeamName
	// is used to look the team up when the provider has no team reference.
	TeamID        string
	TeamName      string
	CompetitionID string
}

func (r ProviderRecord) Validate() error {
	if err := r.Provider.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.ProviderPlayerID) == "" {
		return fmt.Errorf("provider player id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if r.BirthDate != "" {
		if _, err := time.Parse(player.BirthDateLayout, r.BirthDate); err != nil {
			return fmt.Errorf("invalid birth date %q", r.BirthDate)
		}
	}
	return nil
}

type Outcome string

const (
	OutcomeMatched   Outcome = "matched"
	OutcomeNew       Outcome = "new"
	OutcomeAmbiguous Outcome = "ambiguous"
)

const (
	ReasonExistingLink        = "existing_link"
	ReasonSingleCandidate     = "single_candidate_match"
	ReasonClearBestCandidate  = "clear_best_candidate"
	ReasonLowConfidence       = "low_confidence"
	ReasonAmbiguousCandidates = "ambiguous_candidates"
	ReasonNoCandidates        = "no_candidates_found"
	ReasonProviderLinkExists  = "provider_link_exists"
)

// ScoredCandidate is a canonical player with its match score for one record.
type ScoredCandidate struct {
	PlayerID       string  `json:"player_id"`
	NameSimilarity float64 `json:"name_similarity"`
	Score          float64 `json:"score"`
}

// Result is the resolver's decision for one record.
type Result struct {
	PlayerID   string
	Confidence float64
	IsNew      bool
	Outcome    Outcome
	Reason     string
	Candidates []ScoredCandidate
}

// NeedsReview reports whether the decision must go to manual review instead of
// being linked automatically.
func (r Result) NeedsReview() bool {
	if r.Outcome == OutcomeAmbiguous {
		return true
	}
	return r.Outcome == OutcomeNew && len(r.Candidates) > 0
}

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusAccepted ReviewStatus = "accepted"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// ReviewItem is a resolver decision routed to manual review. There is at most
// one pending item per (provider, provider player id). SuggestedNew is set when
// the best score stayed under the threshold; ProvisionalPlayerID then names the
// canonical player created while the item waits.
type ReviewItem struct {
	ID                  string
	Provider            provider.Provider
	ProviderPlayerID    string
	Record              ProviderRecord
	Reason              string
	Candidates          []ScoredCandidate
	SuggestedNew        bool
	ProvisionalPlayerID string

	Status           ReviewStatus
	ResolvedPlayerID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ResolvedAt       *time.Time
}
