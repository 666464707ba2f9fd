package identity

import (
	"math"
	"sort"
	"strings"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/platform/similarity"
	"github.com/riskibarqy/scout-core/internal/platform/textnorm"
)

// ScoringConfig holds the resolver thresholds and score adjustments.
type ScoringConfig struct {
	ConfidenceThreshold   float64
	MinLead               float64
	TeamSimilarity        float64
	CompetitionSimilarity float64

	BirthDateMatchBonus      float64
	BirthDateMismatchPenalty float64
	NationalityMatchBonus    float64
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		ConfidenceThreshold:      0.92,
		MinLead:                  0.10,
		TeamSimilarity:           0.80,
		CompetitionSimilarity:    0.85,
		BirthDateMatchBonus:      0.15,
		BirthDateMismatchPenalty: 0.30,
		NationalityMatchBonus:    0.05,
	}
}

// CandidatePool is the snapshot of canonical players the resolver may pick
// from. ByName holds exact normalized-name hits; ByTeam and ByCompetition are
// only consulted when ByName is empty.
type CandidatePool struct {
	ByName        []player.CanonicalPlayer
	ByTeam        []player.CanonicalPlayer
	ByCompetition []player.CanonicalPlayer
}

// Resolver decides which canonical player a provider record refers to. It is
// pure: every call is independent given the link and pool passed in.
type Resolver struct {
	cfg    ScoringConfig
	scorer similarity.Scorer
}

func NewResolver(cfg ScoringConfig, scorer similarity.Scorer) *Resolver {
	return &Resolver{cfg: cfg, scorer: scorer}
}

func (r *Resolver) Config() ScoringConfig {
	return r.cfg
}

// Resolve runs the ordered decision: existing link, candidate search, scoring
// and the threshold/lead rule.
func (r *Resolver) Resolve(record ProviderRecord, link *Link, pool CandidatePool) Result {
	if link != nil {
		return Result{
			PlayerID:   link.PlayerID,
			Confidence: 1.0,
			Outcome:    OutcomeMatched,
			Reason:     ReasonExistingLink,
		}
	}

	normalized := textnorm.Normalize(record.Name)
	candidates := r.Candidates(normalized, record, pool)
	if len(candidates) == 0 {
		return Result{
			IsNew:   true,
			Outcome: OutcomeNew,
			Reason:  ReasonNoCandidates,
		}
	}

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		scored = append(scored, r.Score(normalized, record, candidate))
	}
	sortScored(scored)

	return r.Decide(scored)
}

// Candidates applies the search order: exact normalized name first, then team
// scope, then competition scope. Players are deduplicated by id.
func (r *Resolver) Candidates(normalizedName string, record ProviderRecord, pool CandidatePool) []player.CanonicalPlayer {
	if normalizedName == "" {
		return nil
	}

	exact := make([]player.CanonicalPlayer, 0, len(pool.ByName))
	for _, item := range pool.ByName {
		if item.NormalizedName == normalizedName {
			exact = append(exact, item)
		}
	}
	if len(exact) > 0 {
		return dedupe(exact)
	}

	if strings.TrimSpace(record.TeamID) != "" {
		if out := r.scoped(normalizedName, pool.ByTeam, r.cfg.TeamSimilarity); len(out) > 0 {
			return out
		}
	}
	if strings.TrimSpace(record.CompetitionID) != "" {
		return r.scoped(normalizedName, pool.ByCompetition, r.cfg.CompetitionSimilarity)
	}
	return nil
}

func (r *Resolver) scoped(normalizedName string, items []player.CanonicalPlayer, minSimilarity float64) []player.CanonicalPlayer {
	out := make([]player.CanonicalPlayer, 0)
	for _, item := range items {
		if r.scorer.Score(normalizedName, item.NormalizedName) >= minSimilarity {
			out = append(out, item)
		}
	}
	return dedupe(out)
}

// Score computes the match score of one candidate: name similarity adjusted
// by birth date and nationality, clamped to [0,1].
func (r *Resolver) Score(normalizedName string, record ProviderRecord, candidate player.CanonicalPlayer) ScoredCandidate {
	nameScore := r.scorer.Score(normalizedName, candidate.NormalizedName)
	score := nameScore

	recordDOB := strings.TrimSpace(record.BirthDate)
	candidateDOB := strings.TrimSpace(candidate.BirthDate)
	if recordDOB != "" && candidateDOB != "" {
		if recordDOB == candidateDOB {
			score += r.cfg.BirthDateMatchBonus
		} else {
			score = math.Max(0, score-r.cfg.BirthDateMismatchPenalty)
		}
	}

	recordNat := strings.TrimSpace(record.Nationality)
	candidateNat := strings.TrimSpace(candidate.Nationality)
	if recordNat != "" && strings.EqualFold(recordNat, candidateNat) {
		score += r.cfg.NationalityMatchBonus
	}

	return ScoredCandidate{
		PlayerID:       candidate.ID,
		NameSimilarity: nameScore,
		Score:          math.Min(1, score),
	}
}

// Decide applies the threshold and lead rules to candidates sorted by score
// descending.
func (r *Resolver) Decide(scored []ScoredCandidate) Result {
	if len(scored) == 0 {
		return Result{IsNew: true, Outcome: OutcomeNew, Reason: ReasonNoCandidates}
	}

	top := scored[0]
	result := Result{
		Confidence: top.Score,
		Candidates: scored,
	}

	if top.Score < r.cfg.ConfidenceThreshold {
		result.IsNew = true
		result.Outcome = OutcomeNew
		result.Reason = ReasonLowConfidence
		return result
	}

	if len(scored) == 1 {
		result.PlayerID = top.PlayerID
		result.Outcome = OutcomeMatched
		result.Reason = ReasonSingleCandidate
		return result
	}

	if top.Score-scored[1].Score > r.cfg.MinLead {
		result.PlayerID = top.PlayerID
		result.Outcome = OutcomeMatched
		result.Reason = ReasonClearBestCandidate
		return result
	}

	result.Outcome = OutcomeAmbiguous
	result.Reason = ReasonAmbiguousCandidates
	return result
}

func sortScored(items []ScoredCandidate) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].PlayerID < items[j].PlayerID
	})
}

func dedupe(items []player.CanonicalPlayer) []player.CanonicalPlayer {
	seen := make(map[string]struct{}, len(items))
	out := make([]player.CanonicalPlayer, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}
