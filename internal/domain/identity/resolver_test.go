package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
	"github.com/riskibarqy/scout-core/internal/platform/similarity"
	"github.com/riskibarqy/scout-core/internal/platform/textnorm"
)

func newTestResolver() *Resolver {
	return NewResolver(DefaultScoringConfig(), similarity.NewScorer())
}

func canonical(id, name, dob, nationality string) player.CanonicalPlayer {
	return player.CanonicalPlayer{
		ID:             id,
		DisplayName:    name,
		NormalizedName: textnorm.Normalize(name),
		BirthDate:      dob,
		Nationality:    nationality,
	}
}

func TestResolve_ExistingLinkWins(t *testing.T) {
	r := newTestResolver()
	link := &Link{Provider: provider.FotMob, ProviderPlayerID: "123", PlayerID: "pl-1", Confidence: 0.95}

	got := r.Resolve(ProviderRecord{Provider: provider.FotMob, ProviderPlayerID: "123", Name: "Anyone"}, link, CandidatePool{})

	assert.Equal(t, "pl-1", got.PlayerID)
	assert.Equal(t, 1.0, got.Confidence)
	assert.False(t, got.IsNew)
	assert.Equal(t, ReasonExistingLink, got.Reason)
}

func TestResolve_NoCandidates(t *testing.T) {
	r := newTestResolver()

	got := r.Resolve(ProviderRecord{Provider: provider.FotMob, ProviderPlayerID: "1", Name: "Steven Bergwijn"}, nil, CandidatePool{})

	assert.True(t, got.IsNew)
	assert.Empty(t, got.PlayerID)
	assert.Equal(t, ReasonNoCandidates, got.Reason)
	assert.False(t, got.NeedsReview())
}

func TestResolve_ExactNameAndBirthDateMatches(t *testing.T) {
	r := newTestResolver()
	pool := CandidatePool{ByName: []player.CanonicalPlayer{
		canonical("pl-1", "Steven Bergwijn", "1997-10-08", "Netherlands"),
	}}

	got := r.Resolve(ProviderRecord{
		Provider:         provider.SofaScore,
		ProviderPlayerID: "811",
		Name:             "Steven Bergwijn",
		BirthDate:        "1997-10-08",
	}, nil, pool)

	require.Equal(t, OutcomeMatched, got.Outcome)
	assert.Equal(t, "pl-1", got.PlayerID)
	assert.GreaterOrEqual(t, got.Confidence, 0.92)
	assert.LessOrEqual(t, got.Confidence, 1.0)
	assert.Equal(t, ReasonSingleCandidate, got.Reason)
}

func TestResolve_BirthDateMismatchDropsBelowThreshold(t *testing.T) {
	r := newTestResolver()
	pool := CandidatePool{ByName: []player.CanonicalPlayer{
		canonical("pl-1", "Danilo", "1991-07-15", "Brazil"),
	}}

	got := r.Resolve(ProviderRecord{
		Provider:         provider.FotMob,
		ProviderPlayerID: "55",
		Name:             "Danilo",
		BirthDate:        "2001-04-29",
		Nationality:      "Brazil",
	}, nil, pool)

	assert.True(t, got.IsNew)
	assert.Equal(t, OutcomeNew, got.Outcome)
	assert.Equal(t, ReasonLowConfidence, got.Reason)
	assert.InDelta(t, 0.75, got.Confidence, 1e-9)
	assert.True(t, got.NeedsReview())
}

func TestResolve_TwoEqualCandidatesAreAmbiguous(t *testing.T) {
	r := newTestResolver()
	pool := CandidatePool{ByName: []player.CanonicalPlayer{
		canonical("pl-1", "Danilo", "", ""),
		canonical("pl-2", "Danilo", "", ""),
	}}

	got := r.Resolve(ProviderRecord{Provider: provider.FotMob, ProviderPlayerID: "55", Name: "Danilo"}, nil, pool)

	assert.Equal(t, OutcomeAmbiguous, got.Outcome)
	assert.False(t, got.IsNew)
	assert.Empty(t, got.PlayerID)
	assert.Len(t, got.Candidates, 2)
	assert.True(t, got.NeedsReview())
}

func TestResolve_ClearLeaderIsAccepted(t *testing.T) {
	r := newTestResolver()
	pool := CandidatePool{ByName: []player.CanonicalPlayer{
		canonical("pl-1", "Danilo", "1991-07-15", ""),
		canonical("pl-2", "Danilo", "", ""),
	}}

	got := r.Resolve(ProviderRecord{
		Provider:         provider.FotMob,
		ProviderPlayerID: "55",
		Name:             "Danilo",
		BirthDate:        "1991-07-15",
	}, nil, pool)

	assert.Equal(t, OutcomeMatched, got.Outcome)
	assert.Equal(t, "pl-1", got.PlayerID)
	assert.Equal(t, ReasonClearBestCandidate, got.Reason)
}

func TestCandidates_TeamScopeOnlyWhenNoExactName(t *testing.T) {
	r := newTestResolver()
	pool := CandidatePool{
		ByTeam: []player.CanonicalPlayer{
			canonical("pl-1", "Steven Bergwyn", "", ""),
			canonical("pl-2", "Brian Brobbey", "", ""),
		},
	}
	record := ProviderRecord{Name: "Steven Bergwijn", TeamID: "ajax"}

	got := r.Candidates("steven bergwijn", record, pool)
	require.Len(t, got, 1)
	assert.Equal(t, "pl-1", got[0].ID)

	record.TeamID = ""
	assert.Empty(t, r.Candidates("steven bergwijn", record, pool))
}

func TestCandidates_CompetitionScopeUsesStricterThreshold(t *testing.T) {
	r := newTestResolver()
	pool := CandidatePool{
		ByCompetition: []player.CanonicalPlayer{
			// one substitution in 10 runes: similarity 0.9
			canonical("pl-1", "Joao Felix", "", ""),
			// two substitutions in 10 runes: similarity 0.8
			canonical("pl-2", "Jono Felix", "", ""),
		},
	}
	record := ProviderRecord{Name: "Joao Felyx", CompetitionID: "laliga"}

	got := r.Candidates("joao felyx", record, pool)
	require.Len(t, got, 1)
	assert.Equal(t, "pl-1", got[0].ID)
}

func TestScore_ClampedToUnitInterval(t *testing.T) {
	r := newTestResolver()
	candidate := canonical("pl-1", "Kylian Mbappe", "1998-12-20", "France")

	full := r.Score("kylian mbappe", ProviderRecord{BirthDate: "1998-12-20", Nationality: "france"}, candidate)
	assert.Equal(t, 1.0, full.Score)

	poor := r.Score("k", ProviderRecord{BirthDate: "2000-01-01"}, candidate)
	assert.Equal(t, 0.0, poor.Score)
}

func TestDecide_EmptyIsNew(t *testing.T) {
	got := newTestResolver().Decide(nil)
	assert.True(t, got.IsNew)
	assert.Equal(t, ReasonNoCandidates, got.Reason)
}
