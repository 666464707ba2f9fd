package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/identity"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
	"github.com/riskibarqy/scout-core/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/scout-core/internal/platform/logging"
	"github.com/riskibarqy/scout-core/internal/platform/similarity"
	"github.com/riskibarqy/scout-core/internal/platform/textnorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type identityFixture struct {
	service *IdentityService
	players *memory.PlayerRepository
	links   *memory.IdentityLinkRepository
	reviews *memory.ReviewRepository
}

// contextAwareLinkRepo fails lookups on a cancelled context, the way a SQL
// driver does.
type contextAwareLinkRepo struct {
	*memory.IdentityLinkRepository
}

func (r contextAwareLinkRepo) GetByProviderID(ctx context.Context, p provider.Provider, providerPlayerID string) (identity.Link, bool, error) {
	if err := ctx.Err(); err != nil {
		return identity.Link{}, false, err
	}
	return r.IdentityLinkRepository.GetByProviderID(ctx, p, providerPlayerID)
}

func newIdentityFixture(t *testing.T, players ...player.CanonicalPlayer) identityFixture {
	t.Helper()

	fx := identityFixture{
		players: memory.NewPlayerRepository(players),
		links:   memory.NewIdentityLinkRepository(),
		reviews: memory.NewReviewRepository(),
	}
	fx.service = NewIdentityService(
		fx.players,
		memory.NewTeamRepository(memory.SeedTeams()),
		fx.links,
		fx.reviews,
		identity.NewResolver(identity.DefaultScoringConfig(), similarity.NewScorer()),
		logging.NewNop(),
		nil,
	)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fx.service.now = func() time.Time { return fixed }
	return fx
}

func canonical(id, name, birthDate string) player.CanonicalPlayer {
	return player.CanonicalPlayer{
		ID:             id,
		DisplayName:    name,
		NormalizedName: textnorm.Normalize(name),
		BirthDate:      birthDate,
		PositionGroup:  player.PositionGroupAttacker,
		TeamID:         "eng-ars",
		CompetitionID:  memory.CompetitionIDPremierLeague,
	}
}

func TestIdentityService_CreatesPlayerWhenNoCandidates(t *testing.T) {
	fx := newIdentityFixture(t)

	result, err := fx.service.ResolveAndLink(t.Context(), identity.ProviderRecord{
		Provider:         provider.FotMob,
		ProviderPlayerID: "961995",
		Name:             "Bukayo Saka",
		BirthDate:        "2001-09-05",
		PositionGroup:    player.PositionGroupAttacker,
	})
	require.NoError(t, err)

	assert.Equal(t, identity.OutcomeNew, result.Outcome)
	assert.Equal(t, identity.ReasonNoCandidates, result.Reason)
	assert.True(t, result.IsNew)
	assert.Empty(t, result.ReviewItemID)
	require.NotEmpty(t, result.PlayerID)

	created, exists, err := fx.players.GetByID(t.Context(), result.PlayerID)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, "bukayo saka", created.NormalizedName)
	assert.Equal(t, provider.FotMob, created.SourceOf(player.FieldBirthDate))

	link, exists, err := fx.links.GetByProviderID(t.Context(), provider.FotMob, "961995")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, result.PlayerID, link.PlayerID)
}

func TestIdentityService_SecondProviderConvergesOnSamePlayer(t *testing.T) {
	fx := newIdentityFixture(t)

	first, err := fx.service.ResolveAndLink(t.Context(), identity.ProviderRecord{
		Provider:         provider.APIFootball,
		ProviderPlayerID: "1460",
		Name:             "Steven Bergwijn",
		BirthDate:        "1997-10-08",
	})
	require.NoError(t, err)
	require.True(t, first.IsNew)

	second, err := fx.service.ResolveAndLink(t.Context(), identity.ProviderRecord{
		Provider:         provider.FotMob,
		ProviderPlayerID: "609286",
		Name:             "Steven Bergwijn",
		BirthDate:        "1997-10-08",
	})
	require.NoError(t, err)

	assert.False(t, second.IsNew)
	assert.Equal(t, first.PlayerID, second.PlayerID)
	assert.GreaterOrEqual(t, second.Confidence, 0.92)

	all, err := fx.players.ListAll(t.Context())
	require.NoError(t, err)
	assert.Len(t, all, 1)

	again, err := fx.service.ResolveAndLink(t.Context(), identity.ProviderRecord{
		Provider:         provider.FotMob,
		ProviderPlayerID: "609286",
		Name:             "Steven Bergwijn",
	})
	require.NoError(t, err)
	assert.Equal(t, first.PlayerID, again.PlayerID)
	assert.Equal(t, identity.ReasonExistingLink, again.Reason)
}

func TestIdentityService_ExistingLinkShortCircuits(t *testing.T) {
	fx := newIdentityFixture(t, canonical("pl_saka", "Bukayo Saka", "2001-09-05"))
	require.NoError(t, fx.links.Create(t.Context(), identity.Link{
		Provider:         provider.SofaScore,
		ProviderPlayerID: "934235",
		PlayerID:         "pl_saka",
		Confidence:       0.95,
	}))

	result, err := fx.service.ResolveAndLink(t.Context(), identity.ProviderRecord{
		Provider:         provider.SofaScore,
		ProviderPlayerID: "934235",
		Name:             "Somebody Else",
	})
	require.NoError(t, err)

	assert.Equal(t, "pl_saka", result.PlayerID)
	assert.Equal(t, identity.ReasonExistingLink, result.Reason)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestIdentityService_MatchesSingleCandidateAndLinks(t *testing.T) {
	fx := newIdentityFixture(t, canonical("pl_saka", "Bukayo Saka", "2001-09-05"))

	result, err := fx.service.ResolveAndLink(t.Context(), identity.ProviderRecord{
		Provider:         provider.APIFootball,
		ProviderPlayerID: "1460",
		Name:             "Bukayo  SAKA",
		BirthDate:        "2001-09-05",
	})
	require.NoError(t, err)

	assert.Equal(t, identity.OutcomeMatched, result.Outcome)
	assert.Equal(t, identity.ReasonSingleCandidate, result.Reason)
	assert.Equal(t, "pl_saka", result.PlayerID)

	link, exists, err := fx.links.GetByProviderID(t.Context(), provider.APIFootball, "1460")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, "pl_saka", link.PlayerID)
	assert.InDelta(t, 1.0, link.Confidence, 1e-9)
}

func TestIdentityService_TeamNameWidensSearch(t *testing.T) {
	fx := newIdentityFixture(t, canonical("pl_saka", "Bukayo Saka", "2001-09-05"))

	result, err := fx.service.ResolveAndLink(t.Context(), identity.ProviderRecord{
		Provider:         provider.FotMob,
		ProviderPlayerID: "961995",
		Name:             "Bukayo Sakka",
		BirthDate:        "2001-09-05",
		TeamName:         "Arsenal",
	})
	require.NoError(t, err)

	assert.Equal(t, identity.OutcomeMatched, result.Outcome)
	assert.Equal(t, "pl_saka", result.PlayerID)
}

func TestIdentityService_AmbiguousGoesToReviewAndCanBeAccepted(t *testing.T) {
	fx := newIdentityFixture(t,
		canonical("pl_jesus_a", "Gabriel Jesus", ""),
		canonical("pl_jesus_b", "Gabriel Jesus", ""),
	)
	record := identity.ProviderRecord{
		Provider:         provider.FotMob,
		ProviderPlayerID: "664500",
		Name:             "Gabriel Jesus",
	}

	result, err := fx.service.ResolveAndLink(t.Context(), record)
	require.NoError(t, err)
	assert.Equal(t, identity.OutcomeAmbiguous, result.Outcome)
	assert.Equal(t, identity.ReasonAmbiguousCandidates, result.Reason)
	assert.Empty(t, result.PlayerID)
	require.NotEmpty(t, result.ReviewItemID)
	assert.Len(t, result.Candidates, 2)

	_, linked, err := fx.links.GetByProviderID(t.Context(), provider.FotMob, "664500")
	require.NoError(t, err)
	assert.False(t, linked, "ambiguous records must not be linked")

	again, err := fx.service.ResolveAndLink(t.Context(), record)
	require.NoError(t, err)
	assert.Equal(t, result.ReviewItemID, again.ReviewItemID, "pending review item is reused")

	pending, err := fx.service.ListReviewItems(t.Context(), "", 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	accepted, err := fx.service.AcceptReviewItem(t.Context(), result.ReviewItemID, "pl_jesus_b")
	require.NoError(t, err)
	assert.Equal(t, identity.ReviewStatusAccepted, accepted.Status)
	assert.Equal(t, "pl_jesus_b", accepted.ResolvedPlayerID)

	link, linked, err := fx.links.GetByProviderID(t.Context(), provider.FotMob, "664500")
	require.NoError(t, err)
	require.True(t, linked)
	assert.Equal(t, "pl_jesus_b", link.PlayerID)

	_, err = fx.service.AcceptReviewItem(t.Context(), result.ReviewItemID, "pl_jesus_a")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestIdentityService_LowConfidenceCreatesProvisionalPlayer(t *testing.T) {
	fx := newIdentityFixture(t, canonical("pl_saka", "Bukayo Saka", "2001-09-05"))

	result, err := fx.service.ResolveAndLink(t.Context(), identity.ProviderRecord{
		Provider:         provider.FotMob,
		ProviderPlayerID: "777",
		Name:             "Bukayo Saka",
		BirthDate:        "1999-01-01",
	})
	require.NoError(t, err)

	assert.Equal(t, identity.OutcomeNew, result.Outcome)
	assert.Equal(t, identity.ReasonLowConfidence, result.Reason)
	require.NotEmpty(t, result.PlayerID)
	assert.NotEqual(t, "pl_saka", result.PlayerID)
	require.NotEmpty(t, result.ReviewItemID)

	item, exists, err := fx.reviews.GetByID(t.Context(), result.ReviewItemID)
	require.NoError(t, err)
	require.True(t, exists)
	assert.True(t, item.SuggestedNew)
	assert.Equal(t, result.PlayerID, item.ProvisionalPlayerID)

	rejected, err := fx.service.RejectReviewItem(t.Context(), result.ReviewItemID)
	require.NoError(t, err)
	assert.Equal(t, identity.ReviewStatusRejected, rejected.Status)
	assert.Equal(t, result.PlayerID, rejected.ResolvedPlayerID)
}

func TestIdentityService_AcceptingProvisionalReassignsLink(t *testing.T) {
	fx := newIdentityFixture(t, canonical("pl_saka", "Bukayo Saka", "2001-09-05"))

	result, err := fx.service.ResolveAndLink(t.Context(), identity.ProviderRecord{
		Provider:         provider.FotMob,
		ProviderPlayerID: "777",
		Name:             "Bukayo Saka",
		BirthDate:        "1999-01-01",
	})
	require.NoError(t, err)
	provisional := result.PlayerID

	_, err = fx.service.AcceptReviewItem(t.Context(), result.ReviewItemID, "pl_saka")
	require.NoError(t, err)

	link, exists, err := fx.links.GetByProviderID(t.Context(), provider.FotMob, "777")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, "pl_saka", link.PlayerID)

	_, exists, err = fx.players.GetByID(t.Context(), provisional)
	require.NoError(t, err)
	assert.False(t, exists, "provisional player is dropped once unlinked")
}

func TestIdentityService_PlayerAlreadyLinkedOnProviderGoesToReview(t *testing.T) {
	fx := newIdentityFixture(t, canonical("pl_saka", "Bukayo Saka", "2001-09-05"))
	require.NoError(t, fx.links.Create(t.Context(), identity.Link{
		Provider:         provider.FotMob,
		ProviderPlayerID: "961995",
		PlayerID:         "pl_saka",
		Confidence:       1,
	}))

	result, err := fx.service.ResolveAndLink(t.Context(), identity.ProviderRecord{
		Provider:         provider.FotMob,
		ProviderPlayerID: "123456",
		Name:             "Bukayo Saka",
		BirthDate:        "2001-09-05",
	})
	require.NoError(t, err)

	assert.Equal(t, identity.OutcomeAmbiguous, result.Outcome)
	assert.Equal(t, identity.ReasonProviderLinkExists, result.Reason)
	assert.NotEmpty(t, result.ReviewItemID)
}

func TestIdentityService_ConcurrentResolveCreatesOnePlayer(t *testing.T) {
	fx := newIdentityFixture(t)
	record := identity.ProviderRecord{
		Provider:         provider.SofaScore,
		ProviderPlayerID: "42",
		Name:             "Cole Palmer",
	}

	const callers = 8
	ids := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := fx.service.ResolveAndLink(t.Context(), record)
			if err != nil {
				t.Errorf("resolve failed: %v", err)
				return
			}
			ids[i] = result.PlayerID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	all, err := fx.players.ListAll(t.Context())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIdentityService_SharedResolveIgnoresCallerCancellation(t *testing.T) {
	fx := newIdentityFixture(t)
	fx.service.linkRepo = contextAwareLinkRepo{fx.links}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	result, err := fx.service.ResolveAndLink(ctx, identity.ProviderRecord{
		Provider:         provider.SofaScore,
		ProviderPlayerID: "77",
		Name:             "Declan Rice",
	})
	require.NoError(t, err, "waiters share the call, so one caller's cancellation must not fail it")
	assert.NotEmpty(t, result.PlayerID)

	link, exists, err := fx.links.GetByProviderID(t.Context(), provider.SofaScore, "77")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, result.PlayerID, link.PlayerID)
}

func TestIdentityService_ValidatesInput(t *testing.T) {
	fx := newIdentityFixture(t)

	_, err := fx.service.ResolveAndLink(t.Context(), identity.ProviderRecord{Provider: "unknown", ProviderPlayerID: "1", Name: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = fx.service.ListReviewItems(t.Context(), "archived", 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = fx.service.AcceptReviewItem(t.Context(), "rev_missing", "pl_x")
	assert.ErrorIs(t, err, ErrNotFound)
}
