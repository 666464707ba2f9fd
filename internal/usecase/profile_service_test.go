package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/profile"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
	"github.com/riskibarqy/scout-core/internal/infrastructure/repository/memory"
	usecasemock "github.com/riskibarqy/scout-core/internal/mocks/usecase"
	"github.com/riskibarqy/scout-core/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileFixture struct {
	service   *ProfileService
	players   *memory.PlayerRepository
	snapshots *memory.SnapshotRepository
	conflicts *memory.ConflictRepository
}

func newProfileFixture(t *testing.T, decoder ProfileDecoder) profileFixture {
	t.Helper()

	fx := profileFixture{
		players: memory.NewPlayerRepository([]player.CanonicalPlayer{{
			ID:             "pl_1",
			DisplayName:    "Bukayo Saka",
			NormalizedName: "bukayo saka",
			BirthDate:      "2001-09-05",
			Nationality:    "England",
			FieldSources: map[player.Field]provider.Provider{
				player.FieldBirthDate:   provider.APIFootball,
				player.FieldNationality: provider.SofaScore,
			},
		}}),
		snapshots: memory.NewSnapshotRepository(),
		conflicts: memory.NewConflictRepository(),
	}
	fx.service = NewProfileService(fx.players, fx.snapshots, fx.conflicts, nil, decoder, logging.NewNop(), nil)
	fixed := time.Date(2026, 4, 2, 8, 30, 0, 0, time.UTC)
	fx.service.now = func() time.Time { return fixed }
	return fx
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestProfileService_MergeAdoptsEmptyAndRecordsConflicts(t *testing.T) {
	fx := newProfileFixture(t, nil)
	incoming := profile.NormalizedProfile{
		BirthDate:   "2001-09-06",
		Nationality: "ENGLAND",
		HeightCm:    floatPtr(178),
		Position:    "RW",
	}

	result, err := fx.service.MergeProfile(t.Context(), "pl_1", provider.FotMob, incoming, []byte(`{"id":961995}`))
	require.NoError(t, err)

	assert.ElementsMatch(t, []player.Field{player.FieldHeightCm, player.FieldPosition}, result.UpdatedFields)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, player.FieldBirthDate, result.Conflicts[0].Field)
	assert.False(t, result.Conflicts[0].Adopted)

	stored, _, err := fx.players.GetByID(t.Context(), "pl_1")
	require.NoError(t, err)
	assert.Equal(t, "2001-09-05", stored.BirthDate)
	require.NotNil(t, stored.HeightCm)
	assert.InDelta(t, 178, *stored.HeightCm, 1e-9)
	assert.Equal(t, provider.FotMob, stored.SourceOf(player.FieldHeightCm))

	snapshot, exists, err := fx.snapshots.Get(t.Context(), "pl_1", provider.FotMob)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, "RW", snapshot.Normalized.Position)

	again, err := fx.service.MergeProfile(t.Context(), "pl_1", provider.FotMob, incoming, []byte(`{"id":961995}`))
	require.NoError(t, err)
	assert.False(t, again.Changed(), "re-merging the same payload changes nothing")

	open, err := fx.service.ListConflicts(t.Context(), "pl_1", "open")
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestProfileService_AgreementSupersedesOpenConflict(t *testing.T) {
	fx := newProfileFixture(t, nil)

	_, err := fx.service.MergeProfile(t.Context(), "pl_1", provider.FotMob, profile.NormalizedProfile{BirthDate: "2001-09-06"}, nil)
	require.NoError(t, err)

	_, err = fx.service.MergeProfile(t.Context(), "pl_1", provider.FotMob, profile.NormalizedProfile{BirthDate: "2001-09-05"}, nil)
	require.NoError(t, err)

	conflict, exists, err := fx.conflicts.Get(t.Context(), "pl_1", player.FieldBirthDate, provider.FotMob)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, profile.ConflictStatusSuperseded, conflict.Status)
	assert.Equal(t, profile.ResolutionProviderAgreed, conflict.Resolution)
}

func TestProfileService_ResolveConflictKeepCanonicalRevertsAdoptedValue(t *testing.T) {
	fx := newProfileFixture(t, nil)

	result, err := fx.service.MergeProfile(t.Context(), "pl_1", provider.APIFootball, profile.NormalizedProfile{Nationality: "Wales"}, nil)
	require.NoError(t, err)
	require.Len(t, result.Conflicts, 1)
	require.True(t, result.Conflicts[0].Adopted)

	adopted, _, err := fx.players.GetByID(t.Context(), "pl_1")
	require.NoError(t, err)
	assert.Equal(t, "Wales", adopted.Nationality)

	resolved, err := fx.service.ResolveConflict(t.Context(), ResolveConflictInput{
		PlayerID: "pl_1",
		Field:    "nationality",
		Provider: "api-football",
	})
	require.NoError(t, err)
	assert.Equal(t, profile.ConflictStatusResolved, resolved.Status)
	assert.Equal(t, profile.ResolutionKeptCanonical, resolved.Resolution)

	reverted, _, err := fx.players.GetByID(t.Context(), "pl_1")
	require.NoError(t, err)
	assert.Equal(t, "England", reverted.Nationality)
	assert.Equal(t, provider.SofaScore, reverted.SourceOf(player.FieldNationality))

	_, err = fx.service.ResolveConflict(t.Context(), ResolveConflictInput{
		PlayerID: "pl_1",
		Field:    "nationality",
		Provider: "api_football",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestProfileService_ResolveConflictAcceptProviderAppliesValue(t *testing.T) {
	fx := newProfileFixture(t, nil)

	_, err := fx.service.MergeProfile(t.Context(), "pl_1", provider.FotMob, profile.NormalizedProfile{BirthDate: "2001-09-06"}, nil)
	require.NoError(t, err)

	resolved, err := fx.service.ResolveConflict(t.Context(), ResolveConflictInput{
		PlayerID:       "pl_1",
		Field:          "birth_date",
		Provider:       "fotmob",
		AcceptProvider: true,
	})
	require.NoError(t, err)
	assert.Equal(t, profile.ResolutionAcceptedProvider, resolved.Resolution)

	stored, _, err := fx.players.GetByID(t.Context(), "pl_1")
	require.NoError(t, err)
	assert.Equal(t, "2001-09-06", stored.BirthDate)
	assert.Equal(t, provider.FotMob, stored.SourceOf(player.FieldBirthDate))
}

func TestProfileService_MergeProviderPayloadDecodesFirst(t *testing.T) {
	raw := []byte(`{"id":934235}`)
	decoder := usecasemock.NewProfileDecoder(t)
	decoder.On("DecodeProfile", provider.SofaScore, raw).
		Return(profile.NormalizedProfile{PreferredFoot: "left", WeightKg: floatPtr(72)}, nil).
		Once()
	decoder.On("DecodeProfile", provider.SofaScore, []byte(`not-json`)).
		Return(profile.NormalizedProfile{}, errors.New("invalid character")).
		Once()

	fx := newProfileFixture(t, decoder)

	result, err := fx.service.MergeProviderPayload(t.Context(), "pl_1", provider.SofaScore, raw)
	require.NoError(t, err)
	assert.ElementsMatch(t, []player.Field{player.FieldWeightKg, player.FieldPreferredFoot}, result.UpdatedFields)

	_, err = fx.service.MergeProviderPayload(t.Context(), "pl_1", provider.SofaScore, []byte(`not-json`))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProfileService_MergeUnknownPlayer(t *testing.T) {
	fx := newProfileFixture(t, nil)

	_, err := fx.service.MergeProfile(t.Context(), "pl_missing", provider.FotMob, profile.NormalizedProfile{}, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = fx.service.ListConflicts(t.Context(), "pl_1", "closed")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
