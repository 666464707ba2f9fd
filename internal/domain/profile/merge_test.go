package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

var mergeNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func ptr(v float64) *float64 { return &v }

func bergwijn() player.CanonicalPlayer {
	return player.CanonicalPlayer{
		ID:             "pl-1",
		DisplayName:    "Steven Bergwijn",
		NormalizedName: "steven bergwijn",
		BirthDate:      "1997-10-08",
		Nationality:    "Netherlands",
		FieldSources: map[player.Field]provider.Provider{
			player.FieldBirthDate:   provider.APIFootball,
			player.FieldNationality: provider.APIFootball,
		},
	}
}

func TestMerge_LowerPriorityConflictKeepsCanonical(t *testing.T) {
	precedence := PrecedenceTable{
		player.FieldBirthDate: {provider.APIFootball: 100, provider.SofaScore: 80},
	}

	got := Merge(bergwijn(), provider.SofaScore, NormalizedProfile{BirthDate: "1997-10-09"}, precedence, mergeNow)

	assert.Equal(t, "1997-10-08", got.Player.BirthDate)
	assert.Empty(t, got.UpdatedFields)
	require.Len(t, got.Conflicts, 1)
	conflict := got.Conflicts[0]
	assert.Equal(t, player.FieldBirthDate, conflict.Field)
	assert.Equal(t, provider.SofaScore, conflict.Provider)
	assert.Equal(t, "1997-10-08", conflict.CanonicalValue)
	assert.Equal(t, "1997-10-09", conflict.ProviderValue)
	assert.Equal(t, provider.APIFootball, conflict.CanonicalSource)
	assert.False(t, conflict.Adopted)
	assert.Equal(t, ConflictStatusOpen, conflict.Status)
}

func TestMerge_EmptyCanonicalAdoptsWithoutConflict(t *testing.T) {
	for _, source := range []provider.Provider{provider.APIFootball, provider.FotMob, provider.SofaScore, "unknown"} {
		got := Merge(bergwijn(), source, NormalizedProfile{HeightCm: ptr(183)}, DefaultPrecedence(), mergeNow)

		require.NotNil(t, got.Player.HeightCm, source)
		assert.Equal(t, 183.0, *got.Player.HeightCm)
		assert.Empty(t, got.Conflicts)
		assert.Equal(t, []player.Field{player.FieldHeightCm}, got.UpdatedFields)
		assert.Equal(t, source, got.Player.SourceOf(player.FieldHeightCm))
		assert.Equal(t, mergeNow, got.Player.UpdatedAt)
	}
}

func TestMerge_HigherPriorityAdoptsAndStillRecordsConflict(t *testing.T) {
	current := bergwijn()
	current.HeightCm = ptr(182)
	current.FieldSources[player.FieldHeightCm] = provider.APIFootball

	got := Merge(current, provider.SofaScore, NormalizedProfile{HeightCm: ptr(183)}, DefaultPrecedence(), mergeNow)

	assert.Equal(t, 183.0, *got.Player.HeightCm)
	assert.Equal(t, 182.0, *current.HeightCm, "input player must not be mutated")
	require.Len(t, got.Conflicts, 1)
	assert.True(t, got.Conflicts[0].Adopted)
	assert.Equal(t, "182", got.Conflicts[0].CanonicalValue)
	assert.Equal(t, "183", got.Conflicts[0].ProviderValue)
}

func TestMerge_EqualValuesAreNoOp(t *testing.T) {
	current := bergwijn()
	current.HeightCm = ptr(183)

	got := Merge(current, provider.FotMob, NormalizedProfile{
		Nationality: "NETHERLANDS",
		HeightCm:    ptr(183.0004),
	}, DefaultPrecedence(), mergeNow)

	assert.Empty(t, got.Conflicts)
	assert.Empty(t, got.UpdatedFields)
	assert.ElementsMatch(t, []player.Field{player.FieldNationality, player.FieldHeightCm}, got.Agreed)
	assert.True(t, got.Player.UpdatedAt.IsZero())
}

func TestMerge_UnknownSourceUsesDefaultPriority(t *testing.T) {
	current := bergwijn()
	current.PreferredFoot = "left"
	delete(current.FieldSources, player.FieldPreferredFoot)

	// api_football ranks 60 for preferred foot, above the default 50.
	got := Merge(current, provider.APIFootball, NormalizedProfile{PreferredFoot: "right"}, DefaultPrecedence(), mergeNow)
	assert.Equal(t, "right", got.Player.PreferredFoot)

	// An unlisted provider ties at 50 and does not win.
	got = Merge(current, "scraper", NormalizedProfile{PreferredFoot: "right"}, DefaultPrecedence(), mergeNow)
	assert.Equal(t, "left", got.Player.PreferredFoot)
	require.Len(t, got.Conflicts, 1)
}

func TestMerge_RepeatIsIdempotent(t *testing.T) {
	incoming := NormalizedProfile{
		BirthDate:     "1997-10-09",
		HeightCm:      ptr(175),
		Position:      "Left Winger",
		PositionGroup: player.PositionGroupAttacker,
	}

	first := Merge(bergwijn(), provider.FotMob, incoming, DefaultPrecedence(), mergeNow)
	second := Merge(first.Player, provider.FotMob, incoming, DefaultPrecedence(), mergeNow.Add(time.Hour))

	assert.Empty(t, second.UpdatedFields)
	require.Len(t, second.Conflicts, len(first.Conflicts))
	assert.Equal(t, first.Conflicts[0].ProviderValue, second.Conflicts[0].ProviderValue)
	assert.Equal(t, first.Player.BirthDate, second.Player.BirthDate)
}

func TestPrecedenceTable_DefaultsTo50(t *testing.T) {
	table := DefaultPrecedence()
	assert.Equal(t, 100, table.Priority(player.FieldBirthDate, provider.APIFootball))
	assert.Equal(t, DefaultPriority, table.Priority(player.FieldBirthDate, "scraper"))
	assert.Equal(t, DefaultPriority, table.Priority("shirt_number", provider.FotMob))
}

func TestParseFieldValue(t *testing.T) {
	v := ParseFieldValue(player.FieldWeightKg, "76.5")
	require.NotNil(t, v.Number)
	assert.Equal(t, 76.5, *v.Number)
	assert.True(t, ParseFieldValue(player.FieldWeightKg, "abc").IsEmpty())
	assert.Equal(t, "left", ParseFieldValue(player.FieldPreferredFoot, " left ").Text)
}
