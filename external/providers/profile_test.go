package providers

import (
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

func TestDecode_APIFootball(t *testing.T) {
	raw := []byte(`{
		"player": {
			"id": 1098,
			"name": "S. Bergwijn",
			"firstname": "Steven Charles",
			"lastname": "Bergwijn",
			"birth": {"date": "1997-10-08", "place": "Amsterdam", "country": "Netherlands"},
			"nationality": "Netherlands",
			"height": "178 cm",
			"weight": "78 kg",
			"photo": "https://media.api-sports.io/football/players/1098.png"
		},
		"statistics": [{"games": {"position": "Attacker"}}]
	}`)

	decoded, err := Decode(provider.APIFootball, raw)
	require.NoError(t, err)
	require.IsType(t, APIFootballProfile{}, decoded)
	assert.Equal(t, "1098", decoded.NativeID())

	got := decoded.Normalize()
	assert.Equal(t, "Steven Charles Bergwijn", got.DisplayName)
	assert.Equal(t, "1997-10-08", got.BirthDate)
	assert.Equal(t, "Netherlands", got.Nationality)
	require.NotNil(t, got.HeightCm)
	assert.Equal(t, 178.0, *got.HeightCm)
	require.NotNil(t, got.WeightKg)
	assert.Equal(t, 78.0, *got.WeightKg)
	assert.Equal(t, player.PositionGroupAttacker, got.PositionGroup)
}

func TestDecode_FotMob(t *testing.T) {
	raw := []byte(`{
		"id": 737066,
		"name": "Steven Bergwijn",
		"birthDate": {"utcTime": "1997-10-08T00:00:00.000Z"},
		"playerInformation": [
			{"title": "Height", "translationKey": "height_sentencecase", "value": {"key": null, "fallback": "178 cm", "numberValue": 178}},
			{"title": "Preferred foot", "translationKey": "preferred_foot", "value": {"key": "right", "fallback": "Right"}},
			{"title": "Country", "translationKey": "country_sentencecase", "value": {"fallback": "Netherlands"}}
		],
		"positionDescription": {"primaryPosition": {"label": "Left Winger", "key": "leftwinger"}},
		"primaryTeam": {"teamId": 8593, "teamName": "Ajax"}
	}`)

	decoded, err := Decode(provider.FotMob, raw)
	require.NoError(t, err)

	got := decoded.Normalize()
	assert.Equal(t, "Steven Bergwijn", got.DisplayName)
	assert.Equal(t, "1997-10-08", got.BirthDate)
	assert.Equal(t, "Netherlands", got.Nationality)
	assert.Equal(t, "right", got.PreferredFoot)
	require.NotNil(t, got.HeightCm)
	assert.Equal(t, 178.0, *got.HeightCm)
	assert.Nil(t, got.WeightKg)
	assert.Equal(t, "Left Winger", got.Position)
	assert.Equal(t, player.PositionGroupAttacker, got.PositionGroup)
	assert.Equal(t, "https://images.fotmob.com/image_resources/playerimages/737066.png", got.PhotoURL)
}

func TestDecode_SofaScore(t *testing.T) {
	raw := []byte(`{
		"player": {
			"id": 795222,
			"name": "Steven Bergwijn",
			"position": "F",
			"height": 178,
			"preferredFoot": "Right",
			"dateOfBirthTimestamp": 876268800,
			"country": {"alpha2": "NL", "name": "Netherlands"}
		}
	}`)

	decoded, err := Decode(provider.SofaScore, raw)
	require.NoError(t, err)

	got := decoded.Normalize()
	assert.Equal(t, "1997-10-08", got.BirthDate)
	assert.Equal(t, "right", got.PreferredFoot)
	assert.Equal(t, player.PositionGroupAttacker, got.PositionGroup)
	assert.Nil(t, got.WeightKg)
	assert.Equal(t, "795222", decoded.NativeID())
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(provider.FotMob, []byte("  "))
	assert.True(t, crerr.Is(err, ErrEmptyPayload))

	_, err = Decode("transfermarkt", []byte(`{}`))
	assert.True(t, crerr.Is(err, ErrUnsupportedPayload))

	_, err = Decode(provider.SofaScore, []byte(`{"player":`))
	assert.Error(t, err)
}

func TestParseMeasure(t *testing.T) {
	cases := []struct {
		raw  string
		want *float64
	}{
		{"183 cm", positiveFloat(183)},
		{"76kg", positiveFloat(76)},
		{"1,85", positiveFloat(1.85)},
		{"", nil},
		{"n/a", nil},
		{"0 cm", nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseMeasure(tc.raw), tc.raw)
	}
}
