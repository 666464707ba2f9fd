package providers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/profile"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

// SofaScoreProfile is the SofaScore /player/{id} payload.
type SofaScoreProfile struct {
	Player sofaScorePlayer `json:"player"`
}

type sofaScorePlayer struct {
	ID                   int64            `json:"id"`
	Name                 string           `json:"name"`
	Position             string           `json:"position"`
	Height               float64          `json:"height"`
	Weight               float64          `json:"weight"`
	PreferredFoot        string           `json:"preferredFoot"`
	DateOfBirthTimestamp *int64           `json:"dateOfBirthTimestamp"`
	Country              sofaScoreCountry `json:"country"`
}

type sofaScoreCountry struct {
	Alpha2 string `json:"alpha2"`
	Name   string `json:"name"`
}

const sofaScoreImageURL = "https://api.sofascore.app/api/v1/player/%s/image"

func (SofaScoreProfile) Provider() provider.Provider { return provider.SofaScore }

func (p SofaScoreProfile) NativeID() string {
	if p.Player.ID <= 0 {
		return ""
	}
	return strconv.FormatInt(p.Player.ID, 10)
}

func (p SofaScoreProfile) Normalize() profile.NormalizedProfile {
	out := profile.NormalizedProfile{
		DisplayName:   strings.TrimSpace(p.Player.Name),
		Nationality:   strings.TrimSpace(p.Player.Country.Name),
		HeightCm:      positiveFloat(p.Player.Height),
		WeightKg:      positiveFloat(p.Player.Weight),
		PreferredFoot: normalizeFoot(p.Player.PreferredFoot),
		Position:      strings.TrimSpace(p.Player.Position),
		PositionGroup: positionGroupFromLabel(p.Player.Position),
	}
	if p.Player.DateOfBirthTimestamp != nil {
		out.BirthDate = time.Unix(*p.Player.DateOfBirthTimestamp, 0).UTC().Format(player.BirthDateLayout)
	}
	if nativeID := p.NativeID(); nativeID != "" {
		out.PhotoURL = fmt.Sprintf(sofaScoreImageURL, nativeID)
	}
	return out
}

func (SofaScoreProfile) sealed() {}
