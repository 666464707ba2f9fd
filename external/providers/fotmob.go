package providers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/scout-core/internal/domain/profile"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

// FotMobProfile is the FotMob playerData payload.
type FotMobProfile struct {
	ID                  int64                 `json:"id"`
	Name                string                `json:"name"`
	BirthDate           fotMobDate            `json:"birthDate"`
	PlayerInformation   []fotMobInfoItem      `json:"playerInformation"`
	PositionDescription fotMobPositionWrapper `json:"positionDescription"`
	PrimaryTeam         fotMobTeam            `json:"primaryTeam"`
}

type fotMobDate struct {
	UTCTime string `json:"utcTime"`
}

type fotMobInfoItem struct {
	Title          string          `json:"title"`
	TranslationKey string          `json:"translationKey"`
	Value          fotMobInfoValue `json:"value"`
}

type fotMobInfoValue struct {
	Key         string   `json:"key"`
	Fallback    any      `json:"fallback"`
	NumberValue *float64 `json:"numberValue"`
}

type fotMobPositionWrapper struct {
	PrimaryPosition struct {
		Label string `json:"label"`
		Key   string `json:"key"`
	} `json:"primaryPosition"`
}

type fotMobTeam struct {
	TeamID   int64  `json:"teamId"`
	TeamName string `json:"teamName"`
}

const fotMobImageURL = "https://images.fotmob.com/image_resources/playerimages/%s.png"

func (FotMobProfile) Provider() provider.Provider { return provider.FotMob }

func (p FotMobProfile) NativeID() string {
	if p.ID <= 0 {
		return ""
	}
	return strconv.FormatInt(p.ID, 10)
}

func (p FotMobProfile) Normalize() profile.NormalizedProfile {
	out := profile.NormalizedProfile{
		DisplayName: strings.TrimSpace(p.Name),
		BirthDate:   normalizeBirthDate(p.BirthDate.UTCTime),
		Position:    strings.TrimSpace(p.PositionDescription.PrimaryPosition.Label),
	}
	out.PositionGroup = positionGroupFromLabel(out.Position)

	for _, item := range p.PlayerInformation {
		switch fotMobInfoKey(item) {
		case "height":
			if item.Value.NumberValue != nil {
				out.HeightCm = positiveFloat(*item.Value.NumberValue)
			} else {
				out.HeightCm = parseMeasure(item.Value.fallbackText())
			}
		case "weight":
			if item.Value.NumberValue != nil {
				out.WeightKg = positiveFloat(*item.Value.NumberValue)
			} else {
				out.WeightKg = parseMeasure(item.Value.fallbackText())
			}
		case "preferred_foot":
			out.PreferredFoot = normalizeFoot(firstNonEmpty(item.Value.Key, item.Value.fallbackText()))
		case "country":
			out.Nationality = item.Value.fallbackText()
		}
	}

	if nativeID := p.NativeID(); nativeID != "" {
		out.PhotoURL = fmt.Sprintf(fotMobImageURL, nativeID)
	}
	return out
}

func fotMobInfoKey(item fotMobInfoItem) string {
	key := strings.ToLower(strings.TrimSpace(firstNonEmpty(item.TranslationKey, item.Title)))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	switch key {
	case "height", "height_sentencecase":
		return "height"
	case "weight", "weight_sentencecase":
		return "weight"
	case "preferred_foot":
		return "preferred_foot"
	case "country", "country_sentencecase", "nationality":
		return "country"
	default:
		return key
	}
}

func (v fotMobInfoValue) fallbackText() string {
	switch typed := v.Fallback.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return ""
	}
}

func (FotMobProfile) sealed() {}
