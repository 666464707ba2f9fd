package providers

import (
	"strconv"
	"strings"

	"github.com/riskibarqy/scout-core/internal/domain/profile"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

// APIFootballProfile is one item of the API-Football /players response.
type APIFootballProfile struct {
	Player     apiFootballPlayer       `json:"player"`
	Statistics []apiFootballStatistics `json:"statistics"`
}

type apiFootballPlayer struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Firstname   string           `json:"firstname"`
	Lastname    string           `json:"lastname"`
	Birth       apiFootballBirth `json:"birth"`
	Nationality string           `json:"nationality"`
	Height      string           `json:"height"`
	Weight      string           `json:"weight"`
	Photo       string           `json:"photo"`
}

type apiFootballBirth struct {
	Date    string `json:"date"`
	Place   string `json:"place"`
	Country string `json:"country"`
}

type apiFootballStatistics struct {
	Games struct {
		Position string `json:"position"`
	} `json:"games"`
}

func (APIFootballProfile) Provider() provider.Provider { return provider.APIFootball }

func (p APIFootballProfile) NativeID() string {
	if p.Player.ID <= 0 {
		return ""
	}
	return strconv.FormatInt(p.Player.ID, 10)
}

func (p APIFootballProfile) Normalize() profile.NormalizedProfile {
	position := ""
	for _, item := range p.Statistics {
		if position = strings.TrimSpace(item.Games.Position); position != "" {
			break
		}
	}

	fullName := strings.TrimSpace(strings.TrimSpace(p.Player.Firstname) + " " + strings.TrimSpace(p.Player.Lastname))
	return profile.NormalizedProfile{
		DisplayName:   firstNonEmpty(fullName, p.Player.Name),
		BirthDate:     normalizeBirthDate(p.Player.Birth.Date),
		Nationality:   strings.TrimSpace(p.Player.Nationality),
		HeightCm:      parseMeasure(p.Player.Height),
		WeightKg:      parseMeasure(p.Player.Weight),
		PhotoURL:      strings.TrimSpace(p.Player.Photo),
		Position:      position,
		PositionGroup: positionGroupFromLabel(position),
	}
}

func (APIFootballProfile) sealed() {}
