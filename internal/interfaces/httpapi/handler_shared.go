package httpapi

import (
	"sort"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/identity"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/playerstats"
	"github.com/riskibarqy/scout-core/internal/domain/profile"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
	"github.com/riskibarqy/scout-core/internal/domain/rating"
	"github.com/riskibarqy/scout-core/internal/usecase"
)

type playerDTO struct {
	ID            string                             `json:"id"`
	DisplayName   string                             `json:"display_name"`
	BirthDate     string                             `json:"birth_date,omitempty"`
	Nationality   string                             `json:"nationality,omitempty"`
	HeightCm      *float64                           `json:"height_cm,omitempty"`
	WeightKg      *float64                           `json:"weight_kg,omitempty"`
	PreferredFoot string                             `json:"preferred_foot,omitempty"`
	PhotoURL      string                             `json:"photo_url,omitempty"`
	Position      string                             `json:"position,omitempty"`
	PositionGroup player.PositionGroup               `json:"position_group,omitempty"`
	TeamID        string                             `json:"team_id,omitempty"`
	CompetitionID string                             `json:"competition_id,omitempty"`
	FieldSources  map[player.Field]provider.Provider `json:"field_sources,omitempty"`
	UpdatedAt     time.Time                          `json:"updated_at"`
}

type linkDTO struct {
	Provider         provider.Provider `json:"provider"`
	ProviderPlayerID string            `json:"provider_player_id"`
	Confidence       float64           `json:"confidence"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type snapshotDTO struct {
	Provider   provider.Provider         `json:"provider"`
	Normalized profile.NormalizedProfile `json:"normalized"`
	FetchedAt  time.Time                 `json:"fetched_at"`
}

type conflictDTO struct {
	Field           player.Field           `json:"field"`
	Provider        provider.Provider      `json:"provider"`
	CanonicalValue  string                 `json:"canonical_value"`
	ProviderValue   string                 `json:"provider_value"`
	CanonicalSource provider.Provider      `json:"canonical_source,omitempty"`
	Adopted         bool                   `json:"adopted"`
	Status          profile.ConflictStatus `json:"status"`
	Resolution      string                 `json:"resolution,omitempty"`
	DetectedAt      time.Time              `json:"detected_at"`
	ResolvedAt      *time.Time             `json:"resolved_at,omitempty"`
}

type mergeResultDTO struct {
	Player        playerDTO      `json:"player"`
	UpdatedFields []player.Field `json:"updated_fields"`
	Agreed        []player.Field `json:"agreed"`
	Conflicts     []conflictDTO  `json:"conflicts"`
}

type providerRecordDTO struct {
	Name          string               `json:"name"`
	BirthDate     string               `json:"birth_date,omitempty"`
	Nationality   string               `json:"nationality,omitempty"`
	Position      string               `json:"position,omitempty"`
	PositionGroup player.PositionGroup `json:"position_group,omitempty"`
	TeamID        string               `json:"team_id,omitempty"`
	TeamName      string               `json:"team_name,omitempty"`
	CompetitionID string               `json:"competition_id,omitempty"`
}

type reviewItemDTO struct {
	ID                  string                     `json:"id"`
	Provider            provider.Provider          `json:"provider"`
	ProviderPlayerID    string                     `json:"provider_player_id"`
	Record              providerRecordDTO          `json:"record"`
	Reason              string                     `json:"reason"`
	Candidates          []identity.ScoredCandidate `json:"candidates"`
	SuggestedNew        bool                       `json:"suggested_new"`
	ProvisionalPlayerID string                     `json:"provisional_player_id,omitempty"`
	Status              identity.ReviewStatus      `json:"status"`
	ResolvedPlayerID    string                     `json:"resolved_player_id,omitempty"`
	CreatedAt           time.Time                  `json:"created_at"`
	ResolvedAt          *time.Time                 `json:"resolved_at,omitempty"`
}

type windowDTO struct {
	Kind        playerstats.WindowKind          `json:"kind"`
	From        time.Time                       `json:"from"`
	To          time.Time                       `json:"to"`
	Appearances int                             `json:"appearances"`
	Minutes     int                             `json:"minutes"`
	CleanSheets int                             `json:"clean_sheets"`
	Per90       map[playerstats.Stat]float64    `json:"per90,omitempty"`
	Ratios      playerstats.Ratios              `json:"ratios"`
	Features    map[playerstats.Feature]float64 `json:"features,omitempty"`
}

type playerRatingDTO struct {
	PlayerID      string               `json:"player_id"`
	CompetitionID string               `json:"competition_id,omitempty"`
	PositionGroup player.PositionGroup `json:"position_group"`
	Rating365     int                  `json:"rating_365"`
	RatingLast5   int                  `json:"rating_last5"`
	Tier          int                  `json:"tier"`
	LevelScore    int                  `json:"level_score"`
	Minutes365    int                  `json:"minutes_365"`
	ComputedAt    time.Time            `json:"computed_at"`
}

type competitionRatingDTO struct {
	CompetitionID string    `json:"competition_id"`
	Tier          int       `json:"tier"`
	StrengthScore int       `json:"strength_score"`
	RatedPlayers  int       `json:"rated_players"`
	ComputedAt    time.Time `json:"computed_at"`
}

type ratingProfileDTO struct {
	PositionGroup player.PositionGroup            `json:"position_group"`
	Weights       map[playerstats.Feature]float64 `json:"weights"`
	InvertMetrics []playerstats.Feature           `json:"invert_metrics"`
	UpdatedAt     time.Time                       `json:"updated_at"`
}

type playerDetailDTO struct {
	Player        playerDTO         `json:"player"`
	Links         []linkDTO         `json:"links"`
	Snapshots     []snapshotDTO     `json:"snapshots"`
	OpenConflicts []conflictDTO     `json:"open_conflicts"`
	Windows       []windowDTO       `json:"windows"`
	Ratings       []playerRatingDTO `json:"ratings"`
}

func playerToDTO(v player.CanonicalPlayer) playerDTO {
	return playerDTO{
		ID:            v.ID,
		DisplayName:   v.DisplayName,
		BirthDate:     v.BirthDate,
		Nationality:   v.Nationality,
		HeightCm:      v.HeightCm,
		WeightKg:      v.WeightKg,
		PreferredFoot: v.PreferredFoot,
		PhotoURL:      v.PhotoURL,
		Position:      v.Position,
		PositionGroup: v.PositionGroup,
		TeamID:        v.TeamID,
		CompetitionID: v.CompetitionID,
		FieldSources:  v.FieldSources,
		UpdatedAt:     v.UpdatedAt,
	}
}

func conflictToDTO(v profile.FieldConflict) conflictDTO {
	return conflictDTO{
		Field:           v.Field,
		Provider:        v.Provider,
		CanonicalValue:  v.CanonicalValue,
		ProviderValue:   v.ProviderValue,
		CanonicalSource: v.CanonicalSource,
		Adopted:         v.Adopted,
		Status:          v.Status,
		Resolution:      v.Resolution,
		DetectedAt:      v.DetectedAt,
		ResolvedAt:      v.ResolvedAt,
	}
}

func conflictsToDTO(items []profile.FieldConflict) []conflictDTO {
	out := make([]conflictDTO, 0, len(items))
	for _, item := range items {
		out = append(out, conflictToDTO(item))
	}
	return out
}

func mergeResultToDTO(v profile.MergeResult) mergeResultDTO {
	return mergeResultDTO{
		Player:        playerToDTO(v.Player),
		UpdatedFields: nonNilFields(v.UpdatedFields),
		Agreed:        nonNilFields(v.Agreed),
		Conflicts:     conflictsToDTO(v.Conflicts),
	}
}

func nonNilFields(fields []player.Field) []player.Field {
	if fields == nil {
		return []player.Field{}
	}
	return fields
}

func reviewItemToDTO(v identity.ReviewItem) reviewItemDTO {
	candidates := v.Candidates
	if candidates == nil {
		candidates = []identity.ScoredCandidate{}
	}
	return reviewItemDTO{
		ID:               v.ID,
		Provider:         v.Provider,
		ProviderPlayerID: v.ProviderPlayerID,
		Record: providerRecordDTO{
			Name:          v.Record.Name,
			BirthDate:     v.Record.BirthDate,
			Nationality:   v.Record.Nationality,
			Position:      v.Record.Position,
			PositionGroup: v.Record.PositionGroup,
			TeamID:        v.Record.TeamID,
			TeamName:      v.Record.TeamName,
			CompetitionID: v.Record.CompetitionID,
		},
		Reason:              v.Reason,
		Candidates:          candidates,
		SuggestedNew:        v.SuggestedNew,
		ProvisionalPlayerID: v.ProvisionalPlayerID,
		Status:              v.Status,
		ResolvedPlayerID:    v.ResolvedPlayerID,
		CreatedAt:           v.CreatedAt,
		ResolvedAt:          v.ResolvedAt,
	}
}

func playerRatingsToDTO(items []rating.PlayerRating) []playerRatingDTO {
	out := make([]playerRatingDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerRatingDTO{
			PlayerID:      item.PlayerID,
			CompetitionID: item.CompetitionID,
			PositionGroup: item.PositionGroup,
			Rating365:     item.Rating365,
			RatingLast5:   item.RatingLast5,
			Tier:          item.Tier,
			LevelScore:    item.LevelScore,
			Minutes365:    item.Minutes365,
			ComputedAt:    item.ComputedAt,
		})
	}
	return out
}

func ratingProfileToDTO(v rating.Profile) ratingProfileDTO {
	inverted := make([]playerstats.Feature, 0, len(v.InvertMetrics))
	for feature := range v.InvertMetrics {
		inverted = append(inverted, feature)
	}
	sort.Slice(inverted, func(i, j int) bool { return inverted[i] < inverted[j] })

	return ratingProfileDTO{
		PositionGroup: v.PositionGroup,
		Weights:       v.Weights,
		InvertMetrics: inverted,
		UpdatedAt:     v.UpdatedAt,
	}
}

func playerDetailToDTO(v usecase.PlayerDetail) playerDetailDTO {
	out := playerDetailDTO{
		Player:        playerToDTO(v.Player),
		Links:         make([]linkDTO, 0, len(v.Links)),
		Snapshots:     make([]snapshotDTO, 0, len(v.Snapshots)),
		OpenConflicts: conflictsToDTO(v.OpenConflicts),
		Windows:       make([]windowDTO, 0, len(v.Windows)),
		Ratings:       playerRatingsToDTO(v.Ratings),
	}
	for _, link := range v.Links {
		out.Links = append(out.Links, linkDTO{
			Provider:         link.Provider,
			ProviderPlayerID: link.ProviderPlayerID,
			Confidence:       link.Confidence,
			UpdatedAt:        link.UpdatedAt,
		})
	}
	for _, snapshot := range v.Snapshots {
		out.Snapshots = append(out.Snapshots, snapshotDTO{
			Provider:   snapshot.Provider,
			Normalized: snapshot.Normalized,
			FetchedAt:  snapshot.FetchedAt,
		})
	}
	for _, window := range v.Windows {
		out.Windows = append(out.Windows, windowDTO{
			Kind:        window.Kind,
			From:        window.From,
			To:          window.To,
			Appearances: window.Appearances,
			Minutes:     window.Minutes,
			CleanSheets: window.CleanSheets,
			Per90:       window.Per90,
			Ratios:      window.Ratios,
			Features:    window.Features,
		})
	}
	return out
}
