package profile

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

// NormalizedProfile is the provider-independent shape the merge engine reads.
// Provider adapters produce it; empty strings and nil numbers mean "not
// supplied".
type NormalizedProfile struct {
	DisplayName   string               `json:"display_name,omitempty"`
	BirthDate     string               `json:"birth_date,omitempty"`
	Nationality   string               `json:"nationality,omitempty"`
	HeightCm      *float64             `json:"height_cm,omitempty"`
	WeightKg      *float64             `json:"weight_kg,omitempty"`
	PreferredFoot string               `json:"preferred_foot,omitempty"`
	PhotoURL      string               `json:"photo_url,omitempty"`
	Position      string               `json:"position,omitempty"`
	PositionGroup player.PositionGroup `json:"position_group,omitempty"`
}

// Value returns the profile's value for a mergeable field.
func (p NormalizedProfile) Value(field player.Field) FieldValue {
	switch field {
	case player.FieldBirthDate:
		return TextValue(p.BirthDate)
	case player.FieldNationality:
		return TextValue(p.Nationality)
	case player.FieldHeightCm:
		return NumberValue(p.HeightCm)
	case player.FieldWeightKg:
		return NumberValue(p.WeightKg)
	case player.FieldPreferredFoot:
		return TextValue(p.PreferredFoot)
	case player.FieldPhotoURL:
		return TextValue(p.PhotoURL)
	case player.FieldPosition:
		return TextValue(p.Position)
	case player.FieldPositionGroup:
		return TextValue(string(p.PositionGroup))
	default:
		return FieldValue{}
	}
}

// CurrentValue reads a mergeable field off a canonical player.
func CurrentValue(p player.CanonicalPlayer, field player.Field) FieldValue {
	return NormalizedProfile{
		BirthDate:     p.BirthDate,
		Nationality:   p.Nationality,
		HeightCm:      p.HeightCm,
		WeightKg:      p.WeightKg,
		PreferredFoot: p.PreferredFoot,
		PhotoURL:      p.PhotoURL,
		Position:      p.Position,
		PositionGroup: p.PositionGroup,
	}.Value(field)
}

// Apply writes value into field of p and records source as its provider.
func Apply(p *player.CanonicalPlayer, field player.Field, value FieldValue, source provider.Provider) {
	switch field {
	case player.FieldBirthDate:
		p.BirthDate = value.Text
	case player.FieldNationality:
		p.Nationality = value.Text
	case player.FieldHeightCm:
		p.HeightCm = copyNumber(value.Number)
	case player.FieldWeightKg:
		p.WeightKg = copyNumber(value.Number)
	case player.FieldPreferredFoot:
		p.PreferredFoot = value.Text
	case player.FieldPhotoURL:
		p.PhotoURL = value.Text
	case player.FieldPosition:
		p.Position = value.Text
	case player.FieldPositionGroup:
		p.PositionGroup = player.PositionGroup(value.Text)
	default:
		return
	}
	if p.FieldSources == nil {
		p.FieldSources = make(map[player.Field]provider.Provider)
	}
	p.FieldSources[field] = source
}

const numericTolerance = 0.001

// FieldValue holds either a text or a numeric field value.
type FieldValue struct {
	Text   string
	Number *float64
}

func TextValue(v string) FieldValue {
	return FieldValue{Text: strings.TrimSpace(v)}
}

func NumberValue(v *float64) FieldValue {
	return FieldValue{Number: copyNumber(v)}
}

func (v FieldValue) IsEmpty() bool {
	return v.Number == nil && v.Text == ""
}

// Equal compares text case-insensitively and numbers within 0.001.
func (v FieldValue) Equal(other FieldValue) bool {
	if v.Number != nil || other.Number != nil {
		if v.Number == nil || other.Number == nil {
			return false
		}
		return math.Abs(*v.Number-*other.Number) <= numericTolerance
	}
	return strings.EqualFold(v.Text, other.Text)
}

func (v FieldValue) String() string {
	if v.Number != nil {
		return strconv.FormatFloat(*v.Number, 'f', -1, 64)
	}
	return v.Text
}

// ParseFieldValue turns a stored conflict value back into a FieldValue.
func ParseFieldValue(field player.Field, raw string) FieldValue {
	switch field {
	case player.FieldHeightCm, player.FieldWeightKg:
		if raw == "" {
			return FieldValue{}
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return FieldValue{}
		}
		return FieldValue{Number: &n}
	default:
		return TextValue(raw)
	}
}

func copyNumber(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

// Snapshot is the latest raw and normalized payload a provider returned for a
// player. It is overwritten on every enrichment pass.
type Snapshot struct {
	PlayerID   string
	Provider   provider.Provider
	Raw        []byte
	Normalized NormalizedProfile
	FetchedAt  time.Time
}

type ConflictStatus string

const (
	ConflictStatusOpen       ConflictStatus = "open"
	ConflictStatusResolved   ConflictStatus = "resolved"
	ConflictStatusSuperseded ConflictStatus = "superseded"
)

const (
	ResolutionAcceptedProvider = "accepted_provider"
	ResolutionKeptCanonical    = "kept_canonical"
	ResolutionProviderAgreed   = "provider_agreed"
)

// FieldConflict is one disagreement between the canonical value and a
// provider's value, keyed by (player, field, provider).
type FieldConflict struct {
	PlayerID        string
	Field           player.Field
	Provider        provider.Provider
	CanonicalValue  string
	ProviderValue   string
	CanonicalSource provider.Provider
	Adopted         bool
	Status          ConflictStatus
	Resolution      string
	DetectedAt      time.Time
	ResolvedAt      *time.Time
}
