package player

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

// PositionGroup buckets positions for benchmarking; ratings never compare
// players across groups.
type PositionGroup string

const (
	PositionGroupGoalkeeper PositionGroup = "GK"
	PositionGroupDefender   PositionGroup = "DEF"
	PositionGroupMidfielder PositionGroup = "MID"
	PositionGroupAttacker   PositionGroup = "ATT"
)

var AllPositionGroups = map[PositionGroup]struct{}{
	PositionGroupGoalkeeper: {},
	PositionGroupDefender:   {},
	PositionGroupMidfielder: {},
	PositionGroupAttacker:   {},
}

// OrderedPositionGroups is the stable iteration order used by batch jobs.
var OrderedPositionGroups = []PositionGroup{
	PositionGroupGoalkeeper,
	PositionGroupDefender,
	PositionGroupMidfielder,
	PositionGroupAttacker,
}

func ParsePositionGroup(raw string) (PositionGroup, bool) {
	group := PositionGroup(strings.ToUpper(strings.TrimSpace(raw)))
	if group == "FWD" {
		group = PositionGroupAttacker
	}
	_, ok := AllPositionGroups[group]
	return group, ok
}

// Field names a mergeable attribute of a canonical player.
type Field string

const (
	FieldBirthDate     Field = "birth_date"
	FieldNationality   Field = "nationality"
	FieldHeightCm      Field = "height_cm"
	FieldWeightKg      Field = "weight_kg"
	FieldPreferredFoot Field = "preferred_foot"
	FieldPhotoURL      Field = "photo_url"
	FieldPosition      Field = "position"
	FieldPositionGroup Field = "position_group"
)

// MergeableFields is the order in which the merge engine walks fields.
var MergeableFields = []Field{
	FieldBirthDate,
	FieldNationality,
	FieldHeightCm,
	FieldWeightKg,
	FieldPreferredFoot,
	FieldPhotoURL,
	FieldPosition,
	FieldPositionGroup,
}

func ParseField(raw string) (Field, bool) {
	field := Field(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range MergeableFields {
		if field == known {
			return field, true
		}
	}
	return "", false
}

// BirthDateLayout is the only accepted birth date format.
const BirthDateLayout = "2006-01-02"

// CanonicalPlayer is the single deduplicated identity record for an athlete.
// FieldSources records which provider supplied the current value of each
// mergeable field.
type CanonicalPlayer struct {
	ID             string
	DisplayName    string
	NormalizedName string
	BirthDate      string
	Nationality    string
	HeightCm       *float64
	WeightKg       *float64
	PreferredFoot  string
	PhotoURL       string
	Position       string
	PositionGroup  PositionGroup
	TeamID         string
	CompetitionID  string
	FieldSources   map[Field]provider.Provider
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p CanonicalPlayer) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		return fmt.Errorf("player display name is required")
	}
	if p.NormalizedName == "" {
		return fmt.Errorf("player normalized name is required")
	}
	if p.BirthDate != "" {
		if _, err := time.Parse(BirthDateLayout, p.BirthDate); err != nil {
			return fmt.Errorf("invalid player birth date %q", p.BirthDate)
		}
	}
	if p.PositionGroup != "" {
		if _, ok := AllPositionGroups[p.PositionGroup]; !ok {
			return fmt.Errorf("invalid player position group: %s", p.PositionGroup)
		}
	}
	return nil
}

// SourceOf returns the provider that set field, or "" when unknown.
func (p CanonicalPlayer) SourceOf(field Field) provider.Provider {
	if p.FieldSources == nil {
		return ""
	}
	return p.FieldSources[field]
}

// Clone returns a copy that shares no mutable state with p.
func (p CanonicalPlayer) Clone() CanonicalPlayer {
	out := p
	if p.HeightCm != nil {
		v := *p.HeightCm
		out.HeightCm = &v
	}
	if p.WeightKg != nil {
		v := *p.WeightKg
		out.WeightKg = &v
	}
	if p.FieldSources != nil {
		out.FieldSources = make(map[Field]provider.Provider, len(p.FieldSources))
		for k, v := range p.FieldSources {
			out.FieldSources[k] = v
		}
	}
	return out
}
