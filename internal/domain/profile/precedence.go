package profile

import (
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

// DefaultPriority applies to any (field, provider) pair a table does not list.
const DefaultPriority = 50

// Precedence ranks providers per field. Higher wins.
type Precedence interface {
	Priority(field player.Field, p provider.Provider) int
}

// PrecedenceTable is a static Precedence.
type PrecedenceTable map[player.Field]map[provider.Provider]int

func (t PrecedenceTable) Priority(field player.Field, p provider.Provider) int {
	byProvider, ok := t[field]
	if !ok {
		return DefaultPriority
	}
	priority, ok := byProvider[p]
	if !ok {
		return DefaultPriority
	}
	return priority
}

// DefaultPrecedence trusts the primary feed for identity facts and the
// enrichment feeds for physical and positional data.
func DefaultPrecedence() PrecedenceTable {
	identity := map[provider.Provider]int{
		provider.APIFootball: 100,
		provider.FotMob:      90,
		provider.SofaScore:   80,
	}
	positional := map[provider.Provider]int{
		provider.FotMob:      100,
		provider.SofaScore:   90,
		provider.APIFootball: 80,
	}

	return PrecedenceTable{
		player.FieldBirthDate:   identity,
		player.FieldNationality: identity,
		player.FieldHeightCm: {
			provider.SofaScore:   100,
			provider.FotMob:      90,
			provider.APIFootball: 70,
		},
		player.FieldWeightKg: {
			provider.SofaScore:   100,
			provider.APIFootball: 80,
			provider.FotMob:      60,
		},
		player.FieldPreferredFoot: {
			provider.SofaScore:   100,
			provider.FotMob:      90,
			provider.APIFootball: 60,
		},
		player.FieldPhotoURL: {
			provider.FotMob:      100,
			provider.SofaScore:   90,
			provider.APIFootball: 80,
		},
		player.FieldPosition:      positional,
		player.FieldPositionGroup: positional,
	}
}
