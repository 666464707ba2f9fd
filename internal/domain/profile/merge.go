package profile

import (
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

// MergeResult describes what one merge changed. Player is a copy of the input
// with adopted values applied; the input player is never mutated. Agreed lists
// fields where the incoming value equals canonical, so open conflicts for those
// (field, provider) pairs can be superseded.
type MergeResult struct {
	Player        player.CanonicalPlayer
	UpdatedFields []player.Field
	Conflicts     []FieldConflict
	Agreed        []player.Field
}

func (r MergeResult) Changed() bool {
	return len(r.UpdatedFields) > 0
}

// Merge folds a provider's normalized profile into the canonical player.
//
// Per field: an empty canonical value is adopted without conflict; an empty
// or equal incoming value is ignored; any other difference is recorded as a
// conflict and adopted only when the provider outranks the current source.
func Merge(current player.CanonicalPlayer, source provider.Provider, incoming NormalizedProfile, precedence Precedence, now time.Time) MergeResult {
	if precedence == nil {
		precedence = DefaultPrecedence()
	}

	result := MergeResult{Player: current.Clone()}
	for _, field := range player.MergeableFields {
		next := incoming.Value(field)
		if next.IsEmpty() {
			continue
		}

		existing := CurrentValue(result.Player, field)
		if existing.IsEmpty() {
			Apply(&result.Player, field, next, source)
			result.UpdatedFields = append(result.UpdatedFields, field)
			continue
		}
		if existing.Equal(next) {
			result.Agreed = append(result.Agreed, field)
			continue
		}

		currentSource := result.Player.SourceOf(field)
		adopt := precedence.Priority(field, source) > precedence.Priority(field, currentSource)

		result.Conflicts = append(result.Conflicts, FieldConflict{
			PlayerID:        current.ID,
			Field:           field,
			Provider:        source,
			CanonicalValue:  existing.String(),
			ProviderValue:   next.String(),
			CanonicalSource: currentSource,
			Adopted:         adopt,
			Status:          ConflictStatusOpen,
			DetectedAt:      now,
		})

		if adopt {
			Apply(&result.Player, field, next, source)
			result.UpdatedFields = append(result.UpdatedFields, field)
		}
	}

	if result.Changed() {
		result.Player.UpdatedAt = now
	}
	return result
}
