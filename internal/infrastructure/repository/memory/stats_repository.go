package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/playerstats"
)

type AppearanceRepository struct {
	mu          sync.RWMutex
	appearances map[string]playerstats.MatchAppearance
}

func NewAppearanceRepository() *AppearanceRepository {
	return &AppearanceRepository{appearances: make(map[string]playerstats.MatchAppearance)}
}

func (r *AppearanceRepository) Upsert(_ context.Context, appearances []playerstats.MatchAppearance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range appearances {
		r.appearances[item.Key()] = item
	}
	return nil
}

func (r *AppearanceRepository) Delete(_ context.Context, appearances []playerstats.MatchAppearance) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, item := range appearances {
		if _, ok := r.appearances[item.Key()]; ok {
			delete(r.appearances, item.Key())
			removed++
		}
	}
	return removed, nil
}

func (r *AppearanceRepository) ListByPlayer(_ context.Context, playerID string) ([]playerstats.MatchAppearance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerstats.MatchAppearance, 0)
	for _, item := range r.appearances {
		if item.PlayerID == playerID {
			out = append(out, item)
		}
	}
	sortByDateDesc(out)
	return out, nil
}

func (r *AppearanceRepository) ListByPlayers(_ context.Context, playerIDs []string, until time.Time) (map[string][]playerstats.MatchAppearance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		wanted[id] = struct{}{}
	}

	out := make(map[string][]playerstats.MatchAppearance, len(playerIDs))
	for _, item := range r.appearances {
		if _, ok := wanted[item.PlayerID]; !ok {
			continue
		}
		if item.MatchDate.After(until) {
			continue
		}
		out[item.PlayerID] = append(out[item.PlayerID], item)
	}
	for id := range out {
		sortByDateDesc(out[id])
	}
	return out, nil
}

func sortByDateDesc(items []playerstats.MatchAppearance) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].MatchDate.Equal(items[j].MatchDate) {
			return items[i].MatchDate.After(items[j].MatchDate)
		}
		return items[i].Key() < items[j].Key()
	})
}

type WindowRepository struct {
	mu      sync.RWMutex
	windows map[string]playerstats.Window
}

func NewWindowRepository() *WindowRepository {
	return &WindowRepository{windows: make(map[string]playerstats.Window)}
}

func (r *WindowRepository) Replace(_ context.Context, windows []playerstats.Window) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range windows {
		r.windows[w.PlayerID+":"+string(w.Kind)] = w
	}
	return nil
}

func (r *WindowRepository) ListByPlayer(_ context.Context, playerID string) ([]playerstats.Window, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerstats.Window, 0, 2)
	for _, w := range r.windows {
		if w.PlayerID == playerID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out, nil
}
