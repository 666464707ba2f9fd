package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	order   []string
	players map[string]player.CanonicalPlayer
}

func NewPlayerRepository(players []player.CanonicalPlayer) *PlayerRepository {
	r := &PlayerRepository{players: make(map[string]player.CanonicalPlayer, len(players))}
	for _, p := range players {
		if _, ok := r.players[p.ID]; !ok {
			r.order = append(r.order, p.ID)
		}
		r.players[p.ID] = p.Clone()
	}
	return r
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.CanonicalPlayer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[playerID]
	if !ok {
		return player.CanonicalPlayer{}, false, nil
	}
	return p.Clone(), true, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.CanonicalPlayer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.CanonicalPlayer, 0, len(playerIDs))
	for _, id := range playerIDs {
		p, ok := r.players[id]
		if !ok {
			continue
		}
		out = append(out, p.Clone())
	}
	return out, nil
}

func (r *PlayerRepository) ListByNormalizedName(_ context.Context, normalizedName string) ([]player.CanonicalPlayer, error) {
	return r.filter(func(p player.CanonicalPlayer) bool { return p.NormalizedName == normalizedName }), nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID string) ([]player.CanonicalPlayer, error) {
	return r.filter(func(p player.CanonicalPlayer) bool { return p.TeamID == teamID }), nil
}

func (r *PlayerRepository) ListByCompetition(_ context.Context, competitionID string) ([]player.CanonicalPlayer, error) {
	return r.filter(func(p player.CanonicalPlayer) bool { return p.CompetitionID == competitionID }), nil
}

func (r *PlayerRepository) ListAll(_ context.Context) ([]player.CanonicalPlayer, error) {
	return r.filter(func(player.CanonicalPlayer) bool { return true }), nil
}

func (r *PlayerRepository) Insert(_ context.Context, p player.CanonicalPlayer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[p.ID]; ok {
		return fmt.Errorf("insert player id=%s: already exists", p.ID)
	}
	r.order = append(r.order, p.ID)
	r.players[p.ID] = p.Clone()
	return nil
}

func (r *PlayerRepository) Update(_ context.Context, p player.CanonicalPlayer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.players[p.ID]
	if !ok {
		return fmt.Errorf("update player id=%s: no rows affected", p.ID)
	}
	next := p.Clone()
	next.CreatedAt = existing.CreatedAt
	r.players[p.ID] = next
	return nil
}

func (r *PlayerRepository) SoftDelete(_ context.Context, playerID string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[playerID]; !ok {
		return nil
	}
	delete(r.players, playerID)
	for i, id := range r.order {
		if id == playerID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *PlayerRepository) filter(keep func(player.CanonicalPlayer) bool) []player.CanonicalPlayer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.CanonicalPlayer, 0)
	for _, id := range r.order {
		p := r.players[id]
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}
