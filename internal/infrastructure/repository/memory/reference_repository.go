package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/scout-core/internal/domain/competition"
	"github.com/riskibarqy/scout-core/internal/domain/team"
)

type CompetitionRepository struct {
	mu           sync.RWMutex
	competitions map[string]competition.Competition
}

func NewCompetitionRepository(items []competition.Competition) *CompetitionRepository {
	r := &CompetitionRepository{competitions: make(map[string]competition.Competition, len(items))}
	for _, item := range items {
		r.competitions[item.ID] = item
	}
	return r
}

func (r *CompetitionRepository) List(_ context.Context) ([]competition.Competition, error) {
	return r.filter(func(competition.Competition) bool { return true }), nil
}

func (r *CompetitionRepository) ListByCountry(_ context.Context, countryCode string) ([]competition.Competition, error) {
	code := strings.TrimSpace(countryCode)
	return r.filter(func(c competition.Competition) bool {
		return strings.EqualFold(c.CountryCode, code)
	}), nil
}

func (r *CompetitionRepository) GetByID(_ context.Context, competitionID string) (competition.Competition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.competitions[competitionID]
	return item, ok, nil
}

func (r *CompetitionRepository) Upsert(_ context.Context, c competition.Competition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.CountryCode = strings.ToUpper(strings.TrimSpace(c.CountryCode))
	r.competitions[c.ID] = c
	return nil
}

func (r *CompetitionRepository) filter(keep func(competition.Competition) bool) []competition.Competition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]competition.Competition, 0, len(r.competitions))
	for _, item := range r.competitions {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[string]team.Team
}

func NewTeamRepository(items []team.Team) *TeamRepository {
	r := &TeamRepository{teams: make(map[string]team.Team, len(items))}
	for _, item := range items {
		r.teams[item.ID] = item
	}
	return r
}

func (r *TeamRepository) ListByCompetition(_ context.Context, competitionID string) ([]team.Team, error) {
	return r.filter(func(t team.Team) bool { return t.CompetitionID == competitionID }), nil
}

func (r *TeamRepository) ListByNormalizedName(_ context.Context, normalizedName string) ([]team.Team, error) {
	return r.filter(func(t team.Team) bool { return t.NormalizedName == normalizedName }), nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[teamID]
	return item, ok, nil
}

func (r *TeamRepository) Upsert(_ context.Context, t team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.teams[t.ID] = t
	return nil
}

func (r *TeamRepository) filter(keep func(team.Team) bool) []team.Team {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, item := range r.teams {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
