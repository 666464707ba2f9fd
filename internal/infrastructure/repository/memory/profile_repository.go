package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/profile"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

type SnapshotRepository struct {
	mu        sync.RWMutex
	snapshots map[string]profile.Snapshot
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{snapshots: make(map[string]profile.Snapshot)}
}

func (r *SnapshotRepository) Upsert(_ context.Context, snapshot profile.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot.Raw = append([]byte(nil), snapshot.Raw...)
	r.snapshots[playerProviderKey(snapshot.PlayerID, snapshot.Provider)] = snapshot
	return nil
}

func (r *SnapshotRepository) Get(_ context.Context, playerID string, p provider.Provider) (profile.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, ok := r.snapshots[playerProviderKey(playerID, p)]
	return snapshot, ok, nil
}

func (r *SnapshotRepository) ListByPlayer(_ context.Context, playerID string) ([]profile.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]profile.Snapshot, 0)
	for _, snapshot := range r.snapshots {
		if snapshot.PlayerID == playerID {
			out = append(out, snapshot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out, nil
}

type ConflictRepository struct {
	mu        sync.RWMutex
	conflicts map[string]profile.FieldConflict
}

func NewConflictRepository() *ConflictRepository {
	return &ConflictRepository{conflicts: make(map[string]profile.FieldConflict)}
}

func conflictKey(playerID string, field player.Field, p provider.Provider) string {
	return playerID + ":" + string(field) + ":" + string(p)
}

func (r *ConflictRepository) Upsert(_ context.Context, conflict profile.FieldConflict) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conflicts[conflictKey(conflict.PlayerID, conflict.Field, conflict.Provider)] = conflict
	return nil
}

func (r *ConflictRepository) Get(_ context.Context, playerID string, field player.Field, p provider.Provider) (profile.FieldConflict, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conflict, ok := r.conflicts[conflictKey(playerID, field, p)]
	return conflict, ok, nil
}

func (r *ConflictRepository) List(_ context.Context, playerID string, status profile.ConflictStatus) ([]profile.FieldConflict, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]profile.FieldConflict, 0)
	for _, conflict := range r.conflicts {
		if conflict.PlayerID != playerID {
			continue
		}
		if status != "" && conflict.Status != status {
			continue
		}
		out = append(out, conflict)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DetectedAt.Equal(out[j].DetectedAt) {
			return out[i].DetectedAt.After(out[j].DetectedAt)
		}
		if out[i].Field != out[j].Field {
			return out[i].Field < out[j].Field
		}
		return out[i].Provider < out[j].Provider
	})
	return out, nil
}

func (r *ConflictRepository) Close(_ context.Context, playerID string, field player.Field, p provider.Provider, status profile.ConflictStatus, resolution string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := conflictKey(playerID, field, p)
	conflict, ok := r.conflicts[key]
	if !ok || conflict.Status != profile.ConflictStatusOpen {
		return nil
	}
	resolvedAt := at
	conflict.Status = status
	conflict.Resolution = resolution
	conflict.ResolvedAt = &resolvedAt
	r.conflicts[key] = conflict
	return nil
}
