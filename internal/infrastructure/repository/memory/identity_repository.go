package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/scout-core/internal/domain/identity"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

type IdentityLinkRepository struct {
	mu       sync.RWMutex
	byNative map[string]identity.Link
	byPlayer map[string]string
}

func NewIdentityLinkRepository() *IdentityLinkRepository {
	return &IdentityLinkRepository{
		byNative: make(map[string]identity.Link),
		byPlayer: make(map[string]string),
	}
}

func nativeKey(p provider.Provider, providerPlayerID string) string {
	return string(p) + ":" + providerPlayerID
}

func playerProviderKey(playerID string, p provider.Provider) string {
	return playerID + ":" + string(p)
}

func (r *IdentityLinkRepository) GetByProviderID(_ context.Context, p provider.Provider, providerPlayerID string) (identity.Link, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.byNative[nativeKey(p, providerPlayerID)]
	return link, ok, nil
}

func (r *IdentityLinkRepository) GetByPlayerAndProvider(_ context.Context, playerID string, p provider.Provider) (identity.Link, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.byPlayer[playerProviderKey(playerID, p)]
	if !ok {
		return identity.Link{}, false, nil
	}
	link, ok := r.byNative[key]
	return link, ok, nil
}

func (r *IdentityLinkRepository) ListByPlayer(_ context.Context, playerID string) ([]identity.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]identity.Link, 0)
	for _, link := range r.byNative {
		if link.PlayerID == playerID {
			out = append(out, link)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out, nil
}

func (r *IdentityLinkRepository) Create(_ context.Context, link identity.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := nativeKey(link.Provider, link.ProviderPlayerID)
	if _, ok := r.byNative[key]; ok {
		return fmt.Errorf("insert link %s: %w", key, identity.ErrLinkExists)
	}
	ppKey := playerProviderKey(link.PlayerID, link.Provider)
	if _, ok := r.byPlayer[ppKey]; ok {
		return fmt.Errorf("insert link %s: %w", key, identity.ErrLinkExists)
	}
	r.byNative[key] = link
	r.byPlayer[ppKey] = key
	return nil
}

func (r *IdentityLinkRepository) Touch(_ context.Context, p provider.Provider, providerPlayerID string, confidence float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := nativeKey(p, providerPlayerID)
	link, ok := r.byNative[key]
	if !ok {
		return nil
	}
	link.Confidence = confidence
	link.UpdatedAt = at
	r.byNative[key] = link
	return nil
}

func (r *IdentityLinkRepository) Reassign(_ context.Context, p provider.Provider, providerPlayerID, playerID string, confidence float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := nativeKey(p, providerPlayerID)
	link, ok := r.byNative[key]
	if !ok {
		return nil
	}
	if link.PlayerID == playerID {
		link.Confidence = confidence
		link.UpdatedAt = at
		r.byNative[key] = link
		return nil
	}
	target := playerProviderKey(playerID, p)
	if _, taken := r.byPlayer[target]; taken {
		return fmt.Errorf("reassign link %s to %s: %w", key, playerID, identity.ErrLinkExists)
	}

	delete(r.byPlayer, playerProviderKey(link.PlayerID, p))
	link.PlayerID = playerID
	link.Confidence = confidence
	link.UpdatedAt = at
	r.byNative[key] = link
	r.byPlayer[target] = key
	return nil
}

type ReviewRepository struct {
	mu      sync.RWMutex
	items   map[string]identity.ReviewItem
	pending map[string]string
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		items:   make(map[string]identity.ReviewItem),
		pending: make(map[string]string),
	}
}

func (r *ReviewRepository) UpsertPending(_ context.Context, item identity.ReviewItem) (identity.ReviewItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := nativeKey(item.Provider, item.ProviderPlayerID)
	if id, ok := r.pending[key]; ok {
		existing := r.items[id]
		existing.Record = item.Record
		existing.Reason = item.Reason
		existing.Candidates = append([]identity.ScoredCandidate(nil), item.Candidates...)
		existing.SuggestedNew = item.SuggestedNew
		if item.ProvisionalPlayerID != "" {
			existing.ProvisionalPlayerID = item.ProvisionalPlayerID
		}
		existing.UpdatedAt = item.UpdatedAt
		r.items[id] = existing
		return existing, nil
	}

	item.Status = identity.ReviewStatusPending
	item.Candidates = append([]identity.ScoredCandidate(nil), item.Candidates...)
	r.items[item.ID] = item
	r.pending[key] = item.ID
	return item, nil
}

func (r *ReviewRepository) GetByID(_ context.Context, id string) (identity.ReviewItem, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	return item, ok, nil
}

func (r *ReviewRepository) ListByStatus(_ context.Context, status identity.ReviewStatus, limit int) ([]identity.ReviewItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]identity.ReviewItem, 0)
	for _, item := range r.items {
		if item.Status == status {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ReviewRepository) MarkResolved(_ context.Context, id string, status identity.ReviewStatus, resolvedPlayerID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok || item.Status != identity.ReviewStatusPending {
		return nil
	}
	resolvedAt := at
	item.Status = status
	item.ResolvedPlayerID = resolvedPlayerID
	item.ResolvedAt = &resolvedAt
	item.UpdatedAt = at
	r.items[id] = item
	delete(r.pending, nativeKey(item.Provider, item.ProviderPlayerID))
	return nil
}
