package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[string]match.Match
}

func NewMatchRepository(seed []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(seed))
	for _, item := range seed {
		items[item.ID] = item
	}
	return &MatchRepository{matches: items}
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.matches))
	for _, item := range r.matches {
		out = append(out, item)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MatchRepository) ListByStatus(_ context.Context, status match.Lifecycle) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.matches {
		if item.Status == status {
			out = append(out, item)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.matches[strings.TrimSpace(id)]
	return item, ok, nil
}

func (r *MatchRepository) ExistingIDs(_ context.Context, ids []string) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := r.matches[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (r *MatchRepository) Upsert(_ context.Context, m match.Match) (bool, error) {
	if strings.TrimSpace(m.ID) == "" {
		return false, fmt.Errorf("match id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.matches[m.ID]
	if ok {
		m.CreatedAt = existing.CreatedAt
		m.IsMatchOfTheDay = existing.IsMatchOfTheDay
	}
	r.matches[m.ID] = m
	return !ok, nil
}

func (r *MatchRepository) SetMatchOfTheDay(_ context.Context, id string, flag bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.matches[id]
	if !ok {
		return fmt.Errorf("match %s not found", id)
	}
	item.IsMatchOfTheDay = flag
	item.UpdatedAt = at
	r.matches[id] = item
	return nil
}

func (r *MatchRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.matches, id)
	return nil
}

func sortNewestFirst(items []match.Match) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

// LiveMatchRepository mirrors the live_matches collection.
type LiveMatchRepository struct {
	mu      sync.RWMutex
	matches map[string]match.Match
}

func NewLiveMatchRepository() *LiveMatchRepository {
	return &LiveMatchRepository{matches: make(map[string]match.Match)}
}

func (r *LiveMatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.matches))
	for _, item := range r.matches {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].MatchDate.Equal(out[j].MatchDate) {
			return out[i].MatchDate.Before(out[j].MatchDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *LiveMatchRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.matches[id]
	return ok, nil
}

func (r *LiveMatchRepository) Upsert(_ context.Context, m match.Match) error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("live match id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Replaced wholesale, like the Firestore projection.
	r.matches[m.ID] = m
	return nil
}

func (r *LiveMatchRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.matches, id)
	return nil
}
