package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/banter"
)

type BanterRepository struct {
	mu       sync.RWMutex
	rooms    map[string]banter.Room
	presence map[string]map[string]banter.Presence
	watchers map[string]map[chan struct{}]struct{}
}

func NewBanterRepository() *BanterRepository {
	return &BanterRepository{
		rooms:    make(map[string]banter.Room),
		presence: make(map[string]map[string]banter.Presence),
		watchers: make(map[string]map[chan struct{}]struct{}),
	}
}

func (r *BanterRepository) Ensure(_ context.Context, matchID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[matchID]; ok {
		return false, nil
	}
	r.rooms[matchID] = banter.Room{MatchID: matchID, CreatedAt: at}
	return true, nil
}

func (r *BanterRepository) Exists(_ context.Context, matchID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[matchID]
	return ok, nil
}

// Touch records a heartbeat from a user in a room, the way the consumer app does.
func (r *BanterRepository) Touch(matchID string, p banter.Presence) {
	r.mu.Lock()
	users := r.presence[matchID]
	if users == nil {
		users = make(map[string]banter.Presence)
		r.presence[matchID] = users
	}
	users[p.UserID] = p
	for ch := range r.watchers[matchID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	r.mu.Unlock()
}

func (r *BanterRepository) ListActiveUsers(_ context.Context, matchID string, limit int) ([]banter.Presence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.activeUsersLocked(matchID, limit), nil
}

func (r *BanterRepository) WatchActiveUsers(ctx context.Context, matchID string, limit int, fn func([]banter.Presence) error) error {
	changed := make(chan struct{}, 1)
	r.mu.Lock()
	if r.watchers[matchID] == nil {
		r.watchers[matchID] = make(map[chan struct{}]struct{})
	}
	r.watchers[matchID][changed] = struct{}{}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.watchers[matchID], changed)
		r.mu.Unlock()
	}()

	for {
		r.mu.RLock()
		snapshot := r.activeUsersLocked(matchID, limit)
		r.mu.RUnlock()
		if err := fn(snapshot); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

func (r *BanterRepository) activeUsersLocked(matchID string, limit int) []banter.Presence {
	users := r.presence[matchID]
	out := make([]banter.Presence, 0, len(users))
	for _, p := range users {
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastActive.Equal(out[j].LastActive) {
			return out[i].LastActive.After(out[j].LastActive)
		}
		return out[i].UserID < out[j].UserID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
