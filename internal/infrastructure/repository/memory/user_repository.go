package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]user.User
}

func NewUserRepository(seed []user.User) *UserRepository {
	users := make(map[string]user.User, len(seed))
	for _, item := range seed {
		item.Status = user.NormalizeStoredStatus(string(item.Status))
		users[item.ID] = item
	}
	return &UserRepository{users: users}
}

func (r *UserRepository) List(_ context.Context, limit int) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(r.users))
	for _, item := range r.users {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.users[id]
	return item, ok, nil
}

func (r *UserRepository) UpdateStatus(_ context.Context, id string, status user.ModerationStatus, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id)
	}
	item.Status = status
	r.users[id] = item
	return nil
}
