package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/diskichat-admin/internal/domain/competition"
)

type CompetitionRepository struct {
	mu    sync.RWMutex
	items map[int64]competition.Competition
}

func NewCompetitionRepository(seed []competition.Competition) *CompetitionRepository {
	items := make(map[int64]competition.Competition, len(seed))
	for _, item := range seed {
		items[item.ID] = item
	}
	return &CompetitionRepository{items: items}
}

func (r *CompetitionRepository) List(_ context.Context) ([]competition.Competition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]competition.Competition, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		left, right := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if left != right {
			return left < right
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CompetitionRepository) Upsert(_ context.Context, c competition.Competition) error {
	if c.ID <= 0 {
		return fmt.Errorf("competition id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[c.ID] = c
	return nil
}
