package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/competition"
	"github.com/riskibarqy/diskichat-admin/internal/domain/team"
	"github.com/riskibarqy/diskichat-admin/internal/domain/user"
	basecache "github.com/riskibarqy/diskichat-admin/internal/platform/cache"
)

const (
	teamPrefix        = "team:"
	competitionPrefix = "competition:"
	userPrefix        = "user:"
)

// TeamRepository caches the team catalogue; syncs invalidate it.
type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, teamPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	key := teamPrefix + "id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return teamLookup{item: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	out, _ := v.(teamLookup)
	return out.item, out.exists, nil
}

func (r *TeamRepository) UpsertMany(ctx context.Context, items []team.Team) error {
	if err := r.next.UpsertMany(ctx, items); err != nil {
		return err
	}
	return r.cache.DeletePrefix(ctx, teamPrefix)
}

type teamLookup struct {
	item   team.Team
	exists bool
}

type CompetitionRepository struct {
	next  competition.Repository
	cache *basecache.Store
}

func NewCompetitionRepository(next competition.Repository, cache *basecache.Store) *CompetitionRepository {
	return &CompetitionRepository{next: next, cache: cache}
}

func (r *CompetitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	v, err := r.cache.GetOrLoad(ctx, competitionPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]competition.Competition(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]competition.Competition)
	return append([]competition.Competition(nil), items...), nil
}

func (r *CompetitionRepository) Upsert(ctx context.Context, c competition.Competition) error {
	if err := r.next.Upsert(ctx, c); err != nil {
		return err
	}
	return r.cache.DeletePrefix(ctx, competitionPrefix)
}

// UserRepository caches the leaderboard page the users screen reads. Status
// writes drop every cached page so moderation is visible immediately.
type UserRepository struct {
	next  user.Repository
	cache *basecache.Store
}

func NewUserRepository(next user.Repository, cache *basecache.Store) *UserRepository {
	return &UserRepository{next: next, cache: cache}
}

func (r *UserRepository) List(ctx context.Context, limit int) ([]user.User, error) {
	key := userPrefix + "list:" + strconv.Itoa(limit)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, limit)
		if err != nil {
			return nil, err
		}
		return append([]user.User(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]user.User)
	return append([]user.User(nil), items...), nil
}

// GetByID is not cached; the detail screen must show the current status.
func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, bool, error) {
	return r.next.GetByID(ctx, id)
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status user.ModerationStatus, at time.Time) error {
	if err := r.next.UpdateStatus(ctx, id, status, at); err != nil {
		return err
	}
	return r.cache.DeletePrefix(ctx, userPrefix)
}
