package cache

import (
	"testing"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/team"
	"github.com/riskibarqy/diskichat-admin/internal/domain/user"
	"github.com/riskibarqy/diskichat-admin/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/diskichat-admin/internal/platform/cache"
)

func TestTeamRepository_InvalidatesOnUpsert(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	repo := NewTeamRepository(memory.NewTeamRepository(nil), basecache.NewStore(time.Minute))

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty catalogue, got=%d", len(items))
	}
	if _, exists, _ := repo.GetByID(ctx, 2450); exists {
		t.Fatalf("expected missing team")
	}

	if err := repo.UpsertMany(ctx, []team.Team{{ID: 2450, Name: "Persija Jakarta"}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	items, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("list after upsert: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected cache to be invalidated, got=%d items", len(items))
	}
	if _, exists, _ := repo.GetByID(ctx, 2450); !exists {
		t.Fatalf("expected cached miss to be invalidated")
	}
}

func TestUserRepository_StatusWriteDropsPages(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	repo := NewUserRepository(memory.NewUserRepository(memory.SeedUsers()), basecache.NewStore(time.Minute))

	if _, err := repo.List(ctx, 100); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := repo.UpdateStatus(ctx, "u-rizky", user.StatusBanned, time.Now()); err != nil {
		t.Fatalf("update status: %v", err)
	}

	items, err := repo.List(ctx, 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, item := range items {
		if item.ID == "u-rizky" && item.Status != user.StatusBanned {
			t.Fatalf("expected fresh status, got=%s", item.Status)
		}
	}
}
