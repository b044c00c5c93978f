package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/config"
)

func memoryLoader() (config.Config, error) {
	return config.Config{
		AppEnv:          config.EnvDev,
		ServiceName:     "adminctl-test",
		StoreDriver:     config.StoreMemory,
		AuthDisabled:    true,
		JobLiveInterval: time.Minute,
		MatchLocation:   time.UTC,
	}, nil
}

func TestReconcileLive_MemoryStore(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := newRootCmd(memoryLoader, &out)
	cmd.SetArgs([]string{"reconcile-live", "--log-level", "error"})

	if err := cmd.ExecuteContext(t.Context()); err != nil {
		t.Fatalf("reconcile-live: %v", err)
	}
	if !strings.Contains(out.String(), `"upserted"`) {
		t.Fatalf("expected reconcile result json, got=%s", out.String())
	}
}

func TestProviderCommands_RequireAPIFootball(t *testing.T) {
	t.Parallel()

	cases := [][]string{
		{"import-fixture", "--id", "1035012"},
		{"seed-teams", "--competition", "274"},
		{"sync-competitions", "--ids", "39,140"},
		{"seed-live", "--competition", "274", "--force-live"},
	}
	for _, args := range cases {
		cmd := newRootCmd(memoryLoader, &bytes.Buffer{})
		cmd.SetArgs(append(args, "--log-level", "error"))
		err := cmd.ExecuteContext(t.Context())
		if !errors.Is(err, errProviderDisabled) {
			t.Fatalf("%s: expected provider disabled error, got=%v", args[0], err)
		}
	}
}

func TestImportFixture_RequiresID(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd(memoryLoader, &bytes.Buffer{})
	cmd.SetArgs([]string{"import-fixture"})
	if err := cmd.ExecuteContext(t.Context()); err == nil {
		t.Fatalf("expected missing --id to fail")
	}
}

func TestConfigErrorIsReturned(t *testing.T) {
	t.Parallel()

	boom := errors.New("APP_ENV must be one of dev|stage|prod")
	cmd := newRootCmd(func() (config.Config, error) { return config.Config{}, boom }, &bytes.Buffer{})
	cmd.SetArgs([]string{"reconcile-live"})
	if err := cmd.ExecuteContext(t.Context()); !errors.Is(err, boom) {
		t.Fatalf("expected config error, got=%v", err)
	}
}
