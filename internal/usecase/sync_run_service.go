package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/diskichat-admin/internal/domain/ledger"
)

type SyncRunService struct {
	runs ledger.SyncRunRepository
}

func NewSyncRunService(runs ledger.SyncRunRepository) *SyncRunService {
	return &SyncRunService{runs: runs}
}

func (s *SyncRunService) Get(ctx context.Context, runID string) (ledger.SyncRun, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncRunService.Get")
	defer span.End()

	runID = strings.TrimSpace(runID)
	if runID == "" {
		return ledger.SyncRun{}, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}
	run, exists, err := s.runs.GetByID(ctx, runID)
	if err != nil {
		return ledger.SyncRun{}, fmt.Errorf("get sync run id=%s: %w", runID, err)
	}
	if !exists {
		return ledger.SyncRun{}, fmt.Errorf("%w: sync run id=%s", ErrNotFound, runID)
	}
	return run, nil
}
