package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/riskibarqy/diskichat-admin/internal/domain/ledger"
	"github.com/riskibarqy/diskichat-admin/internal/domain/user"
	idgen "github.com/riskibarqy/diskichat-admin/internal/platform/id"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
)

const (
	UserListLimit          = 100
	moderationHistoryLimit = 50
	maxModerationReasonLen = 500
)

type SetUserStatusInput struct {
	Actor  string
	UserID string
	Status string
	Reason string
}

// UserService implements moderation. Every transition is allowed, including
// banned back to active; the stored status is the source of truth and the
// ledger keeps the trail.
type UserService struct {
	users      user.Repository
	moderation ledger.ModerationRepository
	ids        idgen.Generator
	metrics    MetricsRecorder
	logger     *logging.Logger
	now        func() time.Time
}

func NewUserService(
	users user.Repository,
	moderation ledger.ModerationRepository,
	ids idgen.Generator,
	metrics MetricsRecorder,
	logger *logging.Logger,
) *UserService {
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &UserService{
		users:      users,
		moderation: moderation,
		ids:        ids,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// List returns the top users by points, filtered by query when given.
func (s *UserService) List(ctx context.Context, query string) ([]user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.List")
	defer span.End()

	items, err := s.users.List(ctx, UserListLimit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if strings.TrimSpace(query) == "" {
		return items, nil
	}

	out := make([]user.User, 0, len(items))
	for _, item := range items {
		if item.Matches(query) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Get")
	defer span.End()

	return s.get(ctx, id)
}

func (s *UserService) SetStatus(ctx context.Context, input SetUserStatusInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.SetStatus")
	defer span.End()

	status, err := user.ParseModerationStatus(input.Status)
	if err != nil {
		return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	reason := strings.TrimSpace(input.Reason)
	if utf8.RuneCountInString(reason) > maxModerationReasonLen {
		return user.User{}, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, maxModerationReasonLen)
	}

	current, err := s.get(ctx, input.UserID)
	if err != nil {
		return user.User{}, err
	}

	now := s.now().UTC()
	if err := s.users.UpdateStatus(ctx, current.ID, status, now); err != nil {
		return user.User{}, fmt.Errorf("update user status id=%s: %w", current.ID, err)
	}
	s.metrics.RecordModeration(ctx, string(current.Status), string(status))
	s.appendModerationEvent(ctx, ledger.ModerationEvent{
		UserID:     current.ID,
		Actor:      strings.TrimSpace(input.Actor),
		FromStatus: string(current.Status),
		ToStatus:   string(status),
		Reason:     reason,
		OccurredAt: now,
	})

	s.logger.InfoContext(ctx, "user status changed",
		"user_id", current.ID,
		"from", current.Status,
		"to", status,
		"actor", input.Actor,
	)

	current.Status = status
	return current, nil
}

func (s *UserService) History(ctx context.Context, id string) ([]ledger.ModerationEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.History")
	defer span.End()

	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.moderation == nil {
		return []ledger.ModerationEvent{}, nil
	}
	items, err := s.moderation.ListByUser(ctx, current.ID, moderationHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list moderation history user=%s: %w", current.ID, err)
	}
	return items, nil
}

func (s *UserService) get(ctx context.Context, id string) (user.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	item, exists, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.User{}, fmt.Errorf("get user id=%s: %w", id, err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user id=%s", ErrNotFound, id)
	}
	return item, nil
}

func (s *UserService) appendModerationEvent(ctx context.Context, event ledger.ModerationEvent) {
	if s.moderation == nil || s.ids == nil {
		return
	}
	eventID, err := s.ids.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate moderation event id failed", "user_id", event.UserID, "error", err)
		return
	}
	event.ID = eventID
	if err := s.moderation.Append(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record moderation event failed", "user_id", event.UserID, "error", err)
	}
}
