package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
)

const (
	MaxPushTitleLen = 100
	MaxPushBodyLen  = 500
)

type NotificationService struct {
	sender  PushSender
	metrics MetricsRecorder
	logger  *logging.Logger
}

func NewNotificationService(sender PushSender, metrics MetricsRecorder, logger *logging.Logger) *NotificationService {
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &NotificationService{sender: sender, metrics: metrics, logger: logger}
}

// Broadcast pushes one message to every subscribed device.
func (s *NotificationService) Broadcast(ctx context.Context, title, body string) (PushResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.Broadcast")
	defer span.End()

	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	switch {
	case title == "" || body == "":
		return PushResult{}, fmt.Errorf("%w: title and body are required", ErrInvalidInput)
	case utf8.RuneCountInString(title) > MaxPushTitleLen:
		return PushResult{}, fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, MaxPushTitleLen)
	case utf8.RuneCountInString(body) > MaxPushBodyLen:
		return PushResult{}, fmt.Errorf("%w: body must be at most %d characters", ErrInvalidInput, MaxPushBodyLen)
	}
	if s.sender == nil {
		return PushResult{}, fmt.Errorf("%w: push notifications are not configured", ErrDependencyUnavailable)
	}

	result, err := s.sender.Broadcast(ctx, PushMessage{Title: title, Body: body})
	if err != nil {
		s.metrics.RecordBroadcast(ctx, "error")
		return PushResult{}, fmt.Errorf("broadcast notification: %w", err)
	}
	s.metrics.RecordBroadcast(ctx, "ok")
	s.logger.InfoContext(ctx, "notification broadcast", "notification_id", result.NotificationID, "recipients", result.Recipients)
	return result, nil
}
