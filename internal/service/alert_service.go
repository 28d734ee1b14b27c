package service

import (
	"context"
	"fmt"

	"course-qa-be/internal/pkg/logger"
	"course-qa-be/pkg/events"
)

// EventSubscriber is the inbound side of the domain event bus.
type EventSubscriber interface {
	Subscribe(eventType string, durableName string, handler func(ctx context.Context, event events.Event) error) error
}

// AlertService turns COVERAGE_LOW events into ALERT log entries, which the
// ops log endpoint exposes to QA staff.
type AlertService struct {
	subscriber EventSubscriber
	logger     logger.ILogger
}

func NewAlertService(sub EventSubscriber, log logger.ILogger) *AlertService {
	return &AlertService{subscriber: sub, logger: log}
}

func (s *AlertService) Start() error {
	if err := s.subscriber.Subscribe(events.TypeCoverageLow, "coverage-alert-worker", s.HandleEvent); err != nil {
		s.logger.Error("ALERT", "Failed to start coverage alert subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("ALERT", "Coverage alert subscriber started", nil)
	return nil
}

func (s *AlertService) HandleEvent(ctx context.Context, event events.Event) error {
	if event.EventType() != events.TypeCoverageLow {
		return nil
	}
	p := event.Payload()
	s.logger.Warn("ALERT", fmt.Sprintf("Coverage below target for %v week %v", p["course_code"], p["week_no"]), map[string]interface{}{
		"course_id":        p["course_id"],
		"course_code":      p["course_code"],
		"week_no":          p["week_no"],
		"coverage_percent": p["coverage_percent"],
		"upload_id":        p["upload_id"],
		"occurred_at":      event.Timestamp(),
	})
	return nil
}
