package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"course-qa-be/internal/dto"
	"course-qa-be/internal/entity"
	"course-qa-be/internal/pkg/logger"
	"course-qa-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSubscriber struct {
	eventType string
	durable   string
	handler   func(ctx context.Context, event events.Event) error
}

func (s *captureSubscriber) Subscribe(eventType, durable string, handler func(ctx context.Context, event events.Event) error) error {
	s.eventType, s.durable, s.handler = eventType, durable, handler
	return nil
}

func TestAlertService_LogsCoverageLow(t *testing.T) {
	sub := &captureSubscriber{}
	svc := NewAlertService(sub, logger.NewNopLogger())
	require.NoError(t, svc.Start())
	assert.Equal(t, events.TypeCoverageLow, sub.eventType)
	assert.Equal(t, "coverage-alert-worker", sub.durable)

	ev := events.NewCoverageLow(events.CoverageScore{CourseCode: "CS201", WeekNo: 3, CoveragePercent: 41.5}, fixedNow)
	assert.NoError(t, sub.handler(context.Background(), ev))

	other := events.NewWeeklyUploadScored(events.CoverageScore{CourseCode: "CS201"}, fixedNow)
	assert.NoError(t, sub.handler(context.Background(), other))
}

func TestConsumerService_RunsDeviationSweep(t *testing.T) {
	f := newTestFactory(t)
	course := createCourse(t, f, "WK101", "")
	createPlan(t, f, &entity.WeeklyPlan{CourseId: course.Id, WeekNumber: 1, PlannedTopics: "a", PlannedEndDate: at(-time.Hour)})

	exec := NewExecutionService(f, logger.NewNopLogger()).(*executionService)
	exec.now = func() time.Time { return fixedNow }

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, NewConsumerService(pubSub, "SWEEP", exec).Consume(ctx))

	payload, err := json.Marshal(dto.PublishDeviationSweepMessage{CourseId: course.Id, WeekNo: 1})
	require.NoError(t, err)
	require.NoError(t, NewPublisherService(pubSub, "SWEEP").Publish(ctx, payload))

	// a bad payload is dropped without blocking the next one
	require.NoError(t, NewPublisherService(pubSub, "SWEEP").Publish(ctx, []byte("{")))
	unknown, _ := json.Marshal(dto.PublishDeviationSweepMessage{CourseId: uuid.New(), WeekNo: 1})
	require.NoError(t, NewPublisherService(pubSub, "SWEEP").Publish(ctx, unknown))

	assert.Eventually(t, func() bool {
		devs, err := exec.ListDeviations(ctx, "WK101", false)
		return err == nil && len(devs) == 1 && devs[0].Type == string(entity.DeviationTypeMissingContent)
	}, 5*time.Second, 20*time.Millisecond)
}
