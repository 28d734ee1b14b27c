package service

import (
	"context"
	"encoding/json"
	"log"

	"course-qa-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService runs the deviation sweep queued after each scored upload.
type consumerService struct {
	subscriber       message.Subscriber
	topicName        string
	executionService IExecutionService
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	executionService IExecutionService,
) IConsumerService {
	return &consumerService{
		subscriber:       subscriber,
		topicName:        topicName,
		executionService: executionService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishDeviationSweepMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal deviation sweep message: %v", err)
		msg.Ack() // retrying a bad payload cannot succeed
		return
	}

	res, err := cs.executionService.RefreshDeviationsForCourse(ctx, payload.CourseId)
	if err != nil {
		// gochannel redelivers a Nack immediately; the next upload or a
		// manual refresh recomputes the sweep instead
		log.Printf("[ERROR] Deviation sweep failed for course %s: %v", payload.CourseId, err)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Deviation sweep for course %s (week %d): %d missing, %d late",
		payload.CourseId, payload.WeekNo, res.MissingContent, res.LateDelivery)
	msg.Ack()
}
