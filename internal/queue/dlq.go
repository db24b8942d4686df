package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"subedit/pkg/models"
)

const (
	DeadLetterQueueName    = "export_jobs_dlq"
	DeadLetterExchangeName = "subedit_dlq"
	RetryQueueName         = "export_jobs_retry"
	MaxRetries             = 5
)

// SetupDeadLetterQueue sets up the dead letter queue infrastructure
func (q *Queue) SetupDeadLetterQueue() error {
	err := q.channel.ExchangeDeclare(
		DeadLetterExchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare DLQ exchange: %w", err)
	}

	_, err = q.channel.QueueDeclare(
		DeadLetterQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	err = q.channel.QueueBind(
		DeadLetterQueueName,
		DeadLetterQueueName,
		DeadLetterExchangeName,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to bind DLQ: %w", err)
	}

	// Retry queue dead-letters back into the main exchange after its TTL
	retryArgs := amqp.Table{
		"x-dead-letter-exchange":    ExchangeName,
		"x-dead-letter-routing-key": ExportQueueName,
		"x-message-ttl":             60000,
	}

	_, err = q.channel.QueueDeclare(
		RetryQueueName,
		true,
		false,
		false,
		false,
		retryArgs,
	)
	if err != nil {
		return fmt.Errorf("failed to declare retry queue: %w", err)
	}

	log.Info().Msg("Dead letter queue infrastructure set up")
	return nil
}

// PublishJobWithRetry publishes a job with retry support
func (q *Queue) PublishJobWithRetry(ctx context.Context, job *models.Job, retryCount int) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	priority := uint8(job.Priority)
	if priority > 10 {
		priority = 10
	}

	headers := amqp.Table{
		"x-retry-count": retryCount,
	}

	err = q.channel.PublishWithContext(ctx,
		ExchangeName,
		ExportQueueName,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
			Priority:     priority,
			Headers:      headers,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}

	return nil
}

// PublishToRetryQueue publishes a job to the retry queue
func (q *Queue) PublishToRetryQueue(ctx context.Context, job *models.Job, retryCount int) error {
	if retryCount >= MaxRetries {
		return q.PublishToDeadLetterQueue(ctx, job, "max retries exceeded")
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	headers := amqp.Table{
		"x-retry-count": retryCount + 1,
	}

	delay := calculateBackoffDelay(retryCount)

	err = q.channel.PublishWithContext(ctx,
		"",
		RetryQueueName,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
			Headers:      headers,
			Expiration:   fmt.Sprintf("%d", delay.Milliseconds()),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to retry queue: %w", err)
	}

	log.Info().Str("job_id", job.ID).Int("retry", retryCount+1).Dur("delay", delay).
		Msg("Job queued for retry")
	return nil
}

// PublishToDeadLetterQueue publishes a failed job to the dead letter queue
func (q *Queue) PublishToDeadLetterQueue(ctx context.Context, job *models.Job, reason string) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	headers := amqp.Table{
		"x-failure-reason": reason,
		"x-failed-at":      time.Now().Format(time.RFC3339),
	}

	err = q.channel.PublishWithContext(ctx,
		DeadLetterExchangeName,
		DeadLetterQueueName,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
			Headers:      headers,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to DLQ: %w", err)
	}

	log.Warn().Str("job_id", job.ID).Str("reason", reason).
		Msg("Job moved to dead letter queue")
	return nil
}

// ConsumeDLQ consumes messages from the dead letter queue for manual processing
func (q *Queue) ConsumeDLQ(ctx context.Context, handler func(*models.Job, string) error) error {
	msgs, err := q.channel.Consume(
		DeadLetterQueueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register DLQ consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var job models.Job
				if err := json.Unmarshal(msg.Body, &job); err != nil {
					msg.Nack(false, false)
					continue
				}

				reason := ""
				if val, ok := msg.Headers["x-failure-reason"].(string); ok {
					reason = val
				}

				if err := handler(&job, reason); err != nil {
					msg.Nack(false, true)
				} else {
					msg.Ack(false)
				}
			}
		}
	}()

	return nil
}

// RetryFromDLQ retries a job from the dead letter queue
func (q *Queue) RetryFromDLQ(ctx context.Context, job *models.Job) error {
	return q.PublishJobWithRetry(ctx, job, 0)
}

// calculateBackoffDelay calculates exponential backoff delay
func calculateBackoffDelay(retryCount int) time.Duration {
	// 1min, 2min, 4min, 8min, 16min, capped at an hour
	baseDelay := 1 * time.Minute
	delay := baseDelay * (1 << retryCount)

	if delay > 1*time.Hour {
		delay = 1 * time.Hour
	}

	return delay
}

// GetDLQDepth returns the number of messages in the dead letter queue
func (q *Queue) GetDLQDepth() (int, error) {
	info, err := q.channel.QueueInspect(DeadLetterQueueName)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect DLQ: %w", err)
	}

	return info.Messages, nil
}
