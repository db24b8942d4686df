package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"subedit/pkg/models"
)

// CreateWebhook creates a new webhook subscription
func (r *Repository) CreateWebhook(ctx context.Context, webhook *models.Webhook) error {
	if webhook.ID == "" {
		webhook.ID = uuid.New().String()
	}

	query := `
		INSERT INTO webhooks (id, url, events, secret, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		webhook.ID, webhook.URL, webhook.Events, webhook.Secret, webhook.IsActive,
	).Scan(&webhook.CreatedAt, &webhook.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create webhook: %w", err)
	}

	return nil
}

// GetWebhooksByEvent retrieves active webhooks subscribed to a specific event
func (r *Repository) GetWebhooksByEvent(ctx context.Context, event string) ([]*models.Webhook, error) {
	eventField := ""
	switch event {
	case models.WebhookEventExportStarted:
		eventField = "export_started"
	case models.WebhookEventExportCompleted:
		eventField = "export_completed"
	case models.WebhookEventExportFailed:
		eventField = "export_failed"
	case models.WebhookEventVideoUploaded:
		eventField = "video_uploaded"
	default:
		return nil, fmt.Errorf("unknown event: %s", event)
	}

	query := fmt.Sprintf(`
		SELECT id, url, events, secret, is_active, created_at, updated_at
		FROM webhooks
		WHERE is_active = true
		AND (events->>'%s')::boolean = true
	`, eventField)

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get webhooks: %w", err)
	}
	defer rows.Close()

	var webhooks []*models.Webhook
	for rows.Next() {
		var webhook models.Webhook
		err := rows.Scan(
			&webhook.ID, &webhook.URL, &webhook.Events, &webhook.Secret,
			&webhook.IsActive, &webhook.CreatedAt, &webhook.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan webhook: %w", err)
		}
		webhooks = append(webhooks, &webhook)
	}

	return webhooks, nil
}

// ListWebhooks retrieves all webhook subscriptions
func (r *Repository) ListWebhooks(ctx context.Context) ([]*models.Webhook, error) {
	query := `
		SELECT id, url, events, secret, is_active, created_at, updated_at
		FROM webhooks
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	defer rows.Close()

	var webhooks []*models.Webhook
	for rows.Next() {
		var webhook models.Webhook
		err := rows.Scan(
			&webhook.ID, &webhook.URL, &webhook.Events, &webhook.Secret,
			&webhook.IsActive, &webhook.CreatedAt, &webhook.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan webhook: %w", err)
		}
		webhooks = append(webhooks, &webhook)
	}

	return webhooks, nil
}

// DeleteWebhook removes a webhook subscription
func (r *Repository) DeleteWebhook(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM webhooks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("webhook not found")
	}
	return nil
}

// CreateDelivery creates a new webhook delivery record
func (r *Repository) CreateDelivery(ctx context.Context, delivery *models.WebhookDelivery) error {
	if delivery.ID == "" {
		delivery.ID = uuid.New().String()
	}

	query := `
		INSERT INTO webhook_deliveries (id, webhook_id, event, payload, status,
		                                status_code, response_body, retry_count,
		                                next_retry_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		delivery.ID, delivery.WebhookID, delivery.Event, delivery.Payload,
		delivery.Status, delivery.StatusCode, delivery.ResponseBody,
		delivery.RetryCount, delivery.NextRetryAt, delivery.CompletedAt,
	).Scan(&delivery.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create delivery: %w", err)
	}

	return nil
}

// UpdateDelivery updates a webhook delivery record
func (r *Repository) UpdateDelivery(ctx context.Context, delivery *models.WebhookDelivery) error {
	query := `
		UPDATE webhook_deliveries
		SET status = $2, status_code = $3, response_body = $4,
		    retry_count = $5, next_retry_at = $6, completed_at = $7
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query,
		delivery.ID, delivery.Status, delivery.StatusCode, delivery.ResponseBody,
		delivery.RetryCount, delivery.NextRetryAt, delivery.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update delivery: %w", err)
	}

	return nil
}

// GetPendingDeliveries retrieves pending webhook deliveries ready for retry
func (r *Repository) GetPendingDeliveries(ctx context.Context, limit int) ([]*models.WebhookDelivery, error) {
	query := `
		SELECT id, webhook_id, event, payload, status, status_code, response_body,
		       retry_count, next_retry_at, created_at, completed_at
		FROM webhook_deliveries
		WHERE status = $1
		AND (next_retry_at IS NULL OR next_retry_at <= CURRENT_TIMESTAMP)
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, models.WebhookDeliveryStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []*models.WebhookDelivery
	for rows.Next() {
		var delivery models.WebhookDelivery
		err := rows.Scan(
			&delivery.ID, &delivery.WebhookID, &delivery.Event, &delivery.Payload,
			&delivery.Status, &delivery.StatusCode, &delivery.ResponseBody,
			&delivery.RetryCount, &delivery.NextRetryAt, &delivery.CreatedAt,
			&delivery.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		deliveries = append(deliveries, &delivery)
	}

	return deliveries, nil
}

// GetWebhook retrieves a webhook by ID
func (r *Repository) GetWebhook(ctx context.Context, id string) (*models.Webhook, error) {
	var webhook models.Webhook

	query := `
		SELECT id, url, events, secret, is_active, created_at, updated_at
		FROM webhooks
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&webhook.ID, &webhook.URL, &webhook.Events, &webhook.Secret,
		&webhook.IsActive, &webhook.CreatedAt, &webhook.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("webhook not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook: %w", err)
	}

	return &webhook, nil
}
