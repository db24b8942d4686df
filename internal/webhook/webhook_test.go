package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"subedit/pkg/models"
)

type mockRepository struct {
	mu         sync.Mutex
	webhooks   []*models.Webhook
	deliveries []*models.WebhookDelivery
}

func (m *mockRepository) GetWebhooksByEvent(ctx context.Context, event string) ([]*models.Webhook, error) {
	return m.webhooks, nil
}

func (m *mockRepository) CreateDelivery(ctx context.Context, delivery *models.WebhookDelivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries = append(m.deliveries, delivery)
	return nil
}

func (m *mockRepository) UpdateDelivery(ctx context.Context, delivery *models.WebhookDelivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.deliveries {
		if d.ID == delivery.ID {
			m.deliveries[i] = delivery
			return nil
		}
	}
	return nil
}

func (m *mockRepository) GetPendingDeliveries(ctx context.Context, limit int) ([]*models.WebhookDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deliveries, nil
}

func (m *mockRepository) deliveryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.deliveries)
}

func TestWebhookNotify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	repo := &mockRepository{
		webhooks: []*models.Webhook{
			{
				ID:  "webhook-1",
				URL: server.URL,
				Events: models.WebhookEvents{
					ExportStarted: true,
				},
				IsActive: true,
			},
		},
		deliveries: []*models.WebhookDelivery{},
	}

	service := NewService(repo)

	job := &models.Job{
		ID:      "job-1",
		VideoID: "video-1",
		Status:  models.JobStatusProcessing,
	}

	err := service.NotifyExportStarted(context.Background(), job)
	assert.NoError(t, err)

	// Wait a bit for async delivery
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, repo.deliveryCount())
}

func TestWebhookSkipsInactive(t *testing.T) {
	repo := &mockRepository{
		webhooks: []*models.Webhook{
			{
				ID:       "webhook-1",
				URL:      "http://localhost:1",
				IsActive: false,
			},
		},
	}

	service := NewService(repo)

	err := service.NotifyExportFailed(context.Background(), &models.Job{ID: "job-1"})
	assert.NoError(t, err)
	assert.Equal(t, 0, repo.deliveryCount())
}

func TestWebhookSignature(t *testing.T) {
	service := NewService(&mockRepository{})

	payload := []byte(`{"event":"test"}`)
	secret := "test-secret"

	signature := service.generateSignature(payload, secret)
	assert.NotEmpty(t, signature)
	assert.Contains(t, signature, "sha256=")

	// Same payload and secret produce the same signature
	assert.Equal(t, signature, service.generateSignature(payload, secret))
	assert.NotEqual(t, signature, service.generateSignature(payload, "other-secret"))
}

func TestWebhookEventMarshaling(t *testing.T) {
	event := models.WebhookEvent{
		Event:     models.WebhookEventExportCompleted,
		Timestamp: time.Now(),
		Data: map[string]string{
			"job_id": "test-job",
		},
	}

	data, err := json.Marshal(event)
	assert.NoError(t, err)
	assert.NotEmpty(t, data)

	var unmarshaled models.WebhookEvent
	err = json.Unmarshal(data, &unmarshaled)
	assert.NoError(t, err)
	assert.Equal(t, event.Event, unmarshaled.Event)
}

func TestMarkDeliveryFailedSchedulesRetry(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)

	delivery := &models.WebhookDelivery{
		ID:        "delivery-1",
		WebhookID: "webhook-1",
		Event:     models.WebhookEventExportFailed,
		Status:    models.WebhookDeliveryStatusPending,
	}
	repo.deliveries = append(repo.deliveries, delivery)

	service.markDeliveryFailed(context.Background(), delivery, 500, "server error")

	assert.Equal(t, models.WebhookDeliveryStatusPending, delivery.Status)
	assert.Equal(t, 1, delivery.RetryCount)
	assert.NotNil(t, delivery.NextRetryAt)

	// Exhaust the retry schedule
	for i := 0; i < 6; i++ {
		service.markDeliveryFailed(context.Background(), delivery, 500, "server error")
	}

	assert.Equal(t, models.WebhookDeliveryStatusFailed, delivery.Status)
	assert.NotNil(t, delivery.CompletedAt)
}
