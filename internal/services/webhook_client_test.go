package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rent-marketplace/backend/internal/events"
)

func TestWebhookClientDeliver(t *testing.T) {
	var received events.Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewWebhookClient(srv.URL, 5*time.Second, zap.NewNop())
	event := events.Event{
		Type:    events.EventBookingPaid,
		Payload: map[string]any{"property_id": float64(7), "state": "paid"},
	}

	require.NoError(t, client.Deliver(context.Background(), event))
	assert.Equal(t, event.Type, received.Type)
	assert.Equal(t, event.Payload, received.Payload)
}

func TestWebhookClientDeliverNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewWebhookClient(srv.URL, 5*time.Second, zap.NewNop())
	err := client.Deliver(context.Background(), events.Event{Type: events.EventPropertyMinted})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestWebhookClientDeliverUnreachable(t *testing.T) {
	client := NewWebhookClient("http://127.0.0.1:1", 500*time.Millisecond, zap.NewNop())
	err := client.Deliver(context.Background(), events.Event{Type: events.EventPropertyMinted})
	assert.Error(t, err)
}
