package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhankbrguw/rumah-kosim-api/pkg/logger"
)

func TestTopic(t *testing.T) {
	assert.Equal(t, "shop.order.placed", Topic("order", "placed"))
	assert.Equal(t, "shop.stock.adjusted", Topic("stock", "adjusted"))
}

func TestNewEvent_Fields(t *testing.T) {
	type orderData struct {
		OrderID int64   `json:"order_id"`
		Total   float64 `json:"total"`
	}

	data := orderData{OrderID: 42, Total: 149.90}
	event, err := NewEvent(context.Background(), "order.placed", "42", "order", "rumah-kosim-api", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "order.placed", event.EventType)
	assert.Equal(t, "42", event.AggregateID)
	assert.Equal(t, "order", event.AggregateType)
	assert.Equal(t, "rumah-kosim-api", event.Source)
	assert.Equal(t, 1, event.Version)
	assert.Empty(t, event.CorrelationID)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)

	var roundTripped orderData
	require.NoError(t, json.Unmarshal(event.Data, &roundTripped))
	assert.Equal(t, data, roundTripped)
}

func TestNewEvent_StampsCorrelationID(t *testing.T) {
	ctx := logger.WithCorrelationID(context.Background(), "corr-abc")

	event, err := NewEvent(ctx, "stock.adjusted", "7", "product", "rumah-kosim-api", map[string]int{"quantity": 5})
	require.NoError(t, err)
	assert.Equal(t, "corr-abc", event.CorrelationID)

	// The ID must survive serialization so consumers can read it.
	raw, err := event.Marshal()
	require.NoError(t, err)

	var restored Event
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.Equal(t, "corr-abc", restored.CorrelationID)
	assert.Equal(t, event.EventID, restored.EventID)
	assert.JSONEq(t, string(event.Data), string(restored.Data))
}

func TestNewEvent_InvalidData(t *testing.T) {
	// Channels are not serializable to JSON.
	_, err := NewEvent(context.Background(), "order.placed", "1", "order", "svc", make(chan int))
	require.Error(t, err)
}
