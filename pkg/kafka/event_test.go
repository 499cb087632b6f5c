package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	ev, err := NewEvent("cart.updated", "user-1", "cart", "cart-service", map[string]int{"total_items": 3})
	require.NoError(t, err)

	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, "cart.updated", ev.EventType)
	assert.Equal(t, "user-1", ev.AggregateID)
	assert.Equal(t, "cart", ev.AggregateType)
	assert.Equal(t, "cart-service", ev.Source)
	assert.NotZero(t, ev.Timestamp)

	var payload map[string]int
	require.NoError(t, json.Unmarshal(ev.Data, &payload))
	assert.Equal(t, 3, payload["total_items"])
}

func TestNewEvent_UnmarshalablePayload(t *testing.T) {
	_, err := NewEvent("cart.updated", "user-1", "cart", "cart-service", make(chan int))
	assert.Error(t, err)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	ev, err := NewEvent("cart.cleared", "user-2", "cart", "cart-service", map[string]string{"user_id": "user-2"})
	require.NoError(t, err)

	data, err := ev.Marshal()
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ev.EventID, decoded.EventID)
	assert.Equal(t, ev.EventType, decoded.EventType)
}
