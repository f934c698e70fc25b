package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventType(t *testing.T) {
	cases := map[OrderStatus]string{
		StatusWaiting:    "order.placed",
		StatusAccepted:   "order.accepted",
		StatusServed:     "order.served",
		StatusDelivering: "order.delivering",
		StatusDelivered:  "order.delivered",
		StatusCompleted:  "order.completed",
	}
	for status, want := range cases {
		assert.Equal(t, want, EventType(status))
	}
	assert.Equal(t, "order.updated", EventType(OrderStatus("UNKNOWN")))
}
