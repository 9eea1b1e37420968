// Package notification publishes shipment status change events so
// downstream consumers (customer messaging, ops dashboards) can react.
package notification

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// StatusEvent describes one shipment status change.
type StatusEvent struct {
	ShipmentID snowflake.ID `json:"shipment_id"`
	OwnerID    snowflake.ID `json:"owner_id"`
	From       string       `json:"from"`
	To         string       `json:"to"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// Sink delivers status events. Publish is best effort; a delivery
// failure never rolls back the status change that produced it.
type Sink interface {
	Publish(ctx context.Context, event StatusEvent) error
}
