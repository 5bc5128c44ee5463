package core

import (
	"context"
	"time"

	"github.com/target/runner-webhook-router/internal/domain/model"
)

// This file contains the port interfaces between the service layer and the
// outside world (queue, upstream webhook API). Service implementations depend
// on these interfaces, not concrete adapters.

// QueuePublisher durably stores a (job, flavor) pair in the downstream queue
// for that flavor. A returned error means the job was not stored; callers
// must surface it so the sender's own delivery retry engages.
type QueuePublisher interface {
	Publish(ctx context.Context, job model.Job, flavor string) error
}

// Delivery is one webhook delivery attempt as reported by the upstream
// provider. Only the fields the redelivery flow reads are modeled.
type Delivery struct {
	ID          int64
	DeliveredAt time.Time
	StatusCode  int
	Action      string
	Event       string
}

// Failed reports whether the delivery attempt did not get a 2xx response.
func (d Delivery) Failed() bool {
	return d.StatusCode < 200 || d.StatusCode >= 300
}

// DeliveryPage is one page of delivery history, most recent first. Cursor is
// opaque; empty means the history is exhausted.
type DeliveryPage struct {
	Deliveries []Delivery
	Cursor     string
}

// DeliveryAPI is the slice of the upstream webhook API the redelivery flow
// uses: paging through a webhook's delivery history and requesting a fresh
// attempt for one delivery.
type DeliveryAPI interface {
	ListDeliveries(ctx context.Context, cursor string) (DeliveryPage, error)
	RedeliverAttempt(ctx context.Context, deliveryID int64) error
}
