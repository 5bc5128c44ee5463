package redisqueue

// Package redisqueue publishes routed jobs onto per-flavor Redis streams.

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/target/runner-webhook-router/internal/domain/model"
	apperrors "github.com/target/runner-webhook-router/internal/errors"
)

const defaultStreamPrefix = "webhooks:"

// Publisher implements core.QueuePublisher on top of Redis streams. Each
// flavor gets its own stream named "<prefix><flavor>"; consumers for a flavor
// read only their stream.
type Publisher struct {
	client redis.UniversalClient
	prefix string
}

// NewPublisher creates a publisher with the default "webhooks:" stream prefix.
func NewPublisher(client redis.UniversalClient) *Publisher {
	return NewPublisherWithPrefix(client, defaultStreamPrefix)
}

// NewPublisherWithPrefix creates a publisher with a custom stream prefix.
func NewPublisherWithPrefix(client redis.UniversalClient, prefix string) *Publisher {
	return &Publisher{
		client: client,
		prefix: prefix,
	}
}

// Publish appends the job to the flavor's stream as a single JSON field.
// XADD is atomic, so a job is either fully stored or not stored at all; a
// returned error always means the latter.
func (p *Publisher) Publish(ctx context.Context, job model.Job, flavor string) error {
	if flavor == "" {
		return apperrors.Validation("flavor cannot be empty")
	}

	data, err := json.Marshal(job)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodePublish, "marshal job")
	}

	stream := p.prefix + flavor
	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"job": string(data)},
	}).Err(); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodePublish, "xadd to %s", stream)
	}
	return nil
}
