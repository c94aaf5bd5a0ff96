package queue

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Producer appends dispatch tasks to the notification stream. Enqueue is
// synchronous; execution is not.
type Producer struct {
	client *redis.Client
	stream string
}

func NewProducer(client *redis.Client, stream string) *Producer {
	return &Producer{client: client, stream: stream}
}

func (p *Producer) Enqueue(ctx context.Context, task DispatchTask) error {
	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: task.Values(),
	}).Result()
	return err
}
