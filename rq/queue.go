package rq

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/thefeij/redisq/config"
)

// Queue enqueues tasks onto one named asynq queue.
type Queue struct {
	name   string
	conn   *Connection
	client *asynq.Client
	opts   []asynq.Option
}

// GetQueue returns a handle on the named queue with a connection of its
// own. opts are applied to every task enqueued through the handle.
func GetQueue(store config.Store, name string, opts ...asynq.Option) (*Queue, error) {
	name = normalizeQueueName(name)

	conn, err := NewConnection(store, name)
	if err != nil {
		return nil, err
	}

	return &Queue{
		name:   name,
		conn:   conn,
		client: asynq.NewClient(conn),
		opts:   opts,
	}, nil
}

func (q *Queue) Name() string { return q.name }

func (q *Queue) Connection() *Connection { return q.conn }

// Enqueue submits task to the queue. Per-call opts override the handle's,
// except the target queue, which is always the handle's.
func (q *Queue) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	all := make([]asynq.Option, 0, len(q.opts)+len(opts)+1)
	all = append(all, q.opts...)
	all = append(all, opts...)
	all = append(all, asynq.Queue(q.name))

	return q.client.EnqueueContext(ctx, task, all...)
}

func (q *Queue) Close() error {
	err := q.client.Close()
	if cerr := q.conn.Close(); err == nil {
		err = cerr
	}
	return err
}
