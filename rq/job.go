package rq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/thefeij/redisq/config"
)

// Func is the body of a job. args must be JSON-serializable.
type Func[T any] func(ctx context.Context, args T) error

// Job binds a function to deferred execution on a named queue. The job
// name is the asynq task type, so it must be the same in the process that
// enqueues and the worker that executes.
type Job[T any] struct {
	name  string
	queue string
	store config.Store
	fn    Func[T]
	opts  []asynq.Option
}

var _ Handler = (*Job[struct{}])(nil)

// NewJob binds fn to the default queue.
func NewJob[T any](store config.Store, name string, fn Func[T], opts ...asynq.Option) *Job[T] {
	return Decorate[T](store, DefaultQueue, opts...)(name, fn)
}

// Decorate returns a constructor binding functions to queue. opts apply
// to every task the resulting jobs enqueue.
func Decorate[T any](store config.Store, queue string, opts ...asynq.Option) func(name string, fn Func[T]) *Job[T] {
	queue = normalizeQueueName(queue)
	return func(name string, fn Func[T]) *Job[T] {
		if name == "" {
			panic("rq: job name must not be empty")
		}
		if fn == nil {
			panic("rq: nil job function for " + name)
		}
		return &Job[T]{name: name, queue: queue, store: store, fn: fn, opts: opts}
	}
}

func (j *Job[T]) Name() string { return j.name }

func (j *Job[T]) Queue() string { return j.queue }

// Call runs the job in the calling goroutine.
func (j *Job[T]) Call(ctx context.Context, args T) error {
	return j.fn(ctx, args)
}

// Delay enqueues the job with args on its queue and returns the pending
// task. A new queue handle is opened and closed for each call.
func (j *Job[T]) Delay(ctx context.Context, args T, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	payload, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("rq: marshal args of %s: %w", j.name, err)
	}

	q, err := GetQueue(j.store, j.queue, j.opts...)
	if err != nil {
		return nil, err
	}
	defer q.Close()

	return q.Enqueue(ctx, asynq.NewTask(j.name, payload), opts...)
}

// ProcessTask implements asynq.Handler. Payloads that do not decode are
// not retried.
func (j *Job[T]) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var args T
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &args); err != nil {
			return fmt.Errorf("failed to unmarshal payload of %s: %v: %w", j.name, err, asynq.SkipRetry)
		}
	}
	return j.fn(ctx, args)
}
