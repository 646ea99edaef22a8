package rq

import (
	"context"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thefeij/redisq/config"
)

// Handler is a named asynq handler, such as a *Job.
type Handler interface {
	asynq.Handler
	Name() string
}

type workerOptions struct {
	jobs            []Handler
	concurrency     int
	logger          zerolog.Logger
	shutdownTimeout time.Duration
}

type WorkerOption func(*workerOptions)

// WithJobs registers jobs on the worker's mux under their names.
func WithJobs(jobs ...Handler) WorkerOption {
	return func(o *workerOptions) { o.jobs = append(o.jobs, jobs...) }
}

// WithConcurrency sets how many tasks run at once. 0 uses asynq's default.
func WithConcurrency(n int) WorkerOption {
	return func(o *workerOptions) { o.concurrency = n }
}

func WithLogger(logger zerolog.Logger) WorkerOption {
	return func(o *workerOptions) { o.logger = logger }
}

func WithShutdownTimeout(d time.Duration) WorkerOption {
	return func(o *workerOptions) { o.shutdownTimeout = d }
}

// Worker processes tasks from one or more queues over the connection of
// the first queue.
type Worker struct {
	conn   *Connection
	queues []*Queue
	config asynq.Config
	mux    *asynq.ServeMux
	logger zerolog.Logger

	// server opens its own Redis client, so it is only built by Start or Run.
	mu     sync.Mutex
	server *asynq.Server
}

// NewWorker builds a worker for names, or for the default queue when names
// is empty. Queues are drained in the order given.
func NewWorker(store config.Store, names []string, opts ...WorkerOption) (*Worker, error) {
	if len(names) == 0 {
		names = []string{DefaultQueue}
	}

	o := workerOptions{logger: log.Logger}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	queues := make([]*Queue, 0, len(names))
	closeQueues := func() {
		for _, q := range queues {
			_ = q.Close()
		}
	}
	for _, name := range names {
		q, err := GetQueue(store, name)
		if err != nil {
			closeQueues()
			return nil, err
		}
		queues = append(queues, q)
	}

	conn, err := NewConnection(store, names[0])
	if err != nil {
		closeQueues()
		return nil, err
	}

	priorities := make(map[string]int, len(queues))
	for i, q := range queues {
		if _, ok := priorities[q.Name()]; !ok {
			priorities[q.Name()] = len(queues) - i
		}
	}

	logger := o.logger
	cfg := asynq.Config{
		Concurrency:     o.concurrency,
		Queues:          priorities,
		StrictPriority:  true,
		ShutdownTimeout: o.shutdownTimeout,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			queue, _ := asynq.GetQueueName(ctx)
			logger.Error().Err(err).
				Str("queue", queue).
				Str("type", task.Type()).
				Str("payload", string(task.Payload())).
				Msg("process task failed")
		}),
		Logger: NewLogger(logger),
	}

	w := &Worker{
		conn:   conn,
		queues: queues,
		config: cfg,
		mux:    asynq.NewServeMux(),
		logger: logger,
	}
	for _, job := range o.jobs {
		w.Handle(job.Name(), job)
	}

	return w, nil
}

// Handle registers handler for tasks of type pattern.
func (w *Worker) Handle(pattern string, handler asynq.Handler) {
	w.mux.Handle(pattern, handler)
}

// ProcessTask runs task through the worker's handlers in the calling
// goroutine.
func (w *Worker) ProcessTask(ctx context.Context, task *asynq.Task) error {
	return w.mux.ProcessTask(ctx, task)
}

func (w *Worker) Queues() []*Queue { return w.queues }

func (w *Worker) Connection() *Connection { return w.conn }

// Start begins processing in the background.
func (w *Worker) Start() error {
	w.logger.Info().Str("queue", w.conn.Queue()).Int("queues", len(w.queues)).Msg("starting worker")
	return w.asynqServer().Start(w.mux)
}

// Run processes tasks until the process receives a shutdown signal.
func (w *Worker) Run() error {
	w.logger.Info().Str("queue", w.conn.Queue()).Int("queues", len(w.queues)).Msg("running worker")
	defer w.closeQueues()
	return w.asynqServer().Run(w.mux)
}

// Shutdown stops processing and releases the worker's connections.
func (w *Worker) Shutdown() {
	w.mu.Lock()
	server := w.server
	w.server = nil
	w.mu.Unlock()

	if server != nil {
		server.Shutdown()
	}
	w.closeQueues()
	_ = w.conn.Close()
}

func (w *Worker) asynqServer() *asynq.Server {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.server == nil {
		w.server = asynq.NewServer(w.conn, w.config)
	}
	return w.server
}

func (w *Worker) closeQueues() {
	for _, q := range w.queues {
		_ = q.Close()
	}
}
