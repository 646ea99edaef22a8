package worker

import (
	"github.com/rs/zerolog/log"
	"github.com/thefeij/redisq/rq"
)

const (
	CriticalQueue = "critical"
	DefaultQueue  = rq.DefaultQueue
)

type RedisTaskProcessor struct {
	Worker *rq.Worker
	Jobs   *Jobs
}

// NewRedisTaskProcessor builds a worker draining the critical queue before
// the default one. It connects with the critical queue's settings.
func NewRedisTaskProcessor(ext *rq.RQ, jobs *Jobs, opts ...rq.WorkerOption) (*RedisTaskProcessor, error) {
	opts = append([]rq.WorkerOption{
		rq.WithJobs(jobs.Handlers()...),
		rq.WithLogger(log.Logger),
	}, opts...)

	w, err := ext.Worker([]string{CriticalQueue, DefaultQueue}, opts...)
	if err != nil {
		return nil, err
	}

	return &RedisTaskProcessor{
		Worker: w,
		Jobs:   jobs,
	}, nil
}

func (p *RedisTaskProcessor) Start() error {
	return p.Worker.Start()
}

func (p *RedisTaskProcessor) Shutdown() {
	p.Worker.Shutdown()
}
