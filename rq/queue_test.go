package rq_test

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/thefeij/redisq/rq"
)

func mustGetQueue(t *testing.T, settings map[string]any, name string, opts ...asynq.Option) *rq.Queue {
	t.Helper()

	q, err := rq.GetQueue(newSettings(t, settings), name, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func TestGetQueue_EnqueuesOnNamedQueue(t *testing.T) {
	s, _ := newTestRedis(t)
	ctx := context.Background()

	q := mustGetQueue(t, map[string]any{"RQ_REPORTS_URL": "redis://" + s.Addr()}, "reports")
	require.Equal(t, "reports", q.Name())
	require.Equal(t, s.Addr(), q.Connection().Options().Addr)

	info, err := q.Enqueue(ctx, asynq.NewTask("report:build", []byte(`{"id":1}`)))
	require.NoError(t, err)
	require.Equal(t, "reports", info.Queue)
	require.Equal(t, "report:build", info.Type)
	requirePending(t, s, "reports", info.ID)
}

func TestGetQueue_DefaultName(t *testing.T) {
	s, _ := newTestRedis(t)

	q := mustGetQueue(t, map[string]any{"RQ_DEFAULT_URL": "redis://" + s.Addr()}, "")
	require.Equal(t, rq.DefaultQueue, q.Name())

	info, err := q.Enqueue(context.Background(), asynq.NewTask("noop", nil))
	require.NoError(t, err)
	requirePending(t, s, rq.DefaultQueue, info.ID)
}

// TestGetQueue_FreshConnectionPerCall verifies handles never share a connection.
func TestGetQueue_FreshConnectionPerCall(t *testing.T) {
	settings := map[string]any{"RQ_DEFAULT_HOST": "localhost"}

	q1 := mustGetQueue(t, settings, "default")
	q2 := mustGetQueue(t, settings, "default")
	require.NotSame(t, q1.Connection(), q2.Connection())
}

// TestQueue_Options verifies handle options apply to every task, per-call
// options override them and the target queue cannot be redirected.
func TestQueue_Options(t *testing.T) {
	s, _ := newTestRedis(t)
	ctx := context.Background()

	q := mustGetQueue(t, map[string]any{"RQ_REPORTS_URL": "redis://" + s.Addr()}, "reports", asynq.MaxRetry(2))

	info, err := q.Enqueue(ctx, asynq.NewTask("report:build", nil))
	require.NoError(t, err)
	require.Equal(t, 2, info.MaxRetry)

	info, err = q.Enqueue(ctx, asynq.NewTask("report:build", nil), asynq.MaxRetry(5), asynq.Queue("other"))
	require.NoError(t, err)
	require.Equal(t, 5, info.MaxRetry)
	require.Equal(t, "reports", info.Queue)
	requirePending(t, s, "reports", info.ID)
}

// TestQueue_EngineErrorsPassThrough verifies asynq errors reach the caller as is.
func TestQueue_EngineErrorsPassThrough(t *testing.T) {
	s, _ := newTestRedis(t)
	ctx := context.Background()

	q := mustGetQueue(t, map[string]any{"RQ_REPORTS_URL": "redis://" + s.Addr()}, "reports")

	_, err := q.Enqueue(ctx, asynq.NewTask("report:build", nil), asynq.TaskID("report-1"))
	require.NoError(t, err)

	_, err = q.Enqueue(ctx, asynq.NewTask("report:build", nil), asynq.TaskID("report-1"))
	require.ErrorIs(t, err, asynq.ErrTaskIDConflict)
}

func TestGetQueue_ConfigurationError(t *testing.T) {
	_, err := rq.GetQueue(newSettings(t, map[string]any{"RQ_REPORTS_PORT": "x"}), "reports")
	require.ErrorIs(t, err, rq.ErrInvalidSetting)
}
