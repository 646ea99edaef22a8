package rq_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newSettings(t *testing.T, values map[string]any) *viper.Viper {
	t.Helper()

	v := viper.New()
	for key, value := range values {
		v.Set(key, value)
	}
	return v
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	s := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() {
		_ = c.Close()
		s.Close()
	})
	return s, c
}

func pendingKey(queue string) string { return "asynq:{" + queue + "}:pending" }

func requirePending(t *testing.T, s *miniredis.Miniredis, queue, id string) {
	t.Helper()

	ids, err := s.List(pendingKey(queue))
	require.NoError(t, err)
	require.Contains(t, ids, id)
}
