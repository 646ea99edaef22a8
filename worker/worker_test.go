package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/thefeij/redisq/rq"
)

type sentEmail struct {
	subject string
	content string
	to      []string
}

type fakeSender struct {
	sent []sentEmail
	err  error
}

func (f *fakeSender) SendEmail(subject, content string, to, cc, bcc, attachFiles []string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{subject: subject, content: content, to: to})
	return nil
}

func newTestSettings(t *testing.T) (*miniredis.Miniredis, *viper.Viper) {
	t.Helper()

	s := miniredis.RunT(t)
	v := viper.New()
	v.Set("RQ_CRITICAL_URL", "redis://"+s.Addr()+"/0")
	v.Set("RQ_DEFAULT_URL", "redis://"+s.Addr()+"/0")
	return s, v
}

func TestSendVerificationEmail_Delay(t *testing.T) {
	s, v := newTestSettings(t)
	jobs := NewJobs(v, &fakeSender{})

	require.Equal(t, CriticalQueue, jobs.SendVerificationEmail.Queue())

	info, err := jobs.SendVerificationEmail.Delay(context.Background(), SendVerificationEmailPayload{
		Name:       "Ada",
		Email:      "ada@example.com",
		SecretCode: "123456",
	})
	require.NoError(t, err)
	require.Equal(t, CriticalQueue, info.Queue)
	require.Equal(t, TaskSendVerificationEmail, info.Type)
	require.Equal(t, 10, info.MaxRetry)

	ids, err := s.List("asynq:{critical}:pending")
	require.NoError(t, err)
	require.Equal(t, []string{info.ID}, ids)
}

func TestSendVerificationEmail_Process(t *testing.T) {
	_, v := newTestSettings(t)
	sender := &fakeSender{}
	jobs := NewJobs(v, sender)

	payload, err := json.Marshal(SendVerificationEmailPayload{Name: "Ada", Email: "ada@example.com", SecretCode: "123456"})
	require.NoError(t, err)

	err = jobs.SendVerificationEmail.ProcessTask(context.Background(), asynq.NewTask(TaskSendVerificationEmail, payload))
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	require.Equal(t, []string{"ada@example.com"}, sender.sent[0].to)
	require.Contains(t, sender.sent[0].content, "Hello Ada")
	require.Contains(t, sender.sent[0].content, "123456")
}

func TestSendVerificationEmail_Failures(t *testing.T) {
	_, v := newTestSettings(t)
	smtpDown := errors.New("smtp down")
	sender := &fakeSender{err: smtpDown}
	jobs := NewJobs(v, sender)

	err := jobs.SendVerificationEmail.Call(context.Background(), SendVerificationEmailPayload{Email: "ada@example.com"})
	require.ErrorIs(t, err, smtpDown)
	require.NotErrorIs(t, err, asynq.SkipRetry)

	err = jobs.SendVerificationEmail.Call(context.Background(), SendVerificationEmailPayload{})
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestNewRedisTaskProcessor(t *testing.T) {
	s, v := newTestSettings(t)
	ext := rq.New(v)
	sender := &fakeSender{}

	processor, err := NewRedisTaskProcessor(ext, NewJobs(v, sender), rq.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	t.Cleanup(processor.Shutdown)

	require.Equal(t, CriticalQueue, processor.Worker.Connection().Queue())
	require.Equal(t, s.Addr(), processor.Worker.Connection().Options().Addr)
	require.Len(t, processor.Worker.Queues(), 2)

	payload, err := json.Marshal(SendVerificationEmailPayload{Email: "ada@example.com"})
	require.NoError(t, err)
	require.NoError(t, processor.Worker.ProcessTask(context.Background(), asynq.NewTask(TaskSendVerificationEmail, payload)))
	require.Len(t, sender.sent, 1)
}
