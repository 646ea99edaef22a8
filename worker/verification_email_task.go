package worker

import (
	"context"
	"fmt"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"github.com/thefeij/redisq/config"
	"github.com/thefeij/redisq/email"
	"github.com/thefeij/redisq/rq"
)

const TaskSendVerificationEmail = "task:send_verification_email"

type SendVerificationEmailPayload struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	SecretCode string `json:"secret_code"`
}

// Jobs holds the application's background jobs.
type Jobs struct {
	SendVerificationEmail *rq.Job[SendVerificationEmailPayload]
}

func NewJobs(settings config.Store, sender email.Sender) *Jobs {
	critical := rq.Decorate[SendVerificationEmailPayload](settings, CriticalQueue, asynq.MaxRetry(10))

	return &Jobs{
		SendVerificationEmail: critical(TaskSendVerificationEmail, func(ctx context.Context, payload SendVerificationEmailPayload) error {
			return sendVerificationEmail(ctx, sender, payload)
		}),
	}
}

// Handlers returns every job for registration on a worker.
func (j *Jobs) Handlers() []rq.Handler {
	return []rq.Handler{j.SendVerificationEmail}
}

func sendVerificationEmail(_ context.Context, sender email.Sender, payload SendVerificationEmailPayload) error {
	if payload.Email == "" {
		return fmt.Errorf("verification email without recipient: %w", asynq.SkipRetry)
	}

	log.Info().Msg(fmt.Sprintf("sending verification email to %v", payload.Email))

	content := fmt.Sprintf(`
		Hello %s,<br/>
		Thank You For Registering With Us!<br/>
		Here Is You Verification Code: %s
	`, payload.Name, payload.SecretCode)
	to := []string{payload.Email}
	if err := sender.SendEmail("Welcome", content, to, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	log.Info().Msg(fmt.Sprintf("verification email was sent to %v successfully", payload.Email))
	return nil
}
