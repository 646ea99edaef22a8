package api

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/thefeij/redisq/rq"
	"github.com/thefeij/redisq/worker"
	"net/http"
	"strings"
	"time"
)

const pingTimeout = 2 * time.Second

var (
	ErrInternalServer = fmt.Errorf("something went wrong, please try again in a few minutes")
	ErrQueueNotFound  = fmt.Errorf("queue is not configured")
)

func errTooManyRequests(retryAfter int) error {
	return fmt.Errorf("too many requests, try again in %d seconds", retryAfter)
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}

func (s *Server) SendVerificationEmail(ctx *gin.Context) {
	var req SendVerificationEmailRequest
	if err := ctx.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	payload := worker.SendVerificationEmailPayload{
		Name:       req.Name,
		Email:      req.Email,
		SecretCode: strings.ToUpper(uuid.NewString()[:8]),
	}
	info, err := s.jobs.SendVerificationEmail.Delay(ctx.Request.Context(), payload)
	if err != nil {
		log.Error().Err(err).Str("queue", s.jobs.SendVerificationEmail.Queue()).Msg("failed to enqueue verification email")
		ctx.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}

	ctx.JSON(http.StatusAccepted, TaskResponse{
		TaskID: info.ID,
		Queue:  info.Queue,
		Type:   info.Type,
	})
}

func (s *Server) GetQueue(ctx *gin.Context) {
	var req QueueRequest
	if err := ctx.ShouldBindUri(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	serverURL, err := s.rq.ServerURL(req.Name)
	if err != nil {
		queueError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, QueueResponse{Name: req.Name, ServerURL: redactServerURL(serverURL)})
}

// redactServerURL hides the userinfo of a scheme://[userinfo@]host URL,
// keeping any username.
func redactServerURL(serverURL string) string {
	scheme, rest, ok := strings.Cut(serverURL, "://")
	at := strings.LastIndex(rest, "@")
	if !ok || at < 0 {
		return serverURL
	}
	user, _, hasPassword := strings.Cut(rest[:at], ":")
	if hasPassword {
		user += ":***"
	} else {
		user = "***"
	}
	return scheme + "://" + user + rest[at:]
}

func (s *Server) PingQueue(ctx *gin.Context) {
	var req QueueRequest
	if err := ctx.ShouldBindUri(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	conn, err := s.rq.Connection(req.Name)
	if err != nil {
		queueError(ctx, err)
		return
	}
	defer conn.Close()

	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), pingTimeout)
	defer cancel()

	if err := conn.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("queue", req.Name).Msg("queue ping failed")
		ctx.JSON(http.StatusServiceUnavailable, QueueResponse{Name: req.Name, Status: "unavailable"})
		return
	}

	ctx.JSON(http.StatusOK, QueueResponse{Name: req.Name, Status: "ok"})
}

func queueError(ctx *gin.Context, err error) {
	if errors.Is(err, rq.ErrMissingSetting) {
		ctx.JSON(http.StatusNotFound, errorResponse(ErrQueueNotFound))
		return
	}
	var cfgErr *rq.ConfigurationError
	if errors.As(err, &cfgErr) {
		ctx.JSON(http.StatusUnprocessableEntity, errorResponse(err))
		return
	}
	log.Error().Err(err).Msg("failed to resolve queue")
	ctx.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
}
