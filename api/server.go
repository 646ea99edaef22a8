package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/thefeij/redisq/rq"
	"github.com/thefeij/redisq/worker"
	"net/http"
	"net/http/httptest"
	"time"
)

const (
	requestIDHeader = "X-Request-ID"
	recipientLimit  = 5
)

type Server struct {
	router *gin.Engine
	rq     *rq.RQ
	jobs   *worker.Jobs
}

func NewServer(ext *rq.RQ, jobs *worker.Jobs) *Server {
	s := &Server{
		router: gin.New(),
		rq:     ext,
		jobs:   jobs,
	}

	s.setupRouter()

	return s
}

func (s *Server) setupRouter() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("queuename", ValidQueueName)
	}

	s.router.Use(gin.Recovery())
	s.router.Use(logMiddleware)

	// CORS middleware configuration
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", requestIDHeader}
	s.router.Use(cors.New(config))

	s.router.GET("/", func(context *gin.Context) {
		context.JSON(http.StatusOK, gin.H{"message": "Welcome"})
	})
	s.router.POST("api/verification-emails",
		NewRateLimiter(time.Minute, 30, clientKey),
		NewRateLimiter(time.Hour, recipientLimit, recipientKey),
		s.SendVerificationEmail,
	)
	s.router.GET("api/queues/:name", s.GetQueue)
	s.router.GET("api/queues/:name/ping", s.PingQueue)
}

func (s *Server) Start(address string) error {
	return s.router.Run(address)
}

func (s *Server) RouterServeHTTP(recorder *httptest.ResponseRecorder, req *http.Request) {
	s.router.ServeHTTP(recorder, req)
}

var logMiddleware = func(c *gin.Context) {
	start := time.Now()

	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header(requestIDHeader, requestID)

	// Process request
	c.Next()

	// Log request details
	log.Info().
		Str("request_id", requestID).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", c.Writer.Status()).
		Dur("duration", time.Since(start)).
		Msg("request handled")
}
