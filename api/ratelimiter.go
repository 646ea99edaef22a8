package api

import (
	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// clientKey limits requests per caller address.
func clientKey(c *gin.Context) string {
	return "client:" + c.ClientIP()
}

// recipientKey limits verification emails per recipient, whichever client
// asks for them. The body is cached so the handler can bind it again.
func recipientKey(c *gin.Context) string {
	var req SendVerificationEmailRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil || req.Email == "" {
		return clientKey(c)
	}
	return "recipient:" + strings.ToLower(strings.TrimSpace(req.Email))
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	retryAfter := int(time.Until(info.ResetTime).Seconds())
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.JSON(http.StatusTooManyRequests, errorResponse(errTooManyRequests(retryAfter)))
}

// NewRateLimiter allows limit requests per key in every rate window.
func NewRateLimiter(rate time.Duration, limit uint, key func(*gin.Context) string) gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  rate,
		Limit: limit,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      key,
	})
}
