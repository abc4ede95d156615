package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nikogura/ats-match/pkg/observe"
	"github.com/nikogura/ats-match/pkg/scorer"
	"github.com/nikogura/ats-match/pkg/service"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// TooManyRequests is the tip returned when the rate limit is exceeded.
const TooManyRequests = "Too many requests, please retry later"

const requestIDKey = "request_id"

// requestID assigns every request an ID, counts it and logs its completion.
func requestID(svc *service.Service) (handler gin.HandlerFunc) {
	handler = func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = observe.NewRequestID()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		svc.Metrics().HTTPRequests.Add(1)

		start := time.Now()
		c.Next()

		svc.Logger().Debug("http request",
			slog.String("request_id", id),
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
	return handler
}

// rateLimit applies one token bucket to all requests. A zero limit disables it.
func rateLimit(limit float64, burst int, svc *service.Service) (handler gin.HandlerFunc) {
	if limit <= 0 {
		handler = func(c *gin.Context) { c.Next() }
		return handler
	}
	if burst <= 0 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(limit), burst)
	handler = func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || limiter.Allow() {
			c.Next()
			return
		}

		svc.Metrics().RateLimited.Add(1)
		svc.Logger().Warn("rate limit exceeded",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("client_ip", c.ClientIP()),
		)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, scorer.ErrorResult(TooManyRequests))
	}
	return handler
}
