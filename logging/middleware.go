package logging

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader carries the request ID in and out of the service.
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "dmutils_request_id"
	loggerKey    = "dmutils_logger"

	noRequestID = "no-request-id"
)

// RequestID assigns every request an ID, honoring one supplied by an
// upstream proxy, and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the current request's ID, or a placeholder when the
// RequestID middleware has not run.
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return noRequestID
}

// Middleware attaches a request-scoped logger to the context and writes one
// access-log line per request after the handler chain completes. Server
// errors log at ERROR, everything else at INFO.
func Middleware(base *zap.Logger, opts ...MiddlewareOption) gin.HandlerFunc {
	var mo middlewareOptions
	for _, opt := range opts {
		opt(&mo)
	}

	return func(c *gin.Context) {
		logger := base.With(zap.String("requestId", GetRequestID(c)))
		c.Set(loggerKey, logger)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start)
		url := c.Request.URL.RequestURI()

		msg := fmt.Sprintf("%s %s %d", c.Request.Method, url, status)
		if mo.color {
			msg = completionLine(status, elapsed, msg)
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("url", url),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
		}

		if status/100 == 5 {
			logger.Error(msg, fields...)
		} else {
			logger.Info(msg, fields...)
		}
	}
}

type middlewareOptions struct {
	color bool
}

type MiddlewareOption func(*middlewareOptions)

// WithColor enables the columnar colored access-log line for local
// development consoles.
func WithColor() MiddlewareOption {
	return func(mo *middlewareOptions) {
		mo.color = true
	}
}

// FromContext returns the request-scoped logger set by Middleware. Outside a
// request, or before the middleware has run, it falls back to the global
// logger.
func FromContext(c *gin.Context) *zap.Logger {
	if c != nil {
		if v, ok := c.Get(loggerKey); ok {
			if logger, ok := v.(*zap.Logger); ok {
				return logger
			}
		}
	}
	return zap.L()
}
