package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oszuidwest/zwfm-directviewer/internal/api/responses"
	"github.com/oszuidwest/zwfm-directviewer/internal/auth"
	"github.com/oszuidwest/zwfm-directviewer/pkg/logger"
)

// RequestIDHeader carries the correlation ID of a request.
const RequestIDHeader = "X-Request-ID"

// requestIDMiddleware tags every request with a correlation ID, reusing one
// supplied by a proxy. A forwarded request keeps the ID it was given.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Writer.Header().Get(RequestIDHeader)
		if id == "" {
			id = c.GetHeader(RequestIDHeader)
		}
		if id == "" {
			id = uuid.NewString()
		}
		auth.SetRequestID(c, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// forwardedKey marks a request that is being re-dispatched internally.
type forwardedKey struct{}

// markForwarded flags r as an internal forward of a request already in flight.
func markForwarded(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), forwardedKey{}, true))
}

func isForwarded(r *http.Request) bool {
	forwarded, _ := r.Context().Value(forwardedKey{}).(bool)
	return forwarded
}

// requestLogMiddleware writes one line per request. The pass of an internal
// forward is skipped; the original pass logs the final status.
func requestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isForwarded(c.Request) {
			c.Next()
			return
		}

		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path

		c.Next()

		id, _ := auth.RequestID(c)
		logger.With(
			"request_id", id,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		).Infof("%s %s", method, path)
	}
}

// errorMiddleware logs the errors handlers attached to the context and answers
// with an error body if nothing was written yet.
func errorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		id, _ := auth.RequestID(c)
		for _, e := range c.Errors {
			logger.Error("Request %s failed: %v", id, e.Err)
		}
		if !c.Writer.Written() {
			responses.FromError(c, c.Errors.Last().Err)
		}
	}
}
