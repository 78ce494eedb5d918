package utils

import (
	"blogreact/internal/errs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const loggerKey = "logger"

// WithLogger attaches the request logger used by Error.
func WithLogger(c *gin.Context, log *zap.Logger) {
	c.Set(loggerKey, log)
}

// RequestLogger returns the logger attached by WithLogger, or the global
// logger when none was attached.
func RequestLogger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if log, ok := v.(*zap.Logger); ok {
			return log
		}
	}
	return zap.L()
}

// Response is the JSON envelope of every API reply.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func Success(c *gin.Context, code int, data any, message string) {
	c.JSON(code, Response{
		StatusCode: code,
		Data:       data,
		Message:    message,
		Success:    code < 400,
	})
}

// Error aborts the request with the envelope for err. Causes of internal
// errors are logged, never returned to the client.
func Error(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	code := kind.Status()
	if kind == errs.KindInternal {
		RequestLogger(c).Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(code, Response{
		StatusCode: code,
		Message:    errs.Message(err),
		Success:    false,
	})
}
