package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogreact/internal/errs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorLogsInternalCauseToRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.ErrorLevel)
	log := zap.New(core)

	r := gin.New()
	r.Use(func(c *gin.Context) { WithLogger(c, log) })
	r.GET("/internal", func(c *gin.Context) {
		Error(c, errs.Internal("failed to load reaction", errors.New("connection reset")))
	})
	r.GET("/missing", func(c *gin.Context) {
		Error(c, errs.NotFound("reaction not found"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/internal", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
	if logs.Len() != 1 {
		t.Fatalf("Expected one logged internal error, got %d", logs.Len())
	}
	if path := logs.All()[0].ContextMap()["path"]; path != "/internal" {
		t.Errorf("Expected path /internal in log, got %v", path)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
	if logs.Len() != 1 {
		t.Errorf("Client errors must not be logged, got %d entries", logs.Len())
	}
}

func TestRequestLoggerFallsBackToGlobal(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if RequestLogger(c) != zap.L() {
		t.Error("Expected global logger when none is attached")
	}
}
