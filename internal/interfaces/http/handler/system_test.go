package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedState string

func (s fixedState) State() string { return string(s) }

func health(t *testing.T, h *SystemHandler) (int, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	h.Health(c)

	var body struct {
		Success bool           `json:"success"`
		Data    HealthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, w.Code == http.StatusOK, body.Success)
	return w.Code, body.Data
}

func TestSystemHandler_Health(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("dial tcp: connection refused") })

	t.Run("all dependencies up", func(t *testing.T) {
		status, body := health(t, NewSystemHandler("1.2.0", map[string]Pinger{"database": up, "redis": up}, fixedState("closed")))
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "1.2.0", body.Version)
		assert.Equal(t, map[string]string{"database": "up", "redis": "up"}, body.Checks)
		assert.Equal(t, "closed", body.PostingCircuit)
		assert.NotEmpty(t, body.GoVersion)
	})

	t.Run("database down", func(t *testing.T) {
		status, body := health(t, NewSystemHandler("1.2.0", map[string]Pinger{"database": down, "redis": up}, nil))
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, "down", body.Checks["database"])
		assert.Empty(t, body.PostingCircuit)
	})

	t.Run("probe respects its deadline", func(t *testing.T) {
		h := NewSystemHandler("1.2.0", map[string]Pinger{
			"database": PingFunc(func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			}),
		}, nil)
		h.timeout = 10 * time.Millisecond
		status, _ := health(t, h)
		assert.Equal(t, http.StatusServiceUnavailable, status)
	})
}
