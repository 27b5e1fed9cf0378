package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/erp/settlement/internal/domain/ledger"
	"github.com/erp/settlement/internal/domain/pos"
	"github.com/erp/settlement/internal/infrastructure/logger"
	"github.com/erp/settlement/internal/interfaces/http/dto"
	"github.com/erp/settlement/internal/interfaces/http/middleware"
)

func handle(t *testing.T, err error) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pos/orders/x/settle", nil)
	c.Request = req.WithContext(logger.WithContext(req.Context(), zap.New(core)))
	c.Set(middleware.RequestIDKey, "req-42")

	var h BaseHandler
	h.HandleError(c, err)
	return w, logs
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return *resp.Error
}

func TestHandleError_Validation(t *testing.T) {
	w, logs := handle(t, fmt.Errorf("settle: %w", pos.ErrInsufficientPayment.WithMessage("Tendered 50.00 is less than 112.00")))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	info := decode(t, w)
	assert.Equal(t, "INSUFFICIENT_PAYMENT", info.Code)
	assert.Equal(t, "Tendered 50.00 is less than 112.00", info.Message)
	assert.Equal(t, "req-42", info.RequestID)
	assert.Zero(t, logs.Len(), "caller errors are not logged")
}

func TestHandleError_ConsistencyIsLogged(t *testing.T) {
	w, logs := handle(t, ledger.ErrUnbalancedEntry.WithMessage("debits 10.00 != credits 9.00"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal consistency error", decode(t, w).Message)
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Equal(t, "UNBALANCED_ENTRY", logs.All()[0].ContextMap()["code"])
}

func TestHandleError_InfrastructureIsRetryable(t *testing.T) {
	w, logs := handle(t, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	info := decode(t, w)
	assert.True(t, info.Retryable)
	assert.Equal(t, dto.ErrCodeUnavailable, info.Code)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}
