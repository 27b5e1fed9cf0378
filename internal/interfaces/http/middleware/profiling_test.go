package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfiling_LabelsRequestContext(t *testing.T) {
	r := gin.New()
	r.Use(Profiling(true))

	var route, method string
	r.POST("/api/v1/pos/orders/:id/settle", func(c *gin.Context) {
		route, _ = pprof.Label(c.Request.Context(), "route")
		method, _ = pprof.Label(c.Request.Context(), "method")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/pos/orders/1/settle", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/pos/orders/:id/settle", route)
	assert.Equal(t, http.MethodPost, method)
}

func TestProfiling_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(Profiling(false))
	var labelled bool
	r.GET("/x", func(c *gin.Context) {
		_, labelled = pprof.Label(c.Request.Context(), "route")
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.False(t, labelled)
}
