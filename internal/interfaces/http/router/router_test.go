package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	var order []string
	group := NewDomainGroup("pos", "/pos").
		Use(func(c *gin.Context) { order = append(order, "group"); c.Next() }).
		GET("/ping", func(c *gin.Context) { order = append(order, "handler"); c.String(http.StatusOK, "pong") }).
		POST("/orders/:id/settle", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })
	assert.Equal(t, "pos", group.Name())

	r.Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/pos/ping", nil))
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, []string{"group", "handler"}, order)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v2/pos/orders/42/settle", nil))
	assert.Equal(t, "42", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/pos/orders/42/settle", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMiddlewareIsScopedToItsGroup(t *testing.T) {
	engine := gin.New()
	guarded := NewDomainGroup("outbox", "/system/outbox").
		Use(func(c *gin.Context) { c.AbortWithStatus(http.StatusForbidden) }).
		GET("/stats", func(c *gin.Context) { c.Status(http.StatusOK) })
	open := NewDomainGroup("pos", "/pos").
		GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	NewRouter(engine).Register(guarded).Register(open).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/outbox/stats", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/pos/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
