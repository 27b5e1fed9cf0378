package router

import (
	"github.com/erp/settlement/internal/infrastructure/auth"
	"github.com/erp/settlement/internal/interfaces/http/handler"
	"github.com/erp/settlement/internal/interfaces/http/middleware"
)

// PosRoutes are the order settlement routes under /pos
func PosRoutes(h *handler.SettlementHandler) *DomainGroup {
	return NewDomainGroup("pos", "/pos").
		POST("/orders/:id/settle", middleware.RequirePermission(auth.PermissionSettle), h.Settle).
		POST("/orders/:id/cancel", middleware.RequirePermission(auth.PermissionCancel), h.Cancel).
		POST("/orders/:id/post-ledger", middleware.RequirePermission(auth.PermissionPostLedger), h.PostLedger).
		GET("/orders/:id/accounting-summary", middleware.RequireAnyPermission(auth.PermissionReadLedger, auth.PermissionPostLedger), h.AccountingSummary)
}

// OutboxRoutes are the dead letter administration routes under /system/outbox
func OutboxRoutes(h *handler.OutboxHandler) *DomainGroup {
	return NewDomainGroup("outbox", "/system/outbox").
		Use(middleware.RequirePermission(auth.PermissionOutboxAdmin)).
		GET("/dead", h.GetDeadLetterEntries).
		POST("/dead/retry-all", h.RetryAllDeadEntries).
		GET("/stats", h.GetStats).
		GET("/:id", h.GetEntry).
		POST("/:id/retry", h.RetryDeadEntry)
}
