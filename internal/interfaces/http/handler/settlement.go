package handler

import (
	"github.com/erp/settlement/internal/application/settlement"
	"github.com/gin-gonic/gin"
)

// SettlementHandler serves the POS order settlement routes
type SettlementHandler struct {
	BaseHandler
	coordinator *settlement.Coordinator
	poster      *settlement.PostingService
	summary     *settlement.SummaryService
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(coordinator *settlement.Coordinator, poster *settlement.PostingService, summary *settlement.SummaryService) *SettlementHandler {
	return &SettlementHandler{
		coordinator: coordinator,
		poster:      poster,
		summary:     summary,
	}
}

// Settle godoc
// @ID           settlePosOrder
// @Summary      Settle an order
// @Description  Take payment for an open order, deplete recipe stock and post the sale to the ledger
// @Tags         pos
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body settlement.SettleRequest true "Payment"
// @Success      200 {object} APIResponse[settlement.SettlementResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pos/orders/{id}/settle [post]
func (h *SettlementHandler) Settle(c *gin.Context) {
	orderID, ok := h.pathID(c)
	if !ok {
		return
	}
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req settlement.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.coordinator.Settle(c.Request.Context(), tenantID, orderID, getUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Cancel godoc
// @ID           cancelPosOrder
// @Summary      Cancel an order
// @Description  Cancel an unpaid order and release its table
// @Tags         pos
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body settlement.CancelRequest false "Reason"
// @Success      200 {object} APIResponse[settlement.CancelResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pos/orders/{id}/cancel [post]
func (h *SettlementHandler) Cancel(c *gin.Context) {
	orderID, ok := h.pathID(c)
	if !ok {
		return
	}
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req settlement.CancelRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	result, err := h.coordinator.Cancel(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PostLedger godoc
// @ID           postPosOrderLedger
// @Summary      Post a settled order to the ledger
// @Description  Post now, retrying transient failures. Orders already posted report their entry.
// @Tags         pos
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[settlement.PostingResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pos/orders/{id}/post-ledger [post]
func (h *SettlementHandler) PostLedger(c *gin.Context) {
	orderID, ok := h.pathID(c)
	if !ok {
		return
	}
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	result, err := h.poster.PostNow(c.Request.Context(), tenantID, orderID, getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AccountingSummary godoc
// @ID           getPosOrderAccountingSummary
// @Summary      Accounting view of an order
// @Description  Amounts, payment, posting status and journal lines of one order
// @Tags         pos
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[settlement.AccountingSummary]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pos/orders/{id}/accounting-summary [get]
func (h *SettlementHandler) AccountingSummary(c *gin.Context) {
	orderID, ok := h.pathID(c)
	if !ok {
		return
	}
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	summary, err := h.summary.AccountingSummary(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
