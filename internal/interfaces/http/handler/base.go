package handler

import (
	"errors"
	"net/http"

	"github.com/erp/settlement/internal/domain/shared"
	"github.com/erp/settlement/internal/infrastructure/logger"
	"github.com/erp/settlement/internal/interfaces/http/dto"
	"github.com/erp/settlement/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getTenantID returns the tenant from the verified token
func getTenantID(c *gin.Context) (uuid.UUID, error) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil || claims.TenantUUID() == uuid.Nil {
		return uuid.Nil, errors.New("tenant not found in context")
	}
	return claims.TenantUUID(), nil
}

// getUserID returns the acting user, or nil when the token carries none
func getUserID(c *gin.Context) *uuid.UUID {
	claims := middleware.GetJWTClaims(c)
	if claims == nil || claims.UserUUID() == uuid.Nil {
		return nil
	}
	id := claims.UserUUID()
	return &id
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status and code
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.ErrorInfo{
		Code:      code,
		Message:   message,
		RequestID: middleware.GetRequestID(c),
	}))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, code, message string) {
	h.Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized sends a 401 response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// BindError answers a failed ShouldBind* call. Validator failures list the
// offending fields; anything else is a malformed body.
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		h.BadRequest(c, dto.ErrCodeInvalidJSON, "Request body is not valid JSON")
		return
	}
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorInfo{
		Code:      dto.ErrCodeValidation,
		Message:   "Request validation failed",
		RequestID: middleware.GetRequestID(c),
		Details:   middleware.FieldErrors(verrs),
	}))
}

// HandleError converts an application error into an HTTP response.
// Consistency and infrastructure failures are logged with the request id;
// validation and configuration failures are the caller's to fix.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status, info := dto.ErrorFromDomain(err)
	info.RequestID = middleware.GetRequestID(c)

	switch shared.CategoryOf(err) {
	case shared.CategoryConsistency:
		logger.L(c.Request.Context()).Error("consistency failure",
			zap.String("code", info.Code),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	case shared.CategoryInfrastructure:
		logger.L(c.Request.Context()).Warn("infrastructure failure",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	c.JSON(status, dto.NewErrorResponse(info))
}

// pathID binds the :id path parameter
func (h *BaseHandler) pathID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidID, "Invalid id")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidID, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// tenant resolves the tenant or answers 401
func (h *BaseHandler) tenant(c *gin.Context) (uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved from token")
		return uuid.Nil, false
	}
	return tenantID, true
}
