package dto

// Response represents a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Category  string       `json:"category,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Retryable bool         `json:"retryable"`
	Details   []FieldError `json:"details,omitempty"`
}

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta represents pagination metadata
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewErrorResponse creates an error response
func NewErrorResponse(info ErrorInfo) Response {
	return Response{Success: false, Error: &info}
}

// IDRequest binds the order or entry id path parameter
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
