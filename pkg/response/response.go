package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ndtollman/mainstay/pkg/errors"
)

// ErrorBody is the wire shape of every error response. The web client matches
// on the message text for the 401/403 cases, so it must stay stable.
type ErrorBody struct {
	Error string `json:"error"`
}

// ListMeta carries pagination metadata for list endpoints.
type ListMeta struct {
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
	Total   int64 `json:"total,omitempty"`
}

// List is the envelope for paginated collections.
type List struct {
	Data any       `json:"data"`
	Meta *ListMeta `json:"meta,omitempty"`
}

// JSON writes a success payload as-is.
func JSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// OK writes a 200 response.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created writes a 201 response.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// Paginated writes a 200 list envelope with metadata.
func Paginated(c *gin.Context, data any, meta *ListMeta) {
	c.JSON(http.StatusOK, List{Data: data, Meta: meta})
}

// Error derives the status and client-facing message from an AppError.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = apperrors.ErrInternalServer
	}

	appErr := apperrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	c.JSON(status, ErrorBody{Error: appErr.Message})
}

// AbortError writes the error response and stops handler chain processing.
func AbortError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
