package responses

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// SuccessResponse represents a standard success JSON response.
type SuccessResponse struct {
	Status  string      `json:"status"` // "success"
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse represents a standard error JSON response.
type ErrorResponse struct {
	Status  string            `json:"status"` // "error" or "fail"
	Message string            `json:"message"`
	Code    int               `json:"code"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// PaginatedResponse represents a success response for lists with pagination details.
type PaginatedResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination holds pagination information.
type Pagination struct {
	TotalItems   int64 `json:"total_items"`
	TotalPages   int   `json:"total_pages"`
	CurrentPage  int   `json:"current_page"`
	PageSize     int   `json:"page_size"`
	HasNextPage  bool  `json:"has_next_page"`
	HasPrevPage  bool  `json:"has_prev_page"`
	NextPage     *int  `json:"next_page,omitempty"`
	PreviousPage *int  `json:"previous_page,omitempty"`
}

// SendSuccess sends a standardized success response.
func SendSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	if message == "" {
		message = "Operation completed successfully"
	}
	c.JSON(statusCode, SuccessResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// SendError sends a standardized error response and aborts the chain.
func SendError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Status:  statusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

func statusText(statusCode int) string {
	if statusCode >= http.StatusInternalServerError {
		return "fail"
	}
	return "error"
}

// ValidationError renders binding failures. validator.ValidationErrors are
// reported per field, anything else (malformed JSON) as a plain 400.
func ValidationError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Status:  "error",
			Message: "Validation failed. Please check your input.",
			Code:    http.StatusBadRequest,
			Errors:  FormatValidationErrors(ve),
		})
		return
	}
	SendError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
}

// FormatValidationErrors maps each failing field to a readable message.
func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("The %s field is required.", field)
		case "min":
			msg = fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
		case "max":
			msg = fmt.Sprintf("The %s field must not exceed %s.", field, fe.Param())
		case "gte":
			msg = fmt.Sprintf("The %s field must be greater than or equal to %s.", field, fe.Param())
		case "lte":
			msg = fmt.Sprintf("The %s field must be less than or equal to %s.", field, fe.Param())
		case "oneof":
			msg = fmt.Sprintf("The %s field must be one of the following: %s.", field, strings.ReplaceAll(fe.Param(), " ", ", "))
		case "url":
			msg = fmt.Sprintf("The %s field must be a valid URL.", field)
		case "eqfield":
			msg = fmt.Sprintf("The %s field must match %s.", field, fe.Param())
		case "username":
			msg = fmt.Sprintf("The %s field may only contain letters, numbers, and underscores.", field)
		default:
			msg = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag.", field, fe.Tag())
		}
		out[field] = msg
	}
	return out
}

// SendPaginated sends a standardized success response for paginated data.
func SendPaginated(c *gin.Context, message string, data interface{}, totalItems int64, currentPage int, pageSize int) {
	if message == "" {
		message = "Data retrieved successfully"
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	c.JSON(http.StatusOK, PaginatedResponse{
		Status:     "success",
		Message:    message,
		Data:       data,
		Pagination: NewPagination(totalItems, currentPage, pageSize),
	})
}

// NewPagination computes page links for a result window.
func NewPagination(totalItems int64, currentPage, pageSize int) Pagination {
	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))
	p := Pagination{
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		PageSize:    pageSize,
		HasNextPage: currentPage < totalPages,
		HasPrevPage: currentPage > 1,
	}
	if p.HasNextPage {
		next := currentPage + 1
		p.NextPage = &next
	}
	if p.HasPrevPage {
		prev := currentPage - 1
		p.PreviousPage = &prev
	}
	return p
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, resourceName string) {
	SendError(c, http.StatusNotFound, resourceName+" not found")
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Unauthorized access"
	}
	SendError(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access to this resource is forbidden"
	}
	SendError(c, http.StatusForbidden, message)
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request payload or parameters"
	}
	SendError(c, http.StatusBadRequest, message)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "An unexpected error occurred on the server"
	}
	SendError(c, http.StatusInternalServerError, message)
}
