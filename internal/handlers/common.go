package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edital360/portal/internal/models"
	"github.com/edital360/portal/internal/services"
	"github.com/edital360/portal/internal/utils"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse carries the full field-error list. Errors keep the
// declared field order; the first one is where the client focuses.
type ValidationErrorResponse struct {
	Error  string                  `json:"error"`
	Field  string                  `json:"field"`
	Errors []utils.ValidationError `json:"errors"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// statusForResult maps a normalized upstream failure onto an HTTP status
func statusForResult(result *models.APIResult) int {
	if result.Success {
		return http.StatusOK
	}
	switch result.Message {
	case services.MsgSessionExpired:
		return http.StatusUnauthorized
	case services.MsgForbidden:
		return http.StatusForbidden
	case services.MsgNotFound:
		return http.StatusNotFound
	case services.MsgServerError:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// respondResult writes a normalized upstream result as the response body
func respondResult(c *gin.Context, result *models.APIResult) {
	c.JSON(statusForResult(result), result)
}

// respondValidation writes a 400 with the ordered field-error list
func respondValidation(c *gin.Context, validation *utils.ValidationResult) {
	first := validation.First()
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Error:  first.Message,
		Field:  first.Field,
		Errors: validation.Errors,
	})
}
