// Package httpapi exposes the service layer over REST. Responses use a
// uniform JSON envelope so the frontend can branch on `success` alone.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avcastro/vaultbox/internal/common"
)

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

func respSuccessStr(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: msg})
}

func respError(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, APIResponse{Success: false, Message: msg})
}

// respServiceError maps the service-layer error taxonomy onto HTTP status
// codes. Unclassified errors come back as an opaque 500.
func respServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		respError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		respError(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrNotOwner), errors.Is(err, common.ErrForbidden):
		respError(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, common.ErrGranteeNotFound):
		respError(c, http.StatusNotFound, common.ErrGranteeNotFound.Error())
	case errors.Is(err, common.ErrShareNotFound):
		respError(c, http.StatusNotFound, common.ErrShareNotFound.Error())
	case errors.Is(err, common.ErrNotFound):
		respError(c, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrAlreadyShared):
		respError(c, http.StatusConflict, common.ErrAlreadyShared.Error())
	case errors.Is(err, common.ErrExternal):
		respError(c, http.StatusBadGateway, "upstream service unavailable")
	default:
		// Includes ErrCiphertextInvalid: never leak codec detail to callers.
		respError(c, http.StatusInternalServerError, "internal error")
	}
}
