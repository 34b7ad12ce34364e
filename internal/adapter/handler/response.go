package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
)

const kindUnauthorized domain.ErrorKind = "UNAUTHORIZED"

var errUnauthorized = domain.NewError(kindUnauthorized, 6001, "operator token missing or invalid")

// Response is the envelope of every API reply.
type Response struct {
	Success bool          `json:"success"`
	Data    interface{}   `json:"data,omitempty"`
	Error   *domain.Error `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

func fail(c *gin.Context, err error) {
	derr := domain.AsError(err)
	if derr.Kind == domain.KindInternal {
		// The cause stays in the logs.
		derr = domain.NewError(domain.KindInternal, derr.Code, domain.ErrInternal.Message)
	}
	c.AbortWithStatusJSON(statusFor(derr.Kind), Response{Success: false, Error: derr})
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindPrecondition:
		return http.StatusUnprocessableEntity
	case domain.KindConflict:
		return http.StatusConflict
	case kindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
