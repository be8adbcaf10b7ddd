package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aijournal/aijournal/internal/services"
)

// respond renders a service envelope, choosing the status from the failure
// kind. successStatus covers the happy path (200 for reads, 201 for creates).
func respond(c *gin.Context, result services.Result, successStatus int) {
	c.JSON(statusFor(result, successStatus), result)
}

func statusFor(result services.Result, successStatus int) int {
	if result.Success {
		return successStatus
	}
	switch result.Kind {
	case services.FailNotFound:
		return http.StatusNotFound
	case services.FailConflict:
		return http.StatusConflict
	case services.FailProvider:
		return http.StatusBadGateway
	case services.FailInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}
