package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hooplab/courtside/pkg/apperror"
)

// ResponseError standardized error response. Only the translatable message
// key reaches the client; raw detail goes to the log.
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": apperror.MessageKey(err)})
}
