package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondRateLimited carries the retry hint both in the body and the
// standard Retry-After header (in seconds).
func RespondRateLimited(c *gin.Context, retryAfterHours int, err error) {
	c.Header("Retry-After", fmt.Sprintf("%d", retryAfterHours*3600))
	msg := "rate limit reached"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error": gin.H{
			"message":         msg,
			"code":            "rate_limited",
			"retryAfterHours": retryAfterHours,
		},
	})
}
