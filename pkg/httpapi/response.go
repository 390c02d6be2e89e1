package httpapi

import (
	"net/http"
	"time"

	"reward-platform/pkg/errutil"

	"github.com/gin-gonic/gin"
)

const MessageSuccess = "SUCCESS"

type Envelope struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

type ErrorEnvelope struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Timestamp string      `json:"timestamp"`
	Path      string      `json:"path"`
	Error     *ErrorCause `json:"error,omitempty"`
}

type ErrorCause struct {
	Reason  errutil.CoreStatus `json:"reason"`
	Details []errutil.Detail   `json:"details,omitempty"`
}

func now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// Respond wraps data in the success envelope. POST answers 201, every other
// method 200.
func Respond(c *gin.Context, data any) {
	status := http.StatusOK
	if c.Request.Method == http.MethodPost {
		status = http.StatusCreated
	}

	c.JSON(status, Envelope{
		Code:      status,
		Message:   MessageSuccess,
		Data:      data,
		Timestamp: now(),
		Path:      c.Request.URL.RequestURI(),
	})
}

// Fail writes the error envelope for err. Errors outside the errutil
// taxonomy are reported as 500 without exposing their text.
func Fail(c *gin.Context, err error) {
	body := ErrorEnvelope{
		Code:      http.StatusInternalServerError,
		Message:   "Internal server error",
		Timestamp: now(),
		Path:      c.Request.URL.RequestURI(),
	}

	if be, ok := errutil.As(err); ok {
		body.Code = be.HTTPStatus()
		body.Message = be.Message
		body.Error = &ErrorCause{Reason: be.Code, Details: be.Details}
	}

	c.AbortWithStatusJSON(body.Code, body)
}

// Bind decodes the JSON body into v. Decode failures are reported as
// BadRequest.
func Bind(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return errutil.BadRequest("invalid request body", err)
	}
	return nil
}
