package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIError is the single error type handlers raise for validation and
// business-rule failures.  It carries the HTTP status and a message
// that identifies the offending field; the boundary serializes every
// one uniformly as {"error": message}.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

func apiErr(status int, msg string) *APIError {
	return &APIError{Status: status, Message: msg}
}

// HTTPErrorHandler is installed as Echo's error handler so that every
// error escaping a handler is serialized as {"error": message}.
// Unknown errors become an opaque 500; their detail goes to the log,
// never to the client.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var ae *APIError
	if errors.As(err, &ae) {
		_ = c.JSON(ae.Status, echo.Map{"error": ae.Message})
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = c.JSON(he.Code, echo.Map{"error": fmt.Sprintf("%v", he.Message)})
		return
	}
	c.Logger().Error(err)
	_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}
