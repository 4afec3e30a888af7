package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	MsgInvalidJSON      = "Invalid JSON in request body"
	MsgEndpointNotFound = "Endpoint not found"
	MsgInternal         = "Internal server error"
)

var errBadJSON = echo.NewHTTPError(http.StatusBadRequest, MsgInvalidJSON)

// bindValid decodes the body into req and runs struct validation. A non-nil
// return has either been written already or is an *echo.HTTPError for the
// error handler.
func bindValid(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, errBadJSON
	}
	if err := c.Validate(req); err != nil {
		fields := ToFieldErrors(err)
		return false, failFields(c, http.StatusBadRequest, firstMessage(fields), fields)
	}
	return true, nil
}
