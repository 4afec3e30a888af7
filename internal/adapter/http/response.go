package http

import (
	"slices"

	"github.com/labstack/echo/v4"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func success(c echo.Context, code int, msg string, data any) error {
	return c.JSON(code, Response{Success: true, Message: msg, Data: data})
}

func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, Response{Success: false, Message: msg})
}

func failFields(c echo.Context, code int, msg string, fields map[string]string) error {
	return c.JSON(code, Response{Success: false, Message: msg, Errors: fields})
}

// firstMessage picks the message of the lexically first field so the
// top-level message is stable across runs.
func firstMessage(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if len(keys) == 0 {
		return ""
	}
	return fields[keys[0]]
}
