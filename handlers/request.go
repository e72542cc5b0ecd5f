package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mailcraft-backend/validation"

	"github.com/gin-gonic/gin"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// bindBody decodes the JSON request body into an untyped map for schema
// validation. An empty body yields an empty map and no violation. A body
// that is too large, malformed, or not a JSON object yields an empty map
// plus a body-level violation with an empty path.
func bindBody(c *gin.Context) (map[string]any, *validation.Violation) {
	body := map[string]any{}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return body, &validation.Violation{
				Path:    []string{},
				Code:    "too_big",
				Message: "Request body cannot exceed 1 MiB",
			}
		}
		return body, invalidJSON()
	}
	if len(raw) == 0 {
		return body, nil
	}
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return map[string]any{}, invalidJSON()
	}
	return body, nil
}

func invalidJSON() *validation.Violation {
	return &validation.Violation{
		Path:    []string{},
		Code:    "invalid_json",
		Message: "Request body must be a JSON object",
	}
}

// parseBody binds the request body and runs parse over it. A body-level
// violation is reported ahead of the field violations, and the zero input
// is returned with it.
func parseBody[T any](c *gin.Context, parse func(map[string]any) (T, validation.Violations)) (T, validation.Violations) {
	body, bodyViolation := bindBody(c)
	input, violations := parse(body)
	if bodyViolation != nil {
		var zero T
		return zero, append(validation.Violations{*bodyViolation}, violations...)
	}
	return input, violations
}
