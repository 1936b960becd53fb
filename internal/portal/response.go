package portal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// envelope is the backend's standard response wrapper.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// wrapped reports whether the payload is the backend wrapper rather than a
// bare resource that happens to carry a status field of its own (service
// requests do).
func (e envelope) wrapped() bool {
	return strings.EqualFold(e.Status, "OK") || strings.EqualFold(e.Status, "error")
}

// decodeBody unwraps the response envelope when present and decodes the
// payload into out. Endpoints that return bare payloads decode directly.
func decodeBody(body []byte, out any) error {
	if len(body) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.wrapped() {
		if strings.EqualFold(env.Status, "error") {
			if env.Error != "" {
				return errors.New(env.Error)
			}
			return errors.New("server reported an error")
		}
		if out == nil || len(env.Data) == 0 {
			return nil
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response payload: %w", err)
		}
		return nil
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// serverError extracts a server-supplied error message from an error body,
// returning "" when the body carries none.
func serverError(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Error
}

// pick returns the first non-empty string. Older backend endpoints answer
// with camelCase keys while newer ones use snake_case; normalization
// happens here instead of in view code.
func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseDate accepts the date formats the backend is known to emit.
func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
