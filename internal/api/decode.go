package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// errorMessage extracts the backend's `message` field from an error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return DefaultErrorMessage
	}
	if msg, ok := payload.Message.(string); ok && msg != "" {
		return msg
	}
	return DefaultErrorMessage
}

// decodeList accepts either a bare JSON array or an object holding the
// array under key (or "data"). A missing key or empty body yields an
// empty list.
func decodeList[T any](body []byte, key string) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []T{}, nil
	}

	if body[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
		}
		raw, ok := envelope[key]
		if !ok {
			raw, ok = envelope["data"]
		}
		if !ok {
			return []T{}, nil
		}
		body = bytes.TrimSpace(raw)
		if len(body) == 0 || bytes.Equal(body, []byte("null")) {
			return []T{}, nil
		}
	}

	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// decodeOne accepts either the object itself or an envelope holding it
// under key.
func decodeOne[T any](body []byte, key string) (*T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, fmt.Errorf("%w: expected object", ErrUnexpectedResponse)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	if raw, ok := envelope[key]; ok && len(bytes.TrimSpace(raw)) > 0 && bytes.TrimSpace(raw)[0] == '{' {
		body = raw
	}

	out := new(T)
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return out, nil
}
