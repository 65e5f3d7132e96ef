package storeapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// ProblemDetail is the error body returned by the store service.
type ProblemDetail struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Status   int    `json:"status,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// DisplayMessage prefers detail over title. Empty means the shape was not recognised.
func (p *ProblemDetail) DisplayMessage() string {
	if p == nil {
		return ""
	}
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

type rawProblem struct {
	Type     json.RawMessage `json:"type"`
	Title    json.RawMessage `json:"title"`
	Status   json.RawMessage `json:"status"`
	Detail   json.RawMessage `json:"detail"`
	Instance json.RawMessage `json:"instance"`
}

// decodeProblem returns nil when the body is absent or not a JSON object.
// Members of an unexpected type do not spoil the rest of the body.
func decodeProblem(body []byte) *ProblemDetail {
	if len(body) == 0 {
		return nil
	}
	var raw rawProblem
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}
	status, _ := strconv.Atoi(string(bytes.TrimSpace(raw.Status)))
	return &ProblemDetail{
		Type:     scalarText(raw.Type),
		Title:    scalarText(raw.Title),
		Status:   status,
		Detail:   scalarText(raw.Detail),
		Instance: scalarText(raw.Instance),
	}
}

// scalarText renders a string, non-zero number or true as display text.
// Zero values, null, objects and arrays render as "".
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case 't':
		return "true"
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if f, err := strconv.ParseFloat(string(raw), 64); err != nil || f == 0 {
			return ""
		}
		return string(raw)
	}
	return ""
}

// ResponseError is returned for every non-2xx store response.
type ResponseError struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	// Problem is nil when the body could not be read or decoded.
	Problem *ProblemDetail
	// ReadErr is set when the body was cut off after the status line. It is
	// kept out of the error chain so the failure still classifies as a
	// server response.
	ReadErr error
}

func newResponseError(resp *http.Response, body []byte) *ResponseError {
	return &ResponseError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       body,
		Problem:    decodeProblem(body),
	}
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// IsStatus reports whether err is a store response error with the given status.
func IsStatus(err error, status int) bool {
	respErr, ok := AsResponseError(err)
	return ok && respErr.StatusCode == status
}

// AsResponseError extracts the store response error from err's chain.
func AsResponseError(err error) (*ResponseError, bool) {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr, true
	}
	return nil, false
}
