package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/utafrali/brand-admin/pkg/errors"
)

const (
	// maxErrorBody bounds how much of a failed response body is read.
	maxErrorBody = 1 << 20
	// maxRawMessage bounds the unstructured body kept in Message.
	maxRawMessage = 512
)

// StatusError is returned for every non-2xx downstream response. It keeps the
// HTTP status so callers can branch on it without inspecting untyped errors.
type StatusError struct {
	Service    string
	StatusCode int
	Code       string
	Message    string
	// Structured is set when Code and Message came from a JSON error body.
	// Otherwise Message is a truncated raw body or the status text and is
	// not fit to show to users.
	Structured bool
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s returned status %d (%s): %s", e.Service, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Message)
}

// Is maps the downstream status onto the shared sentinel errors.
func (e *StatusError) Is(target error) bool {
	switch target {
	case apperrors.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case apperrors.ErrInvalidInput:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	case apperrors.ErrConflict:
		return e.StatusCode == http.StatusConflict
	case apperrors.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case apperrors.ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case apperrors.ErrServiceUnavail:
		return e.StatusCode == http.StatusServiceUnavailable
	case apperrors.ErrUpstream:
		return e.StatusCode >= 500
	}
	return false
}

// downstreamError covers the two error body shapes seen from upstream
// services: the `{"error":{"code","message"}}` envelope and a flat
// `{"type","message"}` object.
type downstreamError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and returns a
// *StatusError. Structured bodies keep their code and message; anything else
// falls back to the raw body, truncated, or the status text.
//
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	statusErr := &StatusError{
		Service:    serviceName,
		StatusCode: resp.StatusCode,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		statusErr.Message = fmt.Sprintf("failed to read body: %v", err)
		return statusErr
	}

	var downstream downstreamError
	if json.Unmarshal(body, &downstream) == nil {
		switch {
		case downstream.Error != nil && downstream.Error.Message != "":
			statusErr.Code = downstream.Error.Code
			statusErr.Message = downstream.Error.Message
			statusErr.Structured = true
			return statusErr
		case downstream.Message != "":
			statusErr.Code = downstream.Code
			if statusErr.Code == "" {
				statusErr.Code = downstream.Type
			}
			statusErr.Message = downstream.Message
			statusErr.Structured = true
			return statusErr
		}
	}

	statusErr.Message = strings.TrimSpace(string(body))
	if len(statusErr.Message) > maxRawMessage {
		statusErr.Message = strings.ToValidUTF8(statusErr.Message[:maxRawMessage], "") + "..."
	}
	if statusErr.Message == "" {
		statusErr.Message = http.StatusText(resp.StatusCode)
	}
	return statusErr
}

// StatusCode returns the downstream HTTP status carried by err, or 0 when err
// did not come from a downstream response.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
