// Package client holds the HTTP clients for the services the brand form
// talks to: media for image uploads and catalog for brand creation.
package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/utafrali/brand-admin/internal/domain"
	"github.com/utafrali/brand-admin/pkg/httpclient"
)

// failureFrom turns a transport or status error into a typed Failure. Only
// a structured error body supplies Code and Message; raw bodies such as a
// proxy's HTML error page stay in Err for logging.
func failureFrom(kind domain.FailureKind, err error) *domain.Failure {
	f := &domain.Failure{Kind: kind, Err: err}
	var se *httpclient.StatusError
	if errors.As(err, &se) {
		f.Status = se.StatusCode
		if se.Structured {
			f.Code = se.Code
			f.Message = se.Message
		}
	}
	return f
}

// checkResponse returns a Failure for any non-2xx response. The body is
// consumed and closed in that case.
func checkResponse(kind domain.FailureKind, resp *http.Response, service string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return failureFrom(kind, httpclient.ParseResponseError(resp, service))
}

func protocolFailure(kind domain.FailureKind, format string, args ...any) *domain.Failure {
	return &domain.Failure{Kind: kind, Err: fmt.Errorf(format, args...)}
}
