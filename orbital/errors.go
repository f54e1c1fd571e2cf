package orbital

import (
	"errors"
	"fmt"
)

var (
	// ErrGatewayUnreachable is returned once the transport's attempt
	// budget across both endpoints is exhausted without a usable
	// response body.
	ErrGatewayUnreachable = errors.New("gateway unreachable")

	// ErrMalformedResponse is returned when the gateway answers with a
	// payload that is not well-formed or has no response body element.
	ErrMalformedResponse = errors.New("malformed gateway response")
)

// ConfigurationError reports an unusable client configuration (unknown
// platform identifier, unknown template name). It is fatal and never
// retried.
type ConfigurationError struct {
	Field  string
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Detail)
}

// InvalidRequestError reports request input that would be rejected or
// corrupted upstream (malformed amount, bad expiry, missing payment
// method). The request is never sent.
type InvalidRequestError struct {
	Field  string
	Detail string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Detail)
}

func invalidRequest(field, format string, args ...any) error {
	return &InvalidRequestError{Field: field, Detail: fmt.Sprintf(format, args...)}
}
