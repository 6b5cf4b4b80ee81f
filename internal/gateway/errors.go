package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies a gateway failure for user-facing messaging.
type Kind int

const (
	// KindTimeout means the request exceeded the transport timeout.
	KindTimeout Kind = iota
	// KindServerError means the backend answered with a 5xx status.
	KindServerError
	// KindNotFound means the backend answered with a 4xx status.
	KindNotFound
	// KindUnreachable means no response was received at all.
	KindUnreachable
	// KindApplication means the backend answered success:false with its
	// own error message.
	KindApplication
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindServerError:
		return "server_error"
	case KindNotFound:
		return "not_found"
	case KindUnreachable:
		return "unreachable"
	case KindApplication:
		return "application"
	}
	return "unknown"
}

// Error is a classified gateway failure.
type Error struct {
	Kind    Kind
	Message string // user-facing message
	Err     error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Fixed user messages per failure kind. The timeout hint matters: complex
// natural-language questions routinely run long on the backend.
const (
	msgTimeout     = "The query is taking longer than expected. Complex questions can take a while to resolve, please try again."
	msgServerError = "The backend hit an internal error processing your query. Please try again in a moment."
	msgNotFound    = "The query endpoint was not found. Check the backend URL in your configuration."
	msgUnreachable = "Could not reach the backend. Is the server running?"
)

// UserMessage returns the message to surface for any error coming out of
// the gateway. Non-gateway errors fall back to their Error() text.
func UserMessage(err error) string {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// classifyTransport maps an error returned by the HTTP client (no
// response received) to a gateway error.
func classifyTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: msgTimeout, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &Error{Kind: KindTimeout, Message: msgTimeout, Err: err}
	}
	return &Error{Kind: KindUnreachable, Message: msgUnreachable, Err: err}
}

// classifyStatus maps a non-2xx response status to a gateway error.
func classifyStatus(status int) *Error {
	if status >= http.StatusInternalServerError {
		return &Error{
			Kind:    KindServerError,
			Message: msgServerError,
			Err:     fmt.Errorf("backend returned status %d", status),
		}
	}
	return &Error{
		Kind:    KindNotFound,
		Message: msgNotFound,
		Err:     fmt.Errorf("backend returned status %d", status),
	}
}

// appError wraps an explicit success:false message from the backend.
func appError(message string) *Error {
	if message == "" {
		message = "The backend could not process this query."
	}
	return &Error{Kind: KindApplication, Message: message}
}
