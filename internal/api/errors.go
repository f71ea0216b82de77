package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired is returned when an authenticated request was rejected
// with 401 (or carried a token whose exp claim had passed). The session has
// already been cleared and the user sent to the login view, so callers
// should not display anything further.
var ErrSessionExpired = errors.New("session expired")

// ErrSignInRequired is returned when a protected endpoint answered 401 to a
// request that carried no token at all.
var ErrSignInRequired = errors.New("sign in required")

// Display strings for the non-verbatim error kinds.
const (
	MessageServer   = "Something went wrong on the server. Please try again."
	MessageNetwork  = "Could not reach the server. Check your connection and try again."
	MessageSignIn   = "Please sign in to continue."
	MessageTimedOut = "The server took too long to respond. Please try again."
)

// Kind classifies an APIError for display.
type Kind int

const (
	// KindValidation covers 4xx answers and tagged failures; the backend
	// message is shown verbatim.
	KindValidation Kind = iota
	// KindServer covers 5xx answers.
	KindServer
	// KindNetwork means the request never produced a response.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindForStatus maps an HTTP status to an error kind.
func KindForStatus(status int) Kind {
	if status >= http.StatusInternalServerError {
		return KindServer
	}
	return KindValidation
}

// APIError is a failed backend exchange.
type APIError struct {
	Kind    Kind
	Status  int    // 0 for network failures
	Message string // backend message, or a fallback
	Err     error  // transport error for KindNetwork
}

func (e *APIError) Error() string {
	switch {
	case e.Kind == KindNetwork && e.Err != nil:
		return fmt.Sprintf("network error: %v", e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// DecodeError reports a response body that did not have the expected shape.
type DecodeError struct {
	Status int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response (status %d): %v", e.Status, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Message converts any error into the string shown to the user. It returns
// "" for ErrSessionExpired, which is handled globally.
func Message(err error) string {
	if err == nil || errors.Is(err, ErrSessionExpired) {
		return ""
	}
	if errors.Is(err, ErrSignInRequired) {
		return MessageSignIn
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case KindValidation:
			if apiErr.Message != "" {
				return apiErr.Message
			}
			return fmt.Sprintf("Server responded with status %d.", apiErr.Status)
		case KindServer:
			return MessageServer
		case KindNetwork:
			if errors.Is(apiErr.Err, context.DeadlineExceeded) {
				return MessageTimedOut
			}
			return MessageNetwork
		}
	}

	var decErr *DecodeError
	if errors.As(err, &decErr) {
		return MessageServer
	}

	// Local validation errors and anything else carry their own text.
	return err.Error()
}
