package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"session expired", ErrSessionExpired, ""},
		{"wrapped session expired", fmt.Errorf("load: %w", ErrSessionExpired), ""},
		{"sign in", ErrSignInRequired, MessageSignIn},
		{"validation verbatim", &APIError{Kind: KindValidation, Status: 401, Message: "Invalid credentials"}, "Invalid credentials"},
		{"validation no message", &APIError{Kind: KindValidation, Status: 404}, "Server responded with status 404."},
		{"server", &APIError{Kind: KindServer, Status: 500, Message: "traceback..."}, MessageServer},
		{"network", &APIError{Kind: KindNetwork, Err: errors.New("connection refused")}, MessageNetwork},
		{"timeout", &APIError{Kind: KindNetwork, Err: fmt.Errorf("get: %w", context.DeadlineExceeded)}, MessageTimedOut},
		{"decode", &DecodeError{Status: 200, Err: errors.New("bad")}, MessageServer},
		{"local", errors.New("Collection name must be at least 3 characters."), "Collection name must be at least 3 characters."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestKindForStatus(t *testing.T) {
	assert.Equal(t, KindValidation, KindForStatus(400))
	assert.Equal(t, KindValidation, KindForStatus(409))
	assert.Equal(t, KindServer, KindForStatus(500))
	assert.Equal(t, KindServer, KindForStatus(503))
}

func TestAPIErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &APIError{Kind: KindNetwork, Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "network error")
}
