// Package viewmodel holds the screen-level state of the client: current
// data, loading flags and a display-ready error string, plus the actions
// that change them. View models are safe for concurrent use; each action
// takes a context and returns its error so callers can set an exit status.
package viewmodel

import (
	"errors"
	"strings"

	"github.com/verdant-app/verdant/internal/api"
	"github.com/verdant-app/verdant/internal/session"
)

// ErrBusy is returned when the same action is already in flight.
var ErrBusy = errors.New("another request is already in progress")

// begin marks an action as started. Caller holds the view model's lock.
func begin(flag *bool, errMsg *string) error {
	if *flag {
		return ErrBusy
	}
	*flag = true
	*errMsg = ""
	return nil
}

// currentSession returns the signed-in session, or the zero Session when
// the store cannot be read.
func currentSession(c *api.Client) session.Session {
	if c.Sessions() == nil {
		return session.Session{}
	}
	sess, err := c.Sessions().Current()
	if err != nil {
		return session.Session{}
	}
	return sess
}

var missingMarkers = map[string]bool{
	"":                               true,
	"n/a":                            true,
	"unknown":                        true,
	"not specified in api response.": true,
}

// IsDataPresent reports whether a care field holds real data rather than a
// placeholder the backend fills in for missing values.
func IsDataPresent(s string) bool {
	return !missingMarkers[strings.ToLower(strings.TrimSpace(s))]
}
