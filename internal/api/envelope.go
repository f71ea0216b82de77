package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Body status tags used by the backend.
const (
	TagSuccess = "success"
	TagError   = "error"
	TagEmpty   = "empty"
)

// Envelope is a backend response normalized to one shape. The backend mixes
// two conventions: some endpoints wrap results as {"status", "data",
// "message"}, others return the payload flat and signal failure only through
// the HTTP status.
type Envelope struct {
	HTTPStatus int

	// Tagged is true when the body carried a string "status" field.
	Tagged bool
	Tag    string

	// Message is the backend's human-readable message ("message" or "error").
	Message string

	// Data is the payload: "data" for tagged bodies that have it, the whole
	// body otherwise. nil for empty bodies.
	Data json.RawMessage

	// Body is the complete trimmed response body.
	Body json.RawMessage
}

// DecodeEnvelope normalizes a raw response. Non-JSON bodies are rejected
// with a DecodeError; an empty body yields an envelope with nil Data.
func DecodeEnvelope(status int, body []byte) (*Envelope, error) {
	env := &Envelope{HTTPStatus: status}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return env, nil
	}
	if !gjson.ValidBytes(trimmed) {
		return nil, &DecodeError{Status: status, Err: errors.New("body is not valid JSON")}
	}

	root := gjson.ParseBytes(trimmed)
	env.Body = json.RawMessage(trimmed)
	env.Data = env.Body

	switch {
	case root.IsObject():
		if st := root.Get("status"); st.Type == gjson.String {
			env.Tagged = true
			env.Tag = st.String()
			if data := root.Get("data"); data.Exists() {
				env.Data = json.RawMessage(data.Raw)
			}
		}
		env.Message = firstString(root, "message", "error", "msg")
	case root.IsArray():
		// Some error paths serialize as [{"error": "..."}, 401].
		if first := root.Get("0"); first.IsObject() {
			if msg := firstString(first, "error", "message"); msg != "" && status >= 300 {
				env.Message = msg
			}
		}
	}
	return env, nil
}

func firstString(obj gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := obj.Get(k); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// OK reports success: a 2xx status and no failure tag.
func (e *Envelope) OK() bool {
	if e.HTTPStatus < 200 || e.HTTPStatus >= 300 {
		return false
	}
	return !e.Tagged || e.Tag == TagSuccess || e.Tag == TagEmpty
}

// Err returns nil for a successful envelope and an *APIError otherwise.
func (e *Envelope) Err() error {
	if e.OK() {
		return nil
	}
	msg := e.Message
	if msg == "" {
		if e.HTTPStatus >= 200 && e.HTTPStatus < 300 {
			msg = "Request failed."
		} else {
			msg = fmt.Sprintf("Server responded with status %d.", e.HTTPStatus)
		}
	}
	return &APIError{Kind: KindForStatus(e.HTTPStatus), Status: e.HTTPStatus, Message: msg}
}

// Require checks both conventions strictly: the endpoint must answer 2xx
// and tag the body "success".
func (e *Envelope) Require() error {
	if err := e.Err(); err != nil {
		return err
	}
	if !e.Tagged || e.Tag != TagSuccess {
		return &APIError{
			Kind:    KindValidation,
			Status:  e.HTTPStatus,
			Message: nonEmpty(e.Message, "The server did not confirm the request."),
		}
	}
	return nil
}

// Into decodes the payload into v. A missing payload or a payload of the
// wrong shape is a DecodeError.
func (e *Envelope) Into(v any) error {
	if len(e.Data) == 0 {
		return &DecodeError{Status: e.HTTPStatus, Err: errors.New("empty response body")}
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return &DecodeError{Status: e.HTTPStatus, Err: err}
	}
	return nil
}

// IsEmptyArray reports whether the payload is the JSON literal [].
func (e *Envelope) IsEmptyArray() bool {
	r := gjson.ParseBytes(e.Data)
	return r.IsArray() && len(r.Array()) == 0
}

// Field looks up a gjson path in the complete body.
func (e *Envelope) Field(path string) gjson.Result {
	return gjson.GetBytes(e.Body, path)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
