package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		ok      bool
		tagged  bool
		message string
		data    string
	}{
		{"flat object", 200, `{"id":"p1","common_name":"Fern"}`, true, false, "", `{"id":"p1","common_name":"Fern"}`},
		{"flat array", 200, `[{"id":1}]`, true, false, "", `[{"id":1}]`},
		{"tagged success with data", 200, `{"status":"success","data":{"a":[]}}`, true, true, "", `{"a":[]}`},
		{"tagged success without data", 201, `{"status":"success","message":"Post created"}`, true, true, "Post created", `{"status":"success","message":"Post created"}`},
		{"tagged empty", 200, `{"status":"empty","data":[]}`, true, true, "", `[]`},
		{"tagged error on 200", 200, `{"status":"error","message":"Collection exists"}`, false, true, "Collection exists", ""},
		{"flat error on 404", 404, `{"message":"Plant not found"}`, false, false, "Plant not found", ""},
		{"error key", 400, `{"error":"Missing email"}`, false, false, "Missing email", ""},
		{"array error form", 401, `[{"error":"Invalid credentials"},401]`, false, false, "Invalid credentials", ""},
		{"numeric status is not a tag", 200, `{"status":200,"value":1}`, true, false, "", `{"status":200,"value":1}`},
		{"empty body", 204, ``, true, false, "", ""},
		{"server error", 500, `{"message":"boom"}`, false, false, "boom", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := DecodeEnvelope(tt.status, []byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.ok, env.OK())
			assert.Equal(t, tt.tagged, env.Tagged)
			assert.Equal(t, tt.message, env.Message)
			if tt.data != "" {
				assert.JSONEq(t, tt.data, string(env.Data))
			}
		})
	}
}

func TestDecodeEnvelopeRejectsNonJSON(t *testing.T) {
	for _, body := range []string{`<html></html>`, `{"a":`, `not json`} {
		_, err := DecodeEnvelope(200, []byte(body))
		var decErr *DecodeError
		assert.True(t, errors.As(err, &decErr), "body %q", body)
	}
}

func TestEnvelopeErrKinds(t *testing.T) {
	env, err := DecodeEnvelope(200, []byte(`{"status":"error"}`))
	require.NoError(t, err)
	var apiErr *APIError
	require.True(t, errors.As(env.Err(), &apiErr))
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Equal(t, "Request failed.", apiErr.Message)

	env, err = DecodeEnvelope(503, nil)
	require.NoError(t, err)
	require.True(t, errors.As(env.Err(), &apiErr))
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Equal(t, MessageServer, Message(env.Err()))

	env, err = DecodeEnvelope(409, []byte(`{"status":"error","message":"A collection with that name already exists."}`))
	require.NoError(t, err)
	assert.Equal(t, "A collection with that name already exists.", Message(env.Err()))
}

func TestEnvelopeRequire(t *testing.T) {
	env, _ := DecodeEnvelope(201, []byte(`{"status":"success","message":"ok"}`))
	assert.NoError(t, env.Require())

	// 2xx without a tag passes OK but not Require.
	env, _ = DecodeEnvelope(200, []byte(`{"message":"done"}`))
	assert.True(t, env.OK())
	err := env.Require()
	require.Error(t, err)
	assert.Equal(t, "done", Message(err))

	env, _ = DecodeEnvelope(200, []byte(`{}`))
	assert.Equal(t, "The server did not confirm the request.", Message(env.Require()))
}

func TestEnvelopeInto(t *testing.T) {
	env, _ := DecodeEnvelope(200, []byte(`{"status":"success","data":[{"id":7,"title":"Hi"}]}`))
	var posts []Post
	require.NoError(t, env.Into(&posts))
	require.Len(t, posts, 1)
	assert.Equal(t, ID("7"), posts[0].ID)

	// Shape mismatch is an error, never a silent empty value.
	var p Plant
	var decErr *DecodeError
	assert.True(t, errors.As(env.Into(&p), &decErr))

	empty, _ := DecodeEnvelope(204, nil)
	assert.True(t, errors.As(empty.Into(&p), &decErr))
}

func TestEnvelopeFieldAndEmptyArray(t *testing.T) {
	env, _ := DecodeEnvelope(201, []byte(`{"status":"success","message":"ok","data":[{"id":"c-9"}]}`))
	assert.Equal(t, "c-9", env.Field("data.0.id").String())
	assert.False(t, env.Field("post_id").Exists())
	assert.False(t, env.IsEmptyArray())

	env, _ = DecodeEnvelope(200, []byte(` [] `))
	assert.True(t, env.IsEmptyArray())
}
