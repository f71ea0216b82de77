package viewmodel

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdant-app/verdant/internal/session"
)

// plantsByType answers /plants from a per-type table; other types get 404.
func plantsByType(e *testEnv, found map[string]string) {
	e.backend.mux.HandleFunc("GET /plants", func(w http.ResponseWriter, r *http.Request) {
		body, ok := found[r.URL.Query().Get("type")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Plant not found in any database."}`))
			return
		}
		w.Write([]byte(body))
	})
}

func TestPlantDetailsRequestedTypeHit(t *testing.T) {
	e := newTestEnv(t)
	plantsByType(e, map[string]string{"indoor": `{"common_name":"Snake Plant","image_url":"https://img/snake.jpg"}`})

	p := NewPlantDetails(e.client, "")
	require.NoError(t, p.Search(context.Background(), "snake plant", ""))

	st := p.State()
	assert.Equal(t, "indoor", st.RequestedType)
	assert.Equal(t, "indoor", st.ActualType)
	assert.Equal(t, "Snake Plant Care Guide", st.PageTitle())
	assert.Equal(t, "https://img/snake.jpg", st.DisplayImageURL())
	assert.Len(t, e.backend.Calls(), 1)
}

func TestPlantDetailsFallsBackOnce(t *testing.T) {
	e := newTestEnv(t)
	plantsByType(e, map[string]string{"other": `{"common_name":"Oak","image_url":"/default_image.jpg"}`})

	p := NewPlantDetails(e.client, "")
	require.NoError(t, p.Search(context.Background(), "oak", "indoor"))

	st := p.State()
	assert.Equal(t, "indoor", st.RequestedType)
	assert.Equal(t, "other", st.ActualType)
	assert.Equal(t, FallbackImageURL, st.DisplayImageURL())
	assert.Len(t, e.backend.Calls(), 2)
}

func TestPlantDetailsNotFound(t *testing.T) {
	e := newTestEnv(t)
	plantsByType(e, nil)

	p := NewPlantDetails(e.client, "")
	err := p.Search(context.Background(), "Zzyzx", "other")
	var nf *PlantNotFoundError
	require.ErrorAs(t, err, &nf)

	st := p.State()
	assert.Equal(t, "Plant 'Zzyzx' not found in the database or external API.", st.Err)
	assert.Nil(t, st.Plant)
	assert.Equal(t, "Loading...", st.PageTitle())
	assert.Equal(t, FallbackImageURL, st.DisplayImageURL())
	assert.Len(t, e.backend.Calls(), 2, "exactly one fallback attempt")
}

func TestPlantDetailsServerErrorDoesNotFallBack(t *testing.T) {
	e := newTestEnv(t)
	e.backend.reply("GET /plants", 500, `{"message":"Trefle down"}`)

	p := NewPlantDetails(e.client, "")
	require.Error(t, p.Search(context.Background(), "oak", "indoor"))
	assert.Len(t, e.backend.Calls(), 1)
}

func TestPlantDetailsSelectedType(t *testing.T) {
	e := newTestEnv(t)
	plantsByType(e, map[string]string{"other": `{"common_name":"Oak"}`})

	p := NewPlantDetails(e.client, "indoor")
	assert.Equal(t, "indoor", p.SelectedType())
	require.NoError(t, p.SelectType("other"))
	assert.Equal(t, "other", p.SelectedType())
	assert.Error(t, p.SelectType("outdoor"))

	v, ok, err := e.sessions.Store().Get(session.KeySelectedPlantType)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "other", v)

	require.NoError(t, p.Search(context.Background(), "oak", ""))
	assert.Len(t, e.backend.Calls(), 1)
}

func TestPlantDetailsBlankNameIsNoop(t *testing.T) {
	e := newTestEnv(t)
	p := NewPlantDetails(e.client, "")
	require.NoError(t, p.Search(context.Background(), "  ", ""))
	assert.Empty(t, e.backend.Calls())
}

func TestIsDataPresent(t *testing.T) {
	tests := map[string]bool{
		"":                               false,
		"  ":                             false,
		"N/A":                            false,
		"unknown":                        false,
		"Not specified in API response.": false,
		"Bright, indirect light":         true,
		"0":                              true,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsDataPresent(in), "%q", in)
	}
}
