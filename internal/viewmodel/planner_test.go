package viewmodel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlannerBlankPromptIsNoop(t *testing.T) {
	e := newTestEnv(t)
	e.signIn()
	p := NewPlanner(e.client)

	require.NoError(t, p.Submit(context.Background(), "   "))
	assert.Empty(t, e.backend.Calls())
	assert.Equal(t, PlannerState{}, p.State())
}

func TestPlannerRequiresSession(t *testing.T) {
	e := newTestEnv(t)
	p := NewPlanner(e.client)

	assert.ErrorIs(t, p.Submit(context.Background(), "shade garden"), ErrSignInToPlan)
	assert.Equal(t, "Please log in to use the AI Garden Planner.", p.State().Err)
	assert.False(t, p.State().Loading)
	assert.Empty(t, e.backend.Calls())
}

func TestPlannerSuccess(t *testing.T) {
	e := newTestEnv(t)
	e.signIn()
	e.backend.reply("POST /ai/plan", 200, `{"status":"success","plan":"## Layout\n* Ferns along the north wall"}`)

	p := NewPlanner(e.client)
	require.NoError(t, p.Submit(context.Background(), "north-facing yard"))
	st := p.State()
	assert.Equal(t, "north-facing yard", st.Prompt)
	assert.Equal(t, "## Layout\n* Ferns along the north wall", st.Plan)
	assert.Empty(t, st.Err)
}

func TestPlannerTaggedFailure(t *testing.T) {
	e := newTestEnv(t)
	e.signIn()
	e.backend.reply("POST /ai/plan", 200, `{"status":"error","message":"Gemini quota exceeded"}`)

	p := NewPlanner(e.client)
	require.Error(t, p.Submit(context.Background(), "x"))
	assert.Equal(t, "Gemini quota exceeded", p.State().Err)
	assert.Empty(t, p.State().Plan)
}
