package viewmodel

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/verdant-app/verdant/internal/api"
)

var ErrSignInToPlan = errors.New("Please log in to use the AI Garden Planner.")

// PlannerState holds the last prompt and the plan it produced.
type PlannerState struct {
	Prompt  string
	Plan    string // markdown
	Loading bool
	Err     string
}

// Planner asks the backend for AI garden plans.
type Planner struct {
	client *api.Client

	mu    sync.Mutex
	state PlannerState
}

func NewPlanner(client *api.Client) *Planner {
	return &Planner{client: client}
}

func (p *Planner) State() PlannerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Submit requests a plan for prompt. A blank prompt does nothing.
func (p *Planner) Submit(ctx context.Context, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return nil
	}
	p.mu.Lock()
	if err := begin(&p.state.Loading, &p.state.Err); err != nil {
		p.mu.Unlock()
		return err
	}
	p.state.Prompt = prompt
	p.state.Plan = ""
	p.mu.Unlock()

	var (
		plan string
		err  error
	)
	if currentSession(p.client).SignedIn() {
		plan, err = p.client.Plan(ctx, prompt)
	} else {
		err = ErrSignInToPlan
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Loading = false
	if err != nil {
		p.state.Err = api.Message(err)
		return err
	}
	p.state.Plan = plan
	return nil
}
