package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/verdant-app/verdant/internal/api"
	"github.com/verdant-app/verdant/internal/config"
	"github.com/verdant-app/verdant/internal/session"
)

// FallbackImageURL replaces missing plant images.
const FallbackImageURL = "https://placehold.co/800x250/065f46/ffffff?text=Image+Unavailable"

const placeholderImage = "/default_image.jpg"

// PlantNotFoundError reports a plant that neither plant type knows.
type PlantNotFoundError struct {
	Name string
}

func (e *PlantNotFoundError) Error() string {
	return fmt.Sprintf("Plant '%s' not found in the database or external API.", e.Name)
}

// PlantDetailsState is a snapshot of the plant lookup.
type PlantDetailsState struct {
	Query         string
	RequestedType string
	ActualType    string
	Plant         *api.Plant
	Loading       bool
	Err           string
}

// DisplayImageURL is the image to show, falling back when the plant has
// none or only the backend's placeholder.
func (s PlantDetailsState) DisplayImageURL() string {
	if s.Plant == nil || s.Plant.ImageURL == "" || s.Plant.ImageURL == placeholderImage {
		return FallbackImageURL
	}
	return s.Plant.ImageURL
}

// PageTitle is the heading for the details view.
func (s PlantDetailsState) PageTitle() string {
	if s.Plant == nil {
		return "Loading..."
	}
	return s.Plant.CommonName + " Care Guide"
}

// PlantDetails looks up care guides by plant name.
type PlantDetails struct {
	client      *api.Client
	defaultType string

	mu    sync.Mutex
	state PlantDetailsState
}

// NewPlantDetails creates the view model. defaultType is used when neither
// the caller nor the stored preference names a type.
func NewPlantDetails(client *api.Client, defaultType string) *PlantDetails {
	if defaultType == "" {
		defaultType = config.PlantTypeIndoor
	}
	return &PlantDetails{client: client, defaultType: defaultType}
}

func (p *PlantDetails) State() PlantDetailsState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// AlternateType returns the other plant type.
func AlternateType(t string) string {
	if t == config.PlantTypeIndoor {
		return config.PlantTypeOther
	}
	return config.PlantTypeIndoor
}

func validPlantType(t string) bool {
	return t == config.PlantTypeIndoor || t == config.PlantTypeOther
}

// SelectedType is the stored type preference, or the default.
func (p *PlantDetails) SelectedType() string {
	if sessions := p.client.Sessions(); sessions != nil {
		if v, ok, err := sessions.Store().Get(session.KeySelectedPlantType); err == nil && ok && validPlantType(v) {
			return v
		}
	}
	return p.defaultType
}

// SelectType stores the type preference for later searches.
func (p *PlantDetails) SelectType(t string) error {
	if !validPlantType(t) {
		return fmt.Errorf("plant type must be %q or %q, got %q", config.PlantTypeIndoor, config.PlantTypeOther, t)
	}
	sessions := p.client.Sessions()
	if sessions == nil {
		return errors.New("no session store")
	}
	return sessions.Store().Set(session.KeySelectedPlantType, t)
}

// Search looks the plant up under plantType (the stored preference when
// empty), then once under the alternate type when the first lookup found
// nothing.
func (p *PlantDetails) Search(ctx context.Context, name, plantType string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if plantType == "" {
		plantType = p.SelectedType()
	}

	p.mu.Lock()
	if err := begin(&p.state.Loading, &p.state.Err); err != nil {
		p.mu.Unlock()
		return err
	}
	p.state.Query = name
	p.state.RequestedType = plantType
	p.state.ActualType = ""
	p.state.Plant = nil
	p.mu.Unlock()

	actual := plantType
	plant, err := p.client.Plant(ctx, name, plantType)
	if notFound(err) {
		actual = AlternateType(plantType)
		plant, err = p.client.Plant(ctx, name, actual)
	}
	if notFound(err) {
		err = &PlantNotFoundError{Name: name}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Loading = false
	if err != nil {
		p.state.Err = api.Message(err)
		return err
	}
	p.state.Plant = plant
	p.state.ActualType = actual
	return nil
}

func notFound(err error) bool {
	var apiErr *api.APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
