package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/verdant-app/verdant/internal/api"
	"github.com/verdant-app/verdant/internal/config"
)

// MinCollectionName is the shortest accepted collection name.
const MinCollectionName = 3

var (
	ErrCollectionNameTooShort = fmt.Errorf("Collection name must be at least %d characters.", MinCollectionName)
	ErrCollectionNameEmpty    = errors.New("New collection name cannot be empty.")
	ErrCollectionNameSame     = errors.New("The new name must be different from the current name.")
	ErrCollectionRequired     = errors.New("Choose a collection.")
	ErrSignInForCollections   = errors.New("Please sign in to manage collections.")
)

// CollectionsState is a snapshot of the user's collections.
type CollectionsState struct {
	Collections api.Collections
	UserID      string
	Loading     bool
	Mutating    bool
	Err         string
	Notice      string
}

// Names returns the collection names in sorted order.
func (s CollectionsState) Names() []string {
	names := make([]string, 0, len(s.Collections))
	for name := range s.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns the displayable plants of one collection.
func (s CollectionsState) Entries(name string) []api.CollectionEntry {
	var out []api.CollectionEntry
	for _, e := range s.Collections[name] {
		if e.Visible() {
			out = append(out, e)
		}
	}
	return out
}

// Collections manages the signed-in user's named plant collections.
type Collections struct {
	client *api.Client

	mu    sync.Mutex
	state CollectionsState
}

func NewCollections(client *api.Client) *Collections {
	return &Collections{client: client, state: CollectionsState{Collections: api.Collections{}}}
}

func (c *Collections) State() CollectionsState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Collections = make(api.Collections, len(c.state.Collections))
	for k, v := range c.state.Collections {
		s.Collections[k] = append([]api.CollectionEntry(nil), v...)
	}
	return s
}

// Refresh reloads all collections. Without a session the state is cleared
// and the backend is not called.
func (c *Collections) Refresh(ctx context.Context) error {
	sess := currentSession(c.client)
	c.mu.Lock()
	if !sess.SignedIn() {
		c.state = CollectionsState{Collections: api.Collections{}}
		c.mu.Unlock()
		return nil
	}
	c.state.UserID = sess.UserID
	if err := begin(&c.state.Loading, &c.state.Err); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	err := c.reload(ctx)

	c.mu.Lock()
	c.state.Loading = false
	c.mu.Unlock()
	return err
}

func (c *Collections) reload(ctx context.Context) error {
	cols, err := c.client.Collections(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.Collections = api.Collections{}
		c.state.Err = api.Message(err)
		return err
	}
	c.state.Collections = cols
	return nil
}

func (c *Collections) reject(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Err = api.Message(err)
	c.state.Notice = ""
	return err
}

// mutate runs op behind the mutation gate and reloads on success.
func (c *Collections) mutate(ctx context.Context, notice string, op func(userID string) error) error {
	sess := currentSession(c.client)
	if !sess.SignedIn() {
		return c.reject(ErrSignInForCollections)
	}
	c.mu.Lock()
	if err := begin(&c.state.Mutating, &c.state.Err); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state.Notice = ""
	c.mu.Unlock()

	err := op(sess.UserID)
	if err == nil {
		err = c.reload(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Mutating = false
	c.state.Err = api.Message(err)
	if err == nil {
		c.state.Notice = notice
	}
	return err
}

func validName(name string) error {
	if utf8.RuneCountInString(name) < MinCollectionName {
		return ErrCollectionNameTooShort
	}
	return nil
}

// Create adds an empty collection.
func (c *Collections) Create(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if err := validName(name); err != nil {
		return c.reject(err)
	}
	return c.mutate(ctx, fmt.Sprintf("Collection '%s' created successfully!", name), func(userID string) error {
		return c.client.CreateCollection(ctx, name, userID)
	})
}

// Rename changes a collection's name.
func (c *Collections) Rename(ctx context.Context, oldName, newName string) error {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	switch {
	case newName == "":
		return c.reject(ErrCollectionNameEmpty)
	case oldName == newName:
		return c.reject(ErrCollectionNameSame)
	}
	if err := validName(newName); err != nil {
		return c.reject(err)
	}
	return c.mutate(ctx, fmt.Sprintf("Collection renamed to '%s'.", newName), func(string) error {
		return c.client.RenameCollection(ctx, oldName, newName)
	})
}

// Delete removes a collection and every plant in it.
func (c *Collections) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return c.reject(ErrCollectionRequired)
	}
	return c.mutate(ctx, fmt.Sprintf("Collection %q and all associated plants have been removed.", name), func(string) error {
		return c.client.DeleteCollection(ctx, name)
	})
}

// RemovePlant removes one saved plant.
func (c *Collections) RemovePlant(ctx context.Context, entryID api.ID) error {
	return c.mutate(ctx, "Plant removed.", func(string) error {
		return c.client.DeleteEntry(ctx, entryID)
	})
}

// AddPlant saves a plant into a collection, creating the collection on the
// backend when needed. plantType defaults to the plant's own type, then
// indoor.
func (c *Collections) AddPlant(ctx context.Context, plant api.Plant, collection, plantType string) error {
	collection = strings.TrimSpace(collection)
	if collection == "" {
		return c.reject(ErrCollectionRequired)
	}
	if plantType == "" {
		plantType = plant.PlantType
	}
	if plantType == "" {
		plantType = config.PlantTypeIndoor
	}
	plant.PlantType = plantType
	return c.mutate(ctx, fmt.Sprintf("%s added to %s.", plant.CommonName, collection), func(string) error {
		return c.client.AddToCollection(ctx, plant, collection)
	})
}

// CollectionPickerState lists collection names for a chooser.
type CollectionPickerState struct {
	Names   []string
	Loading bool
	Err     string
}

// CollectionPicker loads only the names of the user's collections.
type CollectionPicker struct {
	client *api.Client

	mu    sync.Mutex
	state CollectionPickerState
}

func NewCollectionPicker(client *api.Client) *CollectionPicker {
	return &CollectionPicker{client: client}
}

func (p *CollectionPicker) State() CollectionPickerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	s.Names = append([]string(nil), p.state.Names...)
	return s
}

// Refresh reloads the names. Without a session nothing is fetched.
func (p *CollectionPicker) Refresh(ctx context.Context) error {
	if !currentSession(p.client).SignedIn() {
		p.mu.Lock()
		p.state = CollectionPickerState{}
		p.mu.Unlock()
		return nil
	}
	p.mu.Lock()
	if err := begin(&p.state.Loading, &p.state.Err); err != nil {
		p.mu.Unlock()
		return err
	}
	p.mu.Unlock()

	cols, err := p.client.Collections(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Loading = false
	if err != nil {
		p.state.Err = api.Message(err)
		return err
	}
	p.state.Names = CollectionsState{Collections: cols}.Names()
	return nil
}
