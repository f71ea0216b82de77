package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a backend identifier. The backend emits UUID strings for most
// records but numbers in places; both decode into the same string form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", b)
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// CareInstructions is the normalized care block of a plant.
type CareInstructions struct {
	Light         string `json:"light"`
	Watering      string `json:"watering"`
	Fertilization string `json:"fertilization"`
	IdealTemp     string `json:"ideal_temp"`
}

// Plant is a plant detail record as returned by /plants and stored in
// collection entries.
type Plant struct {
	ID             ID               `json:"id"`
	CommonName     string           `json:"common_name"`
	ScientificName string           `json:"scientific_name"`
	Description    string           `json:"description"`
	ImageURL       string           `json:"image_url"`
	Care           CareInstructions `json:"care_instructions"`
	PlantType      string           `json:"plant_type,omitempty"`
}

// CollectionEntry is one saved plant inside a collection.
type CollectionEntry struct {
	ID           ID     `json:"id"`
	CollectionID ID     `json:"collection_id"`
	CommonName   string `json:"common_name"`
	Details      *Plant `json:"plant_details_json"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// Visible reports whether the entry is a real plant. New empty collections
// hold a placeholder row without details.
func (e CollectionEntry) Visible() bool {
	return e.CommonName != "" && e.Details != nil && *e.Details != (Plant{})
}

// Collections maps collection name to its entries.
type Collections map[string][]CollectionEntry

// Post is a forum post.
type Post struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	UserID      string `json:"user_id"`
	AuthorEmail string `json:"author_email"`
	CreatedAt   string `json:"created_at"`
}

// Comment is a flat forum comment record.
type Comment struct {
	ID              ID     `json:"id"`
	PostID          ID     `json:"post_id,omitempty"`
	UserID          string `json:"user_id,omitempty"`
	Content         string `json:"content"`
	AuthorEmail     string `json:"author_email"`
	CreatedAt       string `json:"created_at"`
	ParentCommentID *ID    `json:"parent_comment_id"`
}

// Parent returns the parent id, or "" for a top-level comment.
func (c Comment) Parent() ID {
	if c.ParentCommentID == nil {
		return ""
	}
	return *c.ParentCommentID
}

// Profile is the signed-in user's account info.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// LoginResult is the answer to a successful login.
type LoginResult struct {
	Token   string `json:"token"`
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}
