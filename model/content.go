package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/goliatone/go-linkora/identity"
)

// MaxPostLength bounds post content.
const MaxPostLength = 1000

// Community categories accepted on creation.
var Categories = []string{"Tech", "Science", "Arts", "Sports", "Business", "Gaming", "Music", "Research", "Other"}

// Post is an entry of the global or personalized feed.
type Post struct {
	ID        string        `json:"id"`
	Author    identity.ID   `json:"author"`
	Content   string        `json:"content"`
	ImageURL  string        `json:"imageUrl,omitempty"`
	Likes     []identity.ID `json:"likes"`
	CreatedAt time.Time     `json:"timestamp"`
}

// CommunityMessage is a message posted inside a community.
type CommunityMessage struct {
	ID        string        `json:"id"`
	Author    identity.ID   `json:"author"`
	Content   string        `json:"content"`
	ImageURL  string        `json:"imageUrl,omitempty"`
	Likes     []identity.ID `json:"likes,omitempty"`
	CreatedAt time.Time     `json:"timestamp"`
}

// Community groups identities around a topic.
type Community struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Members     []identity.ID `json:"members"`
}

// Event is an organized gathering with a separately fetched applicant list.
type Event struct {
	ID              string      `json:"id"`
	Organizer       identity.ID `json:"organizer"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Date            time.Time   `json:"date"`
	Tags            []string    `json:"tags"`
	MaxParticipants int         `json:"maxParticipants"`
}

// PostDraft is the caller input for a new post.
type PostDraft struct {
	Content  string
	ImageURL string
}

func (d PostDraft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Content, notBlank, validation.RuneLength(1, MaxPostLength)),
		validation.Field(&d.ImageURL, is.URL),
	)
}

// CommunityDraft is the caller input for a new community.
type CommunityDraft struct {
	Name        string
	Description string
	Category    string
}

func (d CommunityDraft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, notBlank, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&d.Category, validation.Required, validation.In(toAny(Categories)...)),
	)
}

// EventDraft is the caller input for a new event.
type EventDraft struct {
	Title           string
	Description     string
	Date            time.Time
	Tags            []string
	MaxParticipants int
}

func (d EventDraft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, notBlank),
		validation.Field(&d.Date, validation.Required),
		validation.Field(&d.Tags, validation.Each(notBlank)),
		validation.Field(&d.MaxParticipants, validation.Required, validation.Min(1)),
	)
}
