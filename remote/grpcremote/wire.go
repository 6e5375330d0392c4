package grpcremote

import (
	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/model"
)

// ServiceName is the gRPC service every method is served under.
const ServiceName = "linkora.v1.Linkora"

// FullMethod returns the gRPC method path of name.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

type empty struct{}

type identityArg struct {
	ID identity.ID `json:"id"`
}

type refArg struct {
	ID string `json:"id"`
}

type textArg struct {
	Text string `json:"text"`
}

type profileArg struct {
	Profile model.UserProfile `json:"profile"`
}

type postArg struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type commentArg struct {
	PostID  string `json:"postId"`
	Content string `json:"content"`
}

type communityArg struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type messageArg struct {
	CommunityID string `json:"communityId"`
	Content     string `json:"content"`
}

type eventArg struct {
	Event model.Event `json:"event"`
}

type applicationArg struct {
	EventID   string      `json:"eventId"`
	Applicant identity.ID `json:"applicant"`
}

type reviewArg struct {
	Reviewee identity.ID  `json:"reviewee"`
	Scores   model.Scores `json:"scores"`
	Comment  string       `json:"comment"`
}
