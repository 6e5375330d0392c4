// Package remote declares the boundary to the platform service. Every method
// is one authenticated remote call that either returns a value or fails; the
// caller's identity travels out of band with the connection.
package remote

import (
	"context"
	"errors"

	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/model"
)

var (
	// ErrNotAuthenticated is returned for calls that need a caller when none is set.
	ErrNotAuthenticated = errors.New("remote: not authenticated")
	// ErrNotFound is returned by writes that reference a missing entity.
	ErrNotFound = errors.New("remote: not found")
)

// Reader is the read catalog. Profile reads return a nil profile when none
// has been saved yet.
type Reader interface {
	CallerProfile(ctx context.Context) (*model.UserProfile, error)
	Profile(ctx context.Context, id identity.ID) (*model.UserProfile, error)
	Skills(ctx context.Context, id identity.ID) ([]string, error)
	Reputation(ctx context.Context, id identity.ID) ([]model.ReputationReview, error)
	GlobalFeed(ctx context.Context) ([]model.Post, error)
	PersonalizedFeed(ctx context.Context) ([]model.Post, error)
	Communities(ctx context.Context) ([]model.Community, error)
	CommunityMessages(ctx context.Context, communityID string) ([]model.CommunityMessage, error)
	Events(ctx context.Context) ([]model.Event, error)
	EventApplicants(ctx context.Context, eventID string) ([]identity.ID, error)
	Followers(ctx context.Context, id identity.ID) ([]identity.ID, error)
	Following(ctx context.Context, id identity.ID) ([]identity.ID, error)
	SearchBySkill(ctx context.Context, skill string) ([]model.SearchResult, error)
}

// Writer is the write catalog. Ids of new posts, communities and events are
// chosen by the caller.
type Writer interface {
	SaveProfile(ctx context.Context, profile model.UserProfile) error
	AddSkill(ctx context.Context, skill string) error
	RemoveSkill(ctx context.Context, skill string) error
	CreatePost(ctx context.Context, id, content, imageURL string) error
	LikePost(ctx context.Context, postID string) error
	CommentOnPost(ctx context.Context, postID, content string) error
	CreateCommunity(ctx context.Context, id, name, description, category string) error
	JoinCommunity(ctx context.Context, id string) error
	LeaveCommunity(ctx context.Context, id string) error
	PostCommunityMessage(ctx context.Context, communityID, content string) error
	CreateEvent(ctx context.Context, event model.Event) error
	ApplyToEvent(ctx context.Context, eventID string) error
	ApproveApplication(ctx context.Context, eventID string, applicant identity.ID) error
	RejectApplication(ctx context.Context, eventID string, applicant identity.ID) error
	Follow(ctx context.Context, id identity.ID) error
	Unfollow(ctx context.Context, id identity.ID) error
	SubmitReputationReview(ctx context.Context, reviewee identity.ID, scores model.Scores, comment string) error
}

// Service is a connected client. Ready reports whether the connection is
// usable at all; reads are guarded on it. Transient failures are reported by
// the calls themselves, never through Ready.
type Service interface {
	Reader
	Writer
	Ready() bool
}
