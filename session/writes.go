package session

import (
	"context"

	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/model"
	"github.com/goliatone/go-linkora/mutation"
)

func (s *Session) do(ctx context.Context, m mutation.Mutation) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.coord.Do(ctx, m)
}

func (s *Session) SaveProfile(ctx context.Context, p model.UserProfile) error {
	return s.do(ctx, mutation.SaveProfile{Profile: p})
}

// AddSkill checks the caller's cached skill set before writing, so a full
// or duplicate set is rejected without a remote call.
func (s *Session) AddSkill(ctx context.Context, skill string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	current := s.Skills(ctx, s.caller)
	if current.IsErrored() && !current.HasData {
		return current.Err
	}
	return s.do(ctx, mutation.AddSkill{Skill: skill, Current: current.Data})
}

func (s *Session) RemoveSkill(ctx context.Context, skill string) error {
	return s.do(ctx, mutation.RemoveSkill{Skill: skill})
}

// CreatePost publishes a post and returns its id.
func (s *Session) CreatePost(ctx context.Context, draft model.PostDraft) (string, error) {
	id := s.newID()
	if err := s.do(ctx, mutation.CreatePost{ID: id, Draft: draft}); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Session) LikePost(ctx context.Context, postID string) error {
	return s.do(ctx, mutation.LikePost{PostID: postID})
}

func (s *Session) CommentOnPost(ctx context.Context, postID, content string) error {
	return s.do(ctx, mutation.CommentOnPost{PostID: postID, Content: content})
}

// CreateCommunity creates a community and returns its id.
func (s *Session) CreateCommunity(ctx context.Context, draft model.CommunityDraft) (string, error) {
	id := s.newID()
	if err := s.do(ctx, mutation.CreateCommunity{ID: id, Draft: draft}); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Session) JoinCommunity(ctx context.Context, communityID string) error {
	return s.do(ctx, mutation.JoinCommunity{CommunityID: communityID})
}

func (s *Session) LeaveCommunity(ctx context.Context, communityID string) error {
	return s.do(ctx, mutation.LeaveCommunity{CommunityID: communityID})
}

func (s *Session) PostCommunityMessage(ctx context.Context, communityID, content string) error {
	return s.do(ctx, mutation.PostCommunityMessage{CommunityID: communityID, Content: content})
}

// CreateEvent creates an event organized by the caller and returns its id.
func (s *Session) CreateEvent(ctx context.Context, draft model.EventDraft) (string, error) {
	id := s.newID()
	if err := s.do(ctx, mutation.CreateEvent{ID: id, Draft: draft}); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Session) ApplyToEvent(ctx context.Context, eventID string) error {
	return s.do(ctx, mutation.ApplyToEvent{EventID: eventID})
}

func (s *Session) ApproveApplication(ctx context.Context, eventID string, applicant identity.ID) error {
	return s.do(ctx, mutation.ApproveApplication{EventID: eventID, Applicant: applicant})
}

func (s *Session) RejectApplication(ctx context.Context, eventID string, applicant identity.ID) error {
	return s.do(ctx, mutation.RejectApplication{EventID: eventID, Applicant: applicant})
}

func (s *Session) Follow(ctx context.Context, target identity.ID) error {
	return s.do(ctx, mutation.Follow{Target: target})
}

func (s *Session) Unfollow(ctx context.Context, target identity.ID) error {
	return s.do(ctx, mutation.Unfollow{Target: target})
}

func (s *Session) SubmitReview(ctx context.Context, reviewee identity.ID, scores model.Scores, comment string) error {
	return s.do(ctx, mutation.SubmitReview{Reviewee: reviewee, Scores: scores, Comment: comment})
}
