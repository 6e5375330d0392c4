package session

import (
	"context"

	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/model"
	"github.com/goliatone/go-linkora/reputation"
	"github.com/goliatone/go-linkora/social"
)

// The helpers below derive their answer from the cached list on every call.
// The returned error is the error of the underlying read; the answer is
// computed from whatever data the read holds.

// ReputationSummary scores the reviews of id.
func (s *Session) ReputationSummary(ctx context.Context, id identity.ID) (reputation.Summary, error) {
	st := s.Reputation(ctx, id)
	return reputation.Summarize(st.Data), st.Err
}

// Discover searches by skill and ranks the matches by compatibility.
func (s *Session) Discover(ctx context.Context, skill string) ([]reputation.Candidate, error) {
	st := s.SearchBySkill(ctx, skill)
	return reputation.Rank(st.Data), st.Err
}

// IsFollowing reports whether the caller is among the followers of target.
func (s *Session) IsFollowing(ctx context.Context, target identity.ID) (bool, error) {
	st := s.Followers(ctx, target)
	return social.IsFollowing(st.Data, s.caller), st.Err
}

// IsMemberOf reports whether the caller is a member of the community.
func (s *Session) IsMemberOf(ctx context.Context, communityID string) (bool, error) {
	st := s.Communities(ctx)
	for _, c := range st.Data {
		if c.ID == communityID {
			return social.IsCommunityMember(c, s.caller), st.Err
		}
	}
	return false, st.Err
}

// HasApplied reports whether the caller is a pending applicant of the event.
func (s *Session) HasApplied(ctx context.Context, eventID string) (bool, error) {
	st := s.EventApplicants(ctx, eventID)
	return social.HasApplied(st.Data, s.caller), st.Err
}

// Posts returns the global feed entries written by author.
func (s *Session) Posts(ctx context.Context, author identity.ID) ([]model.Post, error) {
	st := s.GlobalFeed(ctx)
	return social.AuthoredBy(st.Data, author), st.Err
}
