package mutation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/query"
)

var (
	self  = identity.MustParse("aaaaa-aa")
	other = identity.MustParse("bbbbb-bb")
)

func TestInvalidations_EveryOpHasTargets(t *testing.T) {
	scope := Scope{Caller: self, Subject: other, Ref: "ref-1"}
	for _, op := range Ops() {
		t.Run(op.String(), func(t *testing.T) {
			assert.NotEqual(t, "unknown", op.String())
			assert.NotEmpty(t, Invalidations(op, scope))
		})
	}
}

func TestInvalidations_UnknownOpPanics(t *testing.T) {
	assert.Panics(t, func() { Invalidations(Op(0), Scope{}) })
	assert.Panics(t, func() { Invalidations(OpSubmitReview+1, Scope{}) })
}

func TestInvalidations_Exact(t *testing.T) {
	scope := Scope{Caller: self, Subject: other, Ref: "ev-1"}

	tests := []struct {
		op   Op
		want []query.Target
	}{
		{OpSaveProfile, []query.Target{
			query.Exact(query.CallerProfileKey()),
			query.Exact(query.ProfileKey(self)),
			query.Family(query.KindSearchBySkill),
		}},
		{OpAddSkill, []query.Target{
			query.Exact(query.SkillsKey(self)),
			query.Family(query.KindSearchBySkill),
		}},
		{OpLikePost, []query.Target{
			query.Exact(query.GlobalFeedKey()),
			query.Exact(query.PersonalizedFeedKey()),
		}},
		{OpLeaveCommunity, []query.Target{
			query.Exact(query.CommunitiesKey()),
		}},
		{OpPostCommunityMessage, []query.Target{
			query.Exact(query.CommunityMessagesKey("ev-1")),
		}},
		{OpApplyToEvent, []query.Target{
			query.Exact(query.EventsKey()),
			query.Exact(query.EventApplicantsKey("ev-1")),
		}},
		{OpRejectApplication, []query.Target{
			query.Exact(query.EventApplicantsKey("ev-1")),
		}},
		{OpFollow, []query.Target{
			query.Exact(query.FollowersKey(other)),
			query.Exact(query.FollowingKey(self)),
			query.Exact(query.PersonalizedFeedKey()),
		}},
		{OpSubmitReview, []query.Target{
			query.Exact(query.ReputationKey(other)),
			query.Family(query.KindSearchBySkill),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Invalidations(tt.op, scope))
		})
	}
}

func TestInvalidations_FollowCoversBothDirections(t *testing.T) {
	targets := Invalidations(OpUnfollow, Follow{Target: other}.Scope(self))

	matches := func(k query.Key) bool {
		for _, tg := range targets {
			if tg.Matches(k) {
				return true
			}
		}
		return false
	}

	assert.True(t, matches(query.FollowersKey(other)))
	assert.True(t, matches(query.FollowingKey(self)))
	assert.False(t, matches(query.FollowersKey(self)))
	assert.False(t, matches(query.FollowingKey(other)))
}
