package mutation

import (
	"fmt"

	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/query"
)

// Scope carries the parameters an invalidation set depends on.
type Scope struct {
	// Caller is the acting identity.
	Caller identity.ID
	// Subject is the identity acted upon: the follow target or the reviewee.
	Subject identity.ID
	// Ref is the community or event id the write refers to.
	Ref string
}

// Invalidations returns the cache targets made stale by a successful op.
// The table is fixed per op; it never depends on what the remote call
// returned. It panics on an op it does not know.
func Invalidations(op Op, s Scope) []query.Target {
	switch op {
	case OpSaveProfile:
		return []query.Target{
			query.Exact(query.CallerProfileKey()),
			query.Exact(query.ProfileKey(s.Caller)),
			query.Family(query.KindSearchBySkill),
		}
	case OpAddSkill, OpRemoveSkill:
		return []query.Target{
			query.Exact(query.SkillsKey(s.Caller)),
			query.Family(query.KindSearchBySkill),
		}
	case OpCreatePost, OpLikePost, OpCommentOnPost:
		return []query.Target{
			query.Exact(query.GlobalFeedKey()),
			query.Exact(query.PersonalizedFeedKey()),
		}
	case OpCreateCommunity, OpJoinCommunity, OpLeaveCommunity:
		return []query.Target{
			query.Exact(query.CommunitiesKey()),
		}
	case OpPostCommunityMessage:
		return []query.Target{
			query.Exact(query.CommunityMessagesKey(s.Ref)),
		}
	case OpCreateEvent:
		return []query.Target{
			query.Exact(query.EventsKey()),
		}
	case OpApplyToEvent:
		return []query.Target{
			query.Exact(query.EventsKey()),
			query.Exact(query.EventApplicantsKey(s.Ref)),
		}
	case OpApproveApplication, OpRejectApplication:
		return []query.Target{
			query.Exact(query.EventApplicantsKey(s.Ref)),
		}
	case OpFollow, OpUnfollow:
		// The target gains or loses a follower, the caller's following list
		// changes, and so does the caller's feed.
		return []query.Target{
			query.Exact(query.FollowersKey(s.Subject)),
			query.Exact(query.FollowingKey(s.Caller)),
			query.Exact(query.PersonalizedFeedKey()),
		}
	case OpSubmitReview:
		return []query.Target{
			query.Exact(query.ReputationKey(s.Subject)),
			query.Family(query.KindSearchBySkill),
		}
	}
	panic(fmt.Sprintf("mutation: no invalidation set for op %d", int(op)))
}
