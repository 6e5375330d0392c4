package mutation

// Op enumerates the write operations the coordinator knows how to invalidate for.
type Op int

const (
	OpSaveProfile Op = iota + 1
	OpAddSkill
	OpRemoveSkill
	OpCreatePost
	OpLikePost
	OpCommentOnPost
	OpCreateCommunity
	OpJoinCommunity
	OpLeaveCommunity
	OpPostCommunityMessage
	OpCreateEvent
	OpApplyToEvent
	OpApproveApplication
	OpRejectApplication
	OpFollow
	OpUnfollow
	OpSubmitReview
)

var opNames = map[Op]string{
	OpSaveProfile:          "save_profile",
	OpAddSkill:             "add_skill",
	OpRemoveSkill:          "remove_skill",
	OpCreatePost:           "create_post",
	OpLikePost:             "like_post",
	OpCommentOnPost:        "comment_on_post",
	OpCreateCommunity:      "create_community",
	OpJoinCommunity:        "join_community",
	OpLeaveCommunity:       "leave_community",
	OpPostCommunityMessage: "post_community_message",
	OpCreateEvent:          "create_event",
	OpApplyToEvent:         "apply_to_event",
	OpApproveApplication:   "approve_application",
	OpRejectApplication:    "reject_application",
	OpFollow:               "follow",
	OpUnfollow:             "unfollow",
	OpSubmitReview:         "submit_review",
}

// Ops returns every operation in declaration order.
func Ops() []Op {
	ops := make([]Op, 0, len(opNames))
	for op := OpSaveProfile; op <= OpSubmitReview; op++ {
		ops = append(ops, op)
	}
	return ops
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}
