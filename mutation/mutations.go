package mutation

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/model"
	"github.com/goliatone/go-linkora/remote"
)

// Mutation is one write. Exec must issue exactly one remote call.
type Mutation interface {
	Op() Op
	Scope(caller identity.ID) Scope
	Validate() error
	Exec(ctx context.Context, w remote.Writer) error
}

// targeted is implemented by mutations that must not act on the caller.
type targeted interface {
	target() identity.ID
}

var requiredID = validation.By(func(value interface{}) error {
	id, _ := value.(identity.ID)
	if id.IsZero() {
		return validation.ErrRequired
	}
	return nil
})

// SaveProfile creates or replaces the caller's profile.
type SaveProfile struct {
	Profile model.UserProfile
}

func (m SaveProfile) Op() Op                         { return OpSaveProfile }
func (m SaveProfile) Scope(caller identity.ID) Scope { return Scope{Caller: caller} }
func (m SaveProfile) Validate() error                { return m.Profile.Validate() }
func (m SaveProfile) Exec(ctx context.Context, w remote.Writer) error {
	return w.SaveProfile(ctx, m.Profile)
}

// AddSkill adds a tag to the caller's skills. Current is the caller's skill
// set as last read; it is checked so that a full or duplicate add never
// reaches the remote service.
type AddSkill struct {
	Skill   string
	Current model.Skills
}

func (m AddSkill) Op() Op                         { return OpAddSkill }
func (m AddSkill) Scope(caller identity.ID) Scope { return Scope{Caller: caller} }
func (m AddSkill) Validate() error                { return m.Current.CanAdd(m.Skill) }
func (m AddSkill) Exec(ctx context.Context, w remote.Writer) error {
	return w.AddSkill(ctx, strings.TrimSpace(m.Skill))
}

// RemoveSkill removes a tag from the caller's skills.
type RemoveSkill struct {
	Skill string
}

func (m RemoveSkill) Op() Op                         { return OpRemoveSkill }
func (m RemoveSkill) Scope(caller identity.ID) Scope { return Scope{Caller: caller} }
func (m RemoveSkill) Validate() error                { return validation.Validate(m.Skill, model.NotBlank) }
func (m RemoveSkill) Exec(ctx context.Context, w remote.Writer) error {
	return w.RemoveSkill(ctx, m.Skill)
}

// CreatePost publishes a post under a client generated id.
type CreatePost struct {
	ID    string
	Draft model.PostDraft
}

func (m CreatePost) Op() Op                         { return OpCreatePost }
func (m CreatePost) Scope(caller identity.ID) Scope { return Scope{Caller: caller, Ref: m.ID} }
func (m CreatePost) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required, is.UUID),
		validation.Field(&m.Draft),
	)
}
func (m CreatePost) Exec(ctx context.Context, w remote.Writer) error {
	return w.CreatePost(ctx, m.ID, strings.TrimSpace(m.Draft.Content), m.Draft.ImageURL)
}

// LikePost records a like by the caller.
type LikePost struct {
	PostID string
}

func (m LikePost) Op() Op                         { return OpLikePost }
func (m LikePost) Scope(caller identity.ID) Scope { return Scope{Caller: caller, Ref: m.PostID} }
func (m LikePost) Validate() error                { return validation.Validate(m.PostID, model.NotBlank) }
func (m LikePost) Exec(ctx context.Context, w remote.Writer) error {
	return w.LikePost(ctx, m.PostID)
}

type CommentOnPost struct {
	PostID  string
	Content string
}

func (m CommentOnPost) Op() Op                         { return OpCommentOnPost }
func (m CommentOnPost) Scope(caller identity.ID) Scope { return Scope{Caller: caller, Ref: m.PostID} }
func (m CommentOnPost) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.PostID, model.NotBlank),
		validation.Field(&m.Content, model.NotBlank, validation.RuneLength(1, model.MaxPostLength)),
	)
}
func (m CommentOnPost) Exec(ctx context.Context, w remote.Writer) error {
	return w.CommentOnPost(ctx, m.PostID, strings.TrimSpace(m.Content))
}

// CreateCommunity creates a community under a client generated id.
type CreateCommunity struct {
	ID    string
	Draft model.CommunityDraft
}

func (m CreateCommunity) Op() Op                         { return OpCreateCommunity }
func (m CreateCommunity) Scope(caller identity.ID) Scope { return Scope{Caller: caller, Ref: m.ID} }
func (m CreateCommunity) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required, is.UUID),
		validation.Field(&m.Draft),
	)
}
func (m CreateCommunity) Exec(ctx context.Context, w remote.Writer) error {
	d := m.Draft
	return w.CreateCommunity(ctx, m.ID, strings.TrimSpace(d.Name), strings.TrimSpace(d.Description), d.Category)
}

type JoinCommunity struct {
	CommunityID string
}

func (m JoinCommunity) Op() Op { return OpJoinCommunity }
func (m JoinCommunity) Scope(caller identity.ID) Scope {
	return Scope{Caller: caller, Ref: m.CommunityID}
}
func (m JoinCommunity) Validate() error { return validation.Validate(m.CommunityID, model.NotBlank) }
func (m JoinCommunity) Exec(ctx context.Context, w remote.Writer) error {
	return w.JoinCommunity(ctx, m.CommunityID)
}

type LeaveCommunity struct {
	CommunityID string
}

func (m LeaveCommunity) Op() Op { return OpLeaveCommunity }
func (m LeaveCommunity) Scope(caller identity.ID) Scope {
	return Scope{Caller: caller, Ref: m.CommunityID}
}
func (m LeaveCommunity) Validate() error { return validation.Validate(m.CommunityID, model.NotBlank) }
func (m LeaveCommunity) Exec(ctx context.Context, w remote.Writer) error {
	return w.LeaveCommunity(ctx, m.CommunityID)
}

type PostCommunityMessage struct {
	CommunityID string
	Content     string
}

func (m PostCommunityMessage) Op() Op { return OpPostCommunityMessage }
func (m PostCommunityMessage) Scope(caller identity.ID) Scope {
	return Scope{Caller: caller, Ref: m.CommunityID}
}
func (m PostCommunityMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.CommunityID, model.NotBlank),
		validation.Field(&m.Content, model.NotBlank, validation.RuneLength(1, model.MaxPostLength)),
	)
}
func (m PostCommunityMessage) Exec(ctx context.Context, w remote.Writer) error {
	return w.PostCommunityMessage(ctx, m.CommunityID, strings.TrimSpace(m.Content))
}

// CreateEvent creates an event under a client generated id. The organizer
// is the caller, as recorded by the remote service.
type CreateEvent struct {
	ID    string
	Draft model.EventDraft
}

func (m CreateEvent) Op() Op                         { return OpCreateEvent }
func (m CreateEvent) Scope(caller identity.ID) Scope { return Scope{Caller: caller, Ref: m.ID} }
func (m CreateEvent) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required, is.UUID),
		validation.Field(&m.Draft),
	)
}
func (m CreateEvent) Exec(ctx context.Context, w remote.Writer) error {
	d := m.Draft
	tags := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		tags = append(tags, strings.TrimSpace(t))
	}
	return w.CreateEvent(ctx, model.Event{
		ID:              m.ID,
		Title:           strings.TrimSpace(d.Title),
		Description:     strings.TrimSpace(d.Description),
		Date:            d.Date,
		Tags:            tags,
		MaxParticipants: d.MaxParticipants,
	})
}

type ApplyToEvent struct {
	EventID string
}

func (m ApplyToEvent) Op() Op                         { return OpApplyToEvent }
func (m ApplyToEvent) Scope(caller identity.ID) Scope { return Scope{Caller: caller, Ref: m.EventID} }
func (m ApplyToEvent) Validate() error                { return validation.Validate(m.EventID, model.NotBlank) }
func (m ApplyToEvent) Exec(ctx context.Context, w remote.Writer) error {
	return w.ApplyToEvent(ctx, m.EventID)
}

// ApproveApplication accepts an applicant of an event the caller organizes.
type ApproveApplication struct {
	EventID   string
	Applicant identity.ID
}

func (m ApproveApplication) Op() Op { return OpApproveApplication }
func (m ApproveApplication) Scope(caller identity.ID) Scope {
	return Scope{Caller: caller, Subject: m.Applicant, Ref: m.EventID}
}
func (m ApproveApplication) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.EventID, model.NotBlank),
		validation.Field(&m.Applicant, requiredID),
	)
}
func (m ApproveApplication) Exec(ctx context.Context, w remote.Writer) error {
	return w.ApproveApplication(ctx, m.EventID, m.Applicant)
}

// RejectApplication declines an applicant of an event the caller organizes.
type RejectApplication struct {
	EventID   string
	Applicant identity.ID
}

func (m RejectApplication) Op() Op { return OpRejectApplication }
func (m RejectApplication) Scope(caller identity.ID) Scope {
	return Scope{Caller: caller, Subject: m.Applicant, Ref: m.EventID}
}
func (m RejectApplication) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.EventID, model.NotBlank),
		validation.Field(&m.Applicant, requiredID),
	)
}
func (m RejectApplication) Exec(ctx context.Context, w remote.Writer) error {
	return w.RejectApplication(ctx, m.EventID, m.Applicant)
}

type Follow struct {
	Target identity.ID
}

func (m Follow) Op() Op                         { return OpFollow }
func (m Follow) Scope(caller identity.ID) Scope { return Scope{Caller: caller, Subject: m.Target} }
func (m Follow) Validate() error                { return validation.Validate(m.Target, requiredID) }
func (m Follow) Exec(ctx context.Context, w remote.Writer) error {
	return w.Follow(ctx, m.Target)
}
func (m Follow) target() identity.ID { return m.Target }

type Unfollow struct {
	Target identity.ID
}

func (m Unfollow) Op() Op                         { return OpUnfollow }
func (m Unfollow) Scope(caller identity.ID) Scope { return Scope{Caller: caller, Subject: m.Target} }
func (m Unfollow) Validate() error                { return validation.Validate(m.Target, requiredID) }
func (m Unfollow) Exec(ctx context.Context, w remote.Writer) error {
	return w.Unfollow(ctx, m.Target)
}
func (m Unfollow) target() identity.ID { return m.Target }

// SubmitReview appends a reputation review of Reviewee by the caller.
type SubmitReview struct {
	Reviewee identity.ID
	Scores   model.Scores
	Comment  string
}

func (m SubmitReview) Op() Op { return OpSubmitReview }
func (m SubmitReview) Scope(caller identity.ID) Scope {
	return Scope{Caller: caller, Subject: m.Reviewee}
}
func (m SubmitReview) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Reviewee, requiredID),
		validation.Field(&m.Scores),
	)
}
func (m SubmitReview) Exec(ctx context.Context, w remote.Writer) error {
	return w.SubmitReputationReview(ctx, m.Reviewee, m.Scores, strings.TrimSpace(m.Comment))
}
func (m SubmitReview) target() identity.ID { return m.Reviewee }
