package mutation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-linkora/cache"
	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/internal/telemetry"
	"github.com/goliatone/go-linkora/model"
	"github.com/goliatone/go-linkora/pkg/testsupport"
	"github.com/goliatone/go-linkora/query"
	"github.com/goliatone/go-linkora/remote"
)

type fixture struct {
	remote *testsupport.FakeRemote
	reg    *query.Registry
	coord  *Coordinator
	rec    *telemetry.Recorder
}

func newFixture(t *testing.T, caller identity.ID) *fixture {
	t.Helper()
	store, err := cache.NewCacheService(cache.Config{
		Capacity:           64,
		NumShards:          2,
		TTL:                time.Hour,
		EvictionPercentage: 10,
	})
	require.NoError(t, err)

	rec, err := telemetry.NewRecorder(prometheus.NewRegistry())
	require.NoError(t, err)

	fake := testsupport.NewFakeRemote(caller)
	reg := query.NewRegistry(store, query.WithRecorder(rec))
	return &fixture{
		remote: fake,
		reg:    reg,
		coord:  NewCoordinator(reg, fake, caller, WithRecorder(rec)),
		rec:    rec,
	}
}

func (f *fixture) followers(ctx context.Context, id identity.ID) query.State[[]identity.ID] {
	return query.Read(ctx, f.reg, query.FollowersKey(id), true, func(ctx context.Context) ([]identity.ID, error) {
		return f.remote.Followers(ctx, id)
	})
}

func (f *fixture) following(ctx context.Context, id identity.ID) query.State[[]identity.ID] {
	return query.Read(ctx, f.reg, query.FollowingKey(id), true, func(ctx context.Context) ([]identity.ID, error) {
		return f.remote.Following(ctx, id)
	})
}

func (f *fixture) events(ctx context.Context) query.State[[]model.Event] {
	return query.Read(ctx, f.reg, query.EventsKey(), true, f.remote.Events)
}

func TestDo_FollowCycle(t *testing.T) {
	f := newFixture(t, self)
	ctx := context.Background()

	assert.Empty(t, f.followers(ctx, other).Data)
	assert.Empty(t, f.following(ctx, self).Data)
	events := f.events(ctx)
	require.Equal(t, query.StatusSettled, events.Status)

	require.NoError(t, f.coord.Do(ctx, Follow{Target: other}))

	assert.Equal(t, []identity.ID{self}, f.followers(ctx, other).Data)
	assert.Equal(t, []identity.ID{other}, f.following(ctx, self).Data)
	f.events(ctx)

	assert.Equal(t, 2, f.remote.Calls("Followers"))
	assert.Equal(t, 2, f.remote.Calls("Following"))
	assert.Equal(t, 1, f.remote.Calls("Events"), "unrelated key must not refetch")
	assert.Equal(t, 1, f.remote.Calls("Follow"))

	require.NoError(t, f.coord.Do(ctx, Unfollow{Target: other}))
	assert.Empty(t, f.followers(ctx, other).Data)
	assert.Equal(t, 3, f.remote.Calls("Followers"))
}

func TestDo_FailedMutationLeavesCacheUntouched(t *testing.T) {
	f := newFixture(t, self)
	ctx := context.Background()

	before := f.followers(ctx, other)
	f.following(ctx, self)

	boom := errors.New("unavailable")
	f.remote.Fail("Follow", boom)

	err := f.coord.Do(ctx, Follow{Target: other})
	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, OpFollow, remoteErr.Op)
	assert.ErrorIs(t, err, boom)

	assert.False(t, query.Peek[[]identity.ID](f.reg, query.FollowersKey(other)).Stale)
	assert.Equal(t, before.Data, f.followers(ctx, other).Data)
	f.following(ctx, self)

	assert.Equal(t, 1, f.remote.Calls("Followers"))
	assert.Equal(t, 1, f.remote.Calls("Following"))
	assert.Equal(t, 1, f.remote.Calls("Follow"), "failed mutations are not retried")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.rec.Mutations.WithLabelValues("follow", telemetry.ResultError)))
}

func TestDo_SkillCapRejectedBeforeRemoteCall(t *testing.T) {
	f := newFixture(t, self)
	ctx := context.Background()

	full := make(model.Skills, model.MaxSkills)
	for i := range full {
		full[i] = fmt.Sprintf("skill-%d", i)
	}

	err := f.coord.Do(ctx, AddSkill{Skill: "one-more", Current: full})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ErrorIs(t, err, model.ErrSkillLimit)
	assert.Equal(t, 0, f.remote.TotalCalls())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.rec.Mutations.WithLabelValues("add_skill", telemetry.ResultRejected)))
}

func TestDo_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		m    Mutation
	}{
		{"blank skill", AddSkill{Skill: "  "}},
		{"duplicate skill", AddSkill{Skill: "Go", Current: model.Skills{"Go"}}},
		{"blank post", CreatePost{ID: uuid.NewString(), Draft: model.PostDraft{Content: " "}}},
		{"post without id", CreatePost{Draft: model.PostDraft{Content: "hi"}}},
		{"bad category", CreateCommunity{ID: uuid.NewString(), Draft: model.CommunityDraft{Name: "x", Category: "Cooking"}}},
		{"no participants", CreateEvent{ID: uuid.NewString(), Draft: model.EventDraft{Title: "t", Date: time.Now()}}},
		{"blank message", PostCommunityMessage{CommunityID: "c-1", Content: ""}},
		{"no applicant", ApproveApplication{EventID: "e-1"}},
		{"no target", Follow{}},
		{"score out of range", SubmitReview{Reviewee: other, Scores: model.Scores{Teamwork: 101}}},
		{"follow self", Follow{Target: identity.MustParse(" AAAAA-AA ")}},
		{"review self", SubmitReview{Reviewee: self}},
		{"profile without name", SaveProfile{Profile: model.UserProfile{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, self)
			err := f.coord.Do(context.Background(), tt.m)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.m.Op(), vErr.Op)
			assert.Equal(t, 0, f.remote.TotalCalls())
		})
	}
}

func TestDo_ValidationErrorExposesFields(t *testing.T) {
	f := newFixture(t, self)
	err := f.coord.Do(context.Background(), SaveProfile{Profile: model.UserProfile{Year: -1}})

	var fields validation.Errors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "year")
}

func TestDo_SelfTarget(t *testing.T) {
	f := newFixture(t, self)
	err := f.coord.Do(context.Background(), Follow{Target: self})
	assert.ErrorIs(t, err, ErrSelfTarget)
}

func TestDo_RequiresCaller(t *testing.T) {
	f := newFixture(t, identity.ID{})
	err := f.coord.Do(context.Background(), LikePost{PostID: "p-1"})
	assert.ErrorIs(t, err, remote.ErrNotAuthenticated)
	assert.Equal(t, 0, f.remote.TotalCalls())
}

func TestDo_ExactlyOneRemoteCallPerWrite(t *testing.T) {
	f := newFixture(t, self)
	ctx := context.Background()
	postID := uuid.NewString()
	communityID := uuid.NewString()
	eventID := uuid.NewString()

	writes := []Mutation{
		SaveProfile{Profile: model.UserProfile{Name: "Ada"}},
		AddSkill{Skill: "Go"},
		RemoveSkill{Skill: "Go"},
		CreatePost{ID: postID, Draft: model.PostDraft{Content: "hello"}},
		LikePost{PostID: postID},
		CommentOnPost{PostID: postID, Content: "nice"},
		CreateCommunity{ID: communityID, Draft: model.CommunityDraft{Name: "Gophers", Category: "Tech"}},
		LeaveCommunity{CommunityID: communityID},
		JoinCommunity{CommunityID: communityID},
		PostCommunityMessage{CommunityID: communityID, Content: "hi all"},
		CreateEvent{ID: eventID, Draft: model.EventDraft{Title: "Hack", Date: time.Now(), MaxParticipants: 10}},
		ApplyToEvent{EventID: eventID},
		ApproveApplication{EventID: eventID, Applicant: other},
		RejectApplication{EventID: eventID, Applicant: other},
		Follow{Target: other},
		Unfollow{Target: other},
		SubmitReview{Reviewee: other, Scores: model.Scores{Contribution: 50}},
	}
	require.Len(t, writes, len(Ops()))

	for i, m := range writes {
		require.NoError(t, f.coord.Do(ctx, m), m.Op().String())
		assert.Equal(t, i+1, f.remote.TotalCalls(), m.Op().String())
	}
}

func TestDo_CommunityMessagesInvalidatesOnlyThatCommunity(t *testing.T) {
	f := newFixture(t, self)
	ctx := context.Background()

	read := func(id string) {
		query.Read(ctx, f.reg, query.CommunityMessagesKey(id), true, func(ctx context.Context) ([]model.CommunityMessage, error) {
			return f.remote.CommunityMessages(ctx, id)
		})
	}

	read("c-1")
	read("c-2")
	require.NoError(t, f.coord.Do(ctx, PostCommunityMessage{CommunityID: "c-1", Content: "hello"}))
	read("c-1")
	read("c-2")

	assert.Equal(t, 3, f.remote.Calls("CommunityMessages"))
}
