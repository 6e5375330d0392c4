// Package session ties the query registry and the mutation coordinator to
// one signed-in identity. Reads are guarded on the service being ready and
// on their parameters being present; writes go through the coordinator and
// invalidate what they change. Closing a session discards its cache.
package session

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-linkora/cache"
	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/internal/telemetry"
	"github.com/goliatone/go-linkora/model"
	"github.com/goliatone/go-linkora/mutation"
	"github.com/goliatone/go-linkora/query"
	"github.com/goliatone/go-linkora/remote"
)

// ErrClosed is returned by every call made after Close.
var ErrClosed = errors.New("session: closed")

// Option configures a Session.
type Option func(*Session)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func WithRecorder(rec *telemetry.Recorder) Option {
	return func(s *Session) {
		s.metrics = rec
	}
}

// WithIDGenerator replaces the generator of post, community and event ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) {
		s.newID = fn
	}
}

// Session is the cache and write path of one caller.
type Session struct {
	svc    remote.Service
	caller identity.ID
	reg    *query.Registry
	coord  *mutation.Coordinator

	logger  zerolog.Logger
	metrics *telemetry.Recorder
	newID   func() string
	closed  atomic.Bool
}

// New opens a session for caller. store must not be shared with another
// session; it is cleared on Close.
func New(store cache.CacheService, svc remote.Service, caller identity.ID, opts ...Option) *Session {
	s := &Session{
		svc:    svc,
		caller: caller,
		logger: zerolog.Nop(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.reg = query.NewRegistry(store, query.WithLogger(s.logger), query.WithRecorder(s.metrics))
	s.coord = mutation.NewCoordinator(s.reg, svc, caller,
		mutation.WithLogger(s.logger), mutation.WithRecorder(s.metrics))
	s.logger = s.logger.With().Str("component", "session").Str("caller", caller.String()).Logger()
	s.logger.Info().Msg("session opened")
	return s
}

// Caller returns the identity the session acts for.
func (s *Session) Caller() identity.ID { return s.caller }

// Registry exposes the session cache, e.g. to mount observers on it.
func (s *Session) Registry() *query.Registry { return s.reg }

// Close ends the session and drops every cached value. It is safe to call
// more than once.
func (s *Session) Close(ctx context.Context) error {
	if s.closed.Swap(true) {
		return nil
	}
	s.logger.Info().Msg("session closed")
	return s.reg.Clear(ctx)
}

func read[T any](ctx context.Context, s *Session, key query.Key, guard bool, fetch cache.FetchFn[T]) query.State[T] {
	if s.closed.Load() {
		return query.State[T]{Key: key, Status: query.StatusErrored, Err: ErrClosed}
	}
	return query.Read(ctx, s.reg, key, guard && s.svc.Ready(), fetch)
}

func (s *Session) CallerProfile(ctx context.Context) query.State[*model.UserProfile] {
	return read(ctx, s, query.CallerProfileKey(), !s.caller.IsZero(), s.svc.CallerProfile)
}

func (s *Session) Profile(ctx context.Context, id identity.ID) query.State[*model.UserProfile] {
	return read(ctx, s, query.ProfileKey(id), !id.IsZero(), func(ctx context.Context) (*model.UserProfile, error) {
		return s.svc.Profile(ctx, id)
	})
}

func (s *Session) Skills(ctx context.Context, id identity.ID) query.State[model.Skills] {
	return read(ctx, s, query.SkillsKey(id), !id.IsZero(), func(ctx context.Context) (model.Skills, error) {
		skills, err := s.svc.Skills(ctx, id)
		return model.Skills(skills), err
	})
}

func (s *Session) Reputation(ctx context.Context, id identity.ID) query.State[[]model.ReputationReview] {
	return read(ctx, s, query.ReputationKey(id), !id.IsZero(), func(ctx context.Context) ([]model.ReputationReview, error) {
		return s.svc.Reputation(ctx, id)
	})
}

func (s *Session) GlobalFeed(ctx context.Context) query.State[[]model.Post] {
	return read(ctx, s, query.GlobalFeedKey(), true, s.svc.GlobalFeed)
}

// PersonalizedFeed is guarded on the caller being signed in.
func (s *Session) PersonalizedFeed(ctx context.Context) query.State[[]model.Post] {
	return read(ctx, s, query.PersonalizedFeedKey(), !s.caller.IsZero(), s.svc.PersonalizedFeed)
}

func (s *Session) Communities(ctx context.Context) query.State[[]model.Community] {
	return read(ctx, s, query.CommunitiesKey(), true, s.svc.Communities)
}

func (s *Session) CommunityMessages(ctx context.Context, communityID string) query.State[[]model.CommunityMessage] {
	return read(ctx, s, query.CommunityMessagesKey(communityID), present(communityID), func(ctx context.Context) ([]model.CommunityMessage, error) {
		return s.svc.CommunityMessages(ctx, communityID)
	})
}

func (s *Session) Events(ctx context.Context) query.State[[]model.Event] {
	return read(ctx, s, query.EventsKey(), true, s.svc.Events)
}

func (s *Session) EventApplicants(ctx context.Context, eventID string) query.State[[]identity.ID] {
	return read(ctx, s, query.EventApplicantsKey(eventID), present(eventID), func(ctx context.Context) ([]identity.ID, error) {
		return s.svc.EventApplicants(ctx, eventID)
	})
}

func (s *Session) Followers(ctx context.Context, id identity.ID) query.State[[]identity.ID] {
	return read(ctx, s, query.FollowersKey(id), !id.IsZero(), func(ctx context.Context) ([]identity.ID, error) {
		return s.svc.Followers(ctx, id)
	})
}

func (s *Session) Following(ctx context.Context, id identity.ID) query.State[[]identity.ID] {
	return read(ctx, s, query.FollowingKey(id), !id.IsZero(), func(ctx context.Context) ([]identity.ID, error) {
		return s.svc.Following(ctx, id)
	})
}

// SearchBySkill is guarded on a non-blank skill. The skill is trimmed.
func (s *Session) SearchBySkill(ctx context.Context, skill string) query.State[[]model.SearchResult] {
	skill = strings.TrimSpace(skill)
	return read(ctx, s, query.SearchBySkillKey(skill), skill != "", func(ctx context.Context) ([]model.SearchResult, error) {
		return s.svc.SearchBySkill(ctx, skill)
	})
}

func present(ref string) bool {
	return strings.TrimSpace(ref) != ""
}
