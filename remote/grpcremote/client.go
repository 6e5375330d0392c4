// Package grpcremote is the gRPC transport of the remote service. Messages
// are JSON encoded; every call carries the caller's bearer token and runs
// through a circuit breaker that fails fast while the backend is down. No
// call is retried.
package grpcremote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/model"
	"github.com/goliatone/go-linkora/remote"
)

// AuthorizationHeader carries the bearer token.
const AuthorizationHeader = "authorization"

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("remote: circuit open")

// BreakerConfig tunes the circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures uint32 `yaml:"max_failures"`
	// OpenTimeout is how long the circuit stays open before a probe call.
	OpenTimeout time.Duration `yaml:"open_timeout"`
}

// Config describes a connection.
type Config struct {
	Endpoint    string        `yaml:"endpoint"`
	AccessToken string        `yaml:"access_token"`
	Timeout     time.Duration `yaml:"timeout"`
	Breaker     BreakerConfig `yaml:"breaker"`
}

// DefaultConfig returns the defaults used for unset fields.
func DefaultConfig() Config {
	return Config{
		Endpoint: "localhost:7070",
		Timeout:  10 * time.Second,
		Breaker: BreakerConfig{
			MaxFailures: 5,
			OpenTimeout: 30 * time.Second,
		},
	}
}

// Option configures a Client.
type Option func(*Client)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.With().Str("component", "grpcremote").Logger()
	}
}

// WithDialOptions appends options passed to grpc.NewClient.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *Client) {
		c.dialOpts = append(c.dialOpts, opts...)
	}
}

// Client implements remote.Service over gRPC.
type Client struct {
	conn     *grpc.ClientConn
	breaker  *gobreaker.CircuitBreaker
	token    string
	timeout  time.Duration
	logger   zerolog.Logger
	dialOpts []grpc.DialOption
}

var _ remote.Service = (*Client)(nil)

// Dial creates a client for cfg.Endpoint. The connection is established
// lazily on the first call.
func Dial(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("grpcremote: endpoint is required")
	}
	def := DefaultConfig()
	if cfg.Breaker.MaxFailures == 0 {
		cfg.Breaker.MaxFailures = def.Breaker.MaxFailures
	}
	if cfg.Breaker.OpenTimeout == 0 {
		cfg.Breaker.OpenTimeout = def.Breaker.OpenTimeout
	}

	c := &Client{
		token:   cfg.AccessToken,
		timeout: cfg.Timeout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    cfg.Endpoint,
		Timeout: cfg.Breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Breaker.MaxFailures
		},
		IsSuccessful: isHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().Str("endpoint", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit state changed")
		},
	})

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(jsonCodec{})),
	}, c.dialOpts...)

	conn, err := grpc.NewClient(cfg.Endpoint, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("grpcremote: dial %s: %w", cfg.Endpoint, err)
	}
	c.conn = conn
	return c, nil
}

// isHealthy reports whether err says nothing about backend health. Errors
// the far side raised on purpose do not count toward opening the circuit.
func isHealthy(err error) bool {
	if err == nil {
		return true
	}
	switch status.Code(err) {
	case codes.InvalidArgument, codes.NotFound, codes.AlreadyExists,
		codes.FailedPrecondition, codes.PermissionDenied, codes.Unauthenticated:
		return true
	}
	return false
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(AuthorizationHeader, "Bearer "+token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *Client) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if c.token != "" {
		ctx = withAccessToken(ctx, c.token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// Ready reports whether the connection is still open. An open circuit does
// not make the client unready: calls fail with ErrCircuitOpen instead, so
// reads surface it as an error.
func (c *Client) Ready() bool {
	return c.conn.GetState() != connectivity.Shutdown
}

// CircuitOpen reports whether the breaker is currently rejecting calls.
func (c *Client) CircuitOpen() bool {
	return c.breaker.State() == gobreaker.StateOpen
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) call(ctx context.Context, name string, req, resp any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.conn.Invoke(ctx, FullMethod(name), req, resp)
	})
	if err != nil {
		c.logger.Debug().Err(err).Str("method", name).Msg("call failed")
		return mapError(name, err)
	}
	return nil
}

func mapError(name string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w", name, ErrCircuitOpen)
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%s: %w", name, err)
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%s: %w", name, remote.ErrNotAuthenticated)
	case codes.NotFound:
		return fmt.Errorf("%s: %w: %s", name, remote.ErrNotFound, st.Message())
	}
	return fmt.Errorf("%s: %w", name, err)
}

func (c *Client) CallerProfile(ctx context.Context) (*model.UserProfile, error) {
	var out *model.UserProfile
	err := c.call(ctx, "CallerProfile", empty{}, &out)
	return out, err
}

func (c *Client) Profile(ctx context.Context, id identity.ID) (*model.UserProfile, error) {
	var out *model.UserProfile
	err := c.call(ctx, "Profile", identityArg{ID: id}, &out)
	return out, err
}

func (c *Client) Skills(ctx context.Context, id identity.ID) ([]string, error) {
	var out []string
	err := c.call(ctx, "Skills", identityArg{ID: id}, &out)
	return out, err
}

func (c *Client) Reputation(ctx context.Context, id identity.ID) ([]model.ReputationReview, error) {
	var out []model.ReputationReview
	err := c.call(ctx, "Reputation", identityArg{ID: id}, &out)
	return out, err
}

func (c *Client) GlobalFeed(ctx context.Context) ([]model.Post, error) {
	var out []model.Post
	err := c.call(ctx, "GlobalFeed", empty{}, &out)
	return out, err
}

func (c *Client) PersonalizedFeed(ctx context.Context) ([]model.Post, error) {
	var out []model.Post
	err := c.call(ctx, "PersonalizedFeed", empty{}, &out)
	return out, err
}

func (c *Client) Communities(ctx context.Context) ([]model.Community, error) {
	var out []model.Community
	err := c.call(ctx, "Communities", empty{}, &out)
	return out, err
}

func (c *Client) CommunityMessages(ctx context.Context, communityID string) ([]model.CommunityMessage, error) {
	var out []model.CommunityMessage
	err := c.call(ctx, "CommunityMessages", refArg{ID: communityID}, &out)
	return out, err
}

func (c *Client) Events(ctx context.Context) ([]model.Event, error) {
	var out []model.Event
	err := c.call(ctx, "Events", empty{}, &out)
	return out, err
}

func (c *Client) EventApplicants(ctx context.Context, eventID string) ([]identity.ID, error) {
	var out []identity.ID
	err := c.call(ctx, "EventApplicants", refArg{ID: eventID}, &out)
	return out, err
}

func (c *Client) Followers(ctx context.Context, id identity.ID) ([]identity.ID, error) {
	var out []identity.ID
	err := c.call(ctx, "Followers", identityArg{ID: id}, &out)
	return out, err
}

func (c *Client) Following(ctx context.Context, id identity.ID) ([]identity.ID, error) {
	var out []identity.ID
	err := c.call(ctx, "Following", identityArg{ID: id}, &out)
	return out, err
}

func (c *Client) SearchBySkill(ctx context.Context, skill string) ([]model.SearchResult, error) {
	var out []model.SearchResult
	err := c.call(ctx, "SearchBySkill", textArg{Text: skill}, &out)
	return out, err
}

func (c *Client) SaveProfile(ctx context.Context, profile model.UserProfile) error {
	return c.call(ctx, "SaveProfile", profileArg{Profile: profile}, &empty{})
}

func (c *Client) AddSkill(ctx context.Context, skill string) error {
	return c.call(ctx, "AddSkill", textArg{Text: skill}, &empty{})
}

func (c *Client) RemoveSkill(ctx context.Context, skill string) error {
	return c.call(ctx, "RemoveSkill", textArg{Text: skill}, &empty{})
}

func (c *Client) CreatePost(ctx context.Context, id, content, imageURL string) error {
	return c.call(ctx, "CreatePost", postArg{ID: id, Content: content, ImageURL: imageURL}, &empty{})
}

func (c *Client) LikePost(ctx context.Context, postID string) error {
	return c.call(ctx, "LikePost", refArg{ID: postID}, &empty{})
}

func (c *Client) CommentOnPost(ctx context.Context, postID, content string) error {
	return c.call(ctx, "CommentOnPost", commentArg{PostID: postID, Content: content}, &empty{})
}

func (c *Client) CreateCommunity(ctx context.Context, id, name, description, category string) error {
	arg := communityArg{ID: id, Name: name, Description: description, Category: category}
	return c.call(ctx, "CreateCommunity", arg, &empty{})
}

func (c *Client) JoinCommunity(ctx context.Context, id string) error {
	return c.call(ctx, "JoinCommunity", refArg{ID: id}, &empty{})
}

func (c *Client) LeaveCommunity(ctx context.Context, id string) error {
	return c.call(ctx, "LeaveCommunity", refArg{ID: id}, &empty{})
}

func (c *Client) PostCommunityMessage(ctx context.Context, communityID, content string) error {
	return c.call(ctx, "PostCommunityMessage", messageArg{CommunityID: communityID, Content: content}, &empty{})
}

func (c *Client) CreateEvent(ctx context.Context, event model.Event) error {
	return c.call(ctx, "CreateEvent", eventArg{Event: event}, &empty{})
}

func (c *Client) ApplyToEvent(ctx context.Context, eventID string) error {
	return c.call(ctx, "ApplyToEvent", refArg{ID: eventID}, &empty{})
}

func (c *Client) ApproveApplication(ctx context.Context, eventID string, applicant identity.ID) error {
	return c.call(ctx, "ApproveApplication", applicationArg{EventID: eventID, Applicant: applicant}, &empty{})
}

func (c *Client) RejectApplication(ctx context.Context, eventID string, applicant identity.ID) error {
	return c.call(ctx, "RejectApplication", applicationArg{EventID: eventID, Applicant: applicant}, &empty{})
}

func (c *Client) Follow(ctx context.Context, id identity.ID) error {
	return c.call(ctx, "Follow", identityArg{ID: id}, &empty{})
}

func (c *Client) Unfollow(ctx context.Context, id identity.ID) error {
	return c.call(ctx, "Unfollow", identityArg{ID: id}, &empty{})
}

func (c *Client) SubmitReputationReview(ctx context.Context, reviewee identity.ID, scores model.Scores, comment string) error {
	arg := reviewArg{Reviewee: reviewee, Scores: scores, Comment: comment}
	return c.call(ctx, "SubmitReputationReview", arg, &empty{})
}
