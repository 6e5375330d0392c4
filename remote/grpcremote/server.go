package grpcremote

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/goliatone/go-linkora/model"
	"github.com/goliatone/go-linkora/remote"
)

// ServerConfig configures NewServer.
type ServerConfig struct {
	// Token, when set, must match the bearer token of every call.
	Token  string
	Logger zerolog.Logger
}

// NewServer serves svc under ServiceName. It is used to expose an in-memory
// backend to clients and in transport tests.
func NewServer(svc remote.Service, cfg ServerConfig, opts ...grpc.ServerOption) *grpc.Server {
	h := &serviceHandler{svc: svc, token: cfg.Token, logger: cfg.Logger}
	opts = append(opts,
		grpc.ForceServerCodec(jsonCodec{}),
		grpc.UnknownServiceHandler(h.handle),
	)
	return grpc.NewServer(opts...)
}

type serviceHandler struct {
	svc    remote.Service
	token  string
	logger zerolog.Logger
}

type handlerFunc func(ctx context.Context, svc remote.Service, raw json.RawMessage) (any, error)

func (h *serviceHandler) handle(_ any, stream grpc.ServerStream) error {
	full, ok := grpc.MethodFromServerStream(stream)
	if !ok {
		return status.Error(codes.Internal, "method unknown")
	}
	name, found := strings.CutPrefix(full, "/"+ServiceName+"/")
	fn, known := handlers[name]
	if !found || !known {
		return status.Errorf(codes.Unimplemented, "method %s not implemented", full)
	}

	ctx := stream.Context()
	if err := h.authorize(ctx); err != nil {
		return err
	}

	var raw json.RawMessage
	if err := stream.RecvMsg(&raw); err != nil {
		return err
	}

	resp, err := fn(ctx, h.svc, raw)
	if err != nil {
		h.logger.Debug().Err(err).Str("method", name).Msg("call rejected")
		return toStatus(err)
	}
	if resp == nil {
		resp = empty{}
	}
	return stream.SendMsg(resp)
}

func (h *serviceHandler) authorize(ctx context.Context) error {
	if h.token == "" {
		return nil
	}
	md, _ := metadata.FromIncomingContext(ctx)
	for _, v := range md.Get(AuthorizationHeader) {
		if v == "Bearer "+h.token {
			return nil
		}
	}
	return status.Error(codes.Unauthenticated, "invalid access token")
}

func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, remote.ErrNotAuthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, remote.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrSkillLimit), errors.Is(err, model.ErrDuplicateSkill):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// decode adapts a typed handler to the raw request.
func decode[A any](fn func(ctx context.Context, svc remote.Service, arg A) (any, error)) handlerFunc {
	return func(ctx context.Context, svc remote.Service, raw json.RawMessage) (any, error) {
		var arg A
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &arg); err != nil {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
		}
		return fn(ctx, svc, arg)
	}
}

var handlers = map[string]handlerFunc{
	"CallerProfile": decode(func(ctx context.Context, s remote.Service, _ empty) (any, error) {
		return s.CallerProfile(ctx)
	}),
	"Profile": decode(func(ctx context.Context, s remote.Service, a identityArg) (any, error) {
		return s.Profile(ctx, a.ID)
	}),
	"Skills": decode(func(ctx context.Context, s remote.Service, a identityArg) (any, error) {
		return s.Skills(ctx, a.ID)
	}),
	"Reputation": decode(func(ctx context.Context, s remote.Service, a identityArg) (any, error) {
		return s.Reputation(ctx, a.ID)
	}),
	"GlobalFeed": decode(func(ctx context.Context, s remote.Service, _ empty) (any, error) {
		return s.GlobalFeed(ctx)
	}),
	"PersonalizedFeed": decode(func(ctx context.Context, s remote.Service, _ empty) (any, error) {
		return s.PersonalizedFeed(ctx)
	}),
	"Communities": decode(func(ctx context.Context, s remote.Service, _ empty) (any, error) {
		return s.Communities(ctx)
	}),
	"CommunityMessages": decode(func(ctx context.Context, s remote.Service, a refArg) (any, error) {
		return s.CommunityMessages(ctx, a.ID)
	}),
	"Events": decode(func(ctx context.Context, s remote.Service, _ empty) (any, error) {
		return s.Events(ctx)
	}),
	"EventApplicants": decode(func(ctx context.Context, s remote.Service, a refArg) (any, error) {
		return s.EventApplicants(ctx, a.ID)
	}),
	"Followers": decode(func(ctx context.Context, s remote.Service, a identityArg) (any, error) {
		return s.Followers(ctx, a.ID)
	}),
	"Following": decode(func(ctx context.Context, s remote.Service, a identityArg) (any, error) {
		return s.Following(ctx, a.ID)
	}),
	"SearchBySkill": decode(func(ctx context.Context, s remote.Service, a textArg) (any, error) {
		return s.SearchBySkill(ctx, a.Text)
	}),
	"SaveProfile": decode(func(ctx context.Context, s remote.Service, a profileArg) (any, error) {
		return nil, s.SaveProfile(ctx, a.Profile)
	}),
	"AddSkill": decode(func(ctx context.Context, s remote.Service, a textArg) (any, error) {
		return nil, s.AddSkill(ctx, a.Text)
	}),
	"RemoveSkill": decode(func(ctx context.Context, s remote.Service, a textArg) (any, error) {
		return nil, s.RemoveSkill(ctx, a.Text)
	}),
	"CreatePost": decode(func(ctx context.Context, s remote.Service, a postArg) (any, error) {
		return nil, s.CreatePost(ctx, a.ID, a.Content, a.ImageURL)
	}),
	"LikePost": decode(func(ctx context.Context, s remote.Service, a refArg) (any, error) {
		return nil, s.LikePost(ctx, a.ID)
	}),
	"CommentOnPost": decode(func(ctx context.Context, s remote.Service, a commentArg) (any, error) {
		return nil, s.CommentOnPost(ctx, a.PostID, a.Content)
	}),
	"CreateCommunity": decode(func(ctx context.Context, s remote.Service, a communityArg) (any, error) {
		return nil, s.CreateCommunity(ctx, a.ID, a.Name, a.Description, a.Category)
	}),
	"JoinCommunity": decode(func(ctx context.Context, s remote.Service, a refArg) (any, error) {
		return nil, s.JoinCommunity(ctx, a.ID)
	}),
	"LeaveCommunity": decode(func(ctx context.Context, s remote.Service, a refArg) (any, error) {
		return nil, s.LeaveCommunity(ctx, a.ID)
	}),
	"PostCommunityMessage": decode(func(ctx context.Context, s remote.Service, a messageArg) (any, error) {
		return nil, s.PostCommunityMessage(ctx, a.CommunityID, a.Content)
	}),
	"CreateEvent": decode(func(ctx context.Context, s remote.Service, a eventArg) (any, error) {
		return nil, s.CreateEvent(ctx, a.Event)
	}),
	"ApplyToEvent": decode(func(ctx context.Context, s remote.Service, a refArg) (any, error) {
		return nil, s.ApplyToEvent(ctx, a.ID)
	}),
	"ApproveApplication": decode(func(ctx context.Context, s remote.Service, a applicationArg) (any, error) {
		return nil, s.ApproveApplication(ctx, a.EventID, a.Applicant)
	}),
	"RejectApplication": decode(func(ctx context.Context, s remote.Service, a applicationArg) (any, error) {
		return nil, s.RejectApplication(ctx, a.EventID, a.Applicant)
	}),
	"Follow": decode(func(ctx context.Context, s remote.Service, a identityArg) (any, error) {
		return nil, s.Follow(ctx, a.ID)
	}),
	"Unfollow": decode(func(ctx context.Context, s remote.Service, a identityArg) (any, error) {
		return nil, s.Unfollow(ctx, a.ID)
	}),
	"SubmitReputationReview": decode(func(ctx context.Context, s remote.Service, a reviewArg) (any, error) {
		return nil, s.SubmitReputationReview(ctx, a.Reviewee, a.Scores, a.Comment)
	}),
}
