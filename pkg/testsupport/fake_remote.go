package testsupport

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/model"
	"github.com/goliatone/go-linkora/remote"
)

// Edge is one follow relation: From follows To.
type Edge struct {
	From identity.ID `json:"from"`
	To   identity.ID `json:"to"`
}

// Dataset seeds a FakeRemote. Maps are keyed by identity text or entity id.
type Dataset struct {
	Profiles    map[string]model.UserProfile        `json:"profiles"`
	Skills      map[string][]string                 `json:"skills"`
	Reviews     []model.ReputationReview            `json:"reviews"`
	Posts       []model.Post                        `json:"posts"`
	Communities []model.Community                   `json:"communities"`
	Messages    map[string][]model.CommunityMessage `json:"messages"`
	Events      []model.Event                       `json:"events"`
	Applicants  map[string][]identity.ID            `json:"applicants"`
	Follows     []Edge                              `json:"follows"`
}

// FakeRemote is an in-memory remote.Service. It counts calls per method,
// can fail or block selected methods and applies writes the way the real
// service does, so reads after a write observe it.
type FakeRemote struct {
	mu       sync.Mutex
	caller   identity.ID
	ready    bool
	data     Dataset
	comments map[string][]string
	calls    map[string]int
	failures map[string]error
	gates    map[string]chan struct{}
	now      func() time.Time
}

var _ remote.Service = (*FakeRemote)(nil)

// NewFakeRemote returns an empty, ready backend acting for caller.
func NewFakeRemote(caller identity.ID) *FakeRemote {
	f := &FakeRemote{
		caller:   caller,
		ready:    true,
		comments: map[string][]string{},
		calls:    map[string]int{},
		failures: map[string]error{},
		gates:    map[string]chan struct{}{},
		now:      time.Now,
	}
	f.Seed(Dataset{})
	return f
}

// Seed replaces the backend contents.
func (f *FakeRemote) Seed(d Dataset) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.Profiles == nil {
		d.Profiles = map[string]model.UserProfile{}
	}
	if d.Skills == nil {
		d.Skills = map[string][]string{}
	}
	if d.Messages == nil {
		d.Messages = map[string][]model.CommunityMessage{}
	}
	if d.Applicants == nil {
		d.Applicants = map[string][]identity.ID{}
	}
	f.data = d
}

// SetCaller changes the identity writes are attributed to.
func (f *FakeRemote) SetCaller(id identity.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.caller = id
}

func (f *FakeRemote) SetReady(ready bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ready = ready
}

func (f *FakeRemote) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

// Calls returns how many times method was invoked.
func (f *FakeRemote) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (f *FakeRemote) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// Fail makes every call to method return err. A nil err clears it.
func (f *FakeRemote) Fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, method)
		return
	}
	f.failures[method] = err
}

// Gate blocks calls to method until release is called.
func (f *FakeRemote) Gate(method string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[method] = ch
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			if f.gates[method] == ch {
				delete(f.gates, method)
			}
			f.mu.Unlock()
			close(ch)
		})
	}
}

func (f *FakeRemote) enter(ctx context.Context, method string) error {
	f.mu.Lock()
	f.calls[method]++
	gate := f.gates[method]
	err := f.failures[method]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *FakeRemote) authed() (identity.ID, error) {
	if f.caller.IsZero() {
		return identity.ID{}, remote.ErrNotAuthenticated
	}
	return f.caller, nil
}

func (f *FakeRemote) CallerProfile(ctx context.Context) (*model.UserProfile, error) {
	if err := f.enter(ctx, "CallerProfile"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile(f.caller), nil
}

func (f *FakeRemote) Profile(ctx context.Context, id identity.ID) (*model.UserProfile, error) {
	if err := f.enter(ctx, "Profile"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile(id), nil
}

func (f *FakeRemote) profile(id identity.ID) *model.UserProfile {
	p, ok := f.data.Profiles[id.String()]
	if !ok {
		return nil
	}
	return &p
}

func (f *FakeRemote) Skills(ctx context.Context, id identity.ID) ([]string, error) {
	if err := f.enter(ctx, "Skills"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.data.Skills[id.String()]...), nil
}

func (f *FakeRemote) Reputation(ctx context.Context, id identity.ID) ([]model.ReputationReview, error) {
	if err := f.enter(ctx, "Reputation"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reviewsOf(id), nil
}

func (f *FakeRemote) reviewsOf(id identity.ID) []model.ReputationReview {
	var out []model.ReputationReview
	for _, r := range f.data.Reviews {
		if r.Reviewee.Equal(id) {
			out = append(out, r)
		}
	}
	return out
}

func (f *FakeRemote) GlobalFeed(ctx context.Context) ([]model.Post, error) {
	if err := f.enter(ctx, "GlobalFeed"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return newestFirst(f.data.Posts, func(model.Post) bool { return true }), nil
}

func (f *FakeRemote) PersonalizedFeed(ctx context.Context) ([]model.Post, error) {
	if err := f.enter(ctx, "PersonalizedFeed"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	followed := map[string]bool{f.caller.String(): true}
	for _, e := range f.data.Follows {
		if e.From.Equal(f.caller) {
			followed[e.To.String()] = true
		}
	}
	return newestFirst(f.data.Posts, func(p model.Post) bool { return followed[p.Author.String()] }), nil
}

func newestFirst(posts []model.Post, keep func(model.Post) bool) []model.Post {
	out := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if keep(p) {
			p.Likes = append([]identity.ID(nil), p.Likes...)
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *FakeRemote) Communities(ctx context.Context) ([]model.Community, error) {
	if err := f.enter(ctx, "Communities"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Community, len(f.data.Communities))
	for i, c := range f.data.Communities {
		c.Members = append([]identity.ID(nil), c.Members...)
		out[i] = c
	}
	return out, nil
}

func (f *FakeRemote) CommunityMessages(ctx context.Context, communityID string) ([]model.CommunityMessage, error) {
	if err := f.enter(ctx, "CommunityMessages"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.CommunityMessage(nil), f.data.Messages[communityID]...), nil
}

func (f *FakeRemote) Events(ctx context.Context) ([]model.Event, error) {
	if err := f.enter(ctx, "Events"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Event(nil), f.data.Events...), nil
}

func (f *FakeRemote) EventApplicants(ctx context.Context, eventID string) ([]identity.ID, error) {
	if err := f.enter(ctx, "EventApplicants"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]identity.ID(nil), f.data.Applicants[eventID]...), nil
}

func (f *FakeRemote) Followers(ctx context.Context, id identity.ID) ([]identity.ID, error) {
	if err := f.enter(ctx, "Followers"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []identity.ID
	for _, e := range f.data.Follows {
		if e.To.Equal(id) {
			out = append(out, e.From)
		}
	}
	return out, nil
}

func (f *FakeRemote) Following(ctx context.Context, id identity.ID) ([]identity.ID, error) {
	if err := f.enter(ctx, "Following"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []identity.ID
	for _, e := range f.data.Follows {
		if e.From.Equal(id) {
			out = append(out, e.To)
		}
	}
	return out, nil
}

// SearchBySkill matches skills case-insensitively.
func (f *FakeRemote) SearchBySkill(ctx context.Context, skill string) ([]model.SearchResult, error) {
	if err := f.enter(ctx, "SearchBySkill"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	owners := make([]string, 0, len(f.data.Skills))
	for owner := range f.data.Skills {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	var out []model.SearchResult
	for _, owner := range owners {
		skills := f.data.Skills[owner]
		match := false
		for _, s := range skills {
			if strings.EqualFold(s, skill) {
				match = true
				break
			}
		}
		profile, ok := f.data.Profiles[owner]
		if !match || !ok {
			continue
		}
		out = append(out, model.SearchResult{
			Profile: profile,
			Skills:  append(model.Skills(nil), skills...),
			Reviews: f.reviewsOf(identity.MustParse(owner)),
		})
	}
	return out, nil
}

func (f *FakeRemote) SaveProfile(ctx context.Context, profile model.UserProfile) error {
	if err := f.enter(ctx, "SaveProfile"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.authed()
	if err != nil {
		return err
	}
	f.data.Profiles[caller.String()] = profile
	return nil
}

func (f *FakeRemote) AddSkill(ctx context.Context, skill string) error {
	if err := f.enter(ctx, "AddSkill"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.authed()
	if err != nil {
		return err
	}
	current := model.Skills(f.data.Skills[caller.String()])
	if err := current.CanAdd(skill); err != nil {
		return err
	}
	f.data.Skills[caller.String()] = append(current, skill)
	return nil
}

func (f *FakeRemote) RemoveSkill(ctx context.Context, skill string) error {
	if err := f.enter(ctx, "RemoveSkill"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.authed()
	if err != nil {
		return err
	}
	current := f.data.Skills[caller.String()]
	kept := current[:0:0]
	for _, s := range current {
		if s != skill {
			kept = append(kept, s)
		}
	}
	f.data.Skills[caller.String()] = kept
	return nil
}

func (f *FakeRemote) CreatePost(ctx context.Context, id, content, imageURL string) error {
	if err := f.enter(ctx, "CreatePost"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.authed()
	if err != nil {
		return err
	}
	f.data.Posts = append(f.data.Posts, model.Post{
		ID:        id,
		Author:    caller,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: f.now(),
	})
	return nil
}

func (f *FakeRemote) LikePost(ctx context.Context, postID string) error {
	if err := f.enter(ctx, "LikePost"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.authed()
	if err != nil {
		return err
	}
	for i := range f.data.Posts {
		p := &f.data.Posts[i]
		if p.ID != postID {
			continue
		}
		for _, who := range p.Likes {
			if who.Equal(caller) {
				return nil
			}
		}
		p.Likes = append(p.Likes, caller)
		return nil
	}
	return fmt.Errorf("post %s: %w", postID, remote.ErrNotFound)
}

func (f *FakeRemote) CommentOnPost(ctx context.Context, postID, content string) error {
	if err := f.enter(ctx, "CommentOnPost"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.authed(); err != nil {
		return err
	}
	for _, p := range f.data.Posts {
		if p.ID == postID {
			f.comments[postID] = append(f.comments[postID], content)
			return nil
		}
	}
	return fmt.Errorf("post %s: %w", postID, remote.ErrNotFound)
}

// Comments returns the comments recorded for postID.
func (f *FakeRemote) Comments(postID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.comments[postID]...)
}

func (f *FakeRemote) CreateCommunity(ctx context.Context, id, name, description, category string) error {
	if err := f.enter(ctx, "CreateCommunity"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.authed()
	if err != nil {
		return err
	}
	f.data.Communities = append(f.data.Communities, model.Community{
		ID:          id,
		Name:        name,
		Description: description,
		Category:    category,
		Members:     []identity.ID{caller},
	})
	return nil
}

func (f *FakeRemote) JoinCommunity(ctx context.Context, id string) error {
	return f.updateMembers(ctx, "JoinCommunity", id, func(members []identity.ID, caller identity.ID) []identity.ID {
		return addID(members, caller)
	})
}

func (f *FakeRemote) LeaveCommunity(ctx context.Context, id string) error {
	return f.updateMembers(ctx, "LeaveCommunity", id, func(members []identity.ID, caller identity.ID) []identity.ID {
		return removeID(members, caller)
	})
}

func (f *FakeRemote) updateMembers(ctx context.Context, method, id string, update func([]identity.ID, identity.ID) []identity.ID) error {
	if err := f.enter(ctx, method); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.authed()
	if err != nil {
		return err
	}
	for i := range f.data.Communities {
		if f.data.Communities[i].ID == id {
			f.data.Communities[i].Members = update(f.data.Communities[i].Members, caller)
			return nil
		}
	}
	return fmt.Errorf("community %s: %w", id, remote.ErrNotFound)
}

func (f *FakeRemote) PostCommunityMessage(ctx context.Context, communityID, content string) error {
	if err := f.enter(ctx, "PostCommunityMessage"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.authed()
	if err != nil {
		return err
	}
	msgs := f.data.Messages[communityID]
	f.data.Messages[communityID] = append(msgs, model.CommunityMessage{
		ID:        fmt.Sprintf("%s-%d", communityID, len(msgs)+1),
		Author:    caller,
		Content:   content,
		CreatedAt: f.now(),
	})
	return nil
}

func (f *FakeRemote) CreateEvent(ctx context.Context, event model.Event) error {
	if err := f.enter(ctx, "CreateEvent"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.authed()
	if err != nil {
		return err
	}
	event.Organizer = caller
	f.data.Events = append(f.data.Events, event)
	return nil
}

func (f *FakeRemote) ApplyToEvent(ctx context.Context, eventID string) error {
	if err := f.enter(ctx, "ApplyToEvent"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.authed()
	if err != nil {
		return err
	}
	f.data.Applicants[eventID] = addID(f.data.Applicants[eventID], caller)
	return nil
}

func (f *FakeRemote) ApproveApplication(ctx context.Context, eventID string, applicant identity.ID) error {
	return f.decide(ctx, "ApproveApplication", eventID, applicant)
}

func (f *FakeRemote) RejectApplication(ctx context.Context, eventID string, applicant identity.ID) error {
	return f.decide(ctx, "RejectApplication", eventID, applicant)
}

// decide removes applicant from the pending list of eventID.
func (f *FakeRemote) decide(ctx context.Context, method, eventID string, applicant identity.ID) error {
	if err := f.enter(ctx, method); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.authed(); err != nil {
		return err
	}
	f.data.Applicants[eventID] = removeID(f.data.Applicants[eventID], applicant)
	return nil
}

func (f *FakeRemote) Follow(ctx context.Context, id identity.ID) error {
	if err := f.enter(ctx, "Follow"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.authed()
	if err != nil {
		return err
	}
	for _, e := range f.data.Follows {
		if e.From.Equal(caller) && e.To.Equal(id) {
			return nil
		}
	}
	f.data.Follows = append(f.data.Follows, Edge{From: caller, To: id})
	return nil
}

func (f *FakeRemote) Unfollow(ctx context.Context, id identity.ID) error {
	if err := f.enter(ctx, "Unfollow"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.authed()
	if err != nil {
		return err
	}
	kept := f.data.Follows[:0:0]
	for _, e := range f.data.Follows {
		if !(e.From.Equal(caller) && e.To.Equal(id)) {
			kept = append(kept, e)
		}
	}
	f.data.Follows = kept
	return nil
}

func (f *FakeRemote) SubmitReputationReview(ctx context.Context, reviewee identity.ID, scores model.Scores, comment string) error {
	if err := f.enter(ctx, "SubmitReputationReview"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.authed()
	if err != nil {
		return err
	}
	f.data.Reviews = append(f.data.Reviews, model.ReputationReview{
		Reviewer:  caller,
		Reviewee:  reviewee,
		Scores:    scores,
		Comment:   comment,
		CreatedAt: f.now(),
	})
	return nil
}

func addID(ids []identity.ID, id identity.ID) []identity.ID {
	for _, existing := range ids {
		if existing.Equal(id) {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []identity.ID, id identity.ID) []identity.ID {
	kept := ids[:0:0]
	for _, existing := range ids {
		if !existing.Equal(id) {
			kept = append(kept, existing)
		}
	}
	return kept
}
