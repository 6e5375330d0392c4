package social

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/model"
)

type rawPrincipal struct{ text string }

func (p *rawPrincipal) String() string { return p.text }

var (
	a = identity.MustParse("aaaaa-aa")
	b = identity.MustParse("bbbbb-bb")
	c = identity.MustParse("ccccc-cc")
	d = identity.MustParse("ddddd-dd")
)

func TestIsMember(t *testing.T) {
	set := []identity.ID{a, b, c}

	assert.True(t, IsMember(set, a))
	assert.False(t, IsMember(set, d))
	assert.False(t, IsMember(nil, a))
}

func TestIsMember_DistinctInstances(t *testing.T) {
	set := []identity.ID{a, b, c}

	first := &rawPrincipal{text: "aaaaa-aa"}
	second := &rawPrincipal{text: " AAAAA-AA"}
	assert.NotSame(t, first, second)

	assert.True(t, IsMember(set, first))
	assert.True(t, IsMember(set, second))
	assert.True(t, IsMember(set, identity.MustParse("aaaaa-aa")))
}

func TestContains_ZeroNeverMatches(t *testing.T) {
	assert.False(t, Contains([]identity.ID{{}}, identity.ID{}))
	assert.False(t, Contains([]identity.ID{a}, nil))
	assert.False(t, IsSelf(identity.ID{}, identity.ID{}))
}

func TestContains_TypedNilNeverMatches(t *testing.T) {
	var nobody *rawPrincipal

	assert.NotPanics(t, func() {
		assert.False(t, Contains([]identity.ID{a}, nobody))
		assert.False(t, IsMember([]identity.ID{a}, nobody))
	})
	assert.NotPanics(t, func() {
		set := []*rawPrincipal{nil, {text: "aaaaa-aa"}}
		assert.True(t, Contains(set, a))
		assert.False(t, Contains(set, b))
	})
}

func TestIsFollowing(t *testing.T) {
	followers := []identity.ID{b, c}
	assert.True(t, IsFollowing(followers, c))
	assert.False(t, IsFollowing(followers, a))
}

func TestEventAndPostHelpers(t *testing.T) {
	event := model.Event{ID: "e-1", Organizer: a}
	assert.True(t, IsOrganizer(event, &rawPrincipal{text: "aaaaa-aa"}))
	assert.False(t, IsOrganizer(event, b))
	assert.True(t, HasApplied([]identity.ID{b}, b))

	post := model.Post{ID: "p-1", Author: a, Likes: []identity.ID{b}}
	assert.True(t, HasLiked(post, b))
	assert.False(t, HasLiked(post, a))

	community := model.Community{Members: []identity.ID{c}}
	assert.True(t, IsCommunityMember(community, c))

	posts := []model.Post{post, {ID: "p-2", Author: b}, {ID: "p-3", Author: a}}
	mine := AuthoredBy(posts, a)
	assert.Len(t, mine, 2)
	assert.Equal(t, "p-3", mine[1].ID)
}
