package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-linkora/identity"
)

func TestKey_String(t *testing.T) {
	a := identity.MustParse("aaaaa-aa")

	assert.Equal(t, "caller_profile", CallerProfileKey().String())
	assert.Equal(t, "followers::aaaaa-aa", FollowersKey(a).String())
	assert.Equal(t, "aaaaa-aa", FollowersKey(a).Param())
	assert.Equal(t, "", GlobalFeedKey().Param())
}

func TestKey_DistinctParams(t *testing.T) {
	a := identity.MustParse("aaaaa-aa")
	b := identity.MustParse("bbbbb-bb")

	assert.NotEqual(t, ProfileKey(a), ProfileKey(b))
	assert.NotEqual(t, ProfileKey(a).String(), FollowersKey(a).String())
	assert.Equal(t, ProfileKey(a), ProfileKey(identity.MustParse(" AAAAA-AA ")))
	assert.Equal(t, SearchBySkillKey("go"), SearchBySkillKey("  go "))
	assert.NotEqual(t, SearchBySkillKey("Go"), SearchBySkillKey("go"))
}

func TestKey_SearchTextCannotForgeAnotherKey(t *testing.T) {
	forged := SearchBySkillKey("x::y")
	assert.NotEqual(t, "search_by_skill::x::y", forged.String())
	assert.True(t, Family(KindSearchBySkill).Matches(forged))
}

func TestTarget_Matches(t *testing.T) {
	a := identity.MustParse("aaaaa-aa")
	b := identity.MustParse("bbbbb-bb")

	exact := Exact(FollowersKey(a))
	assert.True(t, exact.Matches(FollowersKey(a)))
	assert.False(t, exact.Matches(FollowersKey(b)))
	assert.False(t, exact.Matches(FollowingKey(a)))

	fam := Family(KindFollowers)
	assert.True(t, fam.Matches(FollowersKey(a)))
	assert.True(t, fam.Matches(FollowersKey(b)))
	assert.False(t, fam.Matches(FollowingKey(a)))
	assert.Equal(t, "followers::*", fam.String())
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	assert.Len(t, kinds, 13)
	for _, k := range kinds {
		assert.NotEqual(t, "unknown", k.String())
	}
	assert.False(t, KindEvents.Parameterized())
	assert.True(t, KindEventApplicants.Parameterized())
}
