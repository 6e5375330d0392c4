package query

import (
	"strings"

	"github.com/goliatone/go-linkora/cache"
	"github.com/goliatone/go-linkora/identity"
)

// Kind enumerates the read operations whose results are cached.
type Kind int

const (
	KindCallerProfile Kind = iota + 1
	KindProfile
	KindSkills
	KindReputation
	KindGlobalFeed
	KindPersonalizedFeed
	KindCommunities
	KindCommunityMessages
	KindEvents
	KindEventApplicants
	KindFollowers
	KindFollowing
	KindSearchBySkill
)

var kindNames = map[Kind]string{
	KindCallerProfile:     "caller_profile",
	KindProfile:           "profile",
	KindSkills:            "skills",
	KindReputation:        "reputation",
	KindGlobalFeed:        "global_feed",
	KindPersonalizedFeed:  "personalized_feed",
	KindCommunities:       "communities",
	KindCommunityMessages: "community_messages",
	KindEvents:            "events",
	KindEventApplicants:   "event_applicants",
	KindFollowers:         "followers",
	KindFollowing:         "following",
	KindSearchBySkill:     "search_by_skill",
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := KindCallerProfile; k <= KindSearchBySkill; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Parameterized reports whether keys of this kind carry a parameter.
func (k Kind) Parameterized() bool {
	switch k {
	case KindCallerProfile, KindGlobalFeed, KindPersonalizedFeed, KindCommunities, KindEvents:
		return false
	}
	return true
}

var keySerializer = cache.NewDefaultKeySerializer()

// Key identifies one cached read: a kind plus its parameter. Keys are only
// built through the constructors below, so a Key always has a valid kind.
type Key struct {
	kind  Kind
	param string
	text  string
}

func newKey(kind Kind, args ...any) Key {
	k := Key{kind: kind, text: keySerializer.SerializeKey(kind.String(), args...)}
	if len(args) > 0 {
		k.param = strings.TrimPrefix(k.text, kind.String()+cache.KeySeparator)
	}
	return k
}

func (k Key) Kind() Kind { return k.kind }

// Param is the serialized parameter, empty for unparameterized kinds.
func (k Key) Param() string { return k.param }

// String is the canonical key text, e.g. "followers::aaaaa-aa".
func (k Key) String() string { return k.text }

// IsZero reports whether k was not built by a constructor.
func (k Key) IsZero() bool { return k.kind == 0 }

func CallerProfileKey() Key                 { return newKey(KindCallerProfile) }
func ProfileKey(id identity.ID) Key         { return newKey(KindProfile, id) }
func SkillsKey(id identity.ID) Key          { return newKey(KindSkills, id) }
func ReputationKey(id identity.ID) Key      { return newKey(KindReputation, id) }
func GlobalFeedKey() Key                    { return newKey(KindGlobalFeed) }
func PersonalizedFeedKey() Key              { return newKey(KindPersonalizedFeed) }
func CommunitiesKey() Key                   { return newKey(KindCommunities) }
func CommunityMessagesKey(id string) Key    { return newKey(KindCommunityMessages, id) }
func EventsKey() Key                        { return newKey(KindEvents) }
func EventApplicantsKey(eventID string) Key { return newKey(KindEventApplicants, eventID) }
func FollowersKey(id identity.ID) Key       { return newKey(KindFollowers, id) }
func FollowingKey(id identity.ID) Key       { return newKey(KindFollowing, id) }

// SearchBySkillKey keys a skill search by its trimmed text.
func SearchBySkillKey(skill string) Key {
	return newKey(KindSearchBySkill, strings.TrimSpace(skill))
}

// Target selects entries to invalidate: one exact key or a whole kind.
type Target struct {
	kind   Kind
	key    Key
	family bool
}

// Exact targets a single key.
func Exact(k Key) Target { return Target{kind: k.kind, key: k} }

// Family targets every key of a kind.
func Family(k Kind) Target { return Target{kind: k, family: true} }

func (t Target) Kind() Kind     { return t.kind }
func (t Target) IsFamily() bool { return t.family }

// Key returns the exact key; zero for a family target.
func (t Target) Key() Key { return t.key }

// Matches reports whether k is selected by t.
func (t Target) Matches(k Key) bool {
	if t.family {
		return k.kind == t.kind
	}
	return k.text == t.key.text
}

func (t Target) String() string {
	if t.family {
		return t.kind.String() + cache.KeySeparator + "*"
	}
	return t.key.String()
}
