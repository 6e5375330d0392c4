// Package social answers membership questions over identity lists that were
// read from the cache. Every check is a linear scan comparing canonical
// text, so two distinct values naming the same identity always match. No
// index is kept; callers re-derive answers from the current list.
package social

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/model"
)

// Contains reports whether who appears in set. A zero identity is never
// contained, nor is a nil one, typed or not. Nil members are skipped.
func Contains[S fmt.Stringer](set []S, who fmt.Stringer) bool {
	if isNil(who) {
		return false
	}
	want := identity.Canonical(who.String())
	if want == "" {
		return false
	}
	for _, member := range set {
		if isNil(member) {
			continue
		}
		if identity.Canonical(member.String()) == want {
			return true
		}
	}
	return false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// IsMember reports whether who is in the community's member set.
func IsMember(members []identity.ID, who fmt.Stringer) bool {
	return Contains(members, who)
}

// IsFollowing reports whether who appears in a follower list.
func IsFollowing(followers []identity.ID, who fmt.Stringer) bool {
	return Contains(followers, who)
}

// IsCommunityMember checks membership of c.
func IsCommunityMember(c model.Community, who fmt.Stringer) bool {
	return Contains(c.Members, who)
}

// IsOrganizer reports whether who organizes e.
func IsOrganizer(e model.Event, who fmt.Stringer) bool {
	return IsSelf(e.Organizer, who)
}

// HasApplied reports whether who is among an event's applicants.
func HasApplied(applicants []identity.ID, who fmt.Stringer) bool {
	return Contains(applicants, who)
}

// HasLiked reports whether who liked p.
func HasLiked(p model.Post, who fmt.Stringer) bool {
	return Contains(p.Likes, who)
}

// AuthoredBy keeps the posts written by who, in order.
func AuthoredBy(posts []model.Post, who fmt.Stringer) []model.Post {
	var out []model.Post
	for _, p := range posts {
		if IsSelf(p.Author, who) {
			out = append(out, p)
		}
	}
	return out
}

// IsSelf reports whether viewing and caller name the same, non-zero identity.
func IsSelf(viewing identity.ID, caller fmt.Stringer) bool {
	return Contains([]identity.ID{viewing}, caller)
}
