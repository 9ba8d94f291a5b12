// Package policy maps roles to the document categories they may read.
//
// The mapping is total: every role, including an unrecognised one, resolves
// to a non-empty set that always contains CategoryGeneral. Nothing is granted
// implicitly; the admin role lists every category it can see.
package policy

import (
	"sort"
	"strings"
)

// Role is the enumerated identity attribute carried by users and tokens.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleEngineering Role = "engineering"
	RoleFinance     Role = "finance"
	RoleHR          Role = "hr"
	RoleMarketing   Role = "marketing"
	RoleUser        Role = "user"

	// RoleUnknown is what ParseRole returns for anything outside the set above.
	RoleUnknown Role = ""
)

// Category labels an indexed passage.
type Category string

const (
	CategoryEngineering Category = "engineering"
	CategoryFinance     Category = "finance"
	CategoryHR          Category = "hr"
	CategoryMarketing   Category = "marketing"
	CategoryGeneral     Category = "general"

	// CategoryRestricted stands for any label outside the set above. No role
	// is granted it, so such passages are never returned.
	CategoryRestricted Category = "restricted"
)

// CategorySet is an immutable-by-convention set of categories.
type CategorySet map[Category]struct{}

// Contains reports whether c is in the set.
func (s CategorySet) Contains(c Category) bool {
	_, ok := s[c]
	return ok
}

// Sorted returns the members in lexical order, for logs and tests.
func (s CategorySet) Sorted() []Category {
	out := make([]Category, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func setOf(cs ...Category) CategorySet {
	s := make(CategorySet, len(cs))
	for _, c := range cs {
		s[c] = struct{}{}
	}
	return s
}

// ParseRole normalises a role string. Unrecognised values yield RoleUnknown.
func ParseRole(s string) Role {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleEngineering, RoleFinance, RoleHR, RoleMarketing, RoleUser:
		return r
	default:
		return RoleUnknown
	}
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r != RoleUnknown && ParseRole(string(r)) == r
}

// AllowedCategories returns the categories role may read. A fresh set is
// built on every call so callers can never mutate shared state.
func AllowedCategories(role Role) CategorySet {
	switch ParseRole(string(role)) {
	case RoleAdmin:
		return setOf(CategoryEngineering, CategoryFinance, CategoryHR, CategoryMarketing, CategoryGeneral)
	case RoleEngineering:
		return setOf(CategoryEngineering, CategoryGeneral)
	case RoleFinance:
		return setOf(CategoryFinance, CategoryGeneral)
	case RoleHR:
		return setOf(CategoryHR, CategoryGeneral)
	case RoleMarketing:
		return setOf(CategoryMarketing, CategoryGeneral)
	case RoleUser:
		return setOf(CategoryGeneral)
	default:
		return setOf(CategoryGeneral)
	}
}

// ParseCategory maps a stored label to a Category. A missing label is
// general; a label that is present but unrecognised is CategoryRestricted.
func ParseCategory(s string) Category {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CategoryGeneral
	case CategoryEngineering, CategoryFinance, CategoryHR, CategoryMarketing, CategoryGeneral:
		return c
	default:
		return CategoryRestricted
	}
}
