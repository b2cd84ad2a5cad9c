// Package role defines the membership role hierarchy and is the single
// source of truth for role ordering. Every authorization comparison in
// the codebase goes through AtLeast; nothing compares role strings.
package role

import "errors"

// Role is a membership role inside an organization.
type Role string

const (
	Owner  Role = "owner"
	Admin  Role = "admin"
	Member Role = "member"
	Viewer Role = "viewer"
)

var ErrInvalidRole = errors.New("invalid_role")

// ranks is a total order, Owner maximal. Unknown roles rank below every
// valid role.
var ranks = map[Role]int{
	Viewer: 1,
	Member: 2,
	Admin:  3,
	Owner:  4,
}

// Rank returns the role's position in the hierarchy, 0 for unknown roles.
func Rank(r Role) int {
	return ranks[r]
}

// AtLeast reports whether actual grants at least the privileges of
// required. Comparison is by rank, never by string equality.
func AtLeast(actual, required Role) bool {
	ra, rr := ranks[actual], ranks[required]
	return ra > 0 && rr > 0 && ra >= rr
}

// Valid reports whether r is a known role.
func Valid(r Role) bool {
	_, ok := ranks[r]
	return ok
}

// Parse normalizes a raw role string from an external caller.
func Parse(raw string) (Role, error) {
	r := Role(raw)
	if !Valid(r) {
		return "", ErrInvalidRole
	}
	return r, nil
}

// All lists the known roles from highest to lowest rank.
func All() []Role {
	return []Role{Owner, Admin, Member, Viewer}
}
