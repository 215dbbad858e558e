// Package policy decides which profile permissions a user holds for the /admin surface.
package policy

import "strings"

// Action is the operation a user wants to perform on a resource.
type Action string

const (
	ActionList   Action = "list"
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

const Wildcard = "*"

// Permission is a "resource:action" pair; either half may be the wildcard.
type Permission string

// SuperAdmin grants every action on every resource.
const SuperAdmin Permission = "*:*"

func NewPermission(resource string, action Action) Permission {
	return Permission(resource + ":" + string(action))
}

func (p Permission) Parse() (resource string, action Action) {
	res, act, ok := strings.Cut(string(p), ":")
	if !ok {
		return "", ""
	}
	return res, Action(act)
}

// Matches reports whether holding p grants requested.
func (p Permission) Matches(requested Permission) bool {
	if p == SuperAdmin || p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, _ := requested.Parse()
	return res == reqRes && string(act) == Wildcard
}
