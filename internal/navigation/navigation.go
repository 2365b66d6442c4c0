// Package navigation describes the panel menu and filters it by permissions.
package navigation

import (
	"sort"

	"github.com/BayiPanel/BayiPanel/internal/permission"
)

// Entry is a menu item. Entries tagged with a module are shown when the role
// may view that module; untagged entries follow Static.
type Entry struct {
	Title    string            `json:"title"`
	URL      string            `json:"url,omitempty"`
	Module   permission.Module `json:"module,omitempty"`
	Static   bool              `json:"-"`
	Children []Entry           `json:"children,omitempty"`
}

// Permissions is the resolved view the menu is filtered against.
type Permissions interface {
	// Pending reports whether resolution has not finished yet.
	Pending() bool
	// Allows must report false unless resolution succeeded and granted the action.
	Allows(module permission.Module, action permission.Action) bool
}

// Result of filtering a menu.
type Result struct {
	// Pending is set while permissions are loading. Entries is empty then and
	// nothing should be rendered as denied.
	Pending bool
	Entries []Entry
}

// Filter returns the entries role may see.
func Filter(entries []Entry, role permission.Role, perms Permissions, policy permission.Policy) Result {
	if policy.IsSuperAdmin(role) {
		return Result{Entries: clone(entries)}
	}

	if perms == nil || perms.Pending() {
		return Result{Pending: true}
	}

	return Result{Entries: filter(entries, perms)}
}

func filter(entries []Entry, perms Permissions) []Entry {
	out := make([]Entry, 0, len(entries))

	for _, e := range entries {
		children := filter(e.Children, perms)

		visible := e.Static
		if e.Module != "" {
			visible = perms.Allows(e.Module, permission.ActionView)
		}

		if !visible && len(children) == 0 {
			continue
		}

		e.Children = children
		out = append(out, e)
	}

	return out
}

func clone(entries []Entry) []Entry {
	out := make([]Entry, len(entries))

	for i, e := range entries {
		e.Children = clone(e.Children)
		out[i] = e
	}

	return out
}

// Route maps a URL prefix to the module guarding it.
type Route struct {
	Prefix string
	Module permission.Module
}

// Routes collects the module-tagged URLs of a menu, longest prefix first.
func Routes(entries []Entry) []Route {
	var out []Route

	var walk func([]Entry)
	walk = func(es []Entry) {
		for _, e := range es {
			if e.URL != "" && e.Module != "" {
				out = append(out, Route{Prefix: e.URL, Module: e.Module})
			}

			walk(e.Children)
		}
	}
	walk(entries)

	// longest prefix wins when matching
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Prefix) > len(out[j].Prefix)
	})

	return out
}

// Match reports the module guarding path, or false for a common route.
func Match(routes []Route, path string) (permission.Module, bool) {
	for _, r := range routes {
		if covers(r.Prefix, path) {
			return r.Module, true
		}
	}

	return "", false
}
