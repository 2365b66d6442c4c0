package client

import (
	"context"

	"github.com/BayiPanel/BayiPanel/internal/navigation"
	"github.com/BayiPanel/BayiPanel/internal/permission"
)

// GateState is the outcome of entering a route.
type GateState int

// Gate states.
const (
	Checking GateState = iota
	Authorized
	Denied
)

func (s GateState) String() string {
	switch s {
	case Checking:
		return "checking"
	case Authorized:
		return "authorized"
	default:
		return "denied"
	}
}

// Decision is the result of one navigation.
type Decision struct {
	State  GateState
	Path   string
	Module permission.Module
	// Transient marks a denial caused by a failed lookup rather than by a
	// missing permission. Navigating again retries.
	Transient bool
	Err       error
}

// Gate guards routes that belong to a module.
type Gate struct {
	cache  *Cache
	routes []navigation.Route
	policy permission.Policy
	notify func(Decision)
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithNotify registers a callback receiving every state the gate passes through,
// including Checking.
func WithNotify(fn func(Decision)) GateOption {
	return func(g *Gate) {
		g.notify = fn
	}
}

// NewGate creates a gate for routes. Paths matching no route are common and
// always authorized.
func NewGate(cache *Cache, routes []navigation.Route, policy permission.Policy, opts ...GateOption) *Gate {
	g := &Gate{
		cache:  cache,
		routes: routes,
		policy: policy,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Enter decides whether role may open path.
func (g *Gate) Enter(ctx context.Context, path string, role permission.Role) Decision {
	module, guarded := navigation.Match(g.routes, path)
	d := Decision{Path: path, Module: module}

	if !guarded || g.policy.IsSuperAdmin(role) {
		return g.emit(d, Authorized)
	}

	g.emit(d, Checking)

	// a failed lookup is retried once per navigation, never in a loop
	if snap := g.cache.Snapshot(); snap.State == Failed && snap.Role == role {
		g.cache.Invalidate()
	}

	set, err := g.cache.Resolve(ctx, role)
	if err != nil {
		d.Transient = true
		d.Err = err

		return g.emit(d, Denied)
	}

	if set.Allows(module, permission.ActionView) {
		return g.emit(d, Authorized)
	}

	return g.emit(d, Denied)
}

func (g *Gate) emit(d Decision, state GateState) Decision {
	d.State = state

	if g.notify != nil {
		g.notify(d)
	}

	return d
}
