package client

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/BayiPanel/BayiPanel/internal/permission"
)

// State of the cached permission set.
type State int

// Cache states.
const (
	Uninitialized State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// Fetcher loads the resolved permission set of a role.
type Fetcher interface {
	FetchPermissions(ctx context.Context, role permission.Role) (permission.Set, error)
}

// Snapshot is the synchronous view of the cache menus render from.
type Snapshot struct {
	State State
	Role  permission.Role
	Set   permission.Set
	Err   error
}

// Pending reports whether the set is not known yet.
func (s Snapshot) Pending() bool {
	return s.State == Uninitialized || s.State == Loading
}

// Allows reports a granted action. Anything but Ready denies.
func (s Snapshot) Allows(module permission.Module, action permission.Action) bool {
	return s.State == Ready && s.Set.Allows(module, action)
}

// Stats counts fetches started and responses dropped because the role or
// generation they were requested for was no longer current.
type Stats struct {
	Fetches   uint64
	Discarded uint64
}

// Cache holds the permission set of one role at a time.
//
// Every role change and every Invalidate starts a new generation. Responses
// of an older generation are discarded on arrival.
type Cache struct {
	fetcher Fetcher
	timeout time.Duration
	group   singleflight.Group

	mu    sync.Mutex
	role  permission.Role
	gen   uint64
	state State
	set   permission.Set
	err   error

	fetches   atomic.Uint64
	discarded atomic.Uint64
}

// NewCache creates a cache. timeout bounds both a fetch and every wait in Resolve.
func NewCache(fetcher Fetcher, timeout time.Duration) *Cache {
	return &Cache{
		fetcher: fetcher,
		timeout: timeout,
	}
}

// Observe reports the role of the logged in user. A different role than the
// current one starts loading its permissions; the same role is a no-op.
func (c *Cache) Observe(role permission.Role) {
	c.mu.Lock()

	if c.state != Uninitialized && c.role == role {
		c.mu.Unlock()
		return
	}

	gen := c.switchLocked(role)
	c.mu.Unlock()

	c.start(role, gen)
}

// Invalidate refetches the permissions of the current role.
func (c *Cache) Invalidate() {
	c.mu.Lock()

	if c.state == Uninitialized {
		c.mu.Unlock()
		return
	}

	role := c.role
	gen := c.switchLocked(role)
	c.mu.Unlock()

	c.start(role, gen)
}

// Resolve returns the permission set of role, waiting for an in-flight fetch
// for at most the configured timeout. Concurrent callers share one request.
// On failure the returned set is empty, never nil.
func (c *Cache) Resolve(ctx context.Context, role permission.Role) (permission.Set, error) {
	c.mu.Lock()

	if c.state == Uninitialized || c.role != role {
		c.switchLocked(role)
	}

	switch c.state {
	case Ready:
		set := c.set.Clone()
		c.mu.Unlock()

		return set, nil
	case Failed:
		err := c.err
		c.mu.Unlock()

		return permission.Set{}, err
	}

	gen := c.gen
	c.mu.Unlock()

	ch := c.start(role, gen)

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.Err != nil {
			return permission.Set{}, res.Err
		}

		set, _ := res.Val.(permission.Set)

		return set.Clone(), nil
	case <-timer.C:
		c.mu.Lock()
		if c.role == role && c.gen == gen && c.state == Loading {
			c.failLocked(ErrResolveTimeout)
		}
		c.mu.Unlock()

		return permission.Set{}, ErrResolveTimeout
	case <-ctx.Done():
		return permission.Set{}, ctx.Err()
	}
}

// Snapshot returns the current state without blocking.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{State: c.state, Role: c.role, Err: c.err}

	switch c.state {
	case Ready:
		snap.Set = c.set.Clone()
	case Failed:
		snap.Set = permission.Set{}
	}

	return snap
}

// Stats returns fetch and discard counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Fetches:   c.fetches.Load(),
		Discarded: c.discarded.Load(),
	}
}

func (c *Cache) switchLocked(role permission.Role) uint64 {
	c.role = role
	c.gen++
	c.state = Loading
	c.set = nil
	c.err = nil

	return c.gen
}

func flightKey(role permission.Role, gen uint64) string {
	return string(role) + "#" + strconv.FormatUint(gen, 10)
}

// start joins or starts the fetch of role for generation gen.
func (c *Cache) start(role permission.Role, gen uint64) <-chan singleflight.Result {
	return c.group.DoChan(flightKey(role, gen), func() (any, error) {
		return c.fetch(role, gen)
	})
}

func (c *Cache) fetch(role permission.Role, gen uint64) (permission.Set, error) {
	c.mu.Lock()
	if c.role == role && c.gen == gen && c.state != Loading {
		// the generation was settled before this flight started
		set, err := c.set.Clone(), c.err
		c.mu.Unlock()

		return set, err
	}
	c.mu.Unlock()

	c.fetches.Add(1)

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	set, err := c.fetcher.FetchPermissions(ctx, role)
	if errors.Is(err, context.DeadlineExceeded) {
		err = ErrResolveTimeout
	}

	if set == nil {
		set = permission.Set{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.role != role || c.gen != gen {
		c.discardLocked(role, gen)

		return set, err
	}

	if err != nil {
		c.failLocked(err)

		return nil, err
	}

	c.state = Ready
	c.set = set.Clone()
	c.err = nil

	return set, nil
}

func (c *Cache) failLocked(err error) {
	c.state = Failed
	c.set = nil
	c.err = err
}

func (c *Cache) discardLocked(role permission.Role, gen uint64) {
	c.discarded.Add(1)

	log.Debug().
		Str("role", string(role)).
		Uint64("generation", gen).
		Str("current_role", string(c.role)).
		Uint64("current_generation", c.gen).
		Msg("discarding stale permission response")
}
