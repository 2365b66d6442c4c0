package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/BayiPanel/BayiPanel/internal/permission"
)

const minEntries = 16

// Memory is an in-process LRU cache with a per entry TTL.
type Memory struct {
	lru *lru.LRU[permission.Role, permission.Set]
}

// NewMemory creates an LRU holding at most size roles for ttl each.
func NewMemory(size int, ttl time.Duration) *Memory {
	if size < minEntries {
		size = minEntries
	}

	return &Memory{lru: lru.NewLRU[permission.Role, permission.Set](size, nil, ttl)}
}

// Get returns a copy of the cached set.
func (m *Memory) Get(_ context.Context, role permission.Role) (permission.Set, error) {
	set, ok := m.lru.Get(role)
	if !ok {
		return nil, ErrCacheMiss
	}

	return set.Clone(), nil
}

// Set stores a copy of set.
func (m *Memory) Set(_ context.Context, role permission.Role, set permission.Set) error {
	m.lru.Add(role, set.Clone())

	return nil
}

// Delete drops the role's entry.
func (m *Memory) Delete(_ context.Context, role permission.Role) error {
	m.lru.Remove(role)

	return nil
}

// Len returns the number of cached roles.
func (m *Memory) Len() int {
	return m.lru.Len()
}

// Close purges every entry.
func (m *Memory) Close() error {
	m.lru.Purge()

	return nil
}
