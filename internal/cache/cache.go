// Package cache is a small keyed query cache. Executors invalidate keys
// after mutations; views subscribe to keys and refetch when notified.
package cache

import (
	"strings"
	"sync"
)

// Key identifies one cached query result.
type Key string

// Well-known keys. Parameterized keys append the identifying id.
const (
	KeyWorkspaces       Key = "workspaces"
	KeyRemoteWorkspaces Key = "remote-workspaces"
	KeyProjects         Key = "projects"
)

// Prefixes shared by each family of parameterized keys.
const (
	PrefixBranchStatus = "branch-status:"
	PrefixIssues       = "issues:"
)

// BranchStatusKey is the cache key for a workspace's branch status list.
func BranchStatusKey(workspaceID string) Key {
	return Key(PrefixBranchStatus + workspaceID)
}

// IssuesKey is the cache key for a project's issue list.
func IssuesKey(projectID string) Key {
	return Key(PrefixIssues + projectID)
}

// WorkspaceKey is the cache key for a single workspace record.
func WorkspaceKey(workspaceID string) Key {
	return Key("workspace:" + workspaceID)
}

// Client stores query results and fans out invalidation notices. Safe for
// concurrent use.
type Client struct {
	mu         sync.RWMutex
	entries    map[Key]any
	subs       map[Key]map[int]func()
	prefixSubs map[string]map[int]func()
	nextID     int
}

// NewClient creates an empty cache.
func NewClient() *Client {
	return &Client{
		entries:    make(map[Key]any),
		subs:       make(map[Key]map[int]func()),
		prefixSubs: make(map[string]map[int]func()),
	}
}

// Get returns the cached value for key, if present.
func (c *Client) Get(key Key) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores a value for key.
func (c *Client) Set(key Key, value any) {
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
}

// Invalidate drops the cached values for the given keys and notifies their
// subscribers. Unknown keys still notify so optimistic subscribers refetch.
func (c *Client) Invalidate(keys ...Key) {
	var fns []func()
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
		for _, fn := range c.subs[key] {
			fns = append(fns, fn)
		}
		for prefix, subs := range c.prefixSubs {
			if !strings.HasPrefix(string(key), prefix) {
				continue
			}
			for _, fn := range subs {
				fns = append(fns, fn)
			}
		}
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Subscribe registers fn to run whenever key is invalidated. The returned
// function removes the subscription.
func (c *Client) Subscribe(key Key, fn func()) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	if c.subs[key] == nil {
		c.subs[key] = make(map[int]func())
	}
	c.subs[key][id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs[key], id)
		c.mu.Unlock()
	}
}

// SubscribePrefix registers fn to run whenever any key with the given prefix
// is invalidated. Parameterized keys share a prefix per query family, so this
// is how a view observes "all issue lists" or "all branch statuses". The
// returned function removes the subscription.
func (c *Client) SubscribePrefix(prefix string, fn func()) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	if c.prefixSubs[prefix] == nil {
		c.prefixSubs[prefix] = make(map[int]func())
	}
	c.prefixSubs[prefix][id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.prefixSubs[prefix], id)
		c.mu.Unlock()
	}
}
