package findsync

import (
	"context"
	"sync"
)

// URLSigner exchanges an object name for a signed read URL. *Client
// satisfies it.
type URLSigner interface {
	SignedURL(ctx context.Context, object string) (string, error)
}

// URLCache resolves signed URLs at most once per object name per session.
// A changed object name is a different key and resolves fresh; entries are
// never shared between attachments.
type URLCache struct {
	signer URLSigner

	mu      sync.Mutex
	entries map[string]string
}

// NewURLCache returns an empty cache backed by the given signer.
func NewURLCache(signer URLSigner) *URLCache {
	return &URLCache{
		signer:  signer,
		entries: make(map[string]string),
	}
}

// Resolve returns the signed URL for object, fetching it on first use.
func (c *URLCache) Resolve(ctx context.Context, object string) (string, error) {
	if object == "" {
		return "", nil
	}

	c.mu.Lock()
	if u, ok := c.entries[object]; ok {
		c.mu.Unlock()
		return u, nil
	}
	c.mu.Unlock()

	// Fetch outside the lock; a concurrent duplicate fetch is harmless, the
	// last writer wins and both URLs are valid.
	u, err := c.signer.SignedURL(ctx, object)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.entries[object] = u
	c.mu.Unlock()
	return u, nil
}

// Invalidate drops the cached URL for object, forcing the next Resolve to
// fetch a fresh one.
func (c *URLCache) Invalidate(object string) {
	c.mu.Lock()
	delete(c.entries, object)
	c.mu.Unlock()
}
