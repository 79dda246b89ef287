// Package posts keeps the site's view of the public post list between
// requests.
package posts

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/edgetopconsult/edge-site/internal/models"
)

// Loader fetches the full post list from the content API.
type Loader func(ctx context.Context) ([]models.Post, error)

// Listing caches the public post list for a short TTL. Creating a post
// invalidates it; deleting one removes the entry in place.
//
// Every Invalidate and Remove bumps gen. A load that started before an
// Invalidate is not cached, and ids removed while a load was running are
// filtered out of its result.
type Listing struct {
	mu       sync.Mutex
	ttl      time.Duration
	posts    []models.Post
	loadedAt time.Time
	valid    bool
	now      func() time.Time

	gen         uint64
	invalidated uint64
	loading     int
	removed     map[string]uint64
}

func NewListing(ttl time.Duration) *Listing {
	return &Listing{ttl: ttl, now: time.Now, removed: make(map[string]uint64)}
}

// Get returns the cached list, loading it when empty or stale. The returned
// slice is a copy.
func (l *Listing) Get(ctx context.Context, load Loader) ([]models.Post, error) {
	l.mu.Lock()
	if l.valid && l.now().Sub(l.loadedAt) < l.ttl {
		out := clonePosts(l.posts)
		l.mu.Unlock()
		return out, nil
	}
	start := l.gen
	l.loading++
	l.mu.Unlock()

	posts, err := load(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	defer func() {
		l.loading--
		if l.loading == 0 {
			clear(l.removed)
		}
	}()
	if err != nil {
		return nil, err
	}

	kept := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if g, ok := l.removed[p.ID]; ok && g > start {
			continue
		}
		kept = append(kept, p)
	}
	if l.invalidated > start {
		// Older than the latest create; serve it once, keep reloading.
		return kept, nil
	}
	l.posts = clonePosts(kept)
	l.loadedAt = l.now()
	l.valid = true
	return kept, nil
}

// Invalidate forces the next Get to reload.
func (l *Listing) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.invalidated = l.gen
	l.valid = false
	l.posts = nil
}

// Remove drops a post from the cached list without reloading.
func (l *Listing) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	if l.loading > 0 {
		l.removed[id] = l.gen
	}
	kept := l.posts[:0]
	for _, p := range l.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	l.posts = kept
}

func clonePosts(in []models.Post) []models.Post {
	out := make([]models.Post, len(in))
	copy(out, in)
	return out
}

var ErrDeleteInProgress = errors.New("delete already in progress")

// Deleter serialises deletes per post id. A second delete for the same post
// while the first is still running is rejected.
type Deleter struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
	listing  *Listing
}

func NewDeleter(listing *Listing) *Deleter {
	return &Deleter{inFlight: make(map[string]struct{}), listing: listing}
}

// Delete runs del for id and removes the post from the listing on success.
func (d *Deleter) Delete(ctx context.Context, id string, del func(ctx context.Context, id string) error) error {
	d.mu.Lock()
	if _, busy := d.inFlight[id]; busy {
		d.mu.Unlock()
		return ErrDeleteInProgress
	}
	d.inFlight[id] = struct{}{}
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.inFlight, id)
		d.mu.Unlock()
	}()

	if err := del(ctx, id); err != nil {
		return err
	}
	if d.listing != nil {
		d.listing.Remove(id)
	}
	return nil
}

// Pending reports whether a delete for id is running.
func (d *Deleter) Pending(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.inFlight[id]
	return ok
}
