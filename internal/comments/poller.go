package comments

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/edgetopconsult/edge-site/internal/models"
)

// DefaultInterval is how often an open post view re-fetches its comments.
const DefaultInterval = 5 * time.Second

// Source lists the comments of a post.
type Source interface {
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
}

// Feed holds the latest comment list of one view. Every fetch takes a
// sequence number from Begin; a response older than the last applied one is
// discarded, so a slow poll can never overwrite a newer list.
type Feed struct {
	mu       sync.Mutex
	next     uint64
	applied  uint64
	comments []models.Comment
}

func (f *Feed) Begin() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	return f.next
}

// Apply stores list if seq is newer than anything applied so far.
func (f *Feed) Apply(seq uint64, list []models.Comment) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq <= f.applied {
		return false
	}
	f.applied = seq
	f.comments = append([]models.Comment(nil), list...)
	return true
}

func (f *Feed) Comments() []models.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Comment(nil), f.comments...)
}

// Poller periodically fetches the comments of one post for as long as its
// context lives.
type Poller struct {
	src      Source
	postID   string
	interval time.Duration
	feed     Feed
	refresh  chan struct{}
}

func NewPoller(src Source, postID string, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		src:      src,
		postID:   postID,
		interval: interval,
		refresh:  make(chan struct{}, 1),
	}
}

func (p *Poller) PostID() string { return p.postID }

func (p *Poller) Comments() []models.Comment { return p.feed.Comments() }

// Refresh asks the poller to fetch now. It never blocks; refreshes requested
// while one is pending are merged.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

type pollResult struct {
	seq      uint64
	comments []models.Comment
	err      error
}

// Run fetches immediately, then on every tick and every Refresh, until ctx is
// cancelled. Fetches run concurrently; onUpdate is called from Run's
// goroutine with each list that is applied.
func (p *Poller) Run(ctx context.Context, onUpdate func([]models.Comment)) error {
	results := make(chan pollResult)
	var wg sync.WaitGroup
	defer wg.Wait()

	fetch := func() {
		seq := p.feed.Begin()
		wg.Add(1)
		go func() {
			defer wg.Done()
			list, err := p.src.ListComments(ctx, p.postID)
			select {
			case results <- pollResult{seq: seq, comments: list, err: err}:
			case <-ctx.Done():
			}
		}()
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	fetch()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fetch()
		case <-p.refresh:
			fetch()
		case r := <-results:
			if r.err != nil {
				if ctx.Err() == nil {
					log.Printf("comments: poll post %s: %v", p.postID, r.err)
				}
				continue
			}
			if p.feed.Apply(r.seq, r.comments) && onUpdate != nil {
				onUpdate(p.feed.Comments())
			}
		}
	}
}
