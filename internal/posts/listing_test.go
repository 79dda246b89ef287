package posts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/edgetopconsult/edge-site/internal/models"
)

func counting(posts ...models.Post) (Loader, *int) {
	calls := 0
	return func(context.Context) ([]models.Post, error) {
		calls++
		return posts, nil
	}, &calls
}

func TestListingCachesWithinTTL(t *testing.T) {
	l := NewListing(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	load, calls := counting(models.Post{ID: "a"})

	ctx := context.Background()
	l.Get(ctx, load)
	l.Get(ctx, load)
	if *calls != 1 {
		t.Fatalf("loader called %d times", *calls)
	}
	now = now.Add(2 * time.Minute)
	l.Get(ctx, load)
	if *calls != 2 {
		t.Fatalf("stale cache not reloaded, calls = %d", *calls)
	}
	l.Invalidate()
	l.Get(ctx, load)
	if *calls != 3 {
		t.Fatalf("invalidate did not force reload, calls = %d", *calls)
	}
}

func TestListingLoadError(t *testing.T) {
	l := NewListing(time.Minute)
	boom := errors.New("boom")
	if _, err := l.Get(context.Background(), func(context.Context) ([]models.Post, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestDeleterRemovesFromListing(t *testing.T) {
	l := NewListing(time.Minute)
	load, calls := counting(models.Post{ID: "a"}, models.Post{ID: "b"})
	ctx := context.Background()
	l.Get(ctx, load)

	d := NewDeleter(l)
	if err := d.Delete(ctx, "a", func(context.Context, string) error { return nil }); err != nil {
		t.Fatal(err)
	}
	got, _ := l.Get(ctx, load)
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("listing after delete = %+v", got)
	}
	if *calls != 1 {
		t.Fatal("delete should not trigger a reload")
	}
}

func TestDeleterFailureKeepsPost(t *testing.T) {
	l := NewListing(time.Minute)
	load, _ := counting(models.Post{ID: "a"})
	ctx := context.Background()
	l.Get(ctx, load)

	d := NewDeleter(l)
	boom := errors.New("server error")
	if err := d.Delete(ctx, "a", func(context.Context, string) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	got, _ := l.Get(ctx, load)
	if len(got) != 1 {
		t.Fatal("failed delete must leave the post listed")
	}
	if d.Pending("a") {
		t.Fatal("in-flight marker not cleared")
	}
}

func TestDeleterRejectsConcurrentDelete(t *testing.T) {
	d := NewDeleter(nil)
	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.Delete(context.Background(), "a", func(context.Context, string) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	if err := d.Delete(context.Background(), "a", func(context.Context, string) error { return nil }); !errors.Is(err, ErrDeleteInProgress) {
		t.Fatalf("err = %v", err)
	}
	close(release)
	wg.Wait()
}

// blockingLoader returns a loader that signals when it starts and waits for
// release before returning the given posts. Later calls return next.
func blockingLoader(first, next []models.Post) (Loader, chan struct{}, chan struct{}, *int) {
	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0
	return func(context.Context) ([]models.Post, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(started)
			<-release
			return first, nil
		}
		return next, nil
	}, started, release, &calls
}

func TestListingDeleteDuringLoad(t *testing.T) {
	l := NewListing(time.Minute)
	stale := []models.Post{{ID: "a"}, {ID: "b"}}
	load, started, release, calls := blockingLoader(stale, stale)
	ctx := context.Background()

	done := make(chan []models.Post)
	go func() {
		got, _ := l.Get(ctx, load)
		done <- got
	}()
	<-started

	d := NewDeleter(l)
	if err := d.Delete(ctx, "a", func(context.Context, string) error { return nil }); err != nil {
		t.Fatal(err)
	}
	close(release)

	if got := <-done; len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("in-flight load returned %+v", got)
	}
	got, _ := l.Get(ctx, load)
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("deleted post back in listing: %+v", got)
	}
	if *calls != 1 {
		t.Fatalf("loader called %d times", *calls)
	}
}

func TestListingInvalidateDuringLoad(t *testing.T) {
	l := NewListing(time.Minute)
	load, started, release, calls := blockingLoader(
		[]models.Post{{ID: "a"}},
		[]models.Post{{ID: "a"}, {ID: "new"}},
	)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		l.Get(ctx, load)
		close(done)
	}()
	<-started
	l.Invalidate()
	close(release)
	<-done

	got, _ := l.Get(ctx, load)
	if len(got) != 2 {
		t.Fatalf("listing after invalidate = %+v", got)
	}
	if *calls != 2 {
		t.Fatalf("loader called %d times", *calls)
	}
	l.Get(ctx, load)
	if *calls != 2 {
		t.Fatal("fresh load was not cached")
	}
}
