package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestInMemoryVideoStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryVideoStore()

	first := newTestVideo("First")
	second := newTestVideo("Second")
	third := newTestVideo("Third")
	if err := store.Insert(ctx, first); err != nil {
		t.Fatalf("insert first: %v", err)
	}
	if err := store.Insert(ctx, second); err != nil {
		t.Fatalf("insert second: %v", err)
	}
	if err := store.Insert(ctx, third); err != nil {
		t.Fatalf("insert third: %v", err)
	}
	if err := store.Insert(ctx, first); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	renamed := second
	renamed.ID = "renamed"
	if err := store.UpdateByID(ctx, second.ID, renamed); err != nil {
		t.Fatalf("rename: %v", err)
	}

	all, err := store.FindAll(ctx, "")
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	want := []string{first.ID, "renamed", third.ID}
	if len(all) != len(want) {
		t.Fatalf("expected %d videos, got %d", len(want), len(all))
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Fatalf("position %d: expected %s got %s", i, id, all[i].ID)
		}
	}

	clash := renamed
	clash.ID = first.ID
	if err := store.UpdateByID(ctx, "renamed", clash); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if err := store.UpdateByID(ctx, "ghost", renamed); err != nil {
		t.Fatalf("expected no-op update, got %v", err)
	}
	if store.Len() != 3 {
		t.Fatalf("expected 3 videos after no-op update, got %d", store.Len())
	}

	if err := store.DeleteByID(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteByID(ctx, first.ID); err != nil {
		t.Fatalf("expected no-op delete, got %v", err)
	}
	if _, err := store.FindByID(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInMemoryVideoStore_SearchIsCaseSensitiveSubstring(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryVideoStore()
	for _, title := range []string{"Go basics", "go routines", "Rust"} {
		if err := store.Insert(ctx, newTestVideo(title)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := store.FindAll(ctx, "Go")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Go basics" {
		t.Fatalf("unexpected matches: %+v", got)
	}
}

func TestInMemoryVideoStore_ConcurrentInsertSameID(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryVideoStore()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			video := newTestVideo(fmt.Sprintf("worker %d", i))
			video.ID = "shared"
			if err := store.Insert(ctx, video); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one successful insert, got %d", successes)
	}
}
