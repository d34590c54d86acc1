package profile

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rushteam/feedkit/core"
)

func TestMemoryStore_GetMissingReturnsNil(t *testing.T) {
	s := NewMemoryStore(0)
	p, err := s.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil profile for unknown viewer")
	}
}

func TestMemoryStore_UpdateCreatesLazily(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	err := s.Update(ctx, "viewer_1", func(p *core.Profile) {
		p.ObserveView(&core.Listing{Price: 100, Category: "bikes", Condition: "used"})
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	p, err := s.Get(ctx, "viewer_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p == nil {
		t.Fatal("profile not created")
	}
	if !p.HasViewedCategory("bikes") {
		t.Errorf("category not recorded")
	}
	if !p.PriceInRange(100) {
		t.Errorf("price range not inferred")
	}
	if p.LastCondition != "used" {
		t.Errorf("condition = %q, want used", p.LastCondition)
	}
}

func TestMemoryStore_GetReturnsSnapshot(t *testing.T) {
	// Get 返回副本：改快照不影响存储内的画像
	s := NewMemoryStore(0)
	ctx := context.Background()

	s.Update(ctx, "viewer_1", func(p *core.Profile) {
		p.ObserveView(&core.Listing{Category: "bikes"})
	})

	snap, _ := s.Get(ctx, "viewer_1")
	snap.Categories["hacked"] = 99

	fresh, _ := s.Get(ctx, "viewer_1")
	if fresh.HasViewedCategory("hacked") {
		t.Errorf("snapshot mutation leaked into store")
	}
}

func TestMemoryStore_LRUEviction(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		viewerID := fmt.Sprintf("viewer_%d", i)
		s.Update(ctx, viewerID, func(p *core.Profile) {
			p.ObserveView(&core.Listing{Category: "bikes"})
		})
	}

	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	// 最早写入且未再访问的 viewer_0 被淘汰
	p, _ := s.Get(ctx, "viewer_0")
	if p != nil {
		t.Errorf("oldest profile should have been evicted")
	}
	p, _ = s.Get(ctx, "viewer_3")
	if p == nil {
		t.Errorf("newest profile evicted unexpectedly")
	}
}

func TestMemoryStore_ConcurrentUpdatesNoLostWrites(t *testing.T) {
	// 并发 Update 同一 viewer 不丢计数
	s := NewMemoryStore(0)
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(ctx, "viewer_1", func(p *core.Profile) {
				p.ObserveView(&core.Listing{Category: "bikes"})
			})
		}()
	}
	wg.Wait()

	p, _ := s.Get(ctx, "viewer_1")
	if p == nil || p.Categories["bikes"] != n {
		got := 0
		if p != nil {
			got = p.Categories["bikes"]
		}
		t.Errorf("bikes count = %d, want %d", got, n)
	}
}
