package store

import (
	"context"
	"testing"

	"github.com/rushteam/feedkit/core"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("want ErrNotFound for missing key, got %v", err)
	}

	s.Set(ctx, "k", []byte("v"))
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, err)
	}

	s.Delete(ctx, "k")
	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("key survived delete")
	}
}

func TestMemoryStore_BatchGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	s.Set(ctx, "a", []byte("1"))
	s.Set(ctx, "b", []byte("2"))

	got, err := s.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("BatchGet: %v", err)
	}
	if len(got) != 2 || string(got["a"]) != "1" {
		t.Errorf("BatchGet = %v", got)
	}
}

func TestMemoryStore_ZSetOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	s.ZAdd(ctx, "trend", 10, "mid")
	s.ZAdd(ctx, "trend", 30, "top")
	s.ZAdd(ctx, "trend", 1, "low")

	// score 降序
	got, err := s.ZRange(ctx, "trend", 0, -1)
	if err != nil {
		t.Fatalf("ZRange: %v", err)
	}
	want := []string{"top", "mid", "low"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ZRange = %v, want %v", got, want)
		}
	}

	// 截断 top-2
	got, _ = s.ZRange(ctx, "trend", 0, 1)
	if len(got) != 2 || got[0] != "top" {
		t.Errorf("ZRange top-2 = %v", got)
	}

	score, err := s.ZScore(ctx, "trend", "mid")
	if err != nil || score != 10 {
		t.Errorf("ZScore = %v, %v", score, err)
	}
}

func TestMemoryStore_Sets(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	s.SAdd(ctx, "seen", "b", "a", "b")
	got, err := s.SMembers(ctx, "seen")
	if err != nil {
		t.Fatalf("SMembers: %v", err)
	}
	// 去重 + 排序
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("SMembers = %v, want [a b]", got)
	}
}

func TestMemoryStore_Hashes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	s.HSet(ctx, "counts", "author_1", []byte("5"))
	s.HSet(ctx, "counts", "author_2", []byte("7"))

	v, err := s.HGet(ctx, "counts", "author_1")
	if err != nil || string(v) != "5" {
		t.Errorf("HGet = %q, %v", v, err)
	}

	all, err := s.HGetAll(ctx, "counts")
	if err != nil || len(all) != 2 {
		t.Errorf("HGetAll = %v, %v", all, err)
	}
	if _, err := s.HGet(ctx, "counts", "nobody"); !core.IsStoreNotFound(err) {
		t.Errorf("missing field should be ErrNotFound, got %v", err)
	}
}
