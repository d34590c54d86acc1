package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/feedkit/core"
)

func byAuthor(authors ...string) []*core.Item {
	items := make([]*core.Item, len(authors))
	for i, a := range authors {
		items[i] = &core.Item{ID: string(rune('0' + i)), AuthorID: a}
	}
	return items
}

func maxRun(items []*core.Item) int {
	longest, run := 0, 0
	var prev string
	for _, it := range items {
		if it.AuthorID == prev {
			run++
		} else {
			run = 1
			prev = it.AuthorID
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func distinctAuthors(items []*core.Item) int {
	set := make(map[string]bool)
	for _, it := range items {
		set[it.AuthorID] = true
	}
	return len(set)
}

func assertPermutation(t *testing.T, in, out []*core.Item) {
	t.Helper()
	if len(in) != len(out) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(in))
	}
	counts := make(map[string]int)
	for _, it := range in {
		counts[it.ID]++
	}
	for _, it := range out {
		counts[it.ID]--
	}
	for id, c := range counts {
		if c != 0 {
			t.Fatalf("item %q count mismatch: %d", id, c)
		}
	}
}

func TestDiversity_CapsSameAuthorRuns(t *testing.T) {
	tests := []struct {
		name    string
		authors []string
	}{
		{"leading run of three", []string{"a", "a", "a", "b", "c"}},
		{"run in the middle", []string{"b", "a", "a", "a", "c"}},
		{"two long runs", []string{"a", "a", "a", "a", "b", "b", "b", "c"}},
		{"alternating heavy author", []string{"a", "a", "b", "a", "a", "c", "a"}},
	}
	node := &Diversity{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := byAuthor(tt.authors...)
			out, err := node.Process(context.Background(), nil, core.CloneItems(in))
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			assertPermutation(t, in, out)
			if distinctAuthors(in) >= 3 && maxRun(out) > 2 {
				t.Errorf("run of %d same-author items in %v", maxRun(out), authorsOf(out))
			}
		})
	}
}

func authorsOf(items []*core.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.AuthorID
	}
	return out
}

func TestDiversity_SingleAuthorDegrades(t *testing.T) {
	// 全部同作者时连串不可避免，按原序退化，不丢条目
	node := &Diversity{}
	in := byAuthor("a", "a", "a", "a")
	out, err := node.Process(context.Background(), nil, core.CloneItems(in))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	assertPermutation(t, in, out)
	for i, it := range out {
		if it.ID != in[i].ID {
			t.Errorf("pos %d: ID = %q, want %q (input order preserved)", i, it.ID, in[i].ID)
		}
	}
}

func TestDiversity_ShortInputPassthrough(t *testing.T) {
	node := &Diversity{}
	in := byAuthor("a", "a")
	out, err := node.Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 2 || out[0].ID != in[0].ID {
		t.Errorf("short input must pass through unchanged")
	}
}

func TestDiversity_NoRunsUnchanged(t *testing.T) {
	// 已经打散的输入保持原序
	node := &Diversity{}
	in := byAuthor("a", "b", "a", "c", "b")
	out, err := node.Process(context.Background(), nil, core.CloneItems(in))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	for i, it := range out {
		if it.ID != in[i].ID {
			t.Fatalf("pos %d changed: got %q want %q", i, it.ID, in[i].ID)
		}
	}
}
