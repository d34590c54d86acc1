package rerank

import (
	"context"
	"testing"
)

func TestTopN(t *testing.T) {
	tests := []struct {
		name    string
		offset  int
		n       int
		total   int
		wantIDs []string
	}{
		{"first page", 0, 2, 5, []string{"a", "b"}},
		{"second page", 2, 2, 5, []string{"c", "d"}},
		{"tail shorter than page", 4, 2, 5, []string{"e"}},
		{"offset beyond input", 10, 2, 5, []string{}},
		{"no limit", 1, 0, 3, []string{"b", "c"}},
		{"negative offset treated as zero", -3, 2, 3, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopN{Offset: tt.offset, N: tt.n}
			out, err := node.Process(context.Background(), nil, scoredItems(make([]float64, tt.total)...))
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if len(out) != len(tt.wantIDs) {
				t.Fatalf("len = %d, want %d", len(out), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if out[i].ID != id {
					t.Errorf("pos %d: ID = %q, want %q", i, out[i].ID, id)
				}
			}
		})
	}
}
