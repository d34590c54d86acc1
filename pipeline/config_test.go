package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/feedkit/core"
)

type upperNode struct{}

func (upperNode) Name() string { return "test.upper" }
func (upperNode) Kind() Kind   { return KindPostProcess }
func (upperNode) Process(_ context.Context, _ *core.ViewContext, items []*core.Item) ([]*core.Item, error) {
	for _, it := range items {
		it.Score += 1
	}
	return items, nil
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	yaml := `
pipeline:
  name: test-feed
  nodes:
    - type: test.upper
      config:
        n: 3
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if cfg.Pipeline.Name != "test-feed" {
		t.Errorf("name = %q", cfg.Pipeline.Name)
	}
	if len(cfg.Pipeline.Nodes) != 1 || cfg.Pipeline.Nodes[0].Type != "test.upper" {
		t.Errorf("nodes = %+v", cfg.Pipeline.Nodes)
	}
}

func TestBuildPipeline(t *testing.T) {
	factory := NewNodeFactory()
	factory.Register("test.upper", func(map[string]any) (Node, error) {
		return upperNode{}, nil
	})

	cfg := &Config{}
	cfg.Pipeline.Name = "t"
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "test.upper"}}

	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	out, err := p.Run(context.Background(), nil, []*core.Item{{ID: "a"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out[0].Score != 1 {
		t.Errorf("node did not run")
	}
}

func TestBuildPipeline_UnknownTypeErrors(t *testing.T) {
	// 未注册的 Node 类型是装配错误，必须大声失败
	cfg := &Config{}
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "no.such.node"}}

	if _, err := cfg.BuildPipeline(NewNodeFactory()); err == nil {
		t.Fatal("expected error for unknown node type")
	}
}
