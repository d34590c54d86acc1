package builders

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/feedkit/config"
	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

func feedConfig() *pipeline.Config {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Name = "social-feed"
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{
		{Type: "score.social", Config: map[string]any{"max_concurrent": 4}},
		{Type: "rank.order", Config: map[string]any{"mode": "engagement"}},
		{Type: "rerank.jitter", Config: map[string]any{"seed": 42, "only_on_refresh": false}},
		{Type: "rank.order"},
		{Type: "rerank.diversity"},
		{Type: "rerank.topn", Config: map[string]any{"n": 10}},
	}
	return cfg
}

func TestDefaultFactory_BuildsFullPipeline(t *testing.T) {
	cfg := feedConfig()
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		t.Fatalf("ValidatePipelineConfig: %v", err)
	}

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if len(p.Nodes) != 6 {
		t.Fatalf("len(nodes) = %d, want 6", len(p.Nodes))
	}

	now := time.Now()
	items := []*core.Item{
		{ID: "a", AuthorID: "x", CreatedAt: now.Add(-time.Hour), Likes: 10},
		{ID: "b", AuthorID: "y", CreatedAt: now.Add(-2 * time.Hour), Likes: 90, Comments: 10},
		{ID: "c", AuthorID: "x", CreatedAt: now.Add(-3 * time.Hour)},
	}
	out, err := p.Run(context.Background(), &core.ViewContext{ViewerID: "v"}, items)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("len(out) = %d, want 3", len(out))
	}
	for _, it := range out {
		if _, ok := it.Labels["scorer"]; !ok {
			t.Errorf("item %q not scored", it.ID)
		}
	}
}

func TestValidatePipelineConfig_UnknownType(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "no.such.node"}}
	if err := config.ValidatePipelineConfig(cfg); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestBuildScoreNode_OverridesWeights(t *testing.T) {
	node, err := BuildScoreNode(map[string]any{
		"recency_weight":    0.5,
		"engagement_weight": 0.5,
	})
	if err != nil {
		t.Fatalf("BuildScoreNode: %v", err)
	}

	// 只改 recency/engagement 权重：关系权重回落默认 0.2
	now := time.Now()
	items := []*core.Item{{
		ID: "a", AuthorID: "v",
		CreatedAt:   now.Add(-10 * time.Minute),
		ContentType: core.ContentText,
	}}
	out, err := node.Process(context.Background(), &core.ViewContext{ViewerID: "v"}, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	// 0.5*1.0 + 0.5*0 + 0.2*1.0 + 0.1*0.5 = 0.75
	if got := out[0].Score; got < 0.7499 || got > 0.7501 {
		t.Errorf("score = %v, want 0.75", got)
	}
}

func TestBuildRuleFilterNode_RequiresExpr(t *testing.T) {
	if _, err := BuildRuleFilterNode(map[string]any{}); err == nil {
		t.Fatal("expected error for missing expr")
	}
}

func TestBuildMarketNode_ParsesHybridTable(t *testing.T) {
	node, err := BuildMarketNode(map[string]any{
		"strategy": "hybrid",
		"seed":     1,
		"hybrid": []any{
			map[string]any{"strategy": "random", "weight": 1.0},
		},
	})
	if err != nil {
		t.Fatalf("BuildMarketNode: %v", err)
	}
	items := []*core.Item{{ID: "a"}, {ID: "b"}}
	out, err := node.Process(context.Background(), &core.ViewContext{ViewerID: "v"}, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	// 分发表只有 random 一项，策略标签必然是 random
	if out[0].Labels["market_strategy"].Value != "random" {
		t.Errorf("strategy label = %q, want random", out[0].Labels["market_strategy"].Value)
	}
}
