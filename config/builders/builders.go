// Package builders 注册内置 Node 的配置构建器。
// 匿名 import 本包即可让 config.DefaultFactory 认识全部内置 Node：
//
//	import _ "github.com/rushteam/feedkit/config/builders"
package builders

import (
	"fmt"

	"github.com/rushteam/feedkit/config"
	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/filter"
	"github.com/rushteam/feedkit/market"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/conv"
	"github.com/rushteam/feedkit/rank"
	"github.com/rushteam/feedkit/recall"
	"github.com/rushteam/feedkit/rerank"
)

func init() {
	config.Register("score.social", BuildScoreNode)
	config.Register("rank.order", BuildOrderNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("rerank.jitter", BuildJitterNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("trend.window", BuildTrendingNode)
	config.Register("filter.rule", BuildRuleFilterNode)
	config.Register("filter.seen", BuildSeenFilterNode)
	config.Register("market.order", BuildMarketNode)
}

// parseScoreConfig 从 Node 配置解析打分参数：只覆盖显式给出的字段，
// 其余回落默认值。
func parseScoreConfig(cfg map[string]interface{}) *core.ScoreConfig {
	override := &core.ScoreConfig{
		RecencyWeight:       conv.ConfigGetFloat64(cfg, "recency_weight", 0),
		EngagementWeight:    conv.ConfigGetFloat64(cfg, "engagement_weight", 0),
		RelationshipWeight:  conv.ConfigGetFloat64(cfg, "relationship_weight", 0),
		ContentTypeWeight:   conv.ConfigGetFloat64(cfg, "content_type_weight", 0),
		EngagementDivisor:   conv.ConfigGetFloat64(cfg, "engagement_divisor", 0),
		InteractionBonusCap: conv.ConfigGetFloat64(cfg, "interaction_bonus_cap", 0),
		JitterAmplitude:     conv.ConfigGetFloat64(cfg, "jitter_amplitude", 0),
		ScoreThreshold:      conv.ConfigGetFloat64(cfg, "score_threshold", 0),
		TrendingWindowHours: int(conv.ConfigGetInt64(cfg, "trending_window_hours", 0)),
	}
	return core.DefaultScoreConfig().Merge(override)
}

func BuildScoreNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rank.ScoreNode{
		Config:        parseScoreConfig(cfg),
		MaxConcurrent: int(conv.ConfigGetInt64(cfg, "max_concurrent", 0)),
	}, nil
}

func BuildOrderNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rank.OrderNode{
		Config: parseScoreConfig(cfg),
		Mode:   core.SortMode(conv.ConfigGet(cfg, "mode", "")),
	}, nil
}

func BuildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Diversity{}, nil
}

func BuildJitterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	node := &rerank.Jitter{
		Config:        parseScoreConfig(cfg),
		OnlyOnRefresh: conv.ConfigGet(cfg, "only_on_refresh", true),
	}
	// 配置里给 seed 时用固定种子（实验/回放场景），否则时间种子
	if seed := conv.ConfigGetInt64(cfg, "seed", 0); seed != 0 {
		node.Rand = core.NewRand(seed)
	}
	return node, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopN{
		Offset: int(conv.ConfigGetInt64(cfg, "offset", 0)),
		N:      int(conv.ConfigGetInt64(cfg, "n", 0)),
	}, nil
}

func BuildTrendingNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &recall.Trending{
		WindowHours: int(conv.ConfigGetInt64(cfg, "window_hours", 0)),
	}, nil
}

func BuildRuleFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr not found")
	}
	return &filter.Node{Filters: []filter.Filter{&filter.Rule{Expr: expr}}}, nil
}

// BuildSeenFilterNode 构建只读 ViewContext.Seen 的已看过滤器。
// 跨请求的已看存储需要注入 store 实例，没法从纯配置构建，
// 需要时用代码装配 filter.Seen{Store: ...}。
func BuildSeenFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &filter.Node{Filters: []filter.Filter{&filter.Seen{}}}, nil
}

func BuildMarketNode(cfg map[string]interface{}) (pipeline.Node, error) {
	node := &market.Node{
		Strategy: conv.ConfigGet(cfg, "strategy", market.StrategyWeighted),
	}
	if seed := conv.ConfigGetInt64(cfg, "seed", 0); seed != 0 {
		node.Rand = core.NewRand(seed)
	}
	if choices, ok := cfg["hybrid"].([]interface{}); ok {
		for _, c := range choices {
			m, ok := c.(map[string]interface{})
			if !ok {
				continue
			}
			node.Hybrid = append(node.Hybrid, market.WeightedChoice{
				Strategy: conv.ConfigGet(m, "strategy", ""),
				Weight:   conv.ConfigGetFloat64(m, "weight", 0),
			})
		}
	}
	return node, nil
}
