// Package market 提供市集（二手交易）列表的排序策略。
//
// 和社交 feed 的打分不同，市集排序的首要目标是多样性：
// 权重乘法 + 较大的随机扰动，让同一批候选在不同刷次呈现不同顺序。
// 策略按名字选择，未知策略回退到默认的 weighted。
package market

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// 可选策略名。
const (
	StrategyRandom        = "random"
	StrategyWeighted      = "weighted"
	StrategyCategoryMixed = "category-mixed"
	StrategyTimeBased     = "time-based"
	StrategyPersonalized  = "personalized"
	StrategyEngagement    = "engagement-based"
	StrategyHybrid        = "hybrid"
)

// NormalizeStrategy 校验策略名，未知值回退到 weighted。
// 策略是展示层偏好，不是正确性边界，不值得为拼写错误报错。
func NormalizeStrategy(s string) string {
	switch s {
	case StrategyRandom, StrategyWeighted, StrategyCategoryMixed,
		StrategyTimeBased, StrategyPersonalized, StrategyEngagement, StrategyHybrid:
		return s
	default:
		return StrategyWeighted
	}
}

// Node 是市集排序节点，按策略名对 items 重排。
type Node struct {
	// Strategy 策略名，空或未知回退 weighted
	Strategy string

	// Profiles 画像存储，personalized / hybrid 策略使用；
	// 为 nil 或画像缺失时按空画像处理（只剩随机项）
	Profiles core.ProfileStore

	// Rand 随机源，nil 时用时间种子
	Rand core.Rand

	// Hybrid 概率分发表，nil 时取 DefaultHybridChoices
	Hybrid []WeightedChoice

	// Now 取当前时间，测试可注入；time-based 策略的小时桶也从这取
	Now func() time.Time
}

func NewNode(strategy string, profiles core.ProfileStore, rnd core.Rand) *Node {
	return &Node{Strategy: strategy, Profiles: profiles, Rand: rnd}
}

func (n *Node) Name() string { return "market.order" }

func (n *Node) Kind() pipeline.Kind { return pipeline.KindOrder }

func (n *Node) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

func (n *Node) rand() core.Rand {
	if n.Rand != nil {
		return n.Rand
	}
	return core.NewTimeRand()
}

func (n *Node) Process(ctx context.Context, vctx *core.ViewContext, items []*core.Item) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	strategy := NormalizeStrategy(n.Strategy)
	if strategy == StrategyHybrid {
		strategy = PickStrategy(n.hybridChoices(), n.rand())
	}

	switch strategy {
	case StrategyRandom:
		RandomOrder(items, n.rand())
	case StrategyCategoryMixed:
		items = CategoryMixed(items)
	case StrategyTimeBased:
		now := n.now()
		TimeOfDayOrder(items, now.Hour(), now)
	case StrategyPersonalized:
		profile, err := n.loadProfile(ctx, vctx)
		if err != nil {
			return nil, err
		}
		PersonalizedOrder(items, profile, n.rand())
	case StrategyEngagement:
		EngagementOrder(items)
	default:
		WeightedShuffle(items, n.rand(), n.now())
	}

	for _, it := range items {
		it.PutLabel("market_strategy", utils.Label{Value: strategy, Source: "market"})
	}
	return items, nil
}

// loadProfile 取画像快照；存储失败要向上抛（不能拿编造的画像顶替），
// 画像不存在是正常情况，按 nil 处理。
func (n *Node) loadProfile(ctx context.Context, vctx *core.ViewContext) (*core.Profile, error) {
	if n.Profiles == nil || vctx == nil || vctx.ViewerID == "" {
		return nil, nil
	}
	return n.Profiles.Get(ctx, vctx.ViewerID)
}

func (n *Node) hybridChoices() []WeightedChoice {
	if len(n.Hybrid) > 0 {
		return n.Hybrid
	}
	return DefaultHybridChoices
}

var _ pipeline.Node = (*Node)(nil)

// ListingWeight 计算市集条目的基础权重：从 1 出发乘独立系数。
//
//   - ×2.0 创建不足 24 小时（新鲜货优先）
//   - ×1.5 可议价
//   - ×1.3 带图
//   - ×1.2 城市和国家都填了（位置完整）
//   - ×0.8 价格超过 1000（压制大额条目刷屏）
//
// 没有 Listing 属性的条目只保留新鲜度系数。
func ListingWeight(it *core.Item, now time.Time) float64 {
	weight := 1.0
	if now.Sub(it.CreatedAt) < 24*time.Hour {
		weight *= 2.0
	}
	l := it.Listing
	if l == nil {
		return weight
	}
	if l.Negotiable {
		weight *= 1.5
	}
	if l.HasImages {
		weight *= 1.3
	}
	if l.City != "" && l.Country != "" {
		weight *= 1.2
	}
	if l.Price > 1000 {
		weight *= 0.8
	}
	return weight
}

// WeightedShuffle 按 ListingWeight 加 [-0.15, +0.15] 随机项降序排列。
// 噪声带比社交 feed 的 jitter 宽：多样性在市集是首要目标。
func WeightedShuffle(items []*core.Item, rnd core.Rand, now time.Time) {
	keys := make(map[string]float64, len(items))
	for _, it := range items {
		keys[it.ID] = ListingWeight(it, now) + (rnd.Float64()-0.5)*0.3
	}
	sort.SliceStable(items, func(i, j int) bool {
		return keys[items[i].ID] > keys[items[j].ID]
	})
}

// PersonalizedOrder 按画像亲和度加随机项降序排列：
// random + 0.3·看过同类目 + 0.2·价格在画像区间内 + 0.2·成色匹配。
// profile 为 nil 时各加成为 0，退化成纯随机。
func PersonalizedOrder(items []*core.Item, profile *core.Profile, rnd core.Rand) {
	keys := make(map[string]float64, len(items))
	for _, it := range items {
		key := rnd.Float64()
		if profile != nil && it.Listing != nil {
			l := it.Listing
			if profile.HasViewedCategory(l.Category) {
				key += 0.3
			}
			if profile.PriceInRange(l.Price) {
				key += 0.2
			}
			if l.Condition != "" && l.Condition == profile.LastCondition {
				key += 0.2
			}
		}
		keys[it.ID] = key
	}
	sort.SliceStable(items, func(i, j int) bool {
		return keys[items[i].ID] > keys[items[j].ID]
	})
}

// EngagementOrder 按互动量（likes + comments）降序，平手按创建时间降序。
func EngagementOrder(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		ei := items[i].Likes + items[i].Comments
		ej := items[j].Likes + items[j].Comments
		if ei != ej {
			return ei > ej
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// RandomOrder 做 Fisher-Yates 洗牌。
func RandomOrder(items []*core.Item, rnd core.Rand) {
	for i := len(items) - 1; i > 0; i-- {
		j := int(math.Floor(rnd.Float64() * float64(i+1)))
		if j > i {
			j = i
		}
		items[i], items[j] = items[j], items[i]
	}
}
