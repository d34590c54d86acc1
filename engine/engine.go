// Package engine 是 Feed 编排入口：把打分、排序、抖动、打散、热门、
// 市集策略这些 Node 按约定顺序装配成完整链路，对外暴露少量方法。
//
// 需要自由编排时直接用 pipeline 包自己搭；engine 是约定优于配置的
// 快捷方式，链路顺序是固定的：
//
//	特征注入 → 打分 → 排序 → (刷新时抖动 + 重排) → 同作者打散
//
// 热门是完全独立的链路，不是叠在主链路上的过滤器。
package engine

import (
	"context"
	"time"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/feature"
	"github.com/rushteam/feedkit/filter"
	"github.com/rushteam/feedkit/market"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/rank"
	"github.com/rushteam/feedkit/recall"
	"github.com/rushteam/feedkit/rerank"
)

// RecordInteraction 支持的动作。
const (
	ActionView    = "view"
	ActionLike    = "like"
	ActionComment = "comment"
)

// InteractionRecorder 记录 viewer→author 的互动计数。
// feature.StoreSource 同时实现读（InteractionSource）和写（本接口）。
type InteractionRecorder interface {
	RecordLike(ctx context.Context, viewerID, authorID string) error
	RecordComment(ctx context.Context, viewerID, authorID string) error
}

// Engine 持有链路的全部协作方；零值可用（全部协作方缺省时
// 退化为无特征注入、无画像、无已看集合的纯内存排序）。
type Engine struct {
	config       *core.ScoreConfig
	interactions feature.InteractionSource
	recorder     InteractionRecorder
	profiles     core.ProfileStore
	seen         filter.SeenStore
	rand         core.Rand
	hybrid       []market.WeightedChoice
	concurrency  int
	now          func() time.Time
}

// Option 配置 Engine。
type Option func(*Engine)

// WithConfig 覆盖打分配置（nil 安全，等价于默认配置）。
func WithConfig(cfg *core.ScoreConfig) Option {
	return func(e *Engine) { e.config = cfg }
}

// WithInteractionSource 设置互动统计来源（KV / Feast）。
// 来源同时实现 InteractionRecorder 时自动接入 RecordInteraction。
func WithInteractionSource(src feature.InteractionSource) Option {
	return func(e *Engine) {
		e.interactions = src
		if r, ok := src.(InteractionRecorder); ok {
			e.recorder = r
		}
	}
}

// WithProfileStore 设置画像存储（市集个性化排序用）。
func WithProfileStore(ps core.ProfileStore) Option {
	return func(e *Engine) { e.profiles = ps }
}

// WithSeenStore 设置已看集合存储。
func WithSeenStore(ss filter.SeenStore) Option {
	return func(e *Engine) { e.seen = ss }
}

// WithRand 注入随机源，测试传固定种子复现抖动与洗牌。
func WithRand(rnd core.Rand) Option {
	return func(e *Engine) { e.rand = rnd }
}

// WithHybridChoices 覆盖 hybrid 策略的概率分发表。
func WithHybridChoices(choices []market.WeightedChoice) Option {
	return func(e *Engine) { e.hybrid = choices }
}

// WithConcurrency 设置打分并发上限；<=1 串行。
func WithConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

// WithClock 注入时钟，测试固定时间。
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.config == nil {
		e.config = core.DefaultScoreConfig()
	}
	if e.rand == nil {
		e.rand = core.NewTimeRand()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// GenerateFeed 生成社交 Feed 的最终序列。
//
// 链路严格有序：特征注入 → 打分（写 isNew）→ 排序 → 刷新时抖动并重排
// → 同作者打散。TrendingOnly 时绕过以上全部，直接走热门链路。
// 分页与已看记录是调用方在已排序输出上叠加的关注点，不在本契约内。
//
// 空候选列表返回空序列（"没有内容"不是"排序失败"）；
// 上游依赖失败（互动存储不可用）按 DomainError 向上抛。
// 调用方的 items 不会被修改（入口深拷贝）。
func (e *Engine) GenerateFeed(ctx context.Context, vctx *core.ViewContext, items []*core.Item) ([]*core.Item, error) {
	if len(items) == 0 {
		return []*core.Item{}, nil
	}
	if vctx == nil {
		vctx = &core.ViewContext{}
	}

	cloned := core.CloneItems(items)

	if vctx.TrendingOnly {
		return e.trendingPipeline(0).Run(ctx, vctx, cloned)
	}

	var nodes []pipeline.Node
	if e.interactions != nil {
		nodes = append(nodes, feature.NewInteractionNode(e.interactions))
	}
	nodes = append(nodes,
		&rank.ScoreNode{Config: e.config, MaxConcurrent: e.concurrency, Now: e.now},
		&rank.OrderNode{Config: e.config, Now: e.now},
	)
	if vctx.IsRefresh {
		nodes = append(nodes,
			&rerank.Jitter{Config: e.config, Rand: e.rand, OnlyOnRefresh: true},
			&rank.OrderNode{Config: e.config, Now: e.now},
		)
	}
	nodes = append(nodes, &rerank.Diversity{})

	p := &pipeline.Pipeline{Nodes: nodes}
	return p.Run(ctx, vctx, cloned)
}

// GetTrending 返回时间窗内按热度降序的候选。
// windowHours <= 0 时取配置的默认窗口。
func (e *Engine) GetTrending(ctx context.Context, items []*core.Item, windowHours int) ([]*core.Item, error) {
	if len(items) == 0 {
		return []*core.Item{}, nil
	}
	cloned := core.CloneItems(items)
	return e.trendingPipeline(windowHours).Run(ctx, nil, cloned)
}

func (e *Engine) trendingPipeline(windowHours int) *pipeline.Pipeline {
	if windowHours <= 0 {
		windowHours = e.config.TrendingWindowHours
	}
	return &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.Trending{WindowHours: windowHours, Now: e.now},
	}}
}

// GetOrderedItems 对市集候选按命名策略重排。
// 未知策略回退 weighted；画像缺失时个性化加成按零计。
func (e *Engine) GetOrderedItems(ctx context.Context, viewerID string, items []*core.Item, strategy string) ([]*core.Item, error) {
	if len(items) == 0 {
		return []*core.Item{}, nil
	}
	cloned := core.CloneItems(items)

	node := &market.Node{
		Strategy: strategy,
		Profiles: e.profiles,
		Rand:     e.rand,
		Hybrid:   e.hybrid,
		Now:      e.now,
	}
	p := &pipeline.Pipeline{Nodes: []pipeline.Node{node}}
	return p.Run(ctx, &core.ViewContext{ViewerID: viewerID, Scene: "market"}, cloned)
}

// RecordInteraction 记录一次互动，驱动画像与互动计数更新。
//
//   - view: 更新画像（类目 / 价格区间 / 成色）
//   - like / comment: 累加 viewer→author 互动计数（需要 recorder）
//
// 未知动作按 NOT_SUPPORTED 报错；协作方缺省时是 no-op。
func (e *Engine) RecordInteraction(ctx context.Context, viewerID string, item *core.Item, action string) error {
	if viewerID == "" || item == nil {
		return nil
	}
	switch action {
	case ActionView:
		if e.profiles == nil || item.Listing == nil {
			return nil
		}
		return e.profiles.Update(ctx, viewerID, func(p *core.Profile) {
			p.ObserveView(item.Listing)
		})
	case ActionLike:
		if e.recorder == nil || item.AuthorID == "" {
			return nil
		}
		return e.recorder.RecordLike(ctx, viewerID, item.AuthorID)
	case ActionComment:
		if e.recorder == nil || item.AuthorID == "" {
			return nil
		}
		return e.recorder.RecordComment(ctx, viewerID, item.AuthorID)
	default:
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeNotSupported, "unknown action: "+action)
	}
}

// GetProfile 返回画像快照；画像或存储缺失时返回 (nil, nil)。
func (e *Engine) GetProfile(ctx context.Context, viewerID string) (*core.Profile, error) {
	if e.profiles == nil {
		return nil, nil
	}
	return e.profiles.Get(ctx, viewerID)
}

// RecordSeen 记录一批已展示的候选 ID（调用方在发送响应后调用）。
func (e *Engine) RecordSeen(ctx context.Context, viewerID string, ids []string) error {
	if e.seen == nil || viewerID == "" || len(ids) == 0 {
		return nil
	}
	return e.seen.RecordSeen(ctx, viewerID, ids)
}

// ClearSeen 清空已看集合（显式刷新语义）。
func (e *Engine) ClearSeen(ctx context.Context, viewerID string) error {
	if e.seen == nil || viewerID == "" {
		return nil
	}
	return e.seen.ClearSeen(ctx, viewerID)
}

// SeenFilter 返回挂上已看集合存储的过滤 Node，
// 供调用方塞进自定义 pipeline。
func (e *Engine) SeenFilter() pipeline.Node {
	return &filter.Node{Filters: []filter.Filter{&filter.Seen{Store: e.seen}}}
}
