package rank

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// FeatureFreshComments 是近 1 小时评论数特征，排序主键，排序前写回 Item。
const FeatureFreshComments = "order_fresh_comments"

// OrderNode 把打分后的候选排成全序。
//
// 互动优先模式（默认）的三级 tie-break：
//  1. 近 1 小时评论数降序——有活跃对话的候选直接浮到最顶部，几乎无视综合分
//  2. 综合分降序，但分差不超过 ScoreThreshold 的视为并列（抑制微小分差来回抖动）
//  3. 发布时间降序，作为最终的确定性 tie-break
//
// 纯时间序模式只按发布时间降序。
// 非法 SortMode 收敛到互动优先模式（展示层兜底，不报错）。
// 排序是稳定的：同一输入重复排序得到同一序列（不含抖动 Node 时）。
type OrderNode struct {
	Config *core.ScoreConfig

	// Mode 为空时取 ViewContext.SortMode。
	Mode core.SortMode

	// Now 用于测试注入时钟；为 nil 时使用 time.Now。
	Now func() time.Time
}

func (n *OrderNode) Name() string        { return "rank.order" }
func (n *OrderNode) Kind() pipeline.Kind { return pipeline.KindOrder }

func (n *OrderNode) Process(
	_ context.Context,
	vctx *core.ViewContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	cfg := n.Config
	if cfg == nil {
		cfg = core.DefaultScoreConfig()
	}
	mode := n.Mode
	if mode == "" && vctx != nil {
		mode = vctx.SortMode
	}
	mode = mode.Normalize()

	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}

	switch mode {
	case core.SortRecent:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i] == nil {
				return false
			}
			if items[j] == nil {
				return true
			}
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	default:
		// 主键预计算，避免排序比较器里重复扫评论时间
		for _, it := range items {
			if it == nil {
				continue
			}
			it.PutFeature(FeatureFreshComments, float64(it.CommentsWithin(now, time.Hour)))
		}
		threshold := cfg.ScoreThreshold
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i], items[j]
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			fa, fb := a.Feature(FeatureFreshComments), b.Feature(FeatureFreshComments)
			if fa != fb {
				return fa > fb
			}
			if math.Abs(a.Score-b.Score) > threshold {
				return a.Score > b.Score
			}
			return a.CreatedAt.After(b.CreatedAt)
		})
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		it.PutLabel("order_mode", utils.Label{Value: string(mode), Source: "order"})
	}
	return items, nil
}

var _ pipeline.Node = (*OrderNode)(nil)
