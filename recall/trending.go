package recall

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// FeatureTrendScore 是热度分特征 key，排序前写回 Item。
const FeatureTrendScore = "trend_score"

// Trending 是热门检测 Node：在时间窗内按短期互动速度排序。
//
// 热度分 = likes + 2*comments + 3*shares。
// 与主打分的互动子分刻意不同：热门关心的是窗口内的裸互动量，
// 不关心个性化相关性，所以用更便宜、与时间无关的权重，
// 也不施加任何关系/个性化偏置——热门是全局的。
//
// 创建时间早于窗口起点的候选被剔除；同分保持输入相对顺序（稳定排序）。
type Trending struct {
	// WindowHours 是时间窗（小时），<=0 时取 core.DefaultScoreConfig 的默认窗口。
	WindowHours int

	// Now 用于测试注入时钟；为 nil 时使用 time.Now。
	Now func() time.Time
}

func (n *Trending) Name() string        { return "trend.window" }
func (n *Trending) Kind() pipeline.Kind { return pipeline.KindScore }

func (n *Trending) Process(
	_ context.Context,
	_ *core.ViewContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	window := n.WindowHours
	if window <= 0 {
		window = core.DefaultScoreConfig().TrendingWindowHours
	}
	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}
	cutoff := now.Add(-time.Duration(window) * time.Hour)

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.CreatedAt.Before(cutoff) {
			continue
		}
		score := TrendScore(it)
		it.PutFeature(FeatureTrendScore, score)
		it.PutLabel("trend_window", utils.Label{
			Value:  fmt.Sprintf("%dh", window),
			Source: "trend",
		})
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Feature(FeatureTrendScore) > out[j].Feature(FeatureTrendScore)
	})
	return out, nil
}

// TrendScore 计算热度分：likes + 2*comments + 3*shares。
func TrendScore(it *core.Item) float64 {
	return float64(it.Likes) + 2*float64(it.Comments) + 3*float64(it.Shares)
}

var _ pipeline.Node = (*Trending)(nil)
