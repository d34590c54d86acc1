package rerank

import (
	"context"
	"fmt"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// Jitter 是刷新抖动 ReRank：对每个候选的综合分加
// (rand - 0.5) * amplitude 的均匀扰动（默认幅度 0.15，
// 即 [-0.075, +0.075]）。
//
// 只在下拉刷新时启用，目的是让同一候选池的重复刷新有肉眼可见的
// 顺序差异，同时幅度小到高相关候选基本不会掉出头部区间。
// 抖动之后必须重新过一遍 OrderNode（Jitter 只改分，不排序）。
//
// 随机源必须注入：生产用真实熵源，测试用固定种子复现。
type Jitter struct {
	Config *core.ScoreConfig
	Rand   core.Rand

	// OnlyOnRefresh 为 true 时，仅在 ViewContext.IsRefresh 时生效（默认行为）。
	OnlyOnRefresh bool
}

func (n *Jitter) Name() string        { return "rerank.jitter" }
func (n *Jitter) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *Jitter) Process(
	_ context.Context,
	vctx *core.ViewContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	if n.OnlyOnRefresh && (vctx == nil || !vctx.IsRefresh) {
		return items, nil
	}

	cfg := n.Config
	if cfg == nil {
		cfg = core.DefaultScoreConfig()
	}
	rnd := n.Rand
	if rnd == nil {
		rnd = core.NewTimeRand()
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		delta := (rnd.Float64() - 0.5) * cfg.JitterAmplitude
		it.Score += delta
		it.PutLabel("jitter", utils.Label{
			Value:  fmt.Sprintf("%+.4f", delta),
			Source: "rerank",
		})
	}
	return items, nil
}

var _ pipeline.Node = (*Jitter)(nil)
