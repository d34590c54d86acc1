package recall

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// StoreTrending 是预计算热门榜来源：从 KeyValueStore 的有序集合读取
// 离线/近线计算好的热门候选 ID（按热度分降序）。
//
// - 如果 Store 可用，使用 ZRange 取 TopN
// - Store 读取失败时回落到内存中的 IDs（预置兜底榜单）
// - 两者都为空时返回空集（"没有内容"不是错误）
//
// StoreTrending 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type StoreTrending struct {
	Store core.KeyValueStore
	Key   string // 存储 key，例如 "trending:feed"
	TopN  int64  // 取榜单前 N 个，<=0 时默认 100

	IDs []string // fallback 内存榜单
}

func (r *StoreTrending) Name() string        { return "trend.store" }
func (r *StoreTrending) Kind() pipeline.Kind { return pipeline.KindSource }

// Process 实现 Node 接口，直接调用 Recall。
func (r *StoreTrending) Process(
	ctx context.Context,
	vctx *core.ViewContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, vctx)
}

// Recall 实现 Source 接口。
func (r *StoreTrending) Recall(
	ctx context.Context,
	_ *core.ViewContext,
) ([]*core.Item, error) {
	var ids []string

	if r.Store != nil && r.Key != "" {
		topN := r.TopN
		if topN <= 0 {
			topN = 100
		}
		members, err := r.Store.ZRange(ctx, r.Key, 0, topN-1)
		if err == nil && len(members) > 0 {
			ids = members
		}
	}

	if len(ids) == 0 {
		ids = r.IDs
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		it.PutLabel("source", utils.Label{Value: r.Name(), Source: "trend"})
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*StoreTrending)(nil)
var _ pipeline.Node = (*StoreTrending)(nil)
