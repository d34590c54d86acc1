package filter

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// SeenStore 是已看集合的领域接口。
// 记录观看者被展示过的候选 ID，用于 IsNew 标记与跨分页去重。
type SeenStore interface {
	// GetSeen 获取观看者已展示过的候选 ID 集合
	GetSeen(ctx context.Context, viewerID string) ([]string, error)

	// RecordSeen 记录一批已展示的候选 ID
	RecordSeen(ctx context.Context, viewerID string, ids []string) error

	// ClearSeen 清空已看集合（显式刷新时调用）
	ClearSeen(ctx context.Context, viewerID string) error
}

// Seen 是已看过滤器：过滤掉观看者本会话内已经展示过的候选。
//
// 数据来源优先级：
//  1. ViewContext.Seen（调用方已物化的会话内集合）
//  2. Store（跨请求的已看集合）
//
// Store 读取失败时放行（宁可重复展示，不可空屏）——排序是尽力而为的
// 展示特性，去重不是正确性边界。
type Seen struct {
	Store SeenStore
}

func (f *Seen) Name() string { return "filter.seen" }

func (f *Seen) ShouldFilter(
	ctx context.Context,
	vctx *core.ViewContext,
	item *core.Item,
) (bool, error) {
	if item == nil || vctx == nil {
		return false, nil
	}

	if vctx.HasSeen(item.ID) {
		return true, nil
	}

	if f.Store != nil && vctx.ViewerID != "" {
		ids, err := f.Store.GetSeen(ctx, vctx.ViewerID)
		if err != nil {
			return false, nil
		}
		for _, id := range ids {
			if id == item.ID {
				return true, nil
			}
		}
	}

	return false, nil
}

var _ Filter = (*Seen)(nil)
