package recall

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// Source 是候选来源抽象。候选检索与隐私过滤在引擎上游完成（内容仓库），
// 这里只保留引擎内部会用到的来源：预计算热门榜。
type Source interface {
	Name() string
	Recall(ctx context.Context, vctx *core.ViewContext) ([]*core.Item, error)
}
