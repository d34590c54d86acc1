package pipeline

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// Pipeline 是 Feedkit 的核心抽象：把排序逻辑拆成可组合的 Node 链。
// 除画像写入外整条链路无持久状态：同一输入与配置得到同一输出
// （抖动 Node 的随机源由外部注入）。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	vctx *core.ViewContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, vctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
