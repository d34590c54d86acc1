package filter

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/dsl"
)

// Rule 是规则过滤器：用 CEL 表达式声明候选约束，
// 表达式求值为 true 的候选被过滤掉。
//
// 示例：
//
//	&filter.Rule{Expr: `item.author_id == vctx.viewer_id`} // 过滤本人内容
//	&filter.Rule{Expr: `item.price > 10000.0`}             // 过滤超高价商品
//
// 表达式求值出错时放行该候选（Node 对过滤器错误的统一策略）。
type Rule struct {
	Expr string
}

func (f *Rule) Name() string { return "filter.rule" }

func (f *Rule) ShouldFilter(
	_ context.Context,
	vctx *core.ViewContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" || item == nil {
		return false, nil
	}
	return dsl.NewEval(item, vctx).Evaluate(f.Expr)
}

var _ Filter = (*Rule)(nil)
