package pipeline

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindSource      Kind = "source"      // 候选来源：生成候选集（如预计算热门榜）
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不符合约束的候选
	KindFeature     Kind = "feature"     // 特征阶段：为候选注入打分所需特征
	KindScore       Kind = "score"       // 打分阶段：计算综合相关性分
	KindOrder       Kind = "order"       // 排序阶段：多级 tie-break 产生全序
	KindReRank      Kind = "rerank"      // 重排阶段：抖动/打散/截断等排序后调整
	KindPostProcess Kind = "postprocess" // 后处理阶段：最终结果修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 items -> 输出 items"的形态，打分、排序、打散、截断
// 都是同一形态的变换，便于任意组合。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		vctx *core.ViewContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
