package rerank

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// TopN 是截断节点，在排好序的结果上做 offset/limit 切片。
// 分页是叠在排序结果之上的调用方关切，不属于排序契约本身，
// 放在链路末尾使用。
//
// 示例：
//
//	p := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.ScoreNode{...},
//	        &rank.OrderNode{...},
//	        &rerank.Diversity{},
//	        &rerank.TopN{Offset: 20, N: 20}, // 第二页，每页 20
//	    },
//	}
type TopN struct {
	// Offset 是跳过的条数（分页起点），<0 按 0 处理。
	Offset int

	// N 要保留的条数。
	// 如果 N <= 0，则返回 Offset 之后的所有候选（不截断）。
	N int
}

func (n *TopN) Name() string        { return "rerank.topn" }
func (n *TopN) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopN) Process(
	_ context.Context,
	_ *core.ViewContext,
	items []*core.Item,
) ([]*core.Item, error) {
	offset := n.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []*core.Item{}, nil
	}
	items = items[offset:]

	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}

var _ pipeline.Node = (*TopN)(nil)
