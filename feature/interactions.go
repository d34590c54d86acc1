// Package feature 提供特征注入节点：在打分前把排序需要的特征
// 写到 item.Features，打分节点只读特征，不关心特征从哪来。
package feature

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
	"github.com/rushteam/feedkit/rank"
)

// InteractionSource 提供 viewer 对一批 author 的互动统计。
// 实现可以是请求上下文、KV 存储或 Feast 在线特征。
type InteractionSource interface {
	Name() string

	// GetInteractions 返回 viewer 对每个 author 的互动计数，
	// 没有互动记录的 author 可以缺省（调用方按零值处理）。
	GetInteractions(ctx context.Context, viewerID string, authorIDs []string) (map[string]core.InteractionCounts, error)
}

// InteractionNode 把 viewer→author 互动统计物化为 item 特征
// （author_likes_given / author_comments_given），供打分节点计算互动加成。
//
// 数据源失败时返回错误而不是编造计数：上游决定降级策略
// （跳过本节点继续排序，互动加成按零计）。
type InteractionNode struct {
	Source InteractionSource
}

func NewInteractionNode(source InteractionSource) *InteractionNode {
	return &InteractionNode{Source: source}
}

func (n *InteractionNode) Name() string { return "feature.interactions" }

func (n *InteractionNode) Kind() pipeline.Kind { return pipeline.KindFeature }

func (n *InteractionNode) Process(ctx context.Context, vctx *core.ViewContext, items []*core.Item) ([]*core.Item, error) {
	if n.Source == nil || vctx == nil || vctx.ViewerID == "" || len(items) == 0 {
		return items, nil
	}

	// 按 author 去重后一次取回，items 里同一作者常出现多次
	seen := make(map[string]bool, len(items))
	authorIDs := make([]string, 0, len(items))
	for _, it := range items {
		if it.AuthorID == "" || seen[it.AuthorID] {
			continue
		}
		seen[it.AuthorID] = true
		authorIDs = append(authorIDs, it.AuthorID)
	}
	if len(authorIDs) == 0 {
		return items, nil
	}

	counts, err := n.Source.GetInteractions(ctx, vctx.ViewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		c, ok := counts[it.AuthorID]
		if !ok {
			continue
		}
		it.PutFeature(rank.FeatureAuthorLikesGiven, float64(c.Likes))
		it.PutFeature(rank.FeatureAuthorCommentsGiven, float64(c.Comments))
		it.PutLabel("interaction_source", utils.Label{Value: n.Source.Name(), Source: "feature"})
	}
	return items, nil
}

var _ pipeline.Node = (*InteractionNode)(nil)
