package core

import "github.com/rushteam/feedkit/pkg/utils"

// SortMode 是排序模式。非法值按 SortEngagement 处理（展示层兜底，不报错）。
type SortMode string

const (
	// SortEngagement 互动优先：近 1 小时评论数 > 综合分（带显著性阈值）> 发布时间
	SortEngagement SortMode = "engagement"
	// SortRecent 纯时间序：发布时间降序
	SortRecent SortMode = "recent"
)

// Normalize 将非法排序模式收敛到默认值。
func (m SortMode) Normalize() SortMode {
	switch m {
	case SortEngagement, SortRecent:
		return m
	default:
		return SortEngagement
	}
}

// InteractionCounts 是观看者对某作者的历史互动计数。
type InteractionCounts struct {
	Likes    int // 给该作者点过的赞
	Comments int // 给该作者写过的评论
}

// ViewContext 承载一次排序请求的观看者信息，贯穿整个 Pipeline 透传。
// 由调用方在调用前物化完毕；引擎只读，不回写。
type ViewContext struct {
	ViewerID string
	Scene    string // feed / market / trending ...

	// Connections 是观看者的关系集合（好友/关注），顺序无关。
	Connections map[string]bool

	// Interactions 是观看者对各作者的历史互动计数，
	// key 为作者 ID。用于互动加成子分。
	Interactions map[string]InteractionCounts

	// Seen 是本会话内已展示过的候选 ID 集合，用于 IsNew 标记与去重。
	Seen map[string]bool

	// 请求模式
	IsRefresh    bool // 下拉刷新：触发抖动重排
	TrendingOnly bool // 仅热门：绕过个性化链路
	SortMode     SortMode

	// Labels 是观看者级标签，可驱动链路行为（如实验桶）。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（hour_of_day、page、limit 等）。
	Params map[string]any
}

// IsConnection 判断作者是否为观看者的关系。
func (v *ViewContext) IsConnection(authorID string) bool {
	if v == nil || v.Connections == nil {
		return false
	}
	return v.Connections[authorID]
}

// InteractionsWith 返回观看者对某作者的历史互动计数，缺失返回零值。
func (v *ViewContext) InteractionsWith(authorID string) InteractionCounts {
	if v == nil || v.Interactions == nil {
		return InteractionCounts{}
	}
	return v.Interactions[authorID]
}

// HasSeen 判断候选是否已展示过。
func (v *ViewContext) HasSeen(itemID string) bool {
	if v == nil || v.Seen == nil {
		return false
	}
	return v.Seen[itemID]
}

// PutLabel 写入观看者级 Label。
func (v *ViewContext) PutLabel(key string, lbl utils.Label) {
	if v.Labels == nil {
		v.Labels = make(map[string]utils.Label)
	}
	if old, ok := v.Labels[key]; ok {
		v.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	v.Labels[key] = lbl
}

// GetLabel 获取观看者级 Label。
func (v *ViewContext) GetLabel(key string) (utils.Label, bool) {
	if v.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := v.Labels[key]
	return lbl, ok
}
