package core

import (
	"time"

	"github.com/rushteam/feedkit/pkg/utils"
)

// ContentType 是候选内容的类型描述，影响内容类型子分。
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
	ContentVideo ContentType = "video"
)

// Listing 是市场（Marketplace）候选的结构化属性。
// 社交 Feed 候选该字段为 nil；缺失字段按中性值处理（不加成、不报错）。
type Listing struct {
	Price       float64
	Negotiable  bool
	HasImages   bool
	City        string
	Country     string
	Condition   string // new / like_new / used ...
	Category    string
	Tags        []string
	Description string
}

// Item 是排序链路中的统一承载结构：候选字段、分数、特征、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策；Features 暴露各子分。
//
// 引擎不直接改写调用方传入的候选：入口处通过 Clone 生成链路内副本，
// 所有 Node 只改写副本（见 engine 包）。
type Item struct {
	ID        string
	AuthorID  string
	CreatedAt time.Time

	// 互动计数（缺失按 0 处理）
	Likes    int
	Comments int
	Shares   int

	// CommentTimes 是评论创建时间，用于"活跃对话"信号
	// （近 2 小时评论数、近 1 小时评论数）。
	CommentTimes []time.Time

	ContentType ContentType
	HasMedia    bool

	// Listing 仅市场候选存在
	Listing *Listing

	// 注解字段：由链路写入，候选输入阶段为零值
	Score    float64
	IsNew    bool
	Features map[string]float64
	Labels   map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:       id,
		Features: make(map[string]float64),
		Labels:   make(map[string]utils.Label),
	}
}

// Clone 返回 Item 的深拷贝（切片与 map 均复制）。
// 引擎入口用它保证调用方的候选不被原地修改。
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	cp := *it
	if it.CommentTimes != nil {
		cp.CommentTimes = make([]time.Time, len(it.CommentTimes))
		copy(cp.CommentTimes, it.CommentTimes)
	}
	if it.Listing != nil {
		l := *it.Listing
		if it.Listing.Tags != nil {
			l.Tags = make([]string, len(it.Listing.Tags))
			copy(l.Tags, it.Listing.Tags)
		}
		cp.Listing = &l
	}
	cp.Features = make(map[string]float64, len(it.Features))
	for k, v := range it.Features {
		cp.Features[k] = v
	}
	cp.Labels = make(map[string]utils.Label, len(it.Labels))
	for k, v := range it.Labels {
		cp.Labels[k] = v
	}
	return &cp
}

// CloneItems 批量 Clone，nil 元素被跳过。
func CloneItems(items []*Item) []*Item {
	out := make([]*Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, it.Clone())
	}
	return out
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// PutFeature 写入特征值。
func (it *Item) PutFeature(key string, v float64) {
	if it.Features == nil {
		it.Features = make(map[string]float64)
	}
	it.Features[key] = v
}

// Feature 读取特征值，缺失返回 0（缺数据按中性处理）。
func (it *Item) Feature(key string) float64 {
	if it.Features == nil {
		return 0
	}
	return it.Features[key]
}

// CommentsWithin 统计 now 之前 window 时间窗内的评论数。
func (it *Item) CommentsWithin(now time.Time, window time.Duration) int {
	n := 0
	for _, ts := range it.CommentTimes {
		if !ts.After(now) && now.Sub(ts) <= window {
			n++
		}
	}
	return n
}
