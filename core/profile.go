package core

import (
	"context"
	"time"
)

// Profile 是观看者在市场域的轻量个性化画像。
//
// 一句话定义：画像 = 从历史浏览行为推断出的软偏好信号。
//
// 设计要点：
//   - 惰性创建：首次 RecordInteraction 时生成
//   - 价格区间：由历史浏览价格推断（非用户声明）
//   - 软信号：排序时读到过期一版的快照可接受，不是正确性关键路径
type Profile struct {
	ViewerID string

	// Categories 是浏览过的类目集合，key 为类目，value 为浏览次数。
	Categories map[string]int

	// 推断的可接受价格区间。PriceSeen 为 false 表示尚无价格样本。
	PriceMin  float64
	PriceMax  float64
	PriceSeen bool

	// LastCondition 是最近一次浏览的商品成色。
	LastCondition string

	UpdateTime time.Time
}

// NewProfile 创建一个空画像。
func NewProfile(viewerID string) *Profile {
	return &Profile{
		ViewerID:   viewerID,
		Categories: make(map[string]int),
		UpdateTime: time.Now(),
	}
}

// Clone 返回画像快照，供排序路径无锁读取。
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Categories = make(map[string]int, len(p.Categories))
	for k, v := range p.Categories {
		cp.Categories[k] = v
	}
	return &cp
}

// ObserveView 记录一次商品浏览，更新类目、价格区间与成色偏好。
func (p *Profile) ObserveView(listing *Listing) {
	if listing == nil {
		return
	}
	if listing.Category != "" {
		if p.Categories == nil {
			p.Categories = make(map[string]int)
		}
		p.Categories[listing.Category]++
	}
	if listing.Price > 0 {
		if !p.PriceSeen {
			p.PriceMin = listing.Price
			p.PriceMax = listing.Price
			p.PriceSeen = true
		} else {
			if listing.Price < p.PriceMin {
				p.PriceMin = listing.Price
			}
			if listing.Price > p.PriceMax {
				p.PriceMax = listing.Price
			}
		}
	}
	if listing.Condition != "" {
		p.LastCondition = listing.Condition
	}
	p.UpdateTime = time.Now()
}

// HasViewedCategory 判断类目是否浏览过。
func (p *Profile) HasViewedCategory(category string) bool {
	if p == nil || p.Categories == nil {
		return false
	}
	return p.Categories[category] > 0
}

// PriceInRange 判断价格是否落在推断区间内。无样本时返回 false。
func (p *Profile) PriceInRange(price float64) bool {
	if p == nil || !p.PriceSeen {
		return false
	}
	return price >= p.PriceMin && price <= p.PriceMax
}

// ProfileStore 是画像存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由 profile 包实现
//   - Get 返回快照（副本），排序路径读快照即可，允许落后一次更新
//   - Update 串行化同一 viewer 的读改写，避免并发 RecordInteraction 丢更新
//
// 实现：
//   - profile.MemoryStore：进程内实现，带 LRU 上限（画像留存必须有界）
//   - profile.KVStore：基于 core.Store（如 Redis）的 JSON 持久化实现
type ProfileStore interface {
	// Get 读取画像快照；不存在时返回 (nil, nil)，不视为错误。
	Get(ctx context.Context, viewerID string) (*Profile, error)

	// Update 对画像做串行化读改写；画像不存在时以空画像调用 fn（惰性创建）。
	Update(ctx context.Context, viewerID string, fn func(*Profile)) error
}
