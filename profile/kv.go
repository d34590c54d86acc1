package profile

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/rushteam/feedkit/core"
)

// KVStore 是基于 core.Store（如 Redis）的画像存储，画像以 JSON 持久化。
// 留存边界交给 TTL；跨进程共享时适合用它替换 MemoryStore。
//
// Update 的串行化只覆盖本进程（进程内互斥锁 + 读改写）；
// 多实例部署下同一 viewer 的并发写入需要上游路由保证亲和，
// 画像作为软信号可以接受偶发的覆盖。
type KVStore struct {
	Store core.Store

	// KeyPrefix 默认 "viewer:profile"
	KeyPrefix string

	// TTL 是画像的过期时间（秒），0 表示不过期。
	TTL int

	mu sync.Mutex
}

func NewKVStore(store core.Store, keyPrefix string, ttl int) *KVStore {
	if keyPrefix == "" {
		keyPrefix = "viewer:profile"
	}
	return &KVStore{Store: store, KeyPrefix: keyPrefix, TTL: ttl}
}

func (s *KVStore) key(viewerID string) string {
	return s.KeyPrefix + ":" + viewerID
}

// storedProfile 是画像的持久化形态。
type storedProfile struct {
	ViewerID      string         `json:"viewer_id"`
	Categories    map[string]int `json:"categories,omitempty"`
	PriceMin      float64        `json:"price_min,omitempty"`
	PriceMax      float64        `json:"price_max,omitempty"`
	PriceSeen     bool           `json:"price_seen,omitempty"`
	LastCondition string         `json:"last_condition,omitempty"`
	UpdateTime    time.Time      `json:"update_time"`
}

func toStored(p *core.Profile) *storedProfile {
	return &storedProfile{
		ViewerID:      p.ViewerID,
		Categories:    p.Categories,
		PriceMin:      p.PriceMin,
		PriceMax:      p.PriceMax,
		PriceSeen:     p.PriceSeen,
		LastCondition: p.LastCondition,
		UpdateTime:    p.UpdateTime,
	}
}

func fromStored(sp *storedProfile) *core.Profile {
	p := core.NewProfile(sp.ViewerID)
	if sp.Categories != nil {
		p.Categories = sp.Categories
	}
	p.PriceMin = sp.PriceMin
	p.PriceMax = sp.PriceMax
	p.PriceSeen = sp.PriceSeen
	p.LastCondition = sp.LastCondition
	p.UpdateTime = sp.UpdateTime
	return p
}

// Get 返回画像快照；key 不存在返回 (nil, nil)；
// 存储不可用时报 UNAVAILABLE（不得用编造的画像顶替失败的依赖）。
func (s *KVStore) Get(ctx context.Context, viewerID string) (*core.Profile, error) {
	if s.Store == nil || viewerID == "" {
		return nil, nil
	}
	data, err := s.Store.Get(ctx, s.key(viewerID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, core.NewDomainError(core.ModuleProfile, core.ErrorCodeUnavailable, "profile store: "+err.Error())
	}
	var sp storedProfile
	if err := json.Unmarshal(data, &sp); err != nil {
		// 损坏的画像按不存在处理（软信号，可重建）
		slog.Warn("profile data corrupt, rebuilding", "viewer", viewerID, "err", err)
		return nil, nil
	}
	return fromStored(&sp), nil
}

// Update 读改写画像并写回。
func (s *KVStore) Update(ctx context.Context, viewerID string, fn func(*core.Profile)) error {
	if s.Store == nil || viewerID == "" || fn == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ctx, viewerID)
	if err != nil {
		return err
	}
	if p == nil {
		p = core.NewProfile(viewerID)
	}
	fn(p)

	data, err := json.Marshal(toStored(p))
	if err != nil {
		return err
	}
	if err := s.Store.Set(ctx, s.key(viewerID), data, s.TTL); err != nil {
		return core.NewDomainError(core.ModuleProfile, core.ErrorCodeUnavailable, "profile store: "+err.Error())
	}
	return nil
}

var _ core.ProfileStore = (*KVStore)(nil)
