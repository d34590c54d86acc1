// Package profile 提供 core.ProfileStore 的实现：
// 进程内 LRU 实现（MemoryStore）与基于 core.Store 的持久化实现（KVStore）。
//
// 并发约定（所有实现共同遵守）：
//   - Update 对同一 viewer 串行化读改写，并发 RecordInteraction 不丢更新
//   - Get 返回快照副本，排序路径无锁读取，允许落后一次更新
//     （画像是软信号，不是正确性关键路径）
package profile

import (
	"container/list"
	"context"
	"sync"

	"github.com/rushteam/feedkit/core"
)

// DefaultMaxEntries 是内存画像存储的默认容量上限。
// 画像留存必须有界：观看者数量没有上限，进程内不能无限囤画像。
const DefaultMaxEntries = 10000

// MemoryStore 是进程内画像存储，带 LRU 上限。
// 超出容量时淘汰最久未访问的画像。
type MemoryStore struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]*list.Element // viewerID -> lru element
	lru        *list.List               // 头部最新，尾部最旧
}

type lruEntry struct {
	viewerID string
	profile  *core.Profile
}

// NewMemoryStore 创建内存画像存储；maxEntries <= 0 时取 DefaultMaxEntries。
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		lru:        list.New(),
	}
}

// Get 返回画像快照；不存在时返回 (nil, nil)。
func (s *MemoryStore) Get(_ context.Context, viewerID string) (*core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[viewerID]
	if !ok {
		return nil, nil
	}
	s.lru.MoveToFront(el)
	return el.Value.(*lruEntry).profile.Clone(), nil
}

// Update 对画像做串行化读改写；画像不存在时惰性创建。
func (s *MemoryStore) Update(_ context.Context, viewerID string, fn func(*core.Profile)) error {
	if viewerID == "" || fn == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[viewerID]
	if !ok {
		el = s.lru.PushFront(&lruEntry{
			viewerID: viewerID,
			profile:  core.NewProfile(viewerID),
		})
		s.entries[viewerID] = el
		s.evict()
	} else {
		s.lru.MoveToFront(el)
	}

	fn(el.Value.(*lruEntry).profile)
	return nil
}

// Len 返回当前持有的画像数（用于测试/观测）。
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

func (s *MemoryStore) evict() {
	for s.lru.Len() > s.maxEntries {
		oldest := s.lru.Back()
		if oldest == nil {
			return
		}
		s.lru.Remove(oldest)
		delete(s.entries, oldest.Value.(*lruEntry).viewerID)
	}
}

var _ core.ProfileStore = (*MemoryStore)(nil)
