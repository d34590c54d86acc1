package filter

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// StoreAdapter 把 core.KeyValueStore 适配成 SeenStore：
// 已看集合存为 Set，实际 key 为 {KeyPrefix}:{viewerID}。
type StoreAdapter struct {
	Store core.KeyValueStore

	// KeyPrefix 默认 "viewer:seen"
	KeyPrefix string

	// TTL 是已看集合的过期时间（秒），0 表示不过期。
	// 会话级去重通常给一个小时级 TTL。
	TTL int
}

func NewStoreAdapter(store core.KeyValueStore, keyPrefix string, ttl int) *StoreAdapter {
	if keyPrefix == "" {
		keyPrefix = "viewer:seen"
	}
	return &StoreAdapter{Store: store, KeyPrefix: keyPrefix, TTL: ttl}
}

func (a *StoreAdapter) key(viewerID string) string {
	return a.KeyPrefix + ":" + viewerID
}

func (a *StoreAdapter) GetSeen(ctx context.Context, viewerID string) ([]string, error) {
	if a.Store == nil || viewerID == "" {
		return nil, nil
	}
	ids, err := a.Store.SMembers(ctx, a.key(viewerID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "seen store: "+err.Error())
	}
	return ids, nil
}

func (a *StoreAdapter) RecordSeen(ctx context.Context, viewerID string, ids []string) error {
	if a.Store == nil || viewerID == "" || len(ids) == 0 {
		return nil
	}
	if err := a.Store.SAdd(ctx, a.key(viewerID), ids...); err != nil {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "seen store: "+err.Error())
	}
	return nil
}

func (a *StoreAdapter) ClearSeen(ctx context.Context, viewerID string) error {
	if a.Store == nil || viewerID == "" {
		return nil
	}
	if err := a.Store.Delete(ctx, a.key(viewerID)); err != nil {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "seen store: "+err.Error())
	}
	return nil
}

var _ SeenStore = (*StoreAdapter)(nil)
