package feature

import (
	"context"
	"encoding/json"

	"github.com/rushteam/feedkit/core"
)

// StoreSource 从 KeyValueStore 的 hash 结构读取互动统计。
//
// 存储布局：key = "{KeyPrefix}:{viewerID}"，field = authorID，
// value = JSON 编码的 {"likes":N,"comments":N}。
// 离线聚合任务按这个布局写入即可。
type StoreSource struct {
	Store core.KeyValueStore

	// KeyPrefix 默认 "viewer:interactions"
	KeyPrefix string
}

func NewStoreSource(store core.KeyValueStore, keyPrefix string) *StoreSource {
	if keyPrefix == "" {
		keyPrefix = "viewer:interactions"
	}
	return &StoreSource{Store: store, KeyPrefix: keyPrefix}
}

func (s *StoreSource) Name() string { return "store" }

type storedCounts struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

func (s *StoreSource) GetInteractions(ctx context.Context, viewerID string, authorIDs []string) (map[string]core.InteractionCounts, error) {
	if s.Store == nil {
		return nil, nil
	}
	fields, err := s.Store.HGetAll(ctx, s.KeyPrefix+":"+viewerID)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable, "interaction store: "+err.Error())
	}

	result := make(map[string]core.InteractionCounts, len(authorIDs))
	for _, authorID := range authorIDs {
		data, ok := fields[authorID]
		if !ok {
			continue
		}
		var sc storedCounts
		if err := json.Unmarshal(data, &sc); err != nil {
			// 损坏的计数按缺失处理
			continue
		}
		result[authorID] = core.InteractionCounts{Likes: sc.Likes, Comments: sc.Comments}
	}
	return result, nil
}

// RecordLike 累加一次点赞计数（读改写，非原子；计数是软信号）。
func (s *StoreSource) RecordLike(ctx context.Context, viewerID, authorID string) error {
	return s.bump(ctx, viewerID, authorID, 1, 0)
}

// RecordComment 累加一次评论计数。
func (s *StoreSource) RecordComment(ctx context.Context, viewerID, authorID string) error {
	return s.bump(ctx, viewerID, authorID, 0, 1)
}

func (s *StoreSource) bump(ctx context.Context, viewerID, authorID string, likes, comments int) error {
	if s.Store == nil || viewerID == "" || authorID == "" {
		return nil
	}
	key := s.KeyPrefix + ":" + viewerID
	var sc storedCounts
	if data, err := s.Store.HGet(ctx, key, authorID); err == nil {
		_ = json.Unmarshal(data, &sc)
	} else if !core.IsStoreNotFound(err) {
		return core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable, "interaction store: "+err.Error())
	}
	sc.Likes += likes
	sc.Comments += comments
	data, err := json.Marshal(&sc)
	if err != nil {
		return err
	}
	if err := s.Store.HSet(ctx, key, authorID, data); err != nil {
		return core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable, "interaction store: "+err.Error())
	}
	return nil
}

var _ InteractionSource = (*StoreSource)(nil)
