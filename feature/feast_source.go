package feature

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/feast"
	"github.com/rushteam/feedkit/pkg/conv"
)

// 默认的 Feast 特征名：viewer_author_stats 特征视图按
// (viewer_id, author_id) 实体对物化互动计数。
const (
	DefaultLikesFeature    = "viewer_author_stats:likes_given"
	DefaultCommentsFeature = "viewer_author_stats:comments_given"
)

// FeastSource 从 Feast 在线存储读取互动统计。
type FeastSource struct {
	Client feast.Client

	// LikesFeature / CommentsFeature 为空时取默认特征名
	LikesFeature    string
	CommentsFeature string
}

func NewFeastSource(client feast.Client) *FeastSource {
	return &FeastSource{
		Client:          client,
		LikesFeature:    DefaultLikesFeature,
		CommentsFeature: DefaultCommentsFeature,
	}
}

func (s *FeastSource) Name() string { return "feast" }

func (s *FeastSource) GetInteractions(ctx context.Context, viewerID string, authorIDs []string) (map[string]core.InteractionCounts, error) {
	if s.Client == nil || len(authorIDs) == 0 {
		return nil, nil
	}
	likesFeature := s.LikesFeature
	if likesFeature == "" {
		likesFeature = DefaultLikesFeature
	}
	commentsFeature := s.CommentsFeature
	if commentsFeature == "" {
		commentsFeature = DefaultCommentsFeature
	}

	entityRows := make([]map[string]interface{}, len(authorIDs))
	for i, authorID := range authorIDs {
		entityRows[i] = map[string]interface{}{
			"viewer_id": viewerID,
			"author_id": authorID,
		}
	}

	resp, err := s.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   []string{likesFeature, commentsFeature},
		EntityRows: entityRows,
	})
	if err != nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable, "feast: "+err.Error())
	}

	result := make(map[string]core.InteractionCounts, len(authorIDs))
	for i, vec := range resp.FeatureVectors {
		if i >= len(authorIDs) {
			break
		}
		likes, _ := conv.ToFloat64(vec.Values[likesFeature])
		comments, _ := conv.ToFloat64(vec.Values[commentsFeature])
		if likes == 0 && comments == 0 {
			continue
		}
		result[authorIDs[i]] = core.InteractionCounts{
			Likes:    int(likes),
			Comments: int(comments),
		}
	}
	return result, nil
}

var _ InteractionSource = (*FeastSource)(nil)
