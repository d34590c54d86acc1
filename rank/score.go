package rank

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// 互动历史特征 key：feature.InteractionNode 注入，ScoreNode 消费。
const (
	FeatureAuthorLikesGiven    = "author_likes_given"
	FeatureAuthorCommentsGiven = "author_comments_given"
)

// 各子分的特征 key，打分后写回 Item.Features，用于 explain。
const (
	FeatureRecency      = "score_recency"
	FeatureEngagement   = "score_engagement"
	FeatureRelationship = "score_relationship"
	FeatureContentType  = "score_content_type"
	FeatureBonus        = "score_interaction_bonus"
)

// ScoreNode 是社交 Feed 的打分 Node：对每个候选计算综合相关性分。
//
// 综合分 = recency*Wr + engagement*We + relationship*Wl + content*Wc + bonus
//   - recency: 候选年龄的阶梯函数（<1h→1.0, <6h→0.8, <24h→0.6, <72h→0.4, 其余→0.2）
//   - engagement: (likes + 3*comments + 5*shares + 8*近2h评论) / divisor，截断 [0,1]。
//     评论与转发比点赞信号强；很近的评论意味着正在进行的对话，值得即刻上浮。
//   - relationship: 本人 1.0 / 关系 0.8 / 其他 0.3
//   - content: 视频 0.9 / 带媒体的图片 0.7 / 纯文本与无法识别类型 0.5
//   - bonus: min((likesGiven*0.1 + commentsGiven*0.2)/10, maxBonus)，
//     奖励历史上常互动的作者，封顶以限制影响
//
// 综合分下限截断为 0；无显式上限（有意保留余量，让重度互动作者
// 可以越过一般候选的基础分天花板）。
//
// 各候选打分相互独立，候选量大时通过 errgroup 并发计算；
// 每个 goroutine 只写自己的 Item，无共享状态。
type ScoreNode struct {
	Config *core.ScoreConfig

	// MaxConcurrent 是并发打分的 goroutine 上限；<=1 时串行。
	MaxConcurrent int

	// Now 用于测试注入时钟；为 nil 时使用 time.Now。
	Now func() time.Time
}

func (n *ScoreNode) Name() string        { return "score.social" }
func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindScore }

func (n *ScoreNode) Process(
	ctx context.Context,
	vctx *core.ViewContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	cfg := n.Config
	if cfg == nil {
		cfg = core.DefaultScoreConfig()
	}
	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}

	if n.MaxConcurrent > 1 && len(items) > n.MaxConcurrent {
		eg, _ := errgroup.WithContext(ctx)
		eg.SetLimit(n.MaxConcurrent)
		for _, it := range items {
			it := it
			eg.Go(func() error {
				n.scoreOne(it, vctx, cfg, now)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		return items, nil
	}

	for _, it := range items {
		n.scoreOne(it, vctx, cfg, now)
	}
	return items, nil
}

func (n *ScoreNode) scoreOne(it *core.Item, vctx *core.ViewContext, cfg *core.ScoreConfig, now time.Time) {
	if it == nil {
		return
	}

	recency := RecencyScore(now.Sub(it.CreatedAt))
	engagement := EngagementScore(it, now, cfg.EngagementDivisor)
	relationship := RelationshipScore(it.AuthorID, vctx)
	content := ContentTypeScore(it)
	bonus := InteractionBonus(it, vctx, cfg.InteractionBonusCap)

	score := recency*cfg.RecencyWeight +
		engagement*cfg.EngagementWeight +
		relationship*cfg.RelationshipWeight +
		content*cfg.ContentTypeWeight +
		bonus
	if score < 0 {
		score = 0
	}

	it.Score = score
	it.IsNew = vctx == nil || !vctx.HasSeen(it.ID)
	it.PutFeature(FeatureRecency, recency)
	it.PutFeature(FeatureEngagement, engagement)
	it.PutFeature(FeatureRelationship, relationship)
	it.PutFeature(FeatureContentType, content)
	it.PutFeature(FeatureBonus, bonus)
	it.PutLabel("scorer", utils.Label{Value: n.Name(), Source: "score"})
	if it.IsNew {
		it.PutLabel("is_new", utils.Label{Value: "true", Source: "score"})
	}
}

// RecencyScore 是候选年龄的阶梯函数。
func RecencyScore(age time.Duration) float64 {
	switch {
	case age < time.Hour:
		return 1.0
	case age < 6*time.Hour:
		return 0.8
	case age < 24*time.Hour:
		return 0.6
	case age < 72*time.Hour:
		return 0.4
	default:
		return 0.2
	}
}

// EngagementScore 计算互动子分，截断到 [0, 1]。
// recentComments 统计近 2 小时内的评论（活跃对话信号，权重最高）。
// 计数再大也不会越过 1（clamp 对病态大的计数同样成立）。
func EngagementScore(it *core.Item, now time.Time, divisor float64) float64 {
	if divisor <= 0 {
		divisor = 100
	}
	recent := it.CommentsWithin(now, 2*time.Hour)
	raw := float64(it.Likes)*1 + float64(it.Comments)*3 + float64(it.Shares)*5 + float64(recent)*8
	score := raw / divisor
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// RelationshipScore 计算关系子分：本人 1.0，关系 0.8，其他 0.3。
func RelationshipScore(authorID string, vctx *core.ViewContext) float64 {
	if vctx == nil {
		return 0.3
	}
	if authorID != "" && authorID == vctx.ViewerID {
		return 1.0
	}
	if vctx.IsConnection(authorID) {
		return 0.8
	}
	return 0.3
}

// ContentTypeScore 计算内容类型子分：
// 视频 0.9；带媒体的图片 0.7；纯文本以及带媒体但类型无法识别的候选 0.5。
func ContentTypeScore(it *core.Item) float64 {
	switch it.ContentType {
	case core.ContentVideo:
		return 0.9
	case core.ContentImage:
		if it.HasMedia {
			return 0.7
		}
		return 0.5
	default:
		return 0.5
	}
}

// InteractionBonus 计算互动加成（不加权、直接加到综合分上）：
// min((likesGiven*0.1 + commentsGiven*0.2)/10, maxBonus)。
// 互动计数优先取 feature.InteractionNode 注入的特征，
// 其次回落到 ViewContext.Interactions。
func InteractionBonus(it *core.Item, vctx *core.ViewContext, maxBonus float64) float64 {
	if maxBonus <= 0 {
		maxBonus = 0.5
	}
	likes := it.Feature(FeatureAuthorLikesGiven)
	comments := it.Feature(FeatureAuthorCommentsGiven)
	if likes == 0 && comments == 0 && vctx != nil {
		ic := vctx.InteractionsWith(it.AuthorID)
		likes = float64(ic.Likes)
		comments = float64(ic.Comments)
	}
	bonus := (likes*0.1 + comments*0.2) / 10
	if bonus > maxBonus {
		return maxBonus
	}
	if bonus < 0 {
		return 0
	}
	return bonus
}

var _ pipeline.Node = (*ScoreNode)(nil)
