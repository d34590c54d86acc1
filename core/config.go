package core

// ScoreConfig 是社交 Feed 打分的全部可调常量。
//
// 这些值是产品调优结果，不是算法推导结果；保持为具名配置而非散落的
// 字面量，便于标定与实验。零值字段在 Merge 时回落到默认值。
type ScoreConfig struct {
	// 四个子分权重
	RecencyWeight      float64 `yaml:"recency_weight" json:"recency_weight"`           // 默认 0.30
	EngagementWeight   float64 `yaml:"engagement_weight" json:"engagement_weight"`     // 默认 0.40
	RelationshipWeight float64 `yaml:"relationship_weight" json:"relationship_weight"` // 默认 0.20
	ContentTypeWeight  float64 `yaml:"content_type_weight" json:"content_type_weight"` // 默认 0.10

	// 互动子分归一化分母：(likes + 3*comments + 5*shares + 8*recent) / divisor，截断到 [0,1]
	EngagementDivisor float64 `yaml:"engagement_divisor" json:"engagement_divisor"` // 默认 100

	// 互动加成上限（不加权、直接相加）
	InteractionBonusCap float64 `yaml:"interaction_bonus_cap" json:"interaction_bonus_cap"` // 默认 0.5

	// 刷新抖动幅度：delta = (rand - 0.5) * JitterAmplitude
	JitterAmplitude float64 `yaml:"jitter_amplitude" json:"jitter_amplitude"` // 默认 0.15

	// 排序时综合分差低于该阈值视为并列（抑制微小分差抖动）
	ScoreThreshold float64 `yaml:"score_threshold" json:"score_threshold"` // 默认 0.1

	// 热门时间窗（小时），GetTrending 未显式指定时使用
	TrendingWindowHours int `yaml:"trending_window_hours" json:"trending_window_hours"` // 默认 24
}

// DefaultScoreConfig 返回默认打分配置。
//
// 综合分 = recency*0.3 + engagement*0.4 + relationship*0.2 + content*0.1 + bonus，
// 下限截断为 0；无显式上限（互动加成允许重度互动作者越过基础分天花板，
// 这是有意保留的余量）。
func DefaultScoreConfig() *ScoreConfig {
	return &ScoreConfig{
		RecencyWeight:       0.30,
		EngagementWeight:    0.40,
		RelationshipWeight:  0.20,
		ContentTypeWeight:   0.10,
		EngagementDivisor:   100,
		InteractionBonusCap: 0.5,
		JitterAmplitude:     0.15,
		ScoreThreshold:      0.1,
		TrendingWindowHours: 24,
	}
}

// Merge 将 override 中的非零字段合并到 base 之上，返回新配置。
// 支持标定文件只覆盖部分字段。
func (base *ScoreConfig) Merge(override *ScoreConfig) *ScoreConfig {
	if base == nil {
		base = DefaultScoreConfig()
	}
	out := *base
	if override == nil {
		return &out
	}
	if override.RecencyWeight != 0 {
		out.RecencyWeight = override.RecencyWeight
	}
	if override.EngagementWeight != 0 {
		out.EngagementWeight = override.EngagementWeight
	}
	if override.RelationshipWeight != 0 {
		out.RelationshipWeight = override.RelationshipWeight
	}
	if override.ContentTypeWeight != 0 {
		out.ContentTypeWeight = override.ContentTypeWeight
	}
	if override.EngagementDivisor != 0 {
		out.EngagementDivisor = override.EngagementDivisor
	}
	if override.InteractionBonusCap != 0 {
		out.InteractionBonusCap = override.InteractionBonusCap
	}
	if override.JitterAmplitude != 0 {
		out.JitterAmplitude = override.JitterAmplitude
	}
	if override.ScoreThreshold != 0 {
		out.ScoreThreshold = override.ScoreThreshold
	}
	if override.TrendingWindowHours != 0 {
		out.TrendingWindowHours = override.TrendingWindowHours
	}
	return &out
}
