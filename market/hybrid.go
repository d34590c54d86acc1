package market

import "github.com/rushteam/feedkit/core"

// WeightedChoice 是概率分发表的一项。
type WeightedChoice struct {
	Strategy string
	Weight   float64
}

// DefaultHybridChoices 是 hybrid 策略的默认分发表：
// 70% 走 weighted，30% 走 personalized。
// 做成显式配置而不是写死的魔数，权重本身可评审、可测试、可替换。
var DefaultHybridChoices = []WeightedChoice{
	{Strategy: StrategyWeighted, Weight: 0.7},
	{Strategy: StrategyPersonalized, Weight: 0.3},
}

// PickStrategy 按权重随机选一个策略。
// 表为空或权重和为 0 时回退 weighted。
func PickStrategy(choices []WeightedChoice, rnd core.Rand) string {
	var total float64
	for _, c := range choices {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total <= 0 {
		return StrategyWeighted
	}

	target := rnd.Float64() * total
	for _, c := range choices {
		if c.Weight <= 0 {
			continue
		}
		if target < c.Weight {
			return NormalizeStrategy(c.Strategy)
		}
		target -= c.Weight
	}
	// 浮点误差兜底：落到最后一个有效项
	for i := len(choices) - 1; i >= 0; i-- {
		if choices[i].Weight > 0 {
			return NormalizeStrategy(choices[i].Strategy)
		}
	}
	return StrategyWeighted
}
