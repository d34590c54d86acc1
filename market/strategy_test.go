package market

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rushteam/feedkit/core"
)

// constRand 是返回固定值的随机源，用于确定性断言。
type constRand struct{ v float64 }

func (r constRand) Float64() float64 { return r.v }

func listing(id string, price float64) *core.Item {
	return &core.Item{
		ID:        id,
		CreatedAt: time.Now().Add(-1 * time.Hour),
		Listing: &core.Listing{
			Price:      price,
			Negotiable: true,
			HasImages:  true,
			City:       "Berlin",
			Country:    "DE",
		},
	}
}

func TestListingWeight(t *testing.T) {
	now := time.Now()

	// 1h 内 ×2、可议价 ×1.5、带图 ×1.3、位置完整 ×1.2 → 4.68
	cheap := listing("cheap", 50)
	if got := ListingWeight(cheap, now); math.Abs(got-4.68) > 1e-9 {
		t.Errorf("weight = %v, want 4.68", got)
	}

	// 同上但价格 2000 → 再 ×0.8 → 3.744
	expensive := listing("expensive", 2000)
	if got := ListingWeight(expensive, now); math.Abs(got-3.744) > 1e-9 {
		t.Errorf("weight = %v, want 3.744", got)
	}

	// 便宜条目的预抖动权重严格更高
	if ListingWeight(cheap, now) <= ListingWeight(expensive, now) {
		t.Errorf("cheap item must outweigh expensive item pre-jitter")
	}

	// 无 Listing 属性按中性权重处理（只剩新鲜度系数）
	bare := &core.Item{ID: "bare", CreatedAt: now.Add(-48 * time.Hour)}
	if got := ListingWeight(bare, now); got != 1.0 {
		t.Errorf("weight = %v, want 1.0", got)
	}
}

func TestWeightedShuffle_NoiseCannotFlipLargeGap(t *testing.T) {
	// 4.68 vs 3.744 的差距超过 ±0.15 噪声带，任何随机值都不会翻转
	now := time.Now()
	for seed := int64(1); seed <= 20; seed++ {
		items := []*core.Item{listing("expensive", 2000), listing("cheap", 50)}
		WeightedShuffle(items, core.NewRand(seed), now)
		if items[0].ID != "cheap" {
			t.Fatalf("seed %d: expensive item sorted first", seed)
		}
	}
}

func TestPersonalizedOrder_ProfileBoost(t *testing.T) {
	// 固定随机值后只剩画像加成：全中（0.7）排最前
	profile := core.NewProfile("buyer")
	profile.ObserveView(&core.Listing{Price: 100, Category: "bikes", Condition: "used"})

	items := []*core.Item{
		{ID: "miss", Listing: &core.Listing{Price: 5000, Category: "cars", Condition: "new"}},
		{ID: "hit", Listing: &core.Listing{Price: 100, Category: "bikes", Condition: "used"}},
		{ID: "partial", Listing: &core.Listing{Price: 100, Category: "bikes", Condition: "new"}},
	}
	PersonalizedOrder(items, profile, constRand{0.5})

	want := []string{"hit", "partial", "miss"}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("order = %v, want %v", idsOf(items), want)
		}
	}
}

func TestPersonalizedOrder_NilProfile(t *testing.T) {
	// 画像缺失退化为纯随机，不报错、不丢条目
	items := []*core.Item{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}
	PersonalizedOrder(items, nil, core.NewRand(3))
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
}

func TestCategoryMixed(t *testing.T) {
	items := []*core.Item{
		{ID: "b1", Listing: &core.Listing{Category: "bikes"}},
		{ID: "b2", Listing: &core.Listing{Category: "bikes"}},
		{ID: "f1", Listing: &core.Listing{Category: "furniture"}},
		{ID: "b3", Listing: &core.Listing{Category: "bikes"}},
		{ID: "e1", Listing: &core.Listing{Category: "electronics"}},
	}
	out := CategoryMixed(items)

	want := []string{"b1", "f1", "e1", "b2", "b3"}
	for i, id := range want {
		if out[i].ID != id {
			t.Fatalf("order = %v, want %v", idsOf(out), want)
		}
	}
}

func TestTimeOfDayOrder(t *testing.T) {
	now := time.Now()
	build := func() []*core.Item {
		return []*core.Item{
			{ID: "old_hot", CreatedAt: now.Add(-40 * time.Hour), Likes: 100, Comments: 20},
			{ID: "fresh_quiet", CreatedAt: now.Add(-1 * time.Hour)},
		}
	}

	// 早晨桶：最新优先
	morning := build()
	TimeOfDayOrder(morning, 8, now)
	if morning[0].ID != "fresh_quiet" {
		t.Errorf("morning bucket: got %s first, want fresh_quiet", morning[0].ID)
	}

	// 白天桶：互动量优先
	midday := build()
	TimeOfDayOrder(midday, 14, now)
	if midday[0].ID != "old_hot" {
		t.Errorf("midday bucket: got %s first, want old_hot", midday[0].ID)
	}

	// 晚间桶：权重优先（新鲜条目 ×2）
	evening := build()
	TimeOfDayOrder(evening, 22, now)
	if evening[0].ID != "fresh_quiet" {
		t.Errorf("evening bucket: got %s first, want fresh_quiet", evening[0].ID)
	}
}

func TestRandomOrder_IsPermutation(t *testing.T) {
	items := []*core.Item{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	RandomOrder(items, core.NewRand(9))

	seen := make(map[string]bool)
	for _, it := range items {
		seen[it.ID] = true
	}
	for _, id := range []string{"a", "b", "c", "d"} {
		if !seen[id] {
			t.Fatalf("item %q lost in shuffle", id)
		}
	}
}

func TestNormalizeStrategy(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"weighted", StrategyWeighted},
		{"personalized", StrategyPersonalized},
		{"hybrid", StrategyHybrid},
		{"bogus", StrategyWeighted},
		{"", StrategyWeighted},
	}
	for _, tt := range tests {
		if got := NormalizeStrategy(tt.in); got != tt.want {
			t.Errorf("NormalizeStrategy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPickStrategy(t *testing.T) {
	choices := DefaultHybridChoices

	// 0.1 落在 weighted 的 0.7 区间
	if got := PickStrategy(choices, constRand{0.1}); got != StrategyWeighted {
		t.Errorf("PickStrategy(0.1) = %q, want weighted", got)
	}
	// 0.9 落在 personalized 的区间
	if got := PickStrategy(choices, constRand{0.9}); got != StrategyPersonalized {
		t.Errorf("PickStrategy(0.9) = %q, want personalized", got)
	}
	// 空表回退 weighted
	if got := PickStrategy(nil, constRand{0.5}); got != StrategyWeighted {
		t.Errorf("PickStrategy(nil) = %q, want weighted", got)
	}
}

func TestNode_UnknownStrategyFallsBack(t *testing.T) {
	now := time.Now()
	node := &Node{
		Strategy: "bogus",
		Rand:     core.NewRand(1),
		Now:      func() time.Time { return now },
	}
	items := []*core.Item{listing("x", 50), listing("y", 2000)}
	out, err := node.Process(context.Background(), &core.ViewContext{ViewerID: "v"}, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out[0].Labels["market_strategy"].Value != StrategyWeighted {
		t.Errorf("label = %q, want weighted", out[0].Labels["market_strategy"].Value)
	}
}

func idsOf(items []*core.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
