package market

import (
	"sort"
	"time"

	"github.com/rushteam/feedkit/core"
)

// CategoryMixed 按类目轮询交错：先按出现顺序收集各类目的队列，
// 再逐轮从每个类目取一个，避免同类目条目扎堆。
// 返回新切片，输入顺序决定每个类目内部的顺序（确定性，可测）。
func CategoryMixed(items []*core.Item) []*core.Item {
	if len(items) < 2 {
		return items
	}

	var order []string
	queues := make(map[string][]*core.Item)
	for _, it := range items {
		category := ""
		if it.Listing != nil {
			category = it.Listing.Category
		}
		if _, ok := queues[category]; !ok {
			order = append(order, category)
		}
		queues[category] = append(queues[category], it)
	}

	result := make([]*core.Item, 0, len(items))
	for len(result) < len(items) {
		for _, category := range order {
			q := queues[category]
			if len(q) == 0 {
				continue
			}
			result = append(result, q[0])
			queues[category] = q[1:]
		}
	}
	return result
}

// TimeOfDayOrder 按小时桶切换主排序键：
//
//   - 05–11 点（早晨）：最新优先，用户想看隔夜新上架
//   - 12–17 点（白天）：互动量优先，午休刷热闹
//   - 其余（晚间/深夜）：权重优先，回到默认的质量信号
//
// hour 由调用方传入（取 now.Hour() 或测试固定值），
// 方便测试把小时和当前时间分开固定。
func TimeOfDayOrder(items []*core.Item, hour int, now time.Time) {
	switch {
	case hour >= 5 && hour < 12:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	case hour >= 12 && hour < 18:
		EngagementOrder(items)
	default:
		// 晚间桶不加噪声，保证同一小时内输出可复现
		keys := make(map[string]float64, len(items))
		for _, it := range items {
			keys[it.ID] = ListingWeight(it, now)
		}
		sort.SliceStable(items, func(i, j int) bool {
			return keys[items[i].ID] > keys[items[j].ID]
		})
	}
}
