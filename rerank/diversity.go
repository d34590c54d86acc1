package rerank

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// Diversity 是作者打散 ReRank：把连续同作者的 run 限制在 2 以内，
// 不做整体重排，尽量保持输入的相对顺序。
//
// 逐个放置：若输出尾部的 2 个位置都是当前作者，则不直接追加，
// 而是从尾部向后扫描，插到最近一个不会与当前作者形成连串的位置
// （即最近的异作者条目之后）；找不到这样的位置时先挂起，
// 等后续候选放置完再重试，仍放不下的追加到末尾
// （整个剩余池都是同一作者时，同作者连串不可避免，按原序退化）。
//
// 不改分数、不增删元素：输出是输入的一个排列。
type Diversity struct{}

func (n *Diversity) Name() string        { return "rerank.diversity" }
func (n *Diversity) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *Diversity) Process(
	_ context.Context,
	_ *core.ViewContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) < 3 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	var deferred []*core.Item

	for _, it := range items {
		if it == nil {
			continue
		}
		if canAppend(out, it) {
			out = append(out, it)
			continue
		}
		if p := safeInsertPos(out, it); p >= 0 {
			out = insertAt(out, p, it)
			it.PutLabel("diversity_moved", utils.Label{Value: "true", Source: "rerank"})
			continue
		}
		deferred = append(deferred, it)
	}

	// 挂起的候选在输出长大后再试一轮；仍无处可放说明连串不可避免
	for _, it := range deferred {
		if canAppend(out, it) {
			out = append(out, it)
			continue
		}
		if p := safeInsertPos(out, it); p >= 0 {
			out = insertAt(out, p, it)
			it.PutLabel("diversity_moved", utils.Label{Value: "true", Source: "rerank"})
			continue
		}
		out = append(out, it)
	}

	return out, nil
}

// canAppend 判断追加是否安全：尾部 2 个位置不全是当前作者。
func canAppend(out []*core.Item, it *core.Item) bool {
	n := len(out)
	if n < 2 {
		return true
	}
	return out[n-1].AuthorID != it.AuthorID || out[n-2].AuthorID != it.AuthorID
}

// safeInsertPos 从尾部向前找最近的安全插入位置：插入后当前候选
// 不与前后条目形成超过 2 的同作者连串。找不到返回 -1。
func safeInsertPos(out []*core.Item, it *core.Item) int {
	for p := len(out) - 1; p >= 0; p-- {
		if safeAt(out, p, it) {
			return p
		}
	}
	return -1
}

// safeAt 判断把 it 插到位置 p（原 out[p] 及其后整体后移）是否安全。
func safeAt(out []*core.Item, p int, it *core.Item) bool {
	a := it.AuthorID
	same := func(i int) bool {
		return i >= 0 && i < len(out) && out[i].AuthorID == a
	}
	// 向前形成连串：out[p-2], out[p-1], it
	if same(p-1) && same(p-2) {
		return false
	}
	// 前后桥接：out[p-1], it, out[p]
	if same(p-1) && same(p) {
		return false
	}
	// 向后形成连串：it, out[p], out[p+1]
	if same(p) && same(p+1) {
		return false
	}
	return true
}

func insertAt(out []*core.Item, p int, it *core.Item) []*core.Item {
	out = append(out, nil)
	copy(out[p+1:], out[p:])
	out[p] = it
	return out
}

var _ pipeline.Node = (*Diversity)(nil)
