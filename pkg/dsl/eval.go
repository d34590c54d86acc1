package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/feedkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("vctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是规则 DSL 解释器，使用 CEL (Common Expression Language) 实现。
// 用于声明式的候选约束（filter.Rule）与策略条件，
// 例如配置里写规则而不是改代码。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：item.score > 0.7 / item.likes >= 10
//   - 字符串：item.author_id == vctx.viewer_id
//   - 逻辑：item.content_type == "video" && item.score > 0.5
//   - 标签：label.filtered != null（检查存在性）
//
// 示例：
//   - `item.score < 0.05` → 过滤掉几乎无相关性的候选
//   - `item.author_id == vctx.viewer_id` → 过滤掉本人发布的内容
type Eval struct {
	item *core.Item
	vctx *core.ViewContext
	env  *cel.Env
}

// NewEval 创建一个新的 DSL 解释器。
func NewEval(item *core.Item, vctx *core.ViewContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		item: item,
		vctx: vctx,
		env:  env,
	}
}

// Evaluate 解析并执行 DSL 表达式，返回布尔结果。
// 空表达式返回 true。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		// 访问不存在的 key 时 CEL 会报错；
		// 用 label.key != null 检查存在性，而不是直接访问
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]any {
	labels := make(map[string]any)
	labelAccessor := make(map[string]any)
	if e.item != nil {
		for k, v := range e.item.Labels {
			labels[k] = map[string]any{
				"value":  v.Value,
				"source": v.Source,
			}
			// label.filtered 直接取 value，兼容简写
			labelAccessor[k] = v.Value
		}
	}

	item := map[string]any{}
	if e.item != nil {
		item = map[string]any{
			"id":           e.item.ID,
			"author_id":    e.item.AuthorID,
			"score":        e.item.Score,
			"is_new":       e.item.IsNew,
			"likes":        e.item.Likes,
			"comments":     e.item.Comments,
			"shares":       e.item.Shares,
			"content_type": string(e.item.ContentType),
			"has_media":    e.item.HasMedia,
			"features":     e.item.Features,
			"labels":       labels,
		}
		if e.item.Listing != nil {
			item["price"] = e.item.Listing.Price
			item["category"] = e.item.Listing.Category
			item["condition"] = e.item.Listing.Condition
			item["negotiable"] = e.item.Listing.Negotiable
		}
	}

	vctx := map[string]any{}
	if e.vctx != nil {
		vctx = map[string]any{
			"viewer_id":  e.vctx.ViewerID,
			"scene":      e.vctx.Scene,
			"is_refresh": e.vctx.IsRefresh,
			"sort_mode":  string(e.vctx.SortMode),
			"params":     e.vctx.Params,
		}
	}

	return map[string]any{
		"item":  item,
		"label": labelAccessor,
		"vctx":  vctx,
	}
}
