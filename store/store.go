// Package store 只包含实现，接口定义在 core 包。
// 使用 core.Store 和 core.KeyValueStore 接口：
//
//	var s core.Store = store.NewMemoryStore()
//	var kv core.KeyValueStore = store.NewMemoryStore()
package store

import "github.com/rushteam/feedkit/core"

// ErrNotFound 是 key 不存在错误的别名，方便包内引用。
var ErrNotFound = core.ErrStoreNotFound
