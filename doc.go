// Package feedkit 是一个 Feed 排序与个性化工具包（Feed Ranking Kit）。
//
// 设计要点：
// - Pipeline-first: 排序逻辑通过 Node 串联（Feature → Score → Order → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 确定性加有界随机：打分和排序可复现，抖动与洗牌的随机源显式注入
// - Node 可扩展: 自定义 Node 即可插拔扩展
package feedkit

import "github.com/rushteam/feedkit/pipeline"

// 轻量 facade：便于用户直接 import "feedkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindSource      = pipeline.KindSource
	KindFilter      = pipeline.KindFilter
	KindFeature     = pipeline.KindFeature
	KindScore       = pipeline.KindScore
	KindOrder       = pipeline.KindOrder
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
