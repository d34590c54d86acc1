// Package feast 封装 Feast 特征平台客户端，为排序提供在线特征。
//
// 排序需要的互动统计（viewer 对 author 的点赞/评论次数）通常由离线任务
// 聚合后物化到 Feast 在线存储，这里只做在线读取。
//
// 设计原则（DDD）：
//   - 领域层：Client 接口，和具体传输协议解耦
//   - 基础设施层：GrpcClient 基于官方 SDK 实现
package feast

import (
	"context"
	"time"
)

// Client 是 Feast 在线特征客户端接口。
type Client interface {
	// GetOnlineFeatures 获取在线特征
	//
	// 参数：
	//   - req: 请求参数，包含特征名称列表和实体行
	//
	// 返回：
	//   - GetOnlineFeaturesResponse: 特征向量，顺序和实体行一一对应
	//   - error: 错误信息
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表，例如 ["viewer_author_stats:likes_given"]
	Features []string

	// EntityRows 实体行，例如 [{"viewer_id": "u1", "author_id": "u2"}]
	EntityRows []map[string]interface{}

	// Project 项目名称（可选，缺省用客户端配置）
	Project string
}

// GetOnlineFeaturesResponse 获取在线特征响应
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 特征向量列表，每个元素对应一个实体行
	FeatureVectors []FeatureVector
}

// FeatureVector 特征向量
type FeatureVector struct {
	// Values 特征值，key 为特征名称
	Values map[string]interface{}

	// EntityRow 对应的实体行
	EntityRow map[string]interface{}
}

// ClientOption Feast 客户端配置选项
type ClientOption func(*ClientConfig)

// ClientConfig Feast 客户端配置
type ClientConfig struct {
	// Endpoint 服务端点
	Endpoint string

	// Project 项目名称
	Project string

	// Timeout 请求超时时间
	Timeout time.Duration

	// Auth 认证配置（可选）
	Auth *AuthConfig
}

// AuthConfig 认证配置
type AuthConfig struct {
	// Type 认证类型，目前支持 "static"（静态 Token）
	Type string

	// Token 静态 Token
	Token string
}
