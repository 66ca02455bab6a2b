// Package suggestion 实现词数触发的 AI 续写建议循环
package suggestion

import (
	"context"

	"gamertales-api/internal/domain/entity"
)

// Request 一次建议请求
type Request struct {
	// Content 章节纯文本内容
	Content string
	// Profile 玩家档案，用于个性化提示词（可为 nil）
	Profile *entity.GamerProfile
}

// Provider 续写建议提供方
type Provider interface {
	// Suggest 返回候选续写句，至少一条；空结果由调用方按失败处理
	Suggest(ctx context.Context, req Request) ([]string, error)
}

// ErrorNotifier 面向用户的错误通知出口
type ErrorNotifier interface {
	NotifyError(ctx context.Context, userID, message string) error
}
