// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"gamertales-api/internal/domain/entity"
)

// ChapterRepository 章节仓储接口
type ChapterRepository interface {
	// Create 创建章节
	Create(ctx context.Context, chapter *entity.Chapter) error

	// GetByID 根据 ID 获取章节
	GetByID(ctx context.Context, id string) (*entity.Chapter, error)

	// Update 更新章节
	Update(ctx context.Context, chapter *entity.Chapter) error

	// Delete 删除章节
	Delete(ctx context.Context, id string) error

	// ListByUser 获取用户章节列表（按 sort_order 排序）
	ListByUser(ctx context.Context, userID string) ([]*entity.Chapter, error)

	// CountByUser 统计用户章节数
	CountByUser(ctx context.Context, userID string) (int64, error)

	// UpdateContent 更新章节内容及字数
	UpdateContent(ctx context.Context, id, content string, wordCount int) error

	// UpdateName 重命名章节
	UpdateName(ctx context.Context, id, name string) error

	// NextSortOrder 获取下一个排序号
	NextSortOrder(ctx context.Context, userID string) (int, error)

	// TotalWordCount 统计用户所有章节的总字数
	TotalWordCount(ctx context.Context, userID string) (int, error)

	// MaxWordCount 获取用户单章最大字数
	MaxWordCount(ctx context.Context, userID string) (int, error)
}
