// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"gamertales-api/internal/domain/entity"
)

// GamerProfileRepository 玩家档案仓储接口
type GamerProfileRepository interface {
	// GetByUserID 根据用户 ID 获取档案
	GetByUserID(ctx context.Context, userID string) (*entity.GamerProfile, error)

	// Save 创建或更新档案（首次保存时惰性创建）
	Save(ctx context.Context, profile *entity.GamerProfile) error
}
