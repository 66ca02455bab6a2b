// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gamertales-api/internal/domain/entity"
)

// GamerProfileRepository 玩家档案仓储实现
type GamerProfileRepository struct {
	client *Client
}

// NewGamerProfileRepository 创建玩家档案仓储
func NewGamerProfileRepository(client *Client) *GamerProfileRepository {
	return &GamerProfileRepository{client: client}
}

// GetByUserID 根据用户 ID 获取档案
func (r *GamerProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.GamerProfile, error) {
	ctx, span := tracer.Start(ctx, "postgres.GamerProfileRepository.GetByUserID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var profile entity.GamerProfile
	if err := db.First(&profile, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get gamer profile: %w", err)
	}
	return &profile, nil
}

// Save 创建或更新档案（首次保存时惰性创建）
func (r *GamerProfileRepository) Save(ctx context.Context, profile *entity.GamerProfile) error {
	ctx, span := tracer.Start(ctx, "postgres.GamerProfileRepository.Save")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(profile).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save gamer profile: %w", err)
	}
	return nil
}
