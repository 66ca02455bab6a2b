// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"gamertales-api/internal/domain/entity"
)

// ChapterRepository 章节仓储实现
type ChapterRepository struct {
	client *Client
}

// NewChapterRepository 创建章节仓储
func NewChapterRepository(client *Client) *ChapterRepository {
	return &ChapterRepository{client: client}
}

// Create 创建章节
func (r *ChapterRepository) Create(ctx context.Context, chapter *entity.Chapter) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(chapter).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create chapter: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取章节
func (r *ChapterRepository) GetByID(ctx context.Context, id string) (*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var chapter entity.Chapter
	if err := db.First(&chapter, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return &chapter, nil
}

// Update 更新章节
func (r *ChapterRepository) Update(ctx context.Context, chapter *entity.Chapter) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(chapter).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update chapter: %w", err)
	}
	return nil
}

// Delete 删除章节
func (r *ChapterRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Chapter{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete chapter: %w", err)
	}
	return nil
}

// ListByUser 获取用户章节列表（按 sort_order 排序）
func (r *ChapterRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var chapters []*entity.Chapter
	if err := db.Where("user_id = ?", userID).
		Order("sort_order ASC").
		Find(&chapters).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	return chapters, nil
}

// CountByUser 统计用户章节数
func (r *ChapterRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.CountByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int64
	if err := db.Model(&entity.Chapter{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count chapters: %w", err)
	}
	return count, nil
}

// UpdateContent 更新章节内容及字数
func (r *ChapterRepository) UpdateContent(ctx context.Context, id, content string, wordCount int) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.UpdateContent")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.Chapter{}).Where("id = ?", id).Updates(map[string]interface{}{
		"content":    content,
		"word_count": wordCount,
	}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update chapter content: %w", err)
	}
	return nil
}

// UpdateName 重命名章节
func (r *ChapterRepository) UpdateName(ctx context.Context, id, name string) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.UpdateName")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.Chapter{}).Where("id = ?", id).Update("name", name).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update chapter name: %w", err)
	}
	return nil
}

// NextSortOrder 获取下一个排序号
func (r *ChapterRepository) NextSortOrder(ctx context.Context, userID string) (int, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.NextSortOrder")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var maxOrder *int
	err := db.Model(&entity.Chapter{}).
		Where("user_id = ?", userID).
		Select("MAX(sort_order)").
		Scan(&maxOrder).Error
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to get max sort order: %w", err)
	}

	if maxOrder == nil {
		return 0, nil
	}
	return *maxOrder + 1, nil
}

// TotalWordCount 统计用户所有章节的总字数
func (r *ChapterRepository) TotalWordCount(ctx context.Context, userID string) (int, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.TotalWordCount")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var total *int
	err := db.Model(&entity.Chapter{}).
		Where("user_id = ?", userID).
		Select("SUM(word_count)").
		Scan(&total).Error
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to sum word counts: %w", err)
	}

	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// MaxWordCount 获取用户单章最大字数
func (r *ChapterRepository) MaxWordCount(ctx context.Context, userID string) (int, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.MaxWordCount")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var maxWords *int
	err := db.Model(&entity.Chapter{}).
		Where("user_id = ?", userID).
		Select("MAX(word_count)").
		Scan(&maxWords).Error
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to get max word count: %w", err)
	}

	if maxWords == nil {
		return 0, nil
	}
	return *maxWords, nil
}
