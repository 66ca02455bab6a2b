// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"gamertales-api/internal/domain/entity"
)

// CreateChapterRequest 创建章节请求
type CreateChapterRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// RenameChapterRequest 重命名章节请求
type RenameChapterRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// UpdateChapterRequest 更新章节请求，字段均可选
//
// Content 为显式整章保存，绕过编辑器事件的防抖窗口。
type UpdateChapterRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=255"`
	Content *string `json:"content"`
}

// ChapterResponse 章节响应
type ChapterResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content,omitempty"`
	WordCount int       `json:"word_count"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChapterSummaryResponse 章节列表项，不含正文
type ChapterSummaryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	WordCount int       `json:"word_count"`
	SortOrder int       `json:"sort_order"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChapterListResponse 章节列表响应
type ChapterListResponse struct {
	Chapters []*ChapterSummaryResponse `json:"chapters"`
}

// ToChapterResponse 将领域实体转换为响应 DTO
func ToChapterResponse(c *entity.Chapter) *ChapterResponse {
	if c == nil {
		return nil
	}
	return &ChapterResponse{
		ID:        c.ID,
		Name:      c.Name,
		Content:   c.Content,
		WordCount: c.WordCount,
		SortOrder: c.SortOrder,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToChapterListResponse 将领域实体列表转换为响应 DTO
func ToChapterListResponse(chapters []*entity.Chapter) *ChapterListResponse {
	resp := &ChapterListResponse{
		Chapters: make([]*ChapterSummaryResponse, 0, len(chapters)),
	}
	for _, c := range chapters {
		resp.Chapters = append(resp.Chapters, &ChapterSummaryResponse{
			ID:        c.ID,
			Name:      c.Name,
			WordCount: c.WordCount,
			SortOrder: c.SortOrder,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return resp
}
