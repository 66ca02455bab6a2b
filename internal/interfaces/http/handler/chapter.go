// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"gamertales-api/internal/domain/entity"
	"gamertales-api/internal/domain/repository"
	"gamertales-api/internal/gamification"
	"gamertales-api/internal/interfaces/http/dto"
	"gamertales-api/internal/suggestion"
	"gamertales-api/internal/writing"
	apperrors "gamertales-api/pkg/errors"
	"gamertales-api/pkg/logger"
)

// StatsInvalidator 写作统计缓存失效能力
// redis.Cache 天然满足
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context, userID string) error
}

// ChapterHandler 章节处理器
type ChapterHandler struct {
	chapterRepo repository.ChapterRepository
	sessions    *suggestion.Manager
	scheduler   *gamification.Scheduler
	cache       StatsInvalidator
}

// NewChapterHandler 创建章节处理器
func NewChapterHandler(
	chapterRepo repository.ChapterRepository,
	sessions *suggestion.Manager,
	scheduler *gamification.Scheduler,
	cache StatsInvalidator,
) *ChapterHandler {
	return &ChapterHandler{
		chapterRepo: chapterRepo,
		sessions:    sessions,
		scheduler:   scheduler,
		cache:       cache,
	}
}

// ListChapters 获取章节列表
//
// 用户没有任何章节时自动补一章，保证永远有可写入的章节。
func (h *ChapterHandler) ListChapters(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	chapters, err := h.chapterRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.Error(ctx, "failed to list chapters", err)
		dto.InternalError(c, "failed to list chapters")
		return
	}

	if len(chapters) == 0 {
		first := entity.NewFirstChapter(userID)
		if err := h.chapterRepo.Create(ctx, first); err != nil {
			logger.Error(ctx, "failed to create first chapter", err)
			dto.InternalError(c, "failed to list chapters")
			return
		}
		chapters = append(chapters, first)
	}

	dto.Success(c, dto.ToChapterListResponse(chapters))
}

// CreateChapter 创建章节
func (h *ChapterHandler) CreateChapter(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	var req dto.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sortOrder, err := h.chapterRepo.NextSortOrder(ctx, userID)
	if err != nil {
		logger.Error(ctx, "failed to get next sort order", err)
		dto.InternalError(c, "failed to create chapter")
		return
	}

	chapter := entity.NewChapter(userID, req.Name, sortOrder)
	if err := h.chapterRepo.Create(ctx, chapter); err != nil {
		logger.Error(ctx, "failed to create chapter", err)
		dto.InternalError(c, "failed to create chapter")
		return
	}

	dto.Created(c, dto.ToChapterResponse(chapter))
}

// GetChapter 获取章节详情（含正文）
func (h *ChapterHandler) GetChapter(c *gin.Context) {
	ctx := c.Request.Context()

	chapter, err := loadOwnedChapter(ctx, h.chapterRepo, currentUserID(c), c.Param("cid"))
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.ToChapterResponse(chapter))
}

// RenameChapter 重命名章节
func (h *ChapterHandler) RenameChapter(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RenameChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	chapter, err := loadOwnedChapter(ctx, h.chapterRepo, currentUserID(c), c.Param("cid"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.chapterRepo.UpdateName(ctx, chapter.ID, req.Name); err != nil {
		logger.Error(ctx, "failed to rename chapter", err, "chapter_id", chapter.ID)
		dto.InternalError(c, "failed to rename chapter")
		return
	}
	chapter.Rename(req.Name)

	dto.Success(c, dto.ToChapterResponse(chapter))
}

// UpdateChapter 更新章节（名称与/或正文的显式保存）
//
// 正文保存绕过编辑器事件的防抖窗口，字数由服务端重算。
func (h *ChapterHandler) UpdateChapter(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	var req dto.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Name == nil && req.Content == nil {
		dto.BadRequest(c, "nothing to update")
		return
	}

	chapter, err := loadOwnedChapter(ctx, h.chapterRepo, userID, c.Param("cid"))
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Name != nil {
		if err := h.chapterRepo.UpdateName(ctx, chapter.ID, *req.Name); err != nil {
			logger.Error(ctx, "failed to rename chapter", err, "chapter_id", chapter.ID)
			dto.InternalError(c, "failed to update chapter")
			return
		}
		chapter.Rename(*req.Name)
	}

	if req.Content != nil {
		wordCount := writing.CountContentWords(*req.Content)
		if err := h.chapterRepo.UpdateContent(ctx, chapter.ID, *req.Content, wordCount); err != nil {
			logger.Error(ctx, "failed to save chapter content", err, "chapter_id", chapter.ID)
			dto.InternalError(c, "failed to update chapter")
			return
		}
		chapter.SetContent(*req.Content, wordCount)

		h.scheduler.WordsChanged(userID)
		if err := h.cache.InvalidateStats(ctx, userID); err != nil {
			logger.Warn(ctx, "failed to invalidate stats cache", "error", err.Error())
		}
	}

	dto.Success(c, dto.ToChapterResponse(chapter))
}

// DeleteChapter 删除章节
//
// 最后一章不可删除；删除会拆除绑定在该章上的建议会话，
// 并触发一次游戏化重算（总字数可能回落，但 XP 不会扣减）。
func (h *ChapterHandler) DeleteChapter(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	chapter, err := loadOwnedChapter(ctx, h.chapterRepo, userID, c.Param("cid"))
	if err != nil {
		respondError(c, err)
		return
	}

	count, err := h.chapterRepo.CountByUser(ctx, userID)
	if err != nil {
		logger.Error(ctx, "failed to count chapters", err)
		dto.InternalError(c, "failed to delete chapter")
		return
	}
	if count <= 1 {
		respondError(c, apperrors.ErrLastChapter)
		return
	}

	if err := h.chapterRepo.Delete(ctx, chapter.ID); err != nil {
		logger.Error(ctx, "failed to delete chapter", err, "chapter_id", chapter.ID)
		dto.InternalError(c, "failed to delete chapter")
		return
	}

	// 绑定在该章上的会话随章节一起拆除
	if _, ok := h.sessions.Peek(userID, chapter.ID); ok {
		h.sessions.Close(userID)
	}

	h.scheduler.WordsChanged(userID)
	if err := h.cache.InvalidateStats(ctx, userID); err != nil {
		logger.Warn(ctx, "failed to invalidate stats cache", "error", err.Error())
	}

	dto.NoContent(c)
}
