// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"gamertales-api/internal/domain/entity"
	"gamertales-api/internal/domain/repository"
	"gamertales-api/internal/interfaces/http/dto"
	apperrors "gamertales-api/pkg/errors"
)

// currentUserID 从认证中间件注入的 Context 中取当前用户 ID
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// respondError 将应用错误映射为统一的错误响应
func respondError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)

	var detail *dto.ErrorDetail
	if appErr.Detail != "" {
		detail = &dto.ErrorDetail{
			ErrorCode: string(appErr.Code),
			Details:   appErr.Detail,
		}
	}

	dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, detail)
}

// loadOwnedChapter 加载章节并校验归属，他人章节一律按不存在处理
func loadOwnedChapter(ctx context.Context, repo repository.ChapterRepository, userID, chapterID string) (*entity.Chapter, error) {
	chapter, err := repo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter == nil || chapter.UserID != userID {
		return nil, apperrors.ErrChapterNotFound
	}
	return chapter, nil
}
