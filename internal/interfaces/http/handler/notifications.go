// Package handler 提供 HTTP 请求处理器
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"gamertales-api/internal/infrastructure/messaging"
	"gamertales-api/internal/interfaces/http/dto"
	"gamertales-api/pkg/logger"
)

// NotificationHandler 通知处理器
type NotificationHandler struct {
	feed *messaging.Feed
}

// NewNotificationHandler 创建通知处理器
func NewNotificationHandler(feed *messaging.Feed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// ListNotifications 获取最近的通知，新的在前
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	ctx := c.Request.Context()

	limit := int64(20)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 || n > 100 {
			dto.BadRequest(c, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	items, err := h.feed.Recent(ctx, currentUserID(c), limit)
	if err != nil {
		logger.Error(ctx, "failed to read notifications", err)
		dto.InternalError(c, "failed to load notifications")
		return
	}

	dto.Success(c, dto.ToNotificationListResponse(items))
}
