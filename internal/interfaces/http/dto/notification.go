// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"gamertales-api/internal/infrastructure/messaging"
)

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListResponse 通知列表响应
type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
}

// ToNotificationListResponse 将通知列表转换为响应 DTO
func ToNotificationListResponse(items []*messaging.Notification) *NotificationListResponse {
	resp := &NotificationListResponse{
		Notifications: make([]*NotificationResponse, 0, len(items)),
	}
	for _, n := range items {
		resp.Notifications = append(resp.Notifications, &NotificationResponse{
			ID:        n.ID,
			Kind:      string(n.Kind),
			Title:     n.Title,
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		})
	}
	return resp
}
