// Package messaging 提供基于 Redis Stream 的用户通知队列
package messaging

import (
	"fmt"
	"time"
)

// NotificationKind 通知类型
type NotificationKind string

const (
	// KindLevelUp 升级奖励
	KindLevelUp NotificationKind = "level_up"
	// KindAchievement 成就解锁
	KindAchievement NotificationKind = "achievement"
	// KindError 可恢复错误（建议失败、保存失败）
	KindError NotificationKind = "error"
	// KindInfo 一般提示
	KindInfo NotificationKind = "info"
)

// Notification 通知消息
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
}

// UserStream 用户通知流名称
func UserStream(userID string) string {
	return fmt.Sprintf("stream:notify:%s", userID)
}
