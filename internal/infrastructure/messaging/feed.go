// Package messaging 提供消息队列实现
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Feed 通知流读取端
type Feed struct {
	client *redis.Client
}

// NewFeed 创建通知流读取端
func NewFeed(client *redis.Client) *Feed {
	return &Feed{client: client}
}

// Recent 读取用户最近的 limit 条通知，新的在前
func (f *Feed) Recent(ctx context.Context, userID string, limit int64) ([]*Notification, error) {
	ctx, span := tracer.Start(ctx, "feed.Recent",
		trace.WithAttributes(
			attribute.String("feed.user_id", userID),
			attribute.Int64("feed.limit", limit),
		))
	defer span.End()

	if limit <= 0 {
		limit = 20
	}

	entries, err := f.client.XRevRangeN(ctx, UserStream(userID), "+", "-", limit).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read notification stream: %w", err)
	}

	notifications := make([]*Notification, 0, len(entries))
	for _, entry := range entries {
		data, ok := entry.Values["data"].(string)
		if !ok {
			continue
		}
		var n Notification
		if err := json.Unmarshal([]byte(data), &n); err != nil {
			// 脏数据跳过，不中断整个读取
			continue
		}
		notifications = append(notifications, &n)
	}

	return notifications, nil
}
