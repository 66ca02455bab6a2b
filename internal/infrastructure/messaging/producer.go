// Package messaging 提供消息队列实现
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gamertales-api/internal/gamification"
)

var tracer = otel.Tracer("messaging")

// Producer 通知生产者
type Producer struct {
	client *redis.Client
	maxLen int64
}

// NewProducer 创建通知生产者
func NewProducer(client *redis.Client, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 1000
	}
	return &Producer{
		client: client,
		maxLen: maxLen,
	}
}

// Publish 向用户通知流发布一条通知
func (p *Producer) Publish(ctx context.Context, n *Notification) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("notification.user_id", n.UserID),
			attribute.String("notification.kind", string(n.Kind)),
		))
	defer span.End()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	data, err := json.Marshal(n)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal notification: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: UserStream(n.UserID),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to publish notification: %w", err)
	}

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// Notify 实现 gamification.Notifier
func (p *Producer) Notify(ctx context.Context, userID string, reward gamification.Reward) error {
	_, err := p.Publish(ctx, &Notification{
		UserID:  userID,
		Kind:    NotificationKind(reward.Kind),
		Title:   reward.Title,
		Message: reward.Message,
	})
	return err
}

// NotifyError 实现 suggestion.ErrorNotifier
func (p *Producer) NotifyError(ctx context.Context, userID, message string) error {
	_, err := p.Publish(ctx, &Notification{
		UserID:  userID,
		Kind:    KindError,
		Title:   "Suggestion Failed",
		Message: message,
	})
	return err
}
