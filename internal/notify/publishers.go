package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	logpkg "github.com/benvon/replan/internal/logger"
	"github.com/benvon/replan/internal/queue"
	"github.com/benvon/replan/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ReminderTTL bounds how late a queued reminder may still be delivered
const ReminderTTL = 15 * time.Minute

// ChannelFor returns the Redis pub/sub channel carrying a user's reminders
func ChannelFor(userID string) string {
	return "replan:notifications:" + userID
}

// QueueNotifier hands reminders to the job queue for the worker to deliver
type QueueNotifier struct {
	queue queue.JobQueue
}

func NewQueueNotifier(q queue.JobQueue) *QueueNotifier {
	return &QueueNotifier{queue: q}
}

func (q *QueueNotifier) Publish(ctx context.Context, n Notification) error {
	job := queue.NewJob(queue.JobTypeBlockReminder, n.UserID)
	job.BlockID = n.BlockID
	job.TraceContext = telemetry.Inject(ctx)
	notAfter := job.CreatedAt.Add(ReminderTTL)
	job.NotAfter = &notAfter
	if err := job.SetPayload(n); err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := q.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}

// PubSubNotifier publishes reminders on the user's Redis channel
type PubSubNotifier struct {
	client *redis.Client
}

func NewPubSubNotifier(client *redis.Client) *PubSubNotifier {
	return &PubSubNotifier{client: client}
}

func (p *PubSubNotifier) Publish(ctx context.Context, n Notification) error {
	raw, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, ChannelFor(n.UserID), raw).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// LogNotifier writes reminders to the structured log
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Publish(_ context.Context, n Notification) error {
	l.logger.Info("notification_shown",
		zap.String("user_id", logpkg.SanitizeUserID(n.UserID)),
		zap.String("block_id", n.BlockID),
		zap.String("title", logpkg.SanitizeTitle(n.Title)),
		zap.String("body", logpkg.SanitizeTitle(n.Body)),
	)
	return nil
}
