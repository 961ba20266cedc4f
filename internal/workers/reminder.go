package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	logpkg "github.com/benvon/replan/internal/logger"
	"github.com/benvon/replan/internal/notify"
	"github.com/benvon/replan/internal/queue"
	"github.com/benvon/replan/internal/telemetry"
	"go.uber.org/zap"
)

// maxRetryDelay caps the exponential backoff between delivery attempts
const maxRetryDelay = time.Minute

// ReminderDispatcher delivers block_reminder jobs to the notification publishers
type ReminderDispatcher struct {
	publisher notify.Publisher
	jobQueue  queue.JobQueue // for re-enqueueing failed jobs with a delay
	logger    *zap.Logger
}

// NewReminderDispatcher creates a dispatcher. jobQueue may be nil, in which
// case failed jobs are requeued immediately.
func NewReminderDispatcher(publisher notify.Publisher, jobQueue queue.JobQueue, logger *zap.Logger) *ReminderDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderDispatcher{
		publisher: publisher,
		jobQueue:  jobQueue,
		logger:    logger,
	}
}

// Run processes messages until ctx is cancelled or the message channel closes
func (d *ReminderDispatcher) Run(ctx context.Context, msgs <-chan *queue.Message, errs <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			d.logger.Error("queue_error", zap.Error(err))
		case msg, ok := <-msgs:
			if !ok {
				d.logger.Info("message_channel_closed")
				return nil
			}
			if err := d.ProcessJob(ctx, msg); err != nil {
				d.logger.Error("job_failed",
					zap.Error(err),
					zap.String("job_id", msg.GetJob().ID.String()),
					zap.String("job_type", string(msg.GetJob().Type)),
				)
			}
		}
	}
}

// ProcessJob delivers one job and settles its message
func (d *ReminderDispatcher) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	if job.IsExpired() {
		d.logger.Info("reminder_expired", zap.String("job_id", job.ID.String()))
		return msg.Ack()
	}

	// Without the delayed-exchange plugin a job can arrive early
	if job.NotBefore != nil {
		if wait := time.Until(*job.NotBefore); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				_ = msg.Nack(true)
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	switch job.Type {
	case queue.JobTypeBlockReminder:
		if err := d.deliver(ctx, job); err != nil {
			return d.handleJobError(ctx, msg, job, err)
		}
		if err := msg.Ack(); err != nil {
			return fmt.Errorf("failed to ack job: %w", err)
		}
		return nil
	default:
		if nackErr := msg.Nack(false); nackErr != nil {
			d.logger.Warn("nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

var errMalformedReminder = errors.New("malformed reminder payload")

func (d *ReminderDispatcher) deliver(ctx context.Context, job *queue.Job) (err error) {
	ctx, span := telemetry.StartConsumerSpan(ctx, job.TraceContext, "worker", "reminder.deliver",
		"job.id", job.ID.String(), "block.id", job.BlockID)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	var n notify.Notification
	if err := job.DecodePayload(&n); err != nil || n.UserID == "" {
		return errMalformedReminder
	}
	if n.UserID != job.UserID {
		return fmt.Errorf("%w: user mismatch", errMalformedReminder)
	}
	if err := d.publisher.Publish(ctx, n); err != nil {
		return err
	}
	d.logger.Debug("reminder_delivered",
		zap.String("job_id", job.ID.String()),
		zap.String("user_id", logpkg.SanitizeUserID(job.UserID)),
		zap.String("block_id", job.BlockID),
	)
	return nil
}

// handleJobError retries with backoff while retries remain and dead-letters otherwise.
// A retry that cannot be re-enqueued is dead-lettered too.
func (d *ReminderDispatcher) handleJobError(ctx context.Context, msg queue.MessageInterface, job *queue.Job, err error) error {
	if errors.Is(err, errMalformedReminder) || !job.CanRetry() {
		if nackErr := msg.Nack(false); nackErr != nil {
			d.logger.Warn("nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("reminder %s dead-lettered after %d retries: %w", job.ID, job.RetryCount, err)
	}

	if d.jobQueue != nil {
		retry := *job
		retry.RetryCount++
		notBefore := time.Now().Add(RetryDelay(job.RetryCount))
		retry.NotBefore = &notBefore
		enqueueErr := d.jobQueue.Enqueue(ctx, &retry)
		if enqueueErr == nil {
			if ackErr := msg.Ack(); ackErr != nil {
				d.logger.Warn("ack_failed", zap.Error(ackErr))
			}
			d.logger.Warn("reminder_retry_scheduled",
				zap.String("job_id", job.ID.String()),
				zap.Int("attempt", retry.RetryCount),
				zap.Time("not_before", notBefore),
				zap.Error(err),
			)
			return nil
		}
		// a broker requeue would reset the retry count
		if nackErr := msg.Nack(false); nackErr != nil {
			d.logger.Warn("nack_failed", zap.Error(nackErr))
		}
		d.logger.Error("reminder_reenqueue_failed",
			zap.String("job_id", job.ID.String()),
			zap.Int("attempt", retry.RetryCount),
			zap.Error(enqueueErr),
		)
		return fmt.Errorf("reminder %s dead-lettered, re-enqueue failed: %w", job.ID, errors.Join(err, enqueueErr))
	}

	job.IncrementRetry()
	if nackErr := msg.Nack(true); nackErr != nil {
		d.logger.Warn("nack_failed", zap.Error(nackErr))
	}
	return fmt.Errorf("reminder delivery failed (will retry): %w", err)
}

// RetryDelay is the exponential backoff before attempt retry+1
func RetryDelay(retry int) time.Duration {
	delay := time.Second << min(retry, 6)
	return min(delay, maxRetryDelay)
}
