package queue

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrQueueClosed is returned when enqueueing onto a closed queue
var ErrQueueClosed = errors.New("queue closed")

// MemoryQueue is an in-process JobQueue. Delayed jobs are held on a timer
// until NotBefore; dead-lettered jobs are kept for inspection.
type MemoryQueue struct {
	mu       sync.Mutex
	ready    chan *Job
	inflight map[uint64]*Job
	dead     []*Job
	timers   map[*time.Timer]struct{}
	nextTag  uint64
	closed   bool
}

// NewMemoryQueue creates an in-process queue holding up to capacity ready jobs
func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = 64
	}
	return &MemoryQueue{
		ready:    make(chan *Job, capacity),
		inflight: make(map[uint64]*Job),
		timers:   make(map[*time.Timer]struct{}),
	}
}

// Enqueue adds a job, deferring delivery until NotBefore
func (q *MemoryQueue) Enqueue(ctx context.Context, job *Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}

	if job.NotBefore != nil {
		if delay := time.Until(*job.NotBefore); delay > 0 {
			var t *time.Timer
			t = time.AfterFunc(delay, func() {
				q.mu.Lock()
				delete(q.timers, t)
				q.mu.Unlock()
				_ = q.push(context.Background(), job)
			})
			q.timers[t] = struct{}{}
			return nil
		}
	}

	select {
	case q.ready <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) push(ctx context.Context, job *Job) error {
	q.mu.Lock()
	closed := q.closed
	q.mu.Unlock()
	if closed {
		return ErrQueueClosed
	}
	select {
	case q.ready <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume delivers ready jobs until ctx is cancelled
func (q *MemoryQueue) Consume(ctx context.Context, prefetchCount int) (<-chan *Message, <-chan error, error) {
	msgChan := make(chan *Message, max(prefetchCount, 1))
	errChan := make(chan error, 1)

	go func() {
		defer close(msgChan)
		defer close(errChan)
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-q.ready:
				if !ok {
					return
				}
				if job.IsExpired() {
					continue
				}
				q.mu.Lock()
				q.nextTag++
				tag := q.nextTag
				q.inflight[tag] = job
				q.mu.Unlock()

				select {
				case msgChan <- &Message{Job: job, DeliveryTag: tag, Channel: q}:
				case <-ctx.Done():
					go func() { _ = q.Nack(tag, false, true) }()
					return
				}
			}
		}
	}()

	return msgChan, errChan, nil
}

// Ack settles an in-flight delivery
func (q *MemoryQueue) Ack(tag uint64, _ bool) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.inflight[tag]; !ok {
		return errors.New("unknown delivery tag")
	}
	delete(q.inflight, tag)
	return nil
}

// Nack returns an in-flight delivery to the queue or dead-letters it
func (q *MemoryQueue) Nack(tag uint64, _ bool, requeue bool) error {
	q.mu.Lock()
	job, ok := q.inflight[tag]
	if !ok {
		q.mu.Unlock()
		return errors.New("unknown delivery tag")
	}
	delete(q.inflight, tag)
	if !requeue {
		q.dead = append(q.dead, job)
		q.mu.Unlock()
		return nil
	}
	q.mu.Unlock()
	return q.push(context.Background(), job)
}

// DeadLetters returns a snapshot of dead-lettered jobs
func (q *MemoryQueue) DeadLetters() []*Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*Job, len(q.dead))
	copy(out, q.dead)
	return out
}

// Pending reports jobs waiting on their NotBefore timer
func (q *MemoryQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.timers)
}

// PurgeOlderThan drops dead letters created before now-retention
func (q *MemoryQueue) PurgeOlderThan(_ context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().Add(-retention)
	q.mu.Lock()
	defer q.mu.Unlock()
	kept := q.dead[:0]
	purged := 0
	for _, job := range q.dead {
		if job.CreatedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, job)
	}
	q.dead = kept
	return purged, nil
}

// HealthCheck reports whether the queue is open
func (q *MemoryQueue) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	return nil
}

// Close stops pending timers and rejects further jobs
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	for t := range q.timers {
		t.Stop()
	}
	clear(q.timers)
	return nil
}
