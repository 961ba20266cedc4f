package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeBlockReminder delivers a notification for an upcoming time block
	JobTypeBlockReminder JobType = "block_reminder"
)

// DefaultMaxRetries bounds redelivery before a job is dead-lettered
const DefaultMaxRetries = 3

// Job represents a job in the queue
type Job struct {
	ID         uuid.UUID       `json:"id"`
	Type       JobType         `json:"type"`
	UserID     string          `json:"user_id"`
	BlockID    string          `json:"block_id,omitempty"`
	NotBefore  *time.Time      `json:"not_before,omitempty"` // nil = immediate
	NotAfter   *time.Time      `json:"not_after,omitempty"`  // nil = no expiration
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	RetryCount int             `json:"retry_count"`
	MaxRetries int             `json:"max_retries"`
	// TraceContext carries the W3C trace headers of the request that scheduled the job
	TraceContext map[string]string `json:"trace_context,omitempty"`
}

// NewJob creates a new job
func NewJob(jobType JobType, userID string) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		UserID:     userID,
		CreatedAt:  time.Now(),
		MaxRetries: DefaultMaxRetries,
	}
}

// ShouldProcess checks if the job should be processed now
func (j *Job) ShouldProcess() bool {
	return j.ShouldProcessAt(time.Now())
}

// ShouldProcessAt checks the job's window against the given instant
func (j *Job) ShouldProcessAt(now time.Time) bool {
	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}
	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}
	return true
}

// IsExpired checks if the job has expired
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}
	return time.Now().After(*j.NotAfter)
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}

// SetPayload encodes v as the job payload
func (j *Job) SetPayload(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	j.Payload = raw
	return nil
}

// DecodePayload decodes the job payload into v
func (j *Job) DecodePayload(v any) error {
	return json.Unmarshal(j.Payload, v)
}
