package notify

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/queue"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingPublisher struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (r *recordingPublisher) Publish(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingPublisher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func TestForBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block models.TimeBlock
		title string
		body  string
	}{
		{
			name: "with todos",
			block: models.TimeBlock{ID: "work-morning", Label: "Morning work", Todos: []models.TodoItem{
				{ID: "a", Text: "Report"}, {ID: "b", Text: "  "}, {ID: "c", Text: "Email"},
			}},
			title: "📋 Morning work",
			body:  "To do: Report, Email",
		},
		{
			name:  "only placeholder",
			block: models.TimeBlock{ID: "lunch", Label: "Lunch", Todos: []models.TodoItem{{ID: "todo-1"}}},
			title: "📋 Lunch",
			body:  "It's time!",
		},
		{
			name:  "no todos",
			block: models.TimeBlock{ID: "free", Label: "Free time"},
			title: "📋 Free time",
			body:  "It's time!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n := ForBlock("user-1", tt.block)
			if n.Title != tt.title || n.Body != tt.body {
				t.Errorf("ForBlock() = %q / %q, want %q / %q", n.Title, n.Body, tt.title, tt.body)
			}
			if n.UserID != "user-1" || n.BlockID != tt.block.ID {
				t.Errorf("Unexpected addressing %+v", n)
			}
		})
	}
}

func TestParsePermission(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Permission
		wantErr bool
	}{
		{in: "granted", want: PermissionGranted},
		{in: " Denied ", want: PermissionDenied},
		{in: "default", want: PermissionDefault},
		{in: "maybe", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParsePermission(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePermission(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePermission(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMemoryPermissions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	perms := NewMemoryPermissions()

	if p, _ := perms.Get(ctx, "u"); p != PermissionDefault {
		t.Errorf("Expected default permission, got %q", p)
	}
	if err := perms.Set(ctx, "u", PermissionGranted); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if p, _ := perms.Get(ctx, "u"); p != PermissionGranted {
		t.Errorf("Expected granted, got %q", p)
	}
	if err := perms.Set(ctx, "u", Permission("bogus")); !errors.Is(err, ErrInvalidPermission) {
		t.Errorf("Expected ErrInvalidPermission, got %v", err)
	}
}

func TestGated_Show(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	n := Notification{UserID: "u", BlockID: "b", Title: "📋 Lunch", Body: "It's time!"}

	tests := []struct {
		name string
		perm Permission
		want int
	}{
		{name: "granted delivers", perm: PermissionGranted, want: 1},
		{name: "denied suppresses", perm: PermissionDenied, want: 0},
		{name: "default suppresses", perm: PermissionDefault, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			perms := NewMemoryPermissions()
			_ = perms.Set(ctx, "u", tt.perm)
			pub := &recordingPublisher{}
			g := NewGated(perms, pub, nil)

			g.Show(ctx, n)
			if pub.count() != tt.want {
				t.Errorf("Expected %d deliveries, got %d", tt.want, pub.count())
			}
			got, err := g.RequestPermission(ctx, "u")
			if err != nil || got != tt.perm {
				t.Errorf("RequestPermission() = %q, %v", got, err)
			}
		})
	}
}

func TestGated_ShowLogsPublishFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	core, logs := observer.New(zap.ErrorLevel)
	perms := NewMemoryPermissions()
	_ = perms.Set(ctx, "u", PermissionGranted)
	g := NewGated(perms, &recordingPublisher{err: errors.New("down")}, zap.New(core))

	g.Show(ctx, Notification{UserID: "u", BlockID: "b"})

	if logs.FilterMessage("notification_publish_failed").Len() != 1 {
		t.Errorf("Expected publish failure to be logged, got %v", logs.All())
	}
}

func TestFanout(t *testing.T) {
	t.Parallel()

	ok := &recordingPublisher{}
	failing := &recordingPublisher{err: errors.New("boom")}
	err := Fanout{ok, failing}.Publish(context.Background(), Notification{UserID: "u"})
	if err == nil {
		t.Error("Expected joined error")
	}
	if ok.count() != 1 || failing.count() != 1 {
		t.Error("Expected every publisher to be called")
	}
}

func TestQueueNotifier(t *testing.T) {
	t.Parallel()

	q := queue.NewMemoryQueue(2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	msgs, _, _ := q.Consume(ctx, 1)

	n := Notification{UserID: "u", BlockID: "work-morning", Title: "📋 Morning work", Body: "To do: Report"}
	if err := NewQueueNotifier(q).Publish(ctx, n); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case msg := <-msgs:
		job := msg.GetJob()
		if job.Type != queue.JobTypeBlockReminder || job.UserID != "u" || job.BlockID != "work-morning" {
			t.Errorf("Unexpected job %+v", job)
		}
		if job.NotAfter == nil {
			t.Error("Expected reminder to expire")
		}
		var got Notification
		if err := job.DecodePayload(&got); err != nil || got != n {
			t.Errorf("Payload = %+v, %v", got, err)
		}
		_ = msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for job")
	}
}

func TestLogNotifier(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	if err := NewLogNotifier(zap.New(core)).Publish(context.Background(), Notification{UserID: "u", Title: "t"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if logs.FilterMessage("notification_shown").Len() != 1 {
		t.Error("Expected notification to be logged")
	}
}

func TestRedisIntegration(t *testing.T) {
	url := os.Getenv("REPLAN_TEST_REDIS_URL")
	if url == "" {
		t.Skip("REPLAN_TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}
	client := redis.NewClient(opts)
	defer client.Close()
	ctx := context.Background()

	perms := NewRedisPermissions(client)
	user := "it-" + time.Now().Format("150405.000000")
	defer client.HDel(ctx, permissionKey, user)

	if p, err := perms.Get(ctx, user); err != nil || p != PermissionDefault {
		t.Fatalf("Get() = %q, %v", p, err)
	}
	if err := perms.Set(ctx, user, PermissionGranted); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if p, _ := perms.Get(ctx, user); p != PermissionGranted {
		t.Errorf("Expected granted, got %q", p)
	}

	sub := client.Subscribe(ctx, ChannelFor(user))
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := NewPubSubNotifier(client).Publish(ctx, Notification{UserID: user, Title: "📋 Lunch"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case msg := <-sub.Channel():
		if msg.Channel != ChannelFor(user) {
			t.Errorf("Unexpected channel %s", msg.Channel)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for pub/sub message")
	}
}
