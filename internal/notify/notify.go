// Package notify delivers block reminders to users who granted permission.
package notify

import (
	"context"
	"errors"
	"strings"

	logpkg "github.com/benvon/replan/internal/logger"
	"github.com/benvon/replan/internal/models"
	"go.uber.org/zap"
)

// Permission is the user's recorded decision about reminders
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// ErrInvalidPermission is returned for an unknown permission value
var ErrInvalidPermission = errors.New("invalid notification permission")

// ParsePermission validates a client-reported permission
func ParsePermission(s string) (Permission, error) {
	switch p := Permission(strings.ToLower(strings.TrimSpace(s))); p {
	case PermissionGranted, PermissionDenied, PermissionDefault:
		return p, nil
	default:
		return "", ErrInvalidPermission
	}
}

// Notification is one reminder addressed to a user
type Notification struct {
	UserID      string `json:"userId"`
	BlockID     string `json:"blockId"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	ActivateURL string `json:"activateUrl,omitempty"`
}

// ForBlock builds the reminder shown for a time block
func ForBlock(userID string, block models.TimeBlock) Notification {
	var texts []string
	for _, todo := range block.Todos {
		if t := strings.TrimSpace(todo.Text); t != "" {
			texts = append(texts, t)
		}
	}
	body := "It's time!"
	if len(texts) > 0 {
		body = "To do: " + strings.Join(texts, ", ")
	}
	return Notification{
		UserID:  userID,
		BlockID: block.ID,
		Title:   "📋 " + block.Label,
		Body:    body,
	}
}

// Notifier asks for permission and shows reminders
type Notifier interface {
	RequestPermission(ctx context.Context, userID string) (Permission, error)
	Show(ctx context.Context, n Notification)
}

// Publisher hands a notification to a delivery channel
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
}

// Gated is a Notifier that publishes only for users who granted permission
type Gated struct {
	perms     PermissionRegistry
	publisher Publisher
	logger    *zap.Logger
}

// NewGated creates a permission-gated notifier
func NewGated(perms PermissionRegistry, publisher Publisher, logger *zap.Logger) *Gated {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gated{perms: perms, publisher: publisher, logger: logger}
}

// RequestPermission returns the user's recorded permission
func (g *Gated) RequestPermission(ctx context.Context, userID string) (Permission, error) {
	return g.perms.Get(ctx, userID)
}

// Show publishes n when permission is granted. Failures are logged.
func (g *Gated) Show(ctx context.Context, n Notification) {
	perm, err := g.perms.Get(ctx, n.UserID)
	if err != nil {
		g.logger.Warn("notification_permission_lookup_failed",
			zap.String("user_id", logpkg.SanitizeUserID(n.UserID)),
			zap.Error(err),
		)
		return
	}
	if perm != PermissionGranted {
		g.logger.Debug("notification_suppressed",
			zap.String("user_id", logpkg.SanitizeUserID(n.UserID)),
			zap.String("permission", string(perm)),
		)
		return
	}
	if err := g.publisher.Publish(ctx, n); err != nil {
		g.logger.Error("notification_publish_failed",
			zap.String("user_id", logpkg.SanitizeUserID(n.UserID)),
			zap.String("block_id", n.BlockID),
			zap.Error(err),
		)
	}
}

// Fanout publishes to every publisher and joins their errors
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, n Notification) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
