package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

const permissionKey = "replan:notify:permission"

// PermissionRegistry records each user's notification permission
type PermissionRegistry interface {
	Get(ctx context.Context, userID string) (Permission, error)
	Set(ctx context.Context, userID string, p Permission) error
}

// MemoryPermissions keeps permissions in process
type MemoryPermissions struct {
	mu    sync.RWMutex
	perms map[string]Permission
}

func NewMemoryPermissions() *MemoryPermissions {
	return &MemoryPermissions{perms: make(map[string]Permission)}
}

func (m *MemoryPermissions) Get(_ context.Context, userID string) (Permission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.perms[userID]; ok {
		return p, nil
	}
	return PermissionDefault, nil
}

func (m *MemoryPermissions) Set(_ context.Context, userID string, p Permission) error {
	if _, err := ParsePermission(string(p)); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.perms[userID] = p
	return nil
}

// RedisPermissions stores permissions in a single Redis hash keyed by user
type RedisPermissions struct {
	client *redis.Client
}

func NewRedisPermissions(client *redis.Client) *RedisPermissions {
	return &RedisPermissions{client: client}
}

func (r *RedisPermissions) Get(ctx context.Context, userID string) (Permission, error) {
	v, err := r.client.HGet(ctx, permissionKey, userID).Result()
	if errors.Is(err, redis.Nil) {
		return PermissionDefault, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read permission: %w", err)
	}
	p, err := ParsePermission(v)
	if err != nil {
		return PermissionDefault, nil
	}
	return p, nil
}

func (r *RedisPermissions) Set(ctx context.Context, userID string, p Permission) error {
	if _, err := ParsePermission(string(p)); err != nil {
		return err
	}
	if err := r.client.HSet(ctx, permissionKey, userID, string(p)).Err(); err != nil {
		return fmt.Errorf("failed to record permission: %w", err)
	}
	return nil
}
