package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/benvon/replan/internal/models"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "replan"

// RedisStore keeps records as JSON strings in Redis with a per-user sorted
// set of plan dates for range queries
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store on an existing client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func profileKey(userID string) string {
	return fmt.Sprintf("%s:profile:%s", redisKeyPrefix, userID)
}

func planKey(userID, date string) string {
	return fmt.Sprintf("%s:plan:%s:%s", redisKeyPrefix, userID, date)
}

func planIndexKey(userID string) string {
	return fmt.Sprintf("%s:plans:%s", redisKeyPrefix, userID)
}

// dateScore maps YYYY-MM-DD to an order-preserving integer
func dateScore(date string) float64 {
	n, _ := strconv.Atoi(strings.ReplaceAll(date, "-", ""))
	return float64(n)
}

func (s *RedisStore) LoadProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	raw, err := s.client.Get(ctx, profileKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	var p models.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, nil
}

func (s *RedisStore) SaveProfile(ctx context.Context, userID string, profile *models.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := s.client.Set(ctx, profileKey(userID), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteProfile(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, profileKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadPlan(ctx context.Context, userID, date string) (*models.DailyPlan, error) {
	raw, err := s.client.Get(ctx, planKey(userID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	var p models.DailyPlan
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	return &p, nil
}

func (s *RedisStore) SavePlan(ctx context.Context, userID, date string, plan *models.DailyPlan) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, planKey(userID, date), raw, 0)
		pipe.ZAdd(ctx, planIndexKey(userID), redis.Z{Score: dateScore(date), Member: date})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

func (s *RedisStore) ListPlans(ctx context.Context, userID, from, to string) ([]models.PlanSummary, error) {
	dates, err := s.client.ZRangeByScore(ctx, planIndexKey(userID), &redis.ZRangeBy{
		Min: strconv.FormatFloat(dateScore(from), 'f', 0, 64),
		Max: strconv.FormatFloat(dateScore(to), 'f', 0, 64),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list plan dates: %w", err)
	}
	out := make([]models.PlanSummary, 0, len(dates))
	if len(dates) == 0 {
		return out, nil
	}

	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = planKey(userID, d)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load plans: %w", err)
	}
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// index entry without a record
			continue
		}
		var p models.DailyPlan
		if err := json.Unmarshal([]byte(str), &p); err != nil {
			return nil, fmt.Errorf("failed to decode plan %s: %w", dates[i], err)
		}
		out = append(out, models.PlanSummary{Date: dates[i], Plan: &p})
	}
	return out, nil
}

// Ping checks Redis connectivity
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
