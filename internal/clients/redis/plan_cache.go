package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/types"
)

// PlanCache is a read cache in front of plan lookups. Misses and cache
// failures are always soft; the database stays the source of truth.
type PlanCache interface {
	GetPlan(ctx context.Context, planID, userID uuid.UUID) (*types.StudyPlan, bool)
	SetPlan(ctx context.Context, plan *types.StudyPlan)
	InvalidatePlan(ctx context.Context, planID, userID uuid.UUID)
	Close() error
}

type planCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewPlanCache(log *logger.Logger) (PlanCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &planCache{
		log: log.With("service", "RedisPlanCache"),
		rdb: rdb,
		ttl: 15 * time.Minute,
	}, nil
}

func planKey(planID, userID uuid.UUID) string {
	return fmt.Sprintf("plan:%s:%s", userID, planID)
}

func (c *planCache) GetPlan(ctx context.Context, planID, userID uuid.UUID) (*types.StudyPlan, bool) {
	raw, err := c.rdb.Get(ctx, planKey(planID, userID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Debug("plan cache get failed", "error", err)
		}
		return nil, false
	}
	var plan types.StudyPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		c.log.Warn("plan cache entry corrupt, dropping", "error", err)
		_ = c.rdb.Del(ctx, planKey(planID, userID)).Err()
		return nil, false
	}
	return &plan, true
}

func (c *planCache) SetPlan(ctx context.Context, plan *types.StudyPlan) {
	if plan == nil {
		return
	}
	raw, err := json.Marshal(plan)
	if err != nil {
		c.log.Warn("plan cache marshal failed", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, planKey(plan.ID, plan.UserID), raw, c.ttl).Err(); err != nil {
		c.log.Debug("plan cache set failed", "error", err)
	}
}

func (c *planCache) InvalidatePlan(ctx context.Context, planID, userID uuid.UUID) {
	if err := c.rdb.Del(ctx, planKey(planID, userID)).Err(); err != nil {
		c.log.Debug("plan cache invalidate failed", "error", err)
	}
}

func (c *planCache) Close() error {
	return c.rdb.Close()
}
