package membership

import (
	"context"
	"fmt"
	"time"

	"github.com/FitBaseHQ/FitBase/internal/pkg/cache"
	"github.com/redis/go-redis/v9"
)

// DayKeyLayout is the ISO date key used for per-day attendance entries.
const DayKeyLayout = "2006-01-02"

// MonthCache is the derived current-month attendance index. It is a
// rebuildable cache over the attendance ledger and is never read as
// ground truth: on a miss the month is recomputed from the store.
type MonthCache interface {
	SetDayStatus(memberID uint, day time.Time, status string) error
	GetMonth(memberID uint, year int, month time.Month) (map[string]string, bool, error)
	PutMonth(memberID uint, year int, month time.Month, days map[string]string) error
	Invalidate(memberID uint, year int, month time.Month) error
}

const monthCacheTTL = 45 * 24 * time.Hour

// monthCacheEmptyField marks a rebuilt month with no ledger rows, so an
// empty month is a cache hit rather than a permanent miss. Never a
// valid day key, so it cannot collide with real entries.
const monthCacheEmptyField = "__empty__"

type redisMonthCache struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisMonthCache creates a month cache on the shared Redis client.
func NewRedisMonthCache() MonthCache {
	return &redisMonthCache{client: cache.GetClient(), ctx: context.Background()}
}

func monthCacheKey(memberID uint, year int, month time.Month) string {
	return fmt.Sprintf("attendance:month:%d:%04d-%02d", memberID, year, int(month))
}

func (c *redisMonthCache) SetDayStatus(memberID uint, day time.Time, status string) error {
	key := monthCacheKey(memberID, day.Year(), day.Month())
	pipe := c.client.TxPipeline()
	pipe.HSet(c.ctx, key, day.Format(DayKeyLayout), status)
	pipe.Expire(c.ctx, key, monthCacheTTL)
	_, err := pipe.Exec(c.ctx)
	return err
}

func (c *redisMonthCache) GetMonth(memberID uint, year int, month time.Month) (map[string]string, bool, error) {
	key := monthCacheKey(memberID, year, month)
	days, err := c.client.HGetAll(c.ctx, key).Result()
	if err != nil {
		return nil, false, err
	}
	if len(days) == 0 {
		return nil, false, nil
	}
	delete(days, monthCacheEmptyField)
	return days, true, nil
}

func (c *redisMonthCache) PutMonth(memberID uint, year int, month time.Month, days map[string]string) error {
	key := monthCacheKey(memberID, year, month)
	fields := make(map[string]interface{}, len(days)+1)
	for k, v := range days {
		fields[k] = v
	}
	if len(fields) == 0 {
		fields[monthCacheEmptyField] = "1"
	}
	pipe := c.client.TxPipeline()
	pipe.Del(c.ctx, key)
	pipe.HSet(c.ctx, key, fields)
	pipe.Expire(c.ctx, key, monthCacheTTL)
	_, err := pipe.Exec(c.ctx)
	return err
}

func (c *redisMonthCache) Invalidate(memberID uint, year int, month time.Month) error {
	return c.client.Del(c.ctx, monthCacheKey(memberID, year, month)).Err()
}
