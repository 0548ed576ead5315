package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/barbershop-core/internal/domain/availability"
)

// AvailabilityCache holds projections for display only. Booking writes never
// read from it, so a stale entry can at worst show an open slot that the
// booking path then rejects.
type AvailabilityCache interface {
	Get(ctx context.Context, barberID, date string) (*availability.Availability, bool)
	Set(ctx context.Context, a availability.Availability)
	Invalidate(ctx context.Context, barberID string, dates ...string)
}

func key(barberID, date string) string {
	return "availability:" + barberID + ":" + date
}

type RedisAvailability struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAvailability(client *redis.Client, ttl time.Duration) *RedisAvailability {
	return &RedisAvailability{client: client, ttl: ttl}
}

func (c *RedisAvailability) Get(ctx context.Context, barberID, date string) (*availability.Availability, bool) {
	raw, err := c.client.Get(ctx, key(barberID, date)).Bytes()
	if err != nil {
		return nil, false
	}

	var a availability.Availability
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, false
	}
	return &a, true
}

func (c *RedisAvailability) Set(ctx context.Context, a availability.Availability) {
	raw, err := json.Marshal(a)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key(a.BarberID, a.Date), raw, c.ttl).Err()
}

func (c *RedisAvailability) Invalidate(ctx context.Context, barberID string, dates ...string) {
	if len(dates) == 0 {
		return
	}
	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = key(barberID, d)
	}
	_ = c.client.Del(ctx, keys...).Err()
}

// Nop disables caching.
type Nop struct{}

func (Nop) Get(context.Context, string, string) (*availability.Availability, bool) { return nil, false }
func (Nop) Set(context.Context, availability.Availability) {}
func (Nop) Invalidate(context.Context, string, ...string) {}

var (
	_ AvailabilityCache = (*RedisAvailability)(nil)
	_ AvailabilityCache = Nop{}
)
