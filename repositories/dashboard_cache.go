// repositories/dashboard_cache.go
package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const dashboardCacheTTL = 60 * time.Second

// DashboardCache is a read-through cache for dashboard aggregates with
// explicit invalidation keys per tenant. A nil redis client disables
// caching entirely.
type DashboardCache struct {
	redis *redis.Client
}

func NewDashboardCache(client *redis.Client) *DashboardCache {
	return &DashboardCache{redis: client}
}

// TenantKey is the cache key of one tenant's dashboard
func TenantKey(tenantID string) string {
	return "dash:tenant:" + tenantID
}

// PlatformKey is the cache key of the platform dashboard
func PlatformKey() string {
	return "dash:platform"
}

// Get unmarshals the cached value into dest; returns false on miss or
// when caching is disabled
func (c *DashboardCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c.redis == nil {
		return false
	}
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores the value with the dashboard TTL
func (c *DashboardCache) Set(ctx context.Context, key string, value interface{}) {
	if c.redis == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.redis.Set(ctx, key, raw, dashboardCacheTTL)
}

// Invalidate drops cached dashboards after a mutation. Tenant mutations
// invalidate both the tenant's dashboard and the platform aggregate.
func (c *DashboardCache) Invalidate(ctx context.Context, keys ...string) {
	if c.redis == nil || len(keys) == 0 {
		return
	}
	c.redis.Del(ctx, keys...)
}
