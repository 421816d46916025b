package gamequery

import (
	"context"
	"log/slog"
	"slices"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedClient remembers successful fetches per address for a short time.
// Failures and rosters of games still taking pretenders always go through
// to the wrapped client.
type CachedClient struct {
	next   Client
	cache  *gocache.Cache
	logger *slog.Logger
}

// Ensure CachedClient implements Client
var _ Client = (*CachedClient)(nil)

// NewCachedClient wraps next with a cache holding entries for ttl
func NewCachedClient(next Client, ttl time.Duration, logger *slog.Logger) *CachedClient {
	return &CachedClient{
		next:   next,
		cache:  gocache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// Fetch returns the cached roster for address, fetching it on a miss
func (c *CachedClient) Fetch(ctx context.Context, address string) (*GameData, error) {
	if value, found := c.cache.Get(address); found {
		if data, ok := value.(*GameData); ok {
			c.logger.DebugContext(ctx, "game query cache hit", "address", address)
			return cloneGameData(data), nil
		}
	}

	data, err := c.next.Fetch(ctx, address)
	if err != nil {
		return nil, err
	}
	if data.TakingPretenders() {
		return data, nil
	}
	c.cache.SetDefault(address, cloneGameData(data))
	return data, nil
}

func cloneGameData(data *GameData) *GameData {
	c := *data
	c.Nations = slices.Clone(data.Nations)
	return &c
}
