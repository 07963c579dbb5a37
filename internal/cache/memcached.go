package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/kjstillabower/weathercom-service/internal/models"
)

const keyPrefix = "weathercom:snapshot:"

// MemcachedStore implements SnapshotStore on memcached, keyed by geocode so
// coordinators for different locations do not clobber each other.
type MemcachedStore struct {
	client *memcache.Client
	key    string
}

// NewMemcachedStore creates a MemcachedStore. addrs is a comma-separated
// list (e.g. "localhost:11211" or "host1:11211,host2:11211"). timeout and
// maxIdleConns configure the client; both use package defaults if zero.
func NewMemcachedStore(addrs, geocode string, timeout time.Duration, maxIdleConns int) (*MemcachedStore, error) {
	servers := parseAddrs(addrs)
	if len(servers) == 0 {
		servers = []string{"localhost:11211"}
	}
	client := memcache.New(servers...)
	if timeout > 0 {
		client.Timeout = timeout
	}
	if maxIdleConns > 0 {
		client.MaxIdleConns = maxIdleConns
	}
	return &MemcachedStore{client: client, key: keyPrefix + geocode}, nil
}

func parseAddrs(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Load implements SnapshotStore.Load. Returns false, nil on cache miss.
func (s *MemcachedStore) Load(ctx context.Context) (models.Snapshot, bool, error) {
	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}
	item, err := s.client.Get(s.key)
	if err != nil {
		if err == memcache.ErrCacheMiss {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("memcached get: %w", err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(item.Value, &snap); err != nil {
		return nil, false, fmt.Errorf("decode mirrored snapshot: %w", err)
	}
	return snap, true, nil
}

// Save implements SnapshotStore.Save.
func (s *MemcachedStore) Save(ctx context.Context, snap models.Snapshot, ttl time.Duration) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	value, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.client.Set(&memcache.Item{
		Key:        s.key,
		Value:      value,
		Expiration: int32(ttl / time.Second),
	})
}

// Ping checks connectivity to the memcached servers; used by /health.
func (s *MemcachedStore) Ping() error {
	return s.client.Ping()
}

// Close releases idle connections.
func (s *MemcachedStore) Close() error {
	return s.client.Close()
}
