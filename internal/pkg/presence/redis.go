package presence

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "staff:presence:"

// RedisStore keeps one sorted set per business, scored by last activity in unix milliseconds.
type RedisStore struct {
	rdb       *goredis.Client
	retention time.Duration
}

// NewRedisClient connects and pings, failing fast on bad configuration.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// NewRedisStore wraps a client. Members older than retention are pruned on write.
func NewRedisStore(rdb *goredis.Client, retention time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, retention: retention}
}

func key(businessID string) string {
	return keyPrefix + businessID
}

func (r *RedisStore) Touch(ctx context.Context, businessID, staffID string, at time.Time) error {
	k := key(businessID)
	cutoff := at.Add(-r.retention).UnixMilli()

	pipe := r.rdb.TxPipeline()
	pipe.ZAddGT(ctx, k, goredis.Z{Score: float64(at.UnixMilli()), Member: staffID})
	pipe.ZRemRangeByScore(ctx, k, "-inf", "("+strconv.FormatInt(cutoff, 10))
	pipe.Expire(ctx, k, r.retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to touch presence: %w", err)
	}
	return nil
}

func (r *RedisStore) Remove(ctx context.Context, businessID, staffID string) error {
	if err := r.rdb.ZRem(ctx, key(businessID), staffID).Err(); err != nil {
		return fmt.Errorf("failed to remove presence: %w", err)
	}
	return nil
}

func (r *RedisStore) Online(ctx context.Context, businessID string, since time.Time) ([]Entry, error) {
	members, err := r.rdb.ZRevRangeByScoreWithScores(ctx, key(businessID), &goredis.ZRangeBy{
		Min: strconv.FormatInt(since.UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list presence: %w", err)
	}

	entries := make([]Entry, 0, len(members))
	for _, m := range members {
		staffID, ok := m.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			StaffID:      staffID,
			LastActiveAt: time.UnixMilli(int64(m.Score)).UTC(),
		})
	}
	sortEntries(entries)
	return entries, nil
}
