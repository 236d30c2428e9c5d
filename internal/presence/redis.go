package presence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Redis keys:
//   - presence:active  ZSET user id -> last activity (unix ms)
//   - presence:status  HASH user id -> online status
//   - typing:<target>  ZSET typer id -> mark (unix ms)
const (
	keyActive       = "presence:active"
	keyStatus       = "presence:status"
	keyTypingPrefix = "typing:"
)

// RedisStore Store and TypingStore shared by every instance
type RedisStore struct {
	client    *redis.Client
	typingTTL time.Duration
}

// NewRedisStore typingTTL bounds how long an idle typing key lives in redis
func NewRedisStore(client *redis.Client, typingTTL time.Duration) *RedisStore {
	return &RedisStore{client: client, typingTTL: typingTTL}
}

func score(t time.Time) float64 { return float64(t.UnixMilli()) }

func fromScore(s float64) time.Time { return time.UnixMilli(int64(s)).UTC() }

func (r *RedisStore) Touch(ctx context.Context, userID string, status domain.OnlineStatus, at time.Time) error {
	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, keyActive, redis.Z{Score: score(at), Member: userID})
	pipe.HSet(ctx, keyStatus, userID, string(status))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence touch %s: %w", userID, err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, userID string) (Entry, bool, error) {
	s, err := r.client.ZScore(ctx, keyActive, userID).Result()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("presence get %s: %w", userID, err)
	}
	status, err := r.client.HGet(ctx, keyStatus, userID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Entry{}, false, fmt.Errorf("presence status %s: %w", userID, err)
	}
	if status == "" {
		status = string(domain.StatusOnline)
	}
	return Entry{UserID: userID, Status: domain.OnlineStatus(status), LastActive: fromScore(s)}, true, nil
}

func (r *RedisStore) Online(ctx context.Context) ([]Entry, error) {
	zs, err := r.client.ZRangeWithScores(ctx, keyActive, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("presence online: %w", err)
	}
	statuses, err := r.client.HGetAll(ctx, keyStatus).Result()
	if err != nil {
		return nil, fmt.Errorf("presence statuses: %w", err)
	}
	out := make([]Entry, 0, len(zs))
	for _, z := range zs {
		id, _ := z.Member.(string)
		status := domain.OnlineStatus(statuses[id])
		if status == "" {
			status = domain.StatusOnline
		}
		out = append(out, Entry{UserID: id, Status: status, LastActive: fromScore(z.Score)})
	}
	return out, nil
}

func (r *RedisStore) Remove(ctx context.Context, userID string) error {
	pipe := r.client.TxPipeline()
	pipe.ZRem(ctx, keyActive, userID)
	pipe.HDel(ctx, keyStatus, userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence remove %s: %w", userID, err)
	}
	return nil
}

func (r *RedisStore) Sweep(ctx context.Context, cutoff time.Time) ([]string, error) {
	stale, err := r.client.ZRangeByScore(ctx, keyActive, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("presence sweep: %w", err)
	}
	if len(stale) == 0 {
		return stale, nil
	}
	members := make([]interface{}, len(stale))
	for i, id := range stale {
		members[i] = id
	}
	pipe := r.client.TxPipeline()
	pipe.ZRem(ctx, keyActive, members...)
	pipe.HDel(ctx, keyStatus, stale...)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("presence evict: %w", err)
	}
	return stale, nil
}

func (r *RedisStore) Mark(ctx context.Context, typerID, targetID string, at time.Time) error {
	key := keyTypingPrefix + targetID
	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: score(at), Member: typerID})
	pipe.Expire(ctx, key, r.typingTTL*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("typing mark: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context, typerID, targetID string) error {
	return r.client.ZRem(ctx, keyTypingPrefix+targetID, typerID).Err()
}

func (r *RedisStore) Since(ctx context.Context, targetID string, since time.Time) ([]string, error) {
	typers, err := r.client.ZRangeByScore(ctx, keyTypingPrefix+targetID, &redis.ZRangeBy{
		Min: "(" + strconv.FormatInt(since.UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("typing since: %w", err)
	}
	return typers, nil
}

// Prune walks typing keys with SCAN; keys also expire on their own
func (r *RedisStore) Prune(ctx context.Context, cutoff time.Time) error {
	max := strconv.FormatInt(cutoff.UnixMilli(), 10)
	iter := r.client.Scan(ctx, 0, keyTypingPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.ZRemRangeByScore(ctx, iter.Val(), "-inf", max).Err(); err != nil {
			return fmt.Errorf("typing prune %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}
