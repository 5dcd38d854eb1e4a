package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "agrolink/internal/errors"
)

// KeyIdemOrderCreate maps an Idempotency-Key to the order it created.
const KeyIdemOrderCreate = "idem:order:create:%s"

const pendingMarker = "pending"

// IdempotencyStore remembers which order a client request key produced.
// A key is first claimed with a pending marker, then bound to the order id
// once the order commits. The pending marker lives for pendingTTL only, so a
// claim left behind by a crashed request frees the key long before a
// completed binding would expire.
type IdempotencyStore struct {
	rdb        *redis.Client
	ttl        time.Duration
	pendingTTL time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl, pendingTTL time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if pendingTTL <= 0 || pendingTTL > ttl {
		pendingTTL = min(time.Minute, ttl)
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl, pendingTTL: pendingTTL}
}

// Claim reserves key for a new request. When the key already produced an
// order, that order id is returned with claimed=false. A key still pending
// belongs to an in-flight request and yields a ConflictError.
func (s *IdempotencyStore) Claim(ctx context.Context, key string) (orderID string, claimed bool, err error) {
	k := fmt.Sprintf(KeyIdemOrderCreate, key)

	ok, err := s.rdb.SetNX(ctx, k, pendingMarker, s.pendingTTL).Result()
	if err != nil {
		return "", false, apperrors.NewStorageUnavailableError("claiming idempotency key", err)
	}
	if ok {
		return "", true, nil
	}

	val, err := s.rdb.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SetNX and Get; try once more
		ok, err = s.rdb.SetNX(ctx, k, pendingMarker, s.pendingTTL).Result()
		if err != nil {
			return "", false, apperrors.NewStorageUnavailableError("claiming idempotency key", err)
		}
		if ok {
			return "", true, nil
		}
		return "", false, apperrors.NewConflictError("a request with this idempotency key is in progress")
	}
	if err != nil {
		return "", false, apperrors.NewStorageUnavailableError("reading idempotency key", err)
	}
	if val == pendingMarker {
		return "", false, apperrors.NewConflictError("a request with this idempotency key is in progress")
	}
	return val, false, nil
}

// Complete binds key to the order it produced.
func (s *IdempotencyStore) Complete(ctx context.Context, key, orderID string) error {
	if err := s.rdb.Set(ctx, fmt.Sprintf(KeyIdemOrderCreate, key), orderID, s.ttl).Err(); err != nil {
		return fmt.Errorf("completing idempotency key: %w", err)
	}
	return nil
}

// Release forgets a claim whose request failed so the client may retry.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, fmt.Sprintf(KeyIdemOrderCreate, key)).Err(); err != nil {
		return fmt.Errorf("releasing idempotency key: %w", err)
	}
	return nil
}
