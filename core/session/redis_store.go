package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/resumekit/guardkit/pkg/secrets"
)

const (
	redisKeyPrefix = "session:"

	// redisScanBatch is the per-iteration batch size for SCAN over
	// session keys.
	redisScanBatch = 100
)

// RedisStore implements Store on a shared Redis database. Each record is
// serialized to JSON and sealed with authenticated encryption before it
// leaves the process: a reader of the shared store can neither inspect a
// session payload nor modify it without detection.
type RedisStore[Data any] struct {
	client   *redis.Client
	appKey   []byte
	scopeKey []byte
}

// NewRedisStore creates a session store backed by an existing Redis
// client. The application and scope keys seal every record; both must be
// secrets.KeySize bytes.
func NewRedisStore[Data any](client *redis.Client, appKey, scopeKey []byte) (*RedisStore[Data], error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if len(appKey) != secrets.KeySize || len(scopeKey) != secrets.KeySize {
		return nil, secrets.ErrInvalidKey
	}

	return &RedisStore[Data]{
		client:   client,
		appKey:   appKey,
		scopeKey: scopeKey,
	}, nil
}

// Get implements Store.
func (rs *RedisStore[Data]) Get(ctx context.Context, id uuid.UUID) (*Session[Data], error) {
	sealed, err := rs.client.Get(ctx, redisKeyPrefix+id.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrStoreFailure, err)
	}

	return rs.unseal(sealed)
}

// Save implements Store.
func (rs *RedisStore[Data]) Save(ctx context.Context, sess *Session[Data]) error {
	plain, err := json.Marshal(sess)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	sealed, err := secrets.EncryptString(rs.appKey, rs.scopeKey, string(plain))
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	if err := rs.client.Set(ctx, redisKeyPrefix+sess.ID.String(), sealed, 0).Err(); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// Delete implements Store.
func (rs *RedisStore[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := rs.client.Del(ctx, redisKeyPrefix+id.String()).Err(); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// All implements Store. Records that fail to unseal (tampered, or sealed
// under rotated keys) are skipped rather than failing the whole listing;
// the cleanup sweep will eventually delete them once expired.
func (rs *RedisStore[Data]) All(ctx context.Context) ([]Session[Data], error) {
	var out []Session[Data]

	iter := rs.client.Scan(ctx, 0, redisKeyPrefix+"*", redisScanBatch).Iterator()
	for iter.Next(ctx) {
		sealed, err := rs.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // deleted between SCAN and GET
			}
			return nil, errors.Join(ErrStoreFailure, err)
		}

		sess, err := rs.unseal(sealed)
		if err != nil {
			continue
		}
		out = append(out, *sess)
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	return out, nil
}

// Healthcheck verifies Redis connectivity with a ping.
func (rs *RedisStore[Data]) Healthcheck(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

func (rs *RedisStore[Data]) unseal(sealed string) (*Session[Data], error) {
	plain, err := secrets.DecryptString(rs.appKey, rs.scopeKey, sealed)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var sess Session[Data]
	if err := json.Unmarshal([]byte(plain), &sess); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &sess, nil
}
