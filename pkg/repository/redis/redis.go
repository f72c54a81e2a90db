package redis

import (
	"context"
	"errors"
	"slices"

	"github.com/caeleel/friendbook/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	goredis "github.com/redis/go-redis/v9"
)

// Redis is a KVStore backed by a Redis server. Set members are returned in
// lexicographic order.
type Redis struct {
	client *goredis.Client
}

var _ interfaces.KVStore = &Redis{}

// New connects to the server at redisURL (redis:// or rediss://) and checks
// that it answers
func New(ctx context.Context, redisURL string) (*Redis, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse redis url")
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, goerr.Wrap(err, "failed to connect to redis", goerr.V("addr", opts.Addr))
	}

	return &Redis{client: client}, nil
}

func (r *Redis) SAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	if err := r.client.SAdd(ctx, key, toArgs(members)...).Err(); err != nil {
		return goerr.Wrap(err, "failed to add set members", goerr.V("key", key))
	}
	return nil
}

func (r *Redis) SRem(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	if err := r.client.SRem(ctx, key, toArgs(members)...).Err(); err != nil {
		return goerr.Wrap(err, "failed to remove set members", goerr.V("key", key))
	}
	return nil
}

func (r *Redis) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get set members", goerr.V("key", key))
	}
	slices.Sort(members)
	return members, nil
}

func (r *Redis) SIsMember(ctx context.Context, key string, member string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, goerr.Wrap(err, "failed to check set member", goerr.V("key", key))
	}
	return ok, nil
}

func (r *Redis) SCard(ctx context.Context, key string) (int64, error) {
	n, err := r.client.SCard(ctx, key).Result()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count set members", goerr.V("key", key))
	}
	return n, nil
}

func (r *Redis) HSet(ctx context.Context, key string, field, value string) error {
	if err := r.client.HSet(ctx, key, field, value).Err(); err != nil {
		return goerr.Wrap(err, "failed to set hash field", goerr.V("key", key), goerr.V("field", field))
	}
	return nil
}

func (r *Redis) HGet(ctx context.Context, key string, field string) (string, bool, error) {
	value, err := r.client.HGet(ctx, key, field).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, goerr.Wrap(err, "failed to get hash field", goerr.V("key", key), goerr.V("field", field))
	}
	return value, true, nil
}

func (r *Redis) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	values, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get hash", goerr.V("key", key))
	}
	return values, nil
}

func (r *Redis) HDel(ctx context.Context, key string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, key, fields...).Err(); err != nil {
		return goerr.Wrap(err, "failed to delete hash fields", goerr.V("key", key))
	}
	return nil
}

func (r *Redis) RPush(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	if err := r.client.RPush(ctx, key, toArgs(values)...).Err(); err != nil {
		return goerr.Wrap(err, "failed to push list values", goerr.V("key", key))
	}
	return nil
}

func (r *Redis) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	values, err := r.client.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get list range", goerr.V("key", key))
	}
	return values, nil
}

type txWriter struct {
	ctx  context.Context
	pipe goredis.Pipeliner
}

func (w *txWriter) SAdd(key string, members ...string) error {
	if len(members) > 0 {
		w.pipe.SAdd(w.ctx, key, toArgs(members)...)
	}
	return nil
}

func (w *txWriter) SRem(key string, members ...string) error {
	if len(members) > 0 {
		w.pipe.SRem(w.ctx, key, toArgs(members)...)
	}
	return nil
}

func (w *txWriter) HSet(key string, field, value string) error {
	w.pipe.HSet(w.ctx, key, field, value)
	return nil
}

func (w *txWriter) HDel(key string, fields ...string) error {
	if len(fields) > 0 {
		w.pipe.HDel(w.ctx, key, fields...)
	}
	return nil
}

// Tx queues the writes in a MULTI/EXEC block
func (r *Redis) Tx(ctx context.Context, fn func(w interfaces.KVWriter) error) error {
	if _, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		return fn(&txWriter{ctx: ctx, pipe: pipe})
	}); err != nil {
		return goerr.Wrap(err, "failed to run redis transaction")
	}
	return nil
}

func (r *Redis) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func toArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
