package interfaces

import "context"

// KVWriter is the write half of KVStore used inside a transaction. Writes
// are buffered and become visible together when the transaction commits.
type KVWriter interface {
	SAdd(key string, members ...string) error
	SRem(key string, members ...string) error
	HSet(key string, field, value string) error
	HDel(key string, fields ...string) error
}

// KVStore is a schemaless key-value backend offering set, hash and list
// primitives on string keys. Implementations must be safe for concurrent use.
type KVStore interface {
	// SAdd adds members to the set at key. Existing members are ignored.
	SAdd(ctx context.Context, key string, members ...string) error

	// SRem removes members from the set at key. The key is removed when the
	// set becomes empty.
	SRem(ctx context.Context, key string, members ...string) error

	// SMembers returns all members of the set at key. A missing key is an
	// empty set.
	SMembers(ctx context.Context, key string) ([]string, error)

	SIsMember(ctx context.Context, key string, member string) (bool, error)
	SCard(ctx context.Context, key string) (int64, error)

	HSet(ctx context.Context, key string, field, value string) error

	// HGet returns the value of field in the hash at key, with found=false
	// when either the key or the field is missing
	HGet(ctx context.Context, key string, field string) (string, bool, error)

	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error

	// RPush appends values to the list at key
	RPush(ctx context.Context, key string, values ...string) error

	// LRange returns list elements between start and stop inclusive.
	// Negative indexes count from the tail, so 0..-1 is the whole list.
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// Tx applies every write issued through w atomically. Nothing is
	// written when fn returns an error.
	Tx(ctx context.Context, fn func(w KVWriter) error) error

	Close() error
}
