package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/caeleel/friendbook/pkg/domain/interfaces"
	"github.com/caeleel/friendbook/pkg/utils/kvutil"
	"github.com/m-mizutani/goerr/v2"
)

type valueKind int

const (
	kindSet valueKind = iota + 1
	kindHash
	kindList
)

func (k valueKind) String() string {
	switch k {
	case kindSet:
		return "set"
	case kindHash:
		return "hash"
	case kindList:
		return "list"
	default:
		return "unknown"
	}
}

type value struct {
	kind    valueKind
	members []string
	hash    map[string]string
	list    []string
}

func newValue(kind valueKind) *value {
	v := &value{kind: kind}
	if kind == kindHash {
		v.hash = make(map[string]string)
	}
	return v
}

func (v *value) clone() *value {
	return &value{
		kind:    v.kind,
		members: slices.Clone(v.members),
		hash:    maps.Clone(v.hash),
		list:    slices.Clone(v.list),
	}
}

func (v *value) empty() bool {
	switch v.kind {
	case kindSet:
		return len(v.members) == 0
	case kindHash:
		return len(v.hash) == 0
	default:
		return len(v.list) == 0
	}
}

// Memory is a process-local KVStore. Set members are kept in insertion
// order and empty sets and hashes disappear the way they do in Redis.
type Memory struct {
	mu   sync.RWMutex
	data map[string]*value
}

var _ interfaces.KVStore = &Memory{}

func New() *Memory {
	return &Memory{
		data: make(map[string]*value),
	}
}

// staging collects copies of the touched keys so that a failed batch leaves
// the store untouched
type staging struct {
	base   map[string]*value
	staged map[string]*value
}

func (s *staging) load(key string, kind valueKind) (*value, error) {
	v, ok := s.staged[key]
	if !ok {
		if base, exists := s.base[key]; exists {
			v = base.clone()
		}
	}
	if v == nil {
		v = newValue(kind)
	}
	if v.kind != kind {
		return nil, goerr.Wrap(ErrWrongType, "key holds another kind of value",
			goerr.V("key", key), goerr.V("expected", kind.String()), goerr.V("actual", v.kind.String()))
	}
	s.staged[key] = v
	return v, nil
}

func (s *staging) commit() {
	for key, v := range s.staged {
		if v.empty() {
			delete(s.base, key)
			continue
		}
		s.base[key] = v
	}
}

func (m *Memory) write(fn func(s *staging) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &staging{base: m.data, staged: make(map[string]*value)}
	if err := fn(s); err != nil {
		return err
	}
	s.commit()
	return nil
}

// read returns the value at key or nil when the key is missing
func (m *Memory) read(key string, kind valueKind) (*value, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	if v.kind != kind {
		return nil, goerr.Wrap(ErrWrongType, "key holds another kind of value",
			goerr.V("key", key), goerr.V("expected", kind.String()), goerr.V("actual", v.kind.String()))
	}
	return v, nil
}

func sadd(s *staging, key string, members []string) error {
	v, err := s.load(key, kindSet)
	if err != nil {
		return err
	}
	for _, member := range members {
		if !slices.Contains(v.members, member) {
			v.members = append(v.members, member)
		}
	}
	return nil
}

func srem(s *staging, key string, members []string) error {
	v, err := s.load(key, kindSet)
	if err != nil {
		return err
	}
	v.members = slices.DeleteFunc(v.members, func(member string) bool {
		return slices.Contains(members, member)
	})
	return nil
}

func hset(s *staging, key, field, val string) error {
	v, err := s.load(key, kindHash)
	if err != nil {
		return err
	}
	v.hash[field] = val
	return nil
}

func hdel(s *staging, key string, fields []string) error {
	v, err := s.load(key, kindHash)
	if err != nil {
		return err
	}
	for _, field := range fields {
		delete(v.hash, field)
	}
	return nil
}

func (m *Memory) SAdd(ctx context.Context, key string, members ...string) error {
	return m.write(func(s *staging) error {
		return sadd(s, key, members)
	})
}

func (m *Memory) SRem(ctx context.Context, key string, members ...string) error {
	return m.write(func(s *staging) error {
		return srem(s, key, members)
	})
}

func (m *Memory) SMembers(ctx context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, err := m.read(key, kindSet)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return []string{}, nil
	}
	return slices.Clone(v.members), nil
}

func (m *Memory) SIsMember(ctx context.Context, key string, member string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, err := m.read(key, kindSet)
	if err != nil || v == nil {
		return false, err
	}
	return slices.Contains(v.members, member), nil
}

func (m *Memory) SCard(ctx context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, err := m.read(key, kindSet)
	if err != nil || v == nil {
		return 0, err
	}
	return int64(len(v.members)), nil
}

func (m *Memory) HSet(ctx context.Context, key string, field, val string) error {
	return m.write(func(s *staging) error {
		return hset(s, key, field, val)
	})
}

func (m *Memory) HGet(ctx context.Context, key string, field string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, err := m.read(key, kindHash)
	if err != nil || v == nil {
		return "", false, err
	}
	val, ok := v.hash[field]
	return val, ok, nil
}

func (m *Memory) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, err := m.read(key, kindHash)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return map[string]string{}, nil
	}
	return maps.Clone(v.hash), nil
}

func (m *Memory) HDel(ctx context.Context, key string, fields ...string) error {
	return m.write(func(s *staging) error {
		return hdel(s, key, fields)
	})
}

func (m *Memory) RPush(ctx context.Context, key string, values ...string) error {
	return m.write(func(s *staging) error {
		v, err := s.load(key, kindList)
		if err != nil {
			return err
		}
		v.list = append(v.list, values...)
		return nil
	})
}

func (m *Memory) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, err := m.read(key, kindList)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return []string{}, nil
	}

	from, to, ok := kvutil.Range(len(v.list), start, stop)
	if !ok {
		return []string{}, nil
	}
	return slices.Clone(v.list[from:to]), nil
}

type txWriter struct {
	s *staging
}

func (w *txWriter) SAdd(key string, members ...string) error {
	return sadd(w.s, key, members)
}

func (w *txWriter) SRem(key string, members ...string) error {
	return srem(w.s, key, members)
}

func (w *txWriter) HSet(key string, field, val string) error {
	return hset(w.s, key, field, val)
}

func (w *txWriter) HDel(key string, fields ...string) error {
	return hdel(w.s, key, fields)
}

// Tx applies the batch under the store lock. Readers never observe a
// partially applied batch.
func (m *Memory) Tx(ctx context.Context, fn func(w interfaces.KVWriter) error) error {
	return m.write(func(s *staging) error {
		if err := fn(&txWriter{s: s}); err != nil {
			return goerr.Wrap(err, "transaction aborted")
		}
		return nil
	})
}

func (m *Memory) Close() error {
	return nil
}
