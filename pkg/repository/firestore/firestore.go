package firestore

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/caeleel/friendbook/pkg/domain/interfaces"
	"github.com/caeleel/friendbook/pkg/utils/kvutil"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection is the collection used unless WithCollection is given
const DefaultCollection = "kv"

// Firestore is a KVStore that keeps one document per key. Every write runs
// in a Firestore transaction so that read-modify-write updates of sets,
// hashes and lists stay consistent under concurrent writers. List values
// live in an items subcollection of the key document, one document each.
type Firestore struct {
	client     *firestore.Client
	collection string
}

var _ interfaces.KVStore = &Firestore{}

type Option func(*Firestore)

// WithCollection changes the collection holding the key documents
func WithCollection(name string) Option {
	return func(f *Firestore) {
		f.collection = name
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:     client,
		collection: DefaultCollection,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

const (
	kindSet  = "set"
	kindHash = "hash"
	kindList = "list"
)

const listItemsCollection = "items"

type hashField struct {
	Field string `firestore:"field"`
	Value string `firestore:"value"`
}

// document is the persistence model of one key. Set members are stored
// sorted; hash fields are stored as pairs sorted by field so that any string
// can be a field. A list key only keeps its length here.
type document struct {
	Kind      string      `firestore:"kind"`
	Set       []string    `firestore:"set,omitempty"`
	Hash      []hashField `firestore:"hash,omitempty"`
	Length    int64       `firestore:"length,omitempty"`
	UpdatedAt time.Time   `firestore:"updated_at"`
}

// listItem is one list value stored under the key document
type listItem struct {
	Seq   int64  `firestore:"seq"`
	Value string `firestore:"value"`
}

// itemID is zero padded so that document ids sort like sequence numbers
func itemID(seq int64) string {
	return fmt.Sprintf("%019d", seq)
}

func (d *document) ensure(key, kind string) error {
	if d.Kind == "" {
		d.Kind = kind
	}
	if d.Kind != kind {
		return goerr.Wrap(ErrWrongType, "key holds another kind of value",
			goerr.V("key", key), goerr.V("expected", kind), goerr.V("actual", d.Kind))
	}
	return nil
}

func (d *document) empty() bool {
	return len(d.Set) == 0 && len(d.Hash) == 0 && d.Length == 0
}

func (d *document) sadd(members []string) {
	for _, member := range members {
		if i, found := slices.BinarySearch(d.Set, member); !found {
			d.Set = slices.Insert(d.Set, i, member)
		}
	}
}

func (d *document) srem(members []string) {
	d.Set = slices.DeleteFunc(d.Set, func(member string) bool {
		return slices.Contains(members, member)
	})
}

func compareField(h hashField, field string) int {
	return strings.Compare(h.Field, field)
}

func (d *document) hset(field, value string) {
	i, found := slices.BinarySearchFunc(d.Hash, field, compareField)
	if found {
		d.Hash[i].Value = value
		return
	}
	d.Hash = slices.Insert(d.Hash, i, hashField{Field: field, Value: value})
}

func (d *document) hdel(fields []string) {
	d.Hash = slices.DeleteFunc(d.Hash, func(h hashField) bool {
		return slices.Contains(fields, h.Field)
	})
}

func (d *document) hget(field string) (string, bool) {
	if i, found := slices.BinarySearchFunc(d.Hash, field, compareField); found {
		return d.Hash[i].Value, true
	}
	return "", false
}

func (f *Firestore) docRef(key string) *firestore.DocumentRef {
	return f.client.Collection(f.collection).Doc(url.PathEscape(key))
}

// get loads the document of key, returning nil when the key is missing
func (f *Firestore) get(ctx context.Context, key, kind string) (*document, error) {
	snap, err := f.docRef(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get key document", goerr.V("key", key))
	}

	var doc document
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode key document", goerr.V("key", key))
	}
	if err := doc.ensure(key, kind); err != nil {
		return nil, err
	}
	return &doc, nil
}

// mutation is a pending change of one key applied inside a transaction
type mutation struct {
	key   string
	kind  string
	apply func(d *document)
}

func (f *Firestore) update(ctx context.Context, mutations []mutation) error {
	if len(mutations) == 0 {
		return nil
	}

	var keys []string
	for _, m := range mutations {
		if !slices.Contains(keys, m.key) {
			keys = append(keys, m.key)
		}
	}

	return f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		refs := make([]*firestore.DocumentRef, len(keys))
		for i, key := range keys {
			refs[i] = f.docRef(key)
		}

		snaps, err := tx.GetAll(refs)
		if err != nil {
			return goerr.Wrap(err, "failed to get key documents", goerr.V("keys", keys))
		}

		docs := make(map[string]*document, len(keys))
		for i, snap := range snaps {
			doc := &document{}
			if snap.Exists() {
				if err := snap.DataTo(doc); err != nil {
					return goerr.Wrap(err, "failed to decode key document", goerr.V("key", keys[i]))
				}
			}
			docs[keys[i]] = doc
		}

		for _, m := range mutations {
			doc := docs[m.key]
			if err := doc.ensure(m.key, m.kind); err != nil {
				return err
			}
			m.apply(doc)
		}

		now := time.Now().UTC()
		for i, key := range keys {
			doc := docs[key]
			if doc.empty() {
				if err := tx.Delete(refs[i]); err != nil {
					return goerr.Wrap(err, "failed to delete key document", goerr.V("key", key))
				}
				continue
			}
			doc.UpdatedAt = now
			if err := tx.Set(refs[i], doc); err != nil {
				return goerr.Wrap(err, "failed to set key document", goerr.V("key", key))
			}
		}
		return nil
	})
}

func saddMutation(key string, members []string) mutation {
	return mutation{key: key, kind: kindSet, apply: func(d *document) { d.sadd(members) }}
}

func sremMutation(key string, members []string) mutation {
	return mutation{key: key, kind: kindSet, apply: func(d *document) { d.srem(members) }}
}

func hsetMutation(key, field, value string) mutation {
	return mutation{key: key, kind: kindHash, apply: func(d *document) { d.hset(field, value) }}
}

func hdelMutation(key string, fields []string) mutation {
	return mutation{key: key, kind: kindHash, apply: func(d *document) { d.hdel(fields) }}
}

func (f *Firestore) SAdd(ctx context.Context, key string, members ...string) error {
	if err := f.update(ctx, []mutation{saddMutation(key, members)}); err != nil {
		return goerr.Wrap(err, "failed to add set members", goerr.V("key", key))
	}
	return nil
}

func (f *Firestore) SRem(ctx context.Context, key string, members ...string) error {
	if err := f.update(ctx, []mutation{sremMutation(key, members)}); err != nil {
		return goerr.Wrap(err, "failed to remove set members", goerr.V("key", key))
	}
	return nil
}

func (f *Firestore) SMembers(ctx context.Context, key string) ([]string, error) {
	doc, err := f.get(ctx, key, kindSet)
	if err != nil || doc == nil {
		return []string{}, err
	}
	return doc.Set, nil
}

func (f *Firestore) SIsMember(ctx context.Context, key string, member string) (bool, error) {
	doc, err := f.get(ctx, key, kindSet)
	if err != nil || doc == nil {
		return false, err
	}
	_, found := slices.BinarySearch(doc.Set, member)
	return found, nil
}

func (f *Firestore) SCard(ctx context.Context, key string) (int64, error) {
	doc, err := f.get(ctx, key, kindSet)
	if err != nil || doc == nil {
		return 0, err
	}
	return int64(len(doc.Set)), nil
}

func (f *Firestore) HSet(ctx context.Context, key string, field, value string) error {
	if err := f.update(ctx, []mutation{hsetMutation(key, field, value)}); err != nil {
		return goerr.Wrap(err, "failed to set hash field", goerr.V("key", key), goerr.V("field", field))
	}
	return nil
}

func (f *Firestore) HGet(ctx context.Context, key string, field string) (string, bool, error) {
	doc, err := f.get(ctx, key, kindHash)
	if err != nil || doc == nil {
		return "", false, err
	}
	value, ok := doc.hget(field)
	return value, ok, nil
}

func (f *Firestore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	doc, err := f.get(ctx, key, kindHash)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string)
	if doc != nil {
		for _, h := range doc.Hash {
			values[h.Field] = h.Value
		}
	}
	return values, nil
}

func (f *Firestore) HDel(ctx context.Context, key string, fields ...string) error {
	if err := f.update(ctx, []mutation{hdelMutation(key, fields)}); err != nil {
		return goerr.Wrap(err, "failed to delete hash fields", goerr.V("key", key))
	}
	return nil
}

// RPush creates one item document per value and bumps the length of the key
// document in the same transaction, so items below the length are always
// complete.
func (f *Firestore) RPush(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}

	ref := f.docRef(key)
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc := &document{}
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to get key document", goerr.V("key", key))
		}
		if err == nil && snap.Exists() {
			if err := snap.DataTo(doc); err != nil {
				return goerr.Wrap(err, "failed to decode key document", goerr.V("key", key))
			}
		}
		if err := doc.ensure(key, kindList); err != nil {
			return err
		}

		items := ref.Collection(listItemsCollection)
		for i, value := range values {
			seq := doc.Length + int64(i)
			if err := tx.Create(items.Doc(itemID(seq)), &listItem{Seq: seq, Value: value}); err != nil {
				return goerr.Wrap(err, "failed to create list item", goerr.V("key", key), goerr.V("seq", seq))
			}
		}

		doc.Length += int64(len(values))
		doc.UpdatedAt = time.Now().UTC()
		if err := tx.Set(ref, doc); err != nil {
			return goerr.Wrap(err, "failed to set key document", goerr.V("key", key))
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to push list values", goerr.V("key", key))
	}
	return nil
}

func (f *Firestore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	doc, err := f.get(ctx, key, kindList)
	if err != nil || doc == nil {
		return []string{}, err
	}

	from, to, ok := kvutil.Range(int(doc.Length), start, stop)
	if !ok {
		return []string{}, nil
	}

	iter := f.docRef(key).Collection(listItemsCollection).
		Where("seq", ">=", from).
		Where("seq", "<", to).
		OrderBy("seq", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	values := make([]string, 0, to-from)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate list items", goerr.V("key", key))
		}

		var item listItem
		if err := snap.DataTo(&item); err != nil {
			return nil, goerr.Wrap(err, "failed to decode list item",
				goerr.V("key", key), goerr.V("doc_id", snap.Ref.ID))
		}
		values = append(values, item.Value)
	}
	return values, nil
}

type txWriter struct {
	mutations []mutation
}

func (w *txWriter) SAdd(key string, members ...string) error {
	w.mutations = append(w.mutations, saddMutation(key, members))
	return nil
}

func (w *txWriter) SRem(key string, members ...string) error {
	w.mutations = append(w.mutations, sremMutation(key, members))
	return nil
}

func (w *txWriter) HSet(key string, field, value string) error {
	w.mutations = append(w.mutations, hsetMutation(key, field, value))
	return nil
}

func (w *txWriter) HDel(key string, fields ...string) error {
	w.mutations = append(w.mutations, hdelMutation(key, fields))
	return nil
}

// Tx collects the writes and commits them in a single Firestore transaction
func (f *Firestore) Tx(ctx context.Context, fn func(w interfaces.KVWriter) error) error {
	w := &txWriter{}
	if err := fn(w); err != nil {
		return goerr.Wrap(err, "transaction aborted")
	}
	if err := f.update(ctx, w.mutations); err != nil {
		return goerr.Wrap(err, "failed to run firestore transaction")
	}
	return nil
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
