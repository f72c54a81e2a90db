package firestore

// HashFieldsForTest applies HSet calls to a fresh key document and returns
// the stored field order
func HashFieldsForTest(pairs ...[2]string) []string {
	d := &document{}
	for _, p := range pairs {
		d.hset(p[0], p[1])
	}
	fields := make([]string, len(d.Hash))
	for i, h := range d.Hash {
		fields[i] = h.Field
	}
	return fields
}

// HashGetForTest applies HSet calls and reads one field back
func HashGetForTest(field string, pairs ...[2]string) (string, bool) {
	d := &document{}
	for _, p := range pairs {
		d.hset(p[0], p[1])
	}
	return d.hget(field)
}

var ItemIDForTest = itemID
