// Package kvutil holds helpers shared by the key-value backends that emulate
// Redis semantics on top of other storage.
package kvutil

// Range converts Redis LRANGE style indexes into a half-open slice window
// [from, to) over a list of length n. Negative indexes count from the tail.
// ok is false when the window is empty.
func Range(n int, start, stop int64) (from, to int, ok bool) {
	size := int64(n)
	if start < 0 {
		start += size
	}
	if stop < 0 {
		stop += size
	}
	if start < 0 {
		start = 0
	}
	if stop >= size {
		stop = size - 1
	}
	if start > stop || start >= size {
		return 0, 0, false
	}
	return int(start), int(stop) + 1, true
}
