package firestore_test

import (
	"slices"
	"testing"

	"github.com/caeleel/friendbook/pkg/repository/firestore"
	"github.com/m-mizutani/gt"
)

func TestHashFieldsStaySorted(t *testing.T) {
	fields := firestore.HashFieldsForTest(
		[2]string{"Sam.Smith", "id-3"},
		[2]string{"Alex", "id-1"},
		[2]string{"Jo", "id-2"},
		[2]string{"Alex", "id-4"},
	)
	gt.Value(t, fields).Equal([]string{"Alex", "Jo", "Sam.Smith"})

	value, found := firestore.HashGetForTest("Alex",
		[2]string{"Sam.Smith", "id-3"},
		[2]string{"Alex", "id-1"},
		[2]string{"Alex", "id-4"},
	)
	gt.Bool(t, found).True()
	gt.Value(t, value).Equal("id-4")

	_, found = firestore.HashGetForTest("Al", [2]string{"Alex", "id-1"})
	gt.Bool(t, found).False()
}

func TestListItemIDsSortBySequence(t *testing.T) {
	seqs := []int64{0, 9, 10, 99, 100, 12345, 1 << 40}
	ids := make([]string, len(seqs))
	for i, seq := range seqs {
		ids[i] = firestore.ItemIDForTest(seq)
	}

	gt.Bool(t, slices.IsSorted(ids)).True()
	for _, id := range ids {
		gt.Number(t, len(id)).Equal(19)
	}
}
