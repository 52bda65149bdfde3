package block_test

import (
	"testing"

	"github.com/vireodb/vireo/pkg/block"
	"github.com/vireodb/vireo/pkg/column"
	"github.com/vireodb/vireo/pkg/errors"
	"github.com/vireodb/vireo/pkg/testutil"
)

func arrayDataOf(t *testing.T, b *block.Block, name string) *column.ArrayData {
	t.Helper()

	e, err := b.ByName(name)
	if err != nil {
		t.Fatalf("ByName(%q): %v", name, err)
	}
	arr, ok := e.Data.(*column.ArrayData)
	if !ok {
		t.Fatalf("column %q is not an array column", name)
	}
	return arr
}

func TestCheckNestedOffsets(t *testing.T) {
	b := testutil.BlockOf(
		testutil.ArrayInt64Entry(t, "n.x", []int64{1, 2}, []int64{3, 4, 5}),
		testutil.ArrayInt64Entry(t, "n.y", []int64{6, 7}, []int64{8, 9, 10}),
		testutil.Int64Entry(t, "scalar", 1, 2),
	)

	if err := b.CheckNestedOffsets(); err != nil {
		t.Fatalf("CheckNestedOffsets on consistent group: %v", err)
	}
}

func TestCheckNestedOffsetsMismatch(t *testing.T) {
	// offsets [2, 5] vs [3, 5]: same totals, different row boundaries.
	b := testutil.BlockOf(
		testutil.ArrayInt64Entry(t, "n.x", []int64{1, 2}, []int64{3, 4, 5}),
		testutil.ArrayInt64Entry(t, "n.y", []int64{6, 7, 8}, []int64{9, 10}),
	)

	err := b.CheckNestedOffsets()
	if !errors.IsType(err, errors.ErrorTypeSizeMismatch) {
		t.Fatalf("CheckNestedOffsets error = %v, want size_mismatch", err)
	}
	if msg := err.Error(); !contains(msg, `"n"`) || !contains(msg, `"n.y"`) {
		t.Fatalf("mismatch message %q does not name the group and offending column", msg)
	}
}

func TestCheckNestedOffsetsSeparateGroups(t *testing.T) {
	// Different groups never compare against each other.
	b := testutil.BlockOf(
		testutil.ArrayInt64Entry(t, "a.x", []int64{1, 2}),
		testutil.ArrayInt64Entry(t, "b.x", []int64{1}, []int64{2}, []int64{3}),
	)

	if err := b.CheckNestedOffsets(); err != nil {
		t.Fatalf("CheckNestedOffsets across groups: %v", err)
	}
}

func TestOptimizeNestedOffsets(t *testing.T) {
	b := testutil.BlockOf(
		testutil.ArrayInt64Entry(t, "n.x", []int64{1, 2}, []int64{3, 4, 5}),
		testutil.ArrayInt64Entry(t, "n.y", []int64{6, 7}, []int64{8, 9, 10}),
		testutil.ArrayInt64Entry(t, "n.z", []int64{1, 1}, []int64{2, 2, 2}),
	)

	if err := b.OptimizeNestedOffsets(); err != nil {
		t.Fatalf("OptimizeNestedOffsets: %v", err)
	}

	first := arrayDataOf(t, b, "n.x")
	for _, name := range []string{"n.y", "n.z"} {
		arr := arrayDataOf(t, b, name)
		if arr.Offsets() != first.Offsets() {
			t.Fatalf("column %q does not share the group's offsets instance", name)
		}
	}
}

func TestOptimizeNestedOffsetsMismatchLeavesBlockUntouched(t *testing.T) {
	b := testutil.BlockOf(
		testutil.ArrayInt64Entry(t, "n.x", []int64{1, 2}, []int64{3, 4, 5}),
		testutil.ArrayInt64Entry(t, "n.y", []int64{6, 7, 8}, []int64{9, 10}),
	)

	err := b.OptimizeNestedOffsets()
	if !errors.IsType(err, errors.ErrorTypeSizeMismatch) {
		t.Fatalf("OptimizeNestedOffsets error = %v, want size_mismatch", err)
	}

	x := arrayDataOf(t, b, "n.x")
	y := arrayDataOf(t, b, "n.y")
	if x.Offsets() == y.Offsets() {
		t.Fatal("mismatching columns must not share offsets after a failed optimize")
	}
}
