package block

import (
	"github.com/vireodb/vireo/pkg/column"
	"github.com/vireodb/vireo/pkg/errors"
)

// CheckNestedOffsets verifies that all array columns belonging to one
// nested group agree element-wise on their offset vectors.
func (b *Block) CheckNestedOffsets() error {
	groups := make(map[string]*column.ArrayData)

	for _, e := range b.entries {
		arr, ok := e.Data.(*column.ArrayData)
		if !ok {
			continue
		}

		group := column.NestedGroup(e.Name)
		first, seen := groups[group]
		if !seen {
			groups[group] = arr
			continue
		}

		if !first.HasEqualOffsets(arr) {
			return errors.Newf(errors.ErrorTypeSizeMismatch,
				"sizes of nested arrays do not match in group %q, column %q", group, e.Name)
		}
	}

	return nil
}

// OptimizeNestedOffsets verifies each nested group the same way and then
// rewrites later group members to share the first member's offsets instance,
// collapsing N equal vectors into one and making future consistency
// structural rather than checked.
func (b *Block) OptimizeNestedOffsets() error {
	groups := make(map[string]*column.ArrayData)

	for _, e := range b.entries {
		arr, ok := e.Data.(*column.ArrayData)
		if !ok {
			continue
		}

		group := column.NestedGroup(e.Name)
		first, seen := groups[group]
		if !seen {
			groups[group] = arr
			continue
		}

		if !first.HasEqualOffsets(arr) {
			return errors.Newf(errors.ErrorTypeSizeMismatch,
				"sizes of nested arrays do not match in group %q, column %q", group, e.Name)
		}

		arr.SetOffsets(first.Offsets())
	}

	return nil
}
