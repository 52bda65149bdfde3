package column

import (
	"strings"

	"github.com/vireodb/vireo/pkg/errors"
)

// Offsets is a cumulative row-count vector for a nested-array column:
// offsets[i] is the total number of elements in rows 0..i. Sibling columns
// of one nested group may share a single Offsets instance by pointer so
// that later consistency is structural rather than checked.
type Offsets struct {
	values []uint64
}

// NewOffsets creates an empty offsets vector.
func NewOffsets() *Offsets {
	return &Offsets{values: make([]uint64, 0, 1024)}
}

// OffsetsOf builds an offsets vector from explicit cumulative values.
func OffsetsOf(values ...uint64) *Offsets {
	o := &Offsets{values: make([]uint64, len(values))}
	copy(o.values, values)
	return o
}

// Len returns the row count described by the vector.
func (o *Offsets) Len() int { return len(o.values) }

// Last returns the total element count, 0 when empty.
func (o *Offsets) Last() uint64 {
	if len(o.values) == 0 {
		return 0
	}
	return o.values[len(o.values)-1]
}

// At returns offsets[i].
func (o *Offsets) At(i int) uint64 { return o.values[i] }

// Push appends a cumulative offset.
func (o *Offsets) Push(v uint64) { o.values = append(o.values, v) }

// Equal reports element-wise equality with other.
func (o *Offsets) Equal(other *Offsets) bool {
	if o == other {
		return true
	}
	if len(o.values) != len(other.values) {
		return false
	}
	for i, v := range o.values {
		if v != other.values[i] {
			return false
		}
	}
	return true
}

// ArrayData stores variable-length arrays as a flat element container plus
// an offsets vector. The offsets pointer may be aliased between the sibling
// columns of one nested group after the block's optimize step.
type ArrayData struct {
	elems   Data
	offsets *Offsets
}

// NewArrayData creates an empty array container over the given element
// container.
func NewArrayData(elems Data) *ArrayData {
	return &ArrayData{elems: elems, offsets: NewOffsets()}
}

func (c *ArrayData) Kind() Kind { return KindArray }
func (c *ArrayData) Len() int { return c.offsets.Len() }

func (c *ArrayData) ByteSize() int64 {
	return c.elems.ByteSize() + int64(c.offsets.Len()*8)
}

// Get returns row i as a []interface{} of its elements.
func (c *ArrayData) Get(i int) interface{} {
	var start uint64
	if i > 0 {
		start = c.offsets.At(i - 1)
	}
	end := c.offsets.At(i)

	row := make([]interface{}, 0, end-start)
	for j := start; j < end; j++ {
		row = append(row, c.elems.Get(int(j)))
	}
	return row
}

// Append appends one row. The value must be a []interface{} of elements
// acceptable to the element container; nil appends an empty array.
func (c *ArrayData) Append(value interface{}) error {
	if value == nil {
		c.offsets.Push(c.offsets.Last())
		return nil
	}

	row, ok := value.([]interface{})
	if !ok {
		return errors.Newf(errors.ErrorTypeValidation, "expected []interface{}, got %T", value)
	}

	for _, elem := range row {
		if err := c.elems.Append(elem); err != nil {
			return err
		}
	}

	c.offsets.Push(c.offsets.Last() + uint64(len(row)))
	return nil
}

// AppendDefault appends n empty arrays.
func (c *ArrayData) AppendDefault(n int) {
	last := c.offsets.Last()
	for i := 0; i < n; i++ {
		c.offsets.Push(last)
	}
}

func (c *ArrayData) CloneEmpty() Data {
	return NewArrayData(c.elems.CloneEmpty())
}

// Elements returns the flat element container.
func (c *ArrayData) Elements() Data { return c.elems }

// Offsets returns the shared offsets vector.
func (c *ArrayData) Offsets() *Offsets { return c.offsets }

// SetOffsets points this column at a shared offsets instance. Callers must
// have verified element-wise equality first; aliasing unequal offsets breaks
// the nested-group invariant.
func (c *ArrayData) SetOffsets(o *Offsets) { c.offsets = o }

// HasEqualOffsets reports whether two array columns agree element-wise on
// their offsets.
func (c *ArrayData) HasEqualOffsets(other *ArrayData) bool {
	return c.offsets.Equal(other.offsets)
}

// NestedGroup extracts the nested-group name from a column name: the prefix
// before the first dot ("a.x" and "a.y" both belong to group "a"). A name
// without a dot is its own singleton group.
func NestedGroup(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}
