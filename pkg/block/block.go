// Package block implements the in-memory data unit of the execution
// pipeline: an ordered set of named, typed, equal-length columns with O(1)
// lookup by position and by name.
//
// A Block is a single-owner value. It is moved or cloned across stage
// boundaries and never mutated concurrently, so it carries no internal
// synchronization. Cloning rebuilds the index structures but shares the
// underlying column-data containers.
//
// Positions are dense (0..Columns()-1). Insert and erase shift every
// position at or above the mutation point by one; callers must not retain
// positions across a mutating call.
package block

import (
	"github.com/vireodb/vireo/pkg/column"
	"github.com/vireodb/vireo/pkg/errors"
	stringpool "github.com/vireodb/vireo/pkg/strings"
)

// Entry is one column of a block: a name unique within the block, a type
// descriptor, and a data container. The container may be nil during partial
// construction (see RowsInFirstColumn).
type Entry struct {
	Name string
	Type column.Type
	Data column.Data
}

// CloneEmpty returns the same name/type with a fresh zero-row container.
func (e Entry) CloneEmpty() Entry {
	clone := Entry{Name: e.Name, Type: e.Type}
	if e.Data != nil {
		clone.Data = e.Data.CloneEmpty()
	} else if e.Type != nil {
		clone.Data = e.Type.NewData()
	}
	return clone
}

// NameAndType is the schema projection of an entry.
type NameAndType struct {
	Name string
	Type column.Type
}

// Block is an ordered collection of column entries indexed both by dense
// position and by unique name. The two access paths always resolve to the
// same entry; every mutation updates both before returning.
type Block struct {
	entries []Entry
	byName  map[string]int
}

// New creates an empty block.
func New() *Block {
	return &Block{byName: make(map[string]int)}
}

// NewWithCapacity creates an empty block with room for n columns.
func NewWithCapacity(n int) *Block {
	return &Block{
		entries: make([]Entry, 0, n),
		byName:  make(map[string]int, n),
	}
}

// Columns returns the number of columns.
func (b *Block) Columns() int { return len(b.entries) }

// Insert appends an entry, updating both indexes.
func (b *Block) Insert(e Entry) {
	if b.byName == nil {
		b.byName = make(map[string]int)
	}
	b.byName[e.Name] = len(b.entries)
	b.entries = append(b.entries, e)
}

// InsertAt inserts an entry before position. position == Columns() behaves
// as Insert. Every position >= position shifts up by one.
func (b *Block) InsertAt(position int, e Entry) error {
	if position < 0 || position > len(b.entries) {
		return errors.Newf(errors.ErrorTypeOutOfBound,
			"position %d is out of bound in block insert, max position: %d",
			position, len(b.entries))
	}

	if position == len(b.entries) {
		b.Insert(e)
		return nil
	}

	b.entries = append(b.entries, Entry{})
	copy(b.entries[position+1:], b.entries[position:])
	b.entries[position] = e

	for i := position + 1; i < len(b.entries); i++ {
		b.byName[b.entries[i].Name] = i
	}
	b.byName[e.Name] = position

	return nil
}

// InsertUnique appends the entry unless a column with that name exists.
func (b *Block) InsertUnique(e Entry) {
	if _, ok := b.byName[e.Name]; ok {
		return
	}
	b.Insert(e)
}

// InsertDefault materializes a full-size column of the given type filled
// with the type's default value, sized to the block's current row count,
// and appends it. Used to backfill columns a downstream consumer expects.
func (b *Block) InsertDefault(name string, t column.Type) error {
	rows, err := b.Rows()
	if err != nil {
		return err
	}

	data := t.NewData()
	data.AppendDefault(rows)
	b.Insert(Entry{Name: name, Type: t, Data: data})
	return nil
}

// AddDefaults backfills every required column the block is missing.
func (b *Block) AddDefaults(required []NameAndType) error {
	for _, nt := range required {
		if b.Has(nt.Name) {
			continue
		}
		if err := b.InsertDefault(nt.Name, nt.Type); err != nil {
			return err
		}
	}
	return nil
}

// EraseAt removes the entry at position. Every position above it shifts
// down by one.
func (b *Block) EraseAt(position int) error {
	if position < 0 || position >= len(b.entries) {
		return errors.Newf(errors.ErrorTypeOutOfBound,
			"position %d is out of bound in block erase, max position: %d",
			position, len(b.entries)-1)
	}

	delete(b.byName, b.entries[position].Name)
	b.entries = append(b.entries[:position], b.entries[position+1:]...)

	for i := position; i < len(b.entries); i++ {
		b.byName[b.entries[i].Name] = i
	}

	return nil
}

// Erase removes the named entry.
func (b *Block) Erase(name string) error {
	position, ok := b.byName[name]
	if !ok {
		return errors.Newf(errors.ErrorTypeNotFound,
			"no column %q in block to erase, there are columns: %s", name, b.DumpNames())
	}
	return b.EraseAt(position)
}

// ByPosition returns the entry at position for direct access.
func (b *Block) ByPosition(position int) (*Entry, error) {
	if position < 0 || position >= len(b.entries) {
		return nil, errors.Newf(errors.ErrorTypeOutOfBound,
			"position %d is out of bound in block, max position: %d, there are columns: %s",
			position, len(b.entries)-1, b.DumpNames())
	}
	return &b.entries[position], nil
}

// ByName returns the named entry for direct access.
func (b *Block) ByName(name string) (*Entry, error) {
	position, ok := b.byName[name]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound,
			"column %q not found in block, there are columns: %s", name, b.DumpNames())
	}
	return &b.entries[position], nil
}

// Has reports whether the block holds a column with the given name.
func (b *Block) Has(name string) bool {
	_, ok := b.byName[name]
	return ok
}

// PositionOf returns the current position of the named column. The result
// is invalidated by any subsequent insert or erase at or before it.
func (b *Block) PositionOf(name string) (int, error) {
	position, ok := b.byName[name]
	if !ok {
		return 0, errors.Newf(errors.ErrorTypeNotFound,
			"column %q not found in block, there are columns: %s", name, b.DumpNames())
	}
	return position, nil
}

// Rows scans all columns and returns the common row count. A non-zero size
// disagreeing with a previously observed non-zero size is a structural
// error naming both columns. Zero-size columns never conflict; a block of
// only zero-size columns has zero rows.
func (b *Block) Rows() (int, error) {
	rows := 0
	first := ""

	for _, e := range b.entries {
		if e.Data == nil {
			continue
		}

		size := e.Data.Len()
		if size == 0 {
			continue
		}

		if rows != 0 && size != rows {
			return 0, errors.Newf(errors.ErrorTypeSizeMismatch,
				"sizes of columns do not match: %s: %d, %s: %d", first, rows, e.Name, size)
		}

		rows = size
		if first == "" {
			first = e.Name
		}
	}

	return rows, nil
}

// RowsInFirstColumn returns the row count of the first column whose data
// container is present, or 0 if none are. A tolerant variant of Rows used
// where partial construction is expected.
func (b *Block) RowsInFirstColumn() int {
	for _, e := range b.entries {
		if e.Data != nil {
			return e.Data.Len()
		}
	}
	return 0
}

// ByteSize returns the sum of the columns' byte footprints.
func (b *Block) ByteSize() int64 {
	var total int64
	for _, e := range b.entries {
		if e.Data != nil {
			total += e.Data.ByteSize()
		}
	}
	return total
}

// CloneEmpty returns a block with the same ordered name/type sequence and
// zero-row containers.
func (b *Block) CloneEmpty() *Block {
	clone := NewWithCapacity(len(b.entries))
	for _, e := range b.entries {
		clone.Insert(e.CloneEmpty())
	}
	return clone
}

// Clone returns a shallow copy: data containers are shared, index
// structures are rebuilt.
func (b *Block) Clone() *Block {
	clone := NewWithCapacity(len(b.entries))
	for _, e := range b.entries {
		clone.Insert(e)
	}
	return clone
}

// NamesAndTypes returns the ordered schema of the block.
func (b *Block) NamesAndTypes() []NameAndType {
	schema := make([]NameAndType, 0, len(b.entries))
	for _, e := range b.entries {
		schema = append(schema, NameAndType{Name: e.Name, Type: e.Type})
	}
	return schema
}

// DumpNames returns the comma-joined column names for diagnostics.
func (b *Block) DumpNames() string {
	names := make([]string, 0, len(b.entries))
	for _, e := range b.entries {
		names = append(names, e.Name)
	}
	return stringpool.Join(names, ", ")
}

// DumpStructure returns a comma-joined "name type container size" listing.
func (b *Block) DumpStructure() string {
	parts := make([]string, 0, len(b.entries))
	for _, e := range b.entries {
		kind := "nil"
		size := 0
		if e.Data != nil {
			kind = e.Data.Kind().String()
			size = e.Data.Len()
		}
		parts = append(parts, stringpool.Sprintf("%s %s %s %d", e.Name, e.Type.Name(), kind, size))
	}
	return stringpool.Join(parts, ", ")
}

// Clear removes all entries and resets both indexes.
func (b *Block) Clear() {
	b.entries = nil
	b.byName = make(map[string]int)
}

// Swap exchanges the entire contents of two blocks in O(1).
func (b *Block) Swap(other *Block) {
	b.entries, other.entries = other.entries, b.entries
	b.byName, other.byName = other.byName, b.byName
}

// EqualStructure reports whether two blocks have the same column count and,
// pairwise in position order, identical type names. Column names are not
// compared.
func EqualStructure(lhs, rhs *Block) bool {
	if lhs.Columns() != rhs.Columns() {
		return false
	}

	for i := range lhs.entries {
		if lhs.entries[i].Type.Name() != rhs.entries[i].Type.Name() {
			return false
		}
	}

	return true
}

// CompatibleStructure reports whether two blocks have the same column count
// and pairwise compatible types: both numeric-like, both string-like, or
// identical by name. Used when merging streams whose exact types may differ,
// e.g. differing integer widths. Column names are not compared.
func CompatibleStructure(lhs, rhs *Block) bool {
	if lhs.Columns() != rhs.Columns() {
		return false
	}

	for i := range lhs.entries {
		if !column.Compatible(lhs.entries[i].Type, rhs.entries[i].Type) {
			return false
		}
	}

	return true
}
