// Package column provides the typed column-data containers that blocks carry
// through the execution pipeline: scalar containers, nested-array containers
// with shareable offset vectors, and the type descriptors that describe them.
package column

import stringpool "github.com/vireodb/vireo/pkg/strings"

// Kind identifies the concrete container implementation of a column.
type Kind int

const (
	KindInt32 Kind = iota
	KindInt64
	KindUInt64
	KindFloat64
	KindString
	KindArray
)

// String returns the container name used in block structure dumps.
func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "Int32Column"
	case KindInt64:
		return "Int64Column"
	case KindUInt64:
		return "UInt64Column"
	case KindFloat64:
		return "Float64Column"
	case KindString:
		return "StringColumn"
	case KindArray:
		return "ArrayColumn"
	default:
		return "UnknownColumn"
	}
}

// Type describes a column type: its identity name (used by the structure
// predicates), its broad category, its default value, and a factory for an
// empty data container.
type Type interface {
	// Name is the type identity. Two types are "the same" exactly when
	// their names are equal; Int32 and Int64 have different names but the
	// same numeric category.
	Name() string
	Kind() Kind
	IsNumeric() bool
	IsString() bool
	Default() interface{}
	NewData() Data
}

type scalarType struct {
	name    string
	kind    Kind
	numeric bool
	str     bool
	def     interface{}
}

func (t scalarType) Name() string { return t.name }
func (t scalarType) Kind() Kind { return t.kind }
func (t scalarType) IsNumeric() bool { return t.numeric }
func (t scalarType) IsString() bool { return t.str }
func (t scalarType) Default() interface{} { return t.def }

func (t scalarType) NewData() Data {
	switch t.kind {
	case KindInt32:
		return NewInt32Data()
	case KindInt64:
		return NewInt64Data()
	case KindUInt64:
		return NewUInt64Data()
	case KindFloat64:
		return NewFloat64Data()
	default:
		return NewStringData()
	}
}

// Built-in scalar type descriptors.
var (
	Int32   Type = scalarType{name: "Int32", kind: KindInt32, numeric: true, def: int32(0)}
	Int64   Type = scalarType{name: "Int64", kind: KindInt64, numeric: true, def: int64(0)}
	UInt64  Type = scalarType{name: "UInt64", kind: KindUInt64, numeric: true, def: uint64(0)}
	Float64 Type = scalarType{name: "Float64", kind: KindFloat64, numeric: true, def: float64(0)}
	String  Type = scalarType{name: "String", kind: KindString, str: true, def: ""}
)

type arrayType struct {
	elem Type
}

// Array returns the type descriptor for an array of elem.
func Array(elem Type) Type {
	return arrayType{elem: elem}
}

func (t arrayType) Name() string {
	return stringpool.Sprintf("Array(%s)", t.elem.Name())
}

func (t arrayType) Kind() Kind { return KindArray }
func (t arrayType) IsNumeric() bool { return false }
func (t arrayType) IsString() bool { return false }

// Default for an array is the empty array.
func (t arrayType) Default() interface{} { return []interface{}{} }

func (t arrayType) NewData() Data {
	return NewArrayData(t.elem.NewData())
}

// Compatible reports whether two types may be merged across streams: both
// numeric-like, both string-like, or identical by name.
func Compatible(lhs, rhs Type) bool {
	if lhs.IsNumeric() && rhs.IsNumeric() {
		return true
	}

	if lhs.IsString() && rhs.IsString() {
		return true
	}

	return lhs.Name() == rhs.Name()
}
