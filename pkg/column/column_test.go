package column

import (
	"testing"

	"github.com/vireodb/vireo/pkg/errors"
)

func TestScalarContainers(t *testing.T) {
	ints := NewInt64Data()
	for _, v := range []int64{1, 2, 3} {
		if err := ints.Append(v); err != nil {
			t.Fatalf("Append(%d): %v", v, err)
		}
	}

	if ints.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ints.Len())
	}
	if ints.ByteSize() != 24 {
		t.Fatalf("ByteSize() = %d, want 24", ints.ByteSize())
	}
	if got := ints.Get(1).(int64); got != 2 {
		t.Fatalf("Get(1) = %d, want 2", got)
	}

	err := ints.Append("nope")
	if !errors.IsType(err, errors.ErrorTypeValidation) {
		t.Fatalf("Append of wrong type: err = %v, want validation", err)
	}
	if ints.Len() != 3 {
		t.Fatal("failed append changed the container")
	}

	ints.AppendDefault(2)
	if ints.Len() != 5 || ints.Get(4).(int64) != 0 {
		t.Fatal("AppendDefault did not append zero values")
	}

	clone := ints.CloneEmpty()
	if clone.Len() != 0 || clone.Kind() != KindInt64 {
		t.Fatal("CloneEmpty must produce an empty container of the same kind")
	}
}

func TestStringContainerByteSize(t *testing.T) {
	s := NewStringData()
	if err := s.Append("abcd"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// 4 payload bytes plus the 16-byte header estimate.
	if got := s.ByteSize(); got != 20 {
		t.Fatalf("ByteSize() = %d, want 20", got)
	}
}

func TestUInt64RejectsNegative(t *testing.T) {
	u := NewUInt64Data()
	if err := u.Append(5); err != nil {
		t.Fatalf("Append(5): %v", err)
	}

	err := u.Append(-1)
	if !errors.IsType(err, errors.ErrorTypeValidation) {
		t.Fatalf("Append(-1): err = %v, want validation", err)
	}
}

func TestOffsetsEqual(t *testing.T) {
	a := OffsetsOf(2, 5, 9)
	b := OffsetsOf(2, 5, 9)
	c := OffsetsOf(3, 5, 9)
	d := OffsetsOf(2, 5)

	if !a.Equal(b) {
		t.Fatal("element-wise equal vectors reported unequal")
	}
	if a.Equal(c) || a.Equal(d) {
		t.Fatal("differing vectors reported equal")
	}
	if !a.Equal(a) {
		t.Fatal("vector not equal to itself")
	}
	if a.Last() != 9 || d.Last() != 5 || NewOffsets().Last() != 0 {
		t.Fatal("Last() wrong")
	}
}

func TestArrayData(t *testing.T) {
	arr := NewArrayData(NewInt64Data())

	rows := [][]interface{}{
		{int64(1), int64(2)},
		{},
		{int64(3), int64(4), int64(5)},
	}
	for i, row := range rows {
		if err := arr.Append(row); err != nil {
			t.Fatalf("Append row %d: %v", i, err)
		}
	}

	if arr.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", arr.Len())
	}
	if arr.Offsets().Last() != 5 {
		t.Fatalf("total elements = %d, want 5", arr.Offsets().Last())
	}

	got := arr.Get(2).([]interface{})
	if len(got) != 3 || got[0].(int64) != 3 || got[2].(int64) != 5 {
		t.Fatalf("Get(2) = %v, want [3 4 5]", got)
	}
	if len(arr.Get(1).([]interface{})) != 0 {
		t.Fatal("Get(1) must be the empty row")
	}

	// nil appends an empty array
	if err := arr.Append(nil); err != nil {
		t.Fatalf("Append(nil): %v", err)
	}
	if arr.Len() != 4 || len(arr.Get(3).([]interface{})) != 0 {
		t.Fatal("nil row did not append an empty array")
	}

	arr.AppendDefault(2)
	if arr.Len() != 6 || arr.Offsets().Last() != 5 {
		t.Fatal("AppendDefault must add empty rows without elements")
	}

	err := arr.Append("not a row")
	if !errors.IsType(err, errors.ErrorTypeValidation) {
		t.Fatalf("Append of non-slice: err = %v, want validation", err)
	}
}

func TestArrayDataSetOffsets(t *testing.T) {
	a := NewArrayData(NewInt64Data())
	b := NewArrayData(NewInt64Data())
	for _, arr := range []*ArrayData{a, b} {
		if err := arr.Append([]interface{}{int64(1), int64(2)}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	if !a.HasEqualOffsets(b) {
		t.Fatal("equal offsets reported unequal")
	}
	if a.Offsets() == b.Offsets() {
		t.Fatal("independent columns must not share offsets yet")
	}

	b.SetOffsets(a.Offsets())
	if a.Offsets() != b.Offsets() {
		t.Fatal("SetOffsets must alias the instance")
	}
}

func TestTypeDescriptors(t *testing.T) {
	if Int64.Name() != "Int64" || !Int64.IsNumeric() || Int64.IsString() {
		t.Fatal("Int64 descriptor wrong")
	}
	if String.Name() != "String" || String.IsNumeric() || !String.IsString() {
		t.Fatal("String descriptor wrong")
	}
	if Int64.Default().(int64) != 0 || String.Default().(string) != "" {
		t.Fatal("scalar defaults wrong")
	}

	arr := Array(Int64)
	if arr.Name() != "Array(Int64)" {
		t.Fatalf("array type name = %q", arr.Name())
	}
	if arr.IsNumeric() || arr.IsString() {
		t.Fatal("array type must be neither numeric nor string")
	}
	if arr.NewData().Kind() != KindArray {
		t.Fatal("array NewData kind wrong")
	}
	if Array(Array(String)).Name() != "Array(Array(String))" {
		t.Fatal("nested array type name wrong")
	}
}

func TestCompatible(t *testing.T) {
	cases := []struct {
		lhs, rhs Type
		want     bool
	}{
		{Int32, Int64, true},
		{Int64, Float64, true},
		{String, String, true},
		{Int64, String, false},
		{Array(Int64), Array(Int64), true},
		{Array(Int64), Array(String), false},
		{Array(Int64), Int64, false},
	}

	for _, c := range cases {
		if got := Compatible(c.lhs, c.rhs); got != c.want {
			t.Fatalf("Compatible(%s, %s) = %v, want %v", c.lhs.Name(), c.rhs.Name(), got, c.want)
		}
	}
}

func TestNestedGroup(t *testing.T) {
	cases := map[string]string{
		"n.x":     "n",
		"n.y":     "n",
		"a.b.c":   "a",
		"scalar":  "scalar",
		".hidden": "",
	}

	for name, want := range cases {
		if got := NestedGroup(name); got != want {
			t.Fatalf("NestedGroup(%q) = %q, want %q", name, got, want)
		}
	}
}
