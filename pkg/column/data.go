package column

import (
	"github.com/vireodb/vireo/pkg/errors"
)

// Data is a column-data container of some row count. Containers may be
// shared between blocks; the block layer treats them as values with
// copy-on-write discipline and never mutates a container it does not own.
type Data interface {
	Kind() Kind
	Len() int
	ByteSize() int64
	Get(i int) interface{}
	Append(value interface{}) error
	// AppendDefault appends n default-valued rows.
	AppendDefault(n int)
	// CloneEmpty returns a fresh zero-row container of the same shape.
	CloneEmpty() Data
}

// Int32Data stores 32-bit integers.
type Int32Data struct {
	values []int32
}

// NewInt32Data creates an empty Int32 container.
func NewInt32Data() *Int32Data {
	return &Int32Data{values: make([]int32, 0, 1024)}
}

func (c *Int32Data) Kind() Kind { return KindInt32 }
func (c *Int32Data) Len() int { return len(c.values) }
func (c *Int32Data) ByteSize() int64 { return int64(len(c.values) * 4) }
func (c *Int32Data) Get(i int) interface{} { return c.values[i] }

func (c *Int32Data) Append(value interface{}) error {
	switch v := value.(type) {
	case int32:
		c.values = append(c.values, v)
	case int:
		c.values = append(c.values, int32(v))
	default:
		return errors.Newf(errors.ErrorTypeValidation, "expected int32, got %T", value)
	}
	return nil
}

func (c *Int32Data) AppendDefault(n int) {
	for i := 0; i < n; i++ {
		c.values = append(c.values, 0)
	}
}

func (c *Int32Data) CloneEmpty() Data { return NewInt32Data() }

// Int64Data stores 64-bit integers.
type Int64Data struct {
	values []int64
}

// NewInt64Data creates an empty Int64 container.
func NewInt64Data() *Int64Data {
	return &Int64Data{values: make([]int64, 0, 1024)}
}

func (c *Int64Data) Kind() Kind { return KindInt64 }
func (c *Int64Data) Len() int { return len(c.values) }
func (c *Int64Data) ByteSize() int64 { return int64(len(c.values) * 8) }
func (c *Int64Data) Get(i int) interface{} { return c.values[i] }

func (c *Int64Data) Append(value interface{}) error {
	switch v := value.(type) {
	case int64:
		c.values = append(c.values, v)
	case int:
		c.values = append(c.values, int64(v))
	case int32:
		c.values = append(c.values, int64(v))
	default:
		return errors.Newf(errors.ErrorTypeValidation, "expected int64, got %T", value)
	}
	return nil
}

func (c *Int64Data) AppendDefault(n int) {
	for i := 0; i < n; i++ {
		c.values = append(c.values, 0)
	}
}

func (c *Int64Data) CloneEmpty() Data { return NewInt64Data() }

// UInt64Data stores unsigned 64-bit integers.
type UInt64Data struct {
	values []uint64
}

// NewUInt64Data creates an empty UInt64 container.
func NewUInt64Data() *UInt64Data {
	return &UInt64Data{values: make([]uint64, 0, 1024)}
}

func (c *UInt64Data) Kind() Kind { return KindUInt64 }
func (c *UInt64Data) Len() int { return len(c.values) }
func (c *UInt64Data) ByteSize() int64 { return int64(len(c.values) * 8) }
func (c *UInt64Data) Get(i int) interface{} { return c.values[i] }

func (c *UInt64Data) Append(value interface{}) error {
	switch v := value.(type) {
	case uint64:
		c.values = append(c.values, v)
	case uint:
		c.values = append(c.values, uint64(v))
	case int:
		if v < 0 {
			return errors.Newf(errors.ErrorTypeValidation, "negative value %d for uint64 column", v)
		}
		c.values = append(c.values, uint64(v))
	default:
		return errors.Newf(errors.ErrorTypeValidation, "expected uint64, got %T", value)
	}
	return nil
}

func (c *UInt64Data) AppendDefault(n int) {
	for i := 0; i < n; i++ {
		c.values = append(c.values, 0)
	}
}

func (c *UInt64Data) CloneEmpty() Data { return NewUInt64Data() }

// Float64Data stores 64-bit floats.
type Float64Data struct {
	values []float64
}

// NewFloat64Data creates an empty Float64 container.
func NewFloat64Data() *Float64Data {
	return &Float64Data{values: make([]float64, 0, 1024)}
}

func (c *Float64Data) Kind() Kind { return KindFloat64 }
func (c *Float64Data) Len() int { return len(c.values) }
func (c *Float64Data) ByteSize() int64 { return int64(len(c.values) * 8) }
func (c *Float64Data) Get(i int) interface{} { return c.values[i] }

func (c *Float64Data) Append(value interface{}) error {
	switch v := value.(type) {
	case float64:
		c.values = append(c.values, v)
	case float32:
		c.values = append(c.values, float64(v))
	case int:
		c.values = append(c.values, float64(v))
	default:
		return errors.Newf(errors.ErrorTypeValidation, "expected float64, got %T", value)
	}
	return nil
}

func (c *Float64Data) AppendDefault(n int) {
	for i := 0; i < n; i++ {
		c.values = append(c.values, 0)
	}
}

func (c *Float64Data) CloneEmpty() Data { return NewFloat64Data() }

// StringData stores string values.
type StringData struct {
	values []string
}

// NewStringData creates an empty String container.
func NewStringData() *StringData {
	return &StringData{values: make([]string, 0, 1024)}
}

func (c *StringData) Kind() Kind { return KindString }
func (c *StringData) Len() int { return len(c.values) }
func (c *StringData) Get(i int) interface{} { return c.values[i] }

func (c *StringData) ByteSize() int64 {
	var total int64
	for _, v := range c.values {
		total += int64(len(v))
		total += 16 // string header overhead
	}
	return total
}

func (c *StringData) Append(value interface{}) error {
	v, ok := value.(string)
	if !ok {
		return errors.Newf(errors.ErrorTypeValidation, "expected string, got %T", value)
	}
	c.values = append(c.values, v)
	return nil
}

func (c *StringData) AppendDefault(n int) {
	for i := 0; i < n; i++ {
		c.values = append(c.values, "")
	}
}

func (c *StringData) CloneEmpty() Data { return NewStringData() }
