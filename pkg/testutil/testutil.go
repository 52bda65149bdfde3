// Package testutil provides testing utilities for Vireo
package testutil

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/vireodb/vireo/pkg/block"
	"github.com/vireodb/vireo/pkg/column"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// Int64Entry builds an Int64 column entry from literal values.
func Int64Entry(t *testing.T, name string, values ...int64) block.Entry {
	t.Helper()

	data := column.NewInt64Data()
	for _, v := range values {
		if err := data.Append(v); err != nil {
			t.Fatalf("append to %s: %v", name, err)
		}
	}
	return block.Entry{Name: name, Type: column.Int64, Data: data}
}

// Int32Entry builds an Int32 column entry from literal values.
func Int32Entry(t *testing.T, name string, values ...int32) block.Entry {
	t.Helper()

	data := column.NewInt32Data()
	for _, v := range values {
		if err := data.Append(v); err != nil {
			t.Fatalf("append to %s: %v", name, err)
		}
	}
	return block.Entry{Name: name, Type: column.Int32, Data: data}
}

// StringEntry builds a String column entry from literal values.
func StringEntry(t *testing.T, name string, values ...string) block.Entry {
	t.Helper()

	data := column.NewStringData()
	for _, v := range values {
		if err := data.Append(v); err != nil {
			t.Fatalf("append to %s: %v", name, err)
		}
	}
	return block.Entry{Name: name, Type: column.String, Data: data}
}

// ArrayInt64Entry builds an Array(Int64) column entry from literal rows.
func ArrayInt64Entry(t *testing.T, name string, rows ...[]int64) block.Entry {
	t.Helper()

	data := column.NewArrayData(column.NewInt64Data())
	for _, row := range rows {
		elems := make([]interface{}, len(row))
		for i, v := range row {
			elems[i] = v
		}
		if err := data.Append(elems); err != nil {
			t.Fatalf("append to %s: %v", name, err)
		}
	}
	return block.Entry{Name: name, Type: column.Array(column.Int64), Data: data}
}

// BlockOf assembles a block from entries in order.
func BlockOf(entries ...block.Entry) *block.Block {
	b := block.NewWithCapacity(len(entries))
	for _, e := range entries {
		b.Insert(e)
	}
	return b
}
