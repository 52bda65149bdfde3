package pipeline

import (
	"context"

	"github.com/vireodb/vireo/pkg/block"
)

// Project returns an operator that keeps only the named columns, in the
// given order. Missing columns are a fatal not_found error.
func Project(names ...string) Operator {
	return func(_ context.Context, b *block.Block) (*block.Block, error) {
		out := block.NewWithCapacity(len(names))
		for _, name := range names {
			e, err := b.ByName(name)
			if err != nil {
				return nil, err
			}
			out.Insert(*e)
		}
		return out, nil
	}
}

// Backfill returns an operator that inserts default-valued columns for
// every required column the block is missing, so a downstream consumer
// always sees its full schema.
func Backfill(required []block.NameAndType) Operator {
	return func(_ context.Context, b *block.Block) (*block.Block, error) {
		if err := b.AddDefaults(required); err != nil {
			return nil, err
		}
		return b, nil
	}
}

// DropColumn returns an operator that erases the named column.
func DropColumn(name string) Operator {
	return func(_ context.Context, b *block.Block) (*block.Block, error) {
		if err := b.Erase(name); err != nil {
			return nil, err
		}
		return b, nil
	}
}

// ShareNestedOffsets returns an operator that collapses equal nested-array
// offset vectors into shared instances before the block moves downstream.
func ShareNestedOffsets() Operator {
	return func(_ context.Context, b *block.Block) (*block.Block, error) {
		if err := b.OptimizeNestedOffsets(); err != nil {
			return nil, err
		}
		return b, nil
	}
}
