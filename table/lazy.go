package table

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/oceanlake/oceanlake/oceanlake"
)

// Partition produces one batch of a lazy table when evaluated.
type Partition func(ctx context.Context) (*Batch, error)

// Lazy is a logically partitioned table whose partitions are evaluated only
// when collected or iterated. Partitions are independent pure functions, so
// Collect and EstimateMemory may evaluate them in parallel.
type Lazy struct {
	schema oceanlake.Schema
	parts  []Partition
}

func NewLazy(schema oceanlake.Schema, parts []Partition) *Lazy {
	return &Lazy{schema: schema, parts: parts}
}

func (l *Lazy) Schema() oceanlake.Schema {
	return l.schema
}

func (l *Lazy) NumPartitions() int {
	return len(l.parts)
}

// Map derives a new lazy table that applies fn to every evaluated partition.
// newSchema describes the batches fn produces.
func (l *Lazy) Map(newSchema oceanlake.Schema, fn func(*Batch) (*Batch, error)) *Lazy {
	parts := make([]Partition, len(l.parts))
	for i := range l.parts {
		inner := l.parts[i]
		parts[i] = func(ctx context.Context) (*Batch, error) {
			batch, err := inner(ctx)
			if err != nil {
				return nil, err
			}
			return fn(batch)
		}
	}
	return NewLazy(newSchema, parts)
}

// Concat chains lazy tables row-wise. All inputs must share one schema; the
// caller is responsible for aligning them first.
func Concat(tables ...*Lazy) (*Lazy, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("nothing to concatenate")
	}
	schema := tables[0].schema
	var parts []Partition
	for i, t := range tables {
		if len(t.schema.Fields) != len(schema.Fields) {
			return nil, fmt.Errorf("table %d has %d columns, expected %d", i, len(t.schema.Fields), len(schema.Fields))
		}
		for c := range schema.Fields {
			if t.schema.Fields[c].Name != schema.Fields[c].Name || t.schema.Fields[c].Type != schema.Fields[c].Type {
				return nil, fmt.Errorf("table %d column %d is %s %s, expected %s %s",
					i, c, t.schema.Fields[c].Name, t.schema.Fields[c].Type, schema.Fields[c].Name, schema.Fields[c].Type)
			}
		}
		parts = append(parts, t.parts...)
	}
	return NewLazy(schema, parts), nil
}

func (l *Lazy) evaluate(ctx context.Context) ([]*Batch, error) {
	batches := make([]*Batch, len(l.parts))
	g, ctx := errgroup.WithContext(ctx)
	for i := range l.parts {
		i := i
		g.Go(func() error {
			batch, err := l.parts[i](ctx)
			if err != nil {
				return fmt.Errorf("couldn't evaluate partition %d: %w", i, err)
			}
			batches[i] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

// Collect evaluates all partitions and materializes the table, preserving
// partition order.
func (l *Lazy) Collect(ctx context.Context) (*Batch, error) {
	batches, err := l.evaluate(ctx)
	if err != nil {
		return nil, err
	}
	return concatBatches(l.schema, batches)
}

// Rows evaluates partitions one at a time and streams their rows in order.
func (l *Lazy) Rows(ctx context.Context, fn func(row []oceanlake.Value) error) error {
	for i := range l.parts {
		batch, err := l.parts[i](ctx)
		if err != nil {
			return fmt.Errorf("couldn't evaluate partition %d: %w", i, err)
		}
		if err := batch.Rows(ctx, fn); err != nil {
			return err
		}
	}
	return nil
}

// EstimateMemory evaluates the table and sums the deep in-memory size of
// every partition. It exists to drive the "materialize small results"
// heuristic, not to be cheap on huge tables.
func (l *Lazy) EstimateMemory(ctx context.Context) (int64, error) {
	var total int64
	g, ctx := errgroup.WithContext(ctx)
	for i := range l.parts {
		i := i
		g.Go(func() error {
			batch, err := l.parts[i](ctx)
			if err != nil {
				return fmt.Errorf("couldn't evaluate partition %d: %w", i, err)
			}
			atomic.AddInt64(&total, batch.SizeBytes())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return total, nil
}
