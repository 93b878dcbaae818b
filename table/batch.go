package table

import (
	"context"
	"fmt"

	"github.com/oceanlake/oceanlake/oceanlake"
)

// Result is the read-only tabular interface served by both the lazy and the
// materialized representation: schema access and ordered row iteration.
type Result interface {
	Schema() oceanlake.Schema
	Rows(ctx context.Context, fn func(row []oceanlake.Value) error) error
}

// Batch is a fully materialized, column-major table.
type Batch struct {
	schema  oceanlake.Schema
	columns [][]oceanlake.Value
	numRows int
}

// NewBatch builds a batch from one value slice per schema field. All columns
// must have the same length.
func NewBatch(schema oceanlake.Schema, columns [][]oceanlake.Value) (*Batch, error) {
	if len(columns) != len(schema.Fields) {
		return nil, fmt.Errorf("got %d columns for a schema of %d fields", len(columns), len(schema.Fields))
	}
	numRows := 0
	if len(columns) > 0 {
		numRows = len(columns[0])
	}
	for i := range columns {
		if len(columns[i]) != numRows {
			return nil, fmt.Errorf("column '%s' has %d rows, expected %d", schema.Fields[i].Name, len(columns[i]), numRows)
		}
	}
	return &Batch{schema: schema, columns: columns, numRows: numRows}, nil
}

func (b *Batch) Schema() oceanlake.Schema {
	return b.schema
}

func (b *Batch) NumRows() int {
	return b.numRows
}

// Column returns the values of the named column in row order.
func (b *Batch) Column(name string) ([]oceanlake.Value, bool) {
	i := b.schema.IndexOf(name)
	if i < 0 {
		return nil, false
	}
	return b.columns[i], true
}

// Row assembles the i-th row. The returned slice is freshly allocated.
func (b *Batch) Row(i int) []oceanlake.Value {
	row := make([]oceanlake.Value, len(b.columns))
	for c := range b.columns {
		row[c] = b.columns[c][i]
	}
	return row
}

func (b *Batch) Rows(ctx context.Context, fn func(row []oceanlake.Value) error) error {
	for i := 0; i < b.numRows; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := fn(b.Row(i)); err != nil {
			return err
		}
	}
	return nil
}

// SizeBytes is the deep in-memory footprint of the batch.
func (b *Batch) SizeBytes() int64 {
	var total int64
	for c := range b.columns {
		for i := range b.columns[c] {
			total += b.columns[c][i].SizeBytes()
		}
	}
	return total
}

// Fold reduces one column of the batch, for column-wise aggregation.
func (b *Batch) Fold(name string, init oceanlake.Value, fn func(acc, cell oceanlake.Value) oceanlake.Value) (oceanlake.Value, error) {
	column, ok := b.Column(name)
	if !ok {
		return oceanlake.Value{}, fmt.Errorf("no column '%s' in batch", name)
	}
	acc := init
	for i := range column {
		acc = fn(acc, column[i])
	}
	return acc, nil
}

// NewRowCountBatch builds a batch that carries only a row count. It's the
// degenerate shape of a projection onto zero columns, where the rows still
// exist and downstream padding needs to know how many.
func NewRowCountBatch(schema oceanlake.Schema, numRows int) *Batch {
	return &Batch{schema: schema, columns: make([][]oceanlake.Value, len(schema.Fields)), numRows: numRows}
}

func concatBatches(schema oceanlake.Schema, batches []*Batch) (*Batch, error) {
	columns := make([][]oceanlake.Value, len(schema.Fields))
	numRows := 0
	for _, batch := range batches {
		if len(batch.columns) != len(columns) {
			return nil, fmt.Errorf("batch has %d columns, expected %d", len(batch.columns), len(columns))
		}
		for c := range columns {
			columns[c] = append(columns[c], batch.columns[c]...)
		}
		numRows += batch.numRows
	}
	return &Batch{schema: schema, columns: columns, numRows: numRows}, nil
}
