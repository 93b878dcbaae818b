package loader

import (
	"fmt"

	"github.com/oceanlake/oceanlake/catalog"
	"github.com/oceanlake/oceanlake/filters"
	"github.com/oceanlake/oceanlake/oceanlake"
	"github.com/oceanlake/oceanlake/table"
)

// readSource builds the lazy table of one database, already aligned to the
// exposed schema: read with projection and per-source filter pushdown, then
// per partition pad the variables this source lacks, coerce mismatched
// numeric widths onto the global types and reorder the columns.
func (s *Session) readSource(db string, exposed []string, outSchema oceanlake.Schema) (*table.Lazy, []filters.Dropped, error) {
	dir, err := table.OpenDirectory(s.paths[db])
	if err != nil {
		return nil, nil, fmt.Errorf("database %s passed source resolution but can't be opened: %w", db, err)
	}
	physical := dir.Schema()

	var colsToRead []string
	for _, name := range exposed {
		if physical.IndexOf(name) >= 0 {
			colsToRead = append(colsToRead, name)
		}
	}

	perSource, dropped := filters.Normalize(s.filter, colsToRead)

	lazy, err := dir.Scan(colsToRead, perSource)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't scan database %s: %w", db, err)
	}

	aligned := lazy.Map(outSchema, func(batch *table.Batch) (*table.Batch, error) {
		return alignBatch(batch, outSchema, db)
	})
	return aligned, dropped, nil
}

// alignBatch reshapes one read batch onto the exposed schema: variables the
// source stores are coerced to their global type, the source-identifier
// pseudo-column is synthesized, and everything else is padded with typed
// nulls. Column order follows the exposed schema.
func alignBatch(batch *table.Batch, outSchema oceanlake.Schema, db string) (*table.Batch, error) {
	numRows := batch.NumRows()
	columns := make([][]oceanlake.Value, len(outSchema.Fields))

	for i, field := range outSchema.Fields {
		if read, ok := batch.Column(field.Name); ok {
			readField, _ := batch.Schema().Field(field.Name)
			if readField.Type == field.Type {
				columns[i] = read
				continue
			}
			coerced := make([]oceanlake.Value, len(read))
			for r := range read {
				cell, err := read[r].Coerce(field.Type)
				if err != nil {
					return nil, fmt.Errorf("couldn't unify column '%s' of database %s from %s to %s: %w",
						field.Name, db, readField.Type, field.Type, err)
				}
				coerced[r] = cell
			}
			columns[i] = coerced
			continue
		}

		fill := oceanlake.NewNull(field.Type)
		if field.Name == catalog.DBNameVariable {
			fill = oceanlake.NewString(db)
		}
		column := make([]oceanlake.Value, numRows)
		for r := range column {
			column[r] = fill
		}
		columns[i] = column
	}

	return table.NewBatch(outSchema, columns)
}
