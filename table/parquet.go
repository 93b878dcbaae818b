package table

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/oceanlake/oceanlake/filters"
	"github.com/oceanlake/oceanlake/oceanlake"
)

// ReadSchema reads the declared schema of a parquet file from its footer.
func ReadSchema(path string) (oceanlake.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return oceanlake.Schema{}, fmt.Errorf("couldn't open file: %w", err)
	}
	defer f.Close()

	size, err := statSize(f)
	if err != nil {
		return oceanlake.Schema{}, fmt.Errorf("couldn't stat file: %w", err)
	}
	pf, err := parquet.OpenFile(f, size)
	if err != nil {
		return oceanlake.Schema{}, fmt.Errorf("couldn't open parquet file: %w", err)
	}

	return schemaOfParquet(pf.Schema())
}

func schemaOfParquet(schema *parquet.Schema) (oceanlake.Schema, error) {
	parquetFields := schema.Fields()
	fields := make([]oceanlake.SchemaField, len(parquetFields))
	for i, field := range parquetFields {
		t, err := typeOfNode(field)
		if err != nil {
			return oceanlake.Schema{}, fmt.Errorf("column '%s': %w", field.Name(), err)
		}
		fields[i] = oceanlake.SchemaField{Name: field.Name(), Type: t}
	}
	return oceanlake.NewSchema(fields), nil
}

// typeOfNode maps a parquet leaf onto the canonical type set. Logical type
// annotations take precedence over the raw physical kind.
func typeOfNode(node parquet.Node) (oceanlake.TypeID, error) {
	if !node.Leaf() {
		return 0, fmt.Errorf("nested columns are not supported")
	}

	if lt := node.Type().LogicalType(); lt != nil {
		switch {
		case lt.UTF8 != nil:
			return oceanlake.TypeIDString, nil
		case lt.Timestamp != nil:
			return oceanlake.TypeIDTimestamp, nil
		case lt.Integer != nil:
			if lt.Integer.IsSigned {
				switch lt.Integer.BitWidth {
				case 8:
					return oceanlake.TypeIDInt8, nil
				case 16:
					return oceanlake.TypeIDInt16, nil
				case 32:
					return oceanlake.TypeIDInt32, nil
				case 64:
					return oceanlake.TypeIDInt64, nil
				}
			} else {
				switch lt.Integer.BitWidth {
				case 8:
					return oceanlake.TypeIDUInt8, nil
				case 16:
					return oceanlake.TypeIDUInt16, nil
				case 32:
					return oceanlake.TypeIDUInt32, nil
				case 64:
					return oceanlake.TypeIDUInt64, nil
				}
			}
		}
	}

	switch node.Type().Kind() {
	case parquet.Boolean:
		return oceanlake.TypeIDBoolean, nil
	case parquet.Int32:
		return oceanlake.TypeIDInt32, nil
	case parquet.Int64:
		return oceanlake.TypeIDInt64, nil
	case parquet.Float:
		return oceanlake.TypeIDFloat32, nil
	case parquet.Double:
		return oceanlake.TypeIDFloat64, nil
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return oceanlake.TypeIDString, nil
	}
	return 0, fmt.Errorf("unsupported parquet kind %s", node.Type().Kind())
}

// timestampNanosFactor returns the multiplier from the stored integer to
// nanoseconds for a timestamp column.
func timestampNanosFactor(node parquet.Node) int64 {
	if lt := node.Type().LogicalType(); lt != nil && lt.Timestamp != nil {
		switch {
		case lt.Timestamp.Unit.Millis != nil:
			return int64(time.Millisecond)
		case lt.Timestamp.Unit.Micros != nil:
			return int64(time.Microsecond)
		}
	}
	return 1
}

type leafColumn struct {
	index       int
	nanosFactor int64
}

// readFile evaluates one partition: reads path restricted to scanSchema's
// columns, applies filter row by row, and returns a column-major batch.
func readFile(ctx context.Context, path string, scanSchema oceanlake.Schema, filter filters.Expression) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open file: %w", err)
	}
	defer f.Close()

	size, err := statSize(f)
	if err != nil {
		return nil, fmt.Errorf("couldn't stat file: %w", err)
	}
	pf, err := parquet.OpenFile(f, size)
	if err != nil {
		return nil, fmt.Errorf("couldn't open parquet file: %w", err)
	}

	fileFields := pf.Schema().Fields()
	numLeaves := len(fileFields)
	leafByName := make(map[string]leafColumn, numLeaves)
	for i, field := range fileFields {
		if !field.Leaf() {
			return nil, fmt.Errorf("nested column '%s' in file %s", field.Name(), path)
		}
		leafByName[field.Name()] = leafColumn{index: i, nanosFactor: timestampNanosFactor(field)}
	}

	projected := make([]leafColumn, len(scanSchema.Fields))
	for i, field := range scanSchema.Fields {
		leaf, ok := leafByName[field.Name]
		if !ok {
			return nil, fmt.Errorf("no column '%s' in file %s", field.Name, path)
		}
		projected[i] = leaf
	}

	columns := make([][]oceanlake.Value, len(scanSchema.Fields))
	rowsKept := 0
	cells := make([]oceanlake.Value, len(scanSchema.Fields))
	lookup := func(column string) (oceanlake.Value, bool) {
		if i := scanSchema.IndexOf(column); i >= 0 {
			return cells[i], true
		}
		return oceanlake.Value{}, false
	}

	rowCells := make([]parquet.Value, numLeaves)
	buffer := make([]parquet.Row, 64)
	for _, rowGroup := range pf.RowGroups() {
		rows := rowGroup.Rows()
		for {
			select {
			case <-ctx.Done():
				rows.Close()
				return nil, ctx.Err()
			default:
			}

			n, err := rows.ReadRows(buffer)
			for _, row := range buffer[:n] {
				for i := range rowCells {
					rowCells[i] = parquet.Value{}
				}
				for _, v := range row {
					if c := v.Column(); c >= 0 && c < numLeaves {
						rowCells[c] = v
					}
				}
				for i, leaf := range projected {
					cells[i] = cellOfParquet(rowCells[leaf.index], scanSchema.Fields[i].Type, leaf.nanosFactor)
				}
				if filter != nil && !filter.Matches(lookup) {
					continue
				}
				rowsKept++
				for i := range cells {
					columns[i] = append(columns[i], cells[i])
				}
			}
			if err == io.EOF {
				break
			} else if err != nil {
				rows.Close()
				return nil, fmt.Errorf("couldn't read rows from %s: %w", path, err)
			}
		}
		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("couldn't close row reader of %s: %w", path, err)
		}
	}

	if len(scanSchema.Fields) == 0 {
		// Zero-column projection still has rows; keep the count for padding.
		return NewRowCountBatch(scanSchema, rowsKept), nil
	}
	return NewBatch(scanSchema, columns)
}

// cellOfParquet decodes one parquet value as the declared canonical type.
func cellOfParquet(v parquet.Value, t oceanlake.TypeID, nanosFactor int64) oceanlake.Value {
	if v.IsNull() {
		return oceanlake.NewNull(t)
	}
	switch t {
	case oceanlake.TypeIDInt8:
		return oceanlake.NewInt8(int8(v.Int32()))
	case oceanlake.TypeIDInt16:
		return oceanlake.NewInt16(int16(v.Int32()))
	case oceanlake.TypeIDInt32:
		return oceanlake.NewInt32(v.Int32())
	case oceanlake.TypeIDInt64:
		return oceanlake.NewInt64(v.Int64())
	case oceanlake.TypeIDUInt8:
		return oceanlake.NewUInt8(uint8(v.Int32()))
	case oceanlake.TypeIDUInt16:
		return oceanlake.NewUInt16(uint16(v.Int32()))
	case oceanlake.TypeIDUInt32:
		return oceanlake.NewUInt32(uint32(v.Int32()))
	case oceanlake.TypeIDUInt64:
		return oceanlake.NewUInt64(uint64(v.Int64()))
	case oceanlake.TypeIDBoolean:
		return oceanlake.NewBoolean(v.Boolean())
	case oceanlake.TypeIDFloat32:
		return oceanlake.NewFloat32(v.Float())
	case oceanlake.TypeIDFloat64:
		return oceanlake.NewFloat64(v.Double())
	case oceanlake.TypeIDString:
		return oceanlake.NewString(string(v.ByteArray()))
	case oceanlake.TypeIDTimestamp:
		return oceanlake.NewTimestamp(time.Unix(0, v.Int64()*nanosFactor).UTC())
	}
	panic("impossible, type switch bug")
}
