package table

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanlake/oceanlake/filters"
	"github.com/oceanlake/oceanlake/oceanlake"
)

type measurement struct {
	Station string  `parquet:"STATION"`
	Depth   int32   `parquet:"DEPTH"`
	Temp    float64 `parquet:"TEMP"`
}

func writeMeasurements(t *testing.T, path string, rows []measurement) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := parquet.NewGenericWriter[measurement](f)
	if len(rows) > 0 {
		_, err = w.Write(rows)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func measurementDir(t *testing.T, files ...[]measurement) string {
	t.Helper()
	dir := t.TempDir()
	writeMeasurements(t, filepath.Join(dir, MetadataFile), nil)
	for i, rows := range files {
		writeMeasurements(t, filepath.Join(dir, fmt.Sprintf("chunk.%d.parquet", i)), rows)
	}
	return dir
}

func TestOpenDirectory(t *testing.T) {
	dir := measurementDir(t,
		[]measurement{{Station: "a", Depth: 10, Temp: 4.5}},
		[]measurement{{Station: "b", Depth: 200, Temp: 2.0}},
	)

	d, err := OpenDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"STATION", "DEPTH", "TEMP"}, d.Schema().Names())

	depth, ok := d.Schema().Field("DEPTH")
	require.True(t, ok)
	assert.Equal(t, oceanlake.TypeIDInt32, depth.Type)
}

func TestOpenDirectoryWithoutMetadataFails(t *testing.T) {
	dir := t.TempDir()
	writeMeasurements(t, filepath.Join(dir, "chunk.0.parquet"), []measurement{{Station: "a"}})

	_, err := OpenDirectory(dir)
	assert.Error(t, err)
}

func TestOpenDirectoryWithoutDataFails(t *testing.T) {
	dir := t.TempDir()
	writeMeasurements(t, filepath.Join(dir, MetadataFile), nil)

	_, err := OpenDirectory(dir)
	assert.Error(t, err)
}

func TestScanProjectsAndReorders(t *testing.T) {
	dir := measurementDir(t, []measurement{
		{Station: "a", Depth: 10, Temp: 4.5},
		{Station: "b", Depth: 200, Temp: 2.0},
	})
	d, err := OpenDirectory(dir)
	require.NoError(t, err)

	lazy, err := d.Scan([]string{"TEMP", "STATION"}, nil)
	require.NoError(t, err)
	batch, err := lazy.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"TEMP", "STATION"}, batch.Schema().Names())
	assert.Equal(t, []oceanlake.Value{oceanlake.NewFloat64(4.5), oceanlake.NewString("a")}, batch.Row(0))
}

func TestScanUnknownColumnFails(t *testing.T) {
	dir := measurementDir(t, []measurement{{Station: "a"}})
	d, err := OpenDirectory(dir)
	require.NoError(t, err)

	_, err = d.Scan([]string{"SALINITY"}, nil)
	assert.Error(t, err)
}

func TestScanAppliesFilterPerRow(t *testing.T) {
	dir := measurementDir(t, []measurement{
		{Station: "a", Depth: 10, Temp: 4.5},
		{Station: "b", Depth: 200, Temp: 2.0},
		{Station: "c", Depth: 1500, Temp: 1.5},
	})
	d, err := OpenDirectory(dir)
	require.NoError(t, err)

	// A clause on an unprojected column can't resolve its cell, so nothing
	// matches. The loader never builds this shape, Normalize strips it first.
	lazy, err := d.Scan([]string{"STATION"}, filters.Conjunction{
		{Column: "DEPTH", Op: filters.OperatorGreaterEqual, Value: oceanlake.NewInt32(200)},
	})
	require.NoError(t, err)
	empty, err := lazy.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, empty.NumRows())

	lazy, err = d.Scan([]string{"STATION", "DEPTH"}, filters.Conjunction{
		{Column: "DEPTH", Op: filters.OperatorGreaterEqual, Value: oceanlake.NewInt32(200)},
	})
	require.NoError(t, err)
	batch, err := lazy.Collect(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, batch.NumRows())
	stations, _ := batch.Column("STATION")
	assert.Equal(t, "b", stations[0].Str)
	assert.Equal(t, "c", stations[1].Str)
}

func TestScanZeroColumnsKeepsRowCount(t *testing.T) {
	dir := measurementDir(t, []measurement{
		{Station: "a"}, {Station: "b"}, {Station: "c"},
	})
	d, err := OpenDirectory(dir)
	require.NoError(t, err)

	lazy, err := d.Scan(nil, nil)
	require.NoError(t, err)
	batch, err := lazy.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, batch.NumRows())
}

func TestMapTransformsEveryPartition(t *testing.T) {
	dir := measurementDir(t,
		[]measurement{{Station: "a", Temp: 4.5}},
		[]measurement{{Station: "b", Temp: 2.0}},
	)
	d, err := OpenDirectory(dir)
	require.NoError(t, err)
	lazy, err := d.Scan([]string{"TEMP"}, nil)
	require.NoError(t, err)

	doubledSchema := oceanlake.NewSchema([]oceanlake.SchemaField{{Name: "TEMP2", Type: oceanlake.TypeIDFloat64}})
	doubled := lazy.Map(doubledSchema, func(batch *Batch) (*Batch, error) {
		column := make([]oceanlake.Value, batch.NumRows())
		temp, _ := batch.Column("TEMP")
		for i := range column {
			column[i] = oceanlake.NewFloat64(temp[i].Float * 2)
		}
		return NewBatch(doubledSchema, [][]oceanlake.Value{column})
	})

	collected, err := doubled.Collect(context.Background())
	require.NoError(t, err)
	temp2, _ := collected.Column("TEMP2")
	assert.Equal(t, oceanlake.NewFloat64(9), temp2[0])
	assert.Equal(t, oceanlake.NewFloat64(4), temp2[1])
}

func TestConcatRequiresAlignedSchemas(t *testing.T) {
	schemaA := oceanlake.NewSchema([]oceanlake.SchemaField{{Name: "X", Type: oceanlake.TypeIDInt64}})
	schemaB := oceanlake.NewSchema([]oceanlake.SchemaField{{Name: "X", Type: oceanlake.TypeIDFloat64}})

	a := NewLazy(schemaA, nil)
	b := NewLazy(schemaB, nil)
	_, err := Concat(a, b)
	assert.Error(t, err)

	_, err = Concat()
	assert.Error(t, err)
}

func TestConcatPreservesPartitionOrder(t *testing.T) {
	schema := oceanlake.NewSchema([]oceanlake.SchemaField{{Name: "X", Type: oceanlake.TypeIDInt64}})
	part := func(v int64) Partition {
		return func(ctx context.Context) (*Batch, error) {
			return NewBatch(schema, [][]oceanlake.Value{{oceanlake.NewInt64(v)}})
		}
	}

	combined, err := Concat(NewLazy(schema, []Partition{part(1), part(2)}), NewLazy(schema, []Partition{part(3)}))
	require.NoError(t, err)
	assert.Equal(t, 3, combined.NumPartitions())

	batch, err := combined.Collect(context.Background())
	require.NoError(t, err)
	xs, _ := batch.Column("X")
	assert.Equal(t, int64(1), xs[0].Int)
	assert.Equal(t, int64(2), xs[1].Int)
	assert.Equal(t, int64(3), xs[2].Int)
}

func TestRowsStreamsInOrder(t *testing.T) {
	dir := measurementDir(t,
		[]measurement{{Station: "a"}, {Station: "b"}},
		[]measurement{{Station: "c"}},
	)
	d, err := OpenDirectory(dir)
	require.NoError(t, err)
	lazy, err := d.Scan([]string{"STATION"}, nil)
	require.NoError(t, err)

	var stations []string
	err = lazy.Rows(context.Background(), func(row []oceanlake.Value) error {
		stations = append(stations, row[0].Str)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, stations)
}

func TestEstimateMemory(t *testing.T) {
	dir := measurementDir(t, []measurement{
		{Station: "abcd", Depth: 1, Temp: 1},
		{Station: "efgh", Depth: 2, Temp: 2},
	})
	d, err := OpenDirectory(dir)
	require.NoError(t, err)
	lazy, err := d.Scan([]string{"STATION", "DEPTH", "TEMP"}, nil)
	require.NoError(t, err)

	estimate, err := lazy.EstimateMemory(context.Background())
	require.NoError(t, err)

	batch, err := lazy.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, batch.SizeBytes(), estimate)
	assert.Greater(t, estimate, int64(0))
}

func TestCollectHonorsContextCancellation(t *testing.T) {
	schema := oceanlake.NewSchema(nil)
	blocked := NewLazy(schema, []Partition{func(ctx context.Context) (*Batch, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := blocked.Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatchColumnLengthMismatchFails(t *testing.T) {
	schema := oceanlake.NewSchema([]oceanlake.SchemaField{
		{Name: "A", Type: oceanlake.TypeIDInt64},
		{Name: "B", Type: oceanlake.TypeIDInt64},
	})
	_, err := NewBatch(schema, [][]oceanlake.Value{
		{oceanlake.NewInt64(1)},
		{},
	})
	assert.Error(t, err)
}

func TestFold(t *testing.T) {
	schema := oceanlake.NewSchema([]oceanlake.SchemaField{{Name: "X", Type: oceanlake.TypeIDFloat64}})
	batch, err := NewBatch(schema, [][]oceanlake.Value{{
		oceanlake.NewFloat64(1.5), oceanlake.NewFloat64(2.5), oceanlake.NewFloat64(4),
	}})
	require.NoError(t, err)

	sum, err := batch.Fold("X", oceanlake.NewFloat64(0), func(acc, cell oceanlake.Value) oceanlake.Value {
		return oceanlake.NewFloat64(acc.Float + cell.Float)
	})
	require.NoError(t, err)
	assert.Equal(t, oceanlake.NewFloat64(8), sum)

	_, err = batch.Fold("Y", oceanlake.NewFloat64(0), nil)
	assert.Error(t, err)
}
