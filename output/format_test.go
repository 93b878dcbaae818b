package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanlake/oceanlake/oceanlake"
	"github.com/oceanlake/oceanlake/table"
)

func sampleBatch(t *testing.T) *table.Batch {
	schema := oceanlake.NewSchema([]oceanlake.SchemaField{
		{Name: "PLATFORM_NUMBER", Type: oceanlake.TypeIDString, Units: "identifier"},
		{Name: "TEMP", Type: oceanlake.TypeIDFloat64, Units: "degree_Celsius"},
	})
	batch, err := table.NewBatch(schema, [][]oceanlake.Value{
		{oceanlake.NewString("argo-1"), oceanlake.NewString("argo-2"), oceanlake.NewString("argo-3")},
		{oceanlake.NewFloat64(4.5), oceanlake.NewFloat64(18), oceanlake.NewNull(oceanlake.TypeIDFloat64)},
	})
	require.NoError(t, err)
	return batch
}

func TestTableFormatterIncludesUnitsInHeader(t *testing.T) {
	var buf bytes.Buffer
	err := Print(context.Background(), sampleBatch(t), NewTableFormatter(&buf), 0)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "TEMP [degree_Celsius]")
	assert.Contains(t, out, "argo-1")
	assert.Contains(t, out, "<null>")
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := Print(context.Background(), sampleBatch(t), NewCSVFormatter(&buf), 0)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "PLATFORM_NUMBER,TEMP", lines[0])
	assert.Equal(t, "argo-2,18", lines[2])
}

func TestPrintHonorsLimit(t *testing.T) {
	var buf bytes.Buffer
	err := Print(context.Background(), sampleBatch(t), NewCSVFormatter(&buf), 1)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewFormatter(&bytes.Buffer{}, "parquet")
	assert.Error(t, err)
}
