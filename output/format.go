// Package output renders a table onto the terminal.
package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/oceanlake/oceanlake/oceanlake"
	"github.com/oceanlake/oceanlake/table"
)

// Formatter consumes a schema and rows and renders them on Close.
type Formatter interface {
	SetSchema(schema oceanlake.Schema)
	Write(row []oceanlake.Value) error
	Close() error
}

// NewFormatter picks a formatter by name.
func NewFormatter(w io.Writer, format string) (Formatter, error) {
	switch format {
	case "table":
		return NewTableFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	}
	return nil, fmt.Errorf("unknown output format '%s'", format)
}

// Print renders up to limit rows of result through formatter. A limit of 0
// renders everything.
func Print(ctx context.Context, result table.Result, formatter Formatter, limit int) error {
	formatter.SetSchema(result.Schema())

	written := 0
	err := result.Rows(ctx, func(row []oceanlake.Value) error {
		if limit > 0 && written >= limit {
			return errLimitReached
		}
		written++
		return formatter.Write(row)
	})
	if err != nil && err != errLimitReached {
		return err
	}
	return formatter.Close()
}

var errLimitReached = fmt.Errorf("row limit reached")

type TableFormatter struct {
	table *tablewriter.Table
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	t := tablewriter.NewWriter(w)
	t.SetColWidth(24)
	t.SetRowLine(false)

	return &TableFormatter{
		table: t,
	}
}

func (t *TableFormatter) SetSchema(schema oceanlake.Schema) {
	header := make([]string, len(schema.Fields))
	for i, field := range schema.Fields {
		header[i] = field.Name
		if field.Units != "" {
			header[i] += " [" + field.Units + "]"
		}
	}
	t.table.SetHeader(header)
	t.table.SetAutoFormatHeaders(false)
}

func (t *TableFormatter) Write(row []oceanlake.Value) error {
	out := make([]string, len(row))
	for i := range row {
		out[i] = row[i].String()
	}
	t.table.Append(out)
	return nil
}

func (t *TableFormatter) Close() error {
	t.table.Render()
	return nil
}

type CSVFormatter struct {
	writer *csv.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{
		writer: csv.NewWriter(w),
	}
}

func (c *CSVFormatter) SetSchema(schema oceanlake.Schema) {
	c.writer.Write(schema.Names())
}

func (c *CSVFormatter) Write(row []oceanlake.Value) error {
	out := make([]string, len(row))
	for i := range row {
		out[i] = row[i].String()
	}
	return c.writer.Write(out)
}

func (c *CSVFormatter) Close() error {
	c.writer.Flush()
	return c.writer.Error()
}
