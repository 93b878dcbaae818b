package table

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oceanlake/oceanlake/filters"
	"github.com/oceanlake/oceanlake/oceanlake"
)

// MetadataFile is the schema-only artifact co-located with every source's
// data files. Its footer carries the source's declared schema, so the schema
// is readable without scanning any data file.
const MetadataFile = "_common_metadata"

// Directory binds one source directory: a set of parquet data files plus the
// metadata artifact.
type Directory struct {
	path   string
	schema oceanlake.Schema
	files  []string
}

// OpenDirectory reads the directory's declared schema from its metadata
// artifact and lists its data files.
func OpenDirectory(path string) (*Directory, error) {
	schema, err := ReadSchema(filepath.Join(path, MetadataFile))
	if err != nil {
		return nil, fmt.Errorf("couldn't read schema of directory %s: %w", path, err)
	}

	files, err := filepath.Glob(filepath.Join(path, "*.parquet"))
	if err != nil {
		return nil, fmt.Errorf("couldn't list parquet files in %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no parquet files in directory %s", path)
	}

	return &Directory{path: path, schema: schema, files: files}, nil
}

func (d *Directory) Path() string {
	return d.path
}

// Schema is the directory's declared schema, in declaration order.
func (d *Directory) Schema() oceanlake.Schema {
	return d.schema
}

// Scan builds a lazy table over the directory restricted to the given
// columns, in the given order, with filter applied during each partition
// read. Every data file becomes exactly one partition; files are assumed
// pre-sized, so there is no sub-file splitting.
func (d *Directory) Scan(columns []string, filter filters.Expression) (*Lazy, error) {
	fields := make([]oceanlake.SchemaField, len(columns))
	for i, name := range columns {
		field, ok := d.schema.Field(name)
		if !ok {
			return nil, fmt.Errorf("no column '%s' in directory %s", name, d.path)
		}
		fields[i] = field
	}
	scanSchema := oceanlake.NewSchema(fields)

	parts := make([]Partition, len(d.files))
	for i, file := range d.files {
		file := file
		parts[i] = func(ctx context.Context) (*Batch, error) {
			return readFile(ctx, file, scanSchema, filter)
		}
	}
	return NewLazy(scanSchema, parts), nil
}

// statSize returns the file size, needed to open parquet footers.
func statSize(f *os.File) (int64, error) {
	stat, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return stat.Size(), nil
}
