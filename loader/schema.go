package loader

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/oceanlake/oceanlake/catalog"
	"github.com/oceanlake/oceanlake/oceanlake"
	"github.com/oceanlake/oceanlake/table"
)

// buildGlobalSchema unions the declared schemas of the working set, in
// working-set order. The first database to declare a variable fixes its type;
// later declarations with a different width are unified towards the first one
// at read time. Every field is annotated with its reference physical unit.
func buildGlobalSchema(paths map[string]string, dbs []string) (oceanlake.Schema, error) {
	var fields []oceanlake.SchemaField
	seen := make(map[string]bool)

	for _, db := range dbs {
		schema, err := table.ReadSchema(filepath.Join(paths[db], table.MetadataFile))
		if err != nil {
			return oceanlake.Schema{}, fmt.Errorf("couldn't read declared schema of database %s: %w", db, err)
		}
		for _, field := range schema.Fields {
			if seen[field.Name] {
				continue
			}
			seen[field.Name] = true
			fields = append(fields, field)
		}
	}

	for i := range fields {
		units, ok := catalog.Units(fields[i].Name)
		if !ok {
			log.Printf("no reference units for variable %s, leaving it unannotated", fields[i].Name)
			continue
		}
		fields[i].Units = units
	}

	return oceanlake.NewSchema(fields), nil
}
