// Package loader unifies the cataloged observation archives into one lazily
// evaluated table. A Session is an immutable configuration value: the
// databases to read, the parameter domain, the selected variables and the
// root path are fixed at construction, together with the derived source paths
// and global schema. Deriving a changed session (different filters, narrowed
// variables) produces a new value, so concurrent reads of one session never
// race configuration changes.
package loader

import (
	"context"
	"fmt"
	"log"

	"github.com/oceanlake/oceanlake/catalog"
	"github.com/oceanlake/oceanlake/filters"
	"github.com/oceanlake/oceanlake/oceanlake"
	"github.com/oceanlake/oceanlake/table"
)

// MemoryThresholdBytes is the size under which a memory-checked retrieval is
// eagerly materialized instead of staying lazy.
const MemoryThresholdBytes = 256 << 20

// Options configures a new Session. Zero values mean: all cataloged
// databases, the PHY domain, the full admitted variable universe,
// quality-controlled variables only, discovery under the current directory.
type Options struct {
	// Databases to read. Empty means every cataloged database.
	Databases []string
	// Database is a shorthand for a single-element Databases.
	Database string
	// Domain is "PHY" or "BGC" (case-insensitive). Empty means PHY.
	Domain string
	// Variables is the ordered variable selection. Empty means the full
	// admitted universe for the domain and quality setting.
	Variables []string
	// RootPath is the directory the source directories live under.
	RootPath string
	// NoQC widens the admitted universe beyond the quality-controlled
	// variables.
	NoQC bool
}

// Session is one configured loading session over the present sources.
type Session struct {
	databases []string
	domain    catalog.Domain
	qcOnly    bool
	rootPath  string
	selection []string
	paths     map[string]string
	global    oceanlake.Schema
	filter    filters.Expression
	warnings  []string
}

// New validates the options, discovers the present sources and builds the
// global schema. Cataloged databases that are absent on disk are dropped with
// a warning; every other problem is a configuration error.
func New(opts Options) (*Session, error) {
	dbs, err := databaseList(opts)
	if err != nil {
		return nil, err
	}

	domainName := opts.Domain
	if domainName == "" {
		domainName = string(catalog.PHY)
	}
	domain, err := catalog.ParseDomain(domainName)
	if err != nil {
		return nil, err
	}

	rootPath := opts.RootPath
	if rootPath == "" {
		rootPath = "."
	}

	qcOnly := !opts.NoQC
	admitted := catalog.Variables(domain, qcOnly)

	selection := opts.Variables
	if len(selection) == 0 {
		selection = admitted
	} else {
		admittedSet := make(map[string]bool, len(admitted))
		for _, name := range admitted {
			admittedSet[name] = true
		}
		for _, name := range selection {
			if !admittedSet[name] {
				return nil, fmt.Errorf("selected variable '%s' is not admitted for domain %s (admitted: %v)", name, domain, admitted)
			}
		}
	}

	paths, kept, warnings, err := resolveSources(rootPath, dbs)
	if err != nil {
		return nil, err
	}
	for _, warning := range warnings {
		log.Println(warning)
	}

	global, err := buildGlobalSchema(paths, kept)
	if err != nil {
		return nil, err
	}

	return &Session{
		databases: kept,
		domain:    domain,
		qcOnly:    qcOnly,
		rootPath:  rootPath,
		selection: selection,
		paths:     paths,
		global:    global,
		warnings:  warnings,
	}, nil
}

func databaseList(opts Options) ([]string, error) {
	if opts.Database != "" && len(opts.Databases) > 0 {
		return nil, fmt.Errorf("set either Database or Databases, not both")
	}
	dbs := opts.Databases
	if opts.Database != "" {
		dbs = []string{opts.Database}
	}
	if len(dbs) == 0 {
		dbs = catalog.Databases()
	}
	for _, db := range dbs {
		if !catalog.IsDatabase(db) {
			return nil, fmt.Errorf("unknown database '%s', catalog knows: %v", db, catalog.Databases())
		}
	}
	return dbs, nil
}

// Databases returns the working set: the requested databases that are
// actually present on disk.
func (s *Session) Databases() []string {
	out := make([]string, len(s.databases))
	copy(out, s.databases)
	return out
}

// Warnings returns the recoverable-absence warnings gathered at construction.
func (s *Session) Warnings() []string {
	out := make([]string, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// GlobalSchema is the unioned schema over all present sources, with unit
// annotations. Not every field is present in every source.
func (s *Session) GlobalSchema() oceanlake.Schema {
	return s.global
}

// Filter returns the session's predicate expression, nil when unfiltered.
func (s *Session) Filter() filters.Expression {
	return s.filter
}

// WithFilters derives a new session carrying expr. The expression's shape is
// validated here; which sources actually have its columns is resolved at
// read time, per source. With restrictVariables the derived session's
// variable selection is narrowed to the variables the expression mentions.
func (s *Session) WithFilters(expr filters.Expression, restrictVariables bool) (*Session, error) {
	if expr != nil {
		if err := expr.Validate(); err != nil {
			return nil, err
		}
	}

	derived := *s
	derived.filter = expr

	if restrictVariables && expr != nil {
		mentioned := make(map[string]bool)
		for _, branch := range expr.Branches() {
			for _, cmp := range branch {
				mentioned[cmp.Column] = true
			}
		}
		var narrowed []string
		for _, name := range s.selection {
			if mentioned[name] {
				narrowed = append(narrowed, name)
			}
		}
		if len(narrowed) == 0 {
			return nil, fmt.Errorf("restricting variables to the filter's would leave an empty selection")
		}
		derived.selection = narrowed
	}

	return &derived, nil
}

// exposedSelection is the selection restricted to names that exist in some
// source, plus the source-identifier pseudo-column when requested. Variables
// absent from every present source cannot be typed and are not exposed.
func (s *Session) exposedSelection() []string {
	var out []string
	for _, name := range s.selection {
		if name == catalog.DBNameVariable || s.global.IndexOf(name) >= 0 {
			out = append(out, name)
		}
	}
	return out
}

// exposedSchema types the exposed selection from the global schema. The
// pseudo-column is a string even when no source stores it physically.
func (s *Session) exposedSchema(exposed []string) oceanlake.Schema {
	fields := make([]oceanlake.SchemaField, len(exposed))
	for i, name := range exposed {
		if field, ok := s.global.Field(name); ok {
			fields[i] = field
			continue
		}
		units, _ := catalog.Units(name)
		fields[i] = oceanlake.SchemaField{Name: name, Type: oceanlake.TypeIDString, Units: units}
	}
	return oceanlake.NewSchema(fields)
}

// GetOptions tunes one retrieval.
type GetOptions struct {
	// CheckMemory estimates the unified table's in-memory size and, when it
	// is under MemoryThresholdBytes, returns it eagerly materialized.
	CheckMemory bool
}

// Get builds the unified table: every present source read with projection
// and pushdown, padded, coerced and reordered to the exposed selection, then
// concatenated. The result is lazy unless the memory check materializes it.
func (s *Session) Get(ctx context.Context, opts GetOptions) (table.Result, error) {
	exposed := s.exposedSelection()
	if len(exposed) == 0 {
		return nil, fmt.Errorf("none of the selected variables %v exist in any present source", s.selection)
	}
	outSchema := s.exposedSchema(exposed)

	lazies := make([]*table.Lazy, 0, len(s.databases))
	for _, db := range s.databases {
		lazy, dropped, err := s.readSource(db, exposed, outSchema)
		if err != nil {
			return nil, err
		}
		for _, d := range dropped {
			log.Printf("database %s: %s", db, d)
		}
		lazies = append(lazies, lazy)
	}

	unified, err := table.Concat(lazies...)
	if err != nil {
		return nil, fmt.Errorf("couldn't concatenate source tables: %w", err)
	}

	if opts.CheckMemory {
		estimate, err := unified.EstimateMemory(ctx)
		if err != nil {
			return nil, fmt.Errorf("couldn't estimate memory usage: %w", err)
		}
		if estimate < MemoryThresholdBytes {
			log.Printf("retrieved dataset estimated at %d bytes, materializing in memory", estimate)
			return unified.Collect(ctx)
		}
	}

	return unified, nil
}
