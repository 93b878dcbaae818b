package loader

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/oceanlake/oceanlake/catalog"
	"github.com/oceanlake/oceanlake/table"
)

// resolveSources maps each requested database onto its directory under
// rootPath by matching the database's codename as a substring of the
// directory name. An absent database is a recoverable condition: it is
// dropped from the working set with a warning. An ambiguous match is a
// configuration error, and so is a working set that ends up empty.
func resolveSources(rootPath string, dbs []string) (map[string]string, []string, []string, error) {
	paths := make(map[string]string, len(dbs))
	var kept []string
	var warnings []string

	for _, db := range dbs {
		codename, ok := catalog.Codename(db)
		if !ok {
			return nil, nil, nil, errors.Errorf("database '%s' has no codename in the catalog", db)
		}

		pattern := filepath.Join(rootPath, "*"+codename+"*")
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "couldn't glob for pattern %s", pattern)
		}

		var dirs []string
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, nil, nil, errors.Wrapf(err, "couldn't stat %s", match)
			}
			if info.IsDir() {
				dirs = append(dirs, match)
			}
		}

		switch len(dirs) {
		case 0:
			warnings = append(warnings, "database "+db+" not found under "+rootPath+", dropping it from the working set")
			continue
		case 1:
		default:
			return nil, nil, nil, errors.Errorf("codename '%s' of database %s matches multiple directories under %s: %v", codename, db, rootPath, dirs)
		}

		dir := dirs[0]
		if _, err := os.Stat(filepath.Join(dir, table.MetadataFile)); err != nil {
			if os.IsNotExist(err) {
				warnings = append(warnings, "database "+db+" at "+dir+" has no "+table.MetadataFile+" file, dropping it from the working set")
				continue
			}
			return nil, nil, nil, errors.Wrapf(err, "couldn't stat metadata of database %s", db)
		}

		paths[db] = dir
		kept = append(kept, db)
	}

	if len(kept) == 0 {
		return nil, nil, nil, errors.Errorf("no requested database is present under %s", rootPath)
	}
	return paths, kept, warnings, nil
}
