package filters

import (
	"fmt"
)

// Dropped records one comparison removed during normalization, with the
// reason it couldn't be kept.
type Dropped struct {
	Comparison Comparison
	Reason     string
}

func (d Dropped) String() string {
	return fmt.Sprintf("filter %s discarded: %s", d.Comparison, d.Reason)
}

// Normalize restricts expr to comparisons over the given columns. The
// expression is viewed as a disjunction of conjunctions; comparisons on
// absent columns are removed (one Dropped diagnostic each) and a branch
// emptied by removal is removed from the disjunction. A single surviving
// branch comes back unwrapped as a flat Conjunction. A nil expr means "no
// filtering" and is returned as-is.
//
// When every branch is removed the result is nil: the caller reads
// unfiltered, consistent with clause removal being a recoverable narrowing
// rather than an error.
func Normalize(expr Expression, columns []string) (Expression, []Dropped) {
	if expr == nil {
		return nil, nil
	}

	present := make(map[string]bool, len(columns))
	for _, name := range columns {
		present[name] = true
	}

	var valid Disjunction
	var dropped []Dropped
	for _, branch := range expr.Branches() {
		var validBranch Conjunction
		for _, cmp := range branch {
			if present[cmp.Column] {
				validBranch = append(validBranch, cmp)
				continue
			}
			dropped = append(dropped, Dropped{
				Comparison: cmp,
				Reason:     fmt.Sprintf("column '%s' does not exist in this source", cmp.Column),
			})
		}
		if len(validBranch) > 0 {
			valid = append(valid, validBranch)
		}
	}

	switch len(valid) {
	case 0:
		return nil, dropped
	case 1:
		return valid[0], dropped
	}
	return valid, dropped
}
