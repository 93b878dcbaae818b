// Package filters defines the predicate grammar pushed down to source reads:
// a conjunction of simple comparisons, or a disjunction of such conjunctions.
// The variant is carried as a typed value; nothing downstream re-inspects the
// shape structurally.
package filters

import (
	"fmt"

	"github.com/oceanlake/oceanlake/oceanlake"
)

type Operator string

const (
	OperatorLess         Operator = "<"
	OperatorLessEqual    Operator = "<="
	OperatorEqual        Operator = "="
	OperatorNotEqual     Operator = "!="
	OperatorGreaterEqual Operator = ">="
	OperatorGreater      Operator = ">"
	OperatorIn           Operator = "in"
	OperatorNotIn        Operator = "not in"
)

// Comparison is one simple predicate: column OP literal. For OperatorIn and
// OperatorNotIn the literal is a list value.
type Comparison struct {
	Column string
	Op     Operator
	Value  oceanlake.Value
}

func (c Comparison) String() string {
	return fmt.Sprintf("(%q %s %s)", c.Column, c.Op, c.Value)
}

// Validate checks the operator and the literal shape. Membership operators
// require a list literal, the ordering and equality ones a scalar.
func (c Comparison) Validate() error {
	switch c.Op {
	case OperatorLess, OperatorLessEqual, OperatorEqual, OperatorNotEqual, OperatorGreaterEqual, OperatorGreater:
		if c.Value.List != nil {
			return fmt.Errorf("operator %q takes a scalar literal, got a list in %s", c.Op, c)
		}
		return nil
	case OperatorIn, OperatorNotIn:
		if c.Value.List == nil {
			return fmt.Errorf("operator %q takes a list literal in %s", c.Op, c)
		}
		return nil
	}
	return fmt.Errorf("unknown operator %q in %s", c.Op, c)
}

// Matches evaluates the comparison against one cell. A null cell matches
// nothing, mirroring the pushdown semantics of the columnar readers this
// grammar targets.
func (c Comparison) Matches(cell oceanlake.Value) bool {
	if cell.Null {
		return false
	}
	switch c.Op {
	case OperatorLess:
		return cell.Compare(c.Value) < 0
	case OperatorLessEqual:
		return cell.Compare(c.Value) <= 0
	case OperatorEqual:
		return cell.Compare(c.Value) == 0
	case OperatorNotEqual:
		return cell.Compare(c.Value) != 0
	case OperatorGreaterEqual:
		return cell.Compare(c.Value) >= 0
	case OperatorGreater:
		return cell.Compare(c.Value) > 0
	case OperatorIn:
		for _, candidate := range c.Value.List {
			if cell.Equal(candidate) {
				return true
			}
		}
		return false
	case OperatorNotIn:
		for _, candidate := range c.Value.List {
			if cell.Equal(candidate) {
				return false
			}
		}
		return true
	}
	panic("impossible, operator switch bug")
}

// Expression is either a Conjunction or a Disjunction.
type Expression interface {
	// Branches views the expression as a disjunction of conjunctions; a flat
	// conjunction is a single branch.
	Branches() []Conjunction
	// Matches evaluates the expression against one row, where lookup resolves
	// a column name to its cell.
	Matches(lookup func(column string) (oceanlake.Value, bool)) bool
	// Validate checks every contained comparison.
	Validate() error
}

// Conjunction is an implicit AND over comparisons.
type Conjunction []Comparison

func (c Conjunction) Branches() []Conjunction {
	return []Conjunction{c}
}

func (c Conjunction) Matches(lookup func(column string) (oceanlake.Value, bool)) bool {
	for _, cmp := range c {
		cell, ok := lookup(cmp.Column)
		if !ok {
			return false
		}
		if !cmp.Matches(cell) {
			return false
		}
	}
	return true
}

func (c Conjunction) Validate() error {
	for _, cmp := range c {
		if err := cmp.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Disjunction is an implicit OR over conjunctions.
type Disjunction []Conjunction

func (d Disjunction) Branches() []Conjunction {
	return d
}

func (d Disjunction) Matches(lookup func(column string) (oceanlake.Value, bool)) bool {
	for _, branch := range d {
		if branch.Matches(lookup) {
			return true
		}
	}
	return false
}

func (d Disjunction) Validate() error {
	for _, branch := range d {
		if err := branch.Validate(); err != nil {
			return err
		}
	}
	return nil
}
