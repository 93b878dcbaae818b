package oceanlake

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Value is a single table cell. The Type field names the canonical physical
// type, Null marks a missing measurement; the payload lives in the field
// matching the type's storage class. Signed integers of every width share Int,
// unsigned ones share UInt, both float widths share Float.
type Value struct {
	Type    TypeID
	Null    bool
	Int     int64
	UInt    uint64
	Boolean bool
	Float   float64
	Str     string
	Time    time.Time
	List    []Value
}

// NewNull returns the typed null of t.
func NewNull(t TypeID) Value {
	return Value{Type: t, Null: true}
}

func NewInt8(v int8) Value   { return Value{Type: TypeIDInt8, Int: int64(v)} }
func NewInt16(v int16) Value { return Value{Type: TypeIDInt16, Int: int64(v)} }
func NewInt32(v int32) Value { return Value{Type: TypeIDInt32, Int: int64(v)} }
func NewInt64(v int64) Value { return Value{Type: TypeIDInt64, Int: v} }

func NewUInt8(v uint8) Value   { return Value{Type: TypeIDUInt8, UInt: uint64(v)} }
func NewUInt16(v uint16) Value { return Value{Type: TypeIDUInt16, UInt: uint64(v)} }
func NewUInt32(v uint32) Value { return Value{Type: TypeIDUInt32, UInt: uint64(v)} }
func NewUInt64(v uint64) Value { return Value{Type: TypeIDUInt64, UInt: v} }

func NewBoolean(v bool) Value    { return Value{Type: TypeIDBoolean, Boolean: v} }
func NewFloat32(v float32) Value { return Value{Type: TypeIDFloat32, Float: float64(v)} }
func NewFloat64(v float64) Value { return Value{Type: TypeIDFloat64, Float: v} }
func NewString(v string) Value   { return Value{Type: TypeIDString, Str: v} }

// NewTimestamp wraps an instant; the canonical encoding is nanosecond
// precision UTC.
func NewTimestamp(v time.Time) Value {
	return Value{Type: TypeIDTimestamp, Time: v}
}

// asFloat maps any numeric value onto the float64 line for cross-width
// comparisons.
func (value Value) asFloat() float64 {
	switch {
	case value.Type.IsSignedInteger():
		return float64(value.Int)
	case value.Type.IsUnsignedInteger():
		return float64(value.UInt)
	case value.Type.IsFloat():
		return value.Float
	}
	panic("asFloat called on non-numeric value")
}

// Compare orders value against other. Nulls sort before everything; numeric
// values compare across widths and signedness; comparing values of
// incomparable types orders them by TypeID so sorting stays total.
func (value Value) Compare(other Value) int {
	if value.Null || other.Null {
		if value.Null && other.Null {
			return 0
		}
		if value.Null {
			return -1
		}
		return 1
	}

	if value.Type.IsNumeric() && other.Type.IsNumeric() {
		if value.Type.IsSignedInteger() && other.Type.IsSignedInteger() {
			switch {
			case value.Int < other.Int:
				return -1
			case value.Int > other.Int:
				return 1
			}
			return 0
		}
		if value.Type.IsUnsignedInteger() && other.Type.IsUnsignedInteger() {
			switch {
			case value.UInt < other.UInt:
				return -1
			case value.UInt > other.UInt:
				return 1
			}
			return 0
		}
		left, right := value.asFloat(), other.asFloat()
		switch {
		case left < right:
			return -1
		case left > right:
			return 1
		}
		return 0
	}

	if value.Type != other.Type {
		if value.Type < other.Type {
			return -1
		}
		return 1
	}

	switch value.Type {
	case TypeIDBoolean:
		switch {
		case !value.Boolean && other.Boolean:
			return -1
		case value.Boolean && !other.Boolean:
			return 1
		}
		return 0
	case TypeIDString:
		return strings.Compare(value.Str, other.Str)
	case TypeIDTimestamp:
		switch {
		case value.Time.Before(other.Time):
			return -1
		case value.Time.After(other.Time):
			return 1
		}
		return 0
	}
	panic("impossible, type switch bug")
}

// Equal is Compare == 0 with the additional requirement that two nulls are
// equal regardless of their typed-null type.
func (value Value) Equal(other Value) bool {
	return value.Compare(other) == 0
}

// Coerce converts value to the canonical type target. It is total over the
// closed type set: numeric widths widen or narrow onto each other, every type
// formats onto String, Timestamp and Boolean only accept themselves. A typed
// null coerces to the typed null of the target.
func (value Value) Coerce(target TypeID) (Value, error) {
	if value.Type == target {
		return value, nil
	}
	if value.Null {
		return NewNull(target), nil
	}

	switch target {
	case TypeIDInt8, TypeIDInt16, TypeIDInt32, TypeIDInt64:
		var v int64
		switch {
		case value.Type.IsSignedInteger():
			v = value.Int
		case value.Type.IsUnsignedInteger():
			v = int64(value.UInt)
		case value.Type.IsFloat():
			v = int64(value.Float)
		default:
			return Value{}, fmt.Errorf("couldn't coerce %s value to %s", value.Type, target)
		}
		return Value{Type: target, Int: v}, nil

	case TypeIDUInt8, TypeIDUInt16, TypeIDUInt32, TypeIDUInt64:
		var v uint64
		switch {
		case value.Type.IsSignedInteger():
			v = uint64(value.Int)
		case value.Type.IsUnsignedInteger():
			v = value.UInt
		case value.Type.IsFloat():
			v = uint64(value.Float)
		default:
			return Value{}, fmt.Errorf("couldn't coerce %s value to %s", value.Type, target)
		}
		return Value{Type: target, UInt: v}, nil

	case TypeIDFloat32, TypeIDFloat64:
		var v float64
		switch {
		case value.Type.IsSignedInteger():
			v = float64(value.Int)
		case value.Type.IsUnsignedInteger():
			v = float64(value.UInt)
		case value.Type.IsFloat():
			v = value.Float
		default:
			return Value{}, fmt.Errorf("couldn't coerce %s value to %s", value.Type, target)
		}
		if target == TypeIDFloat32 {
			v = float64(float32(v))
		}
		return Value{Type: target, Float: v}, nil

	case TypeIDBoolean:
		return Value{}, fmt.Errorf("couldn't coerce %s value to %s", value.Type, target)

	case TypeIDString:
		return NewString(value.String()), nil

	case TypeIDTimestamp:
		return Value{}, fmt.Errorf("couldn't coerce %s value to %s", value.Type, target)
	}
	panic("impossible, type switch bug")
}

// SizeBytes is the deep in-memory footprint of the value, used by the lazy
// table's memory estimate.
func (value Value) SizeBytes() int64 {
	switch value.Type {
	case TypeIDInt8, TypeIDUInt8, TypeIDBoolean:
		return 1
	case TypeIDInt16, TypeIDUInt16:
		return 2
	case TypeIDInt32, TypeIDUInt32, TypeIDFloat32:
		return 4
	case TypeIDInt64, TypeIDUInt64, TypeIDFloat64:
		return 8
	case TypeIDString:
		return int64(len(value.Str)) + 16
	case TypeIDTimestamp:
		return 24
	}
	panic("impossible, type switch bug")
}

func (value Value) String() string {
	if value.Null {
		return "<null>"
	}
	switch value.Type {
	case TypeIDInt8, TypeIDInt16, TypeIDInt32, TypeIDInt64:
		return strconv.FormatInt(value.Int, 10)
	case TypeIDUInt8, TypeIDUInt16, TypeIDUInt32, TypeIDUInt64:
		return strconv.FormatUint(value.UInt, 10)
	case TypeIDBoolean:
		return strconv.FormatBool(value.Boolean)
	case TypeIDFloat32:
		return strconv.FormatFloat(value.Float, 'g', -1, 32)
	case TypeIDFloat64:
		return strconv.FormatFloat(value.Float, 'g', -1, 64)
	case TypeIDString:
		return value.Str
	case TypeIDTimestamp:
		return value.Time.Format(time.RFC3339Nano)
	}
	panic("impossible, type switch bug")
}
