package oceanlake

// TypeID enumerates the canonical physical types a column may take in a
// unified schema. The set is closed: every switch over it in this codebase is
// exhaustive, so adding a type is a compile-time-checked change.
type TypeID int

const (
	TypeIDInt8 TypeID = iota
	TypeIDInt16
	TypeIDInt32
	TypeIDInt64
	TypeIDUInt8
	TypeIDUInt16
	TypeIDUInt32
	TypeIDUInt64
	TypeIDBoolean
	TypeIDFloat32
	TypeIDFloat64
	TypeIDString
	TypeIDTimestamp
)

func (t TypeID) String() string {
	switch t {
	case TypeIDInt8:
		return "Int8"
	case TypeIDInt16:
		return "Int16"
	case TypeIDInt32:
		return "Int32"
	case TypeIDInt64:
		return "Int64"
	case TypeIDUInt8:
		return "UInt8"
	case TypeIDUInt16:
		return "UInt16"
	case TypeIDUInt32:
		return "UInt32"
	case TypeIDUInt64:
		return "UInt64"
	case TypeIDBoolean:
		return "Boolean"
	case TypeIDFloat32:
		return "Float32"
	case TypeIDFloat64:
		return "Float64"
	case TypeIDString:
		return "String"
	case TypeIDTimestamp:
		return "Timestamp"
	}
	panic("impossible, type switch bug")
}

// IsSignedInteger reports whether t is one of the signed integer widths.
func (t TypeID) IsSignedInteger() bool {
	switch t {
	case TypeIDInt8, TypeIDInt16, TypeIDInt32, TypeIDInt64:
		return true
	}
	return false
}

// IsUnsignedInteger reports whether t is one of the unsigned integer widths.
func (t TypeID) IsUnsignedInteger() bool {
	switch t {
	case TypeIDUInt8, TypeIDUInt16, TypeIDUInt32, TypeIDUInt64:
		return true
	}
	return false
}

// IsFloat reports whether t is a floating point type.
func (t TypeID) IsFloat() bool {
	return t == TypeIDFloat32 || t == TypeIDFloat64
}

// IsNumeric reports whether values of t order as numbers.
func (t TypeID) IsNumeric() bool {
	return t.IsSignedInteger() || t.IsUnsignedInteger() || t.IsFloat()
}
