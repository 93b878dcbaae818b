package oceanlake

// SchemaField is one named column of a schema. Units is a physical unit
// annotation ("degree_Celsius", "decibar") filled in by unit enrichment; it's
// empty until then.
type SchemaField struct {
	Name  string
	Type  TypeID
	Units string
}

// Schema is an ordered set of fields. Order is significant: unified tables
// expose columns in exactly this order.
type Schema struct {
	Fields []SchemaField
}

func NewSchema(fields []SchemaField) Schema {
	return Schema{Fields: fields}
}

// IndexOf returns the position of name, or -1.
func (s Schema) IndexOf(name string) int {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

// Field looks up a field by name.
func (s Schema) Field(name string) (SchemaField, bool) {
	if i := s.IndexOf(name); i >= 0 {
		return s.Fields[i], true
	}
	return SchemaField{}, false
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Fields))
	for i := range s.Fields {
		out[i] = s.Fields[i].Name
	}
	return out
}
