package value

import "strings"

// structureData is the heap payload a Structure handle shares. Fields are
// kept in insertion order (spec §3.1 invariant: "Structures preserve field
// insertion order for iteration and printing"); order is the slice, lookup
// is the map.
type structureData struct {
	order []string
	ByKey map[string]Value
}

// Structure is a shared mutable handle to an ordered name→value mapping.
type Structure struct {
	data *structureData
}

// NewStructure builds a structure from fields in the given order. Duplicate
// names keep only their last value but the first position, matching how a
// literal `{a: 1, a: 2}` would be built left-to-right.
func NewStructure(names []string, vals []Value) Structure {
	s := &structureData{ByKey: make(map[string]Value, len(names))}
	for i, name := range names {
		if _, exists := s.ByKey[name]; !exists {
			s.order = append(s.order, name)
		}
		s.ByKey[name] = vals[i]
	}
	return Structure{data: s}
}

func (Structure) Type() Type { return TypeStructure }

// Equal is handle identity, matching Array.Equal.
func (s Structure) Equal(other Value) bool {
	o, ok := other.(Structure)
	return ok && s.data == o.data
}

func (s Structure) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range s.data.order {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(s.data.ByKey[name].String())
	}
	b.WriteByte('}')
	return b.String()
}

// Len returns the number of fields.
func (s Structure) Len() int { return len(s.data.order) }

// Get returns the field's value and whether it exists.
func (s Structure) Get(name string) (Value, bool) {
	v, ok := s.data.ByKey[name]
	return v, ok
}

// Set writes a field in place. A new field is appended at the end of the
// iteration order; an existing field keeps its original position — this is
// the runtime growth mechanism described in spec §4.3.
func (s Structure) Set(name string, v Value) {
	if _, exists := s.data.ByKey[name]; !exists {
		s.data.order = append(s.data.order, name)
	}
	s.data.ByKey[name] = v
}

// Fields returns the field names in iteration order.
func (s Structure) Fields() []string { return s.data.order }
