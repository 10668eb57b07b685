package value

import "strings"

// arrayData is the heap payload an Array handle shares. Every copy of the
// Array struct that wraps the same *arrayData is the same array at the
// language level (spec §3.1: Array is "by reference").
type arrayData struct {
	elems []Value
}

// Array is a shared mutable handle to an ordered sequence of values.
type Array struct {
	data *arrayData
}

// NewArray wraps elems in a fresh handle. The caller's slice is adopted,
// not copied; callers that need independent storage should pass a copy.
func NewArray(elems []Value) Array {
	return Array{data: &arrayData{elems: elems}}
}

// NewArraySized builds an array of n Null elements, for ArraySized(n).
func NewArraySized(n int) Array {
	elems := make([]Value, n)
	for i := range elems {
		elems[i] = Null{}
	}
	return Array{data: &arrayData{elems: elems}}
}

func (Array) Type() Type { return TypeArray }

// Equal is handle identity: two Arrays are equal only if they share the
// same underlying storage (spec §3.1/§9: "Array ... equality is identity
// of the shared handle").
func (a Array) Equal(other Value) bool {
	o, ok := other.(Array)
	return ok && a.data == o.data
}

func (a Array) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range a.data.elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Len returns the number of elements.
func (a Array) Len() int { return len(a.data.elems) }

// Get returns the zero-indexed element. The caller must bounds-check.
func (a Array) Get(i int) Value { return a.data.elems[i] }

// Set writes the zero-indexed element in place, through the shared handle.
func (a Array) Set(i int, v Value) { a.data.elems[i] = v }

// Push appends v in place.
func (a Array) Push(v Value) { a.data.elems = append(a.data.elems, v) }

// Pop removes and returns the last element. ok is false if the array is empty.
func (a Array) Pop() (Value, bool) {
	n := len(a.data.elems)
	if n == 0 {
		return nil, false
	}
	v := a.data.elems[n-1]
	a.data.elems = a.data.elems[:n-1]
	return v, true
}

// RemoveAt removes and returns the zero-indexed element. The caller must
// bounds-check.
func (a Array) RemoveAt(i int) Value {
	v := a.data.elems[i]
	a.data.elems = append(a.data.elems[:i], a.data.elems[i+1:]...)
	return v
}

// InsertAt inserts v at the zero-indexed position i, shifting later
// elements up. i may equal Len() to append.
func (a Array) InsertAt(i int, v Value) {
	a.data.elems = append(a.data.elems, nil)
	copy(a.data.elems[i+1:], a.data.elems[i:])
	a.data.elems[i] = v
}
