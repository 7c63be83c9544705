// Package patch provides optional request fields for partial updates.
//
// A Field distinguishes three states of a JSON member:
//
//	absent          -> Set == false            (leave unchanged)
//	"x": null       -> Set == true, Null == true
//	"x": <value>    -> Set == true, Value holds it
package patch

import (
	"bytes"
	"encoding/json"
)

type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Of returns a Field holding v
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns an explicitly nulled Field
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked for members present in the payload, which
// is what lets Set tell "absent" apart from "null".
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// HasValue reports whether a non-null value was supplied
func (f Field[T]) HasValue() bool {
	return f.Set && !f.Null
}

// Apply writes the value into dst when one was supplied and reports
// whether dst changed. Null leaves dst alone; callers that give null a
// meaning check f.Null themselves.
func (f Field[T]) Apply(dst *T) bool {
	if !f.HasValue() {
		return false
	}
	*dst = f.Value
	return true
}

// ApplyPtr writes into a nullable destination: null clears it.
func (f Field[T]) ApplyPtr(dst **T) bool {
	if !f.Set {
		return false
	}
	if f.Null {
		*dst = nil
		return true
	}
	v := f.Value
	*dst = &v
	return true
}
