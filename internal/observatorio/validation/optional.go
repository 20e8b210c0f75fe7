package validation

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Optional is a partial-update field for a NOT NULL column. An omitted field
// leaves the column unchanged; a JSON null fails the notnull rule.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Nullable is a partial-update field for a nullable column. A JSON null
// clears the column.
type Nullable[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	return decodePresent(b, &o.Set, &o.Null, &o.Value)
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	return decodePresent(b, &n.Set, &n.Null, &n.Value)
}

// Get reports the value when the field carries one.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set && !o.Null
}

// Clears reports whether the field was sent as null.
func (n Nullable[T]) Clears() bool {
	return n.Set && n.Null
}

// Get reports the value when the field carries one.
func (n Nullable[T]) Get() (T, bool) {
	return n.Value, n.Set && !n.Null
}

func (o Optional[T]) ValueType() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }
func (o Optional[T]) AcceptsNull() bool       { return false }
func (n Nullable[T]) ValueType() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }
func (n Nullable[T]) AcceptsNull() bool       { return true }

// Field is implemented by Optional and Nullable. Schema generators use it to
// describe the wrapped value instead of the wrapper.
type Field interface {
	ValueType() reflect.Type
	AcceptsNull() bool
}

func decodePresent[T any](b []byte, set, null *bool, value *T) error {
	*set = true
	if string(b) == "null" {
		*null = true
		return nil
	}
	*null = false
	return json.Unmarshal(b, value)
}

// nullMarker is what the validator sees for an Optional sent as null.
type nullMarker bool

var nullMarkerType = reflect.TypeOf((*nullMarker)(nil)).Elem()

// validationValue returns what the validator runs the field's rules against:
// nil when omitted, so omitempty skips it, and a pointer otherwise, so zero
// values are still checked.
func (o Optional[T]) validationValue() any {
	switch {
	case !o.Set:
		return nil
	case o.Null:
		marker := nullMarker(true)
		return &marker
	}
	v := o.Value
	return &v
}

func (n Nullable[T]) validationValue() any {
	if !n.Set || n.Null {
		return nil
	}
	v := n.Value
	return &v
}

func (o *Optional[T]) trimSpace() { o.Value = trimmed(o.Value) }
func (n *Nullable[T]) trimSpace() { n.Value = trimmed(n.Value) }

func trimmed[T any](v T) T {
	if s, ok := any(v).(string); ok {
		return any(strings.TrimSpace(s)).(T)
	}
	return v
}

type validationValuer interface {
	validationValue() any
}

type spaceTrimmer interface {
	trimSpace()
}

// fieldTypes lists the instantiations the update bodies use; the validator
// needs each concrete type registered.
var fieldTypes = []any{
	Optional[string]{}, Optional[int]{}, Optional[uint]{}, Optional[float64]{},
	Nullable[string]{}, Nullable[int]{}, Nullable[uint]{}, Nullable[float64]{},
}
