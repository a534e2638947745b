package domain

import "encoding/json"

// Field is an update-patch value that distinguishes between a JSON key that
// was absent, one that was explicitly null, and one that carried a value.
// The zero value means "absent": the corresponding entity field is left
// untouched by an update.
type Field[T any] struct {
	// Set reports whether the key was present in the input at all.
	Set bool
	// Valid reports whether the key carried a non-null value.
	Valid bool
	// Value holds the decoded value when Valid is true.
	Value T
}

// FieldOf returns a present, non-null Field holding v.
func FieldOf[T any](v T) Field[T] {
	return Field[T]{Set: true, Valid: true, Value: v}
}

// NullField returns a present but explicitly null Field.
func NullField[T any]() Field[T] {
	return Field[T]{Set: true}
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked for keys
// present in the input, which is what makes the absent/present distinction
// observable after decoding.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		f.Valid = false
		return nil
	}
	if err := json.Unmarshal(b, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler. Absent fields marshal as null;
// patches are not normally re-serialized, this exists for logging and tests.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
