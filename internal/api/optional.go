package api

import (
	"bytes"
	"encoding/json"

	"github.com/phrazzld/tasks-api/internal/service"
)

// Optional is a JSON field that remembers whether it was present. A field
// sent as null is Set with a nil Value; a missing field is not Set.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON is only called for keys present in the object.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Field converts o for the service layer.
func (o Optional[T]) Field() service.Field[T] {
	return service.Field[T]{Set: o.Set, Value: o.Value}
}
