package domain

import (
	"encoding/json"
	"fmt"
)

// Entity is satisfied by pointers to the domain types.
type Entity[T any] interface {
	*T
	json.Unmarshaler
}

// Materialize turns a response body into typed values. A single JSON object
// yields one value, an array yields one value per element. Any other JSON
// value fails with ErrUnexpectedShape.
func Materialize[T any, P Entity[T]](raw []byte) ([]T, error) {
	if !json.Valid(raw) {
		return nil, ErrMalformedJSON
	}

	switch {
	case isObject(raw):
		var v T
		if err := P(&v).UnmarshalJSON(raw); err != nil {
			return nil, err
		}
		return []T{v}, nil

	case isArray(raw):
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
		out := make([]T, 0, len(elems))
		for i, elem := range elems {
			if !isObject(elem) {
				return nil, fmt.Errorf("element %d: %w", i, ErrUnexpectedShape)
			}
			var v T
			if err := P(&v).UnmarshalJSON(elem); err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	}

	return nil, ErrUnexpectedShape
}

// MaterializeOne materializes raw and returns its first value. An empty
// array fails with ErrEmptyResult.
func MaterializeOne[T any, P Entity[T]](raw []byte) (T, error) {
	items, err := Materialize[T, P](raw)
	if err != nil {
		var zero T
		return zero, err
	}
	return First(items)
}

// First returns the first element of items.
func First[T any](items []T) (T, error) {
	if len(items) == 0 {
		var zero T
		return zero, ErrEmptyResult
	}
	return items[0], nil
}
