package domain

import "errors"

var (
	// ErrUnexpectedShape is returned when a payload is valid JSON but is not an
	// object or an array of objects, or when a modelled field has the wrong type.
	ErrUnexpectedShape = errors.New("unexpected json shape")

	// ErrMalformedJSON is returned when a payload is not valid JSON at all.
	ErrMalformedJSON = errors.New("malformed json")

	// ErrEmptyResult is returned when a single entity was expected but the
	// service answered with an empty array.
	ErrEmptyResult = errors.New("empty result")
)
