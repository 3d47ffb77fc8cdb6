package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// attrs holds the JSON members of an entity exactly as they arrived on the
// wire, modelled ones included. It is nil for entities built locally.
type attrs map[string]json.RawMessage

func decodeAttrs(data []byte) (attrs, error) {
	if !isObject(data) {
		return nil, ErrUnexpectedShape
	}
	a := attrs{}
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return a, nil
}

// take decodes the member key into dst. Missing and null members leave dst
// untouched.
func (a attrs) take(key string, dst any) error {
	raw, ok := a[key]
	if !ok || isNull(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: field %q: %v", ErrUnexpectedShape, key, err)
	}
	return nil
}

// extra returns an unmodelled member.
func (a attrs) extra(key string, modelled []string) (json.RawMessage, bool) {
	if slices.Contains(modelled, key) {
		return nil, false
	}
	raw, ok := a[key]
	return raw, ok
}

// encoder writes an entity back. Members that were received are copied
// byte for byte; a modelled member is replaced only when its Go value no
// longer matches what was received.
type encoder struct {
	src attrs
	out map[string]any
}

func newEncoder(src attrs) *encoder {
	out := make(map[string]any, len(src)+4)
	for k, v := range src {
		out[k] = v
	}
	return &encoder{src: src, out: out}
}

// field records the modelled member key holding v. wire is the value written
// when the member has to be (re)encoded. Locally built entities skip zero
// values only when omitZero is set; received entities never gain a member
// whose value is still zero.
func field[V any](e *encoder, key string, v V, equal func(a, b V) bool, wire any, omitZero bool) {
	var zero V
	if e.src == nil {
		if omitZero && equal(v, zero) {
			return
		}
		e.out[key] = wire
		return
	}

	raw, ok := e.src[key]
	if !ok {
		if !equal(v, zero) {
			e.out[key] = wire
		}
		return
	}

	var received V
	if isNull(raw) || json.Unmarshal(raw, &received) == nil {
		if equal(v, received) {
			return
		}
	}
	e.out[key] = wire
}

func (e *encoder) encode() ([]byte, error) {
	return json.Marshal(e.out)
}

func sameInt(a, b int64) bool     { return a == b }
func sameString(a, b string) bool { return a == b }

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

func isObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

func isArray(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '['
}
