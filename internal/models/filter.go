package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Filter is either All (no restriction) or Specific(value).
// The zero value is All.
type Filter[T comparable] struct {
	value    T
	specific bool
}

func All[T comparable]() Filter[T] {
	return Filter[T]{}
}

func Specific[T comparable](v T) Filter[T] {
	return Filter[T]{value: v, specific: true}
}

func (f Filter[T]) IsAll() bool {
	return !f.specific
}

// Value returns the restriction and whether there is one.
func (f Filter[T]) Value() (T, bool) {
	return f.value, f.specific
}

func (f Filter[T]) Equal(other Filter[T]) bool {
	if f.specific != other.specific {
		return false
	}
	return !f.specific || f.value == other.value
}

const (
	filterKindAll      = "all"
	filterKindSpecific = "specific"
)

type filterJSON[T comparable] struct {
	Kind  string `json:"kind"`
	Value *T     `json:"value,omitempty"`
}

func (f Filter[T]) MarshalJSON() ([]byte, error) {
	if !f.specific {
		return json.Marshal(filterJSON[T]{Kind: filterKindAll})
	}
	v := f.value
	return json.Marshal(filterJSON[T]{Kind: filterKindSpecific, Value: &v})
}

// UnmarshalJSON accepts the tagged form and the legacy plain form, where
// "all" was spelled with one of the sentinel strings.
func (f *Filter[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = All[T]()
		return nil
	}

	if len(data) > 0 && data[0] == '{' {
		var raw filterJSON[T]
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decode filter: %w", err)
		}
		switch raw.Kind {
		case filterKindAll, "":
			*f = All[T]()
		case filterKindSpecific:
			if raw.Value == nil {
				return fmt.Errorf("decode filter: specific filter without value")
			}
			*f = Specific(*raw.Value)
		default:
			return fmt.Errorf("decode filter: unknown kind %q", raw.Kind)
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil && IsAllSentinel(s) {
		*f = All[T]()
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode filter: %w", err)
	}
	*f = Specific(v)
	return nil
}
