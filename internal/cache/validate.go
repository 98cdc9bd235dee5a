package cache

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

// ErrInvalidSize is returned by ValidateSize for capacities below one.
var ErrInvalidSize = errors.New("cache size must be a positive integer")

// SizeValidator decides whether a capacity is acceptable.
//
// New calls it exactly once with Config.Size. Tests substitute their own to
// observe or force the outcome.
type SizeValidator func(size int) error

// ValidateSize is the default SizeValidator.
func ValidateSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	return nil
}

// ConfigError reports a capacity rejected at construction.
type ConfigError struct {
	Size int
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid cache configuration (size=%d): %v", e.Size, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsValidKey reports whether key is a string or a finite number.
//
// Integers of any width, unsigned integers and finite floats are accepted,
// including named types built on them. Everything else (nil, composites,
// pointers, bools, NaN and infinities) is rejected.
//
// The check is advisory. Set, Get and Remove do not call it.
func IsValidKey(key any) bool {
	if key == nil {
		return false
	}

	v := reflect.ValueOf(key)
	switch v.Kind() {
	case reflect.String:
		return true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return false
	}
}
