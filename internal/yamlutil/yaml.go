// Package yamlutil wraps YAML parsing to isolate the external dependency.
// This allows swapping the underlying YAML library without modifying callers.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// ErrNotMapping indicates ordered input whose top level is not a mapping.
var ErrNotMapping = errors.New("yamlutil: top level is not a mapping")

// MapItem and MapSlice expose the ordered mapping type without leaking the
// underlying library to callers.
type (
	MapItem  = yaml.MapItem
	MapSlice = yaml.MapSlice
)

// UnmarshalOrdered parses a top-level mapping preserving key order.
// A document holding only comments or whitespace yields an empty slice.
func UnmarshalOrdered(data []byte) (MapSlice, error) {
	var out any
	if err := validateInput(data, &out); err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalWithOptions(data, &out, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	switch v := out.(type) {
	case nil:
		return MapSlice{}, nil
	case yaml.MapSlice:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, out)
	}
}
