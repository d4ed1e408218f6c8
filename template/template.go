// Package template defines the contract every pipeline component follows:
// it is built once from validated attributes and then executed against a
// container, mutating packets in place.
package template

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"

	"github.com/sartorproj/goseries/packet"
)

// ErrInvalidAttributes marks attributes that fail decoding or validation.
var ErrInvalidAttributes = errors.New("invalid template attributes")

// Template is one pipeline step.
// Execute is synchronous and returns the container it was given; an error
// aborts the pipeline.
type Template interface {
	Name() string
	Execute(ctx context.Context, c *packet.Container) (*packet.Container, error)
}

// Factory builds a template from raw attributes, as read from an agent
// configuration file.
type Factory func(name string, attributes map[string]any, logger *slog.Logger) (Template, error)

// Base carries the name and logger shared by all templates.
type Base struct {
	name   string
	logger *slog.Logger
}

// NewBase returns a Base; a nil logger falls back to slog.Default().
func NewBase(kind, name string, logger *slog.Logger) Base {
	if logger == nil {
		logger = slog.Default()
	}
	return Base{
		name:   name,
		logger: logger.With("template", name, "class", kind),
	}
}

// Name returns the template instance name.
func (b Base) Name() string {
	return b.name
}

// Logger returns the template's logger.
func (b Base) Logger() *slog.Logger {
	return b.logger
}

// Decode strictly decodes raw attributes into out. Unknown keys are rejected
// and single values are accepted where a list is expected. Keys of nested
// maps such as static_covariates are kept as written.
func Decode(raw map[string]any, out any) error {
	if raw == nil {
		raw = map[string]any{}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAttributes, err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAttributes, err)
	}
	return nil
}

// Invalid wraps a validation failure as ErrInvalidAttributes, keeping the
// cause reachable through errors.Is.
func Invalid(name string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidAttributes, name, err)
}
