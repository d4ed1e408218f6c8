// Package input provides the passthrough entry template of an agent.
package input

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sartorproj/goseries/packet"
	"github.com/sartorproj/goseries/template"
)

// ClassName is the registry key of this template.
const ClassName = "InputTemplate"

// Template returns its container unchanged.
type Template struct {
	template.Base
}

// New returns an input template.
func New(name string, logger *slog.Logger) *Template {
	return &Template{Base: template.NewBase(ClassName, name, logger)}
}

// Factory builds an input template. It takes no attributes.
func Factory(name string, raw map[string]any, logger *slog.Logger) (template.Template, error) {
	var attrs struct{}
	if err := template.Decode(raw, &attrs); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return New(name, logger), nil
}

// Execute logs the batch size and passes the container through.
func (t *Template) Execute(ctx context.Context, c *packet.Container) (*packet.Container, error) {
	t.Logger().Debug("received packets", "count", c.Len())
	return c, nil
}
