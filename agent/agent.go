// Package agent builds a pipeline of templates from configuration and runs
// containers through it.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sartorproj/goseries/packet"
	"github.com/sartorproj/goseries/template"
)

// Agent runs its templates in configuration order. It holds no per-run
// state, so concurrent Run calls with distinct containers are safe.
type Agent struct {
	name        string
	description string
	steps       []template.Template
	logger      *slog.Logger
}

// New validates cfg and builds every template through registry. A nil
// logger falls back to slog.Default().
func New(cfg *Config, registry Registry, logger *slog.Logger) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("agent", cfg.Agent.Name)

	steps := make([]template.Template, 0, len(cfg.Templates))
	for _, tc := range cfg.Templates {
		factory, ok := registry[tc.ClassName]
		if !ok {
			return nil, fmt.Errorf("%w: template %q: unknown class %q", ErrInvalidConfig, tc.TemplateName, tc.ClassName)
		}
		tpl, err := factory(tc.TemplateName, tc.Attributes, logger)
		if err != nil {
			return nil, fmt.Errorf("build template %q: %w", tc.TemplateName, err)
		}
		steps = append(steps, tpl)
	}

	return &Agent{
		name:        cfg.Agent.Name,
		description: cfg.Agent.Description,
		steps:       steps,
		logger:      logger,
	}, nil
}

// Load reads the configuration at path and builds an agent from it.
func Load(path string, registry Registry, logger *slog.Logger) (*Agent, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return New(cfg, registry, logger)
}

// Name returns the agent name.
func (a *Agent) Name() string {
	return a.name
}

// Description returns the agent description.
func (a *Agent) Description() string {
	return a.description
}

// Templates returns the template names in execution order.
func (a *Agent) Templates() []string {
	names := make([]string, len(a.steps))
	for i, s := range a.steps {
		names[i] = s.Name()
	}
	return names
}

// Run executes every template on c in order and stops at the first error.
// A nil container is replaced by an empty one.
func (a *Agent) Run(ctx context.Context, c *packet.Container) (*packet.Container, error) {
	if c == nil {
		c = packet.NewContainer()
	}

	start := time.Now()
	for _, step := range a.steps {
		if err := ctx.Err(); err != nil {
			return c, fmt.Errorf("agent %s: before %s: %w", a.name, step.Name(), err)
		}

		stepStart := time.Now()
		out, err := step.Execute(ctx, c)
		if err != nil {
			a.logger.Error("template failed", "template", step.Name(), "error", err)
			return c, fmt.Errorf("template %s: %w", step.Name(), err)
		}
		if out != nil {
			c = out
		}
		a.logger.Debug("template executed",
			"template", step.Name(),
			"packets", c.Len(),
			"duration", time.Since(stepStart))
	}

	a.logger.Info("agent run completed", "packets", c.Len(), "duration", time.Since(start))
	return c, nil
}
