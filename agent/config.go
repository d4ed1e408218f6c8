package agent

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"
)

// ErrInvalidConfig marks an agent configuration that cannot be built.
var ErrInvalidConfig = errors.New("invalid agent config")

// Config is the parsed agent configuration file.
type Config struct {
	Agent     Info             `mapstructure:"agent"`
	Templates []TemplateConfig `mapstructure:"templates"`
}

// Info names and describes the agent.
type Info struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
}

// TemplateConfig declares one pipeline step.
type TemplateConfig struct {
	TemplateName  string         `mapstructure:"template_name"`
	ClassName     string         `mapstructure:"class_name"`
	TemplateInput string         `mapstructure:"template_input"` // Name of an earlier step
	Attributes    map[string]any `mapstructure:"attributes"`
}

// LoadConfig reads an agent configuration file (YAML or JSON) and checks
// its structure.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read agent config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal agent config: %w", err)
	}

	attrs, err := rawAttributes(path)
	if err != nil {
		return nil, err
	}
	if len(attrs) != len(cfg.Templates) {
		return nil, fmt.Errorf("%w: templates section could not be read", ErrInvalidConfig)
	}
	for i := range cfg.Templates {
		cfg.Templates[i].Attributes = attrs[i]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// rawAttributes reads the templates' attribute maps as written. Viper folds
// keys to lower case and splits them on dots, which would rewrite the keys
// of static_covariates and metadata.
func rawAttributes(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read agent config: %w", err)
	}

	var doc struct {
		Templates []struct {
			Attributes map[string]any `json:"attributes"`
		} `json:"templates"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal agent config: %w", err)
	}

	out := make([]map[string]any, len(doc.Templates))
	for i, t := range doc.Templates {
		out[i] = t.Attributes
	}
	return out, nil
}

// Validate checks names and step ordering. Class names are resolved later
// against a registry.
func (c *Config) Validate() error {
	if c.Agent.Name == "" {
		return fmt.Errorf("%w: agent.name is required", ErrInvalidConfig)
	}
	if len(c.Templates) == 0 {
		return fmt.Errorf("%w: at least one template is required", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Templates))
	for i, t := range c.Templates {
		if t.TemplateName == "" {
			return fmt.Errorf("%w: templates[%d].template_name is required", ErrInvalidConfig, i)
		}
		if t.ClassName == "" {
			return fmt.Errorf("%w: templates[%d].class_name is required", ErrInvalidConfig, i)
		}
		if seen[t.TemplateName] {
			return fmt.Errorf("%w: duplicate template name %q", ErrInvalidConfig, t.TemplateName)
		}
		if t.TemplateInput != "" && !seen[t.TemplateInput] {
			return fmt.Errorf("%w: template %q takes input from %q, which is not defined before it",
				ErrInvalidConfig, t.TemplateName, t.TemplateInput)
		}
		seen[t.TemplateName] = true
	}
	return nil
}
