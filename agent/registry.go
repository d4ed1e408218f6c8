package agent

import (
	"github.com/sartorproj/goseries/template"
	"github.com/sartorproj/goseries/templates/csvloader"
	"github.com/sartorproj/goseries/templates/dataframeloader"
	"github.com/sartorproj/goseries/templates/forecaster"
	"github.com/sartorproj/goseries/templates/input"
)

// Registry maps class names to template factories.
type Registry map[string]template.Factory

// DefaultRegistry returns every built-in template.
func DefaultRegistry() Registry {
	return Registry{
		input.ClassName:           input.Factory,
		dataframeloader.ClassName: dataframeloader.Factory,
		csvloader.ClassName:       csvloader.Factory,
		forecaster.ClassName:      forecaster.Factory,
	}
}
