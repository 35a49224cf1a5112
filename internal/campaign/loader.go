package campaign

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlCampaign mirrors Campaign for file loading; durations are written as
// Go duration strings ("30m", "1h").
type yamlCampaign struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Severity    string      `yaml:"severity"`
	Techniques  []string    `yaml:"techniques"`
	Phases      []yamlPhase `yaml:"phases"`
}

type yamlPhase struct {
	Name        string                 `yaml:"name"`
	Duration    string                 `yaml:"duration"`
	EventBudget int                    `yaml:"event_budget"`
	Generators  []yamlGenerator        `yaml:"generators"`
	Roles       []string               `yaml:"roles"`
	Params      map[string]interface{} `yaml:"params"`
}

type yamlGenerator struct {
	Generator string  `yaml:"generator"`
	Weight    float64 `yaml:"weight"`
}

// LoadFile parses a campaign definition from a YAML file. The result is not
// yet validated; pass it through Library.Add or Validate before use.
func LoadFile(path string) (*Campaign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read campaign file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML campaign definition.
func Parse(data []byte) (*Campaign, error) {
	var yc yamlCampaign
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("parse campaign yaml: %w", err)
	}

	c := &Campaign{
		ID:          yc.ID,
		Name:        yc.Name,
		Description: yc.Description,
		Severity:    yc.Severity,
		Techniques:  yc.Techniques,
	}
	for _, yp := range yc.Phases {
		dur, err := time.ParseDuration(yp.Duration)
		if err != nil {
			return nil, fmt.Errorf("phase %q: bad duration %q: %w", yp.Name, yp.Duration, err)
		}
		phase := Phase{
			Name:        yp.Name,
			Duration:    dur,
			EventBudget: yp.EventBudget,
			Roles:       yp.Roles,
			Params:      yp.Params,
		}
		for _, yg := range yp.Generators {
			phase.Generators = append(phase.Generators, GeneratorWeight{
				GeneratorID: yg.Generator,
				Weight:      yg.Weight,
			})
		}
		c.Phases = append(c.Phases, phase)
	}
	return c, nil
}
