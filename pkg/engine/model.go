package engine

import (
	"fmt"

	"github.com/Sherolroses/Transport/pkg/config"
	"github.com/Sherolroses/Transport/pkg/congestion"
)

// BuildModel turns the congestion section of the config into a Model.
func BuildModel(c config.CongestionConfig) (congestion.Model, error) {
	switch c.Model {
	case "", config.ModelTimeOfDay:
		return congestion.TimeOfDay{}, nil
	case config.ModelProfile:
		if err := c.Profile.Validate(); err != nil {
			return nil, fmt.Errorf("congestion profile: %w", err)
		}
		return c.Profile, nil
	case config.ModelRules:
		m, err := congestion.NewRuleModel(c.Rules, c.Default)
		if err != nil {
			return nil, fmt.Errorf("congestion rules: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown congestion model %q", c.Model)
	}
}
