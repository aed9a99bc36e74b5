package congestion

import (
	"errors"
	"fmt"
)

// Band applies Multiplier to hours From..To inclusive.
type Band struct {
	From       int     `mapstructure:"from" yaml:"from"`
	To         int     `mapstructure:"to" yaml:"to"`
	Multiplier float64 `mapstructure:"multiplier" yaml:"multiplier"`
}

// Profile is an ordered list of bands. The first band containing the hour
// wins; otherwise Default applies.
type Profile struct {
	Bands   []Band  `mapstructure:"bands" yaml:"bands"`
	Default float64 `mapstructure:"default" yaml:"default"`
}

// DefaultProfile reproduces the TimeOfDay table.
func DefaultProfile() Profile {
	return Profile{
		Bands: []Band{
			{From: 7, To: 9, Multiplier: Peak},
			{From: 16, To: 18, Multiplier: Peak},
			{From: 10, To: 15, Multiplier: Moderate},
		},
		Default: Free,
	}
}

// Validate checks band bounds and multipliers.
func (p Profile) Validate() error {
	var errs []error
	if p.Default <= 0 {
		errs = append(errs, fmt.Errorf("default multiplier %v must be positive", p.Default))
	}
	for i, b := range p.Bands {
		if b.From < 0 || b.To > 23 || b.From > b.To {
			errs = append(errs, fmt.Errorf("band %d: hours %d-%d out of range", i, b.From, b.To))
		}
		if b.Multiplier <= 0 {
			errs = append(errs, fmt.Errorf("band %d: multiplier %v must be positive", i, b.Multiplier))
		}
	}
	return errors.Join(errs...)
}

func (p Profile) Multiplier(hour int) (float64, error) {
	if err := ValidateHour(hour); err != nil {
		return 0, err
	}
	for _, b := range p.Bands {
		if hour >= b.From && hour <= b.To {
			return b.Multiplier, nil
		}
	}
	return p.Default, nil
}
