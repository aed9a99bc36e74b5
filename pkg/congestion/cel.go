package congestion

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Rule is a CEL condition over the integer variable "hour", e.g.
// "hour >= 7 && hour <= 9".
type Rule struct {
	Name       string  `mapstructure:"name" yaml:"name"`
	Condition  string  `mapstructure:"condition" yaml:"condition"`
	Multiplier float64 `mapstructure:"multiplier" yaml:"multiplier"`
}

type compiledRule struct {
	Rule
	prg cel.Program
}

// RuleModel evaluates rules in order; the first true condition sets the
// multiplier.
type RuleModel struct {
	rules    []compiledRule
	fallback float64
}

// NewRuleModel compiles every rule once.
func NewRuleModel(rules []Rule, fallback float64) (*RuleModel, error) {
	if fallback <= 0 {
		return nil, fmt.Errorf("default multiplier %v must be positive", fallback)
	}

	env, err := cel.NewEnv(cel.Variable("hour", cel.IntType))
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	m := &RuleModel{fallback: fallback}
	for _, r := range rules {
		if r.Multiplier <= 0 {
			return nil, fmt.Errorf("rule %s: multiplier %v must be positive", r.Name, r.Multiplier)
		}

		ast, issues := env.Compile(r.Condition)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("rule %s compilation error: %w", r.Name, issues.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("rule %s: condition must be boolean, got %s", r.Name, ast.OutputType())
		}

		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("rule %s program creation error: %w", r.Name, err)
		}
		m.rules = append(m.rules, compiledRule{Rule: r, prg: prg})
	}
	return m, nil
}

func (m *RuleModel) Multiplier(hour int) (float64, error) {
	if err := ValidateHour(hour); err != nil {
		return 0, err
	}
	vars := map[string]any{"hour": int64(hour)}
	for _, r := range m.rules {
		out, _, err := r.prg.Eval(vars)
		if err != nil {
			return 0, fmt.Errorf("rule %s evaluation: %w", r.Name, err)
		}
		if match, ok := out.Value().(bool); ok && match {
			return r.Multiplier, nil
		}
	}
	return m.fallback, nil
}
