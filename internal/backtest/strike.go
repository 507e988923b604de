package backtest

import (
	"errors"
	"fmt"

	"github.com/Knetic/govaluate"
)

// ErrInvalidStrikeRule marks strike rules that do not parse or do not
// evaluate to a positive number.
var ErrInvalidStrikeRule = errors.New("invalid strike rule")

// StrikeRule converts a spot price into a strike via a configurable
// expression over the variable S, e.g. "S * 1.05" for a 5% markup.
// The expression is compiled once and evaluated on every roll date.
type StrikeRule struct {
	src  string
	expr *govaluate.EvaluableExpression
}

// NewStrikeRule compiles rule. An empty rule is rejected; callers fill
// defaults before constructing.
func NewStrikeRule(rule string) (*StrikeRule, error) {
	expr, err := govaluate.NewEvaluableExpression(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidStrikeRule, rule, err)
	}
	return &StrikeRule{src: rule, expr: expr}, nil
}

// Strike evaluates the rule at the given spot price.
func (sr *StrikeRule) Strike(spot float64) (float64, error) {
	result, err := sr.expr.Evaluate(map[string]interface{}{"S": spot})
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidStrikeRule, sr.src, err)
	}
	f, ok := result.(float64)
	if !ok || f <= 0 {
		return 0, fmt.Errorf("%w: %q evaluated to %v at S=%g", ErrInvalidStrikeRule, sr.src, result, spot)
	}
	return f, nil
}

func (sr *StrikeRule) String() string { return sr.src }
