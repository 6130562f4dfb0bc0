package classifier

import (
	"fmt"
	"regexp"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/liamcoop/churn/customer"
)

// termCostLimit bounds the runtime cost of a single interaction term
const termCostLimit = 100000

var termName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Term is an interaction feature: a CEL expression over the record's
// columns, e.g. `tenure < 6 && Contract == "Month-to-month"`.
type Term struct {
	Name       string  `json:"name" yaml:"name"`
	Expression string  `json:"expression" yaml:"expression"`
	Weight     float64 `json:"weight" yaml:"weight"`
}

type compiledTerm struct {
	Term
	prog cel.Program
}

// newFeatureEnv declares one CEL variable per column, typed after the
// column's kind.
func newFeatureEnv() (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(customer.FeatureOrder))
	for _, f := range customer.Fields() {
		var t *cel.Type
		switch f.Kind {
		case customer.KindEnum:
			t = cel.StringType
		case customer.KindFlag, customer.KindInt:
			t = cel.IntType
		case customer.KindFloat:
			t = cel.DoubleType
		}
		opts = append(opts, cel.Variable(f.Name, t))
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

// compileTerm type-checks the expression and builds its program. Only
// boolean and numeric expressions are accepted.
func compileTerm(env *cel.Env, t Term) (*compiledTerm, error) {
	if !termName.MatchString(t.Name) {
		return nil, fmt.Errorf("term name %q must match %s", t.Name, termName.String())
	}

	ast, issues := env.Compile(t.Expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("term %s: compile error: %w", t.Name, issues.Err())
	}

	switch ast.OutputType().Kind() {
	case types.BoolKind, types.IntKind, types.UintKind, types.DoubleKind:
	default:
		return nil, fmt.Errorf("term %s: expression must be bool or numeric, got %s", t.Name, ast.OutputType())
	}

	prog, err := env.Program(ast, cel.CostLimit(termCostLimit))
	if err != nil {
		return nil, fmt.Errorf("term %s: program creation error: %w", t.Name, err)
	}

	return &compiledTerm{Term: t, prog: prog}, nil
}

// contribution evaluates the term against the row's activation. A true
// boolean contributes the weight, a number contributes weight * value.
func (ct *compiledTerm) contribution(activation map[string]any) (float64, error) {
	out, _, err := ct.prog.Eval(activation)
	if err != nil {
		return 0, fmt.Errorf("term %s: %w", ct.Name, err)
	}

	switch v := out.Value().(type) {
	case bool:
		if v {
			return ct.Weight, nil
		}
	case int64:
		return ct.Weight * float64(v), nil
	case uint64:
		return ct.Weight * float64(v), nil
	case float64:
		return ct.Weight * v, nil
	}
	return 0, nil
}
