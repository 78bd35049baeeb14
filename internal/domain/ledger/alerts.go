package ledger

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// AlertRule is a named CEL expression evaluated against an aggregate after a
// ledger apply. Expressions must yield bool; a true result triggers the rule.
//
// Available variables: inStock, purchasesQuantity, salesQuantity (int),
// purchasesPrice, salesPrice, profit (double), modelId (string).
type AlertRule struct {
	Name       string
	Expression string
}

// DefaultAlertRules returns the rules enabled out of the box.
func DefaultAlertRules() []AlertRule {
	return []AlertRule{
		{Name: "negative_stock", Expression: "inStock < 0"},
	}
}

type compiledRule struct {
	name    string
	program cel.Program
}

// AlertEngine evaluates alert rules against aggregate state.
// Rules only observe; they never fail or roll back the ledger transaction.
type AlertEngine struct {
	rules []compiledRule
}

// NewAlertEngine compiles the given rules.
func NewAlertEngine(rules []AlertRule) (*AlertEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("modelId", cel.StringType),
		cel.Variable("inStock", cel.IntType),
		cel.Variable("purchasesQuantity", cel.IntType),
		cel.Variable("salesQuantity", cel.IntType),
		cel.Variable("purchasesPrice", cel.DoubleType),
		cel.Variable("salesPrice", cel.DoubleType),
		cel.Variable("profit", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}

	engine := &AlertEngine{rules: make([]compiledRule, 0, len(rules))}
	for _, rule := range rules {
		ast, issues := env.Compile(rule.Expression)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("compile rule %q: %w", rule.Name, issues.Err())
		}
		if ast.OutputType() != cel.BoolType {
			return nil, fmt.Errorf("rule %q: expression must yield bool, got %s", rule.Name, ast.OutputType())
		}

		program, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("program rule %q: %w", rule.Name, err)
		}
		engine.rules = append(engine.rules, compiledRule{name: rule.Name, program: program})
	}

	return engine, nil
}

// Evaluate returns the names of rules triggered by the aggregate state.
// Evaluation errors count as not triggered.
func (e *AlertEngine) Evaluate(agg *Aggregate) []string {
	if e == nil || agg == nil || len(e.rules) == 0 {
		return nil
	}

	activation := map[string]any{
		"modelId":           agg.ModelID.String(),
		"inStock":           agg.TotalInStock,
		"purchasesQuantity": agg.TotalPurchasesQuantity,
		"salesQuantity":     agg.TotalSalesQuantity,
		"purchasesPrice":    agg.TotalPurchasesPrice.InexactFloat64(),
		"salesPrice":        agg.TotalSalesPrice.InexactFloat64(),
		"profit":            agg.Profit.InexactFloat64(),
	}

	var triggered []string
	for _, rule := range e.rules {
		out, _, err := rule.program.Eval(activation)
		if err != nil {
			continue
		}
		if hit, ok := out.Value().(bool); ok && hit {
			triggered = append(triggered, rule.name)
		}
	}

	return triggered
}
