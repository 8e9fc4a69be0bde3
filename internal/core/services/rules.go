package services

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/custodia-labs/taxclause/internal/core/domain"
)

// Rule IDs raised by the built-in rule set.
const (
	RuleGrossUpRequired = "gross-up-required"
	RuleVATWording      = "vat-wording"
)

// Rule is a declarative evaluation rule. Condition is a CEL expression over
// the clause facts (see Facts) that raises the issue when it yields true.
type Rule struct {
	ID          string
	Severity    domain.Severity
	Condition   string
	Explanation string
	Suggestion  string
}

// defaultRules are applied in declaration order.
var defaultRules = []Rule{
	{
		ID:          RuleGrossUpRequired,
		Severity:    domain.SeverityHigh,
		Condition:   `withholdingTax && !grossUp`,
		Explanation: "Withholding tax mentioned but no gross-up protection found.",
		Suggestion:  "Add a gross-up clause ensuring payer bears WHT.",
	},
	{
		ID:          RuleVATWording,
		Severity:    domain.SeverityMedium,
		Condition:   `vat && !text.matches(r'(?i)reverse[` + wsClass + `]+charge')`,
		Explanation: "VAT mentioned without 'reverse charge' wording.",
		Suggestion:  "Add VAT wording (e.g., reverse charge where applicable).",
	},
}

// DefaultRules returns a copy of the built-in tax rules in evaluation order.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// Facts are the values a rule condition can reference.
type Facts struct {
	WithholdingTax bool
	GrossUp        bool
	VAT            bool
	GoverningLaw   bool
	Text           string
}

// FactsFrom derives the presence flags from extracted clauses.
func FactsFrom(text string, clauses []domain.ClauseMatch) Facts {
	f := Facts{Text: text}
	for i := range clauses {
		switch clauses[i].Name {
		case domain.ClauseWithholdingTax:
			f.WithholdingTax = true
		case domain.ClauseGrossUp:
			f.GrossUp = true
		case domain.ClauseVAT:
			f.VAT = true
		case domain.ClauseGoverningLaw:
			f.GoverningLaw = true
		}
	}
	return f
}

// Summary returns the flags reported in an evaluation summary.
func (f Facts) Summary() domain.Summary {
	return domain.Summary{
		WithholdingTax: f.WithholdingTax,
		GrossUp:        f.GrossUp,
		VAT:            f.VAT,
	}
}

func (f Facts) activation() map[string]any {
	return map[string]any{
		"withholdingTax": f.WithholdingTax,
		"grossUp":        f.GrossUp,
		"vat":            f.VAT,
		"governingLaw":   f.GoverningLaw,
		"text":           f.Text,
	}
}

type compiledRule struct {
	Rule
	prg cel.Program
}

// RuleSet is an ordered list of compiled rules. It is immutable after
// construction and safe for concurrent use.
type RuleSet struct {
	rules []compiledRule
}

// NewRuleSet compiles rules in order. A rule that fails to compile is
// reported with its ID.
func NewRuleSet(rules []Rule) (*RuleSet, error) {
	env, err := cel.NewEnv(
		cel.Variable("withholdingTax", cel.BoolType),
		cel.Variable("grossUp", cel.BoolType),
		cel.Variable("vat", cel.BoolType),
		cel.Variable("governingLaw", cel.BoolType),
		cel.Variable("text", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}

	rs := &RuleSet{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		ast, issues := env.Compile(r.Condition)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("rule %s: compile: %w", r.ID, issues.Err())
		}
		prg, err := env.Program(ast, cel.EvalOptions(cel.OptOptimize))
		if err != nil {
			return nil, fmt.Errorf("rule %s: program: %w", r.ID, err)
		}
		rs.rules = append(rs.rules, compiledRule{Rule: r, prg: prg})
	}

	return rs, nil
}

// Rules returns the rule definitions in evaluation order.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	for i := range rs.rules {
		out[i] = rs.rules[i].Rule
	}
	return out
}

// Apply evaluates every rule against facts and returns the raised issues
// in rule order. The result is never nil.
func (rs *RuleSet) Apply(facts Facts) ([]domain.Issue, error) {
	issues := make([]domain.Issue, 0)
	vars := facts.activation()

	for i := range rs.rules {
		r := &rs.rules[i]
		out, _, err := r.prg.Eval(vars)
		if err != nil {
			return nil, fmt.Errorf("rule %s: eval: %w", r.ID, err)
		}
		fired, ok := out.Value().(bool)
		if !ok {
			return nil, fmt.Errorf("rule %s: condition must yield bool, got %T", r.ID, out.Value())
		}
		if fired {
			issues = append(issues, domain.Issue{
				ID:          r.ID,
				Severity:    r.Severity,
				Explanation: r.Explanation,
				Suggestion:  r.Suggestion,
			})
		}
	}

	return issues, nil
}
