// Package rules evaluates admission rules on entities before they are
// stored. Rules are CEL expressions over the variables typeName (string)
// and properties (map of property name to value).
package rules

import (
	"fmt"

	"github.com/dnswlt/egeria/internal/ffdc"
	"github.com/dnswlt/egeria/internal/omrs"
	"github.com/dnswlt/egeria/internal/typedefs"
	"github.com/google/cel-go/cel"
)

// Rule is the configuration of a single admission rule.
type Rule struct {
	Name string `yaml:"name"`
	// TypeName restricts the rule to entities of this type and its subtypes.
	// An empty TypeName applies the rule to all entities.
	TypeName string `yaml:"typeName"`
	// Expression must evaluate to true for an entity to be admitted.
	Expression string `yaml:"expression"`
	// Message is reported when the rule rejects an entity.
	Message string `yaml:"message"`
}

type compiledRule struct {
	Rule
	program cel.Program
}

// Set is a compiled, immutable set of rules. It is safe for concurrent use.
type Set struct {
	types *typedefs.Registry
	rules []*compiledRule
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("typeName", cel.StringType),
		cel.Variable("properties", cel.MapType(cel.StringType, cel.DynType)),
	)
}

// Compile compiles rules. Type names must be known to types and every
// expression must have a boolean (or dynamic) result.
func Compile(rules []Rule, types *typedefs.Registry) (*Set, error) {
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	s := &Set{types: types}
	seen := make(map[string]bool)
	for i, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("rule #%d has no name", i)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("duplicate rule name %q", r.Name)
		}
		seen[r.Name] = true
		if r.TypeName != "" {
			if _, ok := types.Entity(r.TypeName); !ok {
				return nil, fmt.Errorf("rule %q: unknown entity type %q", r.Name, r.TypeName)
			}
		}
		ast, iss := env.Compile(r.Expression)
		if iss.Err() != nil {
			return nil, fmt.Errorf("rule %q: invalid expression: %w", r.Name, iss.Err())
		}
		if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
			return nil, fmt.Errorf("rule %q: expression has type %s, want bool", r.Name, t)
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		s.rules = append(s.rules, &compiledRule{Rule: r, program: prg})
	}
	return s, nil
}

// Len returns the number of rules in s. A nil set is empty.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Check evaluates all rules applicable to typeName. It returns an
// invalid-parameter error naming the first rule that rejects the entity.
func (s *Set) Check(methodName, typeName string, props *omrs.InstanceProperties) error {
	if s.Len() == 0 {
		return nil
	}
	vars := map[string]any{
		"typeName":   typeName,
		"properties": props.AsMap(),
	}
	for _, r := range s.rules {
		if r.TypeName != "" && !s.types.IsSubtypeOf(typeName, r.TypeName) {
			continue
		}
		out, _, err := r.program.Eval(vars)
		if err != nil {
			return ffdc.InvalidParameter(methodName, r.Name, "admission rule %s could not be evaluated: %v", r.Name, err)
		}
		ok, isBool := out.Value().(bool)
		if !isBool {
			return ffdc.InvalidParameter(methodName, r.Name, "admission rule %s returned %v instead of a bool", r.Name, out.Value())
		}
		if !ok {
			msg := r.Message
			if msg == "" {
				msg = fmt.Sprintf("rejected by admission rule %s", r.Name)
			}
			return ffdc.InvalidParameter(methodName, r.Name, "%s", msg)
		}
	}
	return nil
}
