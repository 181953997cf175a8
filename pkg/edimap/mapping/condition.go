package mapping

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// operators is ordered longest first so ">=" is never read as ">".
var operators = []string{"===", "!==", "==", "!=", ">=", "<=", ">", "<"}

var conditionPath = regexp.MustCompile(`^[\w.]+$`)

// Condition is a parsed `<path> <op> <literal>` comparison.
type Condition struct {
	Path     string
	Operator string
	Literal  string
}

// ParseCondition parses a single binary comparison.
func ParseCondition(expr string) (Condition, error) {
	for i := 0; i < len(expr); i++ {
		for _, op := range operators {
			if !strings.HasPrefix(expr[i:], op) {
				continue
			}
			path := strings.TrimSpace(expr[:i])
			if !conditionPath.MatchString(path) {
				return Condition{}, fmt.Errorf("invalid field path in condition %q", expr)
			}
			literal := strings.NewReplacer("'", "", `"`, "").Replace(strings.TrimSpace(expr[i+len(op):]))
			return Condition{Path: path, Operator: op, Literal: literal}, nil
		}
	}
	return Condition{}, fmt.Errorf("no comparison operator in condition %q", expr)
}

// Eval evaluates the condition against data. Equality compares text,
// ordering compares numbers; a missing field equals nothing.
func (c Condition) Eval(data map[string]any) bool {
	actual, found := GetPath(data, c.Path)

	switch c.Operator {
	case "===", "==":
		return found && stringify(actual) == c.Literal
	case "!==", "!=":
		return !found || stringify(actual) != c.Literal
	}

	if !found {
		return false
	}
	left, err := orderValue(actual)
	if err != nil {
		return false
	}
	right, err := strictNumber(c.Literal)
	if err != nil {
		return false
	}
	switch c.Operator {
	case ">":
		return left > right
	case "<":
		return left < right
	case ">=":
		return left >= right
	case "<=":
		return left <= right
	}
	return false
}

func orderValue(v any) (float64, error) {
	if n, ok := numeric(v); ok {
		return n, nil
	}
	if s, ok := v.(string); ok {
		return strictNumber(s)
	}
	return 0, fmt.Errorf("%T is not comparable", v)
}

// strictNumber parses an ordering operand. Trailing text makes it invalid.
func strictNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
