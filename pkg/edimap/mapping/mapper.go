// Package mapping converts business messages between application-specific
// objects and the common EDI standard structure.
package mapping

import (
	"log/slog"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

// Mapper applies field mapping rules. It holds no per-call state.
type Mapper struct {
	log        *slog.Logger
	transforms *Registry
}

// NewMapper returns a Mapper with the built-in transformations.
// A nil logger uses slog.Default().
func NewMapper(log *slog.Logger) *Mapper {
	if log == nil {
		log = slog.Default()
	}
	return &Mapper{log: log, transforms: NewRegistry()}
}

// Register adds a custom transformation.
func (m *Mapper) Register(name string, fn TransformFunc) {
	m.transforms.Register(name, fn)
}

// Transformations returns the transformation registry.
func (m *Mapper) Transformations() *Registry {
	return m.transforms
}

// EvaluateCondition evaluates a `<path> <op> <literal>` expression against
// data. Malformed expressions are logged and evaluate to false.
func (m *Mapper) EvaluateCondition(expr string, data map[string]any) bool {
	cond, err := ParseCondition(expr)
	if err != nil {
		m.log.Warn("condition evaluation failed", "condition", expr, "error", err)
		return false
	}
	return cond.Eval(data)
}

// ToEDI maps an application object onto the EDI standard structure.
func (m *Mapper) ToEDI(src map[string]any, rules []models.FieldMapping) map[string]any {
	return m.apply(src, rules, false)
}

// FromEDI maps an EDI standard object back onto the application structure.
// Read values are transformed but not coerced; defaults are still coerced.
func (m *Mapper) FromEDI(src map[string]any, rules []models.FieldMapping) map[string]any {
	return m.apply(src, rules, true)
}

func (m *Mapper) apply(src map[string]any, rules []models.FieldMapping, reverse bool) map[string]any {
	result := make(map[string]any)

	for _, rule := range rules {
		from, to := rule.AppField, rule.EDIField
		if reverse {
			from, to = to, from
		}
		log := m.log.With("field", from)

		if rule.Condition != "" && !m.EvaluateCondition(rule.Condition, src) {
			continue
		}

		value, ok := GetPath(src, from)
		if !ok {
			if !rule.Required {
				continue
			}
			if rule.DefaultValue == nil {
				log.Warn("required field not found")
				continue
			}
			def, err := Convert(rule.DefaultValue, rule.DataType, rule.Format)
			if err != nil {
				log.Debug("default value kept unconverted", "error", err)
				def = rule.DefaultValue
			}
			SetPath(result, to, def)
			continue
		}

		if !reverse && rule.DataType != "" {
			converted, err := Convert(value, rule.DataType, rule.Format)
			if err != nil {
				log.Warn("type conversion failed", "error", err)
			} else {
				value = converted
			}
		}

		if rule.Transformation != "" {
			transformed, err := m.transforms.Apply(rule.Transformation, value)
			if err != nil {
				log.Warn("transformation failed", "transformation", rule.Transformation, "error", err)
			} else {
				value = transformed
			}
		}

		SetPath(result, to, value)
	}

	return result
}
