// Package validation checks decoded JSON payloads against declarative
// field schemas before any handler side effect runs.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// maxbytes bounds the UTF-8 encoded length; max counts runes
	if err := v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	}); err != nil {
		panic(err)
	}
	return v
}

// Kind is the JSON type a field must have.
type Kind int

const (
	KindString Kind = iota
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Rule is a single validator tag (e.g. "min=3") and the message reported
// when the value fails it.
type Rule struct {
	Tag     string
	Message string
}

// Field declares the constraints for one key of the input map.
// Optional fields may be absent, null or the empty string.
type Field struct {
	Name     string
	Kind     Kind
	Integer  bool
	Optional bool
	Rules    []Rule
}

// Schema is an ordered set of field constraints.
type Schema struct {
	Fields []Field
}

// Violation describes one failed constraint.
type Violation struct {
	Path    []string `json:"path"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
}

// Violations is the structured result of a failed validation.
type Violations []Violation

func (v Violations) Error() string {
	msgs := make([]string, 0, len(v))
	for _, violation := range v {
		msgs = append(msgs, strings.Join(violation.Path, ".")+": "+violation.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Values holds the type-checked fields of a validated input.
type Values map[string]any

// String returns the string value of name, or "" when absent.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Int returns the integer value of name, or 0 when absent.
func (v Values) Int(name string) int {
	f, _ := v[name].(float64)
	return int(f)
}

// Has reports whether name was present in the input.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// Validate checks input against every field of the schema and returns the
// accepted values. All violations are collected; nothing is partially applied.
func (s Schema) Validate(input map[string]any) (Values, Violations) {
	values := make(Values, len(s.Fields))
	var violations Violations

	for _, field := range s.Fields {
		raw, present := input[field.Name]
		if !present || raw == nil || (field.Optional && raw == "") {
			if !field.Optional {
				violations = append(violations, Violation{
					Path:    []string{field.Name},
					Code:    "invalid_type",
					Message: "Required",
				})
			}
			continue
		}

		value, violation := coerce(field, raw)
		if violation != nil {
			violations = append(violations, *violation)
			continue
		}

		failed := false
		for _, rule := range field.Rules {
			if err := validate.Var(value, rule.Tag); err != nil {
				failed = true
				violations = append(violations, Violation{
					Path:    []string{field.Name},
					Code:    codeFor(rule.Tag),
					Message: rule.Message,
				})
			}
		}
		if !failed {
			values[field.Name] = value
		}
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return values, nil
}

// coerce checks the JSON type of raw and normalizes numbers to float64.
func coerce(field Field, raw any) (any, *Violation) {
	typeViolation := func(received string) *Violation {
		expected := field.Kind.String()
		if field.Integer {
			expected = "integer"
		}
		return &Violation{
			Path:    []string{field.Name},
			Code:    "invalid_type",
			Message: fmt.Sprintf("Expected %s, received %s", expected, received),
		}
	}

	switch field.Kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, typeViolation(jsonType(raw))
		}
		return s, nil

	case KindNumber:
		var f float64
		switch n := raw.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		case int64:
			f = float64(n)
		case json.Number:
			parsed, err := n.Float64()
			if err != nil {
				return nil, typeViolation("string")
			}
			f = parsed
		default:
			return nil, typeViolation(jsonType(raw))
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, typeViolation("nan")
		}
		if field.Integer && f != math.Trunc(f) {
			return nil, typeViolation("float")
		}
		return f, nil
	}

	return nil, typeViolation(jsonType(raw))
}

func jsonType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64, int, int64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func codeFor(tag string) string {
	name, _, _ := strings.Cut(tag, "=")
	switch name {
	case "min", "gte", "gt":
		return "too_small"
	case "max", "maxbytes", "lte", "lt":
		return "too_big"
	case "email":
		return "invalid_string"
	case "oneof":
		return "invalid_enum_value"
	default:
		return "custom"
	}
}
