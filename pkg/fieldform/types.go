package fieldform

// FieldType is the kind of value a field accepts.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeEmail   FieldType = "email"
	FieldTypeInteger FieldType = "integer"
	FieldTypeBoolean FieldType = "boolean"
)

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule is a single constraint applied to a field. Length and
// numeric bounds carry their threshold in Params["value"]; pattern rules
// carry the expression in Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// MinLength returns a minLength rule.
func MinLength(n int) ValidationRule {
	return valueRule(ValidationRuleMinLength, n)
}

// MaxLength returns a maxLength rule.
func MaxLength(n int) ValidationRule {
	return valueRule(ValidationRuleMaxLength, n)
}

// Min returns an inclusive lower bound for integer fields.
func Min(n int) ValidationRule {
	return valueRule(ValidationRuleMin, n)
}

// Max returns an inclusive upper bound for integer fields.
func Max(n int) ValidationRule {
	return valueRule(ValidationRuleMax, n)
}

// Pattern returns a rule requiring the whole value to match expr.
func Pattern(expr string) ValidationRule {
	return ValidationRule{Kind: ValidationRulePattern, Params: map[string]string{"pattern": expr}}
}

// Field describes one input.
type Field struct {
	Name     string    `json:"name" yaml:"name"`
	Type     FieldType `json:"type,omitempty" yaml:"type,omitempty"`
	Label    string    `json:"label,omitempty" yaml:"label,omitempty"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`
	// InputType overrides the HTML input type derived from Type, e.g.
	// "password" or "textarea".
	InputType   string           `json:"inputType,omitempty" yaml:"inputType,omitempty"`
	Default     any              `json:"default,omitempty" yaml:"default,omitempty"`
	Validations []ValidationRule `json:"validations,omitempty" yaml:"validations,omitempty"`
}
