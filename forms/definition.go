package forms

import (
	"fmt"
	"strings"
)

// FieldKind enumerates the input widget classes a field can render as.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindSelect   FieldKind = "select"
	KindTextarea FieldKind = "textarea"
	KindEmail    FieldKind = "email"
	KindTel      FieldKind = "tel"
)

func (k FieldKind) valid() bool {
	switch k {
	case KindText, KindSelect, KindTextarea, KindEmail, KindTel:
		return true
	}
	return false
}

// Condition gates a field's visibility on another field's current value.
type Condition struct {
	Field  string `json:"field" yaml:"field"`
	Equals string `json:"equals" yaml:"equals"`
}

// Holds evaluates the condition against the current field values. A nil
// condition always holds, so unconditional fields stay visible.
func (c *Condition) Holds(values map[string]string) bool {
	if c == nil {
		return true
	}
	return values[c.Field] == c.Equals
}

// FieldDefinition describes a single form field.
type FieldDefinition struct {
	Name        string     `json:"name" yaml:"name"`
	Label       string     `json:"label,omitempty" yaml:"label,omitempty"`
	Kind        FieldKind  `json:"kind,omitempty" yaml:"kind,omitempty"`
	Required    bool       `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder string     `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []string   `json:"options,omitempty" yaml:"options,omitempty"`
	VisibleWhen *Condition `json:"visible_when,omitempty" yaml:"visible_when,omitempty"`
}

// Visible reports whether the field should be shown (and validated) for the
// given snapshot of field values.
func (f FieldDefinition) Visible(values map[string]string) bool {
	return f.VisibleWhen.Holds(values)
}

func (f FieldDefinition) normalized() FieldDefinition {
	clone := f
	clone.Name = strings.TrimSpace(f.Name)
	clone.Label = strings.TrimSpace(f.Label)
	clone.Placeholder = strings.TrimSpace(f.Placeholder)
	if clone.Kind == "" {
		clone.Kind = KindText
	}
	if clone.Label == "" {
		clone.Label = clone.Name
	}
	if len(f.Options) > 0 {
		clone.Options = make([]string, 0, len(f.Options))
		for _, opt := range f.Options {
			if trimmed := strings.TrimSpace(opt); trimmed != "" {
				clone.Options = append(clone.Options, trimmed)
			}
		}
	}
	if f.VisibleWhen != nil {
		cond := Condition{
			Field:  strings.TrimSpace(f.VisibleWhen.Field),
			Equals: f.VisibleWhen.Equals,
		}
		clone.VisibleWhen = &cond
	}
	return clone
}

func (f FieldDefinition) validate() error {
	if f.Name == "" {
		return fmt.Errorf("field name is required")
	}
	if !f.Kind.valid() {
		return fmt.Errorf("field %s: unknown kind %q", f.Name, f.Kind)
	}
	if f.Kind == KindSelect && len(f.Options) == 0 {
		return fmt.Errorf("field %s: select fields need at least one option", f.Name)
	}
	if f.Kind != KindSelect && len(f.Options) > 0 {
		return fmt.Errorf("field %s: options are only valid on select fields", f.Name)
	}
	if f.VisibleWhen != nil && f.VisibleWhen.Field == "" {
		return fmt.Errorf("field %s: visible_when.field is required", f.Name)
	}
	return nil
}

// StepDefinition is one ordered page of the funnel.
type StepDefinition struct {
	Title  string            `json:"title" yaml:"title"`
	Fields []FieldDefinition `json:"fields" yaml:"fields"`
}

func (s StepDefinition) normalized() StepDefinition {
	clone := StepDefinition{Title: strings.TrimSpace(s.Title)}
	if len(s.Fields) > 0 {
		clone.Fields = make([]FieldDefinition, len(s.Fields))
		for i, field := range s.Fields {
			clone.Fields[i] = field.normalized()
		}
	}
	return clone
}

// FormDefinition describes a complete multi-step intake form. The struct
// mirrors the on-disk schema under .reviewhut/forms/*.yaml and is kept
// narrow so definitions can be validated before the wizard mounts them.
type FormDefinition struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name,omitempty" yaml:"name,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string           `json:"version" yaml:"version"`
	Steps       []StepDefinition `json:"steps" yaml:"steps"`
}

// Normalized returns a trimmed copy of the definition with defaults applied.
func (def FormDefinition) Normalized() FormDefinition {
	clone := FormDefinition{
		ID:          strings.TrimSpace(def.ID),
		Name:        strings.TrimSpace(def.Name),
		Description: strings.TrimSpace(def.Description),
		Version:     strings.TrimSpace(def.Version),
	}
	if len(def.Steps) > 0 {
		clone.Steps = make([]StepDefinition, len(def.Steps))
		for i, step := range def.Steps {
			clone.Steps[i] = step.normalized()
		}
	}
	return clone
}

// Validate ensures the definition is well-formed: non-empty steps, unique
// field names, and visibility conditions that reference declared fields.
func (def FormDefinition) Validate() error {
	normalized := def.Normalized()
	if normalized.ID == "" {
		return fmt.Errorf("form: id is required")
	}
	if normalized.Version == "" {
		return fmt.Errorf("form %s: version is required", normalized.ID)
	}
	if len(normalized.Steps) == 0 {
		return fmt.Errorf("form %s: at least one step is required", normalized.ID)
	}
	seen := map[string]struct{}{}
	for i, step := range normalized.Steps {
		if step.Title == "" {
			return fmt.Errorf("form %s: steps[%d]: title is required", normalized.ID, i)
		}
		for _, field := range step.Fields {
			if err := field.validate(); err != nil {
				return fmt.Errorf("form %s: steps[%d]: %w", normalized.ID, i, err)
			}
			if _, dup := seen[field.Name]; dup {
				return fmt.Errorf("form %s: duplicate field %s", normalized.ID, field.Name)
			}
			seen[field.Name] = struct{}{}
		}
	}
	for i, step := range normalized.Steps {
		for _, field := range step.Fields {
			if field.VisibleWhen == nil {
				continue
			}
			if _, ok := seen[field.VisibleWhen.Field]; !ok {
				return fmt.Errorf("form %s: steps[%d]: field %s: visible_when references unknown field %s",
					normalized.ID, i, field.Name, field.VisibleWhen.Field)
			}
		}
	}
	return nil
}

// StepCount returns the number of steps in the form.
func (def FormDefinition) StepCount() int {
	return len(def.Steps)
}

// FieldNames lists every field in declaration order across all steps.
func (def FormDefinition) FieldNames() []string {
	var names []string
	for _, step := range def.Steps {
		for _, field := range step.Fields {
			names = append(names, field.Name)
		}
	}
	return names
}

// Field looks up a field definition by name.
func (def FormDefinition) Field(name string) (FieldDefinition, bool) {
	for _, step := range def.Steps {
		for _, field := range step.Fields {
			if field.Name == name {
				return field, true
			}
		}
	}
	return FieldDefinition{}, false
}

// StepOf returns the index of the step that declares the named field, or -1.
func (def FormDefinition) StepOf(name string) int {
	for i, step := range def.Steps {
		for _, field := range step.Fields {
			if field.Name == name {
				return i
			}
		}
	}
	return -1
}
