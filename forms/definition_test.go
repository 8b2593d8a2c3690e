package forms

import (
	"strings"
	"testing"
)

func minimalForm() FormDefinition {
	return FormDefinition{
		ID:      "demo",
		Version: "1",
		Steps: []StepDefinition{
			{
				Title: "Basics",
				Fields: []FieldDefinition{
					{Name: "name", Required: true},
					{Name: "kind", Kind: KindSelect, Options: []string{"A", "B"}},
					{Name: "other", VisibleWhen: &Condition{Field: "kind", Equals: "B"}},
				},
			},
		},
	}
}

func TestValidateAcceptsMinimalForm(t *testing.T) {
	if err := minimalForm().Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*FormDefinition)
		wantErr string
	}{
		{"missing id", func(d *FormDefinition) { d.ID = " " }, "id is required"},
		{"missing version", func(d *FormDefinition) { d.Version = "" }, "version is required"},
		{"no steps", func(d *FormDefinition) { d.Steps = nil }, "at least one step"},
		{"untitled step", func(d *FormDefinition) { d.Steps[0].Title = "" }, "title is required"},
		{"unnamed field", func(d *FormDefinition) { d.Steps[0].Fields[0].Name = "" }, "field name is required"},
		{"unknown kind", func(d *FormDefinition) { d.Steps[0].Fields[0].Kind = "checkbox" }, "unknown kind"},
		{"select without options", func(d *FormDefinition) { d.Steps[0].Fields[1].Options = nil }, "at least one option"},
		{"options on text field", func(d *FormDefinition) { d.Steps[0].Fields[0].Options = []string{"x"} }, "only valid on select"},
		{"duplicate field", func(d *FormDefinition) { d.Steps[0].Fields[2].Name = "name" }, "duplicate field"},
		{"dangling condition", func(d *FormDefinition) { d.Steps[0].Fields[2].VisibleWhen.Field = "missing" }, "unknown field"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := minimalForm()
			tc.mutate(&def)
			err := def.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestNormalizedAppliesDefaults(t *testing.T) {
	def := FormDefinition{
		ID:      "  demo  ",
		Version: "1",
		Steps: []StepDefinition{
			{Title: " Basics ", Fields: []FieldDefinition{{Name: "  name  "}}},
		},
	}
	normalized := def.Normalized()
	if normalized.ID != "demo" {
		t.Fatalf("id not trimmed: %q", normalized.ID)
	}
	field := normalized.Steps[0].Fields[0]
	if field.Name != "name" {
		t.Fatalf("field name not trimmed: %q", field.Name)
	}
	if field.Kind != KindText {
		t.Fatalf("expected default kind text, got %q", field.Kind)
	}
	if field.Label != "name" {
		t.Fatalf("expected label defaulted from name, got %q", field.Label)
	}
}

func TestConditionHolds(t *testing.T) {
	var unconditional *Condition
	if !unconditional.Holds(map[string]string{}) {
		t.Fatalf("nil condition must always hold")
	}
	cond := &Condition{Field: "kind", Equals: "B"}
	if cond.Holds(map[string]string{"kind": "A"}) {
		t.Fatalf("condition held against the wrong value")
	}
	if !cond.Holds(map[string]string{"kind": "B"}) {
		t.Fatalf("condition failed against the matching value")
	}
}

func TestFieldLookupsFollowDeclarationOrder(t *testing.T) {
	def := BusinessIntake().Normalized()
	names := def.FieldNames()
	if len(names) == 0 || names[0] != "businessName" {
		t.Fatalf("unexpected field order: %v", names)
	}
	if def.StepOf("contactEmail") != 2 {
		t.Fatalf("expected contactEmail on step 2, got %d", def.StepOf("contactEmail"))
	}
	if def.StepOf("missing") != -1 {
		t.Fatalf("unknown field must map to -1")
	}
	field, ok := def.Field("businessType")
	if !ok || field.Kind != KindSelect {
		t.Fatalf("businessType lookup failed: %+v %v", field, ok)
	}
	if _, ok := def.Field("missing"); ok {
		t.Fatalf("unknown field lookup must fail")
	}
}

func TestBusinessIntakeIsValid(t *testing.T) {
	def := BusinessIntake()
	if err := def.Validate(); err != nil {
		t.Fatalf("built-in form must validate: %v", err)
	}
	if def.ID != BusinessIntakeID {
		t.Fatalf("unexpected id %q", def.ID)
	}
	if def.StepCount() != 5 {
		t.Fatalf("expected 5 steps, got %d", def.StepCount())
	}
	custom, ok := def.Field("customBusinessType")
	if !ok || custom.VisibleWhen == nil || custom.VisibleWhen.Equals != "Other" {
		t.Fatalf("customBusinessType must be gated on Other: %+v", custom)
	}
}
