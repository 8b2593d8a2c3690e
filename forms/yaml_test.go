package forms

import (
	"os"
	"path/filepath"
	"testing"
)

const demoFormYAML = `id: satisfaction-survey
version: "1"
steps:
  - title: Your Visit
    fields:
      - name: visitDate
        label: When did you visit?
        required: true
      - name: visitType
        kind: select
        options: [Dine-in, Takeaway]
      - name: deliveryNotes
        visible_when:
          field: visitType
          equals: Takeaway
`

func TestParseFormYAML(t *testing.T) {
	def, err := ParseFormYAML([]byte(demoFormYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if def.ID != "satisfaction-survey" {
		t.Fatalf("unexpected id %q", def.ID)
	}
	field, ok := def.Field("deliveryNotes")
	if !ok || field.VisibleWhen == nil || field.VisibleWhen.Field != "visitType" {
		t.Fatalf("conditional field not decoded: %+v", field)
	}
	if field.Kind != KindText {
		t.Fatalf("expected defaulted kind, got %q", field.Kind)
	}
}

func TestParseFormYAMLRejectsEmptyAndInvalid(t *testing.T) {
	if _, err := ParseFormYAML([]byte("   \n")); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if _, err := ParseFormYAML([]byte("id: x\n")); err == nil {
		t.Fatalf("expected validation error for incomplete form")
	}
	if _, err := ParseFormYAML([]byte("id: [broken")); err == nil {
		t.Fatalf("expected decode error for malformed yaml")
	}
}

func TestLoadFormDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "survey.yaml"), []byte(demoFormYAML), 0o644); err != nil {
		t.Fatalf("write form: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	defs, err := LoadFormDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("expected one definition, got %d", len(defs))
	}
	if defs[0].Definition.ID != "satisfaction-survey" {
		t.Fatalf("unexpected definition: %+v", defs[0].Definition)
	}
}

func TestLoadFormDirMissingIsEmpty(t *testing.T) {
	defs, err := LoadFormDir(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("missing dir must not error: %v", err)
	}
	if defs != nil {
		t.Fatalf("expected no definitions, got %+v", defs)
	}
}

func TestLoadFormDirPropagatesBadFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: x\n"), 0o644); err != nil {
		t.Fatalf("write form: %v", err)
	}
	if _, err := LoadFormDir(dir); err == nil {
		t.Fatalf("expected error for invalid definition file")
	}
}
