package funnel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/reviewhut/reviewhut/forms"
)

const requiredMessage = "This field is required"

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^[+]?[\d\s-]+$`)
)

// ValidateField evaluates one field's value against its rules and returns a
// human-readable message, or "" when the value passes. Format rules only run
// on non-empty values so optional fields stay optional. Fields hidden by
// their visibility condition are exempt even when marked required.
func ValidateField(field forms.FieldDefinition, value string, snap Snapshot) string {
	if !field.Visible(snap) {
		return ""
	}
	trimmed := strings.TrimSpace(value)
	if field.Required && trimmed == "" {
		return requiredMessage
	}
	if trimmed == "" {
		return ""
	}
	switch field.Kind {
	case forms.KindEmail:
		if !emailPattern.MatchString(trimmed) {
			return "Please enter a valid email"
		}
	case forms.KindTel:
		if !phonePattern.MatchString(trimmed) {
			return "Please enter a valid phone number"
		}
	}
	return ""
}

// ValidateStep applies ValidateField to every field declared for the step
// and returns the per-field error map. An empty map means the step is valid.
// The step index must be in range; an out-of-range index is a caller bug.
func ValidateStep(def forms.FormDefinition, stepIndex int, snap Snapshot) ErrorMap {
	if stepIndex < 0 || stepIndex >= def.StepCount() {
		panic(fmt.Sprintf("funnel: step index %d out of range for form %s (%d steps)",
			stepIndex, def.ID, def.StepCount()))
	}
	errs := ErrorMap{}
	for _, field := range def.Steps[stepIndex].Fields {
		if msg := ValidateField(field, snap[field.Name], snap); msg != "" {
			errs[field.Name] = msg
		}
	}
	return errs
}
