// Package forms validates template-driven field values. Every project
// question is a tagged catalog.Field variant handled by a single dispatcher,
// so new field types never grow new per-question code paths.
package forms

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"jengahub-backend/internal/catalog"
)

// OtherOption is the select/radio choice that requires a free-text
// companion value under "<fieldName>_custom".
const OtherOption = "Other"

// CustomSuffix names the companion value for an "Other" selection.
const CustomSuffix = "_custom"

const dateLayout = "2006-01-02"

// ValidateField checks one value against its definition and returns a
// field-scoped message, or "" when valid. Validation never panics and never
// rejects a value the definition does not constrain.
func ValidateField(def catalog.Field, value any) string {
	if isEmpty(value) {
		if def.Required {
			return fmt.Sprintf("%s is required", def.Label)
		}
		return ""
	}

	switch def.Type {
	case catalog.FieldNumber:
		n, err := toNumber(value)
		if err != nil {
			return "Please enter a valid number"
		}
		if def.Min != nil && n < *def.Min {
			return fmt.Sprintf("Must be at least %s", formatNumber(*def.Min))
		}
		if def.Max != nil && n > *def.Max {
			return fmt.Sprintf("Must be at most %s", formatNumber(*def.Max))
		}
	case catalog.FieldDate:
		s, ok := value.(string)
		if !ok {
			return "Please enter a valid date (YYYY-MM-DD)"
		}
		if _, err := time.Parse(dateLayout, s); err != nil {
			return "Please enter a valid date (YYYY-MM-DD)"
		}
	case catalog.FieldSelect, catalog.FieldRadio:
		s, ok := value.(string)
		if !ok || !optionAllowed(def.Options, s) {
			return fmt.Sprintf("%s must be one of the listed options", def.Label)
		}
	case catalog.FieldMultiselect:
		selections, ok := toStringSlice(value)
		if !ok {
			return fmt.Sprintf("%s must be a list of options", def.Label)
		}
		for _, s := range selections {
			if !optionAllowed(def.Options, s) {
				return fmt.Sprintf("%s contains an unknown option", def.Label)
			}
		}
	}
	return ""
}

// ValidateValues validates every definition against the values map and
// returns the per-field error messages. A failing field never blocks the
// rest from being checked. The "Other" rule is enforced here: an "Other"
// selection requires a non-empty "<name>_custom" value.
func ValidateValues(defs []catalog.Field, values map[string]any) map[string]string {
	errs := make(map[string]string)
	for _, def := range defs {
		value := values[def.Name]
		if msg := ValidateField(def, value); msg != "" {
			errs[def.Name] = msg
			continue
		}
		if needsCustomValue(def, value) && isEmpty(values[def.Name+CustomSuffix]) {
			errs[def.Name+CustomSuffix] = fmt.Sprintf("Please specify your %s", strings.ToLower(def.Label))
		}
	}
	return errs
}

// KnownFieldNames returns the set of value keys a definition list accepts,
// including the "_custom" companions. Used to strip stale keys after a
// category or job-type change.
func KnownFieldNames(defs []catalog.Field) map[string]bool {
	known := make(map[string]bool, len(defs)*2)
	for _, def := range defs {
		known[def.Name] = true
		if def.Type == catalog.FieldSelect || def.Type == catalog.FieldRadio {
			known[def.Name+CustomSuffix] = true
		}
	}
	return known
}

func needsCustomValue(def catalog.Field, value any) bool {
	if def.Type != catalog.FieldSelect && def.Type != catalog.FieldRadio {
		return false
	}
	s, ok := value.(string)
	return ok && s == OtherOption
}

func optionAllowed(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	default:
		return false
	}
}

func toNumber(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("not a number: %T", value)
	}
}

func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
