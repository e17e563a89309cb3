// Package catalog serves the hierarchical RFQ template data: major
// categories, their job types, and the field definitions that drive dynamic
// form generation. The data is embedded at build time and read-only; lookups
// that miss return empty results rather than errors so callers can treat
// "nothing to render" uniformly.
package catalog

import (
	_ "embed"
	"encoding/json"
	"strings"
	"sync"
)

//go:embed templates.json
var templateData []byte

// FieldType enumerates the supported template field kinds.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldSelect      FieldType = "select"
	FieldMultiselect FieldType = "multiselect"
	FieldNumber      FieldType = "number"
	FieldDate        FieldType = "date"
	FieldRadio       FieldType = "radio"
	FieldFile        FieldType = "file"
)

// Field describes one question in a template.
type Field struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Min         *float64  `json:"min,omitempty"`
	Max         *float64  `json:"max,omitempty"`
}

// JobType groups the fields asked for one kind of job within a category.
type JobType struct {
	Slug   string  `json:"slug"`
	Label  string  `json:"label"`
	Fields []Field `json:"fields"`
}

// Category is a major service category with its job types.
type Category struct {
	Slug        string    `json:"slug"`
	Label       string    `json:"label"`
	Icon        string    `json:"icon,omitempty"`
	Description string    `json:"description,omitempty"`
	JobTypes    []JobType `json:"jobTypes"`
}

type templateFile struct {
	Version         string     `json:"version"`
	SharedFieldDefs []Field    `json:"sharedFields"`
	MajorCategories []Category `json:"majorCategories"`
}

var (
	loadOnce sync.Once
	loaded   templateFile
)

func load() templateFile {
	loadOnce.Do(func() {
		if err := json.Unmarshal(templateData, &loaded); err != nil {
			// Embedded data is validated by tests; an unmarshal failure here
			// means a broken build, surface it as empty catalog.
			loaded = templateFile{}
		}
	})
	return loaded
}

// Categories returns all major categories.
func Categories() []Category {
	return load().MajorCategories
}

// CategoryBySlug finds a category by slug or label. Returns false on miss.
func CategoryBySlug(identifier string) (Category, bool) {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return Category{}, false
	}
	for _, cat := range load().MajorCategories {
		if cat.Slug == id || cat.Label == id {
			return cat, true
		}
	}
	return Category{}, false
}

// JobTypes returns the job types for a category, empty on miss.
func JobTypes(categorySlug string) []JobType {
	cat, ok := CategoryBySlug(categorySlug)
	if !ok {
		return nil
	}
	return cat.JobTypes
}

// RequiresJobType reports whether the category needs an explicit job-type
// selection. Categories with a single job type use it implicitly.
func RequiresJobType(categorySlug string) bool {
	return len(JobTypes(categorySlug)) > 1
}

// JobTypeBySlug finds a job type within a category by slug or label.
func JobTypeBySlug(categorySlug, jobTypeSlug string) (JobType, bool) {
	id := strings.TrimSpace(jobTypeSlug)
	for _, jt := range JobTypes(categorySlug) {
		if jt.Slug == id || jt.Label == id {
			return jt, true
		}
	}
	return JobType{}, false
}

// FieldsFor returns the field definitions for a (category, jobType) pair.
// When jobTypeSlug is empty the category's first job type is used, which is
// the implicit job type for single-job-type categories. Empty on miss.
func FieldsFor(categorySlug, jobTypeSlug string) []Field {
	if strings.TrimSpace(jobTypeSlug) == "" {
		jts := JobTypes(categorySlug)
		if len(jts) == 0 {
			return nil
		}
		return jts[0].Fields
	}
	jt, ok := JobTypeBySlug(categorySlug, jobTypeSlug)
	if !ok {
		return nil
	}
	return jt.Fields
}

// ImplicitJobType returns the slug of the single job type for categories
// that skip the job-type step, or "" when a selection is required.
func ImplicitJobType(categorySlug string) string {
	jts := JobTypes(categorySlug)
	if len(jts) == 1 {
		return jts[0].Slug
	}
	return ""
}

// SharedFields returns the category-independent project field definitions.
func SharedFields() []Field {
	return load().SharedFieldDefs
}
