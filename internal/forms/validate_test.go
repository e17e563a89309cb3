package forms

import (
	"errors"
	"testing"

	"jengahub-backend/internal/catalog"
)

func numPtr(f float64) *float64 { return &f }

func TestValidateFieldRequired(t *testing.T) {
	def := catalog.Field{Name: "title", Label: "Title", Type: catalog.FieldText, Required: true}
	if msg := ValidateField(def, ""); msg == "" {
		t.Fatalf("expected error for empty required field")
	}
	if msg := ValidateField(def, "   "); msg == "" {
		t.Fatalf("expected error for whitespace-only value")
	}
	if msg := ValidateField(def, "ok"); msg != "" {
		t.Fatalf("unexpected error: %s", msg)
	}

	def.Required = false
	if msg := ValidateField(def, nil); msg != "" {
		t.Fatalf("optional empty field must pass, got: %s", msg)
	}
}

func TestValidateFieldNumberRange(t *testing.T) {
	def := catalog.Field{
		Name: "numRooms", Label: "Rooms", Type: catalog.FieldNumber,
		Required: true, Min: numPtr(1), Max: numPtr(10),
	}
	if msg := ValidateField(def, "abc"); msg == "" {
		t.Fatalf("expected parse error")
	}
	if msg := ValidateField(def, "0"); msg == "" {
		t.Fatalf("expected below-min error")
	}
	if msg := ValidateField(def, 11); msg == "" {
		t.Fatalf("expected above-max error")
	}
	if msg := ValidateField(def, "10"); msg != "" {
		t.Fatalf("max boundary must pass, got: %s", msg)
	}
	if msg := ValidateField(def, 1); msg != "" {
		t.Fatalf("min boundary must pass, got: %s", msg)
	}
}

func TestValidateFieldDate(t *testing.T) {
	def := catalog.Field{Name: "start", Label: "Start", Type: catalog.FieldDate}
	if msg := ValidateField(def, "2026-02-30"); msg == "" {
		t.Fatalf("expected error for impossible date")
	}
	if msg := ValidateField(def, "30/02/2026"); msg == "" {
		t.Fatalf("expected error for wrong format")
	}
	if msg := ValidateField(def, "2026-09-01"); msg != "" {
		t.Fatalf("valid date rejected: %s", msg)
	}
}

func TestValidateFieldSelectMembership(t *testing.T) {
	def := catalog.Field{
		Name: "roof", Label: "Roof", Type: catalog.FieldSelect,
		Options: []string{"Tiles", "Mabati", "Other"},
	}
	if msg := ValidateField(def, "Thatch"); msg == "" {
		t.Fatalf("expected unknown-option error")
	}
	if msg := ValidateField(def, "Tiles"); msg != "" {
		t.Fatalf("listed option rejected: %s", msg)
	}
}

func TestValidateFieldMultiselect(t *testing.T) {
	def := catalog.Field{
		Name: "scope", Label: "Scope", Type: catalog.FieldMultiselect,
		Required: true, Options: []string{"Interior", "Exterior"},
	}
	if msg := ValidateField(def, []string{}); msg == "" {
		t.Fatalf("required multiselect needs a non-empty selection")
	}
	if msg := ValidateField(def, []string{"Interior", "Roof"}); msg == "" {
		t.Fatalf("expected unknown-option error")
	}
	if msg := ValidateField(def, []any{"Interior", "Exterior"}); msg != "" {
		t.Fatalf("decoded-JSON slice rejected: %s", msg)
	}
}

func TestValidateValuesOtherRequiresCustom(t *testing.T) {
	defs := []catalog.Field{
		{Name: "roof", Label: "Roof type", Type: catalog.FieldSelect, Required: true, Options: []string{"Tiles", "Other"}},
	}

	errs := ValidateValues(defs, map[string]any{"roof": "Other"})
	if _, ok := errs["roof_custom"]; !ok {
		t.Fatalf("expected roof_custom to be required, got %v", errs)
	}

	errs = ValidateValues(defs, map[string]any{"roof": "Other", "roof_custom": "Makuti"})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs = ValidateValues(defs, map[string]any{"roof": "Tiles"})
	if len(errs) != 0 {
		t.Fatalf("non-Other selection must not need a custom value: %v", errs)
	}
}

func TestValidateValuesReportsEveryField(t *testing.T) {
	defs := []catalog.Field{
		{Name: "a", Label: "A", Type: catalog.FieldText, Required: true},
		{Name: "b", Label: "B", Type: catalog.FieldNumber, Required: true},
	}
	errs := ValidateValues(defs, map[string]any{"b": "not-a-number"})
	if len(errs) != 2 {
		t.Fatalf("expected both fields to error, got %v", errs)
	}
}

func TestKnownFieldNames(t *testing.T) {
	defs := []catalog.Field{
		{Name: "roof", Type: catalog.FieldSelect, Options: []string{"Other"}},
		{Name: "rooms", Type: catalog.FieldNumber},
	}
	known := KnownFieldNames(defs)
	for _, name := range []string{"roof", "roof_custom", "rooms"} {
		if !known[name] {
			t.Fatalf("expected %s to be known", name)
		}
	}
	if known["rooms_custom"] {
		t.Fatalf("number fields have no custom companion")
	}
}

func TestHumanSize(t *testing.T) {
	cases := map[int64]string{
		512:     "512 B",
		2048:    "2.0 KB",
		1258291: "1.2 MB",
	}
	for in, want := range cases {
		if got := HumanSize(in); got != want {
			t.Fatalf("HumanSize(%d) = %s, want %s", in, got, want)
		}
	}
}

func TestBuildFileMetas(t *testing.T) {
	files := []FileMeta{
		{FileName: "a.jpg", ContentType: "image/jpeg", SizeBytes: 1024},
		{FileName: "b.pdf", ContentType: "application/pdf", SizeBytes: 1024},
		{FileName: "c.png", ContentType: "image/png", SizeBytes: MaxImageBytes + 1},
		{FileName: "d.png", ContentType: "image/png", SizeBytes: 10},
	}
	ok, errs := BuildFileMetas(files, 0)
	if len(ok) != 2 {
		t.Fatalf("expected 2 accepted files, got %d", len(ok))
	}
	if !errors.Is(errs["b.pdf"], ErrUnsupportedType) {
		t.Fatalf("expected type error for b.pdf, got %v", errs["b.pdf"])
	}
	if !errors.Is(errs["c.png"], ErrFileTooLarge) {
		t.Fatalf("expected size error for c.png, got %v", errs["c.png"])
	}
}

func TestBuildFileMetasCap(t *testing.T) {
	files := make([]FileMeta, 7)
	for i := range files {
		files[i] = FileMeta{FileName: string(rune('a'+i)) + ".png", ContentType: "image/png", SizeBytes: 10}
	}
	ok, errs := BuildFileMetas(files, 1)
	if len(ok) != MaxReferenceImages-1 {
		t.Fatalf("expected %d accepted with one existing, got %d", MaxReferenceImages-1, len(ok))
	}
	overflow := 0
	for _, err := range errs {
		if errors.Is(err, ErrTooManyFiles) {
			overflow++
		}
	}
	if overflow != 3 {
		t.Fatalf("expected 3 overflow rejections, got %d", overflow)
	}
}
