package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
)

func strPtr(s string) *string { return &s }

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in   string
		want *string
	}{
		{" i21.9 ", strPtr("I21.9")},
		{"22298006", strPtr("22298006")},
		{"J 45", strPtr("J45")},
		{"   ", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := NormalizeCode(tt.in)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("NormalizeCode(%q): got %v, want %v", tt.in, deref(got), deref(tt.want))
		}
	}
}

func TestTrimCode(t *testing.T) {
	tests := []struct {
		in   string
		want *string
	}{
		{" abc 12 ", strPtr("abc 12")},
		{"i21.9", strPtr("i21.9")},
		{"  ", nil},
	}
	for _, tt := range tests {
		got := TrimCode(tt.in)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("TrimCode(%q): got %v, want %v", tt.in, deref(got), deref(tt.want))
		}
	}
}

func TestNormalizeName(t *testing.T) {
	got := NormalizeName("  Myocardial   Infarction ")
	if got == nil || *got != "myocardial infarction" {
		t.Errorf("got %v", deref(got))
	}
	if NormalizeName(" ") != nil {
		t.Error("blank name should normalize to nil")
	}
}

func TestParseLocale(t *testing.T) {
	for in, want := range map[string]string{
		"en":    "en",
		"en_GB": "en-GB",
		"fr-CA": "fr-CA",
		" es ":  "es",
	} {
		tag, err := ParseLocale(in)
		if err != nil {
			t.Errorf("ParseLocale(%q): %v", in, err)
			continue
		}
		if tag.String() != want {
			t.Errorf("ParseLocale(%q): got %s, want %s", in, tag, want)
		}
	}
	for _, bad := range []string{"", "not a locale!"} {
		if _, err := ParseLocale(bad); err == nil {
			t.Errorf("ParseLocale(%q): expected error", bad)
		}
	}
}

func TestToStagingNameRow(t *testing.T) {
	batch := uuid.New()
	row := &model.ConceptNameRow{
		ConceptID:       5,
		ConceptUUID:     uuid.NewString(),
		ConceptNameID:   50,
		ConceptNameUUID: uuid.NewString(),
		Name:            " Malaria ",
		Locale:          "en_GB",
		LocalePreferred: true,
	}
	s, err := ToStagingNameRow(row, batch, 9, 1)
	if err != nil {
		t.Fatalf("ToStagingNameRow: %v", err)
	}
	if s.Name != "Malaria" || s.Locale != "en-GB" || !s.LocalePreferred {
		t.Errorf("unexpected staging row: %+v", s)
	}
	if s.NameNorm == nil || *s.NameNorm != "malaria" {
		t.Errorf("NameNorm: got %v", deref(s.NameNorm))
	}
	if s.LoadBatchID != batch || s.DictionaryFileID != 9 || s.SourceRowNumber != 1 {
		t.Errorf("batch bookkeeping not copied: %+v", s)
	}
	if len(s.SourceRowHash) != 32 {
		t.Errorf("row hash length: got %d", len(s.SourceRowHash))
	}
	if len(s.CopyValues()) != len(model.StagingNameColumns()) {
		t.Errorf("CopyValues has %d values for %d columns", len(s.CopyValues()), len(model.StagingNameColumns()))
	}
}

func TestToStagingNameRow_Rejects(t *testing.T) {
	good := model.ConceptNameRow{
		ConceptUUID:     uuid.NewString(),
		ConceptNameUUID: uuid.NewString(),
		Name:            "x",
		Locale:          "en",
	}
	cases := map[string]func(*model.ConceptNameRow){
		"bad concept uuid": func(r *model.ConceptNameRow) { r.ConceptUUID = "nope" },
		"bad name uuid":    func(r *model.ConceptNameRow) { r.ConceptNameUUID = "" },
		"bad locale":       func(r *model.ConceptNameRow) { r.Locale = "" },
		"blank name":       func(r *model.ConceptNameRow) { r.Name = "  " },
	}
	for name, mutate := range cases {
		row := good
		mutate(&row)
		if _, err := ToStagingNameRow(&row, uuid.New(), 1, 1); err == nil {
			t.Errorf("%s: expected rejection", name)
		}
	}
}

func TestToStagingMapRow(t *testing.T) {
	row := &model.ConceptMapRow{
		ConceptMapID: 7,
		ConceptID:    5,
		SourceUUID:   uuid.NewString(),
		SourceName:   "ICD-10-WHO",
		SourceHL7:    strPtr(" "),
		Code:         "b54 ",
		TermName:     strPtr("Unspecified malaria"),
		MapTypeUUID:  model.SameAsMapTypeUUID.String(),
	}
	s, err := ToStagingMapRow(row, uuid.New(), 2, 3)
	if err != nil {
		t.Fatalf("ToStagingMapRow: %v", err)
	}
	if s.Code != "b54" {
		t.Errorf("Code: got %q, want b54 as spelled in the file", s.Code)
	}
	if s.CodeNorm != "B54" {
		t.Errorf("CodeNorm: got %q, want B54", s.CodeNorm)
	}
	if s.SourceHL7 != nil {
		t.Errorf("blank HL7 code should be nil, got %q", *s.SourceHL7)
	}
	if s.MapTypeUUID != model.SameAsMapTypeUUID {
		t.Errorf("MapTypeUUID: got %s", s.MapTypeUUID)
	}
	if len(s.CopyValues()) != len(model.StagingMapColumns()) {
		t.Errorf("CopyValues has %d values for %d columns", len(s.CopyValues()), len(model.StagingMapColumns()))
	}

	row.Code = " "
	if _, err := ToStagingMapRow(row, uuid.New(), 2, 3); err == nil {
		t.Error("blank code should be rejected")
	}
}

func TestFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.parquet")
	if err := os.WriteFile(path, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := FileHash(path)
	if err != nil {
		t.Fatalf("FileHash: %v", err)
	}
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestRowHash_DependsOnRowNumber(t *testing.T) {
	a := RowHash(1, "x", "y")
	b := RowHash(2, "x", "y")
	if string(a) == string(b) {
		t.Error("hashes for different row numbers should differ")
	}
	if string(RowHash(1, " x", "y ")) != string(a) {
		t.Error("values should be trimmed before hashing")
	}
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
