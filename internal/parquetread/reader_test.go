package parquetread_test

import (
	"testing"

	"github.com/jdegraft/openmrs-module-emrapi/internal/fixture"
	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
	"github.com/jdegraft/openmrs-module-emrapi/internal/parquetread"
)

func TestReadAll(t *testing.T) {
	namesPath, mappingsPath, err := fixture.Write(t.TempDir())
	if err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	names, err := parquetread.ReadAll[model.ConceptNameRow](namesPath)
	if err != nil {
		t.Fatalf("read names: %v", err)
	}
	if len(names) != len(fixture.Names()) {
		t.Fatalf("names: got %d rows, want %d", len(names), len(fixture.Names()))
	}
	if names[2] != fixture.Names()[2] {
		t.Errorf("row 3: got %+v, want %+v", names[2], fixture.Names()[2])
	}

	maps, err := parquetread.ReadAll[model.ConceptMapRow](mappingsPath)
	if err != nil {
		t.Fatalf("read mappings: %v", err)
	}
	for i, want := range fixture.Mappings() {
		if maps[i].ConceptMapID != want.ConceptMapID || maps[i].Code != want.Code {
			t.Errorf("mapping %d: got %+v, want %+v", i, maps[i], want)
		}
	}
}

func TestValidateSchema(t *testing.T) {
	namesPath, mappingsPath, err := fixture.Write(t.TempDir())
	if err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	tests := []struct {
		path    string
		kind    model.DictionaryKind
		wantErr bool
	}{
		{namesPath, model.KindNames, false},
		{mappingsPath, model.KindMappings, false},
		{namesPath, model.KindMappings, true},
		{mappingsPath, model.KindNames, true},
		{namesPath, model.DictionaryKind("bogus"), true},
	}
	for _, tt := range tests {
		info, err := parquetread.Inspect(tt.path)
		if err != nil {
			t.Fatalf("inspect %s: %v", tt.path, err)
		}
		err = parquetread.ValidateSchema(info.Schema, tt.kind)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSchema(%s, %s): err=%v, wantErr=%v", tt.path, tt.kind, err, tt.wantErr)
		}
	}
}

func TestInspect_NumRows(t *testing.T) {
	namesPath, _, err := fixture.Write(t.TempDir())
	if err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	info, err := parquetread.Inspect(namesPath)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.NumRows != int64(len(fixture.Names())) {
		t.Errorf("NumRows: got %d, want %d", info.NumRows, len(fixture.Names()))
	}
}

func TestOpen_MissingFile(t *testing.T) {
	if _, err := parquetread.Open[model.ConceptNameRow]("/nonexistent/names.parquet"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
