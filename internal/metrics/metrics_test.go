package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
)

func TestObserveAndWrite(t *testing.T) {
	m := New()
	m.Observe(&model.LoadSummary{
		Kind:          model.KindNames,
		RowsRead:      7,
		RowsStaged:    6,
		RowsRejected:  1,
		RowsUpserted:  map[string]int64{"concepts": 3, "concept_names": 6},
		DurationStage: 2 * time.Second,
	})
	m.Observe(&model.LoadSummary{Kind: model.KindMappings, Skipped: true})
	m.MarkSuccess()

	path := filepath.Join(t.TempDir(), "emrapi.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		`emrapi_load_rows_read_total{kind="names"} 7`,
		`emrapi_load_rows_rejected_total{kind="names"} 1`,
		`emrapi_load_rows_upserted_total{table="concept_names"} 6`,
		`emrapi_load_files_skipped_total{kind="mappings"} 1`,
		`emrapi_load_phase_duration_seconds{kind="names",phase="stage"} 2`,
		`emrapi_load_last_success_timestamp_seconds`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, `emrapi_load_rows_read_total{kind="mappings"}`) {
		t.Error("skipped files should not count rows")
	}
}
