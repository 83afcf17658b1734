package parquetread

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
)

// ValidateSchema checks that the Parquet schema contains every column a
// dictionary file of the given kind requires.
func ValidateSchema(schema *parquet.Schema, kind model.DictionaryKind) error {
	required := kind.RequiredColumns()
	if required == nil {
		return fmt.Errorf("unknown dictionary kind %q", kind)
	}

	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}

	var missing []string
	for _, col := range required {
		if !columns[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s file is missing required columns: %s", kind, strings.Join(missing, ", "))
	}
	return nil
}
