// mkfixture writes the sample concept dictionary used by tests and demos as
// a pair of Parquet files.
// Usage: go run ./cmd/mkfixture --out testdata
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jdegraft/openmrs-module-emrapi/internal/fixture"
	"github.com/jdegraft/openmrs-module-emrapi/internal/parquetread"
)

func main() {
	out := flag.String("out", "testdata", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}

	namesPath, mappingsPath, err := fixture.Write(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "write fixture: %v\n", err)
		os.Exit(1)
	}

	for _, path := range []string{namesPath, mappingsPath} {
		info, err := parquetread.Inspect(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "inspect %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%d rows)\n", path, info.NumRows)
	}
}
