package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// writeResult renders a result record in the selected format. JSON output
// is indented with sorted keys (encoding/json map ordering), so it is
// stable for golden comparison.
func writeResult(w io.Writer, opts *RootOptions, rec map[string]any) error {
	switch opts.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	default:
		return writeText(w, rec)
	}
}

func writeText(w io.Writer, rec map[string]any) error {
	keys := sortedKeys(rec)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s: %v\n", k, rec[k]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(rec map[string]any) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
