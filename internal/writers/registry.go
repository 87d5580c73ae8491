// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"

	"kprof/internal/output"
)

// reportWriters maps output format names to handlers. Formats are a
// small closed set registered at init; Write dispatches on them.
var reportWriters = map[string]func(io.Writer, *output.Report) error{}

func register(format string, fn func(io.Writer, *output.Report) error) {
	reportWriters[format] = fn
}

func init() {
	register("text", output.WriteText)
	register("tsv", output.WriteTSV)
	register("json", output.WriteJSON)
}

// Formats lists the registered format names (for usage text).
func Formats() []string { return []string{"text", "tsv", "json"} }

// Write renders a report in the named format.
func Write(format string, w io.Writer, r *output.Report) error {
	fn, ok := reportWriters[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (text|tsv|json)", format)
	}
	return fn(w, r)
}
