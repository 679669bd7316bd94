// Package debug provides a package-level, togglable trace writer used by the
// Loader and Compiler to report resolution steps, unsupported-pattern
// fallbacks, and decode aborts without coupling them to a particular logging
// library. Shaped after internal/debug's package-level writer: off by
// default, switched on by the AIDLC_DEBUG environment variable or the
// EnableDebug variable, with lines written only once SetOutput has named a
// writer; safe to invoke from any package with no import cycle risk.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// EnableDebug can be set at build time with
// -ldflags "-X github.com/binderir/aidlc/internal/debug.EnableDebug=true".
var EnableDebug = "false"

var (
	mu     sync.Mutex
	output io.Writer
)

// SetOutput sets the writer debug trace lines go to. Pass nil to disable.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Enabled reports whether tracing is currently turned on.
func Enabled() bool {
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("AIDLC_DEBUG")
	return v == "1" || v == "true"
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// Logf writes a component-tagged trace line when tracing is enabled and an
// output writer has been configured (via SetOutput, typically os.Stderr from
// main). The Decoder never writes directly to stdout/stderr: decoded values
// go to stdout as JSON, diagnostics go through here.
func Logf(component, format string, args ...any) {
	if !Enabled() {
		return
	}
	w := writer()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[%s] "+format+"\n", append([]any{component}, args...)...)
}
