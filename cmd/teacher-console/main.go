package main

import (
	"fmt"
	"io"
	"os"

	"github.com/babirusa/teacher-console/internal/console"
	appErrors "github.com/babirusa/teacher-console/pkg/errors"
)

func main() {
	root, app := newRootCmd()
	err := root.Execute()
	app.shutdown()
	if err != nil {
		reportFailure(os.Stderr, err)
		os.Exit(1)
	}
}

// reportFailure prints whatever the feed has not already shown: usage and
// argument errors, bootstrap failures, and the login hint for expired
// sessions. Failures routed through the feed were mirrored to stderr as
// they happened and are skipped here.
func reportFailure(w io.Writer, err error) {
	switch {
	case appErrors.IsUnauthorized(err):
		fmt.Fprintln(w, "session expired or missing, run `teacher-console login`")
	case console.WasReported(err):
	default:
		fmt.Fprintln(w, "error:", err)
	}
}
