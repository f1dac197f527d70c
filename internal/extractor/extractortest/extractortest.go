// Package extractortest writes fake extractor executables for tests.
package extractortest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// Script writes a POSIX shell script with the given body into a temporary
// directory and returns its path. The body sees the extractor arguments in
// "$@"; the helper variable $probe is "1" when --get-filename was passed.
// Tests are skipped on Windows.
func Script(t testing.TB, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake extractor scripts need a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "yt-dlp")
	script := "#!/bin/sh\n" +
		"probe=0\n" +
		"for a in \"$@\"; do [ \"$a\" = \"--get-filename\" ] && probe=1; done\n" +
		body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write fake extractor: %v", err)
	}
	return path
}

// Modes returns a script body that runs probe when invoked with
// --get-filename and stream otherwise.
func Modes(probe, stream string) string {
	return "if [ \"$probe\" = \"1\" ]; then\n" + probe + "\nelse\n" + stream + "\nfi"
}
