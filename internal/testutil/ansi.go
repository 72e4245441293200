// Package testutil holds helpers shared by the test suites of the CLI, the
// orchestrator and the error handler.
package testutil

import "regexp"

// ansiRegex matches CSI sequences: ESC [ parameters, then a final letter.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes colour escapes so assertions can match plain text.
func StripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
