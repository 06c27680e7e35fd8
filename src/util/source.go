package util

import (
	"fmt"
	"os"
)

// SourceLocation is a (line, column) pair attached to every token and
// every AST/MIR node that can fail. Lines and columns are both
// 1-indexed: the first character of a line is at column 1.
type SourceLocation struct {
	Line   int
	Column int
}

// String renders the location the way diagnostics print it: "line:column".
func (l SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// ReadSource reads gaia source code from a file on disk.
//
// The teacher's ReadSource also raced a goroutine against a timer to
// read from stdin when no path was given; that behavior exists to
// serve the REPL driver, which is out of scope for this repository
// (the core is single-threaded and cooperative), so only the plain
// file-read path is kept here.
func ReadSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}
