// Package corelib holds gaia's built-in standard library: thin
// wrappers over a handful of C-ABI externs, written in gaia itself and
// compiled as though they were ordinary user source (spec section 4.7).
// The teacher has no equivalent — VSL's print is a dedicated grammar
// production with its own IR node (genPrint in transform.go), not a
// library function — so this package is built directly from spec.md's
// description of what the core library must provide.
package corelib

// File is one embedded core-library source file.
type File struct {
	Name   string
	Source string
}

const printSource = `extern function puts(s: String) -> Int32

function print(s: String) -> Void {
	puts(s)
}
`

// gaia_getline is a runtime shim name, not a libc function: no single
// libc call reads a whole line into a freshly-sized buffer without a
// caller-managed FILE* and length, and gaia's closed Type set (spec
// section 3) has no way to spell either in an extern prototype. A
// native runtime providing gaia_getline is expected to be linked in
// alongside the emitted object code; synthesizing one is out of scope
// for the front end this package belongs to.
const ioSource = `extern function gaia_getline() -> String

function readLine() -> String {
	return gaia_getline()
}
`

// Files returns the core library's source files in the fixed order
// they must be declared and checked: compiler.Unit prepends these ahead
// of every user file (spec section 6).
func Files() []File {
	return []File{
		{Name: "corelib/print.gaia", Source: printSource},
		{Name: "corelib/io.gaia", Source: ioSource},
	}
}
