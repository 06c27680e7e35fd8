// Package compiler sequences the front end's stages over a whole
// compilation: parse and declare the core library, then every user
// file, check top levels in the same order, then hand the accumulated
// MIR to an LLVM generator. It plays the role of the teacher's
// top-level run(opt) function in src/main.go, generalized from one VSL
// source file to gaia's multi-file-plus-core-library model (spec
// section 1 and 6).
package compiler

import (
	"fmt"
	"path/filepath"
	"strings"

	"gaia/src/corelib"
	"gaia/src/frontend"
	"gaia/src/ir"
	"gaia/src/ir/llvm"
)

// Source is one user-provided gaia source file, read from disk by the
// caller (cmd/gaia) before reaching Unit.
type Source struct {
	Name string
	Text string
}

// Unit drives one compilation from source text to an LLVM module.
type Unit struct {
	checker *ir.Checker
	gen     *llvm.Generator
}

// NewUnit returns a Unit ready to compile sources into a module named
// name for the given target triple (empty defaults to the host's).
// repl relaxes the checker's redefinition policy at global scope (spec
// section 9), for a REPL front end built on top of this package.
func NewUnit(name, triple string, repl bool) *Unit {
	return &Unit{
		checker: ir.NewChecker(repl),
		gen:     llvm.NewGenerator(name, triple),
	}
}

// Generator returns the LLVM generator compiled into by Compile, for
// callers that need to write out IR or bitcode afterward.
func (u *Unit) Generator() *llvm.Generator {
	return u.gen
}

// Module returns the checked MIR accumulated so far, for callers that
// want to inspect it (the driver's -mir flag) independent of whether
// LLVM generation has run yet.
func (u *Unit) Module() *ir.Module {
	return u.checker.Module()
}

// Compile parses, declares and checks the core library followed by
// every entry of sources (in OrderMainLast order), then lowers the
// result to LLVM IR. Declaration happens for every file before any
// file's top level is checked, so that a function declared later in
// one file — or in a file compiled later — is visible to a call
// earlier in the unit (spec section 6).
func (u *Unit) Compile(sources []Source) error {
	ordered := OrderMainLast(sources)

	files := make([]*frontend.File, 0, len(corelib.Files())+len(ordered))
	for _, cf := range corelib.Files() {
		f, err := frontend.ParseFile(cf.Name, cf.Source)
		if err != nil {
			return fmt.Errorf("parsing core library %s: %w", cf.Name, err)
		}
		files = append(files, f)
	}
	for _, s := range ordered {
		f, err := frontend.ParseFile(s.Name, s.Text)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", s.Name, err)
		}
		files = append(files, f)
	}

	for _, f := range files {
		if err := u.checker.DeclareFile(f); err != nil {
			return err
		}
	}
	for _, f := range files {
		if err := u.checker.CheckTopLevel(f); err != nil {
			return err
		}
	}

	return u.gen.Generate(u.checker.Module())
}

// OrderMainLast returns sources in their given order except that any
// source file named main.gaia (case-insensitive, spec section 6) is
// moved to the end, so its top-level statements run after every other
// file's. It is a stable partition: the relative order of every other
// file, and of multiple main.gaia entries should more than one ever
// appear, is preserved.
func OrderMainLast(sources []Source) []Source {
	ordered := make([]Source, 0, len(sources))
	var mains []Source
	for _, s := range sources {
		if strings.EqualFold(filepath.Base(s.Name), "main.gaia") {
			mains = append(mains, s)
			continue
		}
		ordered = append(ordered, s)
	}
	return append(ordered, mains...)
}
