// Command gaia compiles one or more .gaia source files, together with
// the built-in core library, to LLVM IR or bitcode.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gaia/src/compiler"
	"gaia/src/diag"
	"gaia/src/frontend"
	"gaia/src/util"
)

// run sequences the driver's stages; behavior is entirely governed by
// opt, the same shape as the teacher's run(opt) in src/main.go.
func run(opt util.Options) error {
	if len(opt.Src) == 0 {
		return fmt.Errorf("no source files given")
	}

	sources := make([]compiler.Source, len(opt.Src))
	for i, path := range opt.Src {
		text, err := util.ReadSource(path)
		if err != nil {
			return fmt.Errorf("could not read source code: %w", err)
		}
		sources[i] = compiler.Source{Name: path, Text: text}
	}

	if opt.TokenStream {
		for _, s := range sources {
			if err := frontend.TokenStream(os.Stdout, s.Text); err != nil {
				return fmt.Errorf("%s: %w", s.Name, err)
			}
		}
		return nil
	}

	if opt.PrintAST {
		for _, s := range sources {
			f, err := frontend.ParseFile(s.Name, s.Text)
			if err != nil {
				return err
			}
			fmt.Print(f.String())
		}
		return nil
	}

	unit := compiler.NewUnit(moduleName(opt.Src), "", opt.REPL)
	if err := unit.Compile(sources); err != nil {
		return err
	}
	gen := unit.Generator()
	defer gen.Dispose()

	if opt.PrintMIR {
		fmt.Print(unit.Module().String())
		return nil
	}

	out, closeOut, err := openOutput(opt.Out, opt.EmitLLVM)
	if err != nil {
		return err
	}
	defer closeOut()

	if opt.EmitLLVM {
		if w, ok := out.(*os.File); ok {
			return gen.WriteBitcode(w.Name())
		}
		return fmt.Errorf("bitcode output requires a named file (-o path)")
	}

	bw := bufio.NewWriter(out)
	if err := gen.WriteIR(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// moduleName names the emitted module after the single input file, or
// the common parent directory when several files are given (spec
// section 6). When multiple files disagree on their parent directory
// (e.g. absolute paths from unrelated directories on one command
// line), it falls back to the first file's base name with its
// extension stripped (spec section 9, open question 3).
func moduleName(paths []string) string {
	if len(paths) == 1 {
		return strings.TrimSuffix(filepath.Base(paths[0]), filepath.Ext(paths[0]))
	}

	dir := filepath.Dir(paths[0])
	for _, p := range paths[1:] {
		if filepath.Dir(p) != dir {
			return strings.TrimSuffix(filepath.Base(paths[0]), filepath.Ext(paths[0]))
		}
	}
	return filepath.Base(dir)
}

// openOutput resolves opt.Out to a writer. Bitcode output always needs
// a named file (tinygo.org/x/go-llvm's WriteBitcodeToFile takes a
// path, not an io.Writer), so with needFile set an empty path is an
// error returned from here.
func openOutput(path string, needFile bool) (out interface{ Write([]byte) (int, error) }, closeFn func(), err error) {
	if path == "" {
		if needFile {
			return nil, nil, fmt.Errorf("-emit-llvm requires -o path")
		}
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func main() {
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gaia: %s\n", err)
		os.Exit(1)
	}

	if err := run(opt); err != nil {
		reportError(opt, err)
		os.Exit(1)
	}
}

// reportError prints a *diag.CompileError using the three-line layout
// of spec section 6 (path:line:col: error: msg, source line, caret),
// falling back to a plain message for any other error (I/O failures,
// flag errors). path is approximated from the first source given,
// since CompileError itself carries no file name (spec section 7: one
// taxonomy shared by every stage, none of them file-aware).
func reportError(opt util.Options, err error) {
	var ce *diag.CompileError
	if !errors.As(err, &ce) {
		fmt.Fprintf(os.Stderr, "gaia: %s\n", err)
		return
	}

	path := "<input>"
	if len(opt.Src) > 0 {
		path = opt.Src[0]
	}

	if !ce.HasLoc {
		fmt.Fprintf(os.Stderr, "%s: error: %s\n", path, ce.Message)
		return
	}

	fmt.Fprintf(os.Stderr, "%s:%d:%d: error: %s\n", path, ce.Loc.Line, ce.Loc.Column, ce.Message)
	line := sourceLine(opt, path, ce.Loc.Line)
	if line == "" {
		return
	}
	fmt.Fprintln(os.Stderr, line)
	pad := ce.Loc.Column - 1 // columns are 1-indexed
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintln(os.Stderr, strings.Repeat(" ", pad)+"^")
}

// sourceLine re-reads path to pull out line n for the diagnostic's
// source-line-and-caret display. Errors are swallowed: a missing
// source line just means the caret display is skipped, not that the
// diagnostic itself is lost.
func sourceLine(opt util.Options, path string, n int) string {
	src, err := util.ReadSource(path)
	if err != nil {
		return ""
	}
	lines := strings.Split(src, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}
