package util

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options holds the parsed command line configuration for the gaia
// driver. It generalizes the teacher's Options struct from a single
// source file and a native target triple to a list of gaia source
// files, core-library resolution and LLVM emission mode.
type Options struct {
	Src         []string // Paths to .gaia source files, in command-line order.
	Out         string   // Path to output file. Empty means stdout.
	GaiaHome    string   // Value of GAIA_HOME; names the directory whose Core/ subdirectory holds core library sources.
	EmitLLVM    bool     // Set true if the driver should emit LLVM bitcode instead of textual IR.
	TokenStream bool     // Set true if the driver should print the token stream of each file and exit.
	PrintAST    bool     // Set true if the driver should print the parsed AST and exit.
	PrintMIR    bool     // Set true if the driver should print the checked MIR and exit.
	REPL        bool     // Set true to relax the symbol table's redefinition policy (for an external REPL collaborator).
}

// ---------------------
// ----- Constants -----
// ---------------------

const appVersion = "gaia compiler 0.1"

// ---------------------
// ----- functions -----
// ---------------------

// ParseArgs parses command line arguments into an Options structure.
func ParseArgs() (Options, error) {
	opt := Options{GaiaHome: os.Getenv("GAIA_HOME")}
	args := os.Args[1:]
	for i1 := 0; i1 < len(args); i1++ {
		switch args[i1] {
		case "-h", "--h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "-emit-llvm":
			opt.EmitLLVM = true
		case "-tokens":
			opt.TokenStream = true
		case "-ast":
			opt.PrintAST = true
		case "-mir":
			opt.PrintMIR = true
		case "-repl":
			opt.REPL = true
		case "-o":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			if strings.HasPrefix(args[i1+1], "-") {
				return opt, fmt.Errorf("expected path to output file, got new flag %s", args[i1+1])
			}
			opt.Out = args[i1+1]
			i1++
		case "-v", "--v", "-version", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		default:
			if strings.HasPrefix(args[i1], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i1])
			}
			opt.Src = append(opt.Src, args[i1])
		}
	}
	return opt, nil
}

// printHelp prints a helpful usage message to stdout.
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "usage: gaia [flags] file.gaia...")
	_, _ = fmt.Fprintln(w, "-emit-llvm\tEmit LLVM bitcode instead of textual IR.")
	_, _ = fmt.Fprintln(w, "-o\tPath and name of the output file. Defaults to stdout.")
	_, _ = fmt.Fprintln(w, "-tokens\tPrint the token stream of each source file and exit.")
	_, _ = fmt.Fprintln(w, "-ast\tPrint the parsed syntax tree and exit.")
	_, _ = fmt.Fprintln(w, "-mir\tPrint the checked mid-level representation and exit.")
	_, _ = fmt.Fprintln(w, "-repl\tRelax the symbol table's redefinition policy.")
	_, _ = fmt.Fprintln(w, "-h, -help\tPrint this help message and exit.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrint application version and exit.")
	_ = w.Flush()
}
