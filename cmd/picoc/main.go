// Command picoc is the host CLI described in SPEC_FULL §6.2/§6.5: it
// accepts one or more source files followed by an optional `-` and guest
// argv, a `-s` flag to run top-level statements without requiring a
// `main`, and `-i` for an interactive read-eval-print loop, grounded on
// breadchris-yaegi's own command-line conventions (flag-based, no
// subcommand framework).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/RockBrentwood/picoc-go/interp"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("picoc", flag.ContinueOnError)
	statementsOnly := fs.Bool("s", false, "run top-level statements, no main")
	interactive := fs.Bool("i", false, "interactive REPL")
	profilePath := fs.String("profile", "", "write a pprof profile to this path")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	rest := fs.Args()

	in := interp.New(interp.Options{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		SourceFS:    os.DirFS("."),
		ProfilePath: *profilePath,
	})
	if err := in.IncludeAllSystemHeaders(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer in.Cleanup()

	if *interactive || len(rest) == 0 {
		return runREPL(in)
	}

	var files []string
	var guestArgs []string
	for i, a := range rest {
		if a == "-" {
			guestArgs = rest[i+1:]
			break
		}
		files = append(files, a)
	}

	for _, f := range files {
		src, err := os.ReadFile(f)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if _, err := in.EvalPath(f, string(src)); err != nil {
			if exitErr, ok := err.(*interp.ExitError); ok {
				return exitErr.Code
			}
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if *statementsOnly {
		return 0
	}

	v, err := in.CallMain(guestArgs)
	if err != nil {
		if exitErr, ok := err.(*interp.ExitError); ok {
			return exitErr.Code
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if v != nil {
		return int(v.AsInt64())
	}
	return 0
}

// runREPL implements ParseInteractive (§6.3): each non-empty line is parsed
// and run immediately as its own Eval call (a statement spread over several
// lines is not joined), errors are
// reported and recovery simply re-enters the loop, the same "interactive
// mode recovers by re-entering the read-eval loop" contract §7 names.
func runREPL(in *interp.Interpreter) int {
	isTerminal := term.IsTerminal(int(os.Stdin.Fd()))
	scanner := bufio.NewScanner(os.Stdin)
	for {
		if isTerminal {
			fmt.Fprint(os.Stdout, "picoc> ")
		}
		if !scanner.Scan() {
			return 0
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		v, err := in.Eval(line)
		if err != nil {
			if exitErr, ok := err.(*interp.ExitError); ok {
				return exitErr.Code
			}
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if v != nil {
			fmt.Fprintf(os.Stdout, "=> %v\n", v)
		}
	}
}
