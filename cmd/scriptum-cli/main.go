// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"scriptum/internal/ast"
	"scriptum/internal/automata"
	"scriptum/internal/errors"
	"scriptum/internal/ir"
	"scriptum/internal/lexer"
	"scriptum/internal/parser"
	"scriptum/internal/semantic"
	"scriptum/token"
)

var log = commonlog.GetLogger("scriptum.cli")

const usage = `Usage: scriptum-cli <command> [options]

Commands:
  build-lexer   build the DFA transition tables and write tables.json
  tokenize      print the token stream of a source file
  check         parse and analyze a source file
  dot           print the lexer DFA as a Graphviz digraph
`

func main() {
	commonlog.Configure(0, nil)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "build-lexer":
		err = runBuildLexer(os.Args[2:])
	case "tokenize":
		err = runTokenize(os.Args[2:])
	case "check":
		err = runCheck(os.Args[2:])
	case "dot":
		err = runDot(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func runBuildLexer(args []string) error {
	flags := flag.NewFlagSet("build-lexer", flag.ExitOnError)
	output := flags.String("o", "tables.json", "output path for the transition tables")
	maxStates := flags.Int("max-states", automata.DefaultMaxStates, "abort if any automaton exceeds this many states")
	flags.Parse(args)

	startTime := time.Now()

	patterns := lexer.TokenPatterns()
	table, stats, err := lexer.BuildTable(patterns, automata.Limits{MaxStates: *maxStates})
	if err != nil {
		return err
	}

	if err := lexer.WriteTableFile(*output, table); err != nil {
		return err
	}

	log.Infof("patterns=%d nfa_states=%d dfa_states=%d minimized_states=%d",
		stats.Patterns, stats.NFAStates, stats.DFAStates, stats.MinimizedStates)
	color.Green("Wrote %s in %s", *output, formatDuration(time.Since(startTime)))
	return nil
}

func runTokenize(args []string) error {
	flags := flag.NewFlagSet("tokenize", flag.ExitOnError)
	tablesPath := flags.String("tables", "", "load tables from this file instead of building in-process")
	keepIgnored := flags.Bool("all", false, "include whitespace and comment tokens")
	flags.Parse(args)

	path, source, err := readSourceArg(flags, "tokenize")
	if err != nil {
		return err
	}

	lx, err := makeLexer(*tablesPath, lexer.Config{KeepIgnored: *keepIgnored})
	if err != nil {
		return err
	}

	tokens, err := lx.Tokenize(source)
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			reporter := errors.NewReporter(path, source)
			fmt.Print(reporter.Format(errors.Diagnostic{
				Level:   errors.Error,
				Code:    errors.CodeUnexpectedCharacter,
				Message: lexErr.Error(),
				Span:    token.Span{Start: lexErr.Pos, End: lexErr.Pos + 1},
			}))
			os.Exit(1)
		}
		return err
	}

	for _, tok := range tokens {
		printToken(tok)
	}
	return nil
}

func runCheck(args []string) error {
	flags := flag.NewFlagSet("check", flag.ExitOnError)
	tablesPath := flags.String("tables", "", "load tables from this file instead of building in-process")
	showIR := flags.Bool("ir", false, "print lowered IR instead of the syntax tree")
	flags.Parse(args)

	path, source, err := readSourceArg(flags, "check")
	if err != nil {
		return err
	}

	startTime := time.Now()
	reporter := errors.NewReporter(path, source)

	lx, err := makeLexer(*tablesPath, lexer.Config{})
	if err != nil {
		return err
	}

	tokens, err := lx.Tokenize(source)
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			fmt.Print(reporter.Format(errors.Diagnostic{
				Level:   errors.Error,
				Code:    errors.CodeUnexpectedCharacter,
				Message: lexErr.Error(),
				Span:    token.Span{Start: lexErr.Pos, End: lexErr.Pos + 1},
			}))
			color.Red("Compilation failed after %s", formatDuration(time.Since(startTime)))
			os.Exit(1)
		}
		return err
	}

	program, parseErrors := parser.New(tokens).Parse()
	for _, parseErr := range parseErrors {
		fmt.Print(reporter.Format(errors.Diagnostic{
			Level:   errors.Error,
			Code:    errors.CodeParseError,
			Message: parseErr.Message,
			Span:    parseErr.Span,
		}))
	}

	hasErrors := len(parseErrors) > 0
	if !hasErrors {
		for _, semErr := range semantic.NewAnalyzer().Analyze(program) {
			fmt.Print(reporter.Format(errors.Diagnostic{
				Level:   errors.Error,
				Code:    semErr.Code,
				Message: semErr.Message,
				Span:    semErr.Span,
			}))
			hasErrors = true
		}
	}

	duration := formatDuration(time.Since(startTime))
	if hasErrors {
		color.Red("Compilation failed after %s", duration)
		os.Exit(1)
	}

	if *showIR {
		fmt.Print(ir.Print(ir.Lower(program)))
	} else {
		fmt.Print(ast.Print(program))
	}
	color.Green("Successfully processed %s in %s", path, duration)
	return nil
}

func runDot(args []string) error {
	flags := flag.NewFlagSet("dot", flag.ExitOnError)
	flags.Parse(args)

	dfa, err := lexer.BuildDFA(lexer.TokenPatterns(), automata.Limits{})
	if err != nil {
		return err
	}
	fmt.Print(automata.DOT(dfa))
	return nil
}

// makeLexer loads the runtime from a table file when one is named, and
// otherwise builds the tables in-process from the token specification.
func makeLexer(tablesPath string, config lexer.Config) (*lexer.Lexer, error) {
	if tablesPath != "" {
		runtime, err := lexer.NewStore(tablesPath).Load()
		if err != nil {
			return nil, err
		}
		return lexer.New(runtime, config), nil
	}
	table, _, err := lexer.BuildTable(lexer.TokenPatterns(), automata.Limits{})
	if err != nil {
		return nil, err
	}
	return lexer.NewFromTable(table, config)
}

func readSourceArg(flags *flag.FlagSet, command string) (string, string, error) {
	if flags.NArg() != 1 {
		return "", "", fmt.Errorf("usage: scriptum-cli %s [options] <file.scr>", command)
	}
	path := flags.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read file: %w", err)
	}
	return path, string(source), nil
}

func printToken(tok token.Token) {
	if tok.Value != nil {
		fmt.Printf("%4d..%-4d %-15s %-12q value=%v\n", tok.Span.Start, tok.Span.End, tok.Kind, tok.Lexeme, tok.Value)
		return
	}
	fmt.Printf("%4d..%-4d %-15s %q\n", tok.Span.Start, tok.Span.End, tok.Kind, tok.Lexeme)
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
