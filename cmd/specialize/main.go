package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/do"
	"github.com/spf13/cobra"

	"github.com/typesugar/typesugar-sub002/internal/config"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/evaluator"
	"github.com/typesugar/typesugar-sub002/internal/expand"
	"github.com/typesugar/typesugar-sub002/internal/lexer"
	"github.com/typesugar/typesugar-sub002/internal/parser"
	"github.com/typesugar/typesugar-sub002/internal/pipeline"
	"github.com/typesugar/typesugar-sub002/internal/prettyprinter"
	"github.com/typesugar/typesugar-sub002/internal/specialize"
)

// errFailed signals that diagnostics were already printed.
var errFailed = errors.New("failed")

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "specialize:", err)
		}
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:           "specialize",
		Short:         "Expand specialize() call sites into dictionary-free code",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "configuration file (default: nearest specialize.yaml or specialize.toml)")
	flags.StringArrayVar(&opts.capabilities, "capabilities", nil, "capability declaration file (YAML or TOML); repeatable")
	flags.BoolVar(&opts.noHoist, "no-hoist", false, "specialize every call site in place instead of hoisting shared copies")
	flags.IntVar(&opts.maxDepth, "max-depth", 0, "bound on transitive specialization (default from config)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "trace engine decisions to stderr")

	expandCmd := &cobra.Command{
		Use:   "expand <file>",
		Short: "Print the program with every specialize call expanded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.source = args[0]
			return runExpand(opts, stdout, stderr)
		},
	}

	var original bool
	runCmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Expand the program and evaluate it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.source = args[0]
			return runProgram(opts, original, stdout, stderr)
		},
	}
	runCmd.Flags().BoolVar(&original, "original", false, "evaluate without expanding; specialize runs as partial application")

	root.AddCommand(expandCmd, runCmd)
	return root
}

func readSource(path string) (string, error) {
	if !isSourceFile(path) {
		return "", fmt.Errorf("%s: unrecognized source file extension", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func runExpand(opts options, stdout, stderr io.Writer) error {
	injector := newContainer(opts, stderr)
	ctx, err := do.Invoke[*specialize.CompilationContext](injector)
	if err != nil {
		return err
	}
	src, err := readSource(opts.source)
	if err != nil {
		return err
	}
	p := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}, expand.New(ctx))
	result := p.Run(pipeline.NewContext(opts.source, src))
	do.MustInvoke[*diagnostics.Printer](injector).PrintAll(result.Errors)
	if result.HasErrors() {
		return errFailed
	}
	fmt.Fprint(stdout, prettyprinter.Print(result.AstRoot))
	return nil
}

func runProgram(opts options, original bool, stdout, stderr io.Writer) error {
	injector := newContainer(opts, stderr)
	ctx, err := do.Invoke[*specialize.CompilationContext](injector)
	if err != nil {
		return err
	}
	tables := do.MustInvoke[externalTables](injector)
	src, err := readSource(opts.source)
	if err != nil {
		return err
	}
	eval := &evaluator.EvaluatorProcessor{
		Out:    stdout,
		Config: ctx.Config,
		Setup: func(e *evaluator.Evaluator) error {
			for _, t := range tables {
				if err := e.DefineTable(t); err != nil {
					return err
				}
			}
			return nil
		},
	}
	stages := []pipeline.Processor{&lexer.LexerProcessor{}, &parser.ParserProcessor{}}
	if !original {
		stages = append(stages, expand.New(ctx))
	}
	stages = append(stages, eval)
	result := pipeline.New(stages...).Run(pipeline.NewContext(opts.source, src))
	do.MustInvoke[*diagnostics.Printer](injector).PrintAll(result.Errors)
	if result.HasErrors() {
		return errFailed
	}
	return nil
}
