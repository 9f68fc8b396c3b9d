package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/doublemover/objc3sema/internal/astjson"
	"github.com/doublemover/objc3sema/internal/config"
	"github.com/doublemover/objc3sema/internal/errors"
	"github.com/doublemover/objc3sema/internal/semantic/passes"
	"github.com/spf13/cobra"
)

var (
	maxMessageSendArgs int
	sourcePath         string
	printHandoff       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [fixture.json]",
	Short: "Run the semantic analysis pipeline over a JSON AST fixture",
	Long: `Reads a JSON-encoded AST fixture (from a file argument, or stdin when
none is given), runs the surface, body, and pure-contract passes over it in
order, and prints every diagnostic in the wire format
"error:<line>:<col>: <message> [<code>]".

Examples:
  # Analyze a fixture file
  objc3sema analyze program.json

  # Analyze from stdin, with source-context rendering
  cat program.json | objc3sema analyze --source program.objc3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVar(&maxMessageSendArgs, "max-message-send-args", config.DefaultOptions().MaxMessageSendArgs,
		"maximum argument count accepted by a message-send before O3S205 fires")
	analyzeCmd.Flags().StringVar(&sourcePath, "source", "", "original source file, for rendering diagnostics with a source excerpt")
	analyzeCmd.Flags().BoolVar(&printHandoff, "handoff", false, "also print the type-metadata handoff summary as JSON")
}

func runAnalyze(_ *cobra.Command, args []string) error {
	data, filename, err := readFixture(args)
	if err != nil {
		return err
	}

	program, err := astjson.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode AST fixture: %w", err)
	}

	opts := config.Options{MaxMessageSendArgs: maxMessageSendArgs}
	result := passes.NewPassManager(opts).Run(program)

	if !result.Executed {
		return fmt.Errorf("pass manager did not execute (nil program)")
	}

	if len(result.Diagnostics) == 0 {
		fmt.Println("no diagnostics")
	} else {
		var source string
		if sourcePath != "" {
			src, err := os.ReadFile(sourcePath)
			if err != nil {
				return fmt.Errorf("failed to read source file %s: %w", sourcePath, err)
			}
			source = string(src)
		}
		fmt.Print(errors.RenderAll(result.Diagnostics, source, filename, true))
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "passes emitted %v diagnostics (cumulative %v)\n",
			result.DiagnosticsEmittedByPass, result.DiagnosticsAfterPass)
		fmt.Fprintf(os.Stderr, "handoff deterministic: %v\n", result.DeterministicHandoff)
	}

	if printHandoff {
		enc, err := json.MarshalIndent(result.Handoff, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal handoff: %w", err)
		}
		fmt.Println(string(enc))
	}

	if len(result.Diagnostics) > 0 {
		return fmt.Errorf("analysis reported %d diagnostic(s)", len(result.Diagnostics))
	}
	return nil
}

func readFixture(args []string) (data []byte, filename string, err error) {
	if len(args) == 1 {
		filename = args[0]
		data, err = os.ReadFile(filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read fixture %s: %w", filename, err)
		}
		return data, filename, nil
	}
	data, err = io.ReadAll(os.Stdin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read fixture from stdin: %w", err)
	}
	return data, "<stdin>", nil
}
