package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "objc3sema",
	Short: "Semantic analysis middle-end for the objc3 language",
	Long: `objc3sema runs the three-pass semantic analysis pipeline (surface,
bodies, pure-contract) over a parsed objc3 program and reports the
resulting diagnostics and type-metadata handoff.

Programs are supplied as a JSON-encoded AST fixture, not source text —
this tool sits downstream of a lexer/parser it does not implement.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
