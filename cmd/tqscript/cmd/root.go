// Package cmd implements the tqscript command-line tool: run, lex, parse,
// disasm and version subcommands over a spf13/cobra root, grounded on the
// teacher's cmd/dwscript/cmd package of the same shape.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "tqscript",
	Short: "TorqueScript interpreter",
	Long: `tqscript is an embeddable interpreter for TorqueScript: lex, parse,
compile to bytecode, and execute .tq source files or inline expressions.`,
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

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
