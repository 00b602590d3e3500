// Command tqscript is the TorqueScript CLI: lex, parse, disasm, run, and
// version subcommands over pkg/torque, grounded on the teacher's
// cmd/dwscript entrypoint.
package main

import (
	"os"

	"github.com/tqscript/tqscript/cmd/tqscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
