package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tqscript/tqscript/internal/bytecode"
	"github.com/tqscript/tqscript/internal/errors"
	"github.com/tqscript/tqscript/internal/lexer"
	"github.com/tqscript/tqscript/internal/parser"
	"github.com/tqscript/tqscript/internal/stringtable"
)

var disasmFormat string

var disasmCmd = &cobra.Command{
	Use:   "disasm [file]",
	Short: "Compile a TorqueScript file and print its bytecode",
	Long: `Compile a TorqueScript program to bytecode and print the result.

Use --format=yaml for a structured dump suitable for diffing or snapshot
testing instead of the default plain-text listing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDisasm,
}

func init() {
	rootCmd.AddCommand(disasmCmd)

	disasmCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "disassemble inline code instead of reading from file")
	disasmCmd.Flags().StringVar(&disasmFormat, "format", "text", "output format: text or yaml")
}

func runDisasm(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	l := lexer.New(input, true)
	p := parser.New(l, input, filename)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		fmt.Fprint(os.Stderr, errors.FormatErrors(errs, true))
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	c := bytecode.New(stringtable.New(false))
	cb := c.Compile(program)

	switch disasmFormat {
	case "yaml":
		out, err := bytecode.DisassembleYAML(cb)
		if err != nil {
			return fmt.Errorf("failed to render yaml: %w", err)
		}
		fmt.Print(out)
	default:
		fmt.Print(bytecode.Disassemble(cb))
	}
	return nil
}
