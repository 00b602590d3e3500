package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tqscript/tqscript/internal/bytecode"
	"github.com/tqscript/tqscript/pkg/torque"
)

var (
	evalExpr   string
	traceJSON  bool
	showDisasm bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a TorqueScript file or expression",
	Long: `Execute a TorqueScript program from a file, stdin, or an inline expression.

Examples:
  tqscript run script.tq
  tqscript run -e "echo(\"hi\");"
  tqscript run --trace-json script.tq`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "run inline code instead of reading from file")
	runCmd.Flags().BoolVar(&traceJSON, "trace-json", false, "print a JSON execution trace to stderr after running")
	runCmd.Flags().BoolVar(&showDisasm, "disasm", false, "print the compiled bytecode after running")
}

func runScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	it := torque.New()

	var tracer *torque.JSONTracer
	if traceJSON {
		tracer = torque.NewJSONTracer()
		it.SetTrace(tracer)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Running: %s\n", filename)
	}

	cb, err := it.Compile(input, filename)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("compilation failed")
	}
	if _, err := it.State().Execute(cb); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("execution failed")
	}

	if showDisasm {
		fmt.Print(bytecode.Disassemble(cb))
	}
	if tracer != nil {
		fmt.Fprintln(os.Stderr, tracer.JSON())
	}
	return nil
}

// readSource resolves the -e flag, a file argument, or stdin, in that
// order, matching the teacher's run/lex/parse commands' input precedence.
func readSource(eval string, args []string) (input, filename string, err error) {
	switch {
	case eval != "":
		return eval, "<eval>", nil
	case len(args) == 1:
		data, readErr := os.ReadFile(args[0])
		if readErr != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], readErr)
		}
		return string(data), args[0], nil
	default:
		data, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", readErr)
		}
		return string(data), "<stdin>", nil
	}
}
