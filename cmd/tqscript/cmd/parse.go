package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tqscript/tqscript/internal/ast"
	"github.com/tqscript/tqscript/internal/errors"
	"github.com/tqscript/tqscript/internal/lexer"
	"github.com/tqscript/tqscript/internal/parser"
)

var parseDumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a TorqueScript file and display its AST",
	Long: `Parse a TorqueScript program and display the Abstract Syntax Tree.

If no file is provided, reads from stdin. Use -e to parse inline
code from the command line, and --dump-ast for a full recursive
tree instead of the default re-rendered source form.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST structure")
}

func runParse(_ *cobra.Command, args []string) error {
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

	if parseDumpAST {
		fmt.Println("Abstract Syntax Tree:")
		fmt.Println("=====================")
		for _, node := range program.Nodes {
			dumpASTNode(node, 0)
		}
		return nil
	}

	fmt.Println(program.String())
	return nil
}

func dumpASTNode(node ast.Node, indent int) {
	indentStr := ""
	for i := 0; i < indent; i++ {
		indentStr += "  "
	}

	switch n := node.(type) {
	case *ast.ExpressionStatement:
		fmt.Printf("%sExpressionStatement\n", indentStr)
		dumpASTNode(n.Expr, indent+1)
	case *ast.BinaryExpression:
		fmt.Printf("%sBinaryExpression (%s)\n", indentStr, n.Operator)
		dumpASTNode(n.Left, indent+1)
		dumpASTNode(n.Right, indent+1)
	case *ast.UnaryExpression:
		fmt.Printf("%sUnaryExpression (%s)\n", indentStr, n.Operator)
		dumpASTNode(n.Operand, indent+1)
	case *ast.IntegerLiteral:
		fmt.Printf("%sIntegerLiteral: %s\n", indentStr, n.Token.Literal)
	case *ast.FloatLiteral:
		fmt.Printf("%sFloatLiteral: %s\n", indentStr, n.Token.Literal)
	case *ast.StringLiteral:
		fmt.Printf("%sStringLiteral: %q\n", indentStr, n.Value)
	case *ast.VarReference:
		fmt.Printf("%sVarReference: %s\n", indentStr, n.String())
	default:
		fmt.Printf("%s%T: %s\n", indentStr, node, node.String())
	}
}
