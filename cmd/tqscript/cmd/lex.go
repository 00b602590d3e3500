package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tqscript/tqscript/internal/lexer"
)

var (
	lexShowPos  bool
	lexOnlyErrs bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a TorqueScript file or expression",
	Long: `Tokenize (lex) a TorqueScript program and print the resulting tokens.

Examples:
  tqscript lex script.tq
  tqscript lex -e "%x = 1 + 2;"
  tqscript lex --show-pos --only-errors script.tq`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexOnlyErrs, "only-errors", false, "show only illegal/error tokens")
}

func lexScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s (%d bytes)\n---\n", filename, len(input))
	}

	l := lexer.New(input, true)
	count, errCount := 0, 0
	for {
		tok := l.NextToken()
		isIllegal := tok.Type == lexer.ILLEGAL
		if !lexOnlyErrs || isIllegal {
			printToken(tok, isIllegal)
		}
		count++
		if isIllegal {
			errCount++
		}
		if tok.Type == lexer.EOF {
			break
		}
	}

	if verbose {
		fmt.Printf("---\nTotal tokens: %d, errors: %d\n", count, errCount)
	}
	if errCount > 0 {
		return fmt.Errorf("found %d illegal token(s)", errCount)
	}
	return nil
}

func printToken(tok lexer.Token, illegal bool) {
	if illegal {
		fmt.Printf("[%-14s] ILLEGAL %q @%d:%d\n", tok.Type, tok.Literal, tok.Pos.Line, tok.Pos.Column)
		return
	}
	if lexShowPos {
		fmt.Printf("[%-14s] %q @%d:%d\n", tok.Type, tok.Literal, tok.Pos.Line, tok.Pos.Column)
		return
	}
	fmt.Printf("[%-14s] %q\n", tok.Type, tok.Literal)
}
