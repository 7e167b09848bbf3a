package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"minicc/pkg/compiler"
	"minicc/pkg/utils"
)

func newTokensCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file|-]",
		Short: "List the tokens of a program",
		Long: `Tokenizes one file (or stdin) and prints one line per token:

  Type: ID, Value: x, Line: 3, Position: 42

Scanning stops at the first character no rule accepts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := utils.ReadSource(sourceArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			count := 0
			for tok, err := range compiler.Tokens(src) {
				if err != nil {
					fmt.Fprintln(w, err)
					return ErrCheckFailed
				}
				fmt.Fprintln(w, tok)
				count++
			}
			o.log.Debug("tokenized", "file", name, "tokens", count)
			return nil
		},
	}
}
