package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"minicc/pkg/compiler"
	"minicc/pkg/utils"
)

func newParseCmd(o *options) *cobra.Command {
	var maxDepth int

	c := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Print the AST of a program",
		Long: `Parses one file (or stdin) and prints the indented AST, one node per
line. No semantic checks are made.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := utils.ReadSource(sourceArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			depth := o.cfg.Parser.MaxDepth
			if cmd.Flags().Changed("max-depth") {
				depth = maxDepth
			}

			prog, err := compiler.ParseWithOptions(src, compiler.ParseOptions{MaxDepth: depth})
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), err)
				o.log.Debug("parse failed", "file", name, "error", err)
				return ErrCheckFailed
			}
			o.log.Debug("parsed", "file", name, "nodes", prog.Count())
			return compiler.Dump(cmd.OutOrStdout(), prog)
		},
	}
	c.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum statement/expression nesting (0 = unlimited)")
	return c
}
