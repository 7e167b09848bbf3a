package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"minicc/pkg/compiler"
	"minicc/pkg/report"
	"minicc/pkg/utils"
)

func newCheckCmd(o *options) *cobra.Command {
	var (
		format   string
		showAST  bool
		tokens   bool
		noColor  bool
		maxDepth int
	)

	c := &cobra.Command{
		Use:   "check [file|-]",
		Short: "Parse and type-check a program",
		Long: `Runs the whole front end over one file (or stdin) and reports the result.

On success the AST is printed followed by the semantic analysis verdict.
A lexical or syntax error prints only that error. The exit status is 1
whenever the program is rejected.

Examples:
  minicc check prog.c
  minicc check --format json prog.c
  minicc check --ast=false --tokens prog.c
  cat prog.c | minicc check`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := o.cfg.Output
			flags := cmd.Flags()
			if flags.Changed("format") {
				out.Format = format
			}
			if flags.Changed("ast") {
				out.DumpAST = showAST
			}
			if flags.Changed("tokens") {
				out.DumpTokens = tokens
			}
			if noColor {
				out.Color = false
			}
			if out.Format != "text" && out.Format != "json" {
				return fmt.Errorf("unknown format %q (want text or json)", out.Format)
			}
			depth := o.cfg.Parser.MaxDepth
			if flags.Changed("max-depth") {
				depth = maxDepth
			}

			name, src, err := utils.ReadSource(sourceArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}

			res, checkErr := compiler.Check(src, compiler.Options{
				Parse:  compiler.ParseOptions{MaxDepth: depth},
				Logger: o.log.With("file", name),
			})

			rep := report.NewReporter(cmd.OutOrStdout(), report.Options{
				JSON:       out.Format == "json",
				Color:      out.Color,
				DumpAST:    out.DumpAST,
				DumpTokens: out.DumpTokens,
			})
			if err := rep.Report(name, res, checkErr); err != nil {
				return err
			}
			if stage := report.FailedStage(res, checkErr); stage != "" {
				o.log.Info("program rejected", "file", name, "stage", stage)
				return ErrCheckFailed
			}
			return nil
		},
	}

	c.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	c.Flags().BoolVar(&showAST, "ast", true, "print the AST after a successful parse")
	c.Flags().BoolVar(&tokens, "tokens", false, "print the token stream first")
	c.Flags().BoolVar(&noColor, "no-color", false, "disable styled output")
	c.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum statement/expression nesting (0 = unlimited)")
	return c
}
