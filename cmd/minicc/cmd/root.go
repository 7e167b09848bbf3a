package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"minicc/pkg/config"
	"minicc/pkg/logging"
)

// ErrCheckFailed is returned when the input was rejected. The reason has
// already been printed, so Execute does not print it again.
var ErrCheckFailed = errors.New("check failed")

// options is shared by every subcommand; setup fills cfg and log before any
// RunE runs.
type options struct {
	cfgFile string
	verbose bool

	cfg *config.Config
	log *logging.Logger
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "minicc",
		Short: "minicc - front end for a small C subset",
		Long: `minicc tokenizes, parses and type-checks programs written in a small
subset of C: #include lines followed by a single main function using int,
float, char and void variables, if/else, for loops, return and calls to
printf and scanf.

Commands:
  check   - parse and type-check a file, printing the AST
  parse   - print the AST only
  tokens  - list the token stream`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&o.cfgFile, "config", "", "config file (default: $MINICC_CONFIG, ./minicc.toml or ./minicc.yaml)")
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "log each pipeline stage")

	root.AddCommand(newCheckCmd(o), newParseCmd(o), newTokensCmd(o), newVersionCmd())
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil && !errors.Is(err, ErrCheckFailed) {
		printError(err)
	}
	return err
}

func (o *options) setup(cmd *cobra.Command) error {
	var (
		path string
		err  error
	)
	if o.cfgFile != "" {
		path = o.cfgFile
		o.cfg, err = config.Load(o.cfgFile)
	} else {
		o.cfg, path, err = config.Discover()
	}
	if err != nil {
		return err
	}

	lc := o.cfg.LoggerConfig("minicc")
	lc.Output = cmd.ErrOrStderr()
	if o.verbose {
		lc.Level = logging.LevelDebug
	}
	o.log = logging.NewWithConfig(lc)
	if path != "" {
		o.log.Debug("loaded config", "path", path)
	}
	return nil
}

// sourceArg maps a missing file argument to stdin.
func sourceArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
