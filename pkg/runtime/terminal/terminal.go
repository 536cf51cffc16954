package terminal

import (
	"io"
	"os"

	"github.com/de-tools/purchase-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/purchase-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	env     *commands.Env
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output    io.Writer
	LogOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	cli := &CLI{
		env: &commands.Env{
			Output:    opts.Output,
			LogOutput: opts.LogOutput,
		},
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// SetArgs overrides the command line arguments, mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "purchase-atlas",
		Short:         "Synthetic purchase dataset and segment chart tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cli.env.ConfigPath, "config", "c", "", "Path to a config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&cli.env.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	reporters := map[string]commands.ReportHandler{
		"table": export.NewReporter(cli.env.Output),
		"text":  NewReporter(cli.env.Output),
	}

	cmd.AddCommand(commands.NewRenderCmd(cli.env))
	cmd.AddCommand(commands.NewGenerateCmd(cli.env, reporters))
	cmd.AddCommand(commands.NewSummaryCmd(cli.env, reporters))
	cmd.AddCommand(commands.NewPublishCmd(cli.env))
	cmd.AddCommand(commands.NewRunsCmd(cli.env, reporters))

	return cmd
}
