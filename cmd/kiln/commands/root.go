// Package commands implements the CLI commands for the kiln build tool.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/adapters/mode"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/build"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	flagJSON = "json"
	flagDir  = "dir"
	flagHost = "host"
	flagPort = "port"
)

// jsonSwitch is implemented by loggers that can switch to JSON output.
type jsonSwitch interface {
	SetJSON(enable bool)
}

// CLI represents the command line interface for kiln.
type CLI struct {
	app     *app.App
	logger  ports.Logger
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App, log ports.Logger) *CLI {
	c := &CLI{
		app:    a,
		logger: log,
	}

	rootCmd := &cobra.Command{
		Use:   "kiln [task]",
		Short: "Build, serve and package browser games",
		Long: "kiln bundles the scripts under src/, copies static/ and vendor files into build/,\n" +
			"and serves the result with live reload. Running kiln without a task runs " +
			domain.DefaultTask.String() + ".",
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           build.Version,
		PersistentPreRunE: c.configureLogger,
		RunE:              c.runTask(domain.DefaultTask),
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.Bool(mode.ProductionFlag, false, "Minify the bundle and skip development-only vendor files")
	flags.Bool(flagJSON, false, "Write logs as JSON")
	flags.StringP(flagDir, "C", "", "Run as if kiln was started in this directory")
	flags.String(flagHost, "", "Dev server host (overrides kiln.yaml)")
	flags.Int(flagPort, 0, "Dev server port (overrides kiln.yaml)")

	c.rootCmd = rootCmd

	for _, t := range a.ListTasks(true) {
		rootCmd.AddCommand(c.newTaskCmd(t))
	}
	rootCmd.AddCommand(c.newTasksCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output such as the task list and help.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
}

func (c *CLI) configureLogger(cmd *cobra.Command, _ []string) error {
	asJSON, err := cmd.Flags().GetBool(flagJSON)
	if err != nil {
		return err
	}
	if s, ok := c.logger.(jsonSwitch); ok && asJSON {
		s.SetJSON(true)
	}
	return nil
}
