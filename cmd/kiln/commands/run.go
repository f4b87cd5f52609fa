package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/adapters/mode"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

func (c *CLI) newTaskCmd(t domain.Task) *cobra.Command {
	return &cobra.Command{
		Use:    t.ID.String(),
		Short:  t.Description,
		Args:   cobra.NoArgs,
		Hidden: t.Hidden,
		RunE:   c.runTask(t.ID),
	}
}

func (c *CLI) runTask(id domain.TaskID) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()

		dir, err := flags.GetString(flagDir)
		if err != nil {
			return err
		}
		host, err := flags.GetString(flagHost)
		if err != nil {
			return err
		}
		port, err := flags.GetInt(flagPort)
		if err != nil {
			return err
		}

		// An unset flag leaves the mode to the resolver the app was built with.
		var resolver ports.ModeResolver
		if flags.Changed(mode.ProductionFlag) {
			resolver = mode.NewFlagResolver(flags)
		}

		return c.app.Run(cmd.Context(), id, app.RunOptions{
			Dir:  dir,
			Mode: resolver,
			Host: host,
			Port: port,
		})
	}
}
