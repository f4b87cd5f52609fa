package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/ui/style"
)

func (c *CLI) newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the pipeline tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, err := cmd.Flags().GetBool("all")
			if err != nil {
				return err
			}

			tasks := c.app.ListTasks(all)
			width := 0
			for _, t := range tasks {
				width = max(width, len(t.ID))
			}

			out := cmd.OutOrStdout()
			for _, t := range tasks {
				name := style.TaskName.Render(fmt.Sprintf("%-*s", width, t.ID))
				if _, err := fmt.Fprintf(out, "  %s  %s\n", name, style.Muted.Render(t.Description)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolP("all", "a", false, "Include tasks only triggered by the watch loop")
	return cmd
}
