package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "List the available workspaces and the current user",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runWorkspaces,
}

func runWorkspaces(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), true, false)
	if err != nil {
		return err
	}
	defer a.close()

	ws, err := a.client.Workspaces(cmd.Context())
	if err != nil {
		return err
	}
	user, err := a.client.CurrentUser(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Workspaces:")
	for _, w := range ws {
		marker := " "
		if w.ID == a.cfg.Clockify.WorkspaceID {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s\t%s\n", marker, w.Name, w.ID)
	}
	fmt.Fprintln(out, "User:")
	fmt.Fprintf(out, "  %s <%s>\t%s\n", user.Name, user.Email, user.ID)
	return nil
}
