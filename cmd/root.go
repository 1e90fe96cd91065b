package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	workspaceID string
	userID      string
	repoPath    string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "autoclock",
	Short: "autoclock – log git commits as Clockify time entries",
	Long: `autoclock runs from git hooks and turns commit activity into time entries
on Clockify. Entries start when work on the branch began and are fitted
into the configured workday. Settings live in ~/.autoclock/config.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default ~/.autoclock/config.yaml or $AUTOCLOCK_CONFIG)")
	pf.StringVar(&workspaceID, "workspace-id", "", "Clockify workspace id (overrides CLOCKIFY_WORKSPACE_ID)")
	pf.StringVar(&userID, "user-id", "", "Clockify user id (overrides CLOCKIFY_USER_ID)")
	pf.StringVar(&repoPath, "path", "", "Path of the git repository (default: config git.path)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Echo log messages to stderr")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usage(err)
	})

	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(workspacesCmd)
	rootCmd.AddCommand(installCmd)
}
