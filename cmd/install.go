package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/autoclock/internal/hooks"
)

var (
	installHooks  []string
	installForce  bool
	installBinary string
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install autoclock as a git hook of the repository",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runInstall,
}

func init() {
	installCmd.Flags().StringSliceVar(&installHooks, "hook", []string{string(hooks.PostCommit)}, "Hooks to install")
	installCmd.Flags().BoolVar(&installForce, "force", false, "Replace hooks not installed by autoclock")
	installCmd.Flags().StringVar(&installBinary, "binary", "", "Command the hook runs (default: this executable)")
}

func runInstall(cmd *cobra.Command, args []string) error {
	names := make([]hooks.Name, 0, len(installHooks))
	for _, h := range installHooks {
		n, err := hooks.Parse(h)
		if err != nil {
			return err
		}
		names = append(names, n)
	}

	a, err := newApp(cmd.Context(), false, false)
	if err != nil {
		return err
	}
	defer a.close()

	binary := installBinary
	if binary == "" {
		if binary, err = os.Executable(); err != nil {
			return fmt.Errorf("locating autoclock executable: %w", err)
		}
	}

	dir, err := a.git.HooksDir()
	if err != nil {
		return fmt.Errorf("finding hooks directory: %w", err)
	}
	for _, n := range names {
		path, err := hooks.Install(dir, n, binary, installForce)
		if errors.Is(err, hooks.ErrForeignHook) {
			return usage(err)
		}
		if err != nil {
			return err
		}
		a.log.Success("Installed %s hook at %s", n, path)
	}
	return nil
}
