package cli

import (
	"github.com/maxstrb/greenfm/pkg/navpath"
	"github.com/spf13/cobra"
)

func (c *command) newLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [PATH]",
		Short: "List the current directory, directories first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, err := c.navigator(cmd.Context(), nil)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				entries, err := nav.ListCurrentDirectory(cmd.Context())
				if err != nil {
					return err
				}
				return c.printEntries(cmd.OutOrStdout(), entries)
			}
			// A relative PATH is taken from the current directory. Anything
			// unresolvable is left to ListDirectory to reject.
			target := args[0]
			if resolved, err := navpath.Resolve(nav.PathConvention(), nav.CurrentDirectory(), target); err == nil {
				target = resolved
			}
			entries, err := nav.ListDirectory(cmd.Context(), target)
			if err != nil {
				return err
			}
			return c.printEntries(cmd.OutOrStdout(), entries)
		},
	}
}

func (c *command) newCdCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cd PATH",
		Short: "Change the remembered current directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, err := c.navigator(cmd.Context(), nil)
			if err != nil {
				return err
			}
			if err = nav.ChangeDirectory(cmd.Context(), args[0]); err != nil {
				return err
			}
			return c.printPath(cmd.OutOrStdout(), nav.CurrentDirectory())
		},
	}
}

func (c *command) newPwdCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pwd",
		Short: "Print the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nav, err := c.navigator(cmd.Context(), nil)
			if err != nil {
				return err
			}
			return c.printPath(cmd.OutOrStdout(), nav.CurrentDirectory())
		},
	}
}

func (c *command) newAncestorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ancestors [PATH]",
		Short: "Print the chain of directories from the volume root down to PATH",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, err := c.navigator(cmd.Context(), nil)
			if err != nil {
				return err
			}
			chain := nav.Ancestors()
			if len(args) == 1 {
				if chain, err = nav.AncestorsOf(args[0]); err != nil {
					return err
				}
			}
			return c.printPaths(cmd.OutOrStdout(), chain)
		},
	}
}

func (c *command) newParentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parent [PATH]",
		Short: "Print the directory containing PATH",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, err := c.navigator(cmd.Context(), nil)
			if err != nil {
				return err
			}
			parent := nav.Parent()
			if len(args) == 1 {
				if parent, err = nav.ParentOf(args[0]); err != nil {
					return err
				}
			}
			return c.printPath(cmd.OutOrStdout(), parent)
		},
	}
}

func (c *command) newVolumesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "volumes",
		Short: "List mounted volumes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nav, err := c.navigator(cmd.Context(), nil)
			if err != nil {
				return err
			}
			volumes, err := nav.ListVolumes(cmd.Context())
			if err != nil {
				return err
			}
			return c.printVolumes(cmd.OutOrStdout(), volumes)
		},
	}
}

func (c *command) newOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open PATH",
		Short: "Open a file with the default application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			launcher := newLauncher(c.cfg.Launch)
			nav, err := c.navigator(cmd.Context(), launcher)
			if err != nil {
				return err
			}
			return nav.OpenFile(cmd.Context(), args[0])
		},
	}
}

func (c *command) newShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell [PATH]",
		Short: "Open a terminal in PATH or the current directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			launcher := newLauncher(c.cfg.Launch)
			nav, err := c.navigator(cmd.Context(), launcher)
			if err != nil {
				return err
			}
			var dir string
			if len(args) == 1 {
				dir = args[0]
			}
			if err = nav.OpenShell(cmd.Context(), dir); err != nil {
				return err
			}
			launcher.Wait()
			return nil
		},
	}
}
