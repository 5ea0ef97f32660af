package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/maxstrb/greenfm/pkg/favorites"
	"github.com/spf13/cobra"
)

var (
	getFavorites   = favorites.GetFavorites
	addFavorite    = favorites.AddFavorite
	deleteFavorite = favorites.DeleteFavorite
)

func (c *command) newFavCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "Manage favourite directories",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "ls",
			Short: "List favourites",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				favs, err := getFavorites()
				if err != nil {
					return err
				}
				if c.opts.JSONOutput {
					return c.printJSON(cmd.OutOrStdout(), favs)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				for _, f := range favs {
					_, _ = fmt.Fprintf(tw, "%s\t%s\n", f.Path, f.Name)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "add PATH [NAME]",
			Short: "Add or rename a favourite",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				nav, err := c.navigator(cmd.Context(), nil)
				if err != nil {
					return err
				}
				// Only existing directories can be pinned.
				dir, err := nav.ResolveDirectory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				f := favorites.Favorite{Path: dir}
				if len(args) == 2 {
					f.Name = args[1]
				}
				if err = addFavorite(f); err != nil {
					return err
				}
				return c.printPath(cmd.OutOrStdout(), dir)
			},
		},
		&cobra.Command{
			Use:   "rm PATH",
			Short: "Remove a favourite",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return deleteFavorite(args[0])
			},
		},
	)
	return cmd
}
