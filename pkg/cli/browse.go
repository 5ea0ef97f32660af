package cli

import (
	"io"

	"github.com/maxstrb/greenfm/pkg/logging"
	"github.com/maxstrb/greenfm/pkg/tui"
	"github.com/spf13/cobra"
)

var runBrowser = tui.Run

func (c *command) newBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse directories in the terminal (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.browse(cmd)
		},
	}
}

func (c *command) browse(cmd *cobra.Command) error {
	// Log lines would corrupt the screen unless they go to a file.
	if c.cfg.Log.File == "" {
		logging.SetOutput(io.Discard)
	}
	launcher := newLauncher(c.cfg.Launch)
	nav, err := c.navigator(cmd.Context(), launcher)
	if err != nil {
		return err
	}
	return runBrowser(cmd.Context(), nav, tui.WithBrowserLogger(log.WithField("command", "browse")))
}
