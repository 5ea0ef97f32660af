package cli

import (
	"context"
	"fmt"

	"github.com/maxstrb/greenfm/pkg/transport"
	"github.com/spf13/cobra"
)

var listenAndServe = func(ctx context.Context, srv *transport.Server, addr string) error {
	return srv.ListenAndServe(ctx, addr)
}

func (c *command) newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the navigation state over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = c.cfg.Serve.Addr
			}
			launcher := newLauncher(c.cfg.Launch)
			nav, err := c.navigator(cmd.Context(), launcher)
			if err != nil {
				return err
			}
			log.WithField("addr", addr).Info("serving")
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s\n", addr)
			if err = listenAndServe(cmd.Context(), transport.NewServer(nav), addr); err != nil {
				return err
			}
			launcher.Wait()
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen `address` (default from serve.addr)")
	return cmd
}
