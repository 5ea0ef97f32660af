// Package cli is the greenfm command tree.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/maxstrb/greenfm/pkg/files"
	"github.com/maxstrb/greenfm/pkg/files/osfile"
	"github.com/maxstrb/greenfm/pkg/launch"
	"github.com/maxstrb/greenfm/pkg/logging"
	"github.com/maxstrb/greenfm/pkg/navigation"
	"github.com/maxstrb/greenfm/pkg/navpath"
	"github.com/maxstrb/greenfm/pkg/profiling"
	"github.com/maxstrb/greenfm/pkg/settings"
	"github.com/maxstrb/greenfm/pkg/state"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Options holds the persistent flags shared by every command.
type Options struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// Launcher opens files and shells; Wait blocks until started shells exit.
type Launcher interface {
	navigation.Launcher
	Wait()
}

var (
	newStore         = func() files.Store { return osfile.NewStore() }
	newLauncher      = func(cfg launch.Config) Launcher { return launch.New(cfg) }
	pathConvention   = navpath.Native
	loadSettings     = settings.Load
	configureLogging = logging.Configure
	getLastDir       = state.GetCurrentDir
	saveLastDir      = state.SaveCurrentDir
)

var log = logging.NewLogger("cli")

// command carries what a subcommand needs once the root pre-run has loaded the configuration.
type command struct {
	opts     Options
	cfg      settings.Config
	logClose io.Closer
	profiler profiling.Profiler
}

func newRootCommand() (*cobra.Command, *command) {
	c := &command{}
	root := &cobra.Command{
		Use:           "greenfm",
		Short:         "Browse directories and volumes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			c.profiler.Start()
			return c.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.browse(cmd)
		},
	}
	root.PersistentFlags().BoolVarP(&c.opts.Verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().BoolVar(&c.opts.JSONOutput, "json", false, "Output in JSON format")
	root.PersistentFlags().StringVarP(&c.opts.ConfigFile, "config", "c", "", "Path to greenfm.yaml config file")
	c.profiler.AddFlags(root)

	root.AddCommand(
		c.newLsCommand(),
		c.newCdCommand(),
		c.newPwdCommand(),
		c.newAncestorsCommand(),
		c.newParentCommand(),
		c.newVolumesCommand(),
		c.newOpenCommand(),
		c.newShellCommand(),
		c.newFavCommand(),
		c.newBrowseCommand(),
		c.newServeCommand(),
	)
	return root, c
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, c := newRootCommand()
	defer c.teardown()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (c *command) setup() error {
	cfg, err := loadSettings(c.opts.ConfigFile)
	if err != nil {
		return err
	}
	c.cfg = cfg
	closer, err := configureLogging(cfg.Log)
	if err != nil {
		return err
	}
	c.logClose = closer
	if c.opts.Verbose {
		logging.SetLevel(logrus.DebugLevel)
	}
	return nil
}

func (c *command) teardown() {
	c.profiler.Stop()
	if c.logClose != nil {
		if err := c.logClose.Close(); err != nil {
			log.WithError(err).Debug("failed to close log file")
		}
		c.logClose = nil
	}
	logging.SetOutput(os.Stderr)
}

// navigator opens a session at the first usable start directory: the
// remembered one, then start_dir, then the platform default root.
func (c *command) navigator(ctx context.Context, launcher Launcher) (*navigation.State, error) {
	paths := pathConvention()
	var candidates []string
	if c.cfg.RememberLastDir {
		if dir := getLastDir(); dir != "" {
			candidates = append(candidates, dir)
		}
	}
	if c.cfg.StartDir != "" {
		candidates = append(candidates, c.cfg.StartDir)
	}
	candidates = append(candidates, paths.DefaultRoot())

	o := []navigation.Option{
		navigation.WithPathConvention(paths),
		navigation.OnDirectoryChanged(saveLastDir),
	}
	if launcher != nil {
		o = append(o, navigation.WithLauncher(launcher))
	}
	store := newStore()
	var lastErr error
	for _, dir := range candidates {
		nav, err := navigation.New(ctx, store, dir, o...)
		if err == nil {
			return nav, nil
		}
		log.WithError(err).WithField("dir", dir).Debug("start directory rejected")
		lastErr = err
	}
	return nil, lastErr
}
