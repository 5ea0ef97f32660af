// Package launch hands files and directories over to the desktop:
// the default handler for a file and a terminal for a directory.
package launch

import (
	"context"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/jmgilman/go/exec"
	"github.com/maxstrb/greenfm/pkg/logging"
	"github.com/sirupsen/logrus"
)

// PathPlaceholder is replaced by the target path in configured commands.
const PathPlaceholder = "{path}"

// Config is the `launch` section of the configuration file.
type Config struct {
	Handler string `yaml:"handler,omitempty"`
	Shell   string `yaml:"shell,omitempty"`
}

var goos = runtime.GOOS
var getenv = os.Getenv

type Option func(*Launcher)

// WithExecutor replaces the command executor, e.g. in tests.
func WithExecutor(e exec.Executor) Option {
	return func(l *Launcher) {
		l.executor = e
	}
}

type Launcher struct {
	executor exec.Executor
	handler  []string
	shell    []string
	log      *logrus.Entry
	running  sync.WaitGroup
}

func New(cfg Config, o ...Option) *Launcher {
	l := &Launcher{
		executor: exec.New(),
		handler:  defaultHandler(),
		shell:    defaultShell(),
		log:      logging.NewLogger("launch"),
	}
	if fields := strings.Fields(cfg.Handler); len(fields) > 0 {
		l.handler = fields
	}
	if fields := strings.Fields(cfg.Shell); len(fields) > 0 {
		l.shell = fields
	}
	for _, opt := range o {
		opt(l)
	}
	return l
}

// Open runs the handler command and waits for it to return.
func (l *Launcher) Open(ctx context.Context, path string) error {
	args := withPath(l.handler, path, true)
	l.log.WithField("path", path).Debugf("opening with %v", args)
	_, err := l.executor.Clone().WithContext(ctx).Run(args...)
	return err
}

// Shell starts a terminal in dir without waiting for it to exit.
func (l *Launcher) Shell(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	args := withPath(l.shell, dir, false)
	// The terminal outlives the request that started it.
	executor := l.executor.Clone().WithContext(context.Background()).WithDir(dir)

	l.running.Add(1)
	go func() {
		defer l.running.Done()
		if _, err := executor.Run(args...); err != nil {
			l.log.WithError(err).WithField("path", dir).Warn("shell exited with error")
		}
	}()
	return nil
}

// Wait blocks until every started shell has exited.
func (l *Launcher) Wait() {
	l.running.Wait()
}

func defaultHandler() []string {
	switch goos {
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler", PathPlaceholder}
	case "darwin":
		return []string{"open", PathPlaceholder}
	default:
		return []string{"xdg-open", PathPlaceholder}
	}
}

func defaultShell() []string {
	switch goos {
	case "windows":
		return []string{"cmd", "/C", "start", "cmd"}
	case "darwin":
		return []string{"open", "-a", "Terminal", PathPlaceholder}
	default:
		if terminal := getenv("TERMINAL"); terminal != "" {
			return []string{terminal}
		}
		return []string{"x-terminal-emulator"}
	}
}

// withPath substitutes the placeholder. Without one, the path is appended only when appendMissing.
func withPath(command []string, path string, appendMissing bool) []string {
	args := make([]string, 0, len(command)+1)
	substituted := false
	for _, arg := range command {
		if strings.Contains(arg, PathPlaceholder) {
			arg = strings.ReplaceAll(arg, PathPlaceholder, path)
			substituted = true
		}
		args = append(args, arg)
	}
	if !substituted && appendMissing {
		args = append(args, path)
	}
	return args
}
