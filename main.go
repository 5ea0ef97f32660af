package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/maxstrb/greenfm/pkg/cli"
)

var execute = cli.Execute
var osExit = os.Exit

func main() {
	osExit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(stderr, "Recovered from panic: %v\n", r)
			code = 2
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, args, stdout, stderr); err != nil {
		_, _ = fmt.Fprintf(stderr, "greenfm: %v\n", err)
		return 1
	}
	return 0
}
