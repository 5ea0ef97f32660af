package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMainRoot(t *testing.T) {
	oldExecute, oldExit := execute, osExit
	defer func() {
		execute, osExit = oldExecute, oldExit
	}()

	var gotArgs []string
	execute = func(_ context.Context, args []string, _, _ io.Writer) error {
		gotArgs = args
		return nil
	}
	exitCode := -1
	osExit = func(code int) {
		exitCode = code
	}

	main()

	assert.NotNil(t, gotArgs)
	assert.Equal(t, 0, exitCode)
}

func Test_run(t *testing.T) {
	oldExecute := execute
	defer func() {
		execute = oldExecute
	}()

	t.Run("success", func(t *testing.T) {
		execute = func(_ context.Context, args []string, stdout, _ io.Writer) error {
			_, _ = io.WriteString(stdout, "/home\n")
			return nil
		}
		var stdout, stderr bytes.Buffer
		assert.Equal(t, 0, run([]string{"pwd"}, &stdout, &stderr))
		assert.Equal(t, "/home\n", stdout.String())
		assert.Empty(t, stderr.String())
	})
	t.Run("error", func(t *testing.T) {
		execute = func(context.Context, []string, io.Writer, io.Writer) error {
			return errors.New("test error")
		}
		var stdout, stderr bytes.Buffer
		assert.Equal(t, 1, run(nil, &stdout, &stderr))
		assert.Equal(t, "greenfm: test error\n", stderr.String())
	})
	t.Run("panic", func(t *testing.T) {
		execute = func(context.Context, []string, io.Writer, io.Writer) error {
			panic("boom")
		}
		var stdout, stderr bytes.Buffer
		assert.Equal(t, 2, run(nil, &stdout, &stderr))
		assert.Contains(t, stderr.String(), "boom")
	})
}
