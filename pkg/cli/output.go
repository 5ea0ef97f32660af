package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/maxstrb/greenfm/pkg/files"
	"github.com/maxstrb/greenfm/pkg/fsutils"
	"github.com/maxstrb/greenfm/pkg/navigation"
)

type pathOutput struct {
	Path string `json:"path"`
}

func (c *command) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func (c *command) printPath(w io.Writer, p string) error {
	if c.opts.JSONOutput {
		return c.printJSON(w, pathOutput{Path: p})
	}
	_, err := fmt.Fprintln(w, p)
	return err
}

func (c *command) printPaths(w io.Writer, paths []string) error {
	if c.opts.JSONOutput {
		return c.printJSON(w, paths)
	}
	for _, p := range paths {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}

func (c *command) printEntries(w io.Writer, entries []navigation.Entry) error {
	if c.opts.JSONOutput {
		return c.printJSON(w, entries)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, entry := range entries {
		name := entry.Name
		if entry.IsDir {
			name += "/"
		}
		var modified string
		if entry.ModTime != nil {
			modified = entry.ModTime.Format(time.DateTime)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t %s\n", fsutils.EntrySizeText(entry.IsDir, entry.Size), modified, name)
	}
	return tw.Flush()
}

func (c *command) printVolumes(w io.Writer, volumes []files.Volume) error {
	if c.opts.JSONOutput {
		return c.printJSON(w, volumes)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, v := range volumes {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", v.ID, v.Label)
	}
	return tw.Flush()
}
