package tui

import (
	"context"

	"github.com/maxstrb/greenfm/pkg/navigation"
)

// changeToNearestAncestor moves to the closest existing ancestor of dir,
// used when the listed directory disappears under the browser.
func changeToNearestAncestor(ctx context.Context, nav Navigator, dir string) (string, error) {
	chain, err := nav.AncestorsOf(dir)
	if err != nil {
		return "", err
	}
	var lastErr error
	for i := len(chain) - 2; i >= 0; i-- {
		lastErr = nav.ChangeDirectory(ctx, chain[i])
		if lastErr == nil {
			return chain[i], nil
		}
		if navigation.KindOf(lastErr) != navigation.KindNotFound {
			return "", lastErr
		}
	}
	if lastErr == nil {
		lastErr = nav.ChangeDirectory(ctx, dir)
		if lastErr == nil {
			return dir, nil
		}
	}
	return "", lastErr
}
