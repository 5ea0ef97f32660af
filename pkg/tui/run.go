package tui

import (
	"context"

	"github.com/maxstrb/greenfm/pkg/dirwatch"
	"github.com/rivo/tview"
)

type directoryWatcher interface {
	Watcher
	Start(ctx context.Context)
	Close() error
}

var newApp = func() App {
	return NewApp(tview.NewApplication())
}

var newWatcher = func(onChange func(dir string)) (directoryWatcher, error) {
	return dirwatch.New(dirwatch.DefaultDebounce, onChange)
}

// Run shows the browser full screen until the user quits or ctx is done.
func Run(ctx context.Context, nav Navigator, o ...BrowserOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := newApp()
	var browser *Browser
	watcher, err := newWatcher(func(dir string) {
		app.QueueUpdateDraw(func() { browser.Refresh(dir) })
	})
	if err == nil {
		defer func() { _ = watcher.Close() }()
		go watcher.Start(ctx)
		o = append(o, WithWatcher(watcher))
	}
	browser = NewBrowser(ctx, app, nav, o...)
	if err != nil {
		browser.log.WithError(err).Warn("directory watching is disabled")
	}

	go func() {
		<-ctx.Done()
		app.Stop()
	}()

	app.EnableMouse(true)
	app.SetRoot(browser, true)
	app.SetFocus(browser.table)
	browser.Load()
	return app.Run()
}
