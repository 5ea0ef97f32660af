// Package tui is the terminal renderer of the navigation state.
package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/maxstrb/greenfm/pkg/favorites"
	"github.com/maxstrb/greenfm/pkg/files"
	"github.com/maxstrb/greenfm/pkg/fsutils"
	"github.com/maxstrb/greenfm/pkg/logging"
	"github.com/maxstrb/greenfm/pkg/navigation"
	"github.com/maxstrb/greenfm/pkg/navpath"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"
)

// Navigator is the part of navigation.State the browser renders.
type Navigator interface {
	PathConvention() navpath.Convention
	CurrentDirectory() string
	ChangeDirectory(ctx context.Context, newPath string) error
	ListDirectory(ctx context.Context, p string) ([]navigation.Entry, error)
	Ancestors() []string
	AncestorsOf(p string) ([]string, error)
	Parent() string
	RootTitle() string
	ListVolumes(ctx context.Context) ([]files.Volume, error)
	OpenFile(ctx context.Context, p string) error
	OpenShell(ctx context.Context, p string) error
}

var _ Navigator = (*navigation.State)(nil)

// Watcher follows the current directory for changes.
type Watcher interface {
	Watch(dir string) error
}

var goAsync = func(f func()) { go f() }
var getFavorites = favorites.GetFavorites
var addFavorite = favorites.AddFavorite
var now = time.Now

const (
	nameColIndex = iota
	sizeColIndex
	modifiedColIndex
)

const (
	dirEmoji    = "📁"
	fileEmoji   = "📄"
	volumeEmoji = "💽"
	starEmoji   = "⭐"
)

type place struct {
	title string
	path  string
}

type BrowserOption func(b *Browser)

func WithWatcher(w Watcher) BrowserOption {
	return func(b *Browser) {
		b.watcher = w
	}
}

func WithBrowserLogger(log *logrus.Entry) BrowserOption {
	return func(b *Browser) {
		b.log = log
	}
}

// Browser shows breadcrumbs, places and the entries of the current directory.
type Browser struct {
	*tview.Flex
	ctx     context.Context
	app     App
	nav     Navigator
	watcher Watcher
	log     *logrus.Entry

	crumbs *Breadcrumbs
	table  *tview.Table
	places *tview.List
	status *tview.TextView

	focusables []*tview.Box
	focused    int

	mu            sync.Mutex
	loadSeq       int
	entries       []navigation.Entry
	items         []place
	pendingSelect string
}

func NewBrowser(ctx context.Context, app App, nav Navigator, o ...BrowserOption) *Browser {
	b := &Browser{
		Flex:   tview.NewFlex().SetDirection(tview.FlexRow),
		ctx:    ctx,
		app:    app,
		nav:    nav,
		log:    logging.NewLogger("tui"),
		table:  tview.NewTable(),
		places: tview.NewList().ShowSecondaryText(false),
		status: tview.NewTextView().SetDynamicColors(true),
	}
	for _, opt := range o {
		opt(b)
	}
	b.crumbs = NewBreadcrumbs(b.showError)

	b.table.SetSelectable(true, false)
	b.table.SetFixed(1, 0)
	b.table.SetBorder(true)
	b.table.SetInputCapture(b.tableInputCapture)
	b.table.SetSelectedFunc(func(row, _ int) { b.activate(row) })
	b.table.SetFocusFunc(func() { b.setFocusStyle(b.table.Box) })

	b.places.SetBorder(true).SetTitle(" " + nav.RootTitle() + " ")
	b.places.SetSelectedFunc(func(index int, _, _ string, _ rune) { b.openPlace(index) })
	b.places.SetFocusFunc(func() { b.setFocusStyle(b.places.Box) })

	b.focusables = []*tview.Box{b.table.Box, b.places.Box}
	b.setFocusStyle(b.table.Box)

	main := tview.NewFlex().
		AddItem(b.places, 30, 0, false).
		AddItem(b.table, 0, 1, true)
	b.AddItem(b.crumbs, 1, 0, false).
		AddItem(main, 0, 1, true).
		AddItem(b.status, 1, 0, false)
	b.SetInputCapture(b.inputCapture)
	return b
}

// Load fills every panel for the current directory.
func (b *Browser) Load() {
	b.watch(b.nav.CurrentDirectory())
	b.reload()
	b.loadPlaces()
}

// Refresh reloads the listing if dir is still the current directory.
func (b *Browser) Refresh(dir string) {
	if dir == b.nav.CurrentDirectory() {
		b.reload()
	}
}

func (b *Browser) reload() {
	dir := b.nav.CurrentDirectory()
	b.mu.Lock()
	b.loadSeq++
	seq := b.loadSeq
	b.mu.Unlock()

	b.renderCrumbs()
	b.table.SetTitle(" " + navpath.Name(b.nav.PathConvention(), dir) + " ")
	goAsync(func() {
		entries, err := b.nav.ListDirectory(b.ctx, dir)
		b.app.QueueUpdateDraw(func() {
			b.mu.Lock()
			stale := seq != b.loadSeq
			b.mu.Unlock()
			if stale {
				return
			}
			b.showEntries(dir, entries, err)
		})
	})
}

func (b *Browser) showEntries(dir string, entries []navigation.Entry, err error) {
	if err == nil || navigation.KindOf(err) != navigation.KindNotFound {
		b.renderEntries(dir, entries, err)
		return
	}
	b.log.WithError(err).WithField("dir", dir).Info("directory vanished, moving up")
	b.mu.Lock()
	seq := b.loadSeq
	b.mu.Unlock()
	goAsync(func() {
		_, fallbackErr := changeToNearestAncestor(b.ctx, b.nav, dir)
		b.app.QueueUpdateDraw(func() {
			if fallbackErr == nil {
				b.watch(b.nav.CurrentDirectory())
				b.reload()
				return
			}
			b.mu.Lock()
			stale := seq != b.loadSeq
			b.mu.Unlock()
			if !stale {
				b.renderEntries(dir, entries, err)
			}
		})
	})
}

func (b *Browser) renderEntries(dir string, entries []navigation.Entry, err error) {
	b.mu.Lock()
	b.entries = entries
	b.mu.Unlock()

	b.table.Clear()
	headers := []string{"Name", "Size", "Modified"}
	for col, title := range headers {
		cell := tview.NewTableCell(title).
			SetTextColor(Style.TableHeaderColor).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false)
		if col == sizeColIndex {
			cell.SetAlign(tview.AlignRight)
		}
		if col == nameColIndex {
			cell.SetExpansion(1)
		}
		b.table.SetCell(0, col, cell)
	}
	switch {
	case err != nil:
		cell := tview.NewTableCell(" " + dirEmoji + tview.Escape(err.Error())).
			SetTextColor(Style.ErrorColor).
			SetSelectable(false)
		b.table.SetCell(1, nameColIndex, cell)
		b.setStatus(fmt.Sprintf("[red]%s[-]", tview.Escape(err.Error())))
		return
	case len(entries) == 0:
		cell := tview.NewTableCell("[::i]No entries[::-]").
			SetTextColor(Style.BlurBorderColor).
			SetSelectable(false)
		b.table.SetCell(1, nameColIndex, cell)
	}
	current := now()
	for i, entry := range entries {
		row := i + 1
		color := entryColor(entry.Name, entry.IsDir)
		emoji := fileEmoji
		if entry.IsDir {
			emoji = dirEmoji
		}
		b.table.SetCell(row, nameColIndex, tview.NewTableCell(emoji+entry.Name).
			SetTextColor(color).
			SetExpansion(1).
			SetReference(entry))
		b.table.SetCell(row, sizeColIndex, tview.NewTableCell(fsutils.EntrySizeText(entry.IsDir, entry.Size)).
			SetTextColor(color).
			SetAlign(tview.AlignRight))
		b.table.SetCell(row, modifiedColIndex, tview.NewTableCell(modifiedText(entry.ModTime, current)).
			SetTextColor(color))
	}
	b.table.Select(1, 0)
	b.table.ScrollToBeginning()
	b.mu.Lock()
	name := b.pendingSelect
	b.pendingSelect = ""
	b.mu.Unlock()
	for i, entry := range entries {
		if entry.Name == name {
			b.table.Select(i+1, 0)
			break
		}
	}
	b.setStatus(fmt.Sprintf("%s  [gray]%d entries[-]", tview.Escape(dir), len(entries)))
}

func (b *Browser) renderCrumbs() {
	conv := b.nav.PathConvention()
	chain := b.nav.Ancestors()
	items := make([]Breadcrumb, 0, len(chain))
	for _, dir := range chain {
		items = append(items, NewBreadcrumb(navpath.Name(conv, dir), func() error {
			b.changeDirectory(dir, nil)
			return nil
		}))
	}
	b.crumbs.SetItems(items)
}

func (b *Browser) loadPlaces() {
	goAsync(func() {
		var items []place
		volumes, err := b.nav.ListVolumes(b.ctx)
		if err != nil {
			b.log.WithError(err).Warn("failed to list volumes")
		}
		for _, v := range volumes {
			items = append(items, place{title: volumeEmoji + " " + v.Label, path: v.ID})
		}
		favs, err := getFavorites()
		if err != nil {
			b.log.WithError(err).Warn("failed to load favorites")
		}
		for _, f := range favs {
			items = append(items, place{title: starEmoji + " " + f.Title(), path: f.Expanded()})
		}
		b.app.QueueUpdateDraw(func() {
			b.showPlaces(items)
		})
	})
}

func (b *Browser) showPlaces(items []place) {
	b.mu.Lock()
	b.items = items
	b.mu.Unlock()
	b.places.Clear()
	for _, item := range items {
		b.places.AddItem(item.title, item.path, 0, nil)
	}
}

func (b *Browser) openPlace(index int) {
	b.mu.Lock()
	if index < 0 || index >= len(b.items) {
		b.mu.Unlock()
		return
	}
	item := b.items[index]
	b.mu.Unlock()
	b.changeDirectory(item.path, func(err error) {
		if err == nil {
			b.focus(0)
		}
	})
}

// changeDirectory switches directories off the UI goroutine. done, if set,
// runs on the UI goroutine once the switch succeeded or failed.
func (b *Browser) changeDirectory(p string, done func(err error)) {
	goAsync(func() {
		err := b.nav.ChangeDirectory(b.ctx, p)
		b.app.QueueUpdateDraw(func() {
			if err != nil {
				b.showError(err)
			} else {
				b.watch(b.nav.CurrentDirectory())
				b.reload()
			}
			if done != nil {
				done(err)
			}
		})
	})
}

func (b *Browser) watch(dir string) {
	if b.watcher == nil {
		return
	}
	if err := b.watcher.Watch(dir); err != nil {
		b.log.WithError(err).WithField("dir", dir).Debug("failed to watch directory")
	}
}

// activate enters a directory row or opens a file row.
func (b *Browser) activate(row int) {
	entry, ok := b.entryAt(row)
	if !ok {
		return
	}
	if entry.IsDir {
		b.changeDirectory(entry.FullPath, nil)
		return
	}
	b.setStatus("Opening " + tview.Escape(entry.Name) + "…")
	goAsync(func() {
		err := b.nav.OpenFile(b.ctx, entry.FullPath)
		b.app.QueueUpdateDraw(func() {
			if err != nil {
				b.showError(err)
				return
			}
			b.setStatus("Opened " + tview.Escape(entry.Name))
		})
	})
}

func (b *Browser) entryAt(row int) (navigation.Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := row - 1
	if i < 0 || i >= len(b.entries) {
		return navigation.Entry{}, false
	}
	return b.entries[i], true
}

func (b *Browser) goParent() {
	conv := b.nav.PathConvention()
	current := b.nav.CurrentDirectory()
	if navpath.IsRoot(conv, current) {
		return
	}
	// The directory we came from gets the cursor once the listing arrives.
	b.mu.Lock()
	b.pendingSelect = navpath.Name(conv, current)
	b.mu.Unlock()
	b.changeDirectory(b.nav.Parent(), func(err error) {
		if err != nil {
			b.mu.Lock()
			b.pendingSelect = ""
			b.mu.Unlock()
		}
	})
}

func (b *Browser) openShell() {
	if err := b.nav.OpenShell(b.ctx, ""); err != nil {
		b.showError(err)
		return
	}
	b.setStatus("Shell started in " + tview.Escape(b.nav.CurrentDirectory()))
}

func (b *Browser) addCurrentFavorite() {
	dir := b.nav.CurrentDirectory()
	if err := addFavorite(favorites.Favorite{Path: dir}); err != nil {
		b.showError(err)
		return
	}
	b.setStatus("Added " + tview.Escape(dir) + " to favorites")
	b.loadPlaces()
}

func (b *Browser) tableInputCapture(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyLeft:
		b.goParent()
		return nil
	case tcell.KeyRight:
		row, _ := b.table.GetSelection()
		if entry, ok := b.entryAt(row); ok && entry.IsDir {
			b.activate(row)
		}
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 't':
			b.openShell()
			return nil
		case 'r':
			b.reload()
			return nil
		case 'a':
			b.addCurrentFavorite()
			return nil
		}
	}
	return event
}

func (b *Browser) inputCapture(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyTab:
		b.focus((b.focused + 1) % len(b.focusables))
		return nil
	case tcell.KeyBacktab:
		b.focus((b.focused + len(b.focusables) - 1) % len(b.focusables))
		return nil
	case tcell.KeyRune:
		if event.Rune() == 'q' {
			b.app.Stop()
			return nil
		}
	}
	return event
}

func (b *Browser) focus(i int) {
	b.focused = i
	var p tview.Primitive = b.table
	if i == 1 {
		p = b.places
	}
	b.setFocusStyle(b.focusables[i])
	b.app.SetFocus(p)
}

func (b *Browser) setFocusStyle(focused *tview.Box) {
	for i, box := range b.focusables {
		color := Style.BlurBorderColor
		if box == focused {
			color = Style.FocusedBorderColor
			b.focused = i
		}
		box.SetBorderColor(color)
	}
}

func (b *Browser) setStatus(text string) {
	b.status.SetText(text)
}

func (b *Browser) showError(err error) {
	b.log.WithError(err).Debug("navigation failed")
	b.setStatus(fmt.Sprintf("[red]%s[-]", tview.Escape(err.Error())))
}
