package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-git/go-billy/v5/util"
	"github.com/maxstrb/greenfm/pkg/favorites"
	"github.com/maxstrb/greenfm/pkg/files"
	"github.com/maxstrb/greenfm/pkg/files/billyfile"
	"github.com/maxstrb/greenfm/pkg/fsutils"
	"github.com/maxstrb/greenfm/pkg/navigation"
	"github.com/maxstrb/greenfm/pkg/navpath"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp runs queued updates synchronously.
type testApp struct {
	focused tview.Primitive
	root    tview.Primitive
	stopped bool
	mouse   bool
	running func()
}

func (a *testApp) Run() error {
	if a.running != nil {
		a.running()
	}
	return nil
}

func (a *testApp) QueueUpdateDraw(f func()) {
	if f != nil {
		f()
	}
}

func (a *testApp) SetFocus(p tview.Primitive) {
	a.focused = p
}

func (a *testApp) SetRoot(root tview.Primitive, _ bool) {
	a.root = root
}

func (a *testApp) Stop() { a.stopped = true }

func (a *testApp) EnableMouse(b bool) { a.mouse = b }

type fakeLauncher struct {
	opened []string
	shells []string
	err    error
}

func (l *fakeLauncher) Open(_ context.Context, p string) error {
	l.opened = append(l.opened, p)
	return l.err
}

func (l *fakeLauncher) Shell(_ context.Context, dir string) error {
	l.shells = append(l.shells, dir)
	return l.err
}

type fakeWatcher struct {
	dirs []string
	err  error
}

func (w *fakeWatcher) Watch(dir string) error {
	w.dirs = append(w.dirs, dir)
	return w.err
}

type browserFixture struct {
	browser  *Browser
	app      *testApp
	nav      *navigation.State
	store    *billyfile.Store
	launcher *fakeLauncher
	watcher  *fakeWatcher
	favs     []favorites.Favorite
}

func useSyncSeams(t *testing.T, f *browserFixture) {
	t.Helper()
	origGoAsync, origGetFavorites, origAddFavorite, origNow := goAsync, getFavorites, addFavorite, now
	t.Cleanup(func() {
		goAsync, getFavorites, addFavorite, now = origGoAsync, origGetFavorites, origAddFavorite, origNow
	})
	goAsync = func(f func()) { f() }
	getFavorites = func() ([]favorites.Favorite, error) {
		return f.favs, nil
	}
	addFavorite = func(fav favorites.Favorite) error {
		f.favs = append(f.favs, fav)
		return nil
	}
	now = func() time.Time {
		return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	}
}

func newBrowserFixture(t *testing.T, start string) *browserFixture {
	t.Helper()
	store := billyfile.NewMemoryStore(billyfile.WithVolumes(files.Volume{ID: "/", Label: "Memory (/)"}))
	memFS := store.Filesystem()
	require.NoError(t, memFS.MkdirAll("/home/user/docs", 0o755))
	require.NoError(t, memFS.MkdirAll("/home/user/Music", 0o755))
	require.NoError(t, util.WriteFile(memFS, "/home/user/notes.txt", []byte("hello"), 0o644))
	require.NoError(t, util.WriteFile(memFS, "/home/user/a.txt", []byte("a"), 0o644))

	f := &browserFixture{
		app:      &testApp{},
		store:    store,
		launcher: &fakeLauncher{},
		watcher:  &fakeWatcher{},
		favs:     []favorites.Favorite{{Path: "/home/user/docs", Name: "Docs"}},
	}
	useSyncSeams(t, f)

	nav, err := navigation.New(context.Background(), store, start,
		navigation.WithPathConvention(navpath.Posix),
		navigation.WithLauncher(f.launcher),
	)
	require.NoError(t, err)
	f.nav = nav
	f.browser = NewBrowser(context.Background(), f.app, nav, WithWatcher(f.watcher))
	f.browser.Load()
	return f
}

func (f *browserFixture) names() []string {
	var names []string
	for row := 1; row < f.browser.table.GetRowCount(); row++ {
		names = append(names, f.browser.table.GetCell(row, nameColIndex).Text)
	}
	return names
}

func (f *browserFixture) statusText() string {
	return f.browser.status.GetText(true)
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

// textColor reads the foreground whether tview stored it in Color or Style.
func textColor(cell *tview.TableCell) tcell.Color {
	if cell.Style != tcell.StyleDefault {
		fg, _, _ := cell.Style.Decompose()
		return fg
	}
	return cell.Color
}

func char(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestBrowser_Load(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")
	table := f.browser.table

	assert.Equal(t, "Name", table.GetCell(0, nameColIndex).Text)
	assert.Equal(t, "Size", table.GetCell(0, sizeColIndex).Text)
	assert.Equal(t, "Modified", table.GetCell(0, modifiedColIndex).Text)
	assert.Equal(t, Style.TableHeaderColor, textColor(table.GetCell(0, nameColIndex)))

	assert.Equal(t, []string{dirEmoji + "docs", dirEmoji + "Music", fileEmoji + "a.txt", fileEmoji + "notes.txt"}, f.names())
	assert.Equal(t, "", table.GetCell(1, sizeColIndex).Text)
	assert.Equal(t, fsutils.GetSizeShortText(5), table.GetCell(4, sizeColIndex).Text)
	assert.Equal(t, Style.DirColor, textColor(table.GetCell(1, nameColIndex)))

	var titles []string
	for _, crumb := range f.browser.crumbs.Items() {
		titles = append(titles, crumb.GetTitle())
	}
	assert.Equal(t, []string{"/", "home", "user"}, titles)

	assert.Contains(t, f.statusText(), "/home/user")
	assert.Contains(t, f.statusText(), "4 entries")
	assert.Equal(t, []string{"/home/user"}, f.watcher.dirs)

	require.Equal(t, 2, f.browser.places.GetItemCount())
	main, secondary := f.browser.places.GetItemText(0)
	assert.Equal(t, volumeEmoji+" Memory (/)", main)
	assert.Equal(t, "/", secondary)
	main, secondary = f.browser.places.GetItemText(1)
	assert.Equal(t, starEmoji+" Docs", main)
	assert.Equal(t, "/home/user/docs", secondary)
}

func TestBrowser_EmptyDirectory(t *testing.T) {
	f := newBrowserFixture(t, "/home/user/docs")
	assert.Equal(t, []string{"[::i]No entries[::-]"}, f.names())
	assert.Contains(t, f.statusText(), "0 entries")
}

func TestBrowser_ActivateDirectory(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")
	f.browser.activate(1)

	assert.Equal(t, "/home/user/docs", f.nav.CurrentDirectory())
	assert.Equal(t, []string{"/home/user", "/home/user/docs"}, f.watcher.dirs)
	assert.Len(t, f.browser.crumbs.Items(), 4)
	assert.Equal(t, " docs ", f.browser.table.GetTitle())
}

func TestBrowser_ActivateFile(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")
	f.browser.activate(4)

	assert.Equal(t, []string{"/home/user/notes.txt"}, f.launcher.opened)
	assert.Equal(t, "/home/user", f.nav.CurrentDirectory())
	assert.Equal(t, "Opened notes.txt", f.statusText())

	f.launcher.err = errors.New("no handler")
	f.browser.activate(3)
	assert.Contains(t, f.statusText(), "no handler")
}

func TestBrowser_ActivateOutOfRange(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")
	f.browser.activate(0)
	f.browser.activate(99)
	assert.Equal(t, "/home/user", f.nav.CurrentDirectory())
	assert.Empty(t, f.launcher.opened)
}

func TestBrowser_GoParent(t *testing.T) {
	f := newBrowserFixture(t, "/home/user/Music")

	assert.Nil(t, f.browser.tableInputCapture(key(tcell.KeyBackspace2)))
	assert.Equal(t, "/home/user", f.nav.CurrentDirectory())
	row, _ := f.browser.table.GetSelection()
	assert.Equal(t, 2, row, "cursor is placed on the directory we came from")

	assert.Nil(t, f.browser.tableInputCapture(key(tcell.KeyLeft)))
	assert.Equal(t, "/home", f.nav.CurrentDirectory())
}

func TestBrowser_GoParentAtRoot(t *testing.T) {
	f := newBrowserFixture(t, "/")
	var pending []func()
	goAsync = func(f func()) { pending = append(pending, f) }

	f.browser.goParent()
	assert.Empty(t, pending)
	assert.Equal(t, "/", f.nav.CurrentDirectory())
	assert.Equal(t, []string{"/"}, f.watcher.dirs)
}

func TestBrowser_WithLogger(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")
	log := logrus.NewEntry(logrus.New())
	b := NewBrowser(context.Background(), f.app, f.nav, WithBrowserLogger(log))
	assert.Same(t, log, b.log)
}

func TestBrowser_KeyRight(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")

	f.browser.table.Select(4, 0)
	assert.Nil(t, f.browser.tableInputCapture(key(tcell.KeyRight)))
	assert.Equal(t, "/home/user", f.nav.CurrentDirectory())
	assert.Empty(t, f.launcher.opened)

	f.browser.table.Select(2, 0)
	assert.Nil(t, f.browser.tableInputCapture(key(tcell.KeyRight)))
	assert.Equal(t, "/home/user/Music", f.nav.CurrentDirectory())
}

func TestBrowser_Shell(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")
	assert.Nil(t, f.browser.tableInputCapture(char('t')))
	assert.Equal(t, []string{"/home/user"}, f.launcher.shells)
	assert.Contains(t, f.statusText(), "Shell started in /home/user")

	f.launcher.err = errors.New("no terminal")
	f.browser.openShell()
	assert.Contains(t, f.statusText(), "no terminal")
}

func TestBrowser_AddFavorite(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")
	assert.Nil(t, f.browser.tableInputCapture(char('a')))
	require.Len(t, f.favs, 2)
	assert.Equal(t, "/home/user", f.favs[1].Path)
	assert.Equal(t, 3, f.browser.places.GetItemCount())

	addFavorite = func(favorites.Favorite) error { return errors.New("read-only") }
	f.browser.addCurrentFavorite()
	assert.Contains(t, f.statusText(), "read-only")
}

func TestBrowser_Reload(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")
	require.NoError(t, util.WriteFile(f.store.Filesystem(), "/home/user/b.txt", []byte("b"), 0o644))

	assert.Nil(t, f.browser.tableInputCapture(char('r')))
	assert.Contains(t, f.names(), fileEmoji+"b.txt")
}

func TestBrowser_Refresh(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")
	require.NoError(t, util.WriteFile(f.store.Filesystem(), "/home/user/b.txt", []byte("b"), 0o644))

	f.browser.Refresh("/somewhere/else")
	assert.NotContains(t, f.names(), fileEmoji+"b.txt")

	f.browser.Refresh("/home/user")
	assert.Contains(t, f.names(), fileEmoji+"b.txt")
}

func TestBrowser_UnhandledKeys(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")
	event := char('x')
	assert.Same(t, event, f.browser.tableInputCapture(event))
	assert.Same(t, event, f.browser.inputCapture(event))
	enter := key(tcell.KeyEnter)
	assert.Same(t, enter, f.browser.tableInputCapture(enter))
}

func TestBrowser_Quit(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")
	assert.Nil(t, f.browser.inputCapture(char('q')))
	assert.True(t, f.app.stopped)
}

func TestBrowser_FocusCycle(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")

	assert.Nil(t, f.browser.inputCapture(key(tcell.KeyTab)))
	assert.Same(t, f.browser.places, f.app.focused)
	assert.Equal(t, Style.FocusedBorderColor, f.browser.places.GetBorderColor())
	assert.Equal(t, Style.BlurBorderColor, f.browser.table.GetBorderColor())

	assert.Nil(t, f.browser.inputCapture(key(tcell.KeyTab)))
	assert.Same(t, f.browser.table, f.app.focused)

	assert.Nil(t, f.browser.inputCapture(key(tcell.KeyBacktab)))
	assert.Same(t, f.browser.places, f.app.focused)
}

func TestBrowser_OpenPlace(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")
	f.browser.focus(1)

	f.browser.openPlace(1)
	assert.Equal(t, "/home/user/docs", f.nav.CurrentDirectory())
	assert.Same(t, f.browser.table, f.app.focused)

	f.browser.openPlace(7)
	assert.Equal(t, "/home/user/docs", f.nav.CurrentDirectory())

	f.browser.showPlaces([]place{{title: "gone", path: "/gone"}})
	f.browser.openPlace(0)
	assert.Equal(t, "/home/user/docs", f.nav.CurrentDirectory())
	assert.Contains(t, f.statusText(), "/gone")
}

func TestBrowser_Breadcrumbs(t *testing.T) {
	f := newBrowserFixture(t, "/home/user/docs")
	f.browser.crumbs.Activate(1)
	assert.Equal(t, "/home", f.nav.CurrentDirectory())
	assert.Equal(t, []string{dirEmoji + "user"}, f.names())
}

func TestBrowser_VanishedDirectory(t *testing.T) {
	f := newBrowserFixture(t, "/home/user/docs")
	require.NoError(t, f.store.Filesystem().Remove("/home/user/docs"))

	f.browser.reload()
	assert.Equal(t, "/home/user", f.nav.CurrentDirectory())
	assert.Equal(t, []string{dirEmoji + "Music", fileEmoji + "a.txt", fileEmoji + "notes.txt"}, f.names())
	assert.Equal(t, "/home/user", f.watcher.dirs[len(f.watcher.dirs)-1])
}

func TestBrowser_VanishedDirectory_MovesUpInBackground(t *testing.T) {
	f := newBrowserFixture(t, "/home/user/docs")
	require.NoError(t, f.store.Filesystem().Remove("/home/user/docs"))

	var pending []func()
	goAsync = func(f func()) { pending = append(pending, f) }

	f.browser.reload()
	require.Len(t, pending, 1)
	pending[0]()
	require.Len(t, pending, 2)
	assert.Equal(t, "/home/user/docs", f.nav.CurrentDirectory())

	pending[1]()
	assert.Equal(t, "/home/user", f.nav.CurrentDirectory())
	require.Len(t, pending, 3)
	pending[2]()
	assert.Equal(t, []string{dirEmoji + "Music", fileEmoji + "a.txt", fileEmoji + "notes.txt"}, f.names())
}

func TestBrowser_ChangeDirectoryInBackground(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")

	var pending []func()
	goAsync = func(f func()) { pending = append(pending, f) }

	f.browser.activate(1)
	require.Len(t, pending, 1)
	assert.Equal(t, "/home/user", f.nav.CurrentDirectory())

	pending[0]()
	assert.Equal(t, "/home/user/docs", f.nav.CurrentDirectory())
	require.Len(t, pending, 2)
	pending[1]()
	assert.Equal(t, []string{"[::i]No entries[::-]"}, f.names())
}

func TestBrowser_PlacesTitle(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")
	assert.Equal(t, " "+f.store.RootTitle()+" ", f.browser.places.GetTitle())
}

func TestBrowser_ListingError(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")
	err := errors.New("disk on fire")
	f.browser.showEntries("/home/user", nil, err)

	cell := f.browser.table.GetCell(1, nameColIndex)
	assert.True(t, strings.HasSuffix(cell.Text, "disk on fire"))
	assert.Equal(t, Style.ErrorColor, textColor(cell))
	assert.Contains(t, f.statusText(), "disk on fire")
}

func TestBrowser_StaleListingIgnored(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")

	var pending []func()
	goAsync = func(f func()) { pending = append(pending, f) }

	require.NoError(t, f.nav.ChangeDirectory(context.Background(), "/home"))
	f.browser.reload()
	require.NoError(t, f.nav.ChangeDirectory(context.Background(), "/home/user/docs"))
	f.browser.reload()
	require.Len(t, pending, 2)

	pending[1]()
	pending[0]()
	assert.Equal(t, []string{"[::i]No entries[::-]"}, f.names())
}

func TestBrowser_WatchError(t *testing.T) {
	f := newBrowserFixture(t, "/home/user")
	f.watcher.err = errors.New("too many watches")
	f.browser.activate(1)
	assert.Equal(t, "/home/user/docs", f.nav.CurrentDirectory())
}
