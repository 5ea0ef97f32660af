package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

type Breadcrumb interface {
	GetTitle() string
	Action() error
}

type breadcrumb struct {
	title  string
	action func() error
}

func (b *breadcrumb) GetTitle() string {
	return b.title
}

func (b *breadcrumb) Action() error {
	if b.action == nil {
		return nil
	}
	return b.action()
}

func NewBreadcrumb(title string, action func() error) Breadcrumb {
	return &breadcrumb{title: title, action: action}
}

// Breadcrumbs renders a path as clickable segments, the last one highlighted.
type Breadcrumbs struct {
	*tview.TextView
	items     []Breadcrumb
	separator string
	onError   func(error)
}

func NewBreadcrumbs(onError func(error)) *Breadcrumbs {
	b := &Breadcrumbs{
		TextView:  tview.NewTextView(),
		separator: " › ",
		onError:   onError,
	}
	b.SetDynamicColors(true).
		SetRegions(true).
		SetWrap(false).
		SetTextColor(Style.TableHeaderColor)
	b.SetHighlightedFunc(b.highlighted)
	return b
}

func (b *Breadcrumbs) SetItems(items []Breadcrumb) {
	b.items = items
	b.render()
}

func (b *Breadcrumbs) Items() []Breadcrumb {
	return b.items
}

// Activate runs the action of the crumb at index i.
func (b *Breadcrumbs) Activate(i int) {
	if i < 0 || i >= len(b.items) {
		return
	}
	if err := b.items[i].Action(); err != nil && b.onError != nil {
		b.onError(err)
	}
}

func (b *Breadcrumbs) render() {
	var sb strings.Builder
	for i, item := range b.items {
		if i > 0 {
			sb.WriteString(b.separator)
		}
		color := Style.BlurBorderColor
		if i == len(b.items)-1 {
			color = Style.TableHeaderColor
		}
		_, _ = fmt.Fprintf(&sb, `["%d"][%s]%s[-][""]`, i, colorName(color), tview.Escape(item.GetTitle()))
	}
	b.SetText(sb.String())
}

func (b *Breadcrumbs) highlighted(added, _, _ []string) {
	if len(added) == 0 {
		return
	}
	b.Highlight()
	if i, err := strconv.Atoi(added[0]); err == nil {
		b.Activate(i)
	}
}

func colorName(c tcell.Color) string {
	return fmt.Sprintf("#%06x", c.Hex())
}
