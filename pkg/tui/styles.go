package tui

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
)

type Styles struct {
	FocusedBorderColor tcell.Color
	BlurBorderColor    tcell.Color

	TableHeaderColor tcell.Color
	DirColor         tcell.Color
	FileColor        tcell.Color
	ErrorColor       tcell.Color
}

var Style = Styles{
	FocusedBorderColor: tcell.ColorCornflowerBlue,
	BlurBorderColor:    tcell.ColorGray,

	TableHeaderColor: tcell.ColorWhiteSmoke,
	DirColor:         tcell.ColorCornflowerBlue,
	FileColor:        tcell.ColorWhiteSmoke,
	ErrorColor:       tcell.ColorRed,
}

var fileColors = map[string]tcell.Color{
	"exe":  tcell.ColorRed,
	"go":   tcell.ColorAqua,
	"c":    tcell.ColorDodgerBlue,
	"h":    tcell.ColorDodgerBlue,
	"js":   tcell.ColorYellow,
	"ts":   tcell.ColorDeepSkyBlue,
	"html": tcell.ColorOrangeRed,
	"json": tcell.ColorGold,
	"yaml": tcell.ColorLightYellow,
	"yml":  tcell.ColorLightYellow,
	"md":   tcell.ColorBisque,
	"py":   tcell.ColorLightGreen,
	"rs":   tcell.ColorOrange,
	"sh":   tcell.ColorGreen,
	"jpg":  tcell.ColorMediumPurple,
	"png":  tcell.ColorMediumPurple,
	"mp4":  tcell.ColorLightSalmon,
	"log":  tcell.ColorRosyBrown,
}

func entryColor(name string, isDir bool) tcell.Color {
	if isDir {
		return Style.DirColor
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if color, ok := fileColors[ext]; ok {
		return color
	}
	return Style.FileColor
}

// modifiedText shows the time for today's changes and the date otherwise.
func modifiedText(modTime *time.Time, now time.Time) string {
	if modTime == nil {
		return ""
	}
	local := modTime.In(now.Location())
	if y, m, d := local.Date(); y == now.Year() && m == now.Month() && d == now.Day() {
		return local.Format("15:04:05")
	}
	return local.Format("2006-01-02")
}
