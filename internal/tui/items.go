package tui

import (
	"strings"

	"linkdeck/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/x/ansi"
)

type appItem struct {
	app model.App
}

func (i appItem) FilterValue() string { return i.app.Name }
func (i appItem) Title() string       { return i.app.Name }

func (i appItem) Description() string {
	url := hyperlink(i.app.URL, ansi.Truncate(i.app.URL, 60, "…"))
	if i.app.Clip != nil && *i.app.Clip {
		return url + "  (clip)"
	}
	return url
}

func newAppList() list.Model {
	d := list.NewDefaultDelegate()
	d.SetSpacing(0)
	l := list.New(nil, d, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	return l
}

func listItemsFor(apps []*model.App) []list.Item {
	items := make([]list.Item, 0, len(apps))
	for _, a := range apps {
		items = append(items, appItem{app: *a})
	}
	return items
}

func selectedAppID(l list.Model) string {
	it, ok := l.SelectedItem().(appItem)
	if !ok {
		return ""
	}
	return it.app.ID
}

// iconLabel renders an app/category icon for terminal display: emoji pass
// through, URLs collapse to a globe, builtin icon names to their first rune.
func iconLabel(icon string) string {
	icon = strings.TrimSpace(icon)
	switch {
	case icon == "":
		return "•"
	case strings.HasPrefix(icon, "http://"), strings.HasPrefix(icon, "https://"):
		return "🌐"
	default:
		r := []rune(icon)
		if len(r) == 1 || r[0] > 0x2000 {
			// Single rune or already an emoji.
			return string(r[0])
		}
		return strings.ToUpper(string(r[0]))
	}
}
