package tui

import (
	"context"
	"strings"
	"time"

	"linkdeck/internal/model"
	"linkdeck/internal/store"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const reloadEvery = 2 * time.Second

func Run(s store.Store, db *store.DB, workspace string) error {
	m := newAppModel(s, db, workspace)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

type appModel struct {
	store     store.Store
	db        *store.DB
	workspace string

	tabs    []tab
	tabIdx  int
	list    list.Model
	moving  bool
	status  string
	errText string

	width  int
	height int

	fingerprint string
}

type tickMsg time.Time

type reloadedMsg struct {
	db          *store.DB
	fingerprint string
}

type movedMsg struct{ err error }

type deletedMsg struct {
	db  *store.DB
	err error
}

func newAppModel(s store.Store, db *store.DB, workspace string) *appModel {
	m := &appModel{
		store:       s,
		db:          db,
		workspace:   workspace,
		tabs:        tabsFor(db),
		list:        newAppList(),
		fingerprint: s.Fingerprint(),
	}
	m.refreshList("")
	return m
}

func (m *appModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(reloadEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *appModel) view() store.View {
	return store.ViewFor(m.tabs[m.tabIdx].id)
}

// refreshList rebuilds the visible rows for the active tab, keeping the
// selection on keepID when it is still visible.
func (m *appModel) refreshList(keepID string) {
	apps := m.db.AppsInView(m.view())
	m.list.SetItems(listItemsFor(apps))
	if keepID != "" {
		for i, a := range apps {
			if a.ID == keepID {
				m.list.Select(i)
				break
			}
		}
	}
	if m.list.Index() >= len(apps) && len(apps) > 0 {
		m.list.Select(len(apps) - 1)
	}
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tickMsg:
		if fp := m.store.Fingerprint(); fp != m.fingerprint {
			s := m.store
			return m, tea.Batch(tickCmd(), func() tea.Msg {
				db, err := s.Load()
				if err != nil {
					return movedMsg{err: err}
				}
				return reloadedMsg{db: db, fingerprint: fp}
			})
		}
		return m, tickCmd()

	case reloadedMsg:
		keep := selectedAppID(m.list)
		oldTabs := m.tabs
		cur := m.tabs[m.tabIdx].id
		m.db = msg.db
		m.fingerprint = msg.fingerprint
		m.tabs = tabsFor(m.db)
		next := redirectView(oldTabs, cur, m.db.HasCategory)
		m.tabIdx = tabIndex(m.tabs, next)
		m.refreshList(keep)
		return m, nil

	case movedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			// The persisted state is authoritative again on the next tick.
			m.fingerprint = ""
		}
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.db = msg.db
		m.fingerprint = m.store.Fingerprint()
		m.refreshList("")
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "tab", "right", "l":
			if !m.moving {
				m.tabIdx = cycleTab(len(m.tabs), m.tabIdx, 1)
				m.refreshList("")
				return m, nil
			}

		case "shift+tab", "left", "h":
			if !m.moving {
				m.tabIdx = cycleTab(len(m.tabs), m.tabIdx, -1)
				m.refreshList("")
				return m, nil
			}

		case "m":
			m.moving = !m.moving
			m.errText = ""
			return m, nil

		case "esc":
			if m.moving {
				m.moving = false
				return m, nil
			}

		case "j", "down":
			if m.moving {
				return m, m.moveSelected(1)
			}

		case "k", "up":
			if m.moving {
				return m, m.moveSelected(-1)
			}

		case "enter":
			if id := selectedAppID(m.list); id != "" {
				if a, ok := m.db.FindApp(id); ok {
					if err := openURL(a.URL); err != nil {
						m.errText = "open: " + err.Error()
					} else {
						m.status = "opened " + a.Name
					}
				}
			}
			return m, nil

		case "d":
			if id := selectedAppID(m.list); id != "" {
				s, work := m.store, m.db.Clone()
				return m, func() tea.Msg {
					err := s.DeleteApp(context.Background(), work, id)
					return deletedMsg{db: work, err: err}
				}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// moveSelected moves the selected app one slot within the active view:
// the UI applies the planned arrangement immediately and persists it in the
// background. A failed write surfaces as an error and the next reload wins.
func (m *appModel) moveSelected(delta int) tea.Cmd {
	apps := m.db.AppsInView(m.view())
	idx := m.list.Index()
	if idx < 0 || idx >= len(apps) {
		return nil
	}
	src := apps[idx].ID
	tgt, ok := neighborID(apps, idx, delta)
	if !ok {
		return nil
	}
	plan, ok := store.PlanMove(m.db, m.view(), src, tgt)
	if !ok {
		return nil
	}
	m.db = plan
	m.refreshList(src)

	s := m.store
	snapshot := append([]model.App(nil), plan.Apps...)
	return func() tea.Msg {
		err := s.SaveApps(context.Background(), snapshot)
		return movedMsg{err: err}
	}
}

func (m *appModel) View() string {
	var b strings.Builder

	title := styleTitle.Render("Linkdeck")
	if m.workspace != "" {
		title += styleStatus.Render("  (" + m.workspace + ")")
	}
	b.WriteString(title + "\n")

	var tabsRow []string
	for i, t := range m.tabs {
		if i == m.tabIdx {
			tabsRow = append(tabsRow, styleTabActive.Render(t.label))
		} else {
			tabsRow = append(tabsRow, styleTab.Render(t.label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabsRow...) + "\n")

	b.WriteString(m.list.View() + "\n")

	switch {
	case m.errText != "":
		b.WriteString(styleError.Render(m.errText))
	case m.moving:
		b.WriteString(styleMove.Render("move mode: j/k to reorder, esc to finish"))
	default:
		b.WriteString(styleStatus.Render("enter open • m move • d delete • / filter • tab switch • q quit"))
	}

	return b.String()
}
