package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/storage"
)

type browseScreen int

const (
	screenList browseScreen = iota
	screenDetail
)

// BrowseStore is the subset of storage the browser needs.
type BrowseStore interface {
	List(opts storage.ListOptions) ([]entry.Entry, error)
	Get(date string) (entry.Entry, error)
	Delete(date string) error
}

// BrowseConfig holds display settings for the browser.
type BrowseConfig struct {
	MaxWidth int // 0 = no limit
	Theme    Theme
}

// entryItem implements list.Item for an entry.
type entryItem struct {
	entry entry.Entry
}

func (i entryItem) Title() string {
	return i.entry.Date + "  " + i.entry.DisplayTitle()
}

func (i entryItem) Description() string {
	var parts []string
	if i.entry.Mood != "" {
		parts = append(parts, i.entry.Mood)
	}
	if len(i.entry.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(i.entry.Tags, " #"))
	}
	parts = append(parts, i.entry.Preview(60))
	return strings.Join(parts, " · ")
}

func (i entryItem) FilterValue() string {
	return strings.Join(append([]string{i.entry.Date, i.entry.Title, i.entry.Mood}, i.entry.Tags...), " ")
}

type browseModel struct {
	store    BrowseStore
	opts     storage.ListOptions
	cfg      BrowseConfig
	screen   browseScreen
	list     list.Model
	viewport viewport.Model
	entry    entry.Entry
	// Delete confirmation mode
	deleteActive bool
	status       string
	width        int
	height       int
	ready        bool
	quitting     bool
	err          error
}

func newBrowseModel(store BrowseStore, opts storage.ListOptions, cfg BrowseConfig) (browseModel, error) {
	m := browseModel{store: store, opts: opts, cfg: cfg}
	m.list = cfg.Theme.NewList(nil, 0, 0)
	m.list.Title = "Diary"
	m.list.SetShowHelp(false)
	if err := m.reload(); err != nil {
		return m, err
	}
	return m, nil
}

func (m *browseModel) reload() error {
	entries, err := m.store.List(m.opts)
	if err != nil {
		return err
	}
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e}
	}
	m.list.SetItems(items)
	return nil
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) quit(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.quitting = true
	return m, tea.Quit
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if m.deleteActive {
			return m.updateDeleteConfirm(msg)
		}
		// Let the filter input have every key while it is focused.
		if m.screen == screenList && m.list.FilterState() == list.Filtering {
			break
		}
		m.status = ""
		switch m.screen {
		case screenList:
			return m.updateList(msg)
		case screenDetail:
			return m.updateDetail(msg)
		}
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenList:
		m.list, cmd = m.list.Update(msg)
	case screenDetail:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m.quit(nil)
	case "enter":
		if item, ok := m.list.SelectedItem().(entryItem); ok {
			return m.openDetail(item.entry.Date)
		}
		return m, nil
	case "d":
		if item, ok := m.list.SelectedItem().(entryItem); ok {
			m.entry = item.entry
			m.deleteActive = true
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m.quit(nil)
	case "esc", "backspace":
		m.screen = screenList
		m.layout()
		return m, nil
	case "d":
		m.deleteActive = true
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m browseModel) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		m.deleteActive = false
		if err := m.store.Delete(m.entry.Date); err != nil {
			return m.quit(err)
		}
		m.status = fmt.Sprintf("Deleted entry for %s.", m.entry.Date)
		if err := m.reload(); err != nil {
			return m.quit(err)
		}
		m.screen = screenList
		m.layout()
	case "n", "esc":
		m.deleteActive = false
	}
	return m, nil
}

func (m browseModel) openDetail(date string) (tea.Model, tea.Cmd) {
	e, err := m.store.Get(date)
	if err != nil {
		return m.quit(err)
	}
	m.entry = e
	m.screen = screenDetail
	m.viewport = viewport.New(m.contentWidth(), m.detailHeight())
	m.viewport.SetContent(m.formatEntry())
	return m, nil
}

func (m browseModel) formatEntry() string {
	var b strings.Builder
	if m.entry.Mood != "" {
		fmt.Fprintf(&b, "Mood: %s\n", m.entry.Mood)
	}
	if len(m.entry.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(m.entry.Tags, ", "))
	}
	b.WriteString("\n")
	b.WriteString(RenderMarkdownWithStyle(m.entry.Body, m.contentWidth(), m.cfg.Theme.MarkdownStyle))
	return b.String()
}

// layout sizes the active sub-model; header and footer take three lines.
func (m *browseModel) layout() {
	if !m.ready {
		return
	}
	switch m.screen {
	case screenList:
		m.list.SetSize(m.contentWidth(), max(m.height-2, 1))
	case screenDetail:
		m.viewport.Width = m.contentWidth()
		m.viewport.Height = m.detailHeight()
		m.viewport.SetContent(m.formatEntry())
	}
}

func (m browseModel) detailHeight() int {
	return max(m.height-4, 1)
}

func (m browseModel) contentWidth() int {
	if m.cfg.MaxWidth > 0 && m.width > m.cfg.MaxWidth {
		return m.cfg.MaxWidth
	}
	return m.width
}

func (m browseModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	theme := m.cfg.Theme
	cw := m.contentWidth()
	var result string
	switch m.screen {
	case screenList:
		hint := "↑/↓ navigate • / filter • enter open • d delete • q quit"
		if m.status != "" {
			hint = m.status
		}
		result = m.list.View() + "\n" + theme.HelpStyle().Width(cw).Render(hint)
	case screenDetail:
		header := theme.HeaderStyle().Width(cw).Render(m.entry.Date + "  " + m.entry.DisplayTitle())
		meta := theme.HelpStyle().Width(cw).Render("Entry: " + m.entry.ID)
		footer := theme.HelpStyle().Width(cw).Render("↑/↓ scroll • d delete • esc back • q quit")
		result = header + "\n" + meta + "\n" + theme.ViewPaneStyle().Width(cw).Render(m.viewport.View()) + "\n" + footer
	}

	if m.deleteActive {
		prompt := fmt.Sprintf("Delete entry for %s? [y/N] ", m.entry.Date)
		result += "\n" + theme.DangerStyle().Width(cw).Render(prompt)
	}
	return theme.PaintScreen(result, m.width, m.height, cw)
}

// RunBrowse launches the full-screen entry browser. With no matching
// entries it prints a notice to w and returns.
func RunBrowse(w io.Writer, store BrowseStore, opts storage.ListOptions, cfg BrowseConfig) error {
	m, err := newBrowseModel(store, opts, cfg)
	if err != nil {
		return err
	}
	if len(m.list.Items()) == 0 {
		fmt.Fprintln(w, "No diary entries found.")
		return nil
	}

	result, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if bm, ok := result.(browseModel); ok && bm.err != nil {
		return bm.err
	}
	return nil
}
