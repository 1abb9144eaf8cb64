// Package tui implements the interactive table browser of the dashboard.
// The browser never fetches by itself: snapshots of the watched list are fed to it
// as SnapshotMsg, refreshes go through Options and deletions through the grid.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AkmalxonWeBd/education-platform/core/resource"
	"github.com/AkmalxonWeBd/education-platform/core/school"
	"github.com/AkmalxonWeBd/education-platform/core/table"
)

// SnapshotMsg carries a new state of the browsed list.
type SnapshotMsg resource.Snapshot

// DeletedMsg reports the outcome of a deletion started through the grid.
type DeletedMsg struct {
	ID  string
	Err error
}

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeConfirm
)

type Options struct {
	Title   string
	Grid    school.Grid
	// Refresh asks for the list to be fetched again.
	Refresh func()
	Styles  table.Styles
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "3", Dark: "11"})
)

type Browser struct {
	opts     Options
	grid     school.Grid
	status   resource.Status
	fetching bool
	err      error
	notice   string
	loaded   bool

	mode     mode
	selected int
	pending  string // id awaiting delete confirmation

	input   textinput.Model
	help    help.Model
	keys    browseKeys
	search  searchKeys
	confirm confirmKeys
	width   int
}

func New(opts Options) Browser {
	input := textinput.New()
	input.Placeholder = table.DefaultLabels.Search
	input.Prompt = "/ "

	return Browser{
		opts:    opts,
		grid:    opts.Grid,
		input:   input,
		help:    help.New(),
		keys:    BrowseKeyMap(),
		search:  SearchKeyMap(),
		confirm: ConfirmKeyMap(),
	}
}

func (b Browser) Init() tea.Cmd { return nil }

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.help.Width = msg.Width
		return b, nil
	case SnapshotMsg:
		return b.handleSnapshot(resource.Snapshot(msg)), nil
	case DeletedMsg:
		if msg.Err != nil {
			b.err = msg.Err
		} else {
			b.err = nil
			b.notice = fmt.Sprintf("%s deleted", msg.ID)
		}
		return b, nil
	case tea.KeyMsg:
		switch b.mode {
		case modeSearch:
			return b.handleSearchKey(msg)
		case modeConfirm:
			return b.handleConfirmKey(msg)
		default:
			return b.handleKey(msg)
		}
	}
	return b, nil
}

func (b Browser) handleSnapshot(snap resource.Snapshot) Browser {
	b.status = snap.Status
	b.fetching = snap.Fetching
	b.err = snap.Err
	if snap.Data != nil || snap.Status == resource.StatusFulfilled {
		if err := b.grid.Load(snap); err != nil {
			b.err = err
		} else {
			b.loaded = true
		}
	}
	b.clampSelection()
	return b
}

func (b Browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b.notice = ""
	switch {
	case key.Matches(msg, b.keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, b.keys.Up):
		if b.selected > 0 {
			b.selected--
		}
	case key.Matches(msg, b.keys.Down):
		if b.selected < b.grid.Rows()-1 {
			b.selected++
		}
	case key.Matches(msg, b.keys.Prev):
		if b.grid.PrevPage() {
			b.selected = 0
		}
	case key.Matches(msg, b.keys.Next):
		if b.grid.NextPage() {
			b.selected = 0
		}
	case key.Matches(msg, b.keys.Search):
		b.mode = modeSearch
		return b, b.input.Focus()
	case key.Matches(msg, b.keys.Refresh):
		if b.opts.Refresh != nil {
			b.opts.Refresh()
		}
	case key.Matches(msg, b.keys.Delete):
		if !b.grid.CanDelete() {
			b.notice = "this resource cannot be deleted"
			break
		}
		if id, ok := b.grid.RowID(b.selected); ok {
			b.pending = id
			b.mode = modeConfirm
		}
	}
	return b, nil
}

func (b Browser) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.search.Done):
		b.mode = modeBrowse
		b.input.Blur()
		return b, nil
	case key.Matches(msg, b.search.Cancel):
		b.mode = modeBrowse
		b.input.Blur()
		b.input.SetValue("")
		b.grid.SetSearch("")
		b.selected = 0
		return b, nil
	}

	var cmd tea.Cmd
	before := b.input.Value()
	b.input, cmd = b.input.Update(msg)
	if v := b.input.Value(); v != before {
		b.grid.SetSearch(v)
		b.selected = 0
	}
	return b, cmd
}

func (b Browser) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.confirm.Yes):
		id := b.pending
		b.mode, b.pending = modeBrowse, ""
		if err := b.grid.Delete(id); err != nil {
			b.err = err
		} else {
			b.notice = fmt.Sprintf("deleting %s...", id)
		}
	case key.Matches(msg, b.confirm.No):
		b.mode, b.pending = modeBrowse, ""
	}
	return b, nil
}

func (b *Browser) clampSelection() {
	if n := b.grid.Rows(); b.selected >= n {
		b.selected = n - 1
	}
	if b.selected < 0 {
		b.selected = 0
	}
}

func (b Browser) statusLine() string {
	switch {
	case b.err != nil:
		return errorStyle.Render("error: " + b.err.Error())
	case b.notice != "":
		return mutedStyle.Render(b.notice)
	case b.fetching || (b.status == resource.StatusPending && !b.loaded):
		return mutedStyle.Render("loading...")
	}
	return ""
}

func (b Browser) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(b.opts.Title))
	if b.fetching && b.loaded {
		s.WriteString(mutedStyle.Render("  ↻"))
	}
	s.WriteString("\n\n")

	if b.mode == modeSearch {
		s.WriteString(b.input.View() + "\n")
	}
	selected := b.selected
	if b.grid.Rows() == 0 {
		selected = -1
	}
	s.WriteString(b.grid.Render(b.opts.Styles, selected))
	s.WriteString("\n")

	if line := b.statusLine(); line != "" {
		s.WriteString(line + "\n")
	}

	switch b.mode {
	case modeConfirm:
		s.WriteString(promptStyle.Render(fmt.Sprintf("Delete %s?", b.pending)) + "  ")
		s.WriteString(b.help.View(b.confirm))
	case modeSearch:
		s.WriteString(b.help.View(b.search))
	default:
		s.WriteString(b.help.View(b.keys))
	}
	return s.String()
}
