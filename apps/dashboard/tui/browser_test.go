package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/AkmalxonWeBd/education-platform/core/resource"
	"github.com/AkmalxonWeBd/education-platform/core/school"
	"github.com/AkmalxonWeBd/education-platform/core/table"
)

func users(n int) []school.User {
	out := make([]school.User, n)
	for i := range out {
		out[i] = school.User{ID: fmt.Sprintf("u%02d", i), Name: fmt.Sprintf("User %02d", i), Email: fmt.Sprintf("u%02d@school.uz", i)}
	}
	return out
}

func newBrowser(t *testing.T, del func(string)) (Browser, *int) {
	t.Helper()
	listing, err := school.LookupListing("users")
	if err != nil {
		t.Fatalf("LookupListing() error = %v", err)
	}
	refreshes := new(int)
	b := New(Options{
		Title:   "users",
		Grid:    listing.NewGrid(school.GridOptions{PageSize: 10, OnDelete: del}),
		Refresh: func() { *refreshes++ },
		Styles:  table.PlainStyles(),
	})
	return b, refreshes
}

func update(t *testing.T, b Browser, msgs ...tea.Msg) (Browser, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var m tea.Model
		m, cmd = b.Update(msg)
		b = m.(Browser)
	}
	return b, cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func fulfilled(data []school.User) SnapshotMsg {
	return SnapshotMsg(resource.Snapshot{Key: "users", Status: resource.StatusFulfilled, Data: data})
}

func TestBrowser_LoadingThenData(t *testing.T) {
	b, _ := newBrowser(t, nil)

	b, _ = update(t, b, SnapshotMsg(resource.Snapshot{Key: "users", Status: resource.StatusPending, Fetching: true}))
	if !strings.Contains(b.View(), "loading...") {
		t.Errorf("View() = %q, want loading line", b.View())
	}

	b, _ = update(t, b, fulfilled(users(3)))
	view := b.View()
	if strings.Contains(view, "loading...") {
		t.Errorf("View() still loading: %q", view)
	}
	if !strings.Contains(view, "u02@school.uz") {
		t.Errorf("View() = %q, want rows", view)
	}
}

func TestBrowser_RejectedShowsError(t *testing.T) {
	b, _ := newBrowser(t, nil)
	b, _ = update(t, b, SnapshotMsg(resource.Snapshot{Key: "users", Status: resource.StatusRejected, Err: errors.New("401 user not authenticated")}))
	if !strings.Contains(b.View(), "error: 401 user not authenticated") {
		t.Errorf("View() = %q, want error line", b.View())
	}
}

func TestBrowser_Navigation(t *testing.T) {
	b, _ := newBrowser(t, nil)
	b, _ = update(t, b, fulfilled(users(25)))

	tests := []struct {
		name         string
		keys         []tea.Msg
		wantPage     int
		wantSelected int
	}{
		{name: "down twice", keys: []tea.Msg{runes("j"), runes("j")}, wantSelected: 2},
		{name: "up at top stays", keys: []tea.Msg{runes("k")}, wantSelected: 0},
		{name: "next page resets selection", keys: []tea.Msg{runes("j"), runes("l")}, wantPage: 1},
		{name: "next past last page", keys: []tea.Msg{runes("l"), runes("l"), runes("l")}, wantPage: 2},
		{name: "prev on first page", keys: []tea.Msg{runes("j"), runes("h")}, wantSelected: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b.grid.SetPage(0)
			b.selected = 0
			got, _ := update(t, b, tt.keys...)
			if page := got.grid.State().Page; page != tt.wantPage {
				t.Errorf("page = %d, want %d", page, tt.wantPage)
			}
			if got.selected != tt.wantSelected {
				t.Errorf("selected = %d, want %d", got.selected, tt.wantSelected)
			}
		})
	}
}

func TestBrowser_Search(t *testing.T) {
	b, _ := newBrowser(t, nil)
	b, _ = update(t, b, fulfilled(users(25)), runes("l"))

	b, _ = update(t, b, runes("/"))
	if b.mode != modeSearch {
		t.Fatalf("mode = %d, want modeSearch", b.mode)
	}
	b, _ = update(t, b, runes("2"), runes("4"))
	if page := b.grid.State().Page; page != 0 {
		t.Errorf("page = %d, want 0 after typing", page)
	}
	if n := b.grid.Rows(); n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}

	b, _ = update(t, b, tea.KeyMsg{Type: tea.KeyEnter})
	if b.mode != modeBrowse || b.grid.State().Search != "24" {
		t.Errorf("after enter: mode = %d, search = %q", b.mode, b.grid.State().Search)
	}

	b, _ = update(t, b, runes("/"), tea.KeyMsg{Type: tea.KeyEsc})
	if s := b.grid.State().Search; s != "" {
		t.Errorf("search = %q, want cleared", s)
	}
}

func TestBrowser_Refresh(t *testing.T) {
	b, refreshes := newBrowser(t, nil)
	update(t, b, runes("r"))
	if *refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", *refreshes)
	}
}

func TestBrowser_Delete(t *testing.T) {
	var deleted []string
	b, _ := newBrowser(t, func(id string) { deleted = append(deleted, id) })
	b, _ = update(t, b, fulfilled(users(3)))
	if !strings.Contains(b.View(), "["+table.DefaultLabels.Delete+"]") {
		t.Errorf("View() = %q, want delete buttons", b.View())
	}

	b, _ = update(t, b, runes("d"))
	if b.mode != modeConfirm || b.pending != "u00" {
		t.Fatalf("mode = %d, pending = %q", b.mode, b.pending)
	}
	b, _ = update(t, b, runes("n"))
	if b.mode != modeBrowse || len(deleted) != 0 {
		t.Fatalf("cancel: mode = %d, deleted = %v", b.mode, deleted)
	}

	b, _ = update(t, b, runes("d"), runes("y"))
	if len(deleted) != 1 || deleted[0] != "u00" {
		t.Fatalf("deleted = %v, want [u00]", deleted)
	}
	if !strings.Contains(b.View(), "deleting u00...") {
		t.Errorf("View() = %q, want progress notice", b.View())
	}
	b, _ = update(t, b, DeletedMsg{ID: "u00"})
	if !strings.Contains(b.View(), "u00 deleted") {
		t.Errorf("View() = %q, want notice", b.View())
	}

	b, _ = update(t, b, runes("j"), runes("d"), runes("y"))
	if len(deleted) != 2 || deleted[1] != "u01" {
		t.Fatalf("deleted = %v, want [u00 u01]", deleted)
	}
	b, _ = update(t, b, DeletedMsg{ID: "u01", Err: errors.New("403 permission denied")})
	if !strings.Contains(b.View(), "403 permission denied") {
		t.Errorf("View() = %q, want error", b.View())
	}
}

func TestBrowser_DeleteUnknownRow(t *testing.T) {
	var deleted []string
	b, _ := newBrowser(t, func(id string) { deleted = append(deleted, id) })
	b, _ = update(t, b, fulfilled(users(1)), runes("d"))
	b.pending = "gone"
	b, _ = update(t, b, runes("y"))
	if len(deleted) != 0 {
		t.Errorf("deleted = %v, want none", deleted)
	}
	if !strings.Contains(b.View(), "error: ") {
		t.Errorf("View() = %q, want error line", b.View())
	}
}

func TestBrowser_DeleteDisabled(t *testing.T) {
	b, _ := newBrowser(t, nil)
	b, _ = update(t, b, fulfilled(users(1)), runes("d"))
	if b.mode != modeBrowse {
		t.Errorf("mode = %d, want modeBrowse", b.mode)
	}
	if !strings.Contains(b.View(), "cannot be deleted") {
		t.Errorf("View() = %q, want notice", b.View())
	}
}

func TestBrowser_SelectionClampedWhenRowsShrink(t *testing.T) {
	b, _ := newBrowser(t, nil)
	b, _ = update(t, b, fulfilled(users(5)), runes("j"), runes("j"), runes("j"), runes("j"))
	if b.selected != 4 {
		t.Fatalf("selected = %d, want 4", b.selected)
	}
	b, _ = update(t, b, fulfilled(users(2)))
	if b.selected != 1 {
		t.Errorf("selected = %d, want 1", b.selected)
	}
}

func TestBrowser_Quit(t *testing.T) {
	b, _ := newBrowser(t, nil)
	_, cmd := update(t, b, runes("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q command produced %T, want tea.QuitMsg", cmd())
	}
}
