package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Styles used by Render.
type Styles struct {
	Border      lipgloss.Style
	Header      lipgloss.Style
	Cell        lipgloss.Style
	Selected    lipgloss.Style
	Placeholder lipgloss.Style
	Muted       lipgloss.Style
	Disabled    lipgloss.Style
}

// PlainStyles renders without colors or padding.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Border:      plain,
		Header:      plain,
		Cell:        plain,
		Selected:    plain,
		Placeholder: plain,
		Muted:       plain,
		Disabled:    plain,
	}
}

func DefaultStyles() Styles {
	muted := lipgloss.AdaptiveColor{Light: "240", Dark: "245"}
	return Styles{
		Border:      lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"}),
		Header:      lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Cell:        lipgloss.NewStyle().Padding(0, 1),
		Selected:    lipgloss.NewStyle().Padding(0, 1).Reverse(true),
		Placeholder: lipgloss.NewStyle().Foreground(muted).Padding(1, 0),
		Muted:       lipgloss.NewStyle().Foreground(muted),
		Disabled:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "252", Dark: "238"}),
	}
}

// Render draws v: an optional search line, the grid, and the pagination footer.
// selected is the index of the highlighted row on the page, -1 for none.
func Render[T Record](v View[T], s Styles, selected int) string {
	var b strings.Builder

	if v.Searchable {
		search := v.Search
		if search == "" {
			search = s.Muted.Render(v.Labels.Search)
		}
		b.WriteString("/ " + search + "\n")
	}

	rows := make([][]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		cells := r.Cells
		if v.HasActions {
			cells = append(append([]string(nil), cells...), actions(v))
		}
		rows = append(rows, cells)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		Headers(v.Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.Header
			case row == selected:
				return s.Selected
			default:
				return s.Cell
			}
		})
	if v.Empty {
		b.WriteString(placeholderGrid(t, v, s))
	} else {
		b.WriteString(t.String())
	}
	b.WriteString("\n")

	prev, next := "‹", "›"
	if v.PrevDisabled {
		prev = s.Disabled.Render(prev)
	}
	if v.NextDisabled {
		next = s.Disabled.Render(next)
	}
	b.WriteString(s.Muted.Render(v.Summary) + "  " + prev + " " + next)
	return b.String()
}

// placeholderGrid closes the header with one row spanning all v.ColSpan columns.
// lipgloss tables have no column spans, so the row is drawn as its own box.
func placeholderGrid[T Record](t *table.Table, v View[T], s Styles) string {
	t.BorderBottom(false)
	header := strings.TrimRight(t.String(), "\n")
	width := lipgloss.Width(header)
	if need := lipgloss.Width(v.Placeholder) + 2; need > width && v.ColSpan > 0 {
		headers := append([]string(nil), v.Headers[:v.ColSpan]...)
		headers[v.ColSpan-1] += strings.Repeat(" ", need-width)
		header = strings.TrimRight(t.Headers(headers...).String(), "\n")
		width = lipgloss.Width(header)
	}

	cell := s.Placeholder.Width(width - 2).Align(lipgloss.Center).Render(v.Placeholder)
	row := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, true, true).
		BorderForeground(s.Border.GetForeground()).
		Render(cell)
	return header + "\n" + row
}

func actions[T Record](v View[T]) string {
	var out []string
	if v.CanEdit {
		out = append(out, "["+v.Labels.Edit+"]")
	}
	if v.CanDelete {
		out = append(out, "["+v.Labels.Delete+"]")
	}
	return strings.Join(out, " ")
}
