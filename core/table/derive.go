package table

import (
	"fmt"
	"strings"
)

// State is the UI state of a table. It is never persisted.
type State struct {
	Search string
	Page   int
}

type Row[T Record] struct {
	ID     string
	Record T
	Cells  []string
}

// View is the derived, render-ready state of a table.
type View[T Record] struct {
	Headers []string
	Rows    []Row[T]

	// Empty is set when the current page has no rows; the renderer then shows
	// Placeholder as a single row spanning ColSpan columns.
	Empty       bool
	Placeholder string
	ColSpan     int

	Searchable bool
	Search     string

	Page       int
	PageSize   int
	TotalPages int
	Total      int
	// Start and End are the 1-based inclusive bounds of the page, 0 when Total is 0.
	Start   int
	End     int
	Summary string

	PrevDisabled bool
	NextDisabled bool

	HasActions bool
	CanEdit    bool
	CanDelete  bool
	Labels     Labels
}

// Filter keeps the records whose field contains term, case-insensitively.
// An empty term or a nil field keeps everything.
func Filter[T Record](data []T, term string, field func(T) any) []T {
	if term == "" || field == nil {
		return data
	}
	needle := strings.ToLower(term)
	out := make([]T, 0, len(data))
	for _, r := range data {
		if strings.Contains(strings.ToLower(Stringify(field(r))), needle) {
			out = append(out, r)
		}
	}
	return out
}

// TotalPages is ceil(n / size).
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// ClampPage bounds page into [0, max(0, TotalPages(n, size)-1)].
func ClampPage(page, n, size int) int {
	last := TotalPages(n, size) - 1
	if page > last {
		page = last
	}
	if page < 0 {
		page = 0
	}
	return page
}

// Derive computes the view of data for the given state.
func Derive[T Record](cols []Column[T], data []T, state State, opts Options[T]) View[T] {
	size := opts.pageSize()
	labels := opts.labels()
	field := searchField(cols, opts)

	filtered := Filter(data, state.Search, field)
	total := len(filtered)
	page := ClampPage(state.Page, total, size)
	pages := TotalPages(total, size)

	v := View[T]{
		Searchable: field != nil,
		Search:     state.Search,
		Page:       page,
		PageSize:   size,
		TotalPages: pages,
		Total:      total,
		CanEdit:    opts.OnEdit != nil,
		CanDelete:  opts.OnDelete != nil,
		Labels:     labels,
	}
	v.HasActions = v.CanEdit || v.CanDelete

	v.Headers = make([]string, 0, len(cols)+1)
	for _, c := range cols {
		v.Headers = append(v.Headers, c.Label)
	}
	if v.HasActions {
		v.Headers = append(v.Headers, labels.Actions)
	}

	if total > 0 {
		v.Start = page*size + 1
		v.End = min((page+1)*size, total)
		v.Summary = fmt.Sprintf("%d - %d / %d", v.Start, v.End, total)
		for _, r := range filtered[v.Start-1 : v.End] {
			row := Row[T]{ID: r.RecordID(), Record: r, Cells: make([]string, 0, len(cols))}
			for _, c := range cols {
				row.Cells = append(row.Cells, c.cell(r))
			}
			v.Rows = append(v.Rows, row)
		}
	} else {
		v.Summary = labels.Empty
	}

	v.Empty = len(v.Rows) == 0
	if v.Empty {
		v.Placeholder = labels.Placeholder
		v.ColSpan = len(v.Headers)
	}
	v.PrevDisabled = page == 0
	v.NextDisabled = page >= pages-1
	return v
}
