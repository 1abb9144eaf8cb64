// Package table provides a searchable, paginated view over an in-memory collection.
//
// Derive is the pure core: it maps (columns, data, state) to everything a renderer needs.
// Table keeps the search term and page between calls, and Render draws a View as text.
package table

import (
	"fmt"
	"strings"
	"time"
)

const DefaultPageSize = 10

// Record is a row the table can display. The id must be unique within a collection.
type Record interface {
	RecordID() string
}

// Column describes one displayed field of T.
type Column[T Record] struct {
	Key   string
	Label string
	// Value extracts the raw field value from a row.
	Value func(T) any
	// Render formats the value for display. Stringify is used when nil.
	Render func(value any, row T) string
}

func (c Column[T]) value(row T) any {
	if c.Value == nil {
		return nil
	}
	return c.Value(row)
}

func (c Column[T]) cell(row T) string {
	v := c.value(row)
	if c.Render != nil {
		return c.Render(v, row)
	}
	return Stringify(v)
}

// Stringify formats a field value the way cells and search see it.
func Stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format("2006-01-02")
	case fmt.Stringer:
		return v.String()
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprint(v)
	}
}

type Labels struct {
	Placeholder string
	Actions     string
	Edit        string
	Delete      string
	Search      string
	Empty       string
}

// DefaultLabels are the dashboard's Uzbek UI strings.
var DefaultLabels = Labels{
	Placeholder: "Ma'lumot topilmadi",
	Actions:     "Amallar",
	Edit:        "Tahrir",
	Delete:      "O'chirish",
	Search:      "Qidiring...",
	Empty:       "0 element",
}

type Options[T Record] struct {
	// PageSize defaults to DefaultPageSize.
	PageSize int
	// SearchKey is the Key of the column free-text search matches against.
	// Search is disabled when it is empty.
	SearchKey string
	// SearchValue overrides the column lookup, eg. to search a field that is not displayed.
	SearchValue func(T) any

	OnEdit   func(T)
	OnDelete func(T)

	Labels Labels
}

func (o Options[T]) pageSize() int {
	if o.PageSize <= 0 {
		return DefaultPageSize
	}
	return o.PageSize
}

func (o Options[T]) labels() Labels {
	l := o.Labels
	d := DefaultLabels
	if l.Placeholder == "" {
		l.Placeholder = d.Placeholder
	}
	if l.Actions == "" {
		l.Actions = d.Actions
	}
	if l.Edit == "" {
		l.Edit = d.Edit
	}
	if l.Delete == "" {
		l.Delete = d.Delete
	}
	if l.Search == "" {
		l.Search = d.Search
	}
	if l.Empty == "" {
		l.Empty = d.Empty
	}
	return l
}

// searchField resolves the accessor used by search, nil when search is disabled.
func searchField[T Record](cols []Column[T], opts Options[T]) func(T) any {
	if opts.SearchValue != nil {
		return opts.SearchValue
	}
	if opts.SearchKey == "" {
		return nil
	}
	for _, c := range cols {
		if c.Key == opts.SearchKey {
			return c.value
		}
	}
	return nil
}
