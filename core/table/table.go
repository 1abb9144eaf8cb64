package table

import "github.com/pkg/errors"

var (
	ErrNotFound = errors.New("record not found")
	ErrNoAction = errors.New("action not available")
)

// Table keeps the search term and page of a Derive view across data changes.
// It is not safe for concurrent use.
type Table[T Record] struct {
	cols  []Column[T]
	opts  Options[T]
	data  []T
	state State
}

func New[T Record](cols []Column[T], opts Options[T]) *Table[T] {
	return &Table[T]{cols: cols, opts: opts}
}

// SetData replaces the collection. The page is clamped, the search term kept.
func (t *Table[T]) SetData(data []T) {
	t.data = data
	t.clamp()
}

func (t *Table[T]) Data() []T { return t.data }

func (t *Table[T]) State() State { return t.state }

// SetSearch changes the search term and goes back to the first page.
func (t *Table[T]) SetSearch(term string) {
	t.state.Search = term
	t.state.Page = 0
}

func (t *Table[T]) SetPage(page int) {
	t.state.Page = page
	t.clamp()
}

// NextPage moves forward unless on the last page; it reports whether the page changed.
func (t *Table[T]) NextPage() bool {
	before := t.state.Page
	t.SetPage(before + 1)
	return t.state.Page != before
}

func (t *Table[T]) PrevPage() bool {
	before := t.state.Page
	t.SetPage(before - 1)
	return t.state.Page != before
}

func (t *Table[T]) View() View[T] {
	return Derive(t.cols, t.data, t.state, t.opts)
}

// Find looks a record up by id in the whole collection.
func (t *Table[T]) Find(id string) (T, bool) {
	for _, r := range t.data {
		if r.RecordID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

func (t *Table[T]) Edit(id string) error {
	return t.act(id, t.opts.OnEdit)
}

func (t *Table[T]) Delete(id string) error {
	return t.act(id, t.opts.OnDelete)
}

func (t *Table[T]) act(id string, fn func(T)) error {
	if fn == nil {
		return ErrNoAction
	}
	r, ok := t.Find(id)
	if !ok {
		return errors.Wrap(ErrNotFound, id)
	}
	fn(r)
	return nil
}

func (t *Table[T]) clamp() {
	n := len(Filter(t.data, t.state.Search, searchField(t.cols, t.opts)))
	t.state.Page = ClampPage(t.state.Page, n, t.opts.pageSize())
}
