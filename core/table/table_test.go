package table

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	ID    string
	Name  string
	Email string
	Age   int
	Born  time.Time
}

func (p person) RecordID() string { return p.ID }

var personColumns = []Column[person]{
	{Key: "name", Label: "Ismi", Value: func(p person) any { return p.Name }},
	{Key: "email", Label: "Email", Value: func(p person) any { return p.Email }},
	{Key: "age", Label: "Yosh", Value: func(p person) any { return p.Age }, Render: func(v any, _ person) string { return fmt.Sprintf("%d y", v) }},
}

func people(n int) []person {
	out := make([]person, n)
	for i := range out {
		out[i] = person{
			ID:    fmt.Sprint(i + 1),
			Name:  fmt.Sprintf("Person %02d", i+1),
			Email: fmt.Sprintf("p%d@school.uz", i+1),
			Age:   10 + i,
		}
	}
	return out
}

func ids(v View[person]) []string {
	out := make([]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		out = append(out, r.ID)
	}
	return out
}

func TestDerive_Pagination(t *testing.T) {
	data := people(25)
	opts := Options[person]{SearchKey: "name"}

	tests := []struct {
		name        string
		page        int
		wantPage    int
		wantFirst   string
		wantLast    string
		wantSummary string
		wantPrevOff bool
		wantNextOff bool
	}{
		{name: "first page", page: 0, wantPage: 0, wantFirst: "1", wantLast: "10", wantSummary: "1 - 10 / 25", wantPrevOff: true},
		{name: "middle page", page: 1, wantPage: 1, wantFirst: "11", wantLast: "20", wantSummary: "11 - 20 / 25"},
		{name: "last page", page: 2, wantPage: 2, wantFirst: "21", wantLast: "25", wantSummary: "21 - 25 / 25", wantNextOff: true},
		{name: "clamped high", page: 9, wantPage: 2, wantFirst: "21", wantLast: "25", wantSummary: "21 - 25 / 25", wantNextOff: true},
		{name: "clamped low", page: -3, wantPage: 0, wantFirst: "1", wantLast: "10", wantSummary: "1 - 10 / 25", wantPrevOff: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Derive(personColumns, data, State{Page: tt.page}, opts)
			got := ids(v)
			require.NotEmpty(t, got)
			if v.Page != tt.wantPage || got[0] != tt.wantFirst || got[len(got)-1] != tt.wantLast {
				t.Errorf("Derive() page = %d rows %s..%s, want %d rows %s..%s", v.Page, got[0], got[len(got)-1], tt.wantPage, tt.wantFirst, tt.wantLast)
			}
			assert.Equal(t, tt.wantSummary, v.Summary)
			assert.Equal(t, tt.wantPrevOff, v.PrevDisabled)
			assert.Equal(t, tt.wantNextOff, v.NextDisabled)
			assert.Equal(t, 3, v.TotalPages)
			assert.Equal(t, 25, v.Total)
		})
	}
}

func TestDerive_Cells(t *testing.T) {
	v := Derive(personColumns, people(1), State{}, Options[person]{})
	require.Len(t, v.Rows, 1)
	assert.Equal(t, []string{"Ismi", "Email", "Yosh"}, v.Headers)
	assert.Equal(t, []string{"Person 01", "p1@school.uz", "10 y"}, v.Rows[0].Cells)
	assert.False(t, v.HasActions)
	assert.False(t, v.Searchable)
}

func TestDerive_Actions(t *testing.T) {
	tests := []struct {
		name        string
		opts        Options[person]
		wantHeaders int
	}{
		{name: "none", wantHeaders: 3},
		{name: "edit", opts: Options[person]{OnEdit: func(person) {}}, wantHeaders: 4},
		{name: "delete", opts: Options[person]{OnDelete: func(person) {}}, wantHeaders: 4},
		{name: "both", opts: Options[person]{OnEdit: func(person) {}, OnDelete: func(person) {}}, wantHeaders: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Derive(personColumns, nil, State{}, tt.opts)
			assert.Len(t, v.Headers, tt.wantHeaders)
			assert.Equal(t, tt.wantHeaders > 3, v.HasActions)
			// the placeholder spans the actions column too
			assert.Equal(t, tt.wantHeaders, v.ColSpan)
		})
	}
}

func TestDerive_Empty(t *testing.T) {
	v := Derive(personColumns, nil, State{Page: 4}, Options[person]{})
	assert.True(t, v.Empty)
	assert.Equal(t, DefaultLabels.Placeholder, v.Placeholder)
	assert.Equal(t, 0, v.Page)
	assert.Equal(t, 0, v.TotalPages)
	assert.Equal(t, "0 element", v.Summary)
	assert.True(t, v.PrevDisabled)
	assert.True(t, v.NextDisabled)
	assert.Zero(t, v.Start)
	assert.Zero(t, v.End)

	v = Derive(personColumns, people(3), State{Search: "nobody"}, Options[person]{SearchKey: "name", Labels: Labels{Placeholder: "No data"}})
	assert.True(t, v.Empty)
	assert.Equal(t, "No data", v.Placeholder)
}

func TestFilter(t *testing.T) {
	data := []person{
		{ID: "1", Name: "Aziza Karimova"},
		{ID: "2", Name: "Bobur Aliyev"},
		{ID: "3", Name: "AZAMAT"},
		{ID: "4", Name: "Dilshod"},
	}
	name := func(p person) any { return p.Name }

	tests := []struct {
		name  string
		term  string
		field func(person) any
		want  []string
	}{
		{name: "empty term", term: "", field: name, want: []string{"1", "2", "3", "4"}},
		{name: "no field", term: "az", want: []string{"1", "2", "3", "4"}},
		{name: "case insensitive", term: "aZ", field: name, want: []string{"1", "3"}},
		{name: "substring", term: "liye", field: name, want: []string{"2"}},
		{name: "no match", term: "zz", field: name, want: []string{}},
		{name: "non string field", term: "3", field: func(p person) any { return p.ID }, want: []string{"3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(data, tt.term, tt.field)
			gotIDs := make([]string, 0, len(got))
			for _, p := range got {
				gotIDs = append(gotIDs, p.ID)
			}
			assert.Equal(t, tt.want, gotIDs)

			// filtering twice changes nothing
			assert.Equal(t, got, Filter(got, tt.term, tt.field))

			for _, p := range got {
				if tt.term != "" && tt.field != nil {
					assert.Contains(t, strings.ToLower(Stringify(tt.field(p))), strings.ToLower(tt.term))
				}
			}
		})
	}
}

func TestClampPage(t *testing.T) {
	for n := 0; n <= 31; n++ {
		for page := -2; page <= 5; page++ {
			got := ClampPage(page, n, 10)
			upper := 0
			if n > 0 {
				upper = (n+9)/10 - 1
			}
			if got < 0 || got > upper {
				t.Errorf("ClampPage(%d, %d, 10) = %d, want within [0, %d]", page, n, got, upper)
			}
		}
	}
}

func TestStringify(t *testing.T) {
	s := "ptr"
	tests := []struct {
		in   any
		want string
	}{
		{in: nil, want: ""},
		{in: "x", want: "x"},
		{in: &s, want: "ptr"},
		{in: (*string)(nil), want: ""},
		{in: 42, want: "42"},
		{in: true, want: "true"},
		{in: 4.5, want: "4.5"},
		{in: time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC), want: "2024-09-02"},
		{in: time.Time{}, want: ""},
		{in: []string{"a", "b"}, want: "a, b"},
	}
	for _, tt := range tests {
		if got := Stringify(tt.in); got != tt.want {
			t.Errorf("Stringify(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTable_State(t *testing.T) {
	var edited, deleted []string
	tbl := New(personColumns, Options[person]{
		SearchKey: "name",
		PageSize:  5,
		OnEdit:    func(p person) { edited = append(edited, p.ID) },
		OnDelete:  func(p person) { deleted = append(deleted, p.ID) },
	})
	tbl.SetData(people(12))

	assert.False(t, tbl.PrevPage())
	assert.True(t, tbl.NextPage())
	assert.True(t, tbl.NextPage())
	assert.False(t, tbl.NextPage())
	assert.Equal(t, 2, tbl.State().Page)
	assert.Equal(t, "11 - 12 / 12", tbl.View().Summary)

	// any search change goes back to page 0
	tbl.SetSearch("Person 1")
	assert.Equal(t, 0, tbl.State().Page)
	v := tbl.View()
	assert.Equal(t, []string{"10", "11", "12"}, ids(v))
	tbl.SetSearch("")
	assert.Equal(t, 0, tbl.State().Page)

	// shrinking data clamps the page
	tbl.SetPage(2)
	tbl.SetData(people(6))
	assert.Equal(t, 1, tbl.State().Page)
	tbl.SetData(nil)
	assert.Equal(t, 0, tbl.State().Page)

	tbl.SetData(people(3))
	require.NoError(t, tbl.Edit("2"))
	require.NoError(t, tbl.Delete("3"))
	assert.ErrorIs(t, tbl.Edit("99"), ErrNotFound)
	assert.Equal(t, []string{"2"}, edited)
	assert.Equal(t, []string{"3"}, deleted)

	readOnly := New(personColumns, Options[person]{})
	readOnly.SetData(people(1))
	assert.Equal(t, ErrNoAction, readOnly.Delete("1"))
}

func TestTable_ReachableStatesKeepPageInRange(t *testing.T) {
	tbl := New(personColumns, Options[person]{SearchKey: "name"})
	ops := []func(){
		func() { tbl.SetData(people(25)) },
		func() { tbl.NextPage() },
		func() { tbl.NextPage() },
		func() { tbl.NextPage() },
		func() { tbl.SetSearch("Person 2") },
		func() { tbl.NextPage() },
		func() { tbl.SetSearch("") },
		func() { tbl.SetPage(7) },
		func() { tbl.SetData(people(4)) },
		func() { tbl.PrevPage() },
		func() { tbl.SetSearch("zzz") },
		func() { tbl.NextPage() },
	}
	for i, op := range ops {
		op()
		v := tbl.View()
		upper := v.TotalPages - 1
		if upper < 0 {
			upper = 0
		}
		if st := tbl.State(); st.Page < 0 || st.Page > upper || st.Page != v.Page {
			t.Errorf("step %d: page = %d, view page %d, want within [0, %d]", i, st.Page, v.Page, upper)
		}
	}
}

func TestRender(t *testing.T) {
	v := Derive(personColumns, people(25), State{}, Options[person]{SearchKey: "name", OnEdit: func(person) {}})
	out := Render(v, PlainStyles(), 0)
	assert.Contains(t, out, "Ismi")
	assert.Contains(t, out, "Amallar")
	assert.Contains(t, out, "[Tahrir]")
	assert.Contains(t, out, "Person 10")
	assert.NotContains(t, out, "Person 11")
	assert.Contains(t, out, "1 - 10 / 25")
	assert.Contains(t, out, "Qidiring...")

	empty := Render(Derive(personColumns, nil, State{}, Options[person]{}), PlainStyles(), -1)
	assert.Contains(t, empty, "0 element")
	assert.NotContains(t, empty, "Qidiring")
}

func TestRender_EmptyRow(t *testing.T) {
	tests := []struct {
		name string
		opts Options[person]
	}{
		{name: "plain", opts: Options[person]{}},
		{name: "with actions", opts: Options[person]{OnEdit: func(person) {}, OnDelete: func(person) {}}},
		{name: "wide placeholder", opts: Options[person]{Labels: Labels{Placeholder: "Bu guruhda hali birorta ham o'quvchi yoki o'qituvchi yo'q"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Derive(personColumns, nil, State{}, tt.opts)
			out := Render(v, PlainStyles(), -1)
			lines := strings.Split(out, "\n")

			row := -1
			for i, l := range lines {
				if strings.Contains(l, v.Placeholder) {
					row = i
				}
			}
			require.NotEqual(t, -1, row, out)
			line := lines[row]
			assert.True(t, strings.HasPrefix(line, "│") && strings.HasSuffix(line, "│"), "placeholder outside the table:\n%s", out)
			assert.Equal(t, 2, strings.Count(line, "│"), "placeholder row is split into columns:\n%s", out)
			assert.Equal(t, lipgloss.Width(lines[0]), lipgloss.Width(line), "placeholder row does not span the header:\n%s", out)

			bottom := lines[len(lines)-2]
			assert.True(t, strings.HasPrefix(bottom, "└") && strings.HasSuffix(bottom, "┘"), "table not closed below the placeholder:\n%s", out)
			assert.NotContains(t, bottom, "┴")
			assert.Contains(t, lines[len(lines)-1], v.Summary)
		})
	}
}
