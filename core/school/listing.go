package school

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/AkmalxonWeBd/education-platform/core/resource"
	"github.com/AkmalxonWeBd/education-platform/core/table"
)

var (
	ErrUnknownListing = errors.New("unknown resource")
	ErrUnsupported    = errors.New("operation not supported by this resource")
)

// Grid is a table over one listing whose row type is hidden from the caller.
type Grid interface {
	// Load replaces the rows with the data of a list snapshot.
	Load(resource.Snapshot) error
	SetSearch(term string)
	SetPage(page int)
	NextPage() bool
	PrevPage() bool
	State() table.State
	// RowID returns the id of the i-th row of the current page.
	RowID(i int) (string, bool)
	// Rows is the number of rows on the current page.
	Rows() int
	Render(styles table.Styles, selected int) string
	// CanDelete reports whether rows carry a delete action.
	CanDelete() bool
	// Delete hands the row with id to GridOptions.OnDelete.
	Delete(id string) error
}

type grid[T table.Record] struct {
	*table.Table[T]
}

func (g grid[T]) Load(snap resource.Snapshot) error {
	data, err := resource.As[[]T](snap)
	if err != nil {
		return err
	}
	g.SetData(data)
	return nil
}

func (g grid[T]) RowID(i int) (string, bool) {
	rows := g.View().Rows
	if i < 0 || i >= len(rows) {
		return "", false
	}
	return rows[i].ID, true
}

func (g grid[T]) Rows() int { return len(g.View().Rows) }

func (g grid[T]) Render(styles table.Styles, selected int) string {
	return table.Render(g.View(), styles, selected)
}

func (g grid[T]) CanDelete() bool { return g.View().CanDelete }

type (
	createFunc func(svc *Service, ctx context.Context, raw []byte) (interface{}, error)
	updateFunc func(svc *Service, ctx context.Context, id string, raw []byte) (interface{}, error)
	deleteFunc func(svc *Service, ctx context.Context, id string) error
)

// Listing binds a resource name to its list query, columns and generic write operations.
type Listing struct {
	Name    string
	Filters []string

	query   func(resource.Params) resource.Query
	newGrid func(opts GridOptions) Grid
	create  createFunc
	update  updateFunc
	remove  deleteFunc
}

type GridOptions struct {
	PageSize int
	// OnDelete receives the id of a row the user chose to delete.
	// Rows get a delete button only when it is set and the listing can delete.
	OnDelete func(id string)
}

func newListing[T table.Record](name string, col Collection[T], cols []table.Column[T], searchKey string, filters ...string) Listing {
	return Listing{
		Name:    name,
		Filters: filters,
		query:   col.ListQuery,
		newGrid: func(opts GridOptions) Grid {
			o := table.Options[T]{PageSize: opts.PageSize, SearchKey: searchKey}
			if del := opts.OnDelete; del != nil {
				o.OnDelete = func(r T) { del(r.RecordID()) }
			}
			return grid[T]{table.New(cols, o)}
		},
	}
}

func (l Listing) creates(fn createFunc) Listing { l.create = fn; return l }
func (l Listing) updates(fn updateFunc) Listing { l.update = fn; return l }
func (l Listing) deletes(fn deleteFunc) Listing { l.remove = fn; return l }

// Query builds the list query, rejecting unknown filters.
func (l Listing) Query(params resource.Params) (resource.Query, error) {
	for k := range params {
		if !l.hasFilter(k) {
			return resource.Query{}, errors.Errorf("%s: unknown filter %q (accepted: %s)", l.Name, k, strings.Join(l.Filters, ", "))
		}
	}
	return l.query(params), nil
}

func (l Listing) hasFilter(key string) bool {
	for _, f := range l.Filters {
		if f == key {
			return true
		}
	}
	return false
}

func (l Listing) NewGrid(opts GridOptions) Grid {
	if l.remove == nil {
		opts.OnDelete = nil
	}
	return l.newGrid(opts)
}

func (l Listing) CanCreate() bool { return l.create != nil }
func (l Listing) CanUpdate() bool { return l.update != nil }
func (l Listing) CanDelete() bool { return l.remove != nil }

// Create decodes raw into the resource's input payload and sends it.
func (l Listing) Create(ctx context.Context, svc *Service, raw []byte) (interface{}, error) {
	if l.create == nil {
		return nil, errors.Wrapf(ErrUnsupported, "create %s", l.Name)
	}
	return l.create(svc, ctx, raw)
}

func (l Listing) Update(ctx context.Context, svc *Service, id string, raw []byte) (interface{}, error) {
	if l.update == nil {
		return nil, errors.Wrapf(ErrUnsupported, "update %s", l.Name)
	}
	return l.update(svc, ctx, id, raw)
}

func (l Listing) Delete(ctx context.Context, svc *Service, id string) error {
	if l.remove == nil {
		return errors.Wrapf(ErrUnsupported, "delete %s", l.Name)
	}
	return l.remove(svc, ctx, id)
}

// decodeInput decodes raw strictly: unknown fields are an error.
func decodeInput[In any](raw []byte) (In, error) {
	var in In
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return in, errors.Wrap(err, "decoding input")
	}
	return in, nil
}

func creator[In, T any](fn func(*Service, context.Context, In) (T, error)) createFunc {
	return func(svc *Service, ctx context.Context, raw []byte) (interface{}, error) {
		in, err := decodeInput[In](raw)
		if err != nil {
			return nil, err
		}
		return fn(svc, ctx, in)
	}
}

func updater[In, T any](fn func(*Service, context.Context, string, In) (T, error)) updateFunc {
	return func(svc *Service, ctx context.Context, id string, raw []byte) (interface{}, error) {
		in, err := decodeInput[In](raw)
		if err != nil {
			return nil, err
		}
		return fn(svc, ctx, id, in)
	}
}

func setCheckInStatus(s *Service, ctx context.Context, id string, in checkInStatus) (CheckIn, error) {
	return s.SetCheckInStatus(ctx, id, in.Status)
}

var listings = map[string]Listing{}

func register(l Listing) {
	listings[l.Name] = l
}

func init() {
	register(newListing("users", Users, UserColumns, "name", "role", "school_id", "group_id").
		creates(creator((*Service).CreateUser)).
		updates(updater((*Service).UpdateUser)).
		deletes((*Service).DeleteUser))
	register(newListing("groups", Groups, GroupColumns, "name").
		creates(creator((*Service).CreateGroup)).
		updates(updater((*Service).UpdateGroup)).
		deletes((*Service).DeleteGroup))
	register(newListing("lessons", Lessons, LessonColumns, "title", "groupId", "teacherId").
		creates(creator((*Service).CreateLesson)).
		updates(updater((*Service).UpdateLesson)).
		deletes((*Service).DeleteLesson))
	register(newListing("grades", Grades, GradeColumns, "studentId", "studentId", "lessonId").
		creates(creator((*Service).CreateGrade)).
		updates(updater((*Service).UpdateGrade)).
		deletes((*Service).DeleteGrade))
	register(newListing("attendance", AttendanceRecords, AttendanceColumns, "studentId", "studentId", "date").
		creates(creator((*Service).RecordAttendance)))
	register(newListing("attendances", CheckIns, CheckInColumns, "student_id").
		creates(creator((*Service).CreateCheckIn)).
		updates(updater(setCheckInStatus)))
	register(newListing("exams", Exams, ExamColumns, "name").
		creates(creator((*Service).CreateExam)))
	register(newListing("tests", Tests, TestColumns, "title", "groupId").
		creates(creator((*Service).CreateTest)).
		updates(updater((*Service).UpdateTest)).
		deletes((*Service).DeleteTest))
	register(newListing("test-results", TestResults, TestResultColumns, "studentId", "testId", "studentId").
		creates(creator((*Service).SubmitTestResult)))
	register(newListing("video-courses", VideoCourses, VideoCourseColumns, "title").
		creates(creator((*Service).CreateVideoCourse)).
		updates(updater((*Service).UpdateVideoCourse)).
		deletes((*Service).DeleteVideoCourse))
	register(newListing("courses", Courses, CourseColumns, "title").
		creates(creator((*Service).CreateCourse)))
}

// LookupListing returns the listing registered under name.
func LookupListing(name string) (Listing, error) {
	l, ok := listings[name]
	if !ok {
		return Listing{}, errors.Wrapf(ErrUnknownListing, "%q (known: %s)", name, strings.Join(ListingNames(), ", "))
	}
	return l, nil
}

func ListingNames() []string {
	names := make([]string, 0, len(listings))
	for name := range listings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
