package school

import (
	"net/http"
	"net/url"
	"path"

	"github.com/AkmalxonWeBd/education-platform/core/resource"
	"github.com/AkmalxonWeBd/education-platform/core/table"
)

// Tags
const (
	TagUser           resource.Tag = "User"
	TagGroups         resource.Tag = "Groups"
	TagLesson         resource.Tag = "Lesson"
	TagGrade          resource.Tag = "Grade"
	TagAttendance     resource.Tag = "Attendance"
	TagAttendances    resource.Tag = "Attendances"
	TagExams          resource.Tag = "Exams"
	TagTest           resource.Tag = "Test"
	TagTestResult     resource.Tag = "TestResult"
	TagVideoCourses   resource.Tag = "VideoCourses"
	TagCourse         resource.Tag = "Course"
	TagCourseProgress resource.Tag = "CourseProgress"
	TagChats          resource.Tag = "Chats"
)

// Collection is a REST collection of T: GET/POST on Path, GET/PUT/DELETE on Path/{id}.
// Every query provides Tag and every write invalidates it.
type Collection[T table.Record] struct {
	Path string
	Tag  resource.Tag
}

var (
	Users             = Collection[User]{Path: "users", Tag: TagUser}
	Groups            = Collection[Group]{Path: "groups", Tag: TagGroups}
	Lessons           = Collection[Lesson]{Path: "lessons", Tag: TagLesson}
	Grades            = Collection[Grade]{Path: "grades", Tag: TagGrade}
	AttendanceRecords = Collection[Attendance]{Path: "attendance", Tag: TagAttendance}
	CheckIns          = Collection[CheckIn]{Path: "attendances", Tag: TagAttendances}
	Exams             = Collection[Exam]{Path: "exams", Tag: TagExams}
	Tests             = Collection[Test]{Path: "tests", Tag: TagTest}
	TestResults       = Collection[TestResult]{Path: "tests/results", Tag: TagTestResult}
	VideoCourses      = Collection[VideoCourse]{Path: "video-courses", Tag: TagVideoCourses}
	Courses           = Collection[Course]{Path: "courses", Tag: TagCourse}
)

func (c Collection[T]) tags() []resource.Tag { return []resource.Tag{c.Tag} }

// ItemPath joins escaped segments below the collection path.
func (c Collection[T]) ItemPath(segments ...string) string {
	p := c.Path
	for _, s := range segments {
		p = path.Join(p, url.PathEscape(s))
	}
	return p
}

func (c Collection[T]) ListQuery(params resource.Params) resource.Query {
	return resource.Query{
		Resource: c.Path,
		Params:   params,
		Tags:     c.tags(),
		Decode:   resource.DecodeJSON[[]T](),
	}
}

func (c Collection[T]) ItemQuery(id string) resource.Query {
	return resource.Query{
		Resource: c.ItemPath(id),
		Tags:     c.tags(),
		Decode:   resource.DecodeJSON[T](),
	}
}

func (c Collection[T]) Create(body interface{}) resource.Mutation {
	return resource.Mutation{Method: http.MethodPost, Resource: c.Path, Body: body, Invalidates: c.tags()}
}

func (c Collection[T]) Update(id string, body interface{}) resource.Mutation {
	return resource.Mutation{Method: http.MethodPut, Resource: c.ItemPath(id), Body: body, Invalidates: c.tags()}
}

func (c Collection[T]) Delete(id string) resource.Mutation {
	return resource.Mutation{Method: http.MethodDelete, Resource: c.ItemPath(id), Invalidates: c.tags()}
}

// Action is a write on a sub-path of an item, eg. POST groups/{id}/students/{sid}.
func (c Collection[T]) Action(method string, body interface{}, segments ...string) resource.Mutation {
	return resource.Mutation{Method: method, Resource: c.ItemPath(segments...), Body: body, Invalidates: c.tags()}
}
