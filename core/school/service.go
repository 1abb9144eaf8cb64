package school

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/AkmalxonWeBd/education-platform/core"
	"github.com/AkmalxonWeBd/education-platform/core/resource"
	"github.com/AkmalxonWeBd/education-platform/core/session"
	"github.com/AkmalxonWeBd/education-platform/core/table"
)

var ErrNotAuthenticated = errors.New("not logged in")

// Service is the typed API of the dashboard over the resource cache.
type Service struct {
	cache    *resource.Client
	store    session.Store
	validate *validator.Validate
	trans    ut.Translator
	logger   core.Logger
	now      func() time.Time
}

func NewService(cache *resource.Client, store session.Store, logger core.Logger) *Service {
	if logger == nil {
		logger = core.NopLogger{}
	}
	validate, trans := NewValidator()
	return &Service{
		cache:    cache,
		store:    store,
		validate: validate,
		trans:    trans,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) Cache() *resource.Client { return s.cache }

// Validate checks in against its `validate` tags, returning a *core.ValidationError.
func (s *Service) Validate(in interface{}) error {
	return core.ValidateStruct(s.validate, s.trans, in)
}

func list[T table.Record](ctx context.Context, s *Service, col Collection[T], params resource.Params) ([]T, error) {
	return resource.Fetch[[]T](ctx, s.cache, col.ListQuery(params))
}

func get[T table.Record](ctx context.Context, s *Service, col Collection[T], id string) (T, error) {
	return resource.Fetch[T](ctx, s.cache, col.ItemQuery(id))
}

// write validates in, when given, and sends m. Nothing is sent when validation fails.
func write[T any](ctx context.Context, s *Service, in interface{}, m resource.Mutation) (T, error) {
	if in != nil {
		if err := s.Validate(in); err != nil {
			var zero T
			return zero, err
		}
	}
	return resource.Exec[T](ctx, s.cache, m)
}

func discard(_ struct{}, err error) error { return err }

// Users

type UserFilter struct {
	Role     string
	SchoolID string
	GroupID  string
}

func (f UserFilter) Params() resource.Params {
	return resource.Params{"role": f.Role, "school_id": f.SchoolID, "group_id": f.GroupID}
}

func (s *Service) ListUsers(ctx context.Context, f UserFilter) ([]User, error) {
	return list(ctx, s, Users, f.Params())
}

func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	return get(ctx, s, Users, id)
}

func (s *Service) CreateUser(ctx context.Context, in UserInput) (User, error) {
	return write[User](ctx, s, in, Users.Create(in))
}

func (s *Service) UpdateUser(ctx context.Context, id string, in UserInput) (User, error) {
	return write[User](ctx, s, in, Users.Update(id, in))
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return discard(write[struct{}](ctx, s, nil, Users.Delete(id)))
}

// Groups

func (s *Service) ListGroups(ctx context.Context) ([]Group, error) {
	return list(ctx, s, Groups, nil)
}

func (s *Service) GetGroup(ctx context.Context, id string) (Group, error) {
	return get(ctx, s, Groups, id)
}

func (s *Service) CreateGroup(ctx context.Context, in GroupInput) (Group, error) {
	return write[Group](ctx, s, in, Groups.Create(in))
}

func (s *Service) UpdateGroup(ctx context.Context, id string, in GroupInput) (Group, error) {
	return write[Group](ctx, s, in, Groups.Update(id, in))
}

func (s *Service) DeleteGroup(ctx context.Context, id string) error {
	return discard(write[struct{}](ctx, s, nil, Groups.Delete(id)))
}

func (s *Service) AddStudentToGroup(ctx context.Context, groupID, studentID string) error {
	return discard(write[struct{}](ctx, s, nil, Groups.Action(http.MethodPost, nil, groupID, "students", studentID)))
}

func (s *Service) RemoveStudentFromGroup(ctx context.Context, groupID, studentID string) error {
	return discard(write[struct{}](ctx, s, nil, Groups.Action(http.MethodDelete, nil, groupID, "students", studentID)))
}

// Lessons

type LessonFilter struct {
	GroupID   string
	TeacherID string
}

func (f LessonFilter) Params() resource.Params {
	return resource.Params{"groupId": f.GroupID, "teacherId": f.TeacherID}
}

func (s *Service) ListLessons(ctx context.Context, f LessonFilter) ([]Lesson, error) {
	return list(ctx, s, Lessons, f.Params())
}

func (s *Service) CreateLesson(ctx context.Context, in LessonInput) (Lesson, error) {
	return write[Lesson](ctx, s, in, Lessons.Create(in))
}

func (s *Service) UpdateLesson(ctx context.Context, id string, in LessonInput) (Lesson, error) {
	return write[Lesson](ctx, s, in, Lessons.Update(id, in))
}

func (s *Service) DeleteLesson(ctx context.Context, id string) error {
	return discard(write[struct{}](ctx, s, nil, Lessons.Delete(id)))
}

// Grades

type GradeFilter struct {
	StudentID string
	LessonID  string
}

func (f GradeFilter) Params() resource.Params {
	return resource.Params{"studentId": f.StudentID, "lessonId": f.LessonID}
}

func (s *Service) ListGrades(ctx context.Context, f GradeFilter) ([]Grade, error) {
	return list(ctx, s, Grades, f.Params())
}

func (s *Service) CreateGrade(ctx context.Context, in GradeInput) (Grade, error) {
	return write[Grade](ctx, s, in, Grades.Create(in))
}

func (s *Service) UpdateGrade(ctx context.Context, id string, in GradeInput) (Grade, error) {
	return write[Grade](ctx, s, in, Grades.Update(id, in))
}

func (s *Service) DeleteGrade(ctx context.Context, id string) error {
	return discard(write[struct{}](ctx, s, nil, Grades.Delete(id)))
}

// Face-check attendance

type AttendanceFilter struct {
	StudentID string
	Date      string
}

func (f AttendanceFilter) Params() resource.Params {
	return resource.Params{"studentId": f.StudentID, "date": f.Date}
}

func (s *Service) ListAttendance(ctx context.Context, f AttendanceFilter) ([]Attendance, error) {
	return list(ctx, s, AttendanceRecords, f.Params())
}

func (s *Service) RecordAttendance(ctx context.Context, in AttendanceInput) (Attendance, error) {
	return write[Attendance](ctx, s, in, AttendanceRecords.Create(in))
}

// Group check-ins

func (s *Service) ListCheckIns(ctx context.Context) ([]CheckIn, error) {
	return list(ctx, s, CheckIns, nil)
}

func (s *Service) CreateCheckIn(ctx context.Context, in CheckInInput) (CheckIn, error) {
	return write[CheckIn](ctx, s, in, CheckIns.Create(in))
}

// CheckIn asks for the student to be marked present at the group lesson happening now.
func (s *Service) CheckIn(ctx context.Context, studentID, groupID string) (CheckIn, error) {
	now := s.now()
	clock := now.Format("15:04")
	return s.CreateCheckIn(ctx, CheckInInput{
		StudentID:   studentID,
		GroupID:     groupID,
		LessonDate:  now.Format("2006-01-02"),
		LessonTime:  clock,
		CheckInTime: clock,
		Status:      CheckInPending,
	})
}

type checkInStatus struct {
	Status string `json:"status" validate:"required,attendance_status"`
}

func (s *Service) SetCheckInStatus(ctx context.Context, id, status string) (CheckIn, error) {
	in := checkInStatus{Status: status}
	return write[CheckIn](ctx, s, in, CheckIns.Update(id, in))
}

func (s *Service) ApproveCheckIn(ctx context.Context, id string) (CheckIn, error) {
	return s.SetCheckInStatus(ctx, id, CheckInApproved)
}

func (s *Service) RejectCheckIn(ctx context.Context, id string) (CheckIn, error) {
	return s.SetCheckInStatus(ctx, id, CheckInAbsent)
}

// Exams

func (s *Service) ListExams(ctx context.Context) ([]Exam, error) {
	return list(ctx, s, Exams, nil)
}

func (s *Service) CreateExam(ctx context.Context, in ExamInput) (Exam, error) {
	switch in.Frequency {
	case Weekly:
		in.DayOfMonth, in.SpecificDate = 0, ""
	case Monthly:
		in.DayOfWeek, in.SpecificDate = "", ""
	case Yearly:
		in.DayOfWeek, in.DayOfMonth = "", 0
	}
	return write[Exam](ctx, s, in, Exams.Create(in))
}

// AddExamResult stores a result, computing its total and defaulting its date to today.
// The backend only acknowledges it; the exam is read again through the list refetch.
func (s *Service) AddExamResult(ctx context.Context, examID string, in ExamResultInput) error {
	in.TotalScore = TotalScore(in.Options)
	if in.ExamDate == "" {
		in.ExamDate = s.now().Format("2006-01-02")
	}
	return discard(write[struct{}](ctx, s, in, Exams.Action(http.MethodPost, in, examID, "results")))
}

// Tests

func (s *Service) ListTests(ctx context.Context, groupID string) ([]Test, error) {
	return list(ctx, s, Tests, resource.Params{"groupId": groupID})
}

func (s *Service) CreateTest(ctx context.Context, in TestInput) (Test, error) {
	return write[Test](ctx, s, in, Tests.Create(in))
}

func (s *Service) UpdateTest(ctx context.Context, id string, in TestInput) (Test, error) {
	return write[Test](ctx, s, in, Tests.Update(id, in))
}

func (s *Service) DeleteTest(ctx context.Context, id string) error {
	return discard(write[struct{}](ctx, s, nil, Tests.Delete(id)))
}

type TestResultFilter struct {
	TestID    string
	StudentID string
}

func (f TestResultFilter) Params() resource.Params {
	return resource.Params{"testId": f.TestID, "studentId": f.StudentID}
}

func (s *Service) ListTestResults(ctx context.Context, f TestResultFilter) ([]TestResult, error) {
	return list(ctx, s, TestResults, f.Params())
}

func (s *Service) SubmitTestResult(ctx context.Context, in TestResultInput) (TestResult, error) {
	return write[TestResult](ctx, s, in, TestResults.Create(in))
}

// Video courses

func (s *Service) ListVideoCourses(ctx context.Context) ([]VideoCourse, error) {
	return list(ctx, s, VideoCourses, nil)
}

func (s *Service) GetVideoCourse(ctx context.Context, id string) (VideoCourse, error) {
	return get(ctx, s, VideoCourses, id)
}

func (s *Service) CreateVideoCourse(ctx context.Context, in VideoCourseInput) (VideoCourse, error) {
	return write[VideoCourse](ctx, s, in, VideoCourses.Create(in))
}

func (s *Service) UpdateVideoCourse(ctx context.Context, id string, in VideoCourseInput) (VideoCourse, error) {
	return write[VideoCourse](ctx, s, in, VideoCourses.Update(id, in))
}

func (s *Service) DeleteVideoCourse(ctx context.Context, id string) error {
	return discard(write[struct{}](ctx, s, nil, VideoCourses.Delete(id)))
}

func (s *Service) AddVideo(ctx context.Context, courseID string, in VideoInput) (Video, error) {
	return write[Video](ctx, s, in, VideoCourses.Action(http.MethodPost, in, courseID, "videos"))
}

func (s *Service) DeleteVideo(ctx context.Context, courseID, videoID string) error {
	return discard(write[struct{}](ctx, s, nil, VideoCourses.Action(http.MethodDelete, nil, courseID, "videos", videoID)))
}

func (s *Service) AddQuiz(ctx context.Context, courseID, videoID string, quiz Quiz) (Quiz, error) {
	return write[Quiz](ctx, s, quiz, VideoCourses.Action(http.MethodPost, quiz, courseID, "videos", videoID, "quizzes"))
}

func (s *Service) DeleteQuiz(ctx context.Context, courseID, videoID string, index int) error {
	if index < 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "index", Error: "must be 0 or greater"})
	}
	m := VideoCourses.Action(http.MethodDelete, nil, courseID, "videos", videoID, "quizzes", strconv.Itoa(index))
	return discard(write[struct{}](ctx, s, nil, m))
}

// RequestCourseAccess asks the teacher for access to a paid course. It changes no cached data.
func (s *Service) RequestCourseAccess(ctx context.Context, courseID string) error {
	m := VideoCourses.Action(http.MethodPost, nil, courseID, "request-access")
	m.Invalidates = nil
	return discard(write[struct{}](ctx, s, nil, m))
}

// Courses

func (s *Service) ListCourses(ctx context.Context) ([]Course, error) {
	return list(ctx, s, Courses, nil)
}

func (s *Service) CreateCourse(ctx context.Context, in CourseInput) (Course, error) {
	return write[Course](ctx, s, in, Courses.Create(in))
}

func progressPath(courseID, studentID string) string {
	return Courses.ItemPath(courseID, "progress", studentID)
}

func ProgressQuery(courseID, studentID string) resource.Query {
	return resource.Query{
		Resource: progressPath(courseID, studentID),
		Tags:     []resource.Tag{TagCourseProgress},
		Decode:   resource.DecodeJSON[CourseProgress](),
	}
}

func (s *Service) GetCourseProgress(ctx context.Context, courseID, studentID string) (CourseProgress, error) {
	return resource.Fetch[CourseProgress](ctx, s.cache, ProgressQuery(courseID, studentID))
}

func (s *Service) UpdateCourseProgress(ctx context.Context, courseID, studentID string, in ProgressInput) (CourseProgress, error) {
	m := resource.Mutation{
		Method:      http.MethodPut,
		Resource:    progressPath(courseID, studentID),
		Body:        in,
		Invalidates: []resource.Tag{TagCourseProgress},
	}
	return write[CourseProgress](ctx, s, in, m)
}

// Chats

func ConversationQuery(userID string) resource.Query {
	return resource.Query{
		Resource: "chats/conversations/" + url.PathEscape(userID),
		Tags:     []resource.Tag{TagChats},
		Decode:   resource.DecodeJSON[[]Message](),
	}
}

// UnreadQuery is not tagged: sending a message does not change the unread count of the sender.
func UnreadQuery() resource.Query {
	return resource.Query{Resource: "chats/unread", Decode: resource.DecodeJSON[UnreadCount]()}
}

func (s *Service) Conversation(ctx context.Context, userID string) ([]Message, error) {
	return resource.Fetch[[]Message](ctx, s.cache, ConversationQuery(userID))
}

func (s *Service) SendMessage(ctx context.Context, in MessageInput) (Message, error) {
	m := resource.Mutation{Method: http.MethodPost, Resource: "chats", Body: in, Invalidates: []resource.Tag{TagChats}}
	return write[Message](ctx, s, in, m)
}

func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	n, err := resource.Fetch[UnreadCount](ctx, s.cache, UnreadQuery())
	return n.Count, err
}
