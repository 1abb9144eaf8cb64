package school

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/AkmalxonWeBd/education-platform/core/session"
)

// Stat labels
const (
	LabelTeachers    = "O'qituvchilar"
	LabelStudents    = "O'quvchilar"
	LabelLessons     = "Darslar"
	LabelAttendance  = "Davomati"
	LabelCourses     = "Videokurslar"
	LabelTestsDone   = "Tugatilgan Testlar"
	LabelAverage     = "O'rtacha Baho"
	LabelCurrentUser = "Foydalanuvchi"
)

// Stat is one card of a dashboard summary.
type Stat struct {
	Label string
	Value string
}

func percent(v int) string { return fmt.Sprintf("%d%%", v) }

// Summary returns the dashboard cards of the logged in user's role.
func (s *Service) Summary(ctx context.Context) ([]Stat, error) {
	usr, err := s.CurrentUser()
	if err != nil {
		return nil, err
	}
	switch usr.Role {
	case session.RoleStudent:
		return s.StudentSummary(ctx, usr.ID)
	case session.RoleParent:
		return s.ParentSummary(ctx, usr)
	default:
		return s.SchoolSummary(ctx)
	}
}

// SchoolSummary counts teachers, students and lessons and computes the attendance rate.
func (s *Service) SchoolSummary(ctx context.Context) ([]Stat, error) {
	var (
		teachers, students []User
		lessons            []Lesson
		attendance         []Attendance
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		teachers, err = s.ListUsers(ctx, UserFilter{Role: session.RoleTeacher})
		return err
	})
	g.Go(func() (err error) {
		students, err = s.ListUsers(ctx, UserFilter{Role: session.RoleStudent})
		return err
	})
	g.Go(func() (err error) {
		lessons, err = s.ListLessons(ctx, LessonFilter{})
		return err
	})
	g.Go(func() (err error) {
		attendance, err = s.ListAttendance(ctx, AttendanceFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return []Stat{
		{LabelTeachers, strconv.Itoa(len(teachers))},
		{LabelStudents, strconv.Itoa(len(students))},
		{LabelLessons, strconv.Itoa(len(lessons))},
		{LabelAttendance, percent(AttendanceRate(attendance))},
	}, nil
}

func (s *Service) StudentSummary(ctx context.Context, studentID string) ([]Stat, error) {
	var (
		courses    []Course
		results    []TestResult
		attendance []Attendance
		grades     []Grade
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		courses, err = s.ListCourses(ctx)
		return err
	})
	g.Go(func() (err error) {
		results, err = s.ListTestResults(ctx, TestResultFilter{StudentID: studentID})
		return err
	})
	g.Go(func() (err error) {
		attendance, err = s.ListAttendance(ctx, AttendanceFilter{StudentID: studentID})
		return err
	})
	g.Go(func() (err error) {
		grades, err = s.ListGrades(ctx, GradeFilter{StudentID: studentID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return []Stat{
		{LabelCourses, strconv.Itoa(len(courses))},
		{LabelTestsDone, strconv.Itoa(len(results))},
		{LabelAttendance, percent(AttendanceRate(attendance))},
		{LabelAverage, FormatScore(AverageScore(grades))},
	}, nil
}

// ParentSummary shows the school wide figures a parent can see.
func (s *Service) ParentSummary(ctx context.Context, usr session.User) ([]Stat, error) {
	var (
		grades     []Grade
		courses    []Course
		attendance []Attendance
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		grades, err = s.ListGrades(ctx, GradeFilter{})
		return err
	})
	g.Go(func() (err error) {
		courses, err = s.ListCourses(ctx)
		return err
	})
	g.Go(func() (err error) {
		attendance, err = s.ListAttendance(ctx, AttendanceFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return []Stat{
		{LabelCurrentUser, usr.Name},
		{LabelAverage, FormatScore(AverageScore(grades))},
		{LabelCourses, strconv.Itoa(len(courses))},
		{LabelAttendance, percent(AttendanceRate(attendance))},
	}, nil
}
