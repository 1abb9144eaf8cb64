package school

import (
	"fmt"

	"github.com/AkmalxonWeBd/education-platform/core/table"
)

func yesNo[T any](yes, no string) func(any, T) string {
	return func(v any, _ T) string {
		if b, _ := v.(bool); b {
			return yes
		}
		return no
	}
}

var UserColumns = []table.Column[User]{
	{Key: "name", Label: "Ism", Value: func(u User) any { return u.Name }},
	{Key: "email", Label: "Email", Value: func(u User) any { return u.Email }},
	{Key: "role", Label: "Rol", Value: func(u User) any { return u.Role }},
	{Key: "phone", Label: "Telefon", Value: func(u User) any { return u.Phone }},
}

var GroupColumns = []table.Column[Group]{
	{Key: "name", Label: "Nomi", Value: func(g Group) any { return g.Name }},
	{Key: "teacher_id", Label: "O'qituvchi", Value: func(g Group) any { return g.TeacherID }},
	{Key: "students", Label: "O'quvchilar", Value: func(g Group) any { return len(g.StudentIDs) }},
	{
		Key:   "schedule",
		Label: "Jadval",
		Value: func(g Group) any { return g.Schedule },
		Render: func(_ any, g Group) string {
			days := make([]string, 0, len(g.Schedule))
			for _, s := range g.Schedule {
				days = append(days, fmt.Sprintf("%s %s-%s", s.Day, s.StartTime, s.EndTime))
			}
			return table.Stringify(days)
		},
	},
}

var LessonColumns = []table.Column[Lesson]{
	{Key: "title", Label: "Mavzu", Value: func(l Lesson) any { return l.Title }},
	{Key: "subject", Label: "Fan", Value: func(l Lesson) any { return l.Subject }},
	{Key: "date", Label: "Sana", Value: func(l Lesson) any { return l.Date }},
	{Key: "time", Label: "Vaqt", Value: func(l Lesson) any { return l.Time }},
}

var GradeColumns = []table.Column[Grade]{
	{Key: "studentId", Label: "O'quvchi", Value: func(g Grade) any { return g.StudentID }},
	{Key: "lessonId", Label: "Dars", Value: func(g Grade) any { return g.LessonID }},
	{Key: "element", Label: "Element", Value: func(g Grade) any { return g.Element }},
	{
		Key:    "score",
		Label:  "Baho",
		Value:  func(g Grade) any { return g.Score },
		Render: func(v any, _ Grade) string { return FormatScore(v.(float64)) },
	},
	{Key: "status", Label: "Holat", Value: func(g Grade) any { return g.Status }},
}

var AttendanceColumns = []table.Column[Attendance]{
	{Key: "studentId", Label: "O'quvchi", Value: func(a Attendance) any { return a.StudentID }},
	{Key: "date", Label: "Sana", Value: func(a Attendance) any { return a.Date }},
	{Key: "status", Label: "Holat", Value: func(a Attendance) any { return a.Status }},
	{
		Key:    "similarity",
		Label:  "O'xshashlik",
		Value:  func(a Attendance) any { return a.Similarity },
		Render: func(v any, _ Attendance) string { return fmt.Sprintf("%.0f%%", v.(float64)) },
	},
}

var CheckInColumns = []table.Column[CheckIn]{
	{Key: "student_id", Label: "O'quvchi", Value: func(c CheckIn) any { return c.StudentID }},
	{Key: "group_id", Label: "Guruh", Value: func(c CheckIn) any { return c.GroupID }},
	{Key: "lesson_date", Label: "Sana", Value: func(c CheckIn) any { return c.LessonDate }},
	{Key: "check_in_time", Label: "Vaqt", Value: func(c CheckIn) any { return c.CheckInTime }},
	{Key: "status", Label: "Holat", Value: func(c CheckIn) any { return c.Status }},
}

var ExamColumns = []table.Column[Exam]{
	{Key: "name", Label: "Nomi", Value: func(e Exam) any { return e.Name }},
	{Key: "frequency", Label: "Davriylik", Value: func(e Exam) any { return e.Frequency }},
	{Key: "groups", Label: "Guruhlar", Value: func(e Exam) any { return len(e.GroupIDs) }},
	{Key: "results", Label: "Natijalar", Value: func(e Exam) any { return len(e.Results) }},
}

var TestColumns = []table.Column[Test]{
	{Key: "title", Label: "Nomi", Value: func(t Test) any { return t.Title }},
	{Key: "subject", Label: "Fan", Value: func(t Test) any { return t.Subject }},
	{Key: "questions", Label: "Savollar", Value: func(t Test) any { return len(t.Questions) }},
	{Key: "scheduledDate", Label: "Sana", Value: func(t Test) any { return t.ScheduledDate }},
	{Key: "status", Label: "Holat", Value: func(t Test) any { return t.Status }},
}

var TestResultColumns = []table.Column[TestResult]{
	{Key: "testId", Label: "Test", Value: func(r TestResult) any { return r.TestID }},
	{Key: "studentId", Label: "O'quvchi", Value: func(r TestResult) any { return r.StudentID }},
	{
		Key:   "score",
		Label: "Ball",
		Value: func(r TestResult) any { return r.Score },
		Render: func(_ any, r TestResult) string {
			return fmt.Sprintf("%s / %s", table.Stringify(r.Score), table.Stringify(r.TotalPoints))
		},
	},
	{Key: "status", Label: "Holat", Value: func(r TestResult) any { return r.Status }},
}

var VideoCourseColumns = []table.Column[VideoCourse]{
	{Key: "title", Label: "Nomi", Value: func(c VideoCourse) any { return c.Title }},
	{Key: "is_free", Label: "Narx", Value: func(c VideoCourse) any { return c.IsFree }, Render: yesNo[VideoCourse]("Bepul", "Pullik")},
	{Key: "videos", Label: "Videolar", Value: func(c VideoCourse) any { return len(c.Videos) }},
}

var CourseColumns = []table.Column[Course]{
	{Key: "title", Label: "Nomi", Value: func(c Course) any { return c.Title }},
	{Key: "isPaid", Label: "Narx", Value: func(c Course) any { return c.IsPaid }, Render: yesNo[Course]("Pullik", "Bepul")},
	{Key: "videos", Label: "Videolar", Value: func(c Course) any { return len(c.Videos) }},
}
