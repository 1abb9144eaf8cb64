// Package school binds the backend resources of the dashboard to the resource cache:
// record types, their queries and mutations, local validation and derived statistics.
package school

import "github.com/AkmalxonWeBd/education-platform/core/session"

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Phone     string `json:"phone,omitempty"`
	SchoolID  string `json:"school_id,omitempty"`
	GroupID   string `json:"group_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

func (u User) RecordID() string { return u.ID }

func (u User) SessionUser() *session.User {
	return &session.User{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

type ScheduleSlot struct {
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type Group struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	TeacherID   string         `json:"teacher_id"`
	Schedule    []ScheduleSlot `json:"schedule"`
	Description string         `json:"description"`
	StudentIDs  []string       `json:"student_ids"`
}

func (g Group) RecordID() string { return g.ID }

func (g Group) HasStudent(id string) bool {
	for _, sid := range g.StudentIDs {
		if sid == id {
			return true
		}
	}
	return false
}

type AssessmentElement struct {
	Name   string `json:"name" validate:"required"`
	Weight int    `json:"weight" validate:"gte=0,lte=100"`
}

type Lesson struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description,omitempty"`
	GroupID            string              `json:"groupId"`
	Date               string              `json:"date"`
	Time               string              `json:"time"`
	Subject            string              `json:"subject"`
	TeacherID          string              `json:"teacherId"`
	AssessmentElements []AssessmentElement `json:"assessmentElements,omitempty"`
	CreatedAt          string              `json:"createdAt,omitempty"`
}

func (l Lesson) RecordID() string { return l.ID }

// Grade statuses
const (
	GradeGraded  = "graded"
	GradePending = "pending"
)

type Grade struct {
	ID        string  `json:"id"`
	StudentID string  `json:"studentId"`
	LessonID  string  `json:"lessonId"`
	Score     float64 `json:"score"`
	Element   string  `json:"element"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

func (g Grade) RecordID() string { return g.ID }

// Face-check attendance statuses
const (
	Present = "present"
	Absent  = "absent"
)

// Attendance is a face-check record of a student on a day.
type Attendance struct {
	ID         string  `json:"id"`
	StudentID  string  `json:"studentId"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	Photo      string  `json:"photo,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
	CreatedAt  string  `json:"createdAt,omitempty"`
}

func (a Attendance) RecordID() string { return a.ID }

// Group check-in statuses
const (
	CheckInPending  = "pending"
	CheckInApproved = "approved"
	CheckInAbsent   = "absent"
)

// CheckIn is a student's request to be marked present at a group lesson,
// approved or rejected by the teacher.
type CheckIn struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	GroupID     string `json:"group_id"`
	LessonDate  string `json:"lesson_date"`
	LessonTime  string `json:"lesson_time"`
	CheckInTime string `json:"check_in_time"`
	Status      string `json:"status"`
}

func (c CheckIn) RecordID() string { return c.ID }

// Exam frequencies
const (
	Weekly  = "weekly"
	Monthly = "monthly"
	Yearly  = "yearly"
)

type ExamOption struct {
	Name  string  `json:"name" validate:"required"`
	Score float64 `json:"score" validate:"gte=0"`
}

type ExamResult struct {
	StudentID  string       `json:"student_id"`
	Options    []ExamOption `json:"options"`
	TotalScore float64      `json:"total_score"`
	ExamDate   string       `json:"exam_date"`
}

type Exam struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Frequency    string       `json:"frequency"`
	DayOfWeek    string       `json:"day_of_week,omitempty"`
	DayOfMonth   int          `json:"day_of_month,omitempty"`
	SpecificDate string       `json:"specific_date,omitempty"`
	TeacherID    string       `json:"teacher_id"`
	GroupIDs     []string     `json:"group_ids"`
	Results      []ExamResult `json:"results"`
	OptionNames  []string     `json:"option_names,omitempty"`
}

func (e Exam) RecordID() string { return e.ID }

type Question struct {
	ID            string   `json:"id,omitempty"`
	Question      string   `json:"question" validate:"required"`
	Answers       []string `json:"answers" validate:"min=2"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
	Points        int      `json:"points" validate:"gte=0"`
}

// Test statuses
const (
	TestDraft     = "draft"
	TestPublished = "published"
)

type Test struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	GroupID       string     `json:"groupId"`
	Subject       string     `json:"subject"`
	Questions     []Question `json:"questions"`
	ScheduledDate string     `json:"scheduledDate,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     string     `json:"createdAt,omitempty"`
}

func (t Test) RecordID() string { return t.ID }

type TestResult struct {
	ID          string  `json:"id"`
	TestID      string  `json:"testId"`
	StudentID   string  `json:"studentId"`
	Score       float64 `json:"score"`
	TotalPoints float64 `json:"totalPoints"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}

func (r TestResult) RecordID() string { return r.ID }

type QuizAnswer struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type Quiz struct {
	Question string       `json:"question" validate:"required"`
	Answers  []QuizAnswer `json:"answers" validate:"min=2,dive"`
}

type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	Quizzes     []Quiz `json:"quizzes"`
	Order       int    `json:"order"`
}

type VideoCourse struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	IsFree          bool     `json:"is_free"`
	AllowedGroupIDs []string `json:"allowed_group_ids"`
	TeacherID       string   `json:"teacher_id"`
	Videos          []Video  `json:"videos"`
}

func (c VideoCourse) RecordID() string { return c.ID }

type CourseVideo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Duration    int    `json:"duration"`
	TestID      string `json:"testId,omitempty"`
}

type Course struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	IsPaid      bool          `json:"isPaid"`
	GroupIDs    []string      `json:"groupIds"`
	Videos      []CourseVideo `json:"videos"`
	CreatedAt   string        `json:"createdAt,omitempty"`
}

func (c Course) RecordID() string { return c.ID }

type CourseProgress struct {
	ID             string   `json:"id"`
	CourseID       string   `json:"courseId"`
	StudentID      string   `json:"studentId"`
	VideosWatched  []string `json:"videosWatched"`
	TestsCompleted []string `json:"testsCompleted"`
	Progress       float64  `json:"progress"`
}

func (p CourseProgress) RecordID() string { return p.ID }

type Message struct {
	ID         string `json:"id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
	IsRead     bool   `json:"is_read"`
	CreatedAt  string `json:"created_at,omitempty"`
}

func (m Message) RecordID() string { return m.ID }

type UnreadCount struct {
	Count int `json:"count"`
}
