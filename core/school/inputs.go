package school

// Payloads sent on create/update. They are validated locally before anything is sent.

type UserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,role"`
	Phone    string `json:"phone,omitempty"`
	SchoolID string `json:"school_id,omitempty"`
	GroupID  string `json:"group_id,omitempty"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6"`
}

type GroupInput struct {
	Name        string         `json:"name" validate:"required"`
	TeacherID   string         `json:"teacher_id"`
	Schedule    []ScheduleSlot `json:"schedule" validate:"dive"`
	Description string         `json:"description"`
	StudentIDs  []string       `json:"student_ids,omitempty"`
}

type LessonInput struct {
	Title              string              `json:"title" validate:"required"`
	Description        string              `json:"description,omitempty"`
	GroupID            string              `json:"groupId,omitempty"`
	Date               string              `json:"date,omitempty"`
	Time               string              `json:"time,omitempty"`
	Subject            string              `json:"subject,omitempty"`
	TeacherID          string              `json:"teacherId,omitempty"`
	AssessmentElements []AssessmentElement `json:"assessmentElements,omitempty" validate:"omitempty,weights100,dive"`
}

type GradeInput struct {
	StudentID string  `json:"studentId" validate:"required"`
	LessonID  string  `json:"lessonId" validate:"required"`
	Score     float64 `json:"score" validate:"gte=0,lte=100"`
	Element   string  `json:"element"`
	Status    string  `json:"status" validate:"omitempty,oneof=graded pending"`
}

type AttendanceInput struct {
	StudentID  string  `json:"studentId" validate:"required"`
	Date       string  `json:"date" validate:"required"`
	Status     string  `json:"status" validate:"required,oneof=present absent"`
	Photo      string  `json:"photo,omitempty"`
	Similarity float64 `json:"similarity,omitempty" validate:"gte=0,lte=100"`
}

type CheckInInput struct {
	StudentID   string `json:"student_id" validate:"required"`
	GroupID     string `json:"group_id" validate:"required"`
	LessonDate  string `json:"lesson_date" validate:"required"`
	LessonTime  string `json:"lesson_time"`
	CheckInTime string `json:"check_in_time"`
	Status      string `json:"status" validate:"required,attendance_status"`
}

type ExamInput struct {
	Name         string   `json:"name" validate:"required"`
	Frequency    string   `json:"frequency" validate:"required,oneof=weekly monthly yearly"`
	DayOfWeek    string   `json:"day_of_week,omitempty"`
	DayOfMonth   int      `json:"day_of_month,omitempty" validate:"gte=0,lte=31"`
	SpecificDate string   `json:"specific_date,omitempty"`
	TeacherID    string   `json:"teacher_id,omitempty"`
	GroupIDs     []string `json:"group_ids"`
	OptionNames  []string `json:"option_names,omitempty"`
}

type ExamResultInput struct {
	StudentID  string       `json:"student_id" validate:"required"`
	Options    []ExamOption `json:"options" validate:"min=1,dive"`
	TotalScore float64      `json:"total_score"`
	ExamDate   string       `json:"exam_date"`
}

type TestInput struct {
	Title         string     `json:"title" validate:"required"`
	GroupID       string     `json:"groupId,omitempty"`
	Subject       string     `json:"subject" validate:"required"`
	Questions     []Question `json:"questions" validate:"dive"`
	ScheduledDate string     `json:"scheduledDate,omitempty"`
	Status        string     `json:"status" validate:"omitempty,oneof=draft published"`
}

type TestResultInput struct {
	TestID      string  `json:"testId" validate:"required"`
	StudentID   string  `json:"studentId" validate:"required"`
	Score       float64 `json:"score" validate:"gte=0"`
	TotalPoints float64 `json:"totalPoints" validate:"gte=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=completed pending"`
}

type VideoCourseInput struct {
	Title           string   `json:"title" validate:"required"`
	Description     string   `json:"description"`
	IsFree          bool     `json:"is_free"`
	AllowedGroupIDs []string `json:"allowed_group_ids"`
	TeacherID       string   `json:"teacher_id,omitempty"`
}

type VideoInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url" validate:"required,url"`
	Order       int    `json:"order" validate:"gte=0"`
}

type CourseInput struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	IsPaid      bool     `json:"isPaid"`
	GroupIDs    []string `json:"groupIds"`
}

type ProgressInput struct {
	VideosWatched  []string `json:"videosWatched"`
	TestsCompleted []string `json:"testsCompleted"`
	Progress       float64  `json:"progress" validate:"gte=0,lte=100"`
}

type MessageInput struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
