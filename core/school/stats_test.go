package school

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AkmalxonWeBd/education-platform/core"
	"github.com/AkmalxonWeBd/education-platform/core/session"
)

func TestAverageScore(t *testing.T) {
	tests := []struct {
		name   string
		grades []Grade
		want   string
	}{
		{name: "no grades", want: "0.0"},
		{name: "single", grades: []Grade{{Score: 5}}, want: "5.0"},
		{name: "mean", grades: []Grade{{Score: 5}, {Score: 4}, {Score: 4}}, want: "4.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatScore(AverageScore(tt.grades)); got != tt.want {
				t.Errorf("AverageScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func attendance(statuses ...string) []Attendance {
	out := make([]Attendance, len(statuses))
	for i, s := range statuses {
		out[i] = Attendance{Status: s}
	}
	return out
}

func TestAttendanceRate(t *testing.T) {
	tests := []struct {
		name    string
		records []Attendance
		want    int
	}{
		{name: "no records", want: 0},
		{name: "all present", records: attendance(Present, Present), want: 100},
		{name: "none present", records: attendance(Absent), want: 0},
		{name: "half rounds up", records: attendance(Present, Present, Present, Present, Present, Absent, Absent, Absent), want: 63},
		{name: "third", records: attendance(Present, Absent, Absent), want: 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AttendanceRate(tt.records); got != tt.want {
				t.Errorf("AttendanceRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBreakdownCheckIns(t *testing.T) {
	assert.Equal(t, CheckInBreakdown{}, BreakdownCheckIns(nil))

	got := BreakdownCheckIns([]CheckIn{
		{Status: CheckInApproved}, {Status: CheckInApproved}, {Status: CheckInPending}, {Status: CheckInAbsent},
	})
	assert.Equal(t, CheckInBreakdown{Approved: 2, Pending: 1, Absent: 1, Total: 4, Percentage: 50}, got)
}

func TestTotalScore(t *testing.T) {
	assert.Equal(t, 0.0, TotalScore(nil))
	assert.Equal(t, 27.5, TotalScore([]ExamOption{{Name: "Grammar", Score: 10}, {Name: "Speaking", Score: 17.5}}))
}

func TestDefaultAssessment(t *testing.T) {
	assert.Equal(t, 100, WeightsTotal(DefaultAssessment()))
}

func TestExamStudents(t *testing.T) {
	groups := []Group{
		{ID: "g1", StudentIDs: []string{"s1", "s2"}},
		{ID: "g2", StudentIDs: []string{"s3"}},
	}
	users := []User{
		{ID: "s1", Role: session.RoleStudent},
		{ID: "s2", Role: session.RoleStudent},
		{ID: "s3", Role: session.RoleStudent},
		{ID: "t1", Role: session.RoleTeacher},
		{ID: "s4", Role: session.RoleStudent},
	}

	got := ExamStudents(Exam{GroupIDs: []string{"g1"}}, append(groups, Group{ID: "g3", StudentIDs: []string{"t1"}}), users)
	ids := make([]string, len(got))
	for i, u := range got {
		ids[i] = u.ID
	}
	assert.Equal(t, []string{"s1", "s2"}, ids)

	assert.Empty(t, ExamStudents(Exam{GroupIDs: []string{"g3"}}, append(groups, Group{ID: "g3", StudentIDs: []string{"t1"}}), users))
	assert.Empty(t, ExamStudents(Exam{}, groups, users))
}

func TestValidate(t *testing.T) {
	validate, trans := NewValidator()
	quiz := func(correct bool) Quiz {
		return Quiz{Question: "2+2?", Answers: []QuizAnswer{{Text: "4", IsCorrect: correct}, {Text: "5"}}}
	}

	tests := []struct {
		name      string
		in        interface{}
		wantField string
	}{
		{name: "user ok", in: UserInput{Email: "ali@school.uz", Name: "Ali", Role: session.RoleStudent}},
		{name: "user bad role", in: UserInput{Email: "ali@school.uz", Name: "Ali", Role: "janitor"}, wantField: "role"},
		{name: "user name with apostrophe", in: UserInput{Email: "gulom@school.uz", Name: "G'ulom O'ktamov", Role: session.RoleTeacher}},
		{name: "group name with punctuation", in: GroupInput{Name: "7-A (kechki)"}},
		{name: "user bad email", in: UserInput{Email: "ali", Name: "Ali", Role: session.RoleStudent}, wantField: "email"},
		{name: "lesson default weights", in: LessonInput{Title: "Algebra", AssessmentElements: DefaultAssessment()}},
		{name: "lesson without weights", in: LessonInput{Title: "Algebra"}},
		{
			name:      "lesson weights off",
			in:        LessonInput{Title: "Algebra", AssessmentElements: []AssessmentElement{{Name: "Final", Weight: 90}}},
			wantField: "assessmentElements",
		},
		{name: "check-in status", in: CheckInInput{StudentID: "s", GroupID: "g", LessonDate: "2024-01-01", Status: "late"}, wantField: "status"},
		{name: "weekly exam", in: ExamInput{Name: "Quiz", Frequency: Weekly, DayOfWeek: "monday"}},
		{name: "weekly exam without day", in: ExamInput{Name: "Quiz", Frequency: Weekly}, wantField: "day_of_week"},
		{name: "monthly exam without day", in: ExamInput{Name: "Quiz", Frequency: Monthly}, wantField: "day_of_month"},
		{name: "yearly exam without date", in: ExamInput{Name: "Quiz", Frequency: Yearly}, wantField: "specific_date"},
		{name: "exam bad frequency", in: ExamInput{Name: "Quiz", Frequency: "daily"}, wantField: "frequency"},
		{name: "quiz ok", in: quiz(true)},
		{name: "quiz without correct answer", in: quiz(false), wantField: "answers"},
		{name: "video url", in: VideoInput{Title: "Intro", VideoURL: "not a url"}, wantField: "video_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := core.ValidateStruct(validate, trans, tt.in)
			if (err != nil) != (tt.wantField != "") {
				t.Fatalf("ValidateStruct() error = %v, wantField %q", err, tt.wantField)
			}
			if err == nil {
				return
			}
			vErr, ok := err.(*core.ValidationError)
			if !ok {
				t.Fatalf("ValidateStruct() error = %T, want *core.ValidationError", err)
			}
			var fields []string
			for _, f := range vErr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}
