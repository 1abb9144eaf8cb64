package school

import (
	"fmt"
	"math"

	"github.com/AkmalxonWeBd/education-platform/core/session"
)

// AverageScore is the mean grade score, 0 without grades.
func AverageScore(grades []Grade) float64 {
	if len(grades) == 0 {
		return 0
	}
	var sum float64
	for _, g := range grades {
		sum += g.Score
	}
	return sum / float64(len(grades))
}

// FormatScore renders a score with one decimal, eg. "4.3" or "0.0".
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f", score)
}

// round matches the dashboard's rounding of halves up, eg. 62.5 -> 63.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// AttendanceRate is the rounded percentage of present records, 0 without records.
func AttendanceRate(records []Attendance) int {
	if len(records) == 0 {
		return 0
	}
	var present int
	for _, r := range records {
		if r.Status == Present {
			present++
		}
	}
	return round(float64(present) / float64(len(records)) * 100)
}

type CheckInBreakdown struct {
	Approved int
	Pending  int
	Absent   int
	Total    int
	// Percentage of approved check-ins, rounded.
	Percentage int
}

func BreakdownCheckIns(checkIns []CheckIn) CheckInBreakdown {
	var b CheckInBreakdown
	for _, c := range checkIns {
		switch c.Status {
		case CheckInApproved:
			b.Approved++
		case CheckInPending:
			b.Pending++
		case CheckInAbsent:
			b.Absent++
		}
	}
	b.Total = len(checkIns)
	total := b.Total
	if total == 0 {
		total = 1
	}
	b.Percentage = round(float64(b.Approved) / float64(total) * 100)
	return b
}

// TotalScore sums the option scores of an exam result.
func TotalScore(options []ExamOption) float64 {
	var sum float64
	for _, o := range options {
		sum += o.Score
	}
	return sum
}

func WeightsTotal(elements []AssessmentElement) int {
	var sum int
	for _, e := range elements {
		sum += e.Weight
	}
	return sum
}

// DefaultAssessment is the weighting proposed for new lessons.
func DefaultAssessment() []AssessmentElement {
	return []AssessmentElement{
		{Name: "Midterm", Weight: 30},
		{Name: "Final", Weight: 40},
		{Name: "Topshiriq", Weight: 30},
	}
}

// ExamStudents returns the students belonging to one of the exam's groups.
func ExamStudents(exam Exam, groups []Group, users []User) []User {
	var examGroups []Group
	for _, g := range groups {
		for _, id := range exam.GroupIDs {
			if g.ID == id {
				examGroups = append(examGroups, g)
				break
			}
		}
	}

	var out []User
	for _, u := range users {
		if u.Role != session.RoleStudent {
			continue
		}
		for _, g := range examGroups {
			if g.HasStudent(u.ID) {
				out = append(out, u)
				break
			}
		}
	}
	return out
}
