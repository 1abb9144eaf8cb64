package school

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/AkmalxonWeBd/education-platform/core"
	"github.com/AkmalxonWeBd/education-platform/core/session"
)

var (
	roleTag  = "role"
	roleText = "must be one of super_admin, school_admin, teacher, student, parent"

	checkInStatusTag  = "attendance_status"
	checkInStatusText = "must be one of pending, approved, absent"

	weightsTag  = "weights100"
	weightsText = "weights must add up to 100"

	oneCorrectTag  = "one_correct"
	oneCorrectText = "at least one answer must be correct"
)

// NewValidator returns a validator with the core and school rules registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate, translator
}

// InitValidators registers the school domain rules.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	_ = validate.RegisterValidation(checkInStatusTag, checkInStatusValidation)
	core.RegisterCustomTranslation(validate, translator, checkInStatusTag, checkInStatusText)

	_ = validate.RegisterValidation(weightsTag, weightsValidation)
	core.RegisterCustomTranslation(validate, translator, weightsTag, weightsText)

	validate.RegisterStructValidation(quizStructLevel, Quiz{})
	core.RegisterCustomTranslation(validate, translator, oneCorrectTag, oneCorrectText)

	validate.RegisterStructValidation(examStructLevel, ExamInput{})
}

func roleValidation(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	for _, r := range session.AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func checkInStatusValidation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case CheckInPending, CheckInApproved, CheckInAbsent:
		return true
	}
	return false
}

func weightsValidation(fl validator.FieldLevel) bool {
	elements, ok := fl.Field().Interface().([]AssessmentElement)
	if !ok {
		return false
	}
	return WeightsTotal(elements) == 100
}

func quizStructLevel(sl validator.StructLevel) {
	quiz := sl.Current().Interface().(Quiz)
	for _, a := range quiz.Answers {
		if a.IsCorrect {
			return
		}
	}
	sl.ReportError(quiz.Answers, "answers", "Answers", oneCorrectTag, "")
}

// examStructLevel requires the schedule field matching the frequency.
func examStructLevel(sl validator.StructLevel) {
	exam := sl.Current().Interface().(ExamInput)
	switch exam.Frequency {
	case Weekly:
		if exam.DayOfWeek == "" {
			sl.ReportError(exam.DayOfWeek, "day_of_week", "DayOfWeek", "required", "")
		}
	case Monthly:
		if exam.DayOfMonth < 1 {
			sl.ReportError(exam.DayOfMonth, "day_of_month", "DayOfMonth", "required", "")
		}
	case Yearly:
		if exam.SpecificDate == "" {
			sl.ReportError(exam.SpecificDate, "specific_date", "SpecificDate", "required", "")
		}
	}
}
