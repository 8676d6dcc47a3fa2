// Package forms validates raw form submissions before they reach the
// storage layer. A failed validation returns per-field messages so the
// handler can re-render the form with whatever the user typed.
package forms

import (
	"time"

	"github.com/go-playground/validator/v10"

	"todoweb/internal/models"
)

// dueDateFormat is what an HTML datetime-local input submits.
const dueDateFormat = "2006-01-02T15:04"

var validate = validator.New()

// TaskInput carries the raw strings of a submitted add/edit form.
type TaskInput struct {
	Title       string `form:"title" validate:"required,max=255"`
	Description string `form:"description"`
	DueDate     string `form:"due_date" validate:"required"`
	Repeat      string `form:"repeat" validate:"required"`
	Priority    string `form:"priority" validate:"required"`
}

// TaskFields is a validated, normalized task payload. The owner is not
// attached yet; the service does that.
type TaskFields struct {
	Title       string
	Description string
	DueDate     time.Time
	Repeat      models.Repeat
	Priority    models.Priority
}

type FieldErrors map[string]string

// Validate checks every field and reports all failures in one pass.
func (in TaskInput) Validate() (*TaskFields, FieldErrors) {
	fieldErrors := FieldErrors{}

	err := validate.Struct(in)
	if err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				switch fe.StructField() {
				case "Title":
					if fe.Tag() == "max" {
						fieldErrors["title"] = "title must be at most 255 characters"
					} else {
						fieldErrors["title"] = "title is required"
					}
				case "DueDate":
					fieldErrors["due_date"] = "due date is required"
				case "Repeat":
					fieldErrors["repeat"] = "repeat is required"
				case "Priority":
					fieldErrors["priority"] = "priority is required"
				}
			}
		} else {
			fieldErrors["form"] = "invalid form submission"
			return nil, fieldErrors
		}
	}

	fields := &TaskFields{
		Title:       in.Title,
		Description: in.Description,
	}

	if in.DueDate != "" {
		dueDate, err := time.Parse(dueDateFormat, in.DueDate)
		if err != nil {
			dueDate, err = time.Parse(time.RFC3339, in.DueDate)
		}
		if err != nil {
			fieldErrors["due_date"] = "due date must be a valid date and time"
		} else {
			fields.DueDate = dueDate
		}
	}

	if in.Repeat != "" {
		repeat, err := models.ParseRepeat(in.Repeat)
		if err != nil {
			fieldErrors["repeat"] = "repeat must be one of: none, daily, weekly, monthly, yearly"
		} else {
			fields.Repeat = repeat
		}
	}

	if in.Priority != "" {
		priority, err := models.ParsePriority(in.Priority)
		if err != nil {
			fieldErrors["priority"] = "priority must be one of: very_important, important"
		} else {
			fields.Priority = priority
		}
	}

	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}
	return fields, nil
}

// FromTask pre-fills an edit form from a stored task.
func FromTask(task *models.Task) TaskInput {
	return TaskInput{
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate.Format(dueDateFormat),
		Repeat:      string(task.Repeat),
		Priority:    string(task.Priority),
	}
}
