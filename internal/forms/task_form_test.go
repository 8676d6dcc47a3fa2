package forms

import (
	"testing"
	"time"

	"todoweb/internal/models"
)

func validInput() TaskInput {
	return TaskInput{
		Title:       "Buy milk",
		Description: "2 liters",
		DueDate:     "2025-01-01T10:00",
		Repeat:      "none",
		Priority:    "important",
	}
}

func TestValidateSuccess(t *testing.T) {
	fields, fieldErrors := validInput().Validate()
	if fieldErrors != nil {
		t.Fatalf("unexpected field errors: %v", fieldErrors)
	}

	if fields.Title != "Buy milk" {
		t.Errorf("Title = %q", fields.Title)
	}
	if fields.Description != "2 liters" {
		t.Errorf("Description = %q", fields.Description)
	}
	want := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	if !fields.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", fields.DueDate, want)
	}
	if fields.Repeat != models.RepeatNone {
		t.Errorf("Repeat = %q", fields.Repeat)
	}
	if fields.Priority != models.PriorityImportant {
		t.Errorf("Priority = %q", fields.Priority)
	}
}

func TestValidateRFC3339DueDate(t *testing.T) {
	in := validInput()
	in.DueDate = "2025-01-01T10:00:00Z"

	fields, fieldErrors := in.Validate()
	if fieldErrors != nil {
		t.Fatalf("unexpected field errors: %v", fieldErrors)
	}
	if fields.DueDate.Hour() != 10 {
		t.Errorf("DueDate = %v", fields.DueDate)
	}
}

func TestValidateOptionalDescription(t *testing.T) {
	in := validInput()
	in.Description = ""

	if _, fieldErrors := in.Validate(); fieldErrors != nil {
		t.Fatalf("unexpected field errors: %v", fieldErrors)
	}
}

func TestValidateFieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*TaskInput)
		wantField string
	}{
		{"empty title", func(in *TaskInput) { in.Title = "" }, "title"},
		{"long title", func(in *TaskInput) { in.Title = string(make([]byte, 256)) }, "title"},
		{"missing due date", func(in *TaskInput) { in.DueDate = "" }, "due_date"},
		{"garbage due date", func(in *TaskInput) { in.DueDate = "tomorrow" }, "due_date"},
		{"missing repeat", func(in *TaskInput) { in.Repeat = "" }, "repeat"},
		{"unknown repeat", func(in *TaskInput) { in.Repeat = "hourly" }, "repeat"},
		{"missing priority", func(in *TaskInput) { in.Priority = "" }, "priority"},
		{"unknown priority", func(in *TaskInput) { in.Priority = "urgent" }, "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			fields, fieldErrors := in.Validate()
			if fields != nil {
				t.Fatal("expected nil fields")
			}
			if fieldErrors == nil {
				t.Fatal("expected field errors")
			}
			if _, ok := fieldErrors[tt.wantField]; !ok {
				t.Errorf("missing error for %q, got %v", tt.wantField, fieldErrors)
			}
		})
	}
}

func TestValidateReportsEveryInvalidField(t *testing.T) {
	in := TaskInput{}

	_, fieldErrors := in.Validate()
	for _, field := range []string{"title", "due_date", "repeat", "priority"} {
		if _, ok := fieldErrors[field]; !ok {
			t.Errorf("missing error for %q, got %v", field, fieldErrors)
		}
	}
}

func TestFromTask(t *testing.T) {
	task := &models.Task{
		Title:       "Water plants",
		Description: "balcony only",
		DueDate:     time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC),
		Repeat:      models.RepeatWeekly,
		Priority:    models.PriorityVeryImportant,
	}

	in := FromTask(task)
	if in.DueDate != "2025-06-15T09:30" {
		t.Errorf("DueDate = %q", in.DueDate)
	}

	// A pre-filled form must validate as-is.
	if _, fieldErrors := in.Validate(); fieldErrors != nil {
		t.Errorf("unexpected field errors: %v", fieldErrors)
	}
}
