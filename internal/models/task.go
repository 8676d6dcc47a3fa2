package models

import (
	"fmt"
	"time"
)

// Repeat is the recurrence choice stored on a task. It is persisted
// verbatim and never interpreted by a scheduler.
type Repeat string

const (
	RepeatNone    Repeat = "none"
	RepeatDaily   Repeat = "daily"
	RepeatWeekly  Repeat = "weekly"
	RepeatMonthly Repeat = "monthly"
	RepeatYearly  Repeat = "yearly"
)

func ParseRepeat(s string) (Repeat, error) {
	switch Repeat(s) {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return Repeat(s), nil
	}
	return "", fmt.Errorf("unknown repeat: %q", s)
}

type Priority string

const (
	PriorityVeryImportant Priority = "very_important"
	PriorityImportant     Priority = "important"
)

func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityVeryImportant, PriorityImportant:
		return Priority(s), nil
	}
	return "", fmt.Errorf("unknown priority: %q", s)
}

type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	DueDate     time.Time
	Repeat      Repeat
	Priority    Priority
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
