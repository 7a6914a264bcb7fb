package status

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// ReworkContext provides context for the rework guard.
type ReworkContext struct {
	TaskKey string
	Note    string
}

// CanRework evaluates whether a task can be sent back for rework.
// Rules:
// - The rework note must not be empty or whitespace-only
func CanRework(ctx ReworkContext) GuardResult {
	if strings.TrimSpace(ctx.Note) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("rework for task %s requires a non-empty note", ctx.TaskKey),
		}
	}
	return GuardResult{Allowed: true}
}

// CalendarContext provides context for calendar-send eligibility.
type CalendarContext struct {
	Status              Status
	ApprovedForCalendar bool
	AddedToCalendar     bool
	PostDate            string // YYYY-MM-DD
	Month               string // YYYY-MM, the selected reporting month
	Deleted             bool
}

// EligibleForCalendar reports whether a task is picked up by the bulk
// "send approved tasks to calendar" action for the selected month.
func EligibleForCalendar(ctx CalendarContext) bool {
	if ctx.Deleted {
		return false
	}
	if ctx.Status != Approved && ctx.Status != AssignedToDepartment {
		return false
	}
	if !ctx.ApprovedForCalendar || ctx.AddedToCalendar {
		return false
	}
	return ctx.Month != "" && strings.HasPrefix(ctx.PostDate, ctx.Month)
}
