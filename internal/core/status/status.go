// Package status contains the pure business logic for the task production
// pipeline: status transitions, their stamp plans, and calendar eligibility.
package status

import "fmt"

// Status is a task's position in the production pipeline.
type Status string

const (
	PendingProduction    Status = "pending-production"
	InformationGathering Status = "information-gathering"
	StrategyPreparation  Status = "strategy-preparation"
	InternalApproval     Status = "internal-approval"
	ClientApproval       Status = "client-approval"
	Approved             Status = "approved"
	AssignedToDepartment Status = "assigned-to-department"
	InProgress           Status = "in-progress"
	Posted               Status = "posted"
	Completed            Status = "completed"
)

// All lists every known status. The pipeline is not a strict chain: tasks
// enter at pending-production (direct creation and bulk import) and several
// statuses are reachable from any other.
var All = []Status{
	PendingProduction,
	InformationGathering,
	StrategyPreparation,
	InternalApproval,
	ClientApproval,
	Approved,
	AssignedToDepartment,
	InProgress,
	Posted,
	Completed,
}

// Valid reports whether s is a known status.
func Valid(s Status) bool {
	for _, known := range All {
		if s == known {
			return true
		}
	}
	return false
}

// Change describes the stored effect of moving a task to a target status.
// The boolean fields tell the caller which timestamp/actor fields to stamp
// alongside the status itself.
type Change struct {
	// Status is the value that actually gets stored. Approval and
	// department assignment are fused: a request for "approved" stores
	// assigned-to-department, never "approved" itself.
	Status Status
	// StampApproved sets approvedAt, approvedBy and approvedForCalendar.
	StampApproved bool
	// StampAssigned sets assignedToDepartmentAt, assignedBy and copies the
	// task's own department into assignedToDept.
	StampAssigned bool
	// StampStarted sets startedAt.
	StampStarted bool
	// StampPosted sets postedAt.
	StampPosted bool
	// StampLastUpdated sets lastUpdated (the only effect of moving to
	// client-approval).
	StampLastUpdated bool
}

// Apply computes the stored change for moving a task to target. Transitions
// are permitted from any current status; the pipeline gates live in the
// client stage cycle, not here.
func Apply(target Status) (Change, error) {
	if !Valid(target) {
		return Change{}, fmt.Errorf("unknown status %q", target)
	}

	switch target {
	case Approved, AssignedToDepartment:
		// Approval immediately assigns to the task's department in the
		// same update - "approved" is never the terminal stored value.
		return Change{
			Status:        AssignedToDepartment,
			StampApproved: target == Approved,
			StampAssigned: true,
		}, nil
	case InProgress:
		return Change{Status: InProgress, StampStarted: true}, nil
	case Posted:
		return Change{Status: Posted, StampPosted: true}, nil
	case ClientApproval:
		return Change{Status: ClientApproval, StampLastUpdated: true}, nil
	default:
		return Change{Status: target}, nil
	}
}
