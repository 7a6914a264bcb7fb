// Package stage contains the pure business logic for the client approval
// cycle. Guards and transition planning are pure functions - no I/O.
package stage

import "fmt"

// Stage is a client's position in the approval pipeline.
type Stage string

const (
	InformationGathering Stage = "information-gathering"
	StrategyPreparation  Stage = "strategy-preparation"
	InternalApproval     Stage = "internal-approval"
	ClientApproval       Stage = "client-approval"
)

// Order lists the stages in cycle order.
var Order = []Stage{
	InformationGathering,
	StrategyPreparation,
	InternalApproval,
	ClientApproval,
}

// Valid reports whether s is a known stage.
func Valid(s Stage) bool {
	for _, known := range Order {
		if s == known {
			return true
		}
	}
	return false
}

// Next returns the stage that follows s. The pipeline is a cycle:
// client-approval wraps back to information-gathering.
func Next(s Stage) Stage {
	for i, known := range Order {
		if s == known {
			return Order[(i+1)%len(Order)]
		}
	}
	return InformationGathering
}

// Normalize maps an absent stage to the pipeline entry point.
func Normalize(s Stage) Stage {
	if !Valid(s) {
		return InformationGathering
	}
	return s
}

// Outcome classifies a planned transition.
type Outcome string

const (
	// OutcomeAdvanced means the client moved to the next stage.
	OutcomeAdvanced Outcome = "advanced"
	// OutcomeApproved means the cycle finished and tasks are released to production.
	OutcomeApproved Outcome = "approved"
	// OutcomeRejected means the cycle was reset without touching tasks.
	OutcomeRejected Outcome = "rejected"
)

// Transition is the planned effect of an operator action on a client.
type Transition struct {
	NextStage Stage
	// CompletedStage is the stage to stamp in the completion map.
	// Empty for approve/reject, which clear the map instead.
	CompletedStage Stage
	// ClearCompletions clears every completion stamp (cycle finished or rejected).
	ClearCompletions bool
	// ReleaseTasks releases every task of the client to its production
	// department. Set only on the approve path.
	ReleaseTasks bool
	Outcome      Outcome
}

// PlanComplete plans the transition for marking the current stage complete.
// Valid from the first three stages only; client-approval exits through
// approve or reject.
func PlanComplete(current Stage) (Transition, error) {
	current = Normalize(current)
	if current == ClientApproval {
		return Transition{}, fmt.Errorf("stage %s completes through approve or reject, not complete", ClientApproval)
	}
	return Transition{
		NextStage:      Next(current),
		CompletedStage: current,
		Outcome:        OutcomeAdvanced,
	}, nil
}

// PlanApprove plans the cycle-complete transition: release every task of the
// client to production and reset the client to the start of the cycle.
func PlanApprove(current Stage) (Transition, error) {
	if Normalize(current) != ClientApproval {
		return Transition{}, fmt.Errorf("can only approve from %s (current stage: %s)", ClientApproval, Normalize(current))
	}
	return Transition{
		NextStage:        InformationGathering,
		ClearCompletions: true,
		ReleaseTasks:     true,
		Outcome:          OutcomeApproved,
	}, nil
}

// PlanReject plans the reject transition: reset the client exactly as approve
// does, but leave every task untouched.
func PlanReject(current Stage) (Transition, error) {
	if Normalize(current) != ClientApproval {
		return Transition{}, fmt.Errorf("can only reject from %s (current stage: %s)", ClientApproval, Normalize(current))
	}
	return Transition{
		NextStage:        InformationGathering,
		ClearCompletions: true,
		Outcome:          OutcomeRejected,
	}, nil
}
