package stage

import "fmt"

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

// AdvanceContext provides context for stage transition guards.
type AdvanceContext struct {
	ClientKey    string
	ClientExists bool
	Excluded     bool // client carries an inactive/disabled status
	Stage        Stage
}

// CanCompleteStage evaluates whether a client's current stage can be marked
// complete.
// Rules:
// - Client must exist and not be excluded
// - Stage must not be client-approval (that stage exits via approve/reject)
func CanCompleteStage(ctx AdvanceContext) GuardResult {
	if !ctx.ClientExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("client %s not found", ctx.ClientKey),
		}
	}
	if ctx.Excluded {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("client %s is excluded from the pipeline", ctx.ClientKey),
		}
	}
	if Normalize(ctx.Stage) == ClientApproval {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("client %s is awaiting the client decision - use approve or reject", ctx.ClientKey),
		}
	}
	return GuardResult{Allowed: true}
}

// CanDecideCycle evaluates whether the client's cycle can be approved or
// rejected.
// Rules:
// - Client must exist and not be excluded
// - Stage must be client-approval
func CanDecideCycle(ctx AdvanceContext) GuardResult {
	if !ctx.ClientExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("client %s not found", ctx.ClientKey),
		}
	}
	if ctx.Excluded {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("client %s is excluded from the pipeline", ctx.ClientKey),
		}
	}
	if Normalize(ctx.Stage) != ClientApproval {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("client %s is at stage %s - only %s cycles can be approved or rejected", ctx.ClientKey, Normalize(ctx.Stage), ClientApproval),
		}
	}
	return GuardResult{Allowed: true}
}
