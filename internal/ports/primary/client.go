package primary

import "context"

// ClientService defines the primary port for client operations. All reads
// are scoped to the session employee's visible client set.
type ClientService interface {
	// ListClients lists the clients visible to the session employee.
	ListClients(ctx context.Context, filters ClientFilters) ([]*Client, error)

	// GetClient retrieves a visible client by key.
	GetClient(ctx context.Context, key string) (*Client, error)

	// CreateClient registers a client record.
	CreateClient(ctx context.Context, req CreateClientRequest) (*Client, error)

	// AssignClient assigns a client to an employee by email.
	AssignClient(ctx context.Context, key, email string) error

	// CompleteStage marks the client's current stage complete and advances
	// the cycle.
	CompleteStage(ctx context.Context, key string) (*StageResult, error)

	// ApproveCycle finishes the cycle: releases every task of the client to
	// its production department and resets the client.
	ApproveCycle(ctx context.Context, key string) (*CycleResult, error)

	// RejectCycle resets the client's cycle without touching tasks.
	RejectCycle(ctx context.Context, key string) (*CycleResult, error)
}

// CreateClientRequest contains parameters for registering a client.
type CreateClientRequest struct {
	ClientID           string // optional external id
	Name               string
	AssignedToEmployee string // optional
}

// Client represents a client entity at the port boundary.
type Client struct {
	Key                string
	ClientID           string
	Name               string
	AssignedToEmployee string
	Stage              string
	StageCompletions   map[string]string // stage name -> RFC 3339 stamp
	Status             string
	LastUpdated        string
	CompletedAt        string
	RejectedAt         string
	RejectedBy         string
	CreatedAt          string
	UpdatedAt          string
}

// ClientFilters contains filter options for listing clients.
type ClientFilters struct {
	Stage string
}

// StageResult describes a completed mid-cycle stage transition.
type StageResult struct {
	Key            string
	Stage          string // new stage
	CompletedStage string
}

// CycleResult describes a finished approval cycle.
type CycleResult struct {
	Key string
	// Approved is true on the approve path, false on reject.
	Approved bool
	// TasksReleased is the number of tasks sent to production (approve only).
	TasksReleased int
}
