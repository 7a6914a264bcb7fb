package primary

import (
	"context"
	"io"
)

// TaskService defines the primary port for task operations. All reads are
// scoped transitively through the session employee's visible clients.
type TaskService interface {
	// CreateTask assigns a new content-production task to a client.
	CreateTask(ctx context.Context, req CreateTaskRequest) (*CreateTaskResponse, error)

	// GetTask retrieves a visible task by key.
	GetTask(ctx context.Context, key string) (*Task, error)

	// ListTasks lists visible tasks with optional filters.
	ListTasks(ctx context.Context, filters TaskFilters) ([]*Task, error)

	// EditTask updates a task's name, department and/or post date. Changing
	// the post date recomputes the deadline; nothing else touches it.
	EditTask(ctx context.Context, req EditTaskRequest) error

	// SetStatus moves a task to a target status. Approving stores
	// assigned-to-department in the same update.
	SetStatus(ctx context.Context, key, target string) (*StatusResult, error)

	// ReworkTask sends a task back to information-gathering with a note.
	ReworkTask(ctx context.Context, key, note string) error

	// DeleteTask soft-deletes a task.
	DeleteTask(ctx context.Context, key string) error

	// SendToCalendar sends every eligible approved task of the selected
	// reporting month to the production calendar. An empty selection is a
	// reported no-op.
	SendToCalendar(ctx context.Context, month string) (*CalendarSendResult, error)

	// ImportTasks bulk-imports tasks from a spreadsheet export (CSV).
	// Malformed rows are reported per row, valid rows are still imported.
	ImportTasks(ctx context.Context, r io.Reader) (*ImportResult, error)
}

// CreateTaskRequest contains parameters for assigning a task.
type CreateTaskRequest struct {
	ClientKey  string
	Name       string
	Department string
	PostDate   string // YYYY-MM-DD; deadline is derived from it
}

// CreateTaskResponse contains the result of assigning a task.
type CreateTaskResponse struct {
	TaskKey string
	Task    *Task
}

// EditTaskRequest contains parameters for editing a task. Empty fields are
// left unchanged.
type EditTaskRequest struct {
	TaskKey    string
	Name       string
	Department string
	PostDate   string
}

// Task represents a task entity at the port boundary.
type Task struct {
	Key                    string
	ClientKey              string
	ClientName             string
	Name                   string
	Department             string
	Status                 string
	PostDate               string
	Deadline               string
	ReworkNote             string
	ReworkedAt             string
	ReworkedBy             string
	SentToStrategy         bool
	CreatedBy              string
	ApprovedAt             string
	ApprovedBy             string
	ApprovedForCalendar    bool
	AssignedToDepartmentAt string
	AssignedToDept         string
	StartedAt              string
	PostedAt               string
	AddedToCalendar        bool
	SentToProductionAt     string
	LastUpdated            string
	CreatedAt              string
	UpdatedAt              string
}

// TaskFilters contains filter options for listing tasks.
type TaskFilters struct {
	ClientKey string
	Status    string
	Month     string // YYYY-MM on the post date
}

// StatusResult reports the status actually stored after a transition.
type StatusResult struct {
	TaskKey string
	// Stored is the persisted status. Requesting "approved" stores
	// "assigned-to-department".
	Stored string
}

// CalendarSendResult reports per-task outcomes of a bulk calendar send.
type CalendarSendResult struct {
	Month string
	// Sent lists the keys of tasks placed on the calendar.
	Sent []string
	// Failed maps task keys to the error that prevented their send.
	Failed map[string]string
	// NoOp is true when no task was eligible for the month.
	NoOp bool
}

// ImportResult reports the outcome of a bulk import.
type ImportResult struct {
	Imported int
	// RowErrors maps 1-based data row numbers to parse failures.
	RowErrors map[int]string
}
