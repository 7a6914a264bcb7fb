// Package scope contains the pure visibility rules: which clients an
// employee sees, and which tasks follow from that client set.
package scope

import "strings"

// DepartmentMarker identifies tasks created directly by this department.
const DepartmentMarker = "Strategy Department"

// Client is the slice of a client record the visibility rules need.
type Client struct {
	Key                string
	AssignedToEmployee string
	Status             string // "", "inactive" or "disabled"
}

// Task is the slice of a task record the visibility rules need.
type Task struct {
	ClientKey      string
	Deleted        bool
	SentToStrategy bool
	CreatedBy      string
}

// ClientVisible reports whether the employee with the given email sees the
// client. Assignment is a case-sensitive exact match on the email; clients
// carrying an exclusion status are hidden from every view regardless of
// assignment.
func ClientVisible(c Client, email string) bool {
	if c.Status == "inactive" || c.Status == "disabled" {
		return false
	}
	return email != "" && c.AssignedToEmployee == email
}

// TaskVisible reports whether a task is visible given the set of visible
// client keys. Task visibility is always derived transitively through the
// client set - a task is never employee-scoped directly. Only tasks handed
// over from production or created by this department count.
func TaskVisible(t Task, visibleClientKeys map[string]bool) bool {
	if t.Deleted {
		return false
	}
	if !visibleClientKeys[t.ClientKey] {
		return false
	}
	return t.SentToStrategy || strings.Contains(t.CreatedBy, DepartmentMarker)
}

// VisibleClientKeys filters clients by employee email and returns the set of
// visible client keys.
func VisibleClientKeys(clients []Client, email string) map[string]bool {
	keys := make(map[string]bool)
	for _, c := range clients {
		if ClientVisible(c, email) {
			keys[c.Key] = true
		}
	}
	return keys
}

// NormalizeClientKey picks the canonical client key at ingestion time:
// clientId when present, otherwise the client name. Historical records may
// lack clientId, and the backfill happens once here rather than as an
// either-field join at every query.
func NormalizeClientKey(clientID, clientName string) string {
	if strings.TrimSpace(clientID) != "" {
		return strings.TrimSpace(clientID)
	}
	return strings.TrimSpace(clientName)
}
