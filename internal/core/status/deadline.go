package status

import (
	"fmt"
	"time"
)

// dateLayout is the wire format for post dates and deadlines.
const dateLayout = "2006-01-02"

// deadlineLeadDays is how many days before the post date content is due.
const deadlineLeadDays = 2

// DeadlineFor derives a task's deadline from its post date. The deadline is
// computed when the post date is set or edited and is never reconciled in
// the background.
func DeadlineFor(postDate string) (string, error) {
	t, err := time.Parse(dateLayout, postDate)
	if err != nil {
		return "", fmt.Errorf("invalid post date %q: expected YYYY-MM-DD", postDate)
	}
	return t.AddDate(0, 0, -deadlineLeadDays).Format(dateLayout), nil
}

// ValidMonth reports whether month is a YYYY-MM reporting month.
func ValidMonth(month string) bool {
	_, err := time.Parse("2006-01", month)
	return err == nil
}
