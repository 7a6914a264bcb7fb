// Package export renders task and client collections into the write-once
// download formats: a CSV spreadsheet and an HTML report.
package export

import (
	"encoding/csv"
	"io"

	"github.com/example/stratdesk/internal/ports/primary"
)

// csvHeader is the spreadsheet column layout.
var csvHeader = []string{"Task", "Client", "Department", "Post Date", "Deadline", "Status"}

// WriteCSV writes one row per task.
func WriteCSV(w io.Writer, tasks []*primary.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		row := []string{t.Name, t.ClientName, t.Department, t.PostDate, t.Deadline, t.Status}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
