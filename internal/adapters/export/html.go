package export

import (
	"html/template"
	"io"

	"github.com/example/stratdesk/internal/ports/primary"
)

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Strategy Department Report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
h2 { border-bottom: 1px solid #ccc; padding-bottom: 4px; }
table { border-collapse: collapse; margin-bottom: 2em; width: 100%; }
th, td { border: 1px solid #ddd; padding: 6px 10px; text-align: left; }
.counts { color: #555; font-size: 0.9em; }
</style>
</head>
<body>
<h1>Strategy Department Report</h1>
{{range .}}
<h2>{{.ClientName}}</h2>
<p class="counts">Stage: {{.Stage}} &mdash; {{.Completed}} completed, {{.InProgress}} in progress, {{.Pending}} pending ({{.Total}} total)</p>
<table>
<tr><th>Task</th><th>Department</th><th>Post Date</th><th>Deadline</th><th>Status</th></tr>
{{range .Tasks}}
<tr><td>{{.Name}}</td><td>{{.Department}}</td><td>{{.PostDate}}</td><td>{{.Deadline}}</td><td>{{.Status}}</td></tr>
{{end}}
</table>
{{end}}
</body>
</html>
`))

// WriteHTML writes the report grouped by client with per-client counts.
func WriteHTML(w io.Writer, summaries []*primary.ClientSummary) error {
	return reportTmpl.Execute(w, summaries)
}
