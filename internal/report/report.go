// Package report renders the dry-run preview as a standalone HTML file.
package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"
)

// Section is one block of the report: a heading with detail lines.
type Section struct {
	Heading string
	Lines   []string
}

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; }
h2 { font-size: 1.1em; margin-top: 1.5em; }
li { margin: 0.15em 0; }
.generated { color: #888; font-size: 0.85em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="generated">{{.Generated}}</p>
{{range .Sections}}
<h2>{{.Heading}}</h2>
{{if .Lines}}<ul>{{range .Lines}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{end}}
</body>
</html>
`))

// WriteHTML renders the sections into a timestamped file under dir and
// returns its path.
func WriteHTML(dir, title string, sections []Section) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	now := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("import-%s.html", now.Format("20060102-150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() { _ = f.Close() }()

	data := struct {
		Title     string
		Generated string
		Sections  []Section
	}{
		Title:     title,
		Generated: now.Format("2006-01-02 15:04:05"),
		Sections:  sections,
	}
	if err := page.Execute(f, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return path, nil
}
