package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/resumify/backend/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	previewTmpl = template.Must(template.ParseFS(templateFS, "templates/preview.html", "templates/body.html"))
	printTmpl   = template.Must(template.ParseFS(templateFS, "templates/print.html", "templates/body.html"))
)

// WritePreview writes the on-screen preview page. downloadURL, when set,
// adds a link to the PDF export.
func WritePreview(w io.Writer, r *models.Resume, downloadURL string) error {
	doc := Build(r)
	doc.DownloadURL = downloadURL
	if err := previewTmpl.ExecuteTemplate(w, "preview.html", doc); err != nil {
		return fmt.Errorf("render preview: %w", err)
	}
	return nil
}

// PrintHTML returns the static print layout used for PDF export
func PrintHTML(r *models.Resume) (string, error) {
	var buf bytes.Buffer
	if err := printTmpl.ExecuteTemplate(&buf, "print.html", Build(r)); err != nil {
		return "", fmt.Errorf("render print layout: %w", err)
	}
	return buf.String(), nil
}
