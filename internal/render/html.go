// Package render projects dashboard state into HTML and terminal output.
package render

import (
	"embed"
	"html/template"
	"io"
	"strconv"

	"github.com/naka-gawa/contrib-stats/internal/domain"
	"github.com/naka-gawa/contrib-stats/internal/usecase"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pageTmpl = template.Must(
	template.New("contrib-stats").
		Funcs(template.FuncMap{
			"lines": formatLines,
		}).
		ParseFS(templateFS, "templates/*.html.tmpl"),
)

// PageData is the input of every HTML template.
type PageData struct {
	Repos usecase.RepoListView
	View  usecase.ProjectView
}

// Templates returns the parsed template set, for use with gin's SetHTMLTemplate.
func Templates() *template.Template {
	return pageTmpl
}

// Page writes the whole document: the project select control and the project info container.
func Page(w io.Writer, data PageData) error {
	return pageTmpl.ExecuteTemplate(w, "page", data)
}

// ProjectSelect writes the select element with id projectSelect.
func ProjectSelect(w io.Writer, data PageData) error {
	return pageTmpl.ExecuteTemplate(w, "projectSelect", data)
}

// ProjectInfo writes the container element with id projectInfo.
func ProjectInfo(w io.Writer, data PageData) error {
	return pageTmpl.ExecuteTemplate(w, "projectInfo", data)
}

func formatLines(lc domain.LineCount) string {
	if lc.TotalLines == nil {
		return "N/A"
	}
	return strconv.Itoa(*lc.TotalLines)
}
