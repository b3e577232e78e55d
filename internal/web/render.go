package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coe-onsite/onsite-manager/pkg/core/calendar"
	"github.com/coe-onsite/onsite-manager/pkg/core/datefmt"
	"github.com/coe-onsite/onsite-manager/pkg/core/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// templateRenderer renders the embedded pages for echo
type templateRenderer struct {
	templates *template.Template
}

func newRenderer(loc *time.Location) (*templateRenderer, error) {
	funcs := template.FuncMap{
		"formatDate":  datefmt.FormatDate,
		"formatTime":  func(s string) string { return datefmt.FormatTimeIn(s, loc) },
		"statusLabel": func(s model.Status) string { return s.Label() },
		"filterLabel": model.FilterLabel,
		"staffOr": func(r model.ApplicationRecord, fallback string) string {
			return r.StaffDisplay(fallback)
		},
		"calendarURL": func(r model.ApplicationRecord) string { return calendar.EventURL(r, loc) },
		"orNone": func(s string) string {
			if s == "" {
				return "無"
			}
			return s
		},
		"hasStaff": func(staff model.Staff, name string) bool { return staff.Contains(name) },
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &templateRenderer{templates: tmpl}, nil
}

// Render implements echo.Renderer
func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
