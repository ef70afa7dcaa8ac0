package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var viewsFS embed.FS

var indexTmpl *template.Template

// loadTemplatesFromFS loads the page templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	indexTmpl, err = template.ParseFS(sub, "*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded templates. Call during startup before serving
// requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// RouteLink is one entry of the route listing on the landing page.
type RouteLink struct {
	Href   string
	Label  string
	Format string
}

type IndexData struct {
	Title  string
	Routes []RouteLink
}

func DefaultIndexData() IndexData {
	return IndexData{
		Title: "Climate analysis API for Hawaii",
		Routes: []RouteLink{
			{Href: "/api/v1.0/precipitation", Label: "Last 12 months of precipitation data"},
			{Href: "/api/v1.0/stations", Label: "List of station identifiers"},
			{Href: "/api/v1.0/stations/USC00519281", Label: "Station details"},
			{Href: "/api/v1.0/tobs", Label: "Last 12 months of temperature data from the most active station"},
			{Href: "/api/v1.0/08232016", Label: "Temperature min, max and average from a start date to the most recent", Format: "MMDDYYYY"},
			{Href: "/api/v1.0/08232016/08232017", Label: "Temperature min, max and average between start and end dates", Format: "MMDDYYYY/MMDDYYYY"},
		},
	}
}

func RenderIndex(w io.Writer, data IndexData) error {
	if indexTmpl == nil {
		return errors.New("index template not loaded: call views.LoadTemplates during startup")
	}
	return indexTmpl.ExecuteTemplate(w, "index.html", data)
}
