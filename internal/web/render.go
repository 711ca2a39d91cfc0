package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/nerrad567/heritage-sites/internal/auth"
)

//go:embed templates/*.html
var templateFS embed.FS

// layoutFile is parsed into every page template.
const layoutFile = "templates/base.html"

var templateFuncs = template.FuncMap{
	"optInt": func(v *int) string {
		if v == nil {
			return ""
		}
		return strconv.Itoa(*v)
	},
	"optFloat": func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	},
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02 15:04 UTC")
	},
}

// parseTemplates builds one template set per page, each sharing the layout.
func parseTemplates() (map[string]*template.Template, error) {
	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	set := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		if page == layoutFile {
			continue
		}
		t, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, layoutFile, page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		set[page[len("templates/"):]] = t
	}
	return set, nil
}

// page carries the fields every template reads.
type page struct {
	Title   string
	Session *auth.SessionClaims
}

func (s *Server) page(r *http.Request, title string) page {
	return page{Title: title, Session: sessionFromContext(r.Context())}
}

// render executes the named page into a buffer so a template error can still
// produce a clean 500 response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	t, ok := s.templates[name]
	if !ok {
		s.serverError(w, r, fmt.Errorf("unknown template %q", name))
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		s.serverError(w, r, fmt.Errorf("rendering %s: %w", name, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	buf.WriteTo(w)
}

type statusPage struct {
	page
	Status  int
	Message string
}

// renderStatus renders the generic error page. It never calls serverError,
// so a broken error template cannot recurse.
func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := statusPage{
		page:    s.page(r, http.StatusText(status)),
		Status:  status,
		Message: message,
	}

	var buf bytes.Buffer
	if t, ok := s.templates["error.html"]; ok {
		if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
			buf.Reset()
		}
	}
	if buf.Len() == 0 {
		http.Error(w, message, status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	buf.WriteTo(w)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.renderStatus(w, r, http.StatusNotFound, "The page you asked for does not exist.")
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.notFound(w, r)
}

// serverError logs err with the request ID and renders a 500 page.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", requestIDFromContext(r.Context()),
	)
	s.renderStatus(w, r, http.StatusInternalServerError, "Something went wrong on our side.")
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}
