package handler

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/shopspring/decimal"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/auth"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/form"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/service"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/session"
)

const layoutFile = "base.html"

// TemplateCache holds one parsed template set per page. Each set is the
// layout plus the page, so pages can all define "content" without clashing.
type TemplateCache struct {
	cache map[string]*template.Template
}

// NewTemplateCache parses every *.html in fsys except the layout.
func NewTemplateCache(fsys fs.FS) (*TemplateCache, error) {
	pages, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, err
	}

	tc := &TemplateCache{cache: make(map[string]*template.Template)}
	for _, page := range pages {
		name := path.Base(page)
		if name == layoutFile {
			continue
		}
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(fsys, layoutFile, page)
		if err != nil {
			return nil, fmt.Errorf("handler: parsing template %s: %w", name, err)
		}
		tc.cache[name] = tmpl
	}
	return tc, nil
}

// Get returns the page's template set, or nil.
func (tc *TemplateCache) Get(name string) *template.Template {
	return tc.cache[name]
}

var templateFuncs = template.FuncMap{
	"gravatar": Gravatar,
	"money": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
}

// Gravatar returns the avatar URL for email: 100px, rating g, retro
// placeholder.
func Gravatar(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	q := url.Values{}
	q.Set("s", "100")
	q.Set("r", "g")
	q.Set("d", "retro")
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}

// PageData is what every template receives. The base fields are filled in by
// Renderer; handlers set the page fields.
type PageData struct {
	User        *model.User
	IsAdmin     bool
	Flashes     []session.Flash
	CSRFField   template.HTML
	CurrentYear int

	Form   any
	Errors form.Errors
	IsEdit bool

	Product  *model.Product
	Products []model.Product
	Comments []model.Comment
	Cart     *service.Cart

	Status  int
	Message string
}

// Renderer executes page templates with the per-request base data.
type Renderer struct {
	templates *TemplateCache
	sessions  *session.Manager
	logger    *slog.Logger
}

func NewRenderer(templates *TemplateCache, sessions *session.Manager, logger *slog.Logger) *Renderer {
	return &Renderer{templates: templates, sessions: sessions, logger: logger}
}

// Page renders name with status. The page is rendered into a buffer first so
// a template failure still produces a clean 500.
func (rd *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data PageData) {
	tmpl := rd.templates.Get(name)
	if tmpl == nil {
		rd.logger.Error("template not found", slog.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	data.User, _ = auth.CurrentUser(r.Context())
	data.IsAdmin = auth.IsAdmin(data.User)
	data.Flashes = rd.sessions.Flashes(w, r)
	data.CSRFField = csrf.TemplateField(r)
	data.CurrentYear = time.Now().Year()

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		rd.logger.Error("failed to render template",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Flash queues a message for the next rendered page.
func (rd *Renderer) Flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	if err := rd.sessions.AddFlash(w, r, kind, message); err != nil {
		rd.logger.Warn("failed to save flash", slog.String("error", err.Error()))
	}
}
