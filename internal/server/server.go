package server

import (
	"database/sql"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"blog/internal/config"
	"blog/internal/models"
	"blog/internal/notify"
)

type Server struct {
	DB       *sql.DB
	Log      *slog.Logger
	Notifier notify.Notifier

	MediaDir  string
	StaticDir string

	tmpl map[string]*template.Template
	mux  http.Handler

	CookieName string
	SessionTTL time.Duration
}

func New(db *sql.DB, notifier notify.Notifier, logger *slog.Logger, cfg config.Config) (*Server, error) {
	templates := map[string]*template.Template{}
	layout := filepath.Join(cfg.TemplateDir, "layout.html")
	pages, err := filepath.Glob(filepath.Join(cfg.TemplateDir, "*.html"))
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		if filepath.Base(page) == "layout.html" {
			continue
		}
		t, err := template.ParseFiles(layout, page)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		templates[name] = t
	}
	s := &Server{
		DB:         db,
		Log:        logger,
		Notifier:   notifier,
		MediaDir:   cfg.MediaDir,
		StaticDir:  cfg.StaticDir,
		tmpl:       templates,
		CookieName: cfg.CookieName,
		SessionTTL: cfg.SessionTTL,
	}
	s.mux = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", s.handleIndex)
	mux.HandleFunc("/post/{title}", s.handlePost)
	mux.HandleFunc("/contact", s.staticPage("contact"))
	mux.HandleFunc("/about", s.staticPage("about"))
	mux.HandleFunc("/services", s.staticPage("services"))
	mux.HandleFunc("/category/{name}", s.handleCategory)
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/create", s.requireAuth(s.handleCreate))
	mux.HandleFunc("/subscribe", s.handleSubscribe)
	mux.HandleFunc("/profile", s.requireAuth(s.handleProfile))
	mux.HandleFunc("/update_profile", s.requireAuth(s.handleUpdateProfile))
	mux.HandleFunc("/register", s.handleRegister)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/password_change", s.requireAuth(s.handlePasswordChange))
	mux.HandleFunc("/password_change/done", s.requireAuth(s.handlePasswordChangeDone))
	mux.Handle("/media/", http.StripPrefix("/media/", http.FileServer(http.Dir(s.MediaDir))))
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.StaticDir))))
	return mux
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data map[string]any) {
	t, ok := s.tmpl[name]
	if !ok {
		s.Log.Error("template not found", "name", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		s.Log.Error("render template", "name", name, "error", err)
	}
}

// baseData assembles the context every page shares: the current user,
// any pending flash message and the two sidebar category columns.
func (s *Server) baseData(w http.ResponseWriter, r *http.Request) map[string]any {
	data := map[string]any{
		"User":   s.currentUser(r),
		"Errors": map[string]string{},
		"Cats1":  []models.Category{},
		"Cats2":  []models.Category{},
	}
	if kind, msg, ok := s.popFlash(w, r); ok {
		data["FlashKind"] = kind
		data["Flash"] = msg
	}
	cats, err := models.ListCategories(s.DB)
	if err != nil {
		s.Log.Error("list categories", "error", err)
		return data
	}
	first, second := splitCategories(cats)
	data["Cats1"] = first
	data["Cats2"] = second
	return data
}

// splitCategories halves the category list for the two sidebar
// columns: the first column gets the first len/2 entries, the second
// gets the rest, original order preserved.
func splitCategories(cats []models.Category) ([]models.Category, []models.Category) {
	half := len(cats) / 2
	return cats[:half], cats[half:]
}

func (s *Server) staticPage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, name, s.baseData(w, r))
	}
}

func (s *Server) serverError(w http.ResponseWriter, what string, err error) {
	s.Log.Error(what, "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

const flashCookie = "flash"

func (s *Server) setFlash(w http.ResponseWriter, kind, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + msg),
		Path:     "/",
		HttpOnly: true,
	})
}

func (s *Server) popFlash(w http.ResponseWriter, r *http.Request) (kind, msg string, ok bool) {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return "", "", false
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return "", "", false
	}
	kind, msg, found := strings.Cut(v, "|")
	if !found {
		return "", "", false
	}
	return kind, msg, true
}
