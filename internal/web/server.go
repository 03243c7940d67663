package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"linkdeck/internal/model"
	"linkdeck/internal/store"

	"github.com/starfederation/datastar-go/datastar"
)

//go:embed templates/*.html static/*.css static/*.js
var assetsFS embed.FS

type ServerConfig struct {
	Dir       string
	Workspace string
	ReadOnly  bool
}

type Server struct {
	cfg  ServerConfig
	st   store.Store
	tmpl *template.Template
	bc   *broadcaster
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Dir = strings.TrimSpace(cfg.Dir)
	cfg.Workspace = strings.TrimSpace(cfg.Workspace)
	if cfg.Dir == "" {
		return nil, errors.New("web: dir is empty")
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim": strings.TrimSpace,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	srv := &Server{
		cfg:  cfg,
		st:   store.Store{Dir: cfg.Dir},
		tmpl: tmpl,
	}
	srv.bc = newBroadcaster(srv.st)
	go srv.bc.watchLoop()
	return srv, nil
}

func (s *Server) Close() { s.bc.Stop() }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /static/app.css", s.handleStatic("static/app.css", "text/css; charset=utf-8"))
	mux.HandleFunc("GET /static/app.js", s.handleStatic("static/app.js", "application/javascript; charset=utf-8"))
	mux.HandleFunc("GET /export.json", s.handleExport)
	mux.HandleFunc("GET /{$}", s.handleHome)
	if !s.cfg.ReadOnly {
		mux.HandleFunc("POST /apps", s.handleAppCreate)
		mux.HandleFunc("POST /apps/{appId}/edit", s.handleAppEdit)
		mux.HandleFunc("POST /apps/{appId}/delete", s.handleAppDelete)
		mux.HandleFunc("POST /move", s.handleMove)
		mux.HandleFunc("POST /categories/apply", s.handleCategoriesApply)
		mux.HandleFunc("POST /categories/{categoryId}/delete", s.handleCategoryDelete)
		mux.HandleFunc("POST /import", s.handleImport)
	}
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	fmt.Fprintf(w, `{"ok":true,"workspace":%q}`+"\n", s.cfg.Workspace)
}

func (s *Server) handleStatic(path, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := assetsFS.ReadFile(path)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	}
}

type tabData struct {
	ID     string
	Name   string
	Icon   string
	Active bool
}

type pageData struct {
	Workspace  string
	View       string
	Tabs       []tabData
	Apps       []model.App
	Categories []model.Category
	ReadOnly   bool
	Error      string
}

func (s *Server) pageData(view, errText string) (pageData, error) {
	db, err := s.st.Load()
	if err != nil {
		return pageData{}, err
	}
	if view == "" || (view != model.CategoryAll && !db.HasCategory(view)) {
		view = model.CategoryAll
	}
	tabs := []tabData{{ID: model.CategoryAll, Name: "All", Active: view == model.CategoryAll}}
	for _, c := range db.Categories {
		tabs = append(tabs, tabData{ID: c.ID, Name: c.Name, Icon: c.Icon, Active: view == c.ID})
	}
	var apps []model.App
	for _, a := range db.AppsInView(store.ViewFor(view)) {
		apps = append(apps, *a)
	}
	return pageData{
		Workspace:  s.cfg.Workspace,
		View:       view,
		Tabs:       tabs,
		Apps:       apps,
		Categories: db.Categories,
		ReadOnly:   s.cfg.ReadOnly,
		Error:      errText,
	}, nil
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data, err := s.pageData(r.URL.Query().Get("view"), r.URL.Query().Get("error"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	html, err := s.renderTemplate("page", data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

// handleEvents is the live-update stream: whenever the persisted state
// changes, the main region is re-rendered and patched into the page.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")
	sse := datastar.NewSSE(w, r)

	_ = sse.MarshalAndPatchSignals(map[string]any{"deckVersion": s.bc.currentFingerprint()})

	ch, cancel := s.bc.hub.subscribe()
	defer cancel()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			data, err := s.pageData(view, "")
			if err != nil {
				continue
			}
			// The view itself may have been deleted; follow the page data.
			view = data.View
			html, err := s.renderTemplate("main", data)
			if err != nil {
				continue
			}
			_ = sse.PatchElements(html,
				datastar.WithSelector("#deck-main"),
				datastar.WithMode(datastar.ElementPatchModeOuter))
			_ = sse.MarshalAndPatchSignals(map[string]any{"deckVersion": s.bc.currentFingerprint()})
		}
	}
}

func (s *Server) redirectHome(w http.ResponseWriter, r *http.Request, view, errText string) {
	q := url.Values{}
	if view != "" && view != model.CategoryAll {
		q.Set("view", view)
	}
	if errText != "" {
		q.Set("error", errText)
	}
	target := "/"
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
