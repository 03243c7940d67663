package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"linkdeck/internal/favicon"
	"linkdeck/internal/model"
	"linkdeck/internal/store"
)

const maxImportBytes = 8 << 20

func (s *Server) handleAppCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	view := r.FormValue("view")
	name := strings.TrimSpace(r.FormValue("name"))
	rawURL := strings.TrimSpace(r.FormValue("url"))
	icon := strings.TrimSpace(r.FormValue("icon"))
	category := strings.TrimSpace(r.FormValue("category"))
	if rawURL == "" {
		s.redirectHome(w, r, view, "url is required")
		return
	}
	if name == "" || icon == "" {
		// Best-effort prefill from the page itself.
		ctx, cancel := context.WithTimeout(r.Context(), 4*time.Second)
		defer cancel()
		if meta, err := favicon.New().Fetch(ctx, rawURL); err == nil {
			if name == "" {
				name = meta.Title
			}
			if icon == "" {
				icon = meta.IconURL
			}
		}
	}
	if name == "" {
		s.redirectHome(w, r, view, "name is required")
		return
	}

	db, err := s.st.Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	a := model.App{Name: name, URL: rawURL, Icon: icon, CategoryID: category}
	if v := r.FormValue("clip"); v != "" {
		clip := v == "on" || v == "true"
		a.Clip = &clip
	}
	if _, err := s.st.AddApp(r.Context(), db, a); err != nil {
		s.redirectHome(w, r, view, err.Error())
		return
	}
	s.bc.poke()
	s.redirectHome(w, r, view, "")
}

func (s *Server) handleAppEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	view := r.FormValue("view")
	id := r.PathValue("appId")

	db, err := s.st.Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	cur, ok := db.FindApp(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	next := *cur
	if v := strings.TrimSpace(r.FormValue("name")); v != "" {
		next.Name = v
	}
	if v := strings.TrimSpace(r.FormValue("url")); v != "" {
		next.URL = v
	}
	if v := strings.TrimSpace(r.FormValue("icon")); v != "" {
		next.Icon = v
	}
	if r.Form.Has("category") {
		next.CategoryID = strings.TrimSpace(r.FormValue("category"))
	}
	if r.Form.Has("clip") {
		clip := r.FormValue("clip") == "on" || r.FormValue("clip") == "true"
		next.Clip = &clip
	}
	if err := s.st.EditApp(r.Context(), db, next); err != nil {
		s.redirectHome(w, r, view, err.Error())
		return
	}
	s.bc.poke()
	s.redirectHome(w, r, view, "")
}

func (s *Server) handleAppDelete(w http.ResponseWriter, r *http.Request) {
	view := r.FormValue("view")
	id := r.PathValue("appId")

	db, err := s.st.Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if _, ok := db.FindApp(id); !ok {
		http.NotFound(w, r)
		return
	}
	if err := s.st.DeleteApp(r.Context(), db, id); err != nil {
		s.redirectHome(w, r, view, err.Error())
		return
	}
	s.bc.poke()
	s.redirectHome(w, r, view, "")
}

// handleMove reorders one app onto another's position within a view. The
// browser applies the drop optimistically; this endpoint persists it.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	source := strings.TrimSpace(r.FormValue("source"))
	target := strings.TrimSpace(r.FormValue("target"))
	view := strings.TrimSpace(r.FormValue("view"))
	if source == "" || target == "" {
		http.Error(w, "source and target are required", http.StatusBadRequest)
		return
	}

	db, err := s.st.Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	moved, err := s.st.CommitMove(r.Context(), db, store.ViewFor(view), source, target)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if moved {
		s.bc.poke()
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{"moved": moved})
}

func (s *Server) handleCategoriesApply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var next []model.Category
	if err := json.Unmarshal([]byte(r.FormValue("categories")), &next); err != nil {
		http.Error(w, "categories: "+err.Error(), http.StatusBadRequest)
		return
	}
	filter := strings.TrimSpace(r.FormValue("filter"))

	db, err := s.st.Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	redirect, err := s.st.ApplyCategories(r.Context(), db, next, filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.bc.poke()
	view := filter
	if redirect != "" {
		view = redirect
	}
	s.redirectHome(w, r, view, "")
}

func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("categoryId")
	filter := strings.TrimSpace(r.FormValue("filter"))

	db, err := s.st.Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !db.HasCategory(id) {
		http.NotFound(w, r)
		return
	}
	var next []model.Category
	for _, c := range db.Categories {
		if c.ID != id {
			next = append(next, c)
		}
	}
	redirect, err := s.st.ApplyCategories(r.Context(), db, next, filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.bc.poke()
	view := filter
	if redirect != "" {
		view = redirect
	}
	s.redirectHome(w, r, view, "")
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	db, err := s.st.Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	b, err := store.ExportJSON(db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="linkdeck-export.json"`)
	_, _ = w.Write(b)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")

	var b []byte
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportBytes); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f, _, ferr := r.FormFile("file")
		if ferr != nil {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, err = io.ReadAll(io.LimitReader(f, maxImportBytes))
	} else {
		b, err = io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	db, err := s.st.Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.st.ImportReplace(r.Context(), db, b); err != nil {
		if errors.Is(err, store.ErrImportParse) || errors.Is(err, store.ErrImportInvalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.bc.poke()
	s.redirectHome(w, r, view, "")
}
