package main

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"gorm.io/gorm"
)

var (
	//go:embed templates/*.html
	templatesFS embed.FS
	templates   = template.Must(template.New("").Funcs(template.FuncMap{
		"excerpt": excerpt,
	}).ParseFS(templatesFS, "templates/*.html"))

	//go:embed assets/*
	assetsFS embed.FS
)

func (s *server) renderTemplate(w http.ResponseWriter, code int, template string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	err := templates.ExecuteTemplate(w, template, data)
	if err != nil {
		slog.Error("serving html", "error", err)
	}
}

func (s *server) renderError(w http.ResponseWriter, code int, reqErr error) {
	data := map[string]interface{}{
		"Title":  fmt.Sprintf("%d %s", code, http.StatusText(code)),
		"Status": code,
	}

	if reqErr != nil {
		slog.Error("serving html", "error", reqErr)
		data["Message"] = reqErr.Error()
	}

	s.renderTemplate(w, code, "error.html", data)
}

// renderDatabaseError answers 404 for missing records and 500 for everything else.
func (s *server) renderDatabaseError(w http.ResponseWriter, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.renderError(w, http.StatusNotFound, err)
		return
	}
	s.renderError(w, http.StatusInternalServerError, err)
}

// pageData starts the data map every page template receives.
func (s *server) pageData(r *http.Request, title string) map[string]interface{} {
	return map[string]interface{}{
		"Title":    title,
		"LoggedIn": s.isLoggedIn(r),
		"Query":    r.URL.Query().Get("q"),
	}
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("serving json", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// excerpt shortens s to n characters followed by "...".
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
