package main

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionSubject    = "Lyrics Finder Session"
	sessionCookieName = "jwt"
	sessionLifetime   = 7 * 24 * time.Hour
)

func (s *server) loginGet(w http.ResponseWriter, r *http.Request) {
	if s.isLoggedIn(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.renderTemplate(w, http.StatusOK, "login.html", map[string]any{
		"Title":    "Login",
		"Redirect": r.URL.Query().Get("redirect"),
	})
}

func (s *server) loginPost(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		s.renderTemplate(w, http.StatusBadRequest, "login.html", map[string]any{
			"Title": "Login",
			"Error": err.Error(),
		})
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	correctPassword := bcrypt.CompareHashAndPassword([]byte(s.password), []byte(password)) == nil

	if username != s.username || !correctPassword {
		s.renderTemplate(w, http.StatusUnauthorized, "login.html", map[string]any{
			"Title":    "Login",
			"Error":    "Invalid credentials.",
			"Redirect": r.URL.Query().Get("redirect"),
		})
		return
	}

	err = s.startSession(w, r)
	if err != nil {
		s.renderTemplate(w, http.StatusInternalServerError, "login.html", map[string]any{
			"Title": "Login",
			"Error": err.Error(),
		})
		return
	}

	http.Redirect(w, r, localRedirect(r.URL.Query().Get("redirect")), http.StatusSeeOther)
}

func (s *server) logoutGet(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, sessionCookieFor(r, "", -1, time.Time{}))
	http.Redirect(w, r, localRedirect(r.URL.Query().Get("redirect")), http.StatusSeeOther)
}

// startSession signs a week-long session token and sets it as the jwt cookie.
func (s *server) startSession(w http.ResponseWriter, r *http.Request) error {
	now := time.Now()
	expiration := now.Add(sessionLifetime)

	_, signed, err := s.jwtAuth.Encode(map[string]interface{}{
		jwt.SubjectKey:    sessionSubject,
		jwt.IssuedAtKey:   now.Unix(),
		jwt.ExpirationKey: expiration,
	})
	if err != nil {
		return err
	}

	http.SetCookie(w, sessionCookieFor(r, string(signed), 0, expiration))
	return nil
}

// sessionCookieFor builds the jwt cookie. A negative maxAge deletes it.
func sessionCookieFor(r *http.Request, value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Expires:  expires,
		MaxAge:   maxAge,
		Secure:   r.URL.Scheme == "https" || r.TLS != nil,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
}

// localRedirect only lets through paths on this server.
func localRedirect(redirect string) string {
	if !strings.HasPrefix(redirect, "/") || strings.HasPrefix(redirect, "//") || strings.HasPrefix(redirect, "/\\") {
		return "/"
	}
	return redirect
}

func (s *server) mustLoggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.isLoggedIn(r) {
			newPath := "/login?redirect=" + url.QueryEscape(r.URL.String())
			http.Redirect(w, r, newPath, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isLoggedIn reports whether the request carries a verified session token. API tokens
// are not sessions.
func (s *server) isLoggedIn(r *http.Request) bool {
	token, _, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return false
	}

	subject, ok := token.Subject()
	return ok && subject == sessionSubject
}

// mustApiAuth lets JSON requests through with either a session cookie or the API token.
func (s *server) mustApiAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiToken != "" && r.Header.Get("Authorization") == "Token "+s.apiToken {
			next.ServeHTTP(w, r)
			return
		}

		if !s.isLoggedIn(r) {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
