package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	"lyricsfinder/internal/lyrics"
	"lyricsfinder/internal/scrape"
	"lyricsfinder/internal/youtube"
)

const databaseFile = "lyrics_finder.db"

type metadataResolver interface {
	Resolve(ctx context.Context, log *slog.Logger, rawURL string) (*youtube.Info, error)
}

type lyricsResolver interface {
	Resolve(ctx context.Context, log *slog.Logger, artist, title string) (*lyrics.Result, error)
}

type config struct {
	DataDir   string
	BaseURL   string
	Username  string
	Password  string
	JWTSecret string
	APIToken  string

	TelegramToken   string
	TelegramChatIDs []int64

	FetchTimeout time.Duration
}

type server struct {
	db       *database
	videos   metadataResolver
	lyrics   lyricsResolver
	notifier *notifier
	jwtAuth  *jwtauth.JWTAuth
	router   chi.Router

	baseURL  string
	username string
	password string
	apiToken string
}

func newServer(cfg *config) (*server, error) {
	err := os.MkdirAll(cfg.DataDir, 0755)
	if err != nil {
		return nil, err
	}

	db, err := newDatabase(filepath.Join(cfg.DataDir, databaseFile))
	if err != nil {
		return nil, err
	}

	n, err := newNotifier(cfg.TelegramToken, cfg.TelegramChatIDs)
	if err != nil {
		db.Close()
		return nil, err
	}

	client := scrape.NewClient(cfg.FetchTimeout)

	s := &server{
		db:       db,
		videos:   youtube.NewResolver(client),
		lyrics:   lyrics.NewResolver(client, scrape.NewWebSearch(client)),
		notifier: n,
		jwtAuth:  jwtauth.New("HS256", []byte(cfg.JWTSecret), nil),
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		password: cfg.Password,
		apiToken: cfg.APIToken,
	}
	s.routes()
	return s, nil
}

func (s *server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(jwtauth.Verifier(s.jwtAuth))

	r.Handle("/assets/*", http.FileServer(http.FS(assetsFS)))

	r.Get("/login", s.loginGet)
	r.Post("/login", s.loginPost)
	r.Get("/logout", s.logoutGet)

	r.Get("/", s.getSongs)
	r.Get("/search", s.getSearch)
	r.Post("/search", s.postSearch)
	r.Get("/songs/{id}", s.getSong)
	r.Get("/api/search/autocomplete", s.getApiAutocomplete)

	r.Group(func(r chi.Router) {
		r.Use(s.mustLoggedIn)

		r.Get("/songs/new", s.getNewSong)
		r.Post("/songs/new", s.postNewSong)
		r.Get("/songs/{id}/edit", s.getEditSong)
		r.Post("/songs/{id}/edit", s.postEditSong)
		r.Get("/songs/{id}/delete", s.getDeleteSong)
		r.Post("/songs/{id}/delete", s.postDeleteSong)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.mustApiAuth)

		r.Post("/api/lyrics", s.postApiLyrics)
		r.Post("/api/preview", s.postApiPreview)
	})

	s.router = r
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *server) Close() error {
	return s.db.Close()
}
