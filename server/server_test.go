package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"golang.org/x/crypto/bcrypt"

	"lyricsfinder/internal/lyrics"
	"lyricsfinder/internal/scrape"
	"lyricsfinder/internal/youtube"
)

func init() {
	slog.SetDefault(slog.New(slog.DiscardHandler))
}

type fakeVideos struct {
	info  youtube.Info
	calls int
}

func (f *fakeVideos) Resolve(ctx context.Context, log *slog.Logger, rawURL string) (*youtube.Info, error) {
	f.calls++
	ref, err := youtube.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	info := f.info
	info.VideoID, info.WatchURL = ref.VideoID, ref.WatchURL
	return &info, nil
}

type fakeLyrics struct {
	lyrics      string
	unavailable bool
	calls       int
}

func (f *fakeLyrics) Resolve(ctx context.Context, log *slog.Logger, artist, title string) (*lyrics.Result, error) {
	f.calls++
	log.Info("looking up lyrics", "artist", artist, "title", title)

	if f.lyrics != "" {
		return &lyrics.Result{
			Lyrics: f.lyrics,
			Source: "tekstowo",
			URL:    "https://www.tekstowo.pl/piosenka,kult,arahja.html",
			Attempts: []scrape.Attempt{
				{Source: "tekstowo", Strategy: "direct", Status: scrape.StatusFound},
			},
		}, nil
	}

	status := scrape.StatusNotFound
	if f.unavailable {
		status = scrape.StatusUnavailable
	}
	return &lyrics.Result{
		Attempts: []scrape.Attempt{
			{Source: "tekstowo", Strategy: "direct", Status: status},
			{Source: "genius", Strategy: "direct", Status: status},
		},
	}, lyrics.ErrNotFound
}

const (
	testUsername = "admin"
	testPassword = "hunter2"
	testAPIToken = "api-token"
	testVideoURL = "https://youtu.be/dQw4w9WgXcQ"
)

func newTestServer(t *testing.T, videos *fakeVideos, lyr *fakeLyrics) *server {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	s := &server{
		db:       newTestDatabase(t),
		videos:   videos,
		lyrics:   lyr,
		jwtAuth:  jwtauth.New("HS256", []byte("test-secret"), nil),
		baseURL:  "http://lyrics.test",
		username: testUsername,
		password: string(hash),
		apiToken: testAPIToken,
	}
	s.routes()
	return s
}

func sessionCookie(t *testing.T, s *server) *http.Cookie {
	t.Helper()

	_, signed, err := s.jwtAuth.Encode(map[string]interface{}{
		jwt.SubjectKey: sessionSubject,
	})
	if err != nil {
		t.Fatal(err)
	}
	return &http.Cookie{Name: "jwt", Value: string(signed)}
}

func serve(s *server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func postForm(target string, form url.Values, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func postJSON(target string, body interface{}) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+testAPIToken)
	return req
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, &fakeVideos{}, &fakeLyrics{})

	rec := serve(s, postForm("/login", url.Values{"username": {testUsername}, "password": {"wrong"}}, nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = serve(s, postForm("/login?redirect=%2Fsongs%2Fnew", url.Values{"username": {testUsername}, "password": {testPassword}}, nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login: status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/songs/new" {
		t.Errorf("login redirected to %q", loc)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "jwt" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("no session cookie set")
	}
	if !cookie.HttpOnly || cookie.Path != "/" {
		t.Errorf("session cookie = %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/songs/new", nil)
	req.AddCookie(cookie)
	if rec := serve(s, req); rec.Code != http.StatusOK {
		t.Errorf("add form with session: status = %d", rec.Code)
	}
}

func TestLogout(t *testing.T) {
	s := newTestServer(t, &fakeVideos{}, &fakeLyrics{})

	req := httptest.NewRequest(http.MethodGet, "/logout?redirect=%2Fsongs%2F1", nil)
	req.AddCookie(sessionCookie(t, s))
	rec := serve(s, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/songs/1" {
		t.Errorf("logout: status = %d, location = %q", rec.Code, rec.Header().Get("Location"))
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.Value == "" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie not cleared")
	}
}

func TestForeignTokenIsNotASession(t *testing.T) {
	s := newTestServer(t, &fakeVideos{}, &fakeLyrics{})

	_, signed, err := s.jwtAuth.Encode(map[string]interface{}{
		jwt.SubjectKey: "someone else",
	})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/songs/new", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: string(signed)})
	if rec := serve(s, req); rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
}

func TestLoginRequired(t *testing.T) {
	s := newTestServer(t, &fakeVideos{}, &fakeLyrics{})

	for _, target := range []string{"/songs/new", "/songs/1/edit", "/songs/1/delete"} {
		rec := serve(s, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusSeeOther {
			t.Errorf("GET %s: status = %d, want %d", target, rec.Code, http.StatusSeeOther)
			continue
		}
		if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?redirect=") {
			t.Errorf("GET %s redirected to %q", target, loc)
		}
	}
}

func TestLocalRedirect(t *testing.T) {
	tests := map[string]string{
		"":                     "/",
		"/songs/3":             "/songs/3",
		"//evil.example":       "/",
		"/\\evil.example":      "/",
		"https://evil.example": "/",
	}
	for in, want := range tests {
		if got := localRedirect(in); got != want {
			t.Errorf("localRedirect(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAddSongInvalidURL(t *testing.T) {
	videos, lyr := &fakeVideos{}, &fakeLyrics{}
	s := newTestServer(t, videos, lyr)

	rec := serve(s, postForm("/songs/new", url.Values{
		"youtube_url": {"https://vimeo.com/12345"},
		"title":       {"Arahja"},
		"artist":      {"Kult"},
	}, sessionCookie(t, s)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "Please enter a valid YouTube link.") {
		t.Error("form error not shown")
	}
	if !strings.Contains(rec.Body.String(), `value="Arahja"`) {
		t.Error("submitted values not kept in the form")
	}

	count, err := s.db.CountSongs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("%d songs stored after invalid link", count)
	}
	if videos.calls != 0 || lyr.calls != 0 {
		t.Errorf("resolvers called for an invalid link: videos=%d lyrics=%d", videos.calls, lyr.calls)
	}
}

func TestAddSongFillsFromVideo(t *testing.T) {
	videos := &fakeVideos{info: youtube.Info{
		Title:       "Kult - Arahja (Official Video)",
		ChannelName: "KultVEVO",
		Artist:      "Kult",
		SongTitle:   "Arahja",
	}}
	lyr := &fakeLyrics{lyrics: "W moim magicznym domu"}
	s := newTestServer(t, videos, lyr)

	rec := serve(s, postForm("/songs/new", url.Values{"youtube_url": {testVideoURL}}, sessionCookie(t, s)))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusSeeOther, rec.Body)
	}

	songs, err := s.db.GetSongs(context.Background(), 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(songs) != 1 {
		t.Fatalf("%d songs stored, want 1", len(songs))
	}
	if loc := rec.Header().Get("Location"); loc != songPath(songs[0]) {
		t.Errorf("redirected to %q, want %q", loc, songPath(songs[0]))
	}

	song, err := s.db.GetSong(context.Background(), songs[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if song.Title != "Arahja" || song.Artist != "Kult" {
		t.Errorf("stored %s", song)
	}
	if song.YouTube() == nil || song.YouTube().URL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("audio sources = %v", song.AudioSources)
	}
	if song.Lyrics() == nil || song.Lyrics().Content != "W moim magicznym domu" {
		t.Errorf("text contents = %v", song.TextContents)
	}
}

func TestAddSongWithoutLyrics(t *testing.T) {
	videos, lyr := &fakeVideos{}, &fakeLyrics{}
	s := newTestServer(t, videos, lyr)

	rec := serve(s, postForm("/songs/new", url.Values{
		"youtube_url": {testVideoURL},
		"title":       {"Arahja"},
		"artist":      {"Kult"},
	}, sessionCookie(t, s)))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if videos.calls != 0 {
		t.Errorf("video metadata looked up although title and artist were given")
	}
	if lyr.calls != 1 {
		t.Errorf("lyrics looked up %d times, want 1", lyr.calls)
	}

	song, err := s.db.GetSong(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if song.Lyrics() != nil {
		t.Errorf("lyrics stored: %q", song.Lyrics().Content)
	}
	if song.YouTube() == nil {
		t.Error("youtube link not stored")
	}
}

func TestEditSong(t *testing.T) {
	lyr := &fakeLyrics{}
	s := newTestServer(t, &fakeVideos{}, lyr)
	cookie := sessionCookie(t, s)
	song := addSong(t, s.db, "Arahja", "Kult", "")
	path := songPath(song)

	rec := serve(s, postForm(path+"/edit", url.Values{"title": {""}, "artist": {"Kult"}}, cookie))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing title: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = serve(s, postForm(path+"/edit", url.Values{
		"title":       {"Arahja"},
		"artist":      {"Kult"},
		"youtube_url": {"not a link"},
	}, cookie))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid link: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = serve(s, postForm(path+"/edit", url.Values{
		"title":        {"Arahja"},
		"artist":       {"Kult"},
		"fetch_lyrics": {"1"},
	}, cookie))
	if loc := rec.Header().Get("Location"); loc != path+"/edit?lyrics_error=1" {
		t.Errorf("fetch without result redirected to %q", loc)
	}

	lyr.lyrics = "W moim magicznym domu"
	rec = serve(s, postForm(path+"/edit", url.Values{
		"title":        {"Arahja"},
		"artist":       {"Kult"},
		"fetch_lyrics": {"1"},
	}, cookie))
	if loc := rec.Header().Get("Location"); loc != path+"/edit?lyrics_fetched=1" {
		t.Errorf("fetch with result redirected to %q", loc)
	}

	rec = serve(s, postForm(path+"/edit", url.Values{
		"title":       {"Arahja (live)"},
		"artist":      {"Kult"},
		"youtube_url": {"https://www.youtube.com/watch?v=aaaaaaaaaaa"},
		"lyrics":      {"edited"},
	}, cookie))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != path {
		t.Fatalf("save: status = %d, location = %q", rec.Code, rec.Header().Get("Location"))
	}

	got, err := s.db.GetSong(context.Background(), song.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Arahja (live)" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.TextContents) != 1 || got.Lyrics().Content != "edited" {
		t.Errorf("text contents = %v", got.TextContents)
	}
	if len(got.AudioSources) != 1 || got.VideoID() != "aaaaaaaaaaa" {
		t.Errorf("audio sources = %v", got.AudioSources)
	}
}

func TestDeleteSongHandler(t *testing.T) {
	s := newTestServer(t, &fakeVideos{}, &fakeLyrics{})
	cookie := sessionCookie(t, s)
	song := addSong(t, s.db, "Arahja", "Kult", "lyrics")

	req := httptest.NewRequest(http.MethodGet, songPath(song)+"/delete", nil)
	req.AddCookie(cookie)
	if rec := serve(s, req); rec.Code != http.StatusOK {
		t.Errorf("confirmation page: status = %d", rec.Code)
	}

	rec := serve(s, postForm(songPath(song)+"/delete", nil, cookie))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Errorf("delete: status = %d, location = %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = serve(s, httptest.NewRequest(http.MethodGet, songPath(song), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted song page: status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec = serve(s, postForm(songPath(song)+"/delete", nil, cookie))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSongPages(t *testing.T) {
	s := newTestServer(t, &fakeVideos{}, &fakeLyrics{})
	song := addSong(t, s.db, "Arahja", "Kult", "W moim magicznym domu")

	rec := serve(s, httptest.NewRequest(http.MethodGet, songPath(song), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Arahja", "W moim magicznym domu", "https://www.youtube.com/embed/dQw4w9WgXcQ"} {
		if !strings.Contains(body, want) {
			t.Errorf("song page does not contain %q", want)
		}
	}
	if strings.Contains(body, "/edit") {
		t.Error("edit link shown to anonymous visitor")
	}

	if rec := serve(s, httptest.NewRequest(http.MethodGet, "/songs/abc", nil)); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if rec := serve(s, httptest.NewRequest(http.MethodGet, "/songs/999", nil)); rec.Code != http.StatusNotFound {
		t.Errorf("missing song: status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSongListPagination(t *testing.T) {
	s := newTestServer(t, &fakeVideos{}, &fakeLyrics{})
	for i := 1; i <= pageSize+1; i++ {
		addSong(t, s.db, fmt.Sprintf("Song %03d", i), "Band", "")
	}

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Song 051") || strings.Contains(body, "Song 001") {
		t.Error("first page should list the newest songs only")
	}
	if !strings.Contains(body, `href="/?page=2"`) {
		t.Error("no link to the second page")
	}

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/?page=2", nil))
	if body := rec.Body.String(); !strings.Contains(body, "Song 001") || strings.Contains(body, "Song 002") {
		t.Error("second page should list the oldest song only")
	}
}

func TestNewPagination(t *testing.T) {
	urlFor := func(page int) string { return fmt.Sprintf("/?page=%d", page) }

	tests := []struct {
		query      string
		total      int64
		page       int
		pages      int
		prev, next string
	}{
		{"", 0, 1, 1, "", ""},
		{"page=2", 120, 2, 3, "/?page=1", "/?page=3"},
		{"page=9", 120, 3, 3, "/?page=2", ""},
		{"page=-1", 120, 1, 3, "", "/?page=2"},
		{"page=x", 50, 1, 1, "", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		p := newPagination(r, tt.total, urlFor)
		if p.Page != tt.page || p.Pages != tt.pages || p.PrevURL != tt.prev || p.NextURL != tt.next {
			t.Errorf("%q of %d: got page %d/%d prev %q next %q", tt.query, tt.total, p.Page, p.Pages, p.PrevURL, p.NextURL)
		}
	}
}

func TestSearch(t *testing.T) {
	s := newTestServer(t, &fakeVideos{}, &fakeLyrics{})
	addSong(t, s.db, "Arahja", "Kult", "W moim magicznym domu")
	addSong(t, s.db, "Hello", "Adele", "")

	rec := serve(s, postForm("/search", url.Values{"q": {"magicznym dom"}}, nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if loc != "/search?q=magicznym+dom" {
		t.Errorf("redirected to %q", loc)
	}

	rec = serve(s, httptest.NewRequest(http.MethodGet, loc, nil))
	body := rec.Body.String()
	if !strings.Contains(body, "Arahja") || strings.Contains(body, "Adele") {
		t.Error("search results do not match the lyrics query")
	}
}

func TestApiLyrics(t *testing.T) {
	lyr := &fakeLyrics{}
	s := newTestServer(t, &fakeVideos{}, lyr)
	body := map[string]string{"artist": "Kult", "title": "Arahja"}

	req := postJSON("/api/lyrics", body)
	req.Header.Del("Authorization")
	if rec := serve(s, req); rec.Code != http.StatusUnauthorized {
		t.Errorf("no credentials: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	if rec := serve(s, postJSON("/api/lyrics", map[string]string{"artist": "Kult"})); rec.Code != http.StatusBadRequest {
		t.Errorf("missing title: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	decode := func(rec *httptest.ResponseRecorder) lyricsResponse {
		var resp lyricsResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	rec := serve(s, postJSON("/api/lyrics", body))
	if rec.Code != http.StatusNotFound {
		t.Errorf("not found: status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	resp := decode(rec)
	if resp.Success || len(resp.Attempts) != 2 {
		t.Errorf("not found response: %+v", resp)
	}
	if !strings.Contains(resp.DebugLog, "looking up lyrics") {
		t.Errorf("debug_log = %q", resp.DebugLog)
	}

	lyr.unavailable = true
	rec = serve(s, postJSON("/api/lyrics", body))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("unavailable: status = %d, want %d", rec.Code, http.StatusBadGateway)
	}

	lyr.lyrics = "W moim magicznym domu"
	rec = serve(s, postJSON("/api/lyrics", body))
	if rec.Code != http.StatusOK {
		t.Errorf("found: status = %d, want %d", rec.Code, http.StatusOK)
	}
	resp = decode(rec)
	if !resp.Success || resp.Lyrics != lyr.lyrics || resp.Source != "tekstowo" {
		t.Errorf("found response: %+v", resp)
	}

	count, err := s.db.CountSongs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("lyrics lookup stored %d songs", count)
	}
}

func TestApiPreview(t *testing.T) {
	videos := &fakeVideos{info: youtube.Info{
		Title:       "Kult - Arahja",
		ChannelName: "KultVEVO",
		Description: strings.Repeat("x", 150),
		Thumbnail:   youtube.ThumbnailURL("dQw4w9WgXcQ"),
	}}
	s := newTestServer(t, videos, &fakeLyrics{})

	rec := serve(s, postJSON("/api/preview", map[string]string{"youtube_url": "https://example.com"}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid link: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	req := postJSON("/api/preview", map[string]string{"youtube_url": testVideoURL})
	req.Header.Del("Authorization")
	req.AddCookie(sessionCookie(t, s))
	rec = serve(s, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp previewResponse
	err := json.NewDecoder(rec.Body).Decode(&resp)
	if err != nil {
		t.Fatal(err)
	}
	if resp.VideoID != "dQw4w9WgXcQ" || resp.ChannelName != "KultVEVO" {
		t.Errorf("preview = %+v", resp)
	}
	if resp.Artist != "KultVEVO" || resp.SongTitle != "Kult - Arahja" {
		t.Errorf("suggested %q by %q", resp.SongTitle, resp.Artist)
	}
	if resp.Description != strings.Repeat("x", 100)+"..." {
		t.Errorf("description not shortened: %q", resp.Description)
	}
}

func TestApiAutocomplete(t *testing.T) {
	s := newTestServer(t, &fakeVideos{}, &fakeLyrics{})

	get := func(q string) []suggestion {
		t.Helper()
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/search/autocomplete?q="+url.QueryEscape(q), nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("q=%q: status = %d", q, rec.Code)
		}
		var resp struct {
			Results []suggestion `json:"results"`
		}
		err := json.NewDecoder(rec.Body).Decode(&resp)
		if err != nil {
			t.Fatal(err)
		}
		if resp.Results == nil {
			t.Fatalf("q=%q: results is null", q)
		}
		return resp.Results
	}

	addSong(t, s.db, "Rain", "Metallica", "")
	addSong(t, s.db, "One", "Metallica", "")
	addSong(t, s.db, "November", "Guns N' Roses", "cold november rain")

	if got := get("r"); len(got) != 0 {
		t.Errorf("one character query returned %d results", len(got))
	}

	got := get("rain")
	if len(got) != 2 {
		t.Fatalf("q=rain: %d results, want 2", len(got))
	}
	if got[0].Type != "song" || got[0].Title != "Rain" || got[0].Subtitle != "Song by Metallica" {
		t.Errorf("first result = %+v", got[0])
	}
	if got[1].Type != "lyrics" || got[1].Title != "November" {
		t.Errorf("second result = %+v", got[1])
	}

	got = get("metallica")
	if len(got) != 1 || got[0].Type != "artist" || got[0].Subtitle != "2 songs" || got[0].URL != "/search?q=Metallica" {
		t.Errorf("q=metallica: %+v", got)
	}

	for i := 0; i < 12; i++ {
		addSong(t, s.db, fmt.Sprintf("Storm %d", i), "Weather", "")
	}
	if got := get("storm"); len(got) != autocompleteLimit {
		t.Errorf("q=storm: %d results, want %d", len(got), autocompleteLimit)
	}
}
