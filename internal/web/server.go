package web

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/ivlev/storyreel/internal/config"
	"github.com/ivlev/storyreel/internal/playback"
	"github.com/ivlev/storyreel/internal/render"
	"github.com/ivlev/storyreel/internal/story"
)

type Server struct {
	cfg      *config.Config
	story    *story.Story
	buildErr error
	reg      *render.Registry
	sessions *sessionStore
	page     *template.Template
	mux      *http.ServeMux
}

type Option func(*Server)

// WithClock sets the clock every playback session runs on.
func WithClock(clock playback.Clock) Option {
	return func(s *Server) { s.sessions.clock = clock }
}

// NewServer serves the viewer for st. When st is nil, buildErr explains why
// and every page route answers with the no-content fallback.
func NewServer(cfg *config.Config, st *story.Story, buildErr error, reg *render.Registry, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		story:    st,
		buildErr: buildErr,
		reg:      reg,
		sessions: newSessionStore(playback.RealClock),
		page:     template.Must(template.New("page").Parse(pageTpl)),
		mux:      http.NewServeMux(),
	}
	if s.story == nil && s.buildErr == nil {
		s.buildErr = errors.New("no story built")
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux.HandleFunc("GET /{$}", s.withContent(s.handleIndex))
	s.mux.HandleFunc("GET /api/story", s.withContent(s.handleStory))
	s.mux.HandleFunc("GET /slides/{index}", s.withContent(s.handleSlide))
	s.mux.HandleFunc("POST /api/sessions", s.withContent(s.handleCreateSession))
	s.mux.HandleFunc("GET /api/sessions/{id}", s.withContent(s.handleGetSession))
	s.mux.HandleFunc("DELETE /api/sessions/{id}", s.withContent(s.handleDeleteSession))
	s.mux.HandleFunc("POST /api/sessions/{id}/actions/{action}", s.withContent(s.handleAction))
	s.mux.Handle("GET "+strings.TrimSuffix(cfg.ImagesPrefix, "/")+"/", assetHandler(cfg.ImagesPrefix, cfg.ImagesDir))
	s.mux.Handle("GET "+strings.TrimSuffix(cfg.VideosPrefix, "/")+"/", assetHandler(cfg.VideosPrefix, cfg.VideosDir))
	s.mux.HandleFunc("GET /qr.png", s.handleQR)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close stops every live session's timer.
func (s *Server) Close() {
	s.sessions.closeAll()
}

func (s *Server) withContent(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.story == nil {
			s.noContent(w)
			return
		}
		next(w, r)
	}
}

func (s *Server) noContent(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	if err := s.page.ExecuteTemplate(w, "nocontent", s.buildErr.Error()); err != nil {
		log.Printf("[!] render fallback: %v", err)
	}
}

type pageData struct {
	Meta   story.Meta
	Slides []story.Slide
	Mosaic []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Meta:   s.story.Meta,
		Slides: s.story.Slides,
		Mosaic: s.reg.Mosaic(s.story, render.MosaicSize),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		log.Printf("[!] render page: %v", err)
	}
}

func (s *Server) handleStory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.story)
}

func (s *Server) handleSlide(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || i < 0 || i >= len(s.story.Slides) {
		httpError(w, http.StatusNotFound, "no such slide")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.reg.Render(w, s.story.Meta, s.story.Slides[i]); err != nil {
		log.Printf("[!] render slide %d: %v", i, err)
	}
}

type sessionResponse struct {
	ID string `json:"id"`
	playback.Snapshot
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, c, err := s.sessions.create(s.story.Slides)
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{ID: id, Snapshot: c.Snapshot()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, ok := s.sessions.get(id)
	if !ok {
		httpError(w, http.StatusNotFound, "no such session")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: c.Snapshot()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.remove(r.PathValue("id")) {
		httpError(w, http.StatusNotFound, "no such session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, ok := s.sessions.get(id)
	if !ok {
		httpError(w, http.StatusNotFound, "no such session")
		return
	}

	q := r.URL.Query()
	var err error
	switch name := r.PathValue("action"); name {
	case "jump":
		var i int
		if i, err = strconv.Atoi(q.Get("index")); err != nil {
			httpError(w, http.StatusBadRequest, "index must be an integer")
			return
		}
		err = c.JumpTo(i)
	case "key":
		err = c.Apply(playback.KeyAction(q.Get("key")))
	case "swipe":
		var dx float64
		if dx, err = strconv.ParseFloat(q.Get("dx"), 64); err != nil {
			httpError(w, http.StatusBadRequest, "dx must be a number")
			return
		}
		err = c.Apply(playback.SwipeAction(dx))
	case "tap":
		x, errX := strconv.ParseFloat(q.Get("x"), 64)
		width, errW := strconv.ParseFloat(q.Get("width"), 64)
		if errX != nil || errW != nil {
			httpError(w, http.StatusBadRequest, "x and width must be numbers")
			return
		}
		err = c.Apply(playback.TapAction(x, width))
	default:
		var a playback.Action
		if a, err = playback.ParseAction(name); err == nil {
			err = c.Apply(a)
		}
	}
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap := c.Snapshot()
	log.Printf("[>] session %s %s: %d/%d %s", id, r.PathValue("action"), snap.Index+1, snap.Total, snap.State)
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: snap})
}

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	if s.cfg.PublicURL == "" {
		httpError(w, http.StatusNotFound, "no public url configured")
		return
	}
	png, err := qrcode.Encode(s.cfg.PublicURL, qrcode.Medium, 256)
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=60")
	_, _ = w.Write(png)
}

// assetHandler serves dir read-only under prefix. Directory listings are refused.
func assetHandler(prefix, dir string) http.Handler {
	fs := http.StripPrefix(strings.TrimSuffix(prefix, "/"), http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			httpError(w, http.StatusNotFound, "not found")
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=60")
		fs.ServeHTTP(w, r)
	})
}

func httpError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(msg))
}
