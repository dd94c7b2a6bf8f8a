package webui

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/L1nMay/scanresults/internal/config"
	"github.com/L1nMay/scanresults/internal/logger"
	"github.com/L1nMay/scanresults/internal/model"
	"github.com/L1nMay/scanresults/internal/query"
	"github.com/L1nMay/scanresults/internal/storage"
)

type Server struct {
	cfg     *config.Config
	queries *query.Service
	notes   storage.NotesStore
}

type NoteRequest struct {
	Text string `json:"text"`
}

func NewServer(cfg *config.Config, queries *query.Service, notes storage.NotesStore) *Server {
	return &Server{
		cfg:     cfg,
		queries: queries,
		notes:   notes,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(withLogging)
	r.Use(withCORS)

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{
			"ok": true,
			"ts": time.Now().UTC(),
		})
	})

	// ---------- Results ----------
	r.Get("/api/results/ip/{ip}", func(w http.ResponseWriter, r *http.Request) {
		s.run(w, query.Request{Kind: query.KindIP, Address: chi.URLParam(r, "ip")})
	})
	r.Get("/api/results/port/{port}", func(w http.ResponseWriter, r *http.Request) {
		s.run(w, query.Request{Kind: query.KindPort, Port: chi.URLParam(r, "port")})
	})
	r.Get("/api/results/filter", func(w http.ResponseWriter, r *http.Request) {
		s.run(w, query.Request{Kind: query.KindFilter, Filters: filtersFrom(r)})
	})
	r.Get("/api/results/{kind}", func(w http.ResponseWriter, r *http.Request) {
		s.run(w, query.Request{Kind: chi.URLParam(r, "kind")})
	})

	// ---------- Attachments ----------
	r.Get("/api/attachments/*", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(chi.URLParam(r, "*"), "/")
		a, err := s.queries.Attachment(parts)
		switch {
		case errors.Is(err, model.ErrInvalidAttachment):
			writeJSON(w, 400, query.Status{Status: "not ok"})
			return
		case errors.Is(err, fs.ErrNotExist):
			http.Error(w, "attachment not found", 404)
			return
		case err != nil:
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", a.ContentType)
		_, _ = w.Write(a.Data)
	})

	// ---------- Notes ----------
	r.Get("/api/notes/{ip}", func(w http.ResponseWriter, r *http.Request) {
		notes, err := s.notes.Notes(chi.URLParam(r, "ip"))
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, 200, notes)
	})
	r.Post("/api/notes/{ip}", func(w http.ResponseWriter, r *http.Request) {
		var req NoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			http.Error(w, "empty note", 400)
			return
		}
		note, err := s.notes.AddNote(chi.URLParam(r, "ip"), req.Text)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusCreated, note)
	})

	if s.cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) run(w http.ResponseWriter, req query.Request) {
	resp, err := s.queries.Run(req)
	switch {
	case errors.Is(err, model.ErrInvalidNetworkSpec):
		http.Error(w, err.Error(), 400)
		return
	case err != nil:
		logger.Errorf("query %s: %v", req.Kind, err)
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, 200, resp)
}

// filtersFrom reads the filter query string. Flags are on only when "true".
func filtersFrom(r *http.Request) query.Filters {
	q := r.URL.Query()
	flag := func(name string) bool { return q.Get(name) == "true" }
	return query.Filters{
		Prefix:      q.Get("prefix"),
		Port:        q.Get("port"),
		Service:     q.Get("service"),
		Vulns:       flag("vulns"),
		Screenshots: flag("screenshots"),
		Notes:       flag("notes"),
		Content:     q.Get("content"),
		Readable:    flag("readable"),
		Writable:    flag("writable"),
	}
}

// ---------- Middleware ----------
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.WithField("request_id", middleware.GetReqID(r.Context())).
			Infof("webui %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
