package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	appai "github.com/bryanwahyu/genops-guardian/internal/application/ai"
	"github.com/bryanwahyu/genops-guardian/internal/application/pipeline"
	"github.com/bryanwahyu/genops-guardian/internal/middleware"
)

const maxBodyBytes = 1 << 20

// Options configures the serve-mode router.
type Options struct {
	Root           string
	RunSemgrep     bool
	Token          string
	AllowedOrigins []string
	Log            logrus.FieldLogger
	Metrics        *middleware.Metrics
}

type Router struct {
	pipeline *pipeline.Service
	opts     Options

	// analyzers share the workspace, satu run dalam satu waktu
	mu sync.Mutex
}

// badRequest marks errors that come from the client.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func NewRouter(p *pipeline.Service, opts Options) http.Handler {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = middleware.NewMetrics()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	r := &Router{pipeline: p, opts: opts}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.Logging(opts.Log))
	mux.Use(opts.Metrics.Middleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.BearerToken(opts.Token))

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Get("/metrics", opts.Metrics.Handler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/runs", r.wrap(r.handleRun))
		rt.Post("/detect", r.wrap(r.handleDetect))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var br badRequest
			if errors.As(err, &br) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			r.opts.Log.WithError(err).WithField("path", req.URL.Path).Error("request failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

type runRequest struct {
	Path       string `json:"path"`
	RunSemgrep *bool  `json:"run_semgrep"`
}

func (r *Router) decode(req *http.Request) (runRequest, string, error) {
	var body runRequest
	err := json.NewDecoder(io.LimitReader(req.Body, maxBodyBytes)).Decode(&body)
	if err != nil && !errors.Is(err, io.EOF) {
		return body, "", badRequest{fmt.Errorf("invalid body: %w", err)}
	}
	root, err := middleware.ResolvePath(r.opts.Root, body.Path)
	if err != nil {
		return body, "", badRequest{err}
	}
	return body, root, nil
}

// POST /v1/runs
// Body: {"path": "<relative to root>", "run_semgrep": true}
// Runs the analysis synchronously and returns the outcome. Nothing is posted
// or written; the caller gets the report in the response.
func (r *Router) handleRun(w http.ResponseWriter, req *http.Request) error {
	body, root, err := r.decode(req)
	if err != nil {
		return err
	}
	semgrep := r.opts.RunSemgrep
	if body.RunSemgrep != nil {
		semgrep = *body.RunSemgrep
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.opts.Metrics.RunStarted()
	out := r.pipeline.Analyze(req.Context(), root, semgrep)
	r.opts.Metrics.RunFinished(out.Analysis.FailedCount(), appai.IsFallback(out.Report))

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(out)
}

// POST /v1/detect
// Body: {"path": "<relative to root>"}
func (r *Router) handleDetect(w http.ResponseWriter, req *http.Request) error {
	_, root, err := r.decode(req)
	if err != nil {
		return err
	}
	tags := r.pipeline.Scans.Detect(req.Context(), root)

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{"path": root, "languages": tags})
}
