package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wathbahs/muraji/pkg/usecase"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases

	staticDir string
}

type Options func(*Server)

// WithStaticDir serves the front-end assets from a local directory
func WithStaticDir(dir string) Options {
	return func(s *Server) {
		s.staticDir = dir
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(loggingMiddleware)
	r.Use(panicRecoveryMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", chatMessageHandler(uc))
		r.Route("/chat/sessions", func(r chi.Router) {
			r.Post("/", createSessionHandler(uc))
			r.Get("/", listSessionsHandler(uc))
			r.Get("/{sessionID}", getSessionHandler(uc))
			r.Delete("/{sessionID}", deleteSessionHandler(uc))
		})

		r.Post("/analyze", analyzeHandler(uc))
		r.Get("/frameworks", frameworksHandler(uc))

		r.Route("/collections", func(r chi.Router) {
			r.Post("/", createCollectionHandler(uc))
			r.Get("/", listCollectionsHandler(uc))
			r.Route("/{collectionID}", func(r chi.Router) {
				r.Delete("/", deleteCollectionHandler(uc))
				r.Post("/documents", uploadDocumentHandler(uc))
				r.Get("/documents", listDocumentsHandler(uc))
				r.Delete("/documents/{documentID}", deleteDocumentHandler(uc))
			})
		})
	})

	if s.staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.staticDir)))
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// respondJSON writes the success envelope. Every payload carries success=true;
// failures go through handleError instead.
func respondJSON(w http.ResponseWriter, status int, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["success"] = true

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
