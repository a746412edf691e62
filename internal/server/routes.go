package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"skin_market/pkg/httpx/reply"
	"skin_market/pkg/logx"
	"skin_market/pkg/middlewarex"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Get("/", handler(s.getIndex))

	r.Route("/api", func(r chi.Router) {
		r.Get("/items", handler(s.getItems))
		r.Get("/status", handler(s.getStatus))
		r.Post("/refresh", handler(s.postRefresh))
		r.Get("/runs", handler(s.getRuns))
		r.Post("/calculator", handler(s.postCalculator))
	})
}

// NewRouter wires the middleware chain in front of the routes.
func (s Server) NewRouter(logFieldMaxLen int) http.Handler {
	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
		middlewarex.Metrics,
	)

	s.RegisterRoutes(r)

	return r
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
