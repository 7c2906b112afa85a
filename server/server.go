package server

import (
	"errors"
	"net/http"

	"github.com/adrianliechti/furnish/config"
	"github.com/adrianliechti/furnish/pkg/auth"
	"github.com/adrianliechti/furnish/server/api"
	"github.com/adrianliechti/furnish/server/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	*config.Config

	handler http.Handler
}

func New(cfg *config.Config) (*Server, error) {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	apiHandler, err := api.New(cfg)

	if err != nil {
		return nil, err
	}

	webHandler, err := web.New(cfg)

	if err != nil {
		return nil, err
	}

	r.Get("/health", apiHandler.HandleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(authorize(cfg.Authorizers))

		apiHandler.Attach(r)
	})

	webHandler.Attach(r)

	s := &Server{
		Config: cfg,

		handler: otelhttp.NewHandler(r, "http"),
	}

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe() error {
	server := &http.Server{
		Addr: s.Address,

		Handler: s.handler,
	}

	return server.ListenAndServe()
}

// authorize accepts the request if any configured authorizer accepts it. An
// empty authorizer list leaves the API open.
func authorize(authorizers []auth.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(authorizers) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			var lastErr error

			for _, a := range authorizers {
				ctx, err := a.Authenticate(r.Context(), r)

				if err == nil {
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}

				lastErr = err
			}

			if lastErr == nil {
				lastErr = errors.New("unauthorized")
			}

			http.Error(w, lastErr.Error(), http.StatusUnauthorized)
		})
	}
}
