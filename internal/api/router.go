package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	auth "github.com/scoremitra/scoremitra/internal/auth/middleware"
	"github.com/scoremitra/scoremitra/internal/config"
	"github.com/scoremitra/scoremitra/internal/percentile"
	"github.com/scoremitra/scoremitra/internal/rbac"
	"github.com/scoremitra/scoremitra/internal/submission"
	"github.com/scoremitra/scoremitra/internal/testbank"
)

// NewRouter wires every endpoint. Auth is required for everything except
// login and the health probe.
func NewRouter(cfg config.Config, authSvc *auth.AuthService, tests testbank.Store, subs *submission.Service, est *percentile.Estimator) http.Handler {
	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/auth/login", auth.LoginHandler(authSvc))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("test:view")).Get("/tests", ListTestsHandler(tests))
		pr.With(rbac.Require("test:view")).Get("/tests/{testID}", GetTestHandler(tests))
		pr.With(rbac.Require("test:admin")).Post("/tests", CreateTestHandler(tests))
		pr.With(rbac.Require("test:view")).Get("/tests/{testID}/keys", GetKeysHandler(tests))
		pr.With(rbac.Require("test:admin")).Put("/tests/{testID}/keys", PutKeysHandler(tests))

		pr.With(rbac.Require("submission:create")).Post("/submissions", CreateSubmissionHandler(subs, tests))
		pr.With(rbac.Require("submission:view-own")).Get("/submissions", ListSubmissionsHandler(subs))
		pr.With(rbac.Require("submission:view-own")).Get("/submissions/{submissionID}", GetSubmissionHandler(subs))
		pr.With(rbac.Require("submission:view-own")).Get("/submissions/{submissionID}/diagnostics", DiagnosticsHandler(subs))

		pr.With(rbac.Require("percentile:view")).Get("/percentile", PercentileHandler(est))
	})
	return r
}
