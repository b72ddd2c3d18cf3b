package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	api "github.com/berkeley-cs10/gradeview/internal/api/http"
	auth "github.com/berkeley-cs10/gradeview/internal/auth/middleware"
	"github.com/berkeley-cs10/gradeview/internal/config"
	"github.com/berkeley-cs10/gradeview/internal/db"
	"github.com/berkeley-cs10/gradeview/internal/gradestore"
	"github.com/berkeley-cs10/gradeview/internal/logging"
)

func main() {
	cfg := config.FromEnv()
	log := logging.New(cfg.Mode == config.ModeOffline)
	defer log.Sync()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	store := gradestore.New(dbh, cfg.DBDriver)

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Grade display surfaces
	r.Get("/api/bins", api.GetBinsHandler(cfg.CatalogPath, log))
	r.Get("/api/courses", api.ListCoursesHandler(cfg.CatalogPath, log))
	r.Get("/api/summary/{courseID}", api.GetSummaryHandler(cfg.CatalogPath, store, log))

	// Admin settings surface (JWT → role in context → admin only)
	if cfg.EnableAdminAPI {
		r.Group(func(pr chi.Router) {
			pr.Use(auth.JWTMiddleware(authSvc))
			pr.Use(auth.RequireRole("admin"))
			pr.Get("/api/config", api.GetConfigHandler(cfg.CatalogPath, log))
			pr.Put("/api/config", api.UpdateConfigHandler(cfg.CatalogPath, log))
		})
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Info("listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("mode", string(cfg.Mode)),
		zap.String("db", cfg.DBDriver),
		zap.String("catalog", cfg.CatalogPath))
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
