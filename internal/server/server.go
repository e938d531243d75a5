// Package server wires the HTTP routes and runs the AgroSim service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"AgroSim/internal/auth"
	"AgroSim/internal/calc/importer"
	"AgroSim/internal/calc/payback"
	"AgroSim/internal/calc/report"
	"AgroSim/internal/config"
	"AgroSim/internal/logging"
	"AgroSim/internal/profile"
	"AgroSim/internal/repo"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+logging.RequestIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", logging.RequestIDHeader+", Content-Disposition")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Routes builds the router. users may be nil when auth is disabled.
func Routes(cfg *config.Config, logger *zap.Logger, users repo.Repository) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	}).Methods("GET")

	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.Auth.RateLimit), cfg.Auth.RateBurst)
	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	user := api.PathPrefix("/user").Subrouter()
	if cfg.Auth.Enabled {
		authEnv := &auth.Authenv{JWTkey: []byte(cfg.Auth.TokenKey), Repo: users, Secure: cfg.Server.TLS()}
		if cfg.Server.AuthDir != "" {
			authFileServer := http.FileServer(http.Dir(cfg.Server.AuthDir))
			router.PathPrefix("/auth/").
				Handler(authEnv.RedirectIfLoggedIn(http.StripPrefix("/auth", authFileServer)))
		}
		api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
		api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
		user.Use(authEnv.AuthMiddleware)
		profileH := &profile.ProfileHandler{Repo: users}
		user.HandleFunc("/profile", profileH.GetProfile).Methods("GET")
		user.HandleFunc("/profile/{id:[0-9]+}", profileH.GetProfile).Methods("GET")
	}

	paybackH := &payback.Handler{}
	reportH := &report.Handler{}
	importH := &importer.Handler{MaxBytes: cfg.MaxUploadBytes()}

	user.HandleFunc("/tools/payback/calc", paybackH.Calc).Methods("POST")
	user.HandleFunc("/tools/payback/report/pdf", reportH.PDF).Methods("POST")
	user.HandleFunc("/tools/payback/report/xlsx", reportH.Workbook).Methods("POST")
	user.HandleFunc("/tools/payback/import", importH.Scenario).Methods("POST")

	if cfg.Server.StaticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.Server.StaticDir)))
	}

	return logging.Middleware(logger)(CORS(router))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	shutdownTimeout, err := time.ParseDuration(cfg.Server.ShutdownTimeout)
	if err != nil {
		return fmt.Errorf("shutdown_timeout: %w", err)
	}

	var users repo.Repository
	if cfg.Auth.Enabled {
		db, err := repo.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns)
		if err != nil {
			return err
		}
		defer db.Close()
		pg := repo.NewPostgresUserDB(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("users schema: %w", err)
		}
		users = pg
	} else {
		logger.Warn("authentication disabled, tool routes are public")
	}

	if cfg.Server.StaticDir != "" {
		if _, err := os.Stat(cfg.Server.StaticDir); err != nil {
			logger.Warn("static directory unavailable", zap.String("dir", cfg.Server.StaticDir), zap.Error(err))
		}
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           Routes(cfg, logger, users),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Server.Addr), zap.Bool("tls", cfg.Server.TLS()))
		if cfg.Server.TLS() {
			errc <- server.ListenAndServeTLS(cfg.Server.TLSCert, cfg.Server.TLSKey)
		} else {
			errc <- server.ListenAndServe()
		}
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, closing active connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
