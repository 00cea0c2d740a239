package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"Girder/internal/auth"
	"Girder/internal/config"
	"Girder/internal/dashboard"
	"Girder/internal/material"
	"Girder/internal/repo"
	"Girder/internal/session"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(router *mux.Router, db *sql.DB, cfg config.Config, store *session.Store, catalog *material.Catalog, log zerolog.Logger) {
	userRepo := repo.NewPostgresDB(db)
	authEnv := &auth.Env{JWTKey: cfg.TokenKey, Repo: userRepo, Log: log}

	limiter := auth.NewIPRateLimiter(rate.Limit(1), 3)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	loadsH := &dashboard.LoadsHandler{Sessions: store, Log: log}
	sectionH := &dashboard.SectionHandler{}
	checksH := &dashboard.ChecksHandler{Sessions: store, Catalog: catalog}
	stabilityH := &dashboard.StabilityHandler{Sessions: store}
	exportH := &dashboard.ExportHandler{Sessions: store, Log: log}
	reportH := &dashboard.ReportHandler{Sessions: store, Catalog: catalog}
	projectsH := &dashboard.ProjectsHandler{Sessions: store, Repo: userRepo, Log: log}

	secureApi.HandleFunc("/tools/loads/point", loadsH.AddPoint).Methods("POST")
	secureApi.HandleFunc("/tools/loads/distributed", loadsH.AddDistributed).Methods("POST")
	secureApi.HandleFunc("/tools/loads", loadsH.List).Methods("GET")
	secureApi.HandleFunc("/tools/loads/summary", loadsH.Summary).Methods("GET")
	secureApi.HandleFunc("/tools/loads/reset", loadsH.Reset).Methods("POST")
	secureApi.HandleFunc("/tools/loads/diagram", loadsH.Diagram).Methods("POST")
	secureApi.HandleFunc("/tools/loads/diagram.png", loadsH.DiagramPNG).Methods("POST")
	secureApi.HandleFunc("/tools/loads/diagram.txt", loadsH.DiagramASCII).Methods("POST")

	secureApi.HandleFunc("/tools/section/calc", sectionH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/section/outline.png", sectionH.PNG).Methods("POST")

	secureApi.HandleFunc("/tools/check/stress", checksH.Stress).Methods("POST")
	secureApi.HandleFunc("/tools/check/deflection", checksH.Deflection).Methods("POST")
	secureApi.HandleFunc("/tools/check/deformation", checksH.Deformation).Methods("POST")

	secureApi.HandleFunc("/tools/stability/calc", stabilityH.Calc).Methods("POST")

	secureApi.HandleFunc("/tools/export/csv", exportH.CSV).Methods("GET")
	secureApi.HandleFunc("/tools/export/xlsx", exportH.XLSX).Methods("GET")
	secureApi.HandleFunc("/tools/import/xlsx", exportH.ImportXLSX).Methods("POST")

	secureApi.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")

	secureApi.HandleFunc("/projects", projectsH.Save).Methods("POST")
	secureApi.HandleFunc("/projects", projectsH.List).Methods("GET")
	secureApi.HandleFunc("/projects/{id:[0-9]+}", projectsH.Load).Methods("GET")
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration")
	}

	catalog, err := material.Load(cfg.MaterialsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("materials catalog")
	}

	db, err := auth.InitDB(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store := session.NewStore(log, cfg.SessionTTL)
	sweepStop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		store.Run(10*time.Minute, sweepStop)
	}()

	router := mux.NewRouter()
	HandleList(router, db, cfg, store, catalog, log)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: CORS(router),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Str("addr", cfg.ListenAddr).Msg("starting server")
		var err error
		if cfg.TLSCert != "" && cfg.TLSKey != "" {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown")
	}
	close(sweepStop)
	wg.Wait()
	log.Info().Msg("server stopped")
}
