package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	auth "Mudcheck/internal/auth"
	alkalinity "Mudcheck/internal/calc/alkalinity"
	export "Mudcheck/internal/calc/export"
	mudcheck "Mudcheck/internal/calc/mudcheck"
	batch "Mudcheck/internal/calc/premium/batch"
	importer "Mudcheck/internal/calc/premium/importer"
	report "Mudcheck/internal/calc/report"
	treatment "Mudcheck/internal/calc/treatment"
	config "Mudcheck/internal/config"
	logging "Mudcheck/internal/logging"
	metrics "Mudcheck/internal/metrics"
	profile "Mudcheck/internal/profile"
	repo "Mudcheck/internal/repo"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		// export and report downloads name their file in Content-Disposition
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

// Deps are the collaborators shared by the route handlers.
type Deps struct {
	Config   config.Config
	Log      *zap.Logger
	Repo     repo.Repository
	Auth     *auth.Authenv
	Registry *prometheus.Registry
}

func HandleList(mux *mux.Router, d Deps) {
	resolver := &repo.Resolver{Repo: d.Repo}
	recorder := metrics.NewRecorder(d.Registry)
	log := d.Log

	limiter := auth.NewIPRateLimiter(rate.Limit(d.Config.RateLimitRPS), d.Config.RateLimitBurst)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	alkalinityH := &alkalinity.Handler{Log: log}
	treatmentH := &treatment.Handler{Profiles: resolver, Log: log}
	mudcheckH := &mudcheck.Handler{Profiles: resolver, Observer: recorder, Log: log}
	batchH := &batch.Handler{Profiles: resolver, Observer: recorder, Workers: d.Config.BatchWorkers, Log: log}
	importH := &importer.Handler{Batch: batchH, Log: log}
	exportH := &export.Handler{Profiles: resolver, Log: log}
	reportH := &report.Handler{Profiles: resolver, Log: log}
	profileH := &profile.ProfileHandler{Repo: d.Repo, Resolver: resolver, Log: log}

	api.HandleFunc("/tools/alkalinity/calc", alkalinityH.Calc).Methods("POST")
	api.HandleFunc("/tools/treatment/calc", treatmentH.Calc).Methods("POST")
	api.HandleFunc("/tools/mudcheck/calc", mudcheckH.Calc).Methods("POST")
	api.HandleFunc("/tools/mudcheck/batch", batchH.Calc).Methods("POST")
	api.HandleFunc("/tools/mudcheck/import", importH.Import).Methods("POST")
	api.HandleFunc("/tools/mudcheck/export", exportH.Export).Methods("POST")
	api.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")

	api.HandleFunc("/calibrations", profileH.List).Methods("GET")
	api.HandleFunc("/calibrations/{name}", profileH.Get).Methods("GET")
	api.HandleFunc("/admin/token", d.Auth.TokenHandler).Methods("POST")

	secureApi := api.PathPrefix("/calibrations").Subrouter()
	secureApi.Use(d.Auth.AdminMiddleware)
	secureApi.HandleFunc("/{name}", profileH.Put).Methods("PUT")

	mux.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})).Methods("GET")
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")
}

// openRepo selects the calibration store named by the configuration and
// seeds it from CALIBRATION_FILE when set.
func openRepo(ctx context.Context, cfg config.Config, log *zap.Logger) (repo.Repository, *sql.DB, error) {
	var (
		r  repo.Repository
		db *sql.DB
	)
	switch cfg.Driver {
	case config.DriverPostgres, config.DriverSQLite:
		var err error
		var sqlRepo *repo.SQLRepository
		if cfg.Driver == config.DriverPostgres {
			db, err = repo.OpenPostgres(ctx, cfg.DatabaseURL)
			if err == nil {
				sqlRepo = repo.NewPostgresCalibrationDB(db)
			}
		} else {
			db, err = repo.OpenSQLite(cfg.SQLitePath)
			if err == nil {
				sqlRepo = repo.NewSQLiteCalibrationDB(db)
			}
		}
		if err != nil {
			return nil, nil, err
		}
		if err := sqlRepo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		r = sqlRepo
	default:
		r = repo.NewMemoryRepository()
	}
	driver := string(cfg.Driver)
	if driver == "" {
		driver = "memory"
	}
	log.Info("calibration store ready", zap.String("driver", driver))

	if cfg.CalibrationFile != "" {
		cals, err := config.LoadCalibrations(cfg.CalibrationFile)
		if err != nil {
			if db != nil {
				db.Close()
			}
			return nil, nil, err
		}
		if err := repo.Seed(ctx, r, cals); err != nil {
			if db != nil {
				db.Close()
			}
			return nil, nil, err
		}
		log.Info("calibrations seeded", zap.String("file", cfg.CalibrationFile), zap.Int("count", len(cals)))
	}
	return r, db, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	log := logging.Must(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	if !cfg.DotenvLoaded {
		log.Debug("no .env file, using process environment")
	}

	calRepo, db, err := openRepo(ctx, cfg, log)
	if err != nil {
		log.Fatal("calibration store unavailable", zap.Error(err))
	}
	if db != nil {
		defer db.Close()
	}

	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), AdminHash: []byte(cfg.AdminHash), Log: log}
	if !authEnv.Enabled() {
		log.Warn("TOKEN_KEY or ADMIN_PASSWORD_HASH not set, calibration writes disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	mux := mux.NewRouter()
	HandleList(mux, Deps{Config: cfg, Log: log, Repo: calRepo, Auth: authEnv, Registry: registry})
	handler := CORS(mux)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("starting server", zap.String("addr", cfg.Addr), zap.Bool("tls", cfg.TLS()))
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	wg.Wait()
	log.Info("server stopped")
}
