package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fhemview/internal/handlers"
	"fhemview/internal/ingest"
	"fhemview/internal/logger"
	"fhemview/internal/repository"
	"fhemview/internal/rules"
	"fhemview/internal/server"
	"fhemview/internal/service"
	"fhemview/internal/snapshot"

	"github.com/spf13/viper"
)

const defaultRefreshInterval = 5 * time.Minute

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open the user store
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(db)
	source := snapshot.NewFileSource(
		viper.GetString("snapshot.dump"),
		viper.GetString("snapshot.log_dir"),
		log.Named("snapshot"),
	)
	builder := ingest.NewBuilder(
		ingest.NewSeriesIngester(log.Named("ingest")),
		log.Named("ingest"),
		viper.GetString("snapshot.plan_dir"),
	)
	engine, err := newRuleEngine(log)
	if err != nil {
		log.Fatalw("failed to init rule engine", "err", err)
	}
	services := service.NewService(repos, source, builder, engine,
		viper.GetString("auth.signing_key"), log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ingest the first snapshot; later refreshes can still recover
	if err := services.Refresh(ctx); err != nil {
		log.Errorw("initial snapshot failed; serving once a refresh succeeds", "err", err)
	}

	// periodic snapshot refresh
	go services.Run(ctx, refreshInterval())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite user store using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "users.db")
		dbPath = "users.db"
	}
	return repository.InitDB(dbPath)
}

// newRuleEngine builds the engine for the configured site and registers
// the declared rules.
func newRuleEngine(log *logger.Logger) (*rules.Engine, error) {
	zone, err := time.LoadLocation(viper.GetString("location.zone"))
	if err != nil {
		return nil, err
	}
	loc := rules.Location{
		Latitude:  viper.GetFloat64("location.latitude"),
		Longitude: viper.GetFloat64("location.longitude"),
		Zone:      zone,
		DayStart:  viper.GetString("location.day_start"),
		DayEnd:    viper.GetString("location.day_end"),
	}
	engine := rules.NewEngine(loc, log.Named("rules"))

	if path := viper.GetString("rules.file"); path != "" {
		defs, err := rules.LoadRules(path)
		if err != nil {
			return nil, err
		}
		for _, r := range defs {
			engine.Register(r)
		}
		log.Infow("rules registered", "count", engine.Len())
	}
	return engine, nil
}

func refreshInterval() time.Duration {
	if d := viper.GetDuration("snapshot.refresh_interval"); d > 0 {
		return d
	}
	return defaultRefreshInterval
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
