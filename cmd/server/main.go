// Command server runs the precinct records backend.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	applicationhandler "precinct/internal/application/handler"
	applicationservice "precinct/internal/application/service"
	applicationstore "precinct/internal/application/store"
	crimehandler "precinct/internal/crime/handler"
	crimeservice "precinct/internal/crime/service"
	crimestore "precinct/internal/crime/store"
	datarulehandler "precinct/internal/datarules/handler"
	daruleservice "precinct/internal/datarules/service"
	darulestore "precinct/internal/datarules/store"
	"precinct/internal/jwtauth"
	officerhandler "precinct/internal/officer/handler"
	officerservice "precinct/internal/officer/service"
	officerstore "precinct/internal/officer/store"
	"precinct/internal/platform/config"
	"precinct/internal/platform/httpserver"
	"precinct/internal/platform/logger"
	"precinct/internal/platform/postgres"
	redisplatform "precinct/internal/platform/redis"
	sessionhandler "precinct/internal/session/handler"
	sessionservice "precinct/internal/session/service"
	sessionstore "precinct/internal/session/store"
	"precinct/pkg/platform/audit"
	auditkafka "precinct/pkg/platform/audit/sink/kafka"
	auditmemory "precinct/pkg/platform/audit/store/memory"
	auditpostgres "precinct/pkg/platform/audit/store/postgres"
	auditworker "precinct/pkg/platform/audit/worker"
	authmw "precinct/pkg/platform/middleware/auth"
	"precinct/pkg/platform/middleware/metadata"
	"precinct/pkg/platform/middleware/requestid"
	"precinct/pkg/platform/middleware/requesttime"
)

const (
	auditInboxSize  = 1024
	sessionCacheTTL = 30 * time.Minute
	shutdownTimeout = 15 * time.Second
)

func main() {
	logg := logger.New()
	if err := run(logg); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logg *slog.Logger) error {
	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage backends. Every store has an in-memory fallback so the server
	// runs without external services in development.
	db, err := postgres.Open(ctx, cfg.PostgresURL)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	var pool *pgxpool.Pool
	if cfg.PostgresURL != "" {
		pool, err = pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	redisClient, err := redisplatform.New(config.RedisFromEnv())
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Audit pipeline: bounded inbox, background worker, optional Kafka sink.
	inbox := make(chan audit.Event, auditInboxSize)
	publisher := audit.NewPublisher(inbox, logg)

	var auditStore audit.Store
	if db != nil {
		auditStore = auditpostgres.New(db)
	} else {
		auditStore = auditmemory.New()
	}

	var sink auditworker.Sink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := auditkafka.New(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sink = kafkaSink
	}
	worker := auditworker.New(auditStore, sink, inbox, logg)

	// Sessions.
	var sessStore sessionstore.Store
	if pool != nil {
		sessStore = sessionstore.NewPostgres(pool)
	} else {
		sessStore = sessionstore.NewInMemory()
	}
	var sessCache sessionservice.Cache
	if redisClient != nil {
		sessCache = sessionstore.NewRedisCache(redisClient.Client, sessionCacheTTL)
	}
	sessService := sessionservice.New(sessStore, sessCache, logg, sessionservice.NewMetrics())
	sessHandler := sessionhandler.New(sessService, logg)

	// Tokens.
	jwtService := jwtauth.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	validator := jwtauth.NewMiddlewareAdapter(jwtService)

	var revocations interface {
		IsTokenRevoked(ctx context.Context, jti string) (bool, error)
		Revoke(ctx context.Context, jti string, ttl time.Duration) error
	}
	if redisClient != nil {
		revocations = jwtauth.NewRedisRevocationStore(redisClient.Client)
	} else {
		revocations = jwtauth.NewMemoryRevocationStore()
	}

	// Officers.
	var offStore officerstore.Store
	if db != nil {
		offStore = officerstore.NewPostgres(db)
	} else {
		offStore = officerstore.NewInMemory()
	}
	offService := officerservice.New(
		offStore, sessService, jwtService, revocations, publisher,
		logg, officerservice.NewMetrics(), cfg.TokenTTL,
	)
	offHandler := officerhandler.New(offService, logg)

	// Records. The data-rule service doubles as the taxonomy check for crime
	// records and applications, so it is wired first.
	var ruleStore darulestore.Store
	if db != nil {
		ruleStore = darulestore.NewPostgres(db)
	} else {
		ruleStore = darulestore.NewInMemory()
	}
	ruleService := daruleservice.New(ruleStore, publisher, logg)
	ruleHandler := datarulehandler.New(ruleService, logg)

	var crStore crimestore.Store
	if db != nil {
		crStore = crimestore.NewPostgres(db)
	} else {
		crStore = crimestore.NewInMemory()
	}
	crService := crimeservice.New(crStore, ruleService, publisher, logg)
	crHandler := crimehandler.New(crService, logg)

	var appStore applicationstore.Store
	if db != nil {
		appStore = applicationstore.NewPostgres(db)
	} else {
		appStore = applicationstore.NewInMemory()
	}
	appService := applicationservice.New(appStore, ruleService, publisher, logg)
	appHandler := applicationhandler.New(appService, logg)

	// Router.
	router := chi.NewRouter()
	router.Use(requestid.Middleware)
	router.Use(requesttime.Middleware)
	router.Use(metadata.ClientMetadata)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		offHandler.RegisterPublic(r)

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAuth(validator, revocations, logg))
			r.Use(sessionhandler.TrackActivity(sessService))
			offHandler.Register(r)
			sessHandler.Register(r)
			crHandler.Register(r)
			appHandler.Register(r)
			ruleHandler.Register(r)
		})
	})

	server := httpserver.New(cfg.Addr, router)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return worker.Run(ctx)
	})
	group.Go(func() error {
		logg.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		logg.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
