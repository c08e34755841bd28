// Sweeper periodically deletes expired sessions and stale revocation entries.
// Scheduling lives here, outside the core: run one or more sweeper processes;
// cleanup is predicate deletes only, so concurrent runs are safe.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authcore/internal/audit"
	auditrepo "authcore/internal/audit/repository"
	"authcore/internal/config"
	"authcore/internal/db"
	"authcore/internal/identity"
	revocationrepo "authcore/internal/revocation/repository"
	"authcore/internal/security"
	sessionrepo "authcore/internal/session/repository"
	"authcore/internal/session/service"
	"authcore/internal/telemetry"
	otelsetup "authcore/internal/telemetry/otel"
	"authcore/internal/telemetry/producer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("sweeper: DATABASE_URL is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	providers, err := otelsetup.NewProviders(ctx, cfg.OTLPEndpoint, "authcore-sweeper", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	var events telemetry.EventEmitter = otelsetup.NewEventEmitter(providers.LoggerProvider)
	kafkaProducer, err := producer.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.KafkaTopic)
	if err != nil {
		log.Fatalf("kafka: %v", err)
	}
	if kafkaProducer != nil {
		defer kafkaProducer.Close()
		events = kafkaProducer
	}

	tokens, err := security.NewTokenProvider([]byte(cfg.SigningSecret), cfg.Issuer, cfg.Audience, cfg.AccessTTL())
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	manager := service.NewManager(
		sessionrepo.NewPostgresRepository(conn),
		revocationrepo.NewPostgresRegistry(conn),
		identity.NewPostgresDirectory(conn),
		security.NewHasher(cfg.BcryptCost),
		tokens,
		audit.NewLogger(auditrepo.NewPostgresRepository(conn)),
		events,
		cfg.SessionLifetime(),
		cfg.Grace(),
	)

	meter := providers.MeterProvider.Meter("authcore.sweeper")
	sessionsDeleted, err := meter.Int64Counter("authcore.cleanup.sessions_deleted")
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}
	tokensDeleted, err := meter.Int64Counter("authcore.cleanup.tokens_deleted")
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("sweeper: shutting down...")
		cancel()
	}()

	interval := cfg.SweepInterval()
	log.Printf("sweeper: running every %s (grace %s)", interval, cfg.Grace())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		runCtx, runCancel := context.WithTimeout(ctx, 5*time.Minute)
		res, err := manager.CleanupExpiredSessions(runCtx)
		runCancel()
		if err != nil {
			// Retried on the next tick.
			log.Printf("sweeper: cleanup failed: %v", err)
		} else {
			sessionsDeleted.Add(ctx, res.SessionsDeleted)
			tokensDeleted.Add(ctx, res.TokensDeleted)
			log.Printf("sweeper: deleted %d sessions, %d revocation entries", res.SessionsDeleted, res.TokensDeleted)
		}

		select {
		case <-ctx.Done():
			log.Println("sweeper: stopped")
			return
		case <-ticker.C:
		}
	}
}
