// Package app wires configuration, storage, services and HTTP handlers
// into a runnable router.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/medtrack-api/internal/config"
	authHandler "github.com/jwalitptl/medtrack-api/internal/handler/auth"
	doctorHandler "github.com/jwalitptl/medtrack-api/internal/handler/doctor"
	"github.com/jwalitptl/medtrack-api/internal/handler/health"
	medicationHandler "github.com/jwalitptl/medtrack-api/internal/handler/medication"
	messageHandler "github.com/jwalitptl/medtrack-api/internal/handler/message"
	patientHandler "github.com/jwalitptl/medtrack-api/internal/handler/patient"
	recordHandler "github.com/jwalitptl/medtrack-api/internal/handler/record"
	sideEffectHandler "github.com/jwalitptl/medtrack-api/internal/handler/sideeffect"
	"github.com/jwalitptl/medtrack-api/internal/middleware"
	"github.com/jwalitptl/medtrack-api/internal/repository"
	"github.com/jwalitptl/medtrack-api/internal/repository/memory"
	"github.com/jwalitptl/medtrack-api/internal/repository/postgres"
	"github.com/jwalitptl/medtrack-api/internal/router"
	"github.com/jwalitptl/medtrack-api/internal/service/adherence"
	authService "github.com/jwalitptl/medtrack-api/internal/service/auth"
	"github.com/jwalitptl/medtrack-api/internal/service/clinical"
	"github.com/jwalitptl/medtrack-api/internal/service/medication"
	"github.com/jwalitptl/medtrack-api/internal/service/messaging"
	"github.com/jwalitptl/medtrack-api/internal/service/scheduling"
	"github.com/jwalitptl/medtrack-api/internal/service/sideeffect"
	"github.com/jwalitptl/medtrack-api/pkg/auth"
	"github.com/jwalitptl/medtrack-api/pkg/metrics"
	"github.com/jwalitptl/medtrack-api/pkg/security"
)

// Repositories is one complete storage backend.
type Repositories struct {
	Tx                repository.TxManager
	Users             repository.UserRepository
	Doctors           repository.DoctorRepository
	Patients          repository.PatientRepository
	Medications       repository.MedicationRepository
	DoseSchedules     repository.DoseScheduleRepository
	MedicationRecords repository.MedicationRecordRepository
	SideEffects       repository.SideEffectRepository
	Messages          repository.MessageRepository
}

func PostgresRepositories(db *sqlx.DB) Repositories {
	return Repositories{
		Tx:                postgres.NewTxManager(db),
		Users:             postgres.NewUserRepository(db),
		Doctors:           postgres.NewDoctorRepository(db),
		Patients:          postgres.NewPatientRepository(db),
		Medications:       postgres.NewMedicationRepository(db),
		DoseSchedules:     postgres.NewDoseScheduleRepository(db),
		MedicationRecords: postgres.NewMedicationRecordRepository(db),
		SideEffects:       postgres.NewSideEffectRepository(db),
		Messages:          postgres.NewMessageRepository(db),
	}
}

func MemoryRepositories(store *memory.Store) Repositories {
	return Repositories{
		Tx:                store.TxManager(),
		Users:             store.Users(),
		Doctors:           store.Doctors(),
		Patients:          store.Patients(),
		Medications:       store.Medications(),
		DoseSchedules:     store.DoseSchedules(),
		MedicationRecords: store.MedicationRecords(),
		SideEffects:       store.SideEffects(),
		Messages:          store.Messages(),
	}
}

// Options overrides the pieces tests need to control.
type Options struct {
	Clock      clock.Clock
	BcryptCost int
}

type App struct {
	Router  *router.Router
	closers []func() error
}

// New connects the configured backends and builds the router.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	a := &App{}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(cfg.Metrics.Namespace, reg)

	var (
		repos  Repositories
		pinger health.Pinger
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		repos = MemoryRepositories(memory.NewStore())
	default:
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		repos = PostgresRepositories(db)
		pinger = db
	}

	revoked, err := a.revocationStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	tokens := auth.NewTokenService(auth.Config{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		Expiry:   cfg.JWT.Expiry(),
	}, opts.Clock, revoked)

	authSvc, err := authService.NewService(repos.Users, security.NewBcryptHasher(opts.BcryptCost), tokens, opts.Clock, m)
	if err != nil {
		a.Close()
		return nil, err
	}
	clinicalSvc := clinical.NewService(repos.Doctors, repos.Patients)
	medicationSvc := medication.NewService(
		repos.Tx,
		repos.Medications,
		repos.DoseSchedules,
		repos.MedicationRecords,
		repos.Patients,
		scheduling.NewScheduler(opts.Clock),
		opts.Clock,
		m,
		medication.Config{RegenerateOnFrequencyChange: cfg.Scheduling.RegenerateOnFrequencyChange},
	)
	adherenceSvc := adherence.NewService(
		repos.Medications,
		repos.DoseSchedules,
		repos.MedicationRecords,
		opts.Clock,
		m,
		adherence.Config{StrictSlotOwnership: cfg.Adherence.StrictSlotOwnership},
	)
	sideEffectSvc := sideeffect.NewService(repos.SideEffects, repos.Patients, repos.Medications, opts.Clock, m)
	messagingSvc := messaging.NewService(repos.Messages, opts.Clock, m)

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	if err := middleware.RegisterValidators(); err != nil {
		a.Close()
		return nil, err
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		cors.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	if len(cfg.CORS.AllowedMethods) > 0 {
		cors.AllowMethods = cfg.CORS.AllowedMethods
	}
	if len(cfg.CORS.AllowedHeaders) > 0 {
		cors.AllowHeaders = cfg.CORS.AllowedHeaders
	}

	a.Router = router.NewRouter(
		middleware.NewAuthMiddleware(authSvc),
		router.Handlers{
			Auth:       authHandler.NewHandler(authSvc),
			Doctor:     doctorHandler.NewHandler(clinicalSvc),
			Patient:    patientHandler.NewHandler(clinicalSvc, medicationSvc),
			Medication: medicationHandler.NewHandler(medicationSvc, adherenceSvc),
			Record:     recordHandler.NewHandler(adherenceSvc),
			SideEffect: sideEffectHandler.NewHandler(sideEffectSvc),
			Message:    messageHandler.NewHandler(messagingSvc),
			Health:     health.NewHandler(pinger, metricsHandler),
		},
		router.RouterConfig{
			Mode:             cfg.Server.Mode,
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RPS),
			RateBurst:        cfg.RateLimit.Burst,
			RateTTL:          cfg.RateLimit.TTL,
			CORSConfig:       cors,
			RequestTimeout:   cfg.Server.RequestTimeout,
			MaxBodyBytes:     cfg.Server.MaxBodyBytes,
			MetricsPrefix:    cfg.Metrics.Namespace,
		},
		reg,
	)
	a.Router.Setup()

	return a, nil
}

func (a *App) revocationStore(ctx context.Context, cfg *config.Config) (auth.RevocationStore, error) {
	if !cfg.Redis.Enabled {
		return auth.NewMemoryRevocationStore(time.Minute), nil
	}

	client, err := auth.NewRedisClient(ctx, auth.RedisConfig{
		URL:      cfg.Redis.URL,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up token revocation: %w", err)
	}
	a.closers = append(a.closers, client.Close)
	return auth.NewRedisRevocationStore(client, nil), nil
}

// Close releases the backends in reverse order of creation.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
