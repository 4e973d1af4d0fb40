// Package app wires the service together: storage, migrations, tracing,
// event emission and the film service, brought up through the startup graph.
package app

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Ramsey-B/dahlia/config"
	filmrepo "github.com/Ramsey-B/dahlia/internal/repositories/film"
	filmsvc "github.com/Ramsey-B/dahlia/internal/services/film"
	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/events"
	"github.com/Ramsey-B/dahlia/pkg/kafka"
	"github.com/Ramsey-B/dahlia/pkg/startup"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
	"github.com/Ramsey-B/dahlia/pkg/tracing/exporters"
)

type App struct {
	DB       database.DB
	Producer *kafka.Producer
	Emitter  *events.Emitter
	Films    *filmsvc.Service

	cfg            *config.Config
	logger         ectologger.Logger
	boot           *startup.Startup
	tracerProvider *sdktrace.TracerProvider
}

func New(cfg *config.Config, logger ectologger.Logger) *App {
	a := &App{
		cfg:    cfg,
		logger: logger,
	}

	boot := startup.New(logger, cfg.StartupMaxAttempts)
	boot.Add(startup.Task{Name: "database", Start: a.startDatabase, Stop: a.stopDatabase})
	boot.Add(startup.Task{Name: "migrations", Requires: []string{"database"}, Start: a.runMigrations})
	boot.Add(startup.Task{Name: "tracing", Start: a.startTracing, Stop: a.stopTracing})
	boot.Add(startup.Task{Name: "kafka", Start: a.startKafka, Stop: a.stopKafka})
	boot.Add(startup.Task{Name: "films", Requires: []string{"database", "migrations", "kafka"}, Start: a.startFilms})
	a.boot = boot

	return a
}

func (a *App) Start(ctx context.Context) error {
	return a.boot.Start(ctx)
}

func (a *App) Stop(ctx context.Context) error {
	return a.boot.Stop(ctx)
}

func (a *App) startDatabase(ctx context.Context) error {
	db, err := database.Connect(ctx, database.ConnectConfig{
		Driver:          a.cfg.DatabaseDriver,
		Host:            a.cfg.DatabaseHost,
		Port:            a.cfg.DatabasePort,
		UserName:        a.cfg.DatabaseUserName,
		Password:        a.cfg.DatabasePassword,
		Name:            a.cfg.DatabaseName,
		SSLMode:         a.cfg.DatabaseSSLMode,
		MaxOpenConns:    a.cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    a.cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: a.cfg.DatabaseConnMaxLifetime,
	}, a.logger)
	if err != nil {
		return err
	}
	a.DB = db
	return nil
}

func (a *App) stopDatabase(ctx context.Context) error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func (a *App) runMigrations(ctx context.Context) error {
	ms := database.NewMigrationService(a.logger, &database.MigrationConfig{
		MigrationFolderPath: a.cfg.DatabaseMigrationFolderPath,
		Version:             uint(a.cfg.DatabaseMigrationVersion),
		Force:               a.cfg.DatabaseMigrationForce,
	})
	return ms.MigrateDatabase(a.cfg.DatabaseName, a.DB)
}

func (a *App) startTracing(ctx context.Context) error {
	if !a.cfg.TracingEnabled {
		return nil
	}

	exporter, err := exporters.New(ctx, exporters.Config{
		Endpoint: a.cfg.TracingOTLPEndpoint,
		Protocol: a.cfg.TracingOTLPProtocol,
		Insecure: true,
	})
	if err != nil {
		return err
	}
	a.tracerProvider = tracing.Init(a.cfg.AppName, exporter)
	return nil
}

func (a *App) stopTracing(ctx context.Context) error {
	if a.tracerProvider == nil {
		return nil
	}
	return a.tracerProvider.Shutdown(ctx)
}

func (a *App) startKafka(ctx context.Context) error {
	if !a.cfg.KafkaEnabled {
		return nil
	}

	a.Producer = kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      a.cfg.KafkaBrokers,
		Topic:        a.cfg.KafkaEventTopic,
		BatchSize:    a.cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(a.cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: a.cfg.KafkaRequiredAcks,
		Compression:  a.cfg.KafkaCompression,
	}, a.logger)
	a.Emitter = events.NewEmitter(a.Producer, a.logger)
	return nil
}

func (a *App) stopKafka(ctx context.Context) error {
	if a.Producer == nil {
		return nil
	}
	return a.Producer.Close()
}

func (a *App) startFilms(ctx context.Context) error {
	repo := filmrepo.NewRepository(a.DB, a.logger)
	a.Films = filmsvc.NewService(repo, a.Emitter, a.logger)
	return nil
}
