package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/broker"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense/database"
	"github.com/frahmantamala/expense-tracker/internal/transport/mcpserver"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// Dependencies holds everything built once at process start and shared by the
// stdio and HTTP adapters.
type Dependencies struct {
	Config     *internal.Config
	Logger     *slog.Logger
	DB         *gorm.DB
	EventBus   *events.EventBus
	Publisher  *broker.Publisher
	Expenses   *expense.Service
	Categories *category.Source
	Registry   *prometheus.Registry
	Metrics    *mcpserver.Metrics
}

func initLogger(cfg *internal.Config) *slog.Logger {
	return logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format, os.Stderr).
		With("app", cfg.App.Name, "env", cfg.App.Env)
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := initLogger(cfg)

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	deps := &Dependencies{
		Config:     cfg,
		Logger:     log,
		DB:         db,
		EventBus:   events.NewEventBus(log),
		Categories: category.NewSource(cfg.Categories.Path, log),
	}

	deps.EventBus.SubscribeAll(events.ExpenseEventTypes, func(ctx context.Context, event events.Event) error {
		log.DebugContext(ctx, "expense event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})

	if cfg.Events.AMQP.Enabled {
		publisher, err := broker.Dial(cfg.Events.AMQP, log)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to connect to broker: %w", err)
		}
		publisher.Subscribe(deps.EventBus)
		deps.Publisher = publisher
		log.Info("publishing expense events", "exchange", cfg.Events.AMQP.Exchange)
	}

	if cfg.Observability.Metrics.Enabled {
		deps.Registry = prometheus.NewRegistry()
		deps.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		if sqlDB, err := db.DB(); err == nil {
			deps.Registry.MustRegister(collectors.NewDBStatsCollector(sqlDB, "expenses"))
		}
		deps.Metrics = mcpserver.NewMetrics(deps.Registry)
	}

	deps.Expenses = expense.NewService(database.NewExpenseRepository(db), deps.EventBus, log)

	log.Info("dependencies initialized",
		"driver", cfg.Database.Driver,
		"database", cfg.Database.Source,
		"categories", cfg.Categories.Path)

	return deps, nil
}

func (d *Dependencies) NewMCPServer() *server.MCPServer {
	return mcpserver.NewServer(d.Expenses, d.Categories, mcpserver.Options{
		Name:    d.Config.App.Name,
		Version: d.Config.App.Version,
		Metrics: d.Metrics,
		Logger:  d.Logger,
	})
}

func (d *Dependencies) Close() {
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			d.Logger.Error("broker close error", "error", err)
		}
	}
	if d.DB != nil {
		if err := database.Close(d.DB); err != nil {
			d.Logger.Error("database close error", "error", err)
		}
	}
}
