package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wacky6382/diabetes-risk-calculator/internal/application/dto"
	"github.com/wacky6382/diabetes-risk-calculator/internal/application/usecase"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/service"
	"github.com/wacky6382/diabetes-risk-calculator/internal/infrastructure/audit"
	"github.com/wacky6382/diabetes-risk-calculator/internal/infrastructure/config"
	"github.com/wacky6382/diabetes-risk-calculator/pkg/observability"
)

const serviceName = "riskcalc"

// app holds the wired components for one CLI invocation.
type app struct {
	cfg            *config.Config
	logger         *slog.Logger
	catalog        *service.Catalog
	engine         *service.RiskEngine
	publisher      *audit.LogPublisher
	telemetry      *usecase.Telemetry
	metrics        *observability.Metrics
	shutdownTracer observability.ShutdownFunc
	auditFile      *os.File
}

func loadConfig(g *globalFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if g.modelsFile != "" {
		cfg.ModelsFile = g.modelsFile
	}
	if g.metricsTextfile != "" {
		cfg.MetricsTextfile = g.metricsTextfile
	}
	if g.auditLog != "" {
		cfg.AuditLog = g.auditLog
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	return cfg, nil
}

func newApp(ctx context.Context, cfg *config.Config, stderr io.Writer) (*app, error) {
	a := &app{cfg: cfg}

	a.logger = observability.InitLogger(observability.LogConfig{
		Output: stderr,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if cfg.TracingEnabled() {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			Output:      stderr,
			ServiceName: serviceName,
			Environment: cfg.Environment,
			Exporter:    cfg.TracesExporter,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    cfg.OTLPInsecure,
			CAFile:      cfg.OTLPCertificate,
		})
		if err != nil {
			a.logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			a.shutdownTracer = shutdown
		}
	}

	var err error
	a.metrics, err = observability.InitMetrics(observability.MetricsConfig{
		ServiceName: serviceName,
		Environment: cfg.Environment,
	})
	if err != nil {
		return nil, err
	}

	a.catalog, err = loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := a.catalog.Get(cfg.DefaultModel); err != nil {
		return nil, fmt.Errorf("default model: %w", err)
	}
	a.engine = service.NewRiskEngine(a.catalog)

	var auditOut io.Writer
	if cfg.AuditLog != "" {
		a.auditFile, err = os.OpenFile(cfg.AuditLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("opening audit log: %w", err)
		}
		auditOut = a.auditFile
	}
	a.publisher = audit.NewLogPublisher(auditOut, a.logger)

	a.telemetry, err = usecase.NewTelemetry(a.metrics.Provider.Meter(serviceName))
	if err != nil {
		return nil, err
	}

	a.logger.Debug("riskcalc initialized",
		"environment", cfg.Environment,
		"models", a.catalog.IDs(),
		"default_model", cfg.DefaultModel,
		"traces_exporter", cfg.TracesExporter,
	)

	return a, nil
}

func loadCatalog(cfg *config.Config) (*service.Catalog, error) {
	models := service.BuiltinModels()
	if cfg.ModelsFile != "" {
		loaded, err := config.LoadModels(cfg.ModelsFile, models)
		if err != nil {
			return nil, err
		}
		models = loaded
	}
	return service.NewCatalog(models...)
}

// close flushes metrics and traces and releases the audit log.
func (a *app) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if a.cfg.MetricsTextfile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.metrics.Provider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutting down meter provider: %w", err))
	}
	if a.shutdownTracer != nil {
		if err := a.shutdownTracer(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down tracer provider: %w", err))
		}
	}
	if a.auditFile != nil {
		if err := a.auditFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing audit log: %w", err))
		}
	}
	return errors.Join(errs...)
}

// withApp wires the application, runs fn and tears everything down again.
func withApp(cmd *cobra.Command, g *globalFlags, fn func(ctx context.Context, a *app) error) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); cerr != nil {
			a.logger.Warn("shutdown incomplete", "error", cerr)
		}
	}()

	return fn(ctx, a)
}

func runAssess(cmd *cobra.Command, g *globalFlags, req dto.AssessRiskRequest, targetBMI *float64) error {
	return withApp(cmd, g, func(ctx context.Context, a *app) error {
		req.TargetBMI = a.cfg.TargetBMI
		if targetBMI != nil {
			req.TargetBMI = *targetBMI
		}

		uc := usecase.NewAssessRisk(a.engine, a.publisher, a.telemetry, a.logger, a.cfg.DefaultModel)
		resp, err := uc.Execute(ctx, req)
		if err != nil {
			return err
		}

		if g.json {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		printAssessment(cmd.OutOrStdout(), resp)
		return nil
	})
}

func runCardiovascular(cmd *cobra.Command, g *globalFlags, req dto.AssessCardiovascularRequest) error {
	return withApp(cmd, g, func(ctx context.Context, a *app) error {
		uc := usecase.NewAssessCardiovascular(a.engine, a.publisher, a.telemetry, a.logger)
		resp, err := uc.Execute(ctx, req)
		if err != nil {
			return err
		}

		if g.json {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		printPointScore(cmd.OutOrStdout(), resp)
		return nil
	})
}

func runModels(cmd *cobra.Command, g *globalFlags) error {
	return withApp(cmd, g, func(ctx context.Context, a *app) error {
		models, err := usecase.NewListModels(a.catalog).Execute(ctx, dto.ListModelsRequest{})
		if err != nil {
			return err
		}

		if g.json {
			return printJSON(cmd.OutOrStdout(), models)
		}
		printModels(cmd.OutOrStdout(), models, a.cfg.DefaultModel)
		return nil
	})
}
