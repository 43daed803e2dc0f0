package container

import (
	"fmt"
	"log/slog"

	"roundness-meter/config"
	app "roundness-meter/internal/application"
	"roundness-meter/internal/domain/port"
	"roundness-meter/internal/infrastructure/report"
	"roundness-meter/internal/infrastructure/storage"
	"roundness-meter/internal/infrastructure/vision"
)

type Container struct {
	UserService        *app.UserService
	MeasurementService *app.MeasurementService
	BatchService       *app.BatchService
	Measurements       port.MeasurementRepository

	closers []func() error
}

// Deps адаптеры, из которых собираются сервисы
type Deps struct {
	Users        port.UserRepository
	Extractor    port.ContourExtractor
	Renderer     port.Renderer
	Viewer       port.Viewer
	Measurements port.MeasurementRepository
	Report       port.ReportWriter
}

func New(cfg *config.Config, deps Deps, logger *slog.Logger) *Container {
	userService := app.NewUserService(deps.Users)

	opts := app.MeasureOptions{
		Filter:               cfg.ContourFilter(),
		CircularityThreshold: cfg.CircularityThreshold,
		ApproxRatio:          cfg.ApproxRatio,
		Workers:              cfg.Workers,
	}
	measurementService := app.NewMeasurementService(deps.Extractor,
		app.WithMeasureOptions(opts),
		app.WithRenderer(deps.Renderer),
		app.WithLogger(logger),
	)

	batchOpts := []app.BatchOption{
		app.WithWorkers(cfg.Workers),
		app.WithBatchLogger(logger),
	}
	if deps.Viewer != nil {
		batchOpts = append(batchOpts, app.WithViewer(deps.Viewer))
	}
	if deps.Measurements != nil {
		batchOpts = append(batchOpts, app.WithRepository(deps.Measurements))
	}
	if deps.Report != nil {
		batchOpts = append(batchOpts, app.WithReportWriter(deps.Report))
	}
	batchService := app.NewBatchService(measurementService, deps.Renderer, batchOpts...)

	return &Container{
		UserService:        userService,
		MeasurementService: measurementService,
		BatchService:       batchService,
		Measurements:       deps.Measurements,
	}
}

// Build собирает контейнер с адаптерами по умолчанию. История измерений
// открывается только при непустом DBPath.
func Build(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	deps := Deps{
		Users:     storage.NewMemoryUserRepository(),
		Extractor: vision.NewExtractor(),
		Renderer:  vision.NewRenderer(),
		Viewer:    vision.NewViewer(),
		Report:    report.NewMarkdownWriter(),
	}

	var closers []func() error
	if cfg.DBPath != "" {
		repo, err := storage.OpenSQLiteMeasurementRepository(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open measurement history: %w", err)
		}
		deps.Measurements = repo
		closers = append(closers, repo.Close)
	}

	c := New(cfg, deps, logger)
	c.closers = closers
	return c, nil
}

// Close освобождает ресурсы адаптеров
func (c *Container) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
