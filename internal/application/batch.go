package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"roundness-meter/internal/domain/entity"
	"roundness-meter/internal/domain/port"
)

// BatchOptions параметры пакетной обработки.
type BatchOptions struct {
	Method    entity.Method
	OutputDir string
	Show      bool
}

type BatchService struct {
	measure  *MeasurementService
	renderer port.Renderer
	viewer   port.Viewer
	repo     port.MeasurementRepository
	report   port.ReportWriter
	workers  int
	logger   *slog.Logger
}

// BatchOption настраивает BatchService
type BatchOption func(*BatchService)

func WithViewer(viewer port.Viewer) BatchOption {
	return func(b *BatchService) { b.viewer = viewer }
}

func WithRepository(repo port.MeasurementRepository) BatchOption {
	return func(b *BatchService) { b.repo = repo }
}

func WithReportWriter(w port.ReportWriter) BatchOption {
	return func(b *BatchService) { b.report = w }
}

func WithWorkers(n int) BatchOption {
	return func(b *BatchService) { b.workers = n }
}

func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchService) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBatchService создаёт сервис обработки файлов и каталогов с изображениями.
func NewBatchService(measure *MeasurementService, renderer port.Renderer, opts ...BatchOption) *BatchService {
	b := &BatchService{
		measure:  measure,
		renderer: renderer,
		workers:  1,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.workers < 1 {
		b.workers = 1
	}
	return b
}

// ProcessFile обрабатывает одно изображение, результаты пишутся прямо в OutputDir.
func (b *BatchService) ProcessFile(ctx context.Context, path string, opts BatchOptions) (*entity.ImageOutcome, error) {
	outcome := b.processImage(ctx, path, opts.OutputDir, opts)
	if outcome.Err != nil {
		return nil, outcome.Err
	}
	return &outcome, nil
}

// ProcessDirectory обрабатывает все изображения каталога. Для каждого файла
// создаётся подкаталог <OutputDir>/<имя без расширения>. Ошибки отдельных
// файлов попадают в ImageOutcome.Err и не прерывают обработку.
func (b *BatchService) ProcessDirectory(ctx context.Context, dir string, opts BatchOptions) ([]entity.ImageOutcome, error) {
	images, err := listImages(dir)
	if err != nil {
		return nil, err
	}

	b.logger.Info("starting batch processing",
		"dir", dir,
		"images", len(images),
		"method", opts.Method,
	)

	outcomes := make([]entity.ImageOutcome, len(images))

	g, gctx := errgroup.WithContext(ctx)
	// Окна просмотра открываются по очереди
	if opts.Show {
		g.SetLimit(1)
	} else {
		g.SetLimit(b.workers)
	}

	for i, path := range images {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			outcomes[i] = b.processImage(gctx, path, filepath.Join(opts.OutputDir, stem), opts)
			if outcomes[i].Err != nil {
				b.logger.Warn("image skipped", "image", path, "error", outcomes[i].Err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}

	if b.report != nil {
		reportPath := filepath.Join(opts.OutputDir, "report.md")
		if err := b.report.Write(reportPath, outcomes); err != nil {
			return outcomes, fmt.Errorf("write report: %w", err)
		}
	}

	b.logger.Info("batch processing complete", "images", len(images))
	return outcomes, nil
}

func (b *BatchService) processImage(ctx context.Context, path, outDir string, opts BatchOptions) entity.ImageOutcome {
	outcome := entity.ImageOutcome{Image: filepath.Base(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		outcome.Err = fmt.Errorf("read image: %w", err)
		return outcome
	}

	report, err := b.measure.Measure(ctx, data, opts.Method)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Report = report

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		outcome.Err = fmt.Errorf("create output dir: %w", err)
		return outcome
	}

	if b.renderer != nil {
		if report.Edges != nil {
			edges, err := b.renderer.RenderEdges(report.Edges)
			if err != nil {
				outcome.Err = fmt.Errorf("render edges: %w", err)
				return outcome
			}
			if err := b.write(&outcome, outDir, "edges.jpg", edges); err != nil {
				return outcome
			}
		}

		contours, err := b.renderer.RenderContours(data, report.Contours)
		if err != nil {
			outcome.Err = fmt.Errorf("render contours: %w", err)
			return outcome
		}
		if err := b.write(&outcome, outDir, "contours.jpg", contours); err != nil {
			return outcome
		}

		circles, err := b.renderer.RenderCircles(data, report.Circles())
		if err != nil {
			outcome.Err = fmt.Errorf("render circles: %w", err)
			return outcome
		}
		if err := b.write(&outcome, outDir, "circles.jpg", circles); err != nil {
			return outcome
		}
		if opts.Show {
			b.show("Detected Circles", circles)
		}

		for _, shape := range report.Shapes {
			overlay, err := b.renderer.RenderRoundness(data, shape.Result)
			if err != nil {
				outcome.Err = fmt.Errorf("render shape %d: %w", shape.Index, err)
				return outcome
			}
			name := fmt.Sprintf("result_%d_%s.jpg", shape.Index, report.Method)
			if err := b.write(&outcome, outDir, name, overlay); err != nil {
				return outcome
			}
			if opts.Show {
				b.show(fmt.Sprintf("Result %d - %s", shape.Index, report.Method.Title()), overlay)
			}
		}
	}

	if b.repo != nil && report.HasShapes() {
		if err := b.repo.Save(ctx, outcome.Image, report); err != nil {
			// История вспомогательная, измерение уже выполнено
			b.logger.Warn("save measurements failed", "image", outcome.Image, "error", err)
		}
	}

	return outcome
}

func (b *BatchService) show(title string, data []byte) {
	if b.viewer == nil {
		return
	}
	if err := b.viewer.Show(title, data); err != nil {
		b.logger.Warn("show image failed", "title", title, "error", err)
	}
}

func (b *BatchService) write(outcome *entity.ImageOutcome, dir, name string, data []byte) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		outcome.Err = fmt.Errorf("write %s: %w", name, err)
		return outcome.Err
	}
	outcome.Outputs = append(outcome.Outputs, path)
	return nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			images = append(images, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(images)
	return images, nil
}
