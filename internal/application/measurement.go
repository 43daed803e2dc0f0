package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"roundness-meter/internal/domain/entity"
	"roundness-meter/internal/domain/port"
	"roundness-meter/internal/metrology"
)

// ErrNoExtractor возвращается, если сервис создан без выделителя контуров
var ErrNoExtractor = errors.New("contour extractor is not configured")

// MeasureOptions параметры отбора контуров и упрощения перед измерением.
type MeasureOptions struct {
	Filter               metrology.ContourFilter
	CircularityThreshold float64
	ApproxRatio          float64
	Workers              int
}

func DefaultMeasureOptions() MeasureOptions {
	return MeasureOptions{
		Filter:               metrology.DefaultContourFilter(),
		CircularityThreshold: metrology.DefaultCircularityThreshold,
		ApproxRatio:          metrology.DefaultApproxRatio,
		Workers:              4,
	}
}

type MeasurementService struct {
	extractor port.ContourExtractor
	renderer  port.Renderer
	opts      MeasureOptions
	logger    *slog.Logger
}

// MeasurementOption настраивает MeasurementService
type MeasurementOption func(*MeasurementService)

func WithMeasureOptions(opts MeasureOptions) MeasurementOption {
	return func(s *MeasurementService) {
		s.opts = opts
	}
}

func WithRenderer(renderer port.Renderer) MeasurementOption {
	return func(s *MeasurementService) {
		s.renderer = renderer
	}
}

func WithLogger(logger *slog.Logger) MeasurementOption {
	return func(s *MeasurementService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Overlay картинка зоны круглости для контура с номером Index
type Overlay struct {
	Index int
	Image []byte
}

// MeasurementOutput содержит отчёт и картинки с нарисованными зонами.
type MeasurementOutput struct {
	Report   *entity.ImageReport
	Overlays []Overlay
}

// NewMeasurementService создаёт сервис измерения круглости деталей на фото.
func NewMeasurementService(extractor port.ContourExtractor, opts ...MeasurementOption) *MeasurementService {
	s := &MeasurementService{
		extractor: extractor,
		opts:      DefaultMeasureOptions(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.opts.Workers < 1 {
		s.opts.Workers = 1
	}
	return s
}

// Measure выделяет контуры на изображении и измеряет круглость каждого подходящего.
func (s *MeasurementService) Measure(ctx context.Context, imageData []byte, method entity.Method) (*entity.ImageReport, error) {
	if s.extractor == nil {
		return nil, ErrNoExtractor
	}
	if _, err := entity.ParseMethod(string(method)); err != nil {
		return nil, err
	}

	set, err := s.extractor.Extract(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("extract contours: %w", err)
	}

	candidates := s.opts.Filter.Apply(set.Contours)
	shapes, err := s.measureCandidates(ctx, candidates, method)
	if err != nil {
		return nil, err
	}

	return &entity.ImageReport{
		ImageWidth:  set.ImageWidth,
		ImageHeight: set.ImageHeight,
		Method:      method,
		Shapes:      shapes,
		Contours:    candidates,
		Edges:       set.Edges,
	}, nil
}

// MeasureContours отбирает круглые контуры и параллельно оценивает их зоны.
// Контуры, на которых измерение не удалось, пропускаются.
func (s *MeasurementService) MeasureContours(ctx context.Context, contours []entity.PointSet, method entity.Method) ([]entity.ShapeMeasurement, error) {
	return s.measureCandidates(ctx, s.opts.Filter.Apply(contours), method)
}

func (s *MeasurementService) measureCandidates(ctx context.Context, candidates []entity.PointSet, method entity.Method) ([]entity.ShapeMeasurement, error) {
	circular := make([]entity.PointSet, 0, len(candidates))
	for _, c := range candidates {
		if metrology.IsCircular(c, s.opts.CircularityThreshold) {
			circular = append(circular, c)
		}
	}
	s.logger.Debug("contours selected",
		"filtered", len(candidates),
		"circular", len(circular),
	)

	results := make([]*entity.ShapeMeasurement, len(circular))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i, contour := range circular {
		i, contour := i, contour
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			fit, err := metrology.FitCircle(contour)
			if err != nil {
				s.logger.Warn("circle fit failed", "index", i, "error", err)
				return nil
			}

			simplified := metrology.SimplifyRatio(contour, s.opts.ApproxRatio)
			result, err := metrology.Measure(method, simplified)
			if err != nil {
				s.logger.Warn("roundness measurement failed", "index", i, "error", err)
				return nil
			}
			if !result.Converged {
				s.logger.Debug("optimizer stopped before convergence", "index", i, "method", method)
			}

			results[i] = &entity.ShapeMeasurement{
				Index:  i,
				Fit:    fit,
				Points: len(simplified),
				Result: result,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	shapes := make([]entity.ShapeMeasurement, 0, len(results))
	for _, r := range results {
		if r != nil {
			shapes = append(shapes, *r)
		}
	}
	return shapes, nil
}

// Inspect измеряет фото и рисует зону круглости для каждого найденного контура.
func (s *MeasurementService) Inspect(ctx context.Context, imageData []byte, method entity.Method) (*MeasurementOutput, error) {
	report, err := s.Measure(ctx, imageData, method)
	if err != nil {
		return nil, err
	}

	out := &MeasurementOutput{Report: report}
	if s.renderer == nil {
		return out, nil
	}

	for _, shape := range report.Shapes {
		overlay, err := s.renderer.RenderRoundness(imageData, shape.Result)
		if err != nil {
			s.logger.Warn("render overlay failed", "index", shape.Index, "error", err)
			continue
		}
		out.Overlays = append(out.Overlays, Overlay{Index: shape.Index, Image: overlay})
	}
	return out, nil
}
