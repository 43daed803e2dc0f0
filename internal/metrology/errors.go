package metrology

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"roundness-meter/internal/domain/entity"
)

// ErrInvalidInput возвращается, когда окружность по точкам не определена:
// меньше трёх точек, все точки совпадают или есть нечисловые координаты.
var ErrInvalidInput = errors.New("invalid input")

const (
	// coincidentTolerance относительный допуск совпадения точек
	coincidentTolerance = 1e-12
	// collinearTolerance отношение сингулярных чисел центрированных точек,
	// ниже которого точки считаются лежащими на одной прямой
	collinearTolerance = 1e-6
)

func validate(points entity.PointSet) error {
	if len(points) < 3 {
		return fmt.Errorf("%w: need at least 3 points, got %d", ErrInvalidInput, len(points))
	}

	first := points[0]
	scale := math.Max(1, math.Max(math.Abs(first.X), math.Abs(first.Y)))
	distinct := false
	for i, p := range points {
		if !p.IsFinite() {
			return fmt.Errorf("%w: point %d is not finite", ErrInvalidInput, i)
		}
		if p.Distance(first) > coincidentTolerance*scale {
			distinct = true
		}
	}
	if !distinct {
		return fmt.Errorf("%w: all %d points coincide", ErrInvalidInput, len(points))
	}
	return nil
}

// validateZone дополнительно отвергает точки на одной прямой: для них
// зона круглости не ограничена и оптимизатор уходит на бесконечность.
func validateZone(points entity.PointSet) error {
	if err := validate(points); err != nil {
		return err
	}

	c := points.Centroid()
	a := mat.NewDense(len(points), 2, nil)
	for i, p := range points {
		a.Set(i, 0, p.X-c.X)
		a.Set(i, 1, p.Y-c.Y)
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDNone) {
		return fmt.Errorf("%w: point spread is degenerate", ErrInvalidInput)
	}
	values := svd.Values(nil)
	if values[1] <= values[0]*collinearTolerance {
		return fmt.Errorf("%w: all %d points are collinear", ErrInvalidInput, len(points))
	}
	return nil
}
