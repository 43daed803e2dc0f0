package metrology

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"roundness-meter/internal/domain/entity"
)

// Measure вычисляет круглость выбранным методом
func Measure(method entity.Method, points entity.PointSet) (entity.RoundnessResult, error) {
	switch method {
	case entity.MethodLeastSquares:
		return LeastSquares(points)
	case entity.MethodMinZone:
		return MinZone(points)
	case entity.MethodMinCircumscribed:
		return MinCircumscribed(points)
	case entity.MethodMaxInscribed:
		return MaxInscribed(points)
	default:
		return entity.RoundnessResult{}, fmt.Errorf("%w: %q", entity.ErrUnknownMethod, method)
	}
}

// LeastSquares строит среднюю окружность по МНК в форме
// x²+y² = 2·cx·x + 2·cy·y + c, r = √(c+cx²+cy²).
// Границы зоны берутся по фактическим min/max расстояниям до центра.
// При вырожденной системе центр берётся у минимальной описанной окружности.
func LeastSquares(points entity.PointSet) (entity.RoundnessResult, error) {
	if err := validate(points); err != nil {
		return entity.RoundnessResult{}, err
	}

	center, ok := leastSquaresCenter(points)
	if !ok {
		center = minEnclosing(points).Center
	}
	return zoneAt(entity.MethodLeastSquares, points, center, true), nil
}

func leastSquaresCenter(points entity.PointSet) (entity.Point2D, bool) {
	n := len(points)
	a := mat.NewDense(n, 3, nil)
	b := mat.NewVecDense(n, nil)
	for i, p := range points {
		a.Set(i, 0, 2*p.X)
		a.Set(i, 1, 2*p.Y)
		a.Set(i, 2, 1)
		b.SetVec(i, p.X*p.X+p.Y*p.Y)
	}

	x, ok := solveLeastSquares(a, b)
	if !ok {
		return entity.Point2D{}, false
	}
	cx, cy, c := x[0], x[1], x[2]
	r := math.Sqrt(c + cx*cx + cy*cy)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return entity.Point2D{}, false
	}
	return entity.Point2D{X: cx, Y: cy}, true
}

// MinZone ищет центр самого узкого кольца, содержащего все точки
func MinZone(points entity.PointSet) (entity.RoundnessResult, error) {
	if err := validateZone(points); err != nil {
		return entity.RoundnessResult{}, err
	}
	center, converged := Optimize(points, MinZoneObjective(points), points.Centroid())
	return zoneAt(entity.MethodMinZone, points, center, converged), nil
}

// MinCircumscribed берёт центр минимальной описанной окружности;
// внутренний радиус считается от того же центра без переоптимизации.
func MinCircumscribed(points entity.PointSet) (entity.RoundnessResult, error) {
	if err := validateZone(points); err != nil {
		return entity.RoundnessResult{}, err
	}
	outer := minEnclosing(points)
	lo, hi := points.RadialRange(outer.Center)
	outer.Radius = math.Max(outer.Radius, hi)

	return entity.RoundnessResult{
		Method:    entity.MethodMinCircumscribed,
		Inner:     entity.Circle{Center: outer.Center, Radius: lo},
		Outer:     outer,
		Roundness: outer.Radius - lo,
		Converged: true,
	}, nil
}

// MaxInscribed ищет центр, максимизирующий минимальное расстояние до точек
func MaxInscribed(points entity.PointSet) (entity.RoundnessResult, error) {
	if err := validateZone(points); err != nil {
		return entity.RoundnessResult{}, err
	}
	center, converged := Optimize(points, MaxInscribedObjective(points), points.Centroid())
	return zoneAt(entity.MethodMaxInscribed, points, center, converged), nil
}

func zoneAt(method entity.Method, points entity.PointSet, center entity.Point2D, converged bool) entity.RoundnessResult {
	lo, hi := points.RadialRange(center)
	return entity.RoundnessResult{
		Method:    method,
		Inner:     entity.Circle{Center: center, Radius: lo},
		Outer:     entity.Circle{Center: center, Radius: hi},
		Roundness: hi - lo,
		Converged: converged,
	}
}
