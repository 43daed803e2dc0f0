package metrology

import (
	"math"

	"roundness-meter/internal/domain/entity"
)

// DefaultApproxRatio допуск упрощения контура относительно его периметра
const DefaultApproxRatio = 0.005

// ContourFilter отбирает контуры, пригодные для измерения
type ContourFilter struct {
	MinArea        float64
	MinPerimeter   float64
	MinCircularity float64
}

// DefaultContourFilter пороги по умолчанию: площадь и периметр больше 100 px, круглость больше 0.7
func DefaultContourFilter() ContourFilter {
	return ContourFilter{MinArea: 100, MinPerimeter: 100, MinCircularity: 0.7}
}

// Accept проверяет один контур
func (f ContourFilter) Accept(points entity.PointSet) bool {
	area := PolygonArea(points)
	perimeter := Perimeter(points)
	if area <= f.MinArea || perimeter <= f.MinPerimeter {
		return false
	}
	return 4*math.Pi*area/(perimeter*perimeter) > f.MinCircularity
}

// Apply возвращает прошедшие фильтр контуры в исходном порядке
func (f ContourFilter) Apply(contours []entity.PointSet) []entity.PointSet {
	out := make([]entity.PointSet, 0, len(contours))
	for _, c := range contours {
		if f.Accept(c) {
			out = append(out, c)
		}
	}
	return out
}

// SimplifyRatio упрощает замкнутый контур с допуском ratio·периметр
func SimplifyRatio(points entity.PointSet, ratio float64) entity.PointSet {
	return Simplify(points, ratio*Perimeter(points))
}

// Simplify упрощает замкнутый контур алгоритмом Дугласа–Пекера.
// Контур делится на две цепочки: от первой точки до самой удалённой от неё
// и обратно. Если после упрощения остаётся меньше трёх точек, возвращается
// копия исходного контура.
func Simplify(points entity.PointSet, epsilon float64) entity.PointSet {
	n := len(points)
	out := make(entity.PointSet, n)
	copy(out, points)
	if n <= 3 || epsilon <= 0 {
		return out
	}

	far := 0
	var farDist float64
	for i, p := range points {
		if d := p.Distance(points[0]); d > farDist {
			far, farDist = i, d
		}
	}
	if far == 0 {
		return out
	}

	keep := make([]bool, n+1)
	keep[0], keep[far], keep[n] = true, true, true
	ring := func(i int) entity.Point2D { return points[i%n] }
	douglasPeucker(ring, 0, far, epsilon, keep)
	douglasPeucker(ring, far, n, epsilon, keep)

	simplified := make(entity.PointSet, 0, n)
	for i := 0; i < n; i++ {
		if keep[i] {
			simplified = append(simplified, points[i])
		}
	}
	if len(simplified) < 3 {
		return out
	}
	return simplified
}

func douglasPeucker(at func(int) entity.Point2D, first, last int, epsilon float64, keep []bool) {
	if last-first < 2 {
		return
	}
	a, b := at(first), at(last)
	idx, maxDist := -1, epsilon
	for i := first + 1; i < last; i++ {
		if d := segmentDistance(at(i), a, b); d > maxDist {
			idx, maxDist = i, d
		}
	}
	if idx < 0 {
		return
	}
	keep[idx] = true
	douglasPeucker(at, first, idx, epsilon, keep)
	douglasPeucker(at, idx, last, epsilon, keep)
}

func segmentDistance(p, a, b entity.Point2D) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return p.Distance(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Distance(entity.Point2D{X: a.X + t*dx, Y: a.Y + t*dy})
}
