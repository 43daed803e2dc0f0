package entity

import "math"

// Point2D точка контура в пиксельных координатах
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance возвращает евклидово расстояние до другой точки
func (p Point2D) Distance(other Point2D) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Sub возвращает разность точек
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// IsFinite проверяет, что обе координаты конечны
func (p Point2D) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// PointSet упорядоченный замкнутый контур одной детали.
// Порядок точек сохраняется, но на результат измерений не влияет.
type PointSet []Point2D

// Centroid возвращает среднее арифметическое точек
func (ps PointSet) Centroid() Point2D {
	if len(ps) == 0 {
		return Point2D{}
	}
	var sx, sy float64
	for _, p := range ps {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(ps))
	return Point2D{X: sx / n, Y: sy / n}
}

// Distances возвращает расстояния от center до каждой точки
func (ps PointSet) Distances(center Point2D) []float64 {
	d := make([]float64, len(ps))
	for i, p := range ps {
		d[i] = p.Distance(center)
	}
	return d
}

// RadialRange возвращает минимальное и максимальное расстояние от center до точек
func (ps PointSet) RadialRange(center Point2D) (minDist, maxDist float64) {
	if len(ps) == 0 {
		return 0, 0
	}
	minDist = math.Inf(1)
	maxDist = math.Inf(-1)
	for _, p := range ps {
		d := p.Distance(center)
		if d < minDist {
			minDist = d
		}
		if d > maxDist {
			maxDist = d
		}
	}
	return minDist, maxDist
}
