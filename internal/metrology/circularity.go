package metrology

import (
	"math"

	"roundness-meter/internal/domain/entity"
)

// DefaultCircularityThreshold порог, выше которого контур считается окружностью
const DefaultCircularityThreshold = 0.8

// PolygonArea площадь замкнутого многоугольника по формуле шнурования
func PolygonArea(points entity.PointSet) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		p, q := points[i], points[(i+1)%n]
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(sum) / 2
}

// Perimeter длина замкнутой ломаной
func Perimeter(points entity.PointSet) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += points[i].Distance(points[(i+1)%n])
	}
	return sum
}

// Circularity возвращает 4π·S/P²: 1 для идеальной окружности, 0 для
// вырожденного контура.
func Circularity(points entity.PointSet) float64 {
	perimeter := Perimeter(points)
	if perimeter == 0 {
		return 0
	}
	return 4 * math.Pi * PolygonArea(points) / (perimeter * perimeter)
}

// IsCircular сообщает, достаточно ли контур похож на окружность
func IsCircular(points entity.PointSet, threshold float64) bool {
	if Perimeter(points) == 0 {
		return false
	}
	return Circularity(points) > threshold
}
