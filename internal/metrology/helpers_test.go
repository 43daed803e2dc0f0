package metrology

import (
	"math"

	"roundness-meter/internal/domain/entity"
)

// ringPoints n равномерно распределённых точек окружности без повторения первой
func ringPoints(cx, cy, r float64, n int) entity.PointSet {
	ps := make(entity.PointSet, n)
	for i := range ps {
		a := 2 * math.Pi * float64(i) / float64(n)
		ps[i] = entity.Point2D{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return ps
}

// deviatedRing 100 точек окружности радиуса 50 с центром (100,100), углы от 0
// до 2π включительно; точки 0–9 смещены к центру на 2, точки 50–59 наружу на 3.
func deviatedRing() entity.PointSet {
	const n = 100
	ps := make(entity.PointSet, n)
	for i := range ps {
		a := 2 * math.Pi * float64(i) / float64(n-1)
		r := 50.0
		switch {
		case i < 10:
			r -= 2
		case i >= 50 && i < 60:
			r += 3
		}
		ps[i] = entity.Point2D{X: 100 + r*math.Cos(a), Y: 100 + r*math.Sin(a)}
	}
	return ps
}

func collinearPoints(n int) entity.PointSet {
	ps := make(entity.PointSet, n+1)
	for i := range ps {
		ps[i] = entity.Point2D{X: float64(i), Y: 0}
	}
	return ps
}
