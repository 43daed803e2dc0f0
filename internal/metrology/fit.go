package metrology

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"roundness-meter/internal/domain/entity"
)

// FitCircle подбирает окружность по точкам методом наименьших квадратов.
//
// Уравнение x²+y²−2ax−2by+c=0 решается как линейная система относительно
// (a, b, c) в координатах, смещённых к центроиду. Если система вырождена
// (точки на одной прямой) или радиус получился некорректным, возвращается
// минимальная описанная окружность; ошибка в этом случае не возникает.
func FitCircle(points entity.PointSet) (entity.Circle, error) {
	if err := validate(points); err != nil {
		return entity.Circle{}, err
	}
	if c, ok := fitAlgebraic(points); ok {
		return c, nil
	}
	return minEnclosing(points), nil
}

func fitAlgebraic(points entity.PointSet) (entity.Circle, bool) {
	m := points.Centroid()
	n := len(points)

	a := mat.NewDense(n, 3, nil)
	b := mat.NewVecDense(n, nil)
	for i, p := range points {
		u, v := p.X-m.X, p.Y-m.Y
		a.Set(i, 0, 2*u)
		a.Set(i, 1, 2*v)
		a.Set(i, 2, -1)
		b.SetVec(i, u*u+v*v)
	}

	x, ok := solveLeastSquares(a, b)
	if !ok {
		return entity.Circle{}, false
	}

	r2 := x[0]*x[0] + x[1]*x[1] - x[2]
	r := math.Sqrt(r2)
	if r2 < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return entity.Circle{}, false
	}

	return entity.Circle{
		Center: entity.Point2D{X: m.X + x[0], Y: m.Y + x[1]},
		Radius: r,
	}, true
}
