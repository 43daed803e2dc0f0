package metrology

import (
	"math"

	"gonum.org/v1/gonum/optimize"

	"roundness-meter/internal/domain/entity"
)

// Objective скалярная функция положения центра
type Objective func(center entity.Point2D) float64

// OptimizerSettings параметры симплекс-поиска Нелдера–Мида
type OptimizerSettings struct {
	MaxEvaluations    int     // жёсткий лимит вычислений функции
	RelativeTolerance float64 // относительный порог улучшения значения
	AbsoluteTolerance float64 // абсолютный порог улучшения значения
	StallIterations   int     // число итераций без улучшения до остановки
	SimplexFraction   float64 // размер начального симплекса относительно среднего радиуса
}

// DefaultOptimizerSettings соответствует стандартным значениям Нелдера–Мида для двух переменных
func DefaultOptimizerSettings() OptimizerSettings {
	return OptimizerSettings{
		MaxEvaluations:    200 * 2,
		RelativeTolerance: 1e-4,
		AbsoluteTolerance: 1e-9,
		StallIterations:   25,
		SimplexFraction:   0.05,
	}
}

// Optimize ищет локальный минимум objective на плоскости, начиная с initial.
// Всегда возвращает лучшую найденную точку; converged == false означает,
// что поиск остановлен по лимиту вычислений.
func Optimize(points entity.PointSet, objective Objective, initial entity.Point2D) (best entity.Point2D, converged bool) {
	return DefaultOptimizerSettings().Optimize(points, objective, initial)
}

// Optimize выполняет поиск с заданными параметрами
func (s OptimizerSettings) Optimize(points entity.PointSet, objective Objective, initial entity.Point2D) (best entity.Point2D, converged bool) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return objective(entity.Point2D{X: x[0], Y: x[1]})
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: s.MaxEvaluations,
		Converger: &optimize.FunctionConverge{
			Absolute:   s.AbsoluteTolerance,
			Relative:   s.RelativeTolerance,
			Iterations: s.StallIterations,
		},
	}
	method := &optimize.NelderMead{SimplexSize: s.simplexSize(points, initial)}

	best, bestValue := initial, objective(initial)
	res, err := optimize.Minimize(problem, []float64{initial.X, initial.Y}, settings, method)
	if res == nil || len(res.X) != 2 {
		return best, false
	}

	candidate := entity.Point2D{X: res.X[0], Y: res.X[1]}
	if v := objective(candidate); candidate.IsFinite() && v <= bestValue {
		best = candidate
	}
	return best, err == nil && res.Status == optimize.FunctionConvergence
}

func (s OptimizerSettings) simplexSize(points entity.PointSet, initial entity.Point2D) float64 {
	fraction := s.SimplexFraction
	if fraction <= 0 {
		fraction = 0.05
	}
	if len(points) == 0 {
		return fraction
	}
	var sum float64
	for _, p := range points {
		sum += p.Distance(initial)
	}
	mean := sum / float64(len(points))
	if mean == 0 || math.IsNaN(mean) {
		return fraction
	}
	return fraction * mean
}

// MinZoneObjective разброс расстояний max−min от центра до точек
func MinZoneObjective(points entity.PointSet) Objective {
	return func(c entity.Point2D) float64 {
		lo, hi := points.RadialRange(c)
		return hi - lo
	}
}

// MaxInscribedObjective минус минимальное расстояние от центра до точек
func MaxInscribedObjective(points entity.PointSet) Objective {
	return func(c entity.Point2D) float64 {
		lo, _ := points.RadialRange(c)
		return -lo
	}
}
