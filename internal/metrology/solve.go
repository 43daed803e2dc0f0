package metrology

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// rankTolerance порог отношения минимального и максимального сингулярных
// чисел, ниже которого система считается вырожденной.
const rankTolerance = 1e-10

// solveLeastSquares решает переопределённую систему a·x ≈ b.
// Сначала SVD проверяет обусловленность: отношение крайних сингулярных
// чисел не ниже rankTolerance. Затем решение ищется через QR.
// ok == false, если матрица вырождена или почти вырождена.
func solveLeastSquares(a *mat.Dense, b *mat.VecDense) (x []float64, ok bool) {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDNone) {
		return nil, false
	}
	values := svd.Values(nil)
	if len(values) == 0 || values[0] == 0 {
		return nil, false
	}
	if values[len(values)-1] <= values[0]*rankTolerance {
		return nil, false
	}

	var qr mat.QR
	qr.Factorize(a)

	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, b); err != nil {
		return nil, false
	}

	_, cols := a.Dims()
	x = make([]float64, cols)
	for i := range x {
		x[i] = sol.At(i, 0)
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) {
			return nil, false
		}
	}
	return x, true
}
