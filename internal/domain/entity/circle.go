package entity

// Circle окружность: центр и неотрицательный радиус
type Circle struct {
	Center Point2D `json:"center"`
	Radius float64 `json:"radius"`
}

// Contains проверяет, что точка лежит внутри окружности с допуском eps
func (c Circle) Contains(p Point2D, eps float64) bool {
	return c.Center.Distance(p) <= c.Radius+eps
}
