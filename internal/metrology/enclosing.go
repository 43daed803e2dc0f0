package metrology

import (
	"math"
	"math/rand"

	"roundness-meter/internal/domain/entity"
)

// shuffleSeed фиксирован, чтобы результат зависел только от входного порядка
const shuffleSeed = 1

// EnclosingCircle возвращает минимальную окружность, содержащую все точки
// (инкрементальный алгоритм Вельцля, ожидаемое время O(n)).
func EnclosingCircle(points entity.PointSet) (entity.Circle, error) {
	if err := validate(points); err != nil {
		return entity.Circle{}, err
	}
	return minEnclosing(points), nil
}

func minEnclosing(points entity.PointSet) entity.Circle {
	if len(points) == 0 {
		return entity.Circle{}
	}

	pts := make(entity.PointSet, len(points))
	copy(pts, points)
	rng := rand.New(rand.NewSource(shuffleSeed))
	rng.Shuffle(len(pts), func(i, j int) { pts[i], pts[j] = pts[j], pts[i] })

	c := entity.Circle{Center: pts[0]}
	for i := 1; i < len(pts); i++ {
		if inside(c, pts[i]) {
			continue
		}
		c = entity.Circle{Center: pts[i]}
		for j := 0; j < i; j++ {
			if inside(c, pts[j]) {
				continue
			}
			c = diameterCircle(pts[i], pts[j])
			for k := 0; k < j; k++ {
				if inside(c, pts[k]) {
					continue
				}
				c = circumcircle(pts[i], pts[j], pts[k])
			}
		}
	}
	return c
}

func inside(c entity.Circle, p entity.Point2D) bool {
	return c.Contains(p, 1e-12+1e-9*c.Radius)
}

func diameterCircle(a, b entity.Point2D) entity.Circle {
	center := entity.Point2D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	return entity.Circle{Center: center, Radius: math.Max(center.Distance(a), center.Distance(b))}
}

// circumcircle окружность через три точки; для почти коллинеарных точек
// берётся окружность на самой длинной хорде.
func circumcircle(a, b, c entity.Point2D) entity.Circle {
	bx, by := b.X-a.X, b.Y-a.Y
	cx, cy := c.X-a.X, c.Y-a.Y
	d := 2 * (bx*cy - by*cx)

	scale := math.Max(bx*bx+by*by, cx*cx+cy*cy)
	if math.Abs(d) <= 1e-12*scale {
		return longestChordCircle(a, b, c)
	}

	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	ux := (cy*b2 - by*c2) / d
	uy := (bx*c2 - cx*b2) / d
	center := entity.Point2D{X: a.X + ux, Y: a.Y + uy}
	r := math.Max(center.Distance(a), math.Max(center.Distance(b), center.Distance(c)))
	return entity.Circle{Center: center, Radius: r}
}

func longestChordCircle(a, b, c entity.Point2D) entity.Circle {
	best := diameterCircle(a, b)
	if cand := diameterCircle(a, c); cand.Radius > best.Radius {
		best = cand
	}
	if cand := diameterCircle(b, c); cand.Radius > best.Radius {
		best = cand
	}
	return best
}
