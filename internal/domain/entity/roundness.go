package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMethod возвращается для неизвестного названия метода
var ErrUnknownMethod = errors.New("unknown roundness method")

// Method метод оценки отклонения от круглости
type Method string

const (
	MethodLeastSquares     Method = "least_squares"     // Средняя окружность по МНК
	MethodMinZone          Method = "min_zone"          // Минимальная зона
	MethodMinCircumscribed Method = "min_circumscribed" // Минимальная описанная окружность
	MethodMaxInscribed     Method = "max_inscribed"     // Максимальная вписанная окружность
)

// DefaultMethod используется, если метод не задан
const DefaultMethod = MethodMinZone

// Methods возвращает все поддерживаемые методы
func Methods() []Method {
	return []Method{MethodMinZone, MethodLeastSquares, MethodMinCircumscribed, MethodMaxInscribed}
}

// ParseMethod разбирает название метода
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Methods() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Title человекочитаемое название метода для подписей
func (m Method) Title() string {
	switch m {
	case MethodLeastSquares:
		return "Least Squares Method"
	case MethodMinZone:
		return "Minimum Zone Method"
	case MethodMinCircumscribed:
		return "Minimum Circumscribed Circle Method"
	case MethodMaxInscribed:
		return "Maximum Inscribed Circle Method"
	default:
		return string(m)
	}
}

// RoundnessResult итог измерения круглости одним методом.
// Inner и Outer концентричны, Outer.Radius >= Inner.Radius.
type RoundnessResult struct {
	Method    Method  `json:"method"`
	Inner     Circle  `json:"inner"`
	Outer     Circle  `json:"outer"`
	Roundness float64 `json:"roundness"` // Outer.Radius - Inner.Radius
	Converged bool    `json:"converged"` // false, если оптимизатор упёрся в лимит итераций
}

// Center центр зоны
func (r RoundnessResult) Center() Point2D {
	return r.Outer.Center
}
