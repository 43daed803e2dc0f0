// Package vision выделяет контуры деталей на изображении и рисует результаты
// измерений. При сборке с тегом gocv используется OpenCV, иначе чистая
// реализация на Go.
package vision

import (
	"errors"
	"fmt"
	"image/color"

	"roundness-meter/internal/domain/entity"
)

var (
	// ErrDecode возвращается, если байты не удалось декодировать в изображение
	ErrDecode = errors.New("failed to decode image")

	// ErrDisplayUnavailable возвращается при попытке показать окно без OpenCV
	ErrDisplayUnavailable = errors.New("image display requires the gocv build tag")

	// ErrNoEdges возвращается, если маска краёв не была построена
	ErrNoEdges = errors.New("edge mask is missing")
)

// Цвета разметки
var (
	colorContour = color.RGBA{G: 255, A: 255}
	colorInner   = color.RGBA{G: 255, A: 255}
	colorOuter   = color.RGBA{R: 255, A: 255}
	colorCenter  = color.RGBA{B: 255, A: 255}
	colorFit     = color.RGBA{R: 255, A: 255}
	colorText    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const (
	lineThickness = 2
	centerRadius  = 5
	jpegQuality   = 90
)

// RoundnessLabel подпись к изображению с зоной круглости
func RoundnessLabel(result entity.RoundnessResult) string {
	return fmt.Sprintf("%s Roundness: %.2f pixels", result.Method.Title(), result.Roundness)
}
