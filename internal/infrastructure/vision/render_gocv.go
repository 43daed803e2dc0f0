//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"image"
	"image/jpeg"
	"math"

	"gocv.io/x/gocv"

	"roundness-meter/internal/domain/entity"
	"roundness-meter/internal/domain/port"
)

// Renderer рисует окружности и подписи средствами OpenCV
type Renderer struct{}

// NewRenderer создаёт рендерер
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderEdges кодирует маску краёв
func (r *Renderer) RenderEdges(edges *image.Gray) ([]byte, error) {
	if edges == nil {
		return nil, ErrNoEdges
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, edges, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderContours обводит контуры зелёным, как drawContours
func (r *Renderer) RenderContours(imageData []byte, contours []entity.PointSet) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	pts := make([][]image.Point, 0, len(contours))
	for _, c := range contours {
		poly := make([]image.Point, len(c))
		for i, p := range c {
			poly[i] = toPoint(p)
		}
		pts = append(pts, poly)
	}
	vec := gocv.NewPointsVectorFromPoints(pts)
	defer vec.Close()

	gocv.DrawContours(&mat, vec, -1, colorContour, lineThickness)
	return encodeMat(mat)
}

// RenderCircles отмечает все подобранные окружности и их центры
func (r *Renderer) RenderCircles(imageData []byte, circles []entity.Circle) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	for _, c := range circles {
		center := toPoint(c.Center)
		gocv.Circle(&mat, center, int(c.Radius), colorFit, lineThickness)
		gocv.Circle(&mat, center, centerRadius, colorFit, -1)
	}
	return encodeMat(mat)
}

// RenderRoundness рисует внутреннюю (зелёная) и внешнюю (красная) окружности зоны
func (r *Renderer) RenderRoundness(imageData []byte, result entity.RoundnessResult) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	center := toPoint(result.Center())
	gocv.Circle(&mat, center, int(result.Inner.Radius), colorInner, lineThickness)
	gocv.Circle(&mat, center, int(result.Outer.Radius), colorOuter, lineThickness)
	gocv.Circle(&mat, center, centerRadius, colorCenter, -1)
	gocv.PutText(&mat, RoundnessLabel(result), image.Pt(10, 30), gocv.FontHersheySimplex, 1, colorText, 2)

	return encodeMat(mat)
}

func toPoint(p entity.Point2D) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

func encodeMat(mat gocv.Mat) ([]byte, error) {
	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Проверка реализации интерфейса
var _ port.Renderer = (*Renderer)(nil)
