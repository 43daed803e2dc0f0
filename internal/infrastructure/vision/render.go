//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"roundness-meter/internal/domain/entity"
	"roundness-meter/internal/domain/port"
)

// Renderer рисует окружности и подписи без OpenCV
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
	return encodeJPEG(edges)
}

// RenderContours обводит контуры зелёной ломаной
func (r *Renderer) RenderContours(imageData []byte, contours []entity.PointSet) ([]byte, error) {
	img, err := decodeNRGBA(imageData)
	if err != nil {
		return nil, err
	}
	for _, c := range contours {
		drawPolygon(img, c, colorContour)
	}
	return encodeJPEG(img)
}

// RenderCircles отмечает все подобранные окружности и их центры
func (r *Renderer) RenderCircles(imageData []byte, circles []entity.Circle) ([]byte, error) {
	img, err := decodeNRGBA(imageData)
	if err != nil {
		return nil, err
	}
	for _, c := range circles {
		drawCircle(img, c, colorFit, lineThickness)
		fillDisk(img, c.Center, centerRadius, colorFit)
	}
	return encodeJPEG(img)
}

// RenderRoundness рисует внутреннюю (зелёная) и внешнюю (красная) окружности зоны
func (r *Renderer) RenderRoundness(imageData []byte, result entity.RoundnessResult) ([]byte, error) {
	img, err := decodeNRGBA(imageData)
	if err != nil {
		return nil, err
	}
	drawRoundness(img, result)
	return encodeJPEG(img)
}

func drawRoundness(img *image.NRGBA, result entity.RoundnessResult) {
	drawCircle(img, result.Inner, colorInner, lineThickness)
	drawCircle(img, result.Outer, colorOuter, lineThickness)
	fillDisk(img, result.Center(), centerRadius, colorCenter)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colorText),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 30),
	}
	d.DrawString(RoundnessLabel(result))
}

func decodeNRGBA(imageData []byte) (*image.NRGBA, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return imaging.Clone(img), nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawCircle рисует окружность толщиной thickness пикселей
func drawCircle(img *image.NRGBA, c entity.Circle, col color.RGBA, thickness int) {
	half := float64(thickness) / 2
	for r := c.Radius - half; r <= c.Radius+half; r += 0.5 {
		if r < 0 {
			continue
		}
		steps := int(math.Ceil(2*math.Pi*r)) * 2
		if steps < 8 {
			steps = 8
		}
		for i := 0; i < steps; i++ {
			a := 2 * math.Pi * float64(i) / float64(steps)
			x := int(math.Round(c.Center.X + r*math.Cos(a)))
			y := int(math.Round(c.Center.Y + r*math.Sin(a)))
			setPixel(img, x, y, col)
		}
	}
}

// drawPolygon рисует замкнутую ломаную толщиной около двух пикселей
func drawPolygon(img *image.NRGBA, points entity.PointSet, col color.RGBA) {
	n := len(points)
	for i := 0; i < n; i++ {
		a, b := points[i], points[(i+1)%n]
		steps := int(math.Ceil(math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y))))
		for s := 0; s <= steps; s++ {
			t := 0.0
			if steps > 0 {
				t = float64(s) / float64(steps)
			}
			p := entity.Point2D{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
			fillDisk(img, p, lineThickness/2, col)
		}
	}
}

func fillDisk(img *image.NRGBA, center entity.Point2D, radius int, col color.RGBA) {
	cx, cy := int(math.Round(center.X)), int(math.Round(center.Y))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				setPixel(img, cx+dx, cy+dy, col)
			}
		}
	}
}

func setPixel(img *image.NRGBA, x, y int, col color.RGBA) {
	if !(image.Point{X: x, Y: y}.In(img.Rect)) {
		return
	}
	img.SetNRGBA(x, y, color.NRGBA{R: col.R, G: col.G, B: col.B, A: col.A})
}

// Проверка реализации интерфейса
var _ port.Renderer = (*Renderer)(nil)
