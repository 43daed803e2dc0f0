//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"roundness-meter/internal/domain/entity"
	"roundness-meter/internal/domain/port"
)

// Extractor выделяет контуры без OpenCV: серое изображение, размытие,
// детектор Канни, морфологическое замыкание и обход внешней границы
// каждой связной области края.
type Extractor struct {
	BlurSigma     float64 // сигма гауссова размытия, ~ ядро 5×5
	LowThreshold  float64 // нижний порог гистерезиса
	HighThreshold float64 // верхний порог гистерезиса
	MinPixels     int     // минимальный размер связной области края
}

// NewExtractor создаёт экстрактор с настройками по умолчанию
func NewExtractor() *Extractor {
	return &Extractor{
		BlurSigma:     1.1,
		LowThreshold:  50,
		HighThreshold: 150,
		MinPixels:     20,
	}
}

// Extract декодирует изображение и возвращает внешние контуры и маску краёв
func (e *Extractor) Extract(ctx context.Context, imageData []byte) (*entity.ContourSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	gray := imaging.Blur(imaging.Grayscale(img), e.BlurSigma)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()

	edges := canny(gray, e.LowThreshold, e.HighThreshold)
	edges = erode(dilate(edges, w, h), w, h)

	set := &entity.ContourSet{
		ImageWidth:  w,
		ImageHeight: h,
		Edges:       maskImage(edges, w, h),
	}
	for _, comp := range components(edges, w, h, e.MinPixels) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if contour := traceBoundary(edges, w, h, comp[0]); len(contour) >= 3 {
			set.Contours = append(set.Contours, contour)
		}
	}
	return set, nil
}

// canny возвращает маску краёв толщиной в один пиксель: модуль градиента
// Собеля, подавление немаксимумов вдоль градиента и гистерезис.
func canny(img *image.NRGBA, low, high float64) []bool {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	at := func(x, y int) float64 {
		return float64(img.Pix[y*img.Stride+x*4])
	}

	mag := make([]float64, w*h)
	dir := make([]image.Point, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			mag[y*w+x] = math.Hypot(gx, gy)
			dir[y*w+x] = gradientStep(gx, gy)
		}
	}

	// При равных соседях остаётся пиксель с меньшей стороны, линия не двоится
	nms := make([]float64, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			d := dir[i]
			m := mag[i]
			if m > mag[(y-d.Y)*w+x-d.X] && m >= mag[(y+d.Y)*w+x+d.X] {
				nms[i] = m
			}
		}
	}

	mask := make([]bool, w*h)
	stack := make([]int, 0, 256)
	for i, v := range nms {
		if v >= high && !mask[i] {
			mask[i] = true
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for _, n := range neighbours {
			nx, ny := x+n.X, y+n.Y
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			j := ny*w + nx
			if !mask[j] && nms[j] >= low {
				mask[j] = true
				stack = append(stack, j)
			}
		}
	}
	return mask
}

// gradientStep квантует направление градиента до одного из четырёх шагов
func gradientStep(gx, gy float64) image.Point {
	a := math.Atan2(gy, gx)
	if a < 0 {
		a += math.Pi
	}
	switch {
	case a < math.Pi/8 || a >= 7*math.Pi/8:
		return image.Pt(1, 0)
	case a < 3*math.Pi/8:
		return image.Pt(1, 1)
	case a < 5*math.Pi/8:
		return image.Pt(0, 1)
	default:
		return image.Pt(-1, 1)
	}
}

// dilate и erode с ядром 3×3 закрывают разрывы в краях
func dilate(mask []bool, w, h int) []bool {
	return morph(mask, w, h, true)
}

func erode(mask []bool, w, h int) []bool {
	return morph(mask, w, h, false)
}

func morph(mask []bool, w, h int, grow bool) []bool {
	out := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := !grow
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					on := nx >= 0 && ny >= 0 && nx < w && ny < h && mask[ny*w+nx]
					if grow && on {
						v = true
					}
					if !grow && !on {
						v = false
					}
				}
			}
			out[y*w+x] = v
		}
	}
	return out
}

func maskImage(mask []bool, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i, on := range mask {
		if on {
			img.SetGray(i%w, i/w, color.Gray{Y: 255})
		}
	}
	return img
}

// components возвращает индексы пикселей 8-связных областей маски.
// Первый индекс каждой области самый верхний левый её пиксель.
func components(mask []bool, w, h, minPixels int) [][]int {
	visited := make([]bool, len(mask))
	var out [][]int
	stack := make([]int, 0, 64)

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		visited[start] = true
		stack = append(stack[:0], start)
		var comp []int
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, idx)
			x, y := idx%w, idx/w
			for _, n := range neighbours {
				nx, ny := x+n.X, y+n.Y
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if mask[j] && !visited[j] {
					visited[j] = true
					stack = append(stack, j)
				}
			}
		}
		if len(comp) >= minPixels {
			out = append(out, comp)
		}
	}
	return out
}

// neighbours окрестность Мура по часовой стрелке (ось Y направлена вниз), начиная с востока
var neighbours = [8]image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

func neighbourIndex(dx, dy int) int {
	for i, n := range neighbours {
		if n.X == dx && n.Y == dy {
			return i
		}
	}
	return 0
}

// traceBoundary обходит внешнюю границу области по соседям Мура, начиная
// с её верхнего левого пикселя start. Обход заканчивается, когда из start
// повторяется первый шаг.
func traceBoundary(mask []bool, w, h, start int) entity.PointSet {
	inside := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && mask[y*w+x]
	}

	sx, sy := start%w, start/w
	x, y := sx, sy
	contour := entity.PointSet{{X: float64(sx), Y: float64(sy)}}

	// Запад от верхнего левого пикселя всегда фон
	back := 4
	firstMove := -1
	for steps := 0; steps < 8*len(mask)+8; steps++ {
		move := -1
		for k := 1; k <= 8; k++ {
			d := (back + k) % 8
			if inside(x+neighbours[d].X, y+neighbours[d].Y) {
				move = d
				break
			}
		}
		if move < 0 {
			break
		}
		if x == sx && y == sy {
			if firstMove == move {
				break
			}
			if firstMove < 0 {
				firstMove = move
			}
		}

		// последний проверенный фоновый пиксель становится точкой возврата
		prev := neighbours[(move+7)%8]
		bx, by := x+prev.X, y+prev.Y
		x, y = x+neighbours[move].X, y+neighbours[move].Y
		back = neighbourIndex(bx-x, by-y)
		contour = append(contour, entity.Point2D{X: float64(x), Y: float64(y)})
	}

	if n := len(contour); n > 1 && contour[n-1] == contour[0] {
		contour = contour[:n-1]
	}
	return contour
}

// Проверка реализации интерфейса
var _ port.ContourExtractor = (*Extractor)(nil)
