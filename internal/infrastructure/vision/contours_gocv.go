//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"image/draw"

	"gocv.io/x/gocv"

	"roundness-meter/internal/domain/entity"
	"roundness-meter/internal/domain/port"
)

// Extractor выделяет контуры средствами OpenCV
type Extractor struct {
	BlurSize    int     // размер ядра гауссова размытия
	CannyLow    float32 // нижний порог Canny
	CannyHigh   float32 // верхний порог Canny
	MorphKernel int     // размер ядра замыкания
	MorphIters  int     // число итераций расширения и сужения
}

// NewExtractor создаёт экстрактор с настройками по умолчанию
func NewExtractor() *Extractor {
	return &Extractor{
		BlurSize:    5,
		CannyLow:    50,
		CannyHigh:   150,
		MorphKernel: 3,
		MorphIters:  1,
	}
}

// Extract декодирует изображение и возвращает внешние контуры
func (e *Extractor) Extract(ctx context.Context, imageData []byte) (*entity.ContourSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, image.Pt(e.BlurSize, e.BlurSize), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blur, &edges, e.CannyLow, e.CannyHigh)

	// Замыкаем разрывы в краях
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(e.MorphKernel, e.MorphKernel))
	defer kernel.Close()
	for i := 0; i < e.MorphIters; i++ {
		gocv.Dilate(edges, &edges, kernel)
	}
	for i := 0; i < e.MorphIters; i++ {
		gocv.Erode(edges, &edges, kernel)
	}

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	mask, err := grayImage(edges)
	if err != nil {
		return nil, err
	}

	set := &entity.ContourSet{ImageWidth: mat.Cols(), ImageHeight: mat.Rows(), Edges: mask}
	for i := 0; i < contours.Size(); i++ {
		pts := contours.At(i).ToPoints()
		if len(pts) < 3 {
			continue
		}
		contour := make(entity.PointSet, len(pts))
		for j, p := range pts {
			contour[j] = entity.Point2D{X: float64(p.X), Y: float64(p.Y)}
		}
		set.Contours = append(set.Contours, contour)
	}
	return set, nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
// При ошибке возвращённый Mat уже закрыт.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil {
		mat.Close()
		return mat, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if mat.Empty() {
		mat.Close()
		return mat, ErrDecode
	}
	return mat, nil
}

// grayImage копирует одноканальную маску в image.Gray
func grayImage(mask gocv.Mat) (*image.Gray, error) {
	img, err := mask.ToImage()
	if err != nil {
		return nil, err
	}
	if g, ok := img.(*image.Gray); ok {
		return g, nil
	}
	g := image.NewGray(img.Bounds())
	draw.Draw(g, g.Bounds(), img, img.Bounds().Min, draw.Src)
	return g, nil
}

// Проверка реализации интерфейса
var _ port.ContourExtractor = (*Extractor)(nil)
