package entity

import (
	"image"
	"time"
)

// ShapeMeasurement результат измерения одного контура на изображении
type ShapeMeasurement struct {
	Index  int             // порядковый номер контура после фильтрации
	Fit    Circle          // окружность, подобранная по полному контуру
	Points int             // количество точек после упрощения
	Result RoundnessResult // зона круглости
}

// ImageReport хранит итог анализа изображения.
type ImageReport struct {
	ImageWidth  int
	ImageHeight int
	Method      Method
	Shapes      []ShapeMeasurement
	Contours    []PointSet  // контуры, прошедшие фильтр площади и периметра
	Edges       *image.Gray // маска краёв после морфологии, может быть nil
}

// HasShapes флаг наличия найденных окружностей
func (r *ImageReport) HasShapes() bool {
	return r != nil && len(r.Shapes) > 0
}

// Circles возвращает подобранные окружности всех контуров
func (r *ImageReport) Circles() []Circle {
	if r == nil {
		return nil
	}
	circles := make([]Circle, 0, len(r.Shapes))
	for _, s := range r.Shapes {
		circles = append(circles, s.Fit)
	}
	return circles
}

// ContourSet контуры, выделенные на одном изображении
type ContourSet struct {
	ImageWidth  int
	ImageHeight int
	Contours    []PointSet
	Edges       *image.Gray
}

// StoredMeasurement измерение, прочитанное из истории
type StoredMeasurement struct {
	ID         int64
	Image      string
	ShapeIndex int
	Result     RoundnessResult
	CreatedAt  time.Time
}

// ImageOutcome итог обработки одного файла. Err заполнен, если файл пропущен.
type ImageOutcome struct {
	Image   string
	Report  *ImageReport
	Outputs []string
	Err     error
}
