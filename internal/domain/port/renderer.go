package port

import (
	"image"

	"roundness-meter/internal/domain/entity"
)

// Renderer рисует результаты измерений поверх исходного изображения
type Renderer interface {
	// RenderEdges кодирует маску краёв в JPEG
	RenderEdges(edges *image.Gray) ([]byte, error)

	// RenderContours обводит контуры, прошедшие фильтр
	RenderContours(imageData []byte, contours []entity.PointSet) ([]byte, error)

	// RenderCircles отмечает все подобранные окружности
	RenderCircles(imageData []byte, circles []entity.Circle) ([]byte, error)

	// RenderRoundness рисует внутреннюю и внешнюю окружности зоны и подпись
	RenderRoundness(imageData []byte, result entity.RoundnessResult) ([]byte, error)
}

// Viewer показывает изображение в окне
type Viewer interface {
	Show(title string, imageData []byte) error
}
