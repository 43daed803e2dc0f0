package port

import (
	"context"

	"roundness-meter/internal/domain/entity"
)

// ContourExtractor выделяет внешние контуры деталей на изображении
type ContourExtractor interface {
	// Extract декодирует изображение и возвращает найденные контуры, размер кадра
	// и маску краёв, по которой они выделены
	Extract(ctx context.Context, imageData []byte) (*entity.ContourSet, error)
}
