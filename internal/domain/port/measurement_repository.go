package port

import (
	"context"

	"roundness-meter/internal/domain/entity"
)

// MeasurementRepository интерфейс хранилища истории измерений
type MeasurementRepository interface {
	// Save сохраняет все измерения одного изображения
	Save(ctx context.Context, image string, report *entity.ImageReport) error

	// ListByImage возвращает сохранённые измерения изображения, новые первыми
	ListByImage(ctx context.Context, image string) ([]entity.StoredMeasurement, error)
}
