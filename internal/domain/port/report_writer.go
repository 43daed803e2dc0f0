package port

import "roundness-meter/internal/domain/entity"

// ReportWriter сохраняет сводный отчёт по обработанным изображениям
type ReportWriter interface {
	Write(path string, outcomes []entity.ImageOutcome) error
}
