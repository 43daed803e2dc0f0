//go:build !gocv
// +build !gocv

package vision

import "roundness-meter/internal/domain/port"

// Viewer без OpenCV показать окно не может
type Viewer struct{}

// NewViewer создаёт просмотрщик
func NewViewer() *Viewer {
	return &Viewer{}
}

// Show возвращает ErrDisplayUnavailable, если сборка без тега gocv.
func (v *Viewer) Show(string, []byte) error {
	return ErrDisplayUnavailable
}

// Проверка реализации интерфейса
var _ port.Viewer = (*Viewer)(nil)
