//go:build gocv
// +build gocv

package vision

import (
	"gocv.io/x/gocv"

	"roundness-meter/internal/domain/port"
)

// Viewer показывает изображение в окне OpenCV до нажатия клавиши
type Viewer struct{}

// NewViewer создаёт просмотрщик
func NewViewer() *Viewer {
	return &Viewer{}
}

// Show открывает окно с изображением и ждёт нажатия клавиши
func (v *Viewer) Show(title string, imageData []byte) error {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return err
	}
	defer mat.Close()

	window := gocv.NewWindow(title)
	defer window.Close()

	window.IMShow(mat)
	window.WaitKey(0)
	return nil
}

// Проверка реализации интерфейса
var _ port.Viewer = (*Viewer)(nil)
