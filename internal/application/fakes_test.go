package app

import (
	"context"
	"errors"
	"image"
	"math"
	"sync"

	"roundness-meter/internal/domain/entity"
)

var errBadImage = errors.New("bad image")

// fakeExtractor возвращает заданные контуры; изображение "bad" считается битым
type fakeExtractor struct {
	set *entity.ContourSet
}

func (f *fakeExtractor) Extract(ctx context.Context, imageData []byte) (*entity.ContourSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if string(imageData) == "bad" {
		return nil, errBadImage
	}
	return f.set, nil
}

type fakeRenderer struct {
	mu       sync.Mutex
	zones    int
	contours int
	failed   bool
	// failOnce роняет только первую отрисовку зоны
	failOnce bool
}

func (f *fakeRenderer) RenderEdges(edges *image.Gray) ([]byte, error) {
	return []byte("edges"), nil
}

func (f *fakeRenderer) RenderContours(imageData []byte, contours []entity.PointSet) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contours += len(contours)
	return []byte("contours"), nil
}

func (f *fakeRenderer) RenderCircles(imageData []byte, circles []entity.Circle) ([]byte, error) {
	return []byte("circles"), nil
}

func (f *fakeRenderer) RenderRoundness(imageData []byte, result entity.RoundnessResult) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed {
		return nil, errors.New("render failed")
	}
	if f.failOnce {
		f.failOnce = false
		return nil, errors.New("render failed")
	}
	f.zones++
	return []byte(result.Method), nil
}

type fakeViewer struct {
	titles []string
}

func (f *fakeViewer) Show(title string, imageData []byte) error {
	f.titles = append(f.titles, title)
	return nil
}

type fakeMeasurementRepo struct {
	mu    sync.Mutex
	saved map[string]int
}

func (f *fakeMeasurementRepo) Save(ctx context.Context, image string, report *entity.ImageReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		f.saved = make(map[string]int)
	}
	f.saved[image] += len(report.Shapes)
	return nil
}

func (f *fakeMeasurementRepo) ListByImage(ctx context.Context, image string) ([]entity.StoredMeasurement, error) {
	return nil, nil
}

func ring(cx, cy, r float64, n int) entity.PointSet {
	points := make(entity.PointSet, n)
	for i := range points {
		a := 2 * math.Pi * float64(i) / float64(n)
		points[i] = entity.Point2D{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return points
}

// wavyRing окружность с тремя лепестками амплитуды amp
func wavyRing(cx, cy, r, amp float64, n int) entity.PointSet {
	points := make(entity.PointSet, n)
	for i := range points {
		a := 2 * math.Pi * float64(i) / float64(n)
		rr := r + amp*math.Cos(3*a)
		points[i] = entity.Point2D{X: cx + rr*math.Cos(a), Y: cy + rr*math.Sin(a)}
	}
	return points
}

func square(x, y, side float64) entity.PointSet {
	var points entity.PointSet
	for i := 0; i < 20; i++ {
		t := side * float64(i) / 20
		points = append(points, entity.Point2D{X: x + t, Y: y})
	}
	for i := 0; i < 20; i++ {
		t := side * float64(i) / 20
		points = append(points, entity.Point2D{X: x + side, Y: y + t})
	}
	for i := 0; i < 20; i++ {
		t := side * float64(i) / 20
		points = append(points, entity.Point2D{X: x + side - t, Y: y + side})
	}
	for i := 0; i < 20; i++ {
		t := side * float64(i) / 20
		points = append(points, entity.Point2D{X: x, Y: y + side - t})
	}
	return points
}

// sceneContours круг с лепестками, квадрат и мелкое кольцо: измеряется только первый
func sceneContours() *entity.ContourSet {
	return &entity.ContourSet{
		ImageWidth:  400,
		ImageHeight: 300,
		Contours: []entity.PointSet{
			wavyRing(150, 150, 60, 4, 360),
			square(250, 50, 80),
			ring(350, 250, 5, 40),
		},
		Edges: image.NewGray(image.Rect(0, 0, 400, 300)),
	}
}
