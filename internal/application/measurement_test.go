package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"roundness-meter/internal/domain/entity"
)

func TestMeasurementService_Measure(t *testing.T) {
	svc := NewMeasurementService(&fakeExtractor{set: sceneContours()})

	report, err := svc.Measure(context.Background(), []byte("img"), entity.MethodLeastSquares)
	require.NoError(t, err)
	require.Equal(t, 400, report.ImageWidth)
	require.Equal(t, 300, report.ImageHeight)
	require.Equal(t, entity.MethodLeastSquares, report.Method)
	require.Len(t, report.Shapes, 1)
	// мелкое кольцо отсеяно фильтром, квадрат проходит его, но не круглый
	require.Len(t, report.Contours, 2)
	require.NotNil(t, report.Edges)

	shape := report.Shapes[0]
	require.Equal(t, 0, shape.Index)
	require.InDelta(t, 150, shape.Fit.Center.X, 0.5)
	require.InDelta(t, 150, shape.Fit.Center.Y, 0.5)
	require.InDelta(t, 60, shape.Fit.Radius, 0.5)
	require.GreaterOrEqual(t, shape.Points, 3)
	require.Greater(t, shape.Result.Roundness, 3.0)
	require.Less(t, shape.Result.Roundness, 10.0)
	require.InDelta(t, shape.Result.Outer.Radius-shape.Result.Inner.Radius, shape.Result.Roundness, 1e-9)
}

func TestMeasurementService_AllMethods(t *testing.T) {
	svc := NewMeasurementService(&fakeExtractor{set: sceneContours()})

	for _, method := range entity.Methods() {
		t.Run(string(method), func(t *testing.T) {
			report, err := svc.Measure(context.Background(), []byte("img"), method)
			require.NoError(t, err)
			require.Len(t, report.Shapes, 1)
			res := report.Shapes[0].Result
			require.Equal(t, method, res.Method)
			require.GreaterOrEqual(t, res.Roundness, 0.0)
			require.GreaterOrEqual(t, res.Outer.Radius, res.Inner.Radius)
		})
	}
}

func TestMeasurementService_UnknownMethod(t *testing.T) {
	svc := NewMeasurementService(&fakeExtractor{set: sceneContours()})

	_, err := svc.Measure(context.Background(), []byte("img"), entity.Method("ransac"))
	require.ErrorIs(t, err, entity.ErrUnknownMethod)
}

func TestMeasurementService_NoExtractor(t *testing.T) {
	svc := NewMeasurementService(nil)

	_, err := svc.Measure(context.Background(), []byte("img"), entity.DefaultMethod)
	require.ErrorIs(t, err, ErrNoExtractor)
}

func TestMeasurementService_ExtractError(t *testing.T) {
	svc := NewMeasurementService(&fakeExtractor{set: sceneContours()})

	_, err := svc.Measure(context.Background(), []byte("bad"), entity.DefaultMethod)
	require.ErrorIs(t, err, errBadImage)
}

func TestMeasurementService_NoCircles(t *testing.T) {
	set := &entity.ContourSet{
		ImageWidth:  100,
		ImageHeight: 100,
		Contours:    []entity.PointSet{square(10, 10, 80)},
	}
	svc := NewMeasurementService(&fakeExtractor{set: set})

	report, err := svc.Measure(context.Background(), []byte("img"), entity.DefaultMethod)
	require.NoError(t, err)
	require.False(t, report.HasShapes())
}

func TestMeasurementService_KeepsOrder(t *testing.T) {
	opts := DefaultMeasureOptions()
	opts.Workers = 3
	svc := NewMeasurementService(nil, WithMeasureOptions(opts))

	contours := []entity.PointSet{
		ring(100, 100, 40, 200),
		ring(300, 100, 50, 200),
		ring(500, 100, 60, 200),
	}
	shapes, err := svc.MeasureContours(context.Background(), contours, entity.MethodMinCircumscribed)
	require.NoError(t, err)
	require.Len(t, shapes, 3)
	for i, shape := range shapes {
		require.Equal(t, i, shape.Index)
		require.InDelta(t, float64(40+10*i), shape.Fit.Radius, 0.1)
	}
}

func TestMeasurementService_Inspect(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := NewMeasurementService(&fakeExtractor{set: sceneContours()}, WithRenderer(renderer))

	out, err := svc.Inspect(context.Background(), []byte("img"), entity.MethodMaxInscribed)
	require.NoError(t, err)
	require.Len(t, out.Report.Shapes, 1)
	require.Len(t, out.Overlays, 1)
	require.Equal(t, 0, out.Overlays[0].Index)
	require.Equal(t, []byte(entity.MethodMaxInscribed), out.Overlays[0].Image)
}

func TestMeasurementService_InspectKeepsShapeIndex(t *testing.T) {
	renderer := &fakeRenderer{failOnce: true}
	set := &entity.ContourSet{
		ImageWidth:  400,
		ImageHeight: 300,
		Contours: []entity.PointSet{
			ring(100, 150, 50, 200),
			ring(300, 150, 50, 200),
		},
	}
	svc := NewMeasurementService(&fakeExtractor{set: set}, WithRenderer(renderer))

	out, err := svc.Inspect(context.Background(), []byte("img"), entity.MethodLeastSquares)
	require.NoError(t, err)
	require.Len(t, out.Report.Shapes, 2)
	// первая зона не нарисовалась, вторая сохраняет свой номер
	require.Len(t, out.Overlays, 1)
	require.Equal(t, 1, out.Overlays[0].Index)
}

func TestMeasurementService_InspectWithoutRenderer(t *testing.T) {
	svc := NewMeasurementService(&fakeExtractor{set: sceneContours()})

	out, err := svc.Inspect(context.Background(), []byte("img"), entity.DefaultMethod)
	require.NoError(t, err)
	require.Empty(t, out.Overlays)
}

func TestMeasurementService_Cancelled(t *testing.T) {
	svc := NewMeasurementService(&fakeExtractor{set: sceneContours()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Measure(ctx, []byte("img"), entity.DefaultMethod)
	require.ErrorIs(t, err, context.Canceled)
}
