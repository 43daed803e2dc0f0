package metrology

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"roundness-meter/internal/domain/entity"
)

func TestPolygonAreaAndPerimeter(t *testing.T) {
	square := entity.PointSet{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}
	require.InDelta(t, 10000, PolygonArea(square), 1e-9)
	require.InDelta(t, 400, Perimeter(square), 1e-9)

	// обход по часовой стрелке даёт ту же площадь
	reversed := entity.PointSet{square[3], square[2], square[1], square[0]}
	require.InDelta(t, 10000, PolygonArea(reversed), 1e-9)
}

func TestIsCircular(t *testing.T) {
	square := entity.PointSet{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}
	require.False(t, IsCircular(square, DefaultCircularityThreshold))
	require.InDelta(t, math.Pi/4, Circularity(square), 1e-12)

	require.True(t, IsCircular(ringPoints(100, 100, 50, 100), DefaultCircularityThreshold))
	require.InDelta(t, 1, Circularity(ringPoints(0, 0, 10, 360)), 1e-3)
}

func TestIsCircular_Degenerate(t *testing.T) {
	require.False(t, IsCircular(nil, DefaultCircularityThreshold))
	require.False(t, IsCircular(entity.PointSet{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}}, DefaultCircularityThreshold))
	require.False(t, IsCircular(entity.PointSet{{X: 0, Y: 0}, {X: 5, Y: 0}}, DefaultCircularityThreshold))
	require.Zero(t, Circularity(entity.PointSet{{X: 2, Y: 2}}))
}
