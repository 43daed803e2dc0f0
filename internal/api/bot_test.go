package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	app "roundness-meter/internal/application"
	"roundness-meter/internal/domain/entity"
)

func TestFormatReport(t *testing.T) {
	report := &entity.ImageReport{
		Method: entity.MethodMinZone,
		Shapes: []entity.ShapeMeasurement{
			{Index: 0, Result: entity.RoundnessResult{Roundness: 1.234, Converged: true}},
			{Index: 2, Result: entity.RoundnessResult{Roundness: 0.5}},
		},
	}

	text := FormatReport(report)
	require.True(t, strings.HasPrefix(text, "📐 Minimum Zone Method"))
	require.Contains(t, text, "Circle 0: Roundness = 1.23 pixels\n")
	require.Contains(t, text, "Circle 2: Roundness = 0.50 pixels (не сошлось)")
}

func TestMethodNames(t *testing.T) {
	require.Equal(t, "min_zone, least_squares, min_circumscribed, max_inscribed", methodNames())
}

func TestOverlayName(t *testing.T) {
	overlay := app.Overlay{Index: 2, Image: []byte("jpg")}
	require.Equal(t, "result_2_min_zone.jpg", overlayName(overlay, entity.MethodMinZone))
}
