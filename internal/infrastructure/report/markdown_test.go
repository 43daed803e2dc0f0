package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"roundness-meter/internal/domain/entity"
)

func sampleOutcomes() []entity.ImageOutcome {
	center := entity.Point2D{X: 120, Y: 80}
	return []entity.ImageOutcome{
		{
			Image: "shaft.jpg",
			Report: &entity.ImageReport{
				ImageWidth:  640,
				ImageHeight: 480,
				Method:      entity.MethodMinZone,
				Shapes: []entity.ShapeMeasurement{{
					Index: 0,
					Fit:   entity.Circle{Center: center, Radius: 50},
					Result: entity.RoundnessResult{
						Method:    entity.MethodMinZone,
						Inner:     entity.Circle{Center: center, Radius: 48.5},
						Outer:     entity.Circle{Center: center, Radius: 51.25},
						Roundness: 2.75,
						Converged: true,
					},
				}},
			},
		},
		{
			Image:  "empty.png",
			Report: &entity.ImageReport{Method: entity.MethodMinZone},
		},
		{
			Image: "broken.jpg",
			Err:   errors.New("decode image"),
		},
	}
}

func TestMarkdownWriter_Render(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownWriter().Render(&buf, sampleOutcomes()))

	out := buf.String()
	require.Contains(t, out, "# Roundness Report")
	require.Contains(t, out, "## shaft.jpg")
	require.Contains(t, out, "Minimum Zone Method")
	require.Contains(t, out, "(120.0, 80.0)")
	require.Contains(t, out, "2.75")
	require.Contains(t, out, "51.25")
	require.Contains(t, out, "No circles detected.")
	require.Contains(t, out, "Error: decode image")
	require.Contains(t, out, "[!WARNING]")
}

func TestMarkdownWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.md")
	require.NoError(t, NewMarkdownWriter().Write(path, sampleOutcomes()[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "## shaft.jpg")
	require.NotContains(t, string(data), "[!WARNING]")
}
