package main

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func writeDisk(t *testing.T, path string) {
	t.Helper()
	img := imaging.New(200, 180, color.White)
	for y := 0; y < 180; y++ {
		for x := 0; x < 200; x++ {
			dx, dy := float64(x-100), float64(y-90)
			if dx*dx+dy*dy <= 50*50 {
				img.SetNRGBA(x, y, color.NRGBA{A: 255})
			}
		}
	}
	require.NoError(t, imaging.Save(img, path))
}

// runRoot запускает CLI без истории измерений и без внешних конфигов
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("ROUNDNESS_DB_PATH", "")
	t.Setenv("ROUNDNESS_CONFIG", "")
	t.Setenv("ROUNDNESS_METHOD", "")
	t.Setenv("ROUNDNESS_OUTPUT_DIR", "")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("workers: 2\n"), 0o644))

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	require.Equal(t, "roundness-meter", cmd.Use)

	method := cmd.Flags().Lookup("method")
	require.NotNil(t, method)
	require.Equal(t, "min_zone", method.DefValue)

	outputDir := cmd.Flags().Lookup("output_dir")
	require.NotNil(t, outputDir)
	require.Equal(t, "output", outputDir.DefValue)

	require.NotNil(t, cmd.Flags().Lookup("image_path"))
	require.NotNil(t, cmd.Flags().Lookup("show"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))

	var hasBot bool
	for _, sub := range cmd.Commands() {
		if sub.Use == "bot" {
			hasBot = true
		}
	}
	require.True(t, hasBot)
}

func TestRoot_MissingImagePath(t *testing.T) {
	_, err := runRoot(t)
	require.ErrorIs(t, err, errMissingImagePath)
}

func TestRoot_SingleImage(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "disk.png")
	writeDisk(t, image)
	outDir := filepath.Join(dir, "out")

	out, err := runRoot(t, "--image_path", image, "--output_dir", outDir, "--method", "least_squares")
	require.NoError(t, err)
	require.Contains(t, out, "Circle 0: Roundness = ")
	require.Contains(t, out, "Processing complete.")
	require.FileExists(t, filepath.Join(outDir, "edges.jpg"))
	require.FileExists(t, filepath.Join(outDir, "contours.jpg"))
	require.FileExists(t, filepath.Join(outDir, "circles.jpg"))
	require.FileExists(t, filepath.Join(outDir, "result_0_least_squares.jpg"))
}

func TestRoot_MissingImageIsFatal(t *testing.T) {
	_, err := runRoot(t, "--image_path", filepath.Join(t.TempDir(), "absent.jpg"))
	require.Error(t, err)
}

func TestRoot_BrokenImageIsFatal(t *testing.T) {
	image := filepath.Join(t.TempDir(), "broken.jpg")
	require.NoError(t, os.WriteFile(image, []byte("not an image"), 0o644))

	_, err := runRoot(t, "--image_path", image, "--output_dir", t.TempDir())
	require.Error(t, err)
}

func TestRoot_Directory(t *testing.T) {
	dir := t.TempDir()
	writeDisk(t, filepath.Join(dir, "a.png"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.jpg"), []byte("not an image"), 0o644))
	outDir := filepath.Join(t.TempDir(), "out")

	out, err := runRoot(t, "--image_path", dir, "--output_dir", outDir)
	require.NoError(t, err)
	require.Contains(t, out, "a.png:\nCircle 0: Roundness = ")
	require.Contains(t, out, "b.jpg:\n  Error: ")
	require.Contains(t, out, "Processing complete.")
	require.FileExists(t, filepath.Join(outDir, "a", "result_0_min_zone.jpg"))
	require.FileExists(t, filepath.Join(outDir, "report.md"))
}

func TestRoot_InvalidMethod(t *testing.T) {
	image := filepath.Join(t.TempDir(), "disk.png")
	writeDisk(t, image)

	_, err := runRoot(t, "--image_path", image, "--method", "ransac")
	require.Error(t, err)
}

func TestBot_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	_, err := runRoot(t, "bot")
	require.Error(t, err)
}
