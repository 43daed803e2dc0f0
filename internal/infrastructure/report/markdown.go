// Package report пишет сводку пакетной обработки в Markdown.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nao1215/markdown"

	"roundness-meter/internal/domain/entity"
	"roundness-meter/internal/domain/port"
)

// MarkdownWriter формирует report.md по результатам обработки каталога.
type MarkdownWriter struct{}

func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{}
}

// Write создаёт файл отчёта по указанному пути.
func (w *MarkdownWriter) Write(path string, outcomes []entity.ImageOutcome) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := w.Render(f, outcomes); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Render пишет отчёт в произвольный writer.
func (w *MarkdownWriter) Render(out io.Writer, outcomes []entity.ImageOutcome) error {
	md := markdown.NewMarkdown(out)

	md.H1("Roundness Report")
	md.PlainText("")

	w.writeSummary(md, outcomes)
	for _, o := range outcomes {
		w.writeImage(md, o)
	}

	return md.Build()
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, outcomes []entity.ImageOutcome) {
	var failed, shapes int
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			continue
		}
		shapes += len(o.Report.Shapes)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Images", strconv.Itoa(len(outcomes))},
			{"Failed", strconv.Itoa(failed)},
			{"Circles", strconv.Itoa(shapes)},
		},
	})
	md.PlainText("")

	if failed > 0 {
		md.Warningf("%d image(s) could not be processed.", failed)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeImage(md *markdown.Markdown, o entity.ImageOutcome) {
	md.H2(o.Image)
	md.PlainText("")

	switch {
	case o.Err != nil:
		md.PlainText("Error: " + o.Err.Error())
		md.PlainText("")
		return
	case !o.Report.HasShapes():
		md.PlainText("No circles detected.")
		md.PlainText("")
		return
	}

	md.PlainTextf("Method: %s", o.Report.Method.Title())
	md.PlainText("")

	rows := make([][]string, 0, len(o.Report.Shapes))
	for _, s := range o.Report.Shapes {
		center := s.Result.Center()
		rows = append(rows, []string{
			strconv.Itoa(s.Index),
			fmt.Sprintf("(%.1f, %.1f)", center.X, center.Y),
			formatFloat(s.Result.Inner.Radius),
			formatFloat(s.Result.Outer.Radius),
			formatFloat(s.Result.Roundness),
			strconv.FormatBool(s.Result.Converged),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Circle", "Center", "Inner", "Outer", "Roundness", "Converged"},
		Rows:   rows,
	})
	md.PlainText("")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

var _ port.ReportWriter = (*MarkdownWriter)(nil)
