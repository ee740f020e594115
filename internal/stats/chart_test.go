package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/typesymphony/internal/model"
)

func TestRenderChart(t *testing.T) {
	var buf bytes.Buffer
	err := RenderChart(&buf, "History", []Series{
		{Name: "WPM", Values: []float64{10, 20, 30}},
		{Name: "Empty"},
	}, 12, 4)
	if err != nil {
		t.Fatalf("render chart: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected title, 4 rows and legend, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "History" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "   30 │ ") || !strings.HasPrefix(lines[4], "   10 │ ") {
		t.Fatalf("unexpected axis labels:\n%s", buf.String())
	}
	if !strings.Contains(lines[5], "WPM 10–30") || strings.Contains(lines[5], "Empty") {
		t.Fatalf("unexpected legend %q", lines[5])
	}
}

func TestRenderChartSkipsEmptyInput(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderChart(&buf, "Nothing", []Series{{Name: "WPM"}}, 20, 4); err != nil {
		t.Fatalf("render chart: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestRenderHistoryNeedsTwoGames(t *testing.T) {
	var buf bytes.Buffer
	one := BuildProfile(model.User{Scores: []model.ScoreRecord{score(40, 90, 1)}})
	if err := RenderHistory(&buf, one, 80, 3); err != nil || buf.Len() != 0 {
		t.Fatalf("expected no chart for a single game, got %q err=%v", buf.String(), err)
	}
	two := BuildProfile(model.User{Scores: []model.ScoreRecord{score(40, 90, 1), score(50, 95, 2)}})
	if err := RenderHistory(&buf, two, 80, 1); err != nil {
		t.Fatalf("render history: %v", err)
	}
	if !strings.Contains(buf.String(), "Accuracy % 90–95") {
		t.Fatalf("expected accuracy series in legend:\n%s", buf.String())
	}
}

func TestResample(t *testing.T) {
	cases := []struct {
		in    []float64
		width int
		want  []float64
	}{
		{[]float64{1, 3}, 3, []float64{1, 2, 3}},
		{[]float64{1, 2, 3, 4}, 2, []float64{1.5, 3.5}},
		{[]float64{7}, 3, []float64{7, 7, 7}},
	}
	for _, tc := range cases {
		got := resample(tc.in, tc.width)
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("resample(%v, %d) = %v, want %v", tc.in, tc.width, got, tc.want)
			}
		}
	}
}

func TestBrailleGrid(t *testing.T) {
	g := newBrailleGrid(2, 1)
	g.set(1, 0)
	g.set(2, 3)
	g.set(9, 9)
	if g.cells[0][0] != 0x08 || g.cells[0][1] != 0x40 {
		t.Fatalf("unexpected cells %v", g.cells)
	}

	g = newBrailleGrid(2, 1)
	g.line(0, 3, 2, 0)
	if g.cells[0][0] == 0 || g.cells[0][1] == 0 {
		t.Fatalf("expected line to touch both cells: %v", g.cells)
	}
}

func TestChartWidthFor(t *testing.T) {
	if got := ChartWidthFor(80); got != 72 {
		t.Fatalf("expected 72, got %d", got)
	}
	if got := ChartWidthFor(0); got != minChartWidth {
		t.Fatalf("expected min width, got %d", got)
	}
}
