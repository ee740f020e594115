package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typesymphony/internal/model"
)

// Series is a named run of values plotted left to right.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultChartHeight = 8
	minChartWidth      = 10
	axisLabelWidth     = 5
	axisSeparator      = " │ "
)

// seriesColors are applied in order. Colors degrade to plain text when the
// output has no color support.
var seriesColors = []lipgloss.Color{"#C89A3A", "#5FAFD7", "#7FBF7F", "#D75F87"}

// ChartWidthFor returns the plot area width that fits totalWidth once the
// axis labels are drawn.
func ChartWidthFor(totalWidth int) int {
	w := totalWidth - axisLabelWidth - len([]rune(axisSeparator))
	if w < minChartWidth {
		return minChartWidth
	}
	return w
}

// RenderChart draws series as braille line charts stacked on one grid. Each
// series is scaled to its own range; the axis shows the first series' range.
// Empty series are skipped and nothing is written when none remain.
func RenderChart(w io.Writer, title string, series []Series, width, height int) error {
	plotted := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			plotted = append(plotted, s)
		}
	}
	if len(plotted) == 0 {
		return nil
	}
	if width < minChartWidth {
		width = minChartWidth
	}
	if height <= 0 {
		height = defaultChartHeight
	}

	grids := make([]*brailleGrid, len(plotted))
	ranges := make([][2]float64, len(plotted))
	for i, s := range plotted {
		values := resample(s.Values, width)
		lo, hi := valueRange(values)
		ranges[i] = [2]float64{lo, hi}
		grids[i] = newBrailleGrid(width, height)
		grids[i].polyline(values, lo, hi)
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	labels := axisLabels(ranges[0][0], ranges[0][1], height)
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", axisLabelWidth, labels[y], axisSeparator))
		for x := 0; x < width; x++ {
			var mask uint8
			owner := -1
			for i, g := range grids {
				if m := g.cells[y][x]; m != 0 {
					mask |= m
					if owner < 0 {
						owner = i
					}
				}
			}
			cell := string(rune(0x2800 + int(mask)))
			if owner >= 0 {
				cell = seriesStyle(owner).Render(cell)
			}
			row.WriteString(cell)
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}

	legend := make([]string, len(plotted))
	for i, s := range plotted {
		legend[i] = seriesStyle(i).Render(fmt.Sprintf("● %s %.0f–%.0f", s.Name, ranges[i][0], ranges[i][1]))
	}
	_, err := fmt.Fprintln(w, strings.Join(legend, "   "))
	return err
}

// RenderHistory charts a profile's WPM and accuracy per game, smoothed over
// window games, to fit totalWidth. Profiles with fewer than two games have
// no chart.
func RenderHistory(w io.Writer, p model.ProfileSummary, totalWidth, window int) error {
	if len(p.History) < 2 {
		return nil
	}
	series := []Series{
		{Name: "WPM", Values: MovingAverage(p.History, window)},
		{Name: "Accuracy %", Values: MovingAverage(p.AccuracyHistory, window)},
	}
	return RenderChart(w, "History", series, ChartWidthFor(totalWidth), defaultChartHeight)
}

func seriesStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(seriesColors[i%len(seriesColors)])
}

// valueRange widens a flat range so a constant series draws mid-height.
func valueRange(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		lo--
		hi++
	}
	return lo, hi
}

func axisLabels(lo, hi float64, height int) []string {
	labels := make([]string, height)
	labels[0] = fmt.Sprintf("%.0f", hi)
	if height > 1 {
		labels[height-1] = fmt.Sprintf("%.0f", lo)
	}
	if height > 2 {
		labels[height/2] = fmt.Sprintf("%.0f", (lo+hi)/2)
	}
	return labels
}

// resample maps values onto width points: buckets are averaged when there are
// more values than points and linearly interpolated when there are fewer.
func resample(values []float64, width int) []float64 {
	n := len(values)
	out := make([]float64, width)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			start := i * n / width
			end := (i + 1) * n / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

// brailleGrid is a width x height grid of braille cells, each holding a 2x4
// block of dots.
type brailleGrid struct {
	cells [][]uint8
}

// dotBits[y][x] is the braille bit for the dot at column x, row y of a cell.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func newBrailleGrid(width, height int) *brailleGrid {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &brailleGrid{cells: cells}
}

func (g *brailleGrid) set(x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(g.cells) || cx >= len(g.cells[cy]) {
		return
	}
	g.cells[cy][cx] |= dotBits[y%4][x%2]
}

// polyline plots one value per cell column and joins neighbours with lines.
func (g *brailleGrid) polyline(values []float64, lo, hi float64) {
	dotRows := len(g.cells) * 4
	prevX, prevY := -1, -1
	for i, v := range values {
		x := i * 2
		y := int(math.Round((1 - (v-lo)/(hi-lo)) * float64(dotRows-1)))
		if prevX < 0 {
			g.set(x, y)
		} else {
			g.line(prevX, prevY, x, y)
		}
		prevX, prevY = x, y
	}
}

// line draws with Bresenham's algorithm.
func (g *brailleGrid) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		g.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
