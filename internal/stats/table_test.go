package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	cols := []column{{title: "Date"}, {title: "WPM", right: true}, {title: "Accuracy", right: true}}
	rows := [][]string{
		{"2025-01-02 12:00", "48", "97%"},
		{"unknown", "105", "100%"},
	}

	lines := formatTable(cols, rows)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Date             WPM Accuracy" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "2025-01-02 12:00  48      97%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "unknown          105     100%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableTruncatesAndMeasuresWideRunes(t *testing.T) {
	cols := []column{{title: "Player", max: 6}, {title: "N", right: true}}
	rows := [][]string{
		{"Bartholomew", "1"},
		{"李雷", "2"},
		{"Al"},
	}
	lines := formatTable(cols, rows)
	if lines[1] != "Barth… 1" {
		t.Fatalf("unexpected truncated row: %q", lines[1])
	}
	if lines[2] != "李雷   2" {
		t.Fatalf("expected wide runes to count double: %q", lines[2])
	}
	if lines[3] != "Al      " {
		t.Fatalf("expected missing cell to pad: %q", lines[3])
	}
}
