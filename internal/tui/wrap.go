package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// glyph is one rendered reference rune.
type glyph struct {
	s       string
	width   int
	isSpace bool
}

// span is a half-open rune range of a word in the reference text.
type span struct {
	start int
	end   int
}

func (s span) contains(i int) bool {
	return i >= s.start && i < s.end
}

// buildStyledRunes styles each reference rune against the typed input. A
// mistyped space is shown as a dot so the error stays visible.
func buildStyledRunes(target, typed []rune, cursorIndex int) []glyph {
	current, hasCurrent := wordAt(wordSpans(target), cursorIndex)

	out := make([]glyph, 0, len(target))
	for i, want := range target {
		shown := want
		var style lipgloss.Style
		switch {
		case i < len(typed) && typed[i] == want:
			style = correctStyle
		case i < len(typed) && want == ' ':
			shown = '•'
			style = incorrectStyle
		case i < len(typed):
			style = incorrectStyle
		case want != ' ' && hasCurrent && current.contains(i):
			style = currentWordStyle
		default:
			style = pendingStyle
		}
		if i == cursorIndex && i >= len(typed) {
			style = style.Underline(true)
		}
		out = append(out, glyph{
			s:       style.Render(string(shown)),
			width:   runewidth.RuneWidth(shown),
			isSpace: want == ' ',
		})
	}
	return out
}

func wordSpans(target []rune) []span {
	var spans []span
	start := -1
	for i, r := range target {
		switch {
		case r == ' ' && start >= 0:
			spans = append(spans, span{start: start, end: i})
			start = -1
		case r != ' ' && start < 0:
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, span{start: start, end: len(target)})
	}
	return spans
}

// wordAt returns the word under the cursor, or the next word when the cursor
// sits on a space. A negative cursor selects the first word and a cursor past
// the end selects the last.
func wordAt(spans []span, cursorIndex int) (span, bool) {
	if len(spans) == 0 {
		return span{}, false
	}
	if cursorIndex < 0 {
		return spans[0], true
	}
	for _, s := range spans {
		if cursorIndex < s.end {
			return s, true
		}
	}
	return spans[len(spans)-1], true
}

func renderStyledRunes(glyphs []glyph) string {
	var b strings.Builder
	for _, g := range glyphs {
		b.WriteString(g.s)
	}
	return b.String()
}

// wrapStyledRunes breaks glyphs into lines no wider than width, preferring
// to break at spaces. The breaking space is dropped. Words longer than a line
// are split.
func wrapStyledRunes(glyphs []glyph, width int) string {
	if width <= 0 {
		return renderStyledRunes(glyphs)
	}
	var lines []string
	var line []glyph
	lineWidth := 0
	breakAt := -1

	flush := func(upTo, resume int) {
		lines = append(lines, renderStyledRunes(line[:upTo]))
		rest := append([]glyph(nil), line[resume:]...)
		line = rest
		lineWidth = 0
		breakAt = -1
		for i, g := range line {
			lineWidth += g.width
			if g.isSpace {
				breakAt = i
			}
		}
	}

	for i := 0; i < len(glyphs); {
		g := glyphs[i]
		if lineWidth+g.width > width && len(line) > 0 {
			if breakAt >= 0 {
				flush(breakAt, breakAt+1)
			} else {
				flush(len(line), len(line))
			}
			continue
		}
		line = append(line, g)
		lineWidth += g.width
		if g.isSpace {
			breakAt = len(line) - 1
		}
		i++
	}
	lines = append(lines, renderStyledRunes(line))
	return strings.Join(lines, "\n")
}
