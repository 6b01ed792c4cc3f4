package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CellKind classifies one terminal column of a timeline row.
type CellKind int

const (
	CellBlank CellKind = iota
	CellWeekend
	CellToday
	CellBar
	CellGhost
	CellLabel
)

const (
	RuneBar     = '█'
	RuneHandle  = '▌'
	RuneGhost   = '░'
	RuneWeekend = '·'
	RuneToday   = '│'
)

// Track is one timeline row assembled column by column, then rendered with
// one style per run of equal kinds.
type Track struct {
	runes []rune
	kinds []CellKind
}

func NewTrack(width int) *Track {
	if width < 0 {
		width = 0
	}
	t := &Track{runes: make([]rune, width), kinds: make([]CellKind, width)}
	for i := range t.runes {
		t.runes[i] = ' '
	}
	return t
}

func (t *Track) Width() int { return len(t.runes) }

// Set writes one cell; out-of-range columns are ignored.
func (t *Track) Set(col int, r rune, k CellKind) {
	if col < 0 || col >= len(t.runes) {
		return
	}
	t.runes[col] = r
	t.kinds[col] = k
}

// Fill writes r over [from, to), clipped to the track.
func (t *Track) Fill(from, to int, r rune, k CellKind) {
	for c := max(from, 0); c < to && c < len(t.runes); c++ {
		t.runes[c] = r
		t.kinds[c] = k
	}
}

// Write places s starting at col, clipped to the track.
func (t *Track) Write(col int, s string, k CellKind) {
	for _, r := range s {
		t.Set(col, r, k)
		col++
	}
}

// Plain returns the row without styling.
func (t *Track) Plain() string {
	return string(t.runes)
}

// Render styles the row; bar colors both bars and their labels.
func (t *Track) Render(bar lipgloss.Style) string {
	var b strings.Builder
	start := 0
	for i := 1; i <= len(t.runes); i++ {
		if i < len(t.runes) && t.kinds[i] == t.kinds[start] {
			continue
		}
		b.WriteString(styleFor(t.kinds[start], bar).Render(string(t.runes[start:i])))
		start = i
	}
	return b.String()
}

func styleFor(k CellKind, bar lipgloss.Style) lipgloss.Style {
	switch k {
	case CellWeekend:
		return StyleDim
	case CellToday:
		return StyleRed
	case CellBar:
		return bar
	case CellGhost:
		return StylePurple
	case CellLabel:
		return bar.Bold(true)
	}
	return lipgloss.NewStyle()
}
