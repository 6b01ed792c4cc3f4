package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/wbs/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
	ColorShade  = lipgloss.Color("#3c3836")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleCursor = lipgloss.NewStyle().Foreground(ColorFg).Background(ColorShade).Bold(true)
)

// StatusStyle colors bars and pills by task status.
func StatusStyle(s domain.Status) lipgloss.Style {
	switch s {
	case domain.StatusInProgress:
		return StyleBlue
	case domain.StatusDone:
		return StyleGreen
	case domain.StatusOnHold:
		return StyleYellow
	default:
		return StyleFg
	}
}

// StatusPill returns a colored status indicator such as "● In progress".
func StatusPill(s domain.Status) string {
	switch s {
	case domain.StatusInProgress:
		return StyleBlue.Render("● " + s.Label())
	case domain.StatusDone:
		return StyleGreen.Render("✔ " + s.Label())
	case domain.StatusOnHold:
		return StyleYellow.Render("⏸ " + s.Label())
	default:
		return StyleDim.Render("○ " + s.Label())
	}
}

// StatusGlyph is the one-cell status marker used in the outline.
func StatusGlyph(s domain.Status) string {
	switch s {
	case domain.StatusInProgress:
		return "●"
	case domain.StatusDone:
		return "✔"
	case domain.StatusOnHold:
		return "⏸"
	default:
		return "○"
	}
}

// OwnerBadge renders the owner as a short colored tag.
func OwnerBadge(o domain.Owner) string {
	switch o {
	case domain.OwnerEngineer:
		return StyleBlue.Render("ENG")
	case domain.OwnerDesigner:
		return StylePurple.Render("DES")
	case domain.OwnerShared:
		return StyleYellow.Render("SHR")
	}
	return StyleDim.Render("--")
}

// PriorityLabel dims everything but required work.
func PriorityLabel(p domain.Priority) string {
	if p == domain.PriorityRequired {
		return StyleFg.Render(p.Label())
	}
	return StyleDim.Render(p.Label())
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
