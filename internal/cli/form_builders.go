package cli

import (
	"github.com/charmbracelet/huh"

	"github.com/alexanderramin/wbs/internal/domain"
)

// dateInput returns a huh.Input for an optional date field with YYYY-MM-DD validation.
func dateInput(title, placeholder string, value *string) *huh.Input {
	if placeholder == "" {
		placeholder = "2026-06-30"
	}
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validateOptionalDate)
}

// validateOptionalDate accepts empty or a real YYYY-MM-DD calendar date.
func validateOptionalDate(s string) error {
	_, err := domain.ParseDate(s)
	return err
}
