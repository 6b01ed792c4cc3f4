package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
	"github.com/alexanderramin/wbs/internal/domain"
)

// wbsHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func wbsHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// taskFormValues are the edit form's fields as the user typed them.
type taskFormValues struct {
	Name     string
	Phase    string
	Category string
	Owner    domain.Owner
	Status   domain.Status
	Priority domain.Priority
	Effort   string
	Start    string
	End      string
	Note     string
}

func taskFormFrom(t domain.Task) *taskFormValues {
	v := &taskFormValues{
		Name:     t.Name,
		Phase:    t.Phase,
		Category: t.Category,
		Owner:    t.Owner,
		Status:   t.Status,
		Priority: t.Priority,
		Effort:   t.Effort,
		Note:     t.Note,
	}
	if !t.StartDate.IsZero() {
		v.Start = t.StartDate.String()
	}
	if !t.EndDate.IsZero() {
		v.End = t.EndDate.String()
	}
	if v.Owner == "" {
		v.Owner = domain.OwnerEngineer
	}
	if v.Status == "" {
		v.Status = domain.StatusNotStarted
	}
	if v.Priority == "" {
		v.Priority = domain.PriorityRequired
	}
	return v
}

// apply copies the form onto t. Empty dates clear the column.
func (v *taskFormValues) apply(t *domain.Task) error {
	start, err := domain.ParseDate(v.Start)
	if err != nil {
		return err
	}
	end, err := domain.ParseDate(v.End)
	if err != nil {
		return err
	}
	t.Name = strings.TrimSpace(v.Name)
	t.Phase = v.Phase
	t.Category = strings.TrimSpace(v.Category)
	t.Owner = v.Owner
	t.Status = v.Status
	t.Priority = v.Priority
	t.Effort = v.Effort
	t.Note = v.Note
	t.StartDate = start
	t.EndDate = end
	return nil
}

// validateEnd rejects an end date before the form's start date.
func (v *taskFormValues) validateEnd(s string) error {
	if err := validateOptionalDate(s); err != nil {
		return err
	}
	start, err := domain.ParseDate(v.Start)
	if err != nil || start.IsZero() || s == "" {
		return nil
	}
	if domain.MustParseDate(s).Before(start) {
		return errors.New("end date is before start date")
	}
	return nil
}

// newTaskForm builds the add/edit task form over v. phases are the names
// offered in the phase select; v.Phase is kept even when not among them.
func newTaskForm(v *taskFormValues, phases []string) *huh.Form {
	phaseOpts := make([]huh.Option[string], 0, len(phases)+1)
	known := false
	for _, p := range phases {
		phaseOpts = append(phaseOpts, huh.NewOption(p, p))
		known = known || p == v.Phase
	}
	if !known && v.Phase != "" {
		phaseOpts = append(phaseOpts, huh.NewOption(v.Phase, v.Phase))
	}

	ownerOpts := make([]huh.Option[domain.Owner], 0, len(domain.Owners))
	for _, o := range domain.Owners {
		ownerOpts = append(ownerOpts, huh.NewOption(o.Label(), o))
	}
	statusOpts := make([]huh.Option[domain.Status], 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		statusOpts = append(statusOpts, huh.NewOption(s.Label(), s))
	}
	priorityOpts := make([]huh.Option[domain.Priority], 0, len(domain.Priorities))
	for _, p := range domain.Priorities {
		priorityOpts = append(priorityOpts, huh.NewOption(p.Label(), p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Value(&v.Name).
				Validate(requiredText("Task name")),
			huh.NewSelect[string]().
				Title("Phase").
				Options(phaseOpts...).
				Value(&v.Phase),
			huh.NewInput().
				Title("Category").
				Placeholder("none").
				Value(&v.Category),
			huh.NewSelect[domain.Owner]().
				Title("Owner").
				Options(ownerOpts...).
				Value(&v.Owner),
		),
		huh.NewGroup(
			huh.NewSelect[domain.Status]().
				Title("Status").
				Options(statusOpts...).
				Value(&v.Status),
			huh.NewSelect[domain.Priority]().
				Title("Priority").
				Options(priorityOpts...).
				Value(&v.Priority),
			huh.NewInput().
				Title("Effort").
				Placeholder("e.g. 3d").
				Value(&v.Effort),
			dateInput("Start", "", &v.Start),
			dateInput("End", "", &v.End).Validate(v.validateEnd),
			huh.NewText().
				Title("Note").
				Lines(3).
				Value(&v.Note),
		),
	).WithTheme(wbsHuhTheme()).WithShowHelp(false)
}

// newNameForm is a single required text input, used for phases and
// categories.
func newNameForm(title string, value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Value(value).
				Validate(requiredText(title)),
		),
	).WithTheme(wbsHuhTheme()).WithShowHelp(false)
}

// newCategoryForm asks for a category name and the phase it belongs to.
func newCategoryForm(phases []domain.Phase, name *string, phaseID *int64) *huh.Form {
	opts := make([]huh.Option[int64], 0, len(phases))
	for _, p := range phases {
		opts = append(opts, huh.NewOption(p.Name, p.ID))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Category").
				Value(name).
				Validate(requiredText("Category name")),
			huh.NewSelect[int64]().
				Title("Phase").
				Options(opts...).
				Value(phaseID),
		),
	).WithTheme(wbsHuhTheme()).WithShowHelp(false)
}

// newGotoForm asks for the date to scroll to.
func newGotoForm(value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			dateInput("Go to date", "", value).Validate(func(s string) error {
				if s == "" {
					return errors.New("enter a date")
				}
				return validateOptionalDate(s)
			}),
		),
	).WithTheme(wbsHuhTheme()).WithShowHelp(false)
}

func requiredText(title string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", title)
		}
		return nil
	}
}
