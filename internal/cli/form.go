package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/workboard/internal/board"
	"github.com/alexanderramin/workboard/internal/cli/formatter"
	"github.com/alexanderramin/workboard/internal/domain"
)

// taskInput is the raw task as typed on flags or in the form.
type taskInput struct {
	Title    string
	Type     string
	Priority string
	Assignee string
	Column   string
}

// task parses in against layout. An empty column means the first column.
func (in taskInput) task(layout board.Layout) (domain.Task, board.Column, error) {
	t := domain.Task{
		Title:    strings.TrimSpace(in.Title),
		Assignee: strings.TrimSpace(in.Assignee),
	}
	if t.Title == "" {
		return domain.Task{}, "", fmt.Errorf("task title is required")
	}
	var err error
	if t.Type, err = domain.ParseTaskType(in.Type); err != nil {
		return domain.Task{}, "", err
	}
	if t.Priority, err = domain.ParsePriority(in.Priority); err != nil {
		return domain.Task{}, "", err
	}
	var col board.Column
	if in.Column != "" {
		if col, err = columnArg(layout, in.Column); err != nil {
			return domain.Task{}, "", err
		}
	}
	return t, col, nil
}

// huhTheme styles forms with the formatter palette.
func huhTheme() *huh.Theme {
	t := huh.ThemeBase()

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

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// taskForm collects a task. Values already set on in become the defaults.
func taskForm(layout board.Layout, in *taskInput) *huh.Form {
	if in.Column == "" {
		in.Column = string(layout.First())
	}

	columns := make([]huh.Option[string], 0, len(layout.Columns))
	for _, c := range layout.Columns {
		columns = append(columns, huh.NewOption(layout.Title(c), string(c)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&in.Title).
				Validate(validateRequired("title")),
			huh.NewSelect[string]().
				Title("Type").
				Options(huh.NewOptions(string(domain.TaskBug), string(domain.TaskFeature), string(domain.TaskImprovement))...).
				Value(&in.Type),
			huh.NewSelect[string]().
				Title("Priority").
				Options(huh.NewOptions(string(domain.PriorityLow), string(domain.PriorityMedium), string(domain.PriorityHigh))...).
				Value(&in.Priority),
			huh.NewInput().
				Title("Assignee").
				Placeholder("Employee Eshaan").
				Value(&in.Assignee),
			huh.NewSelect[string]().
				Title("Column").
				Options(columns...).
				Value(&in.Column),
		),
	).WithShowHelp(false)
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
