package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/stw/internal/ui/keys"
	"github.com/tgienger/stw/internal/ui/styles"
	"github.com/tgienger/stw/internal/weather"
)

type dailyResultMsg struct {
	seq  uint64
	view weather.DailyView
	err  error
}

// ForecastView is the simple multi-day lookup form.
type ForecastView struct {
	form    *weather.DailyForm
	styles  *styles.Styles
	keys    keys.KeyMap
	input   textinput.Model
	spinner spinner.Model

	width  int
	height int

	seq     uint64
	loading bool
	result  *weather.DailyView
	err     string
}

func NewForecastView(form *weather.DailyForm) *ForecastView {
	input := textinput.New()
	input.Placeholder = "Enter a city"
	input.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Current.Accent)

	return &ForecastView{
		form:    form,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		input:   input,
		spinner: sp,
	}
}

func (v *ForecastView) Init() tea.Cmd {
	return nil
}

// Focus gives the city input the keyboard.
func (v *ForecastView) Focus() tea.Cmd {
	return v.input.Focus()
}

func (v *ForecastView) Blur() {
	v.input.Blur()
}

func (v *ForecastView) lookup(query string) tea.Cmd {
	v.seq++
	seq := v.seq
	form := v.form
	v.loading = true
	v.err = ""
	fetch := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
		defer cancel()
		view, _, err := form.Lookup(ctx, query)
		return dailyResultMsg{seq: seq, view: view, err: err}
	}
	return tea.Batch(fetch, v.spinner.Tick)
}

func (v *ForecastView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.input.Width = clamp(styles.ContentWidth(v.width)-10, 20, 50)
		return v, nil

	case dailyResultMsg:
		if msg.seq != v.seq {
			return v, nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = weather.Message(msg.err)
			v.result = nil
			return v, nil
		}
		view := msg.view
		v.result = &view
		return v, nil

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if !v.input.Focused() {
			switch {
			case key.Matches(msg, v.keys.Quit):
				return v, tea.Quit
			case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Search):
				return v, v.input.Focus()
			}
			return v, nil
		}
		switch {
		case key.Matches(msg, v.keys.Back):
			v.input.Blur()
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			// Blank input does nothing.
			if strings.TrimSpace(v.input.Value()) == "" {
				return v, nil
			}
			return v, v.lookup(v.input.Value())
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	// Cursor blinks and other input-internal messages.
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *ForecastView) View() string {
	s := v.styles

	inputStyle := s.Input
	if v.input.Focused() {
		inputStyle = s.InputFocused
	}

	parts := []string{
		s.Title.Render("Daily forecast"),
		inputStyle.Render(v.input.View()),
	}

	switch {
	case v.loading:
		parts = append(parts, v.spinner.View()+" "+s.StatusBar.Render("Loading..."))
	case v.err != "":
		parts = append(parts, s.Error.Render(v.err))
	}

	if v.result != nil {
		parts = append(parts, "", s.TaskTitle.Bold(true).Render(v.result.Title))
		for _, d := range v.result.Days {
			parts = append(parts, s.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
				s.HelpKey.Render(d.Date),
				d.High,
				d.Low,
				s.TitleMuted.Render(d.Precipitation),
			)))
		}
	}

	help := s.HelpKey.Render("↵") + " look up • " + s.HelpKey.Render("esc") + " leave input"
	if !v.input.Focused() {
		help = s.HelpKey.Render("↵") + " type a city • " + s.HelpKey.Render("q") + " quit"
	}
	parts = append(parts, s.Help.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
