package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/stw/internal/models"
	"github.com/tgienger/stw/internal/ui/keys"
	"github.com/tgienger/stw/internal/ui/styles"
	"github.com/tgienger/stw/internal/weather"
)

// RequestTimeout bounds one dashboard action end to end.
const RequestTimeout = 30 * time.Second

type weatherResultMsg struct {
	result weather.Result
}

// WeatherView is the rich dashboard tab.
type WeatherView struct {
	dash    *weather.Dashboard
	styles  *styles.Styles
	keys    keys.KeyMap
	search  textinput.Model
	spinner spinner.Model
	places  *PlaceListView

	width  int
	height int

	typing   bool
	choosing bool
	pending  uint64 // seq of the request in flight, 0 when idle
}

func NewWeatherView(dash *weather.Dashboard) *WeatherView {
	search := textinput.New()
	search.Placeholder = "Search a city or place..."
	search.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Current.Accent)

	return &WeatherView{
		dash:    dash,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		search:  search,
		spinner: sp,
		places:  NewPlaceListView(),
	}
}

func (v *WeatherView) Init() tea.Cmd {
	return nil
}

// Blur releases the search input.
func (v *WeatherView) Blur() {
	v.typing = false
	v.search.Blur()
}

func (v *WeatherView) run(req weather.Request) tea.Cmd {
	v.pending = req.Seq
	dash := v.dash
	fetch := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
		defer cancel()
		return weatherResultMsg{result: dash.Run(ctx, req)}
	}
	return tea.Batch(fetch, v.spinner.Tick)
}

func (v *WeatherView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.search.Width = clamp(styles.ContentWidth(v.width)-10, 20, 50)
		v.places.Update(msg)
		return v, nil

	case weatherResultMsg:
		if v.dash.Apply(msg.result) {
			v.pending = 0
		}
		return v, nil

	case spinner.TickMsg:
		if v.pending == 0 {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case SelectedPlace:
		v.choosing = false
		return v, v.run(v.dash.ShowPlace(msg.Place))

	case ClosePlaces:
		v.choosing = false
		return v, nil

	case tea.KeyMsg:
		if v.choosing {
			var cmd tea.Cmd
			v.places, cmd = v.places.Update(msg)
			return v, cmd
		}
		if v.typing {
			return v.updateSearch(msg)
		}
		return v.updateNormal(msg)
	}

	// Cursor blinks and other input-internal messages.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	cmds = append(cmds, cmd)
	if v.choosing {
		v.places, cmd = v.places.Update(msg)
		cmds = append(cmds, cmd)
	}
	return v, tea.Batch(cmds...)
}

func (v *WeatherView) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.Blur()
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		req, ok := v.dash.Search(v.search.Value())
		if !ok {
			return v, nil
		}
		v.Blur()
		return v, v.run(req)
	}
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	return v, cmd
}

func (v *WeatherView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Search), key.Matches(msg, v.keys.Enter):
		v.typing = true
		return v, v.search.Focus()

	case key.Matches(msg, v.keys.Locate):
		return v, v.run(v.dash.Locate())

	case key.Matches(msg, v.keys.Save):
		v.dash.SaveCurrent()
		return v, nil

	case key.Matches(msg, v.keys.ToggleUnit):
		if req, ok := v.dash.ToggleUnit(); ok {
			return v, v.run(req)
		}
		return v, nil

	case key.Matches(msg, v.keys.Shortcut):
		i := int(msg.String()[0] - '1')
		sc := v.dash.Shortcuts()
		if i >= 0 && i < len(sc) {
			return v, v.run(v.dash.ShowPlace(sc[i].Place))
		}
		return v, nil

	case key.Matches(msg, v.keys.Places):
		v.choosing = true
		v.places.SetPlaces(v.dash.SavedPlaces())
		return v, nil
	}
	return v, nil
}

func (v *WeatherView) View() string {
	if v.choosing {
		return v.places.View()
	}

	s := v.styles
	view := v.dash.Render()

	searchStyle := s.Input
	if v.typing {
		searchStyle = s.InputFocused
	}
	unit := s.FilterButton.Render("°" + string(view.Unit))

	var b strings.Builder
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Weather"),
		lipgloss.JoinHorizontal(lipgloss.Center, searchStyle.Render(v.search.View()), " ", unit),
	))
	b.WriteString("\n")

	if len(view.Shortcuts) > 0 {
		b.WriteString(v.renderShortcuts(view.Shortcuts))
		b.WriteString("\n")
	}

	if msg := v.renderMessage(view.Message); msg != "" {
		b.WriteString(msg)
		b.WriteString("\n")
	}

	if view.Visible {
		b.WriteString(v.renderDashboard(view))
		b.WriteString("\n")
	} else {
		b.WriteString(s.TitleMuted.Render("Search for a place or press 'l' to use your location."))
		b.WriteString("\n")
	}

	b.WriteString(v.renderHelp(view))
	return b.String()
}

func (v *WeatherView) renderMessage(text string) string {
	if text == "" {
		return ""
	}
	if v.pending != 0 {
		return v.spinner.View() + " " + v.styles.StatusBar.Render(text)
	}
	switch text {
	case "Place not found", "Weather API failed", "Location access denied or unavailable.", "Could not save place.":
		return v.styles.Error.Render(text)
	}
	return v.styles.StatusBar.Render(text)
}

func (v *WeatherView) renderShortcuts(sc []weather.Shortcut) string {
	parts := make([]string, len(sc))
	for i, c := range sc {
		parts[i] = v.styles.HelpKey.Render(fmt.Sprint(i+1)) + v.styles.Shortcut.Render(c.Label)
	}
	return strings.Join(parts, " ")
}

func (v *WeatherView) renderDashboard(view weather.DashboardView) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	current := lipgloss.JoinVertical(lipgloss.Left,
		s.TaskTitle.Render(view.Place),
		lipgloss.JoinHorizontal(lipgloss.Center, s.Temp.Render(view.Temp), "  ", view.Desc),
		s.TitleMuted.Render(view.Meta),
	)

	var hours []string
	for _, h := range view.Hours {
		hours = append(hours, fmt.Sprintf("%s  %5s  %s", h.Label, h.Temp, s.TitleMuted.Render(h.Detail)))
	}
	hourly := s.TitleMuted.Render("No hourly data")
	if len(hours) > 0 {
		hourly = strings.Join(cols(hours, width), "\n")
	}

	var details []string
	for _, d := range view.Details {
		details = append(details, s.HelpDesc.Render(d.Label+": ")+d.Value)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Card.Width(width).Render(current),
		s.Title.Render("Next 24 hours"),
		hourly,
		"",
		strings.Join(details, "  "),
	)
}

// cols lays hourly rows out in two columns when the terminal is wide enough.
func cols(rows []string, width int) []string {
	if width < 70 {
		return rows
	}
	half := (len(rows) + 1) / 2
	out := make([]string, half)
	for i := 0; i < half; i++ {
		left := lipgloss.NewStyle().Width(width / 2).Render(rows[i])
		right := ""
		if i+half < len(rows) {
			right = rows[i+half]
		}
		out[i] = left + right
	}
	return out
}

func (v *WeatherView) renderHelp(view weather.DashboardView) string {
	s := v.styles
	if v.typing {
		return s.Help.Render(fmt.Sprintf("%s search • %s cancel",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("esc"),
		))
	}
	items := []string{
		s.HelpKey.Render("/") + " search",
		s.HelpKey.Render("l") + " my location",
		s.HelpKey.Render("u") + " °" + string(otherUnit(view.Unit)),
		s.HelpKey.Render("p") + " places",
	}
	if view.CanSave {
		items = append(items, s.HelpKey.Render("s")+" save")
	}
	items = append(items, s.HelpKey.Render("q")+" quit")
	return s.Help.Render(strings.Join(items, " • "))
}

func otherUnit(u models.Unit) models.Unit {
	if u == models.Fahrenheit {
		return models.Celsius
	}
	return models.Fahrenheit
}
