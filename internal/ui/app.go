package ui

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/stw/internal/storage"
	"github.com/tgienger/stw/internal/tasks"
	"github.com/tgienger/stw/internal/ui/keys"
	"github.com/tgienger/stw/internal/ui/styles"
	"github.com/tgienger/stw/internal/ui/views"
	"github.com/tgienger/stw/internal/weather"
)

// LastTabKey is where the active tab is remembered between runs.
const LastTabKey = "last_tab"

// Tab is the currently active view
type Tab int

const (
	TabTasks Tab = iota
	TabWeather
	TabForecast
	tabCount
)

var tabNames = [...]string{"tasks", "weather", "forecast"}
var tabTitles = [...]string{"Tasks", "Weather", "Forecast"}

func (t Tab) String() string { return tabNames[t] }

// ParseTab maps a stored name back to a Tab, defaulting to TabTasks.
func ParseTab(s string) Tab {
	for i, n := range tabNames {
		if n == s {
			return Tab(i)
		}
	}
	return TabTasks
}

type App struct {
	store    storage.Store
	styles   *styles.Styles
	keys     keys.KeyMap
	current  Tab
	tasks    *views.TaskListView
	weather  *views.WeatherView
	forecast *views.ForecastView
	width    int
	height   int
}

// Creates a new application
func NewApp(store storage.Store, list *tasks.List, dash *weather.Dashboard, form *weather.DailyForm) *App {
	return &App{
		store:    store,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		tasks:    views.NewTaskListView(list),
		weather:  views.NewWeatherView(dash),
		forecast: views.NewForecastView(form),
	}
}

func (a *App) Init() tea.Cmd {
	last, _, err := a.store.Get(LastTabKey)
	if err != nil {
		log.Printf("ui: load last tab: %v", err)
	}
	a.current = ParseTab(last)
	return a.enter(a.current)
}

// Current returns the active tab.
func (a *App) Current() Tab { return a.current }

func (a *App) enter(t Tab) tea.Cmd {
	if t == TabForecast {
		return a.forecast.Focus()
	}
	return nil
}

func (a *App) switchTo(t Tab) tea.Cmd {
	if t == a.current {
		return nil
	}
	switch a.current {
	case TabTasks:
		a.tasks.Blur()
	case TabWeather:
		a.weather.Blur()
	case TabForecast:
		a.forecast.Blur()
	}
	a.current = t
	if err := a.store.Set(LastTabKey, t.String()); err != nil {
		log.Printf("ui: save last tab: %v", err)
	}
	return a.enter(t)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Views get the space below the tab bar.
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-2, 1)}
		a.tasks.Update(inner)
		a.weather.Update(inner)
		a.forecast.Update(inner)
		return a, nil

	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c":
			a.tasks.Blur()
			return a, tea.Quit
		case key.Matches(msg, a.keys.NextTab):
			return a, a.switchTo((a.current + 1) % tabCount)
		case key.Matches(msg, a.keys.PrevTab):
			return a, a.switchTo((a.current + tabCount - 1) % tabCount)
		case key.Matches(msg, a.keys.TasksTab):
			return a, a.switchTo(TabTasks)
		case key.Matches(msg, a.keys.WxTab):
			return a, a.switchTo(TabWeather)
		case key.Matches(msg, a.keys.DailyTab):
			return a, a.switchTo(TabForecast)
		}
		_, cmd := a.active().Update(msg)
		return a, cmd
	}

	// Async results and cursor blinks belong to whichever view issued them,
	// which need not be the active one.
	var cmds []tea.Cmd
	for _, view := range []tea.Model{a.tasks, a.weather, a.forecast} {
		_, cmd := view.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) active() tea.Model {
	switch a.current {
	case TabWeather:
		return a.weather
	case TabForecast:
		return a.forecast
	}
	return a.tasks
}

func (a *App) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		a.renderTabs(),
		"",
		a.active().View(),
	)
	return styles.CenterView(content, a.width, a.height)
}

func (a *App) renderTabs() string {
	s := a.styles
	parts := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		label := "F" + string(rune('1'+i)) + " " + title
		if Tab(i) == a.current {
			parts[i] = s.TabActive.Render(label)
		} else {
			parts[i] = s.Tab.Render(label)
		}
	}
	return strings.Join(parts, " ")
}
