package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/stw/internal/storage"
	"github.com/tgienger/stw/internal/tasks"
	"github.com/tgienger/stw/internal/weather"
)

func newTestApp(t *testing.T, store *storage.Memory) (*App, *tasks.List) {
	t.Helper()
	list := tasks.New(store)
	dash := weather.NewDashboard(weather.DashboardConfig{
		Places: weather.NewPlaces(store),
		Units:  weather.NewUnits(store),
	})
	app := NewApp(store, list, dash, weather.NewDailyForm(nil, nil))
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app, list
}

func TestAppRestoresLastTab(t *testing.T) {
	store := storage.NewMemory()
	_ = store.Set(LastTabKey, "weather")

	app, _ := newTestApp(t, store)
	app.Init()
	if app.Current() != TabWeather {
		t.Errorf("current = %s, want weather", app.Current())
	}
}

func TestAppUnknownTabDefaultsToTasks(t *testing.T) {
	store := storage.NewMemory()
	_ = store.Set(LastTabKey, "settings")

	app, _ := newTestApp(t, store)
	app.Init()
	if app.Current() != TabTasks {
		t.Errorf("current = %s, want tasks", app.Current())
	}
}

func TestAppTabCycling(t *testing.T) {
	store := storage.NewMemory()
	app, _ := newTestApp(t, store)
	app.Init()

	steps := []struct {
		msg  tea.KeyMsg
		want Tab
	}{
		{tea.KeyMsg{Type: tea.KeyTab}, TabWeather},
		{tea.KeyMsg{Type: tea.KeyTab}, TabForecast},
		{tea.KeyMsg{Type: tea.KeyTab}, TabTasks},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, TabForecast},
		{tea.KeyMsg{Type: tea.KeyF1}, TabTasks},
		{tea.KeyMsg{Type: tea.KeyF2}, TabWeather},
		{tea.KeyMsg{Type: tea.KeyF3}, TabForecast},
	}
	for _, s := range steps {
		app.Update(s.msg)
		if app.Current() != s.want {
			t.Fatalf("after %s: current = %s, want %s", s.msg, app.Current(), s.want)
		}
	}

	v, _, _ := store.Get(LastTabKey)
	if v != "forecast" {
		t.Errorf("persisted tab = %q, want forecast", v)
	}
}

func TestAppSwitchingTabsCommitsEdit(t *testing.T) {
	store := storage.NewMemory()
	app, list := newTestApp(t, store)
	app.Init()
	list.Add("note")

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" to self")})
	if list.Editing() == "" {
		t.Fatal("expected an edit in progress")
	}
	app.Update(tea.KeyMsg{Type: tea.KeyTab})

	if list.Editing() != "" {
		t.Error("switching tabs should end the edit")
	}
	if got := list.Tasks()[0].Title; got != "note to self" {
		t.Errorf("title = %q", got)
	}
}

func TestAppStorageFailureDoesNotBreakTabs(t *testing.T) {
	store := storage.NewMemory()
	app, _ := newTestApp(t, store)
	store.SetFailing(true)

	app.Init()
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if app.Current() != TabWeather {
		t.Errorf("current = %s, want weather", app.Current())
	}
}

func TestAppRoutesCursorBlinkToTasksView(t *testing.T) {
	store := storage.NewMemory()
	app, _ := newTestApp(t, store)
	app.Init()

	_, focus := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if focus == nil {
		t.Fatal("focusing the new-task input should start the cursor blink")
	}
	blink := focus()

	// A blink the input recognises schedules the next one.
	if _, next := app.Update(blink); next == nil {
		t.Error("blink message did not reach the new-task input")
	}
}
