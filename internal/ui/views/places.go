package views

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/stw/internal/models"
	"github.com/tgienger/stw/internal/ui/keys"
	"github.com/tgienger/stw/internal/ui/styles"
)

type placeItem struct {
	place models.Place
}

func (i placeItem) Title() string { return i.place.Name }
func (i placeItem) Description() string {
	return fmt.Sprintf("%.3f, %.3f", i.place.Lat, i.place.Lon)
}
func (i placeItem) FilterValue() string { return i.place.Name }

type placeDelegate struct {
	styles *styles.Styles
	width  int
}

func (d placeDelegate) Height() int                               { return 2 }
func (d placeDelegate) Spacing() int                              { return 1 }
func (d placeDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d placeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(placeItem)
	if !ok {
		return
	}

	width := max(d.width-4, 20)
	titleStyle := d.styles.ListItem.Width(width)
	descStyle := d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	if index == m.Index() {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(p.Title()), descStyle.Render(p.Description()))
}

// SelectedPlace is sent when a saved place is picked from the list.
type SelectedPlace struct {
	Place models.Place
}

// ClosePlaces is sent when the picker is dismissed without a choice.
type ClosePlaces struct{}

// PlaceListView lists every saved place, including those beyond the
// numbered shortcuts.
type PlaceListView struct {
	list     list.Model
	delegate *placeDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
}

func NewPlaceListView() *PlaceListView {
	s := styles.NewStyles()
	delegate := &placeDelegate{styles: s, width: styles.MaxWidth}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Saved places"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &PlaceListView{
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
	}
}

// SetPlaces replaces the listed places.
func (v *PlaceListView) SetPlaces(places []models.Place) {
	items := make([]list.Item, len(places))
	for i, p := range places {
		items[i] = placeItem{place: p}
	}
	v.list.ResetFilter()
	v.list.SetItems(items)
	v.list.Select(0)
}

func (v *PlaceListView) Update(msg tea.Msg) (*PlaceListView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, max(msg.Height-8, 4))
		return v, nil

	case tea.KeyMsg:
		if v.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, v.keys.Back):
			if v.list.IsFiltered() {
				break
			}
			return v, func() tea.Msg { return ClosePlaces{} }
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(placeItem); ok {
				return v, func() tea.Msg { return SelectedPlace{Place: item.place} }
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *PlaceListView) View() string {
	s := v.styles
	if len(v.list.Items()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render("Saved places"),
			"",
			s.TitleMuted.Render("No saved places yet. Press 's' on a forecast to save it."),
			"",
			s.Help.Render(s.HelpKey.Render("esc")+" back"),
		)
	}
	return v.list.View() + "\n" + s.Help.Render(
		fmt.Sprintf("%s show • %s filter • %s back",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("/"),
			s.HelpKey.Render("esc"),
		),
	)
}
