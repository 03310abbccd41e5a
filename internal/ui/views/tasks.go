package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/stw/internal/models"
	"github.com/tgienger/stw/internal/tasks"
	"github.com/tgienger/stw/internal/ui/keys"
	"github.com/tgienger/stw/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusTaskList FocusArea = iota
	FocusNewInput
	FocusSearchInput
)

// TaskListView shows the todo list
type TaskListView struct {
	list   *tasks.List
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	// UI state
	focus       FocusArea
	cursor      int
	scrollY     int
	newInput    textinput.Model
	searchInput textinput.Model

	// Inline title editing
	editInput textinput.Model
	armedID   string // row that received a single enter

	confirmingClear bool
}

// NewTaskListView creates a new task list view
func NewTaskListView(list *tasks.List) *TaskListView {
	newInput := textinput.New()
	newInput.Placeholder = "What needs to be done?"
	newInput.CharLimit = 200

	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100

	edit := textinput.New()
	edit.CharLimit = 200

	return &TaskListView{
		list:        list,
		styles:      styles.NewStyles(),
		keys:        keys.DefaultKeyMap(),
		focus:       FocusTaskList,
		newInput:    newInput,
		searchInput: search,
		editInput:   edit,
	}
}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return nil
}

// Blur commits an in-progress edit and releases the text inputs.
func (v *TaskListView) Blur() {
	v.commitEdit()
	v.newInput.Blur()
	v.searchInput.Blur()
	v.focus = FocusTaskList
	v.armedID = ""
}

func (v *TaskListView) items() []models.Task {
	return v.list.Render().Items
}

func (v *TaskListView) selected() (models.Task, bool) {
	items := v.items()
	if len(items) == 0 {
		return models.Task{}, false
	}
	v.cursor = clamp(v.cursor, 0, len(items)-1)
	return items[v.cursor], true
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		inputWidth := clamp(styles.ContentWidth(v.width)-10, 20, 60)
		v.newInput.Width = inputWidth
		v.editInput.Width = inputWidth
		return v, nil

	case tea.KeyMsg:
		if v.confirmingClear {
			return v.updateConfirmClear(msg)
		}
		if v.list.Editing() != "" {
			return v.updateEditing(msg)
		}
		switch v.focus {
		case FocusNewInput:
			return v.updateNewInput(msg)
		case FocusSearchInput:
			return v.updateSearch(msg)
		}
		return v.updateNormal(msg)
	}

	// Cursor blinks and other input-internal messages.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.newInput, cmd = v.newInput.Update(msg)
	cmds = append(cmds, cmd)
	v.searchInput, cmd = v.searchInput.Update(msg)
	cmds = append(cmds, cmd)
	v.editInput, cmd = v.editInput.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.armedID = ""
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.items())-1 {
			v.cursor++
			v.armedID = ""
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		t, ok := v.selected()
		if !ok {
			return v, nil
		}
		if v.armedID == t.ID {
			return v, v.startEdit(t)
		}
		v.armedID = t.ID
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if t, ok := v.selected(); ok {
			return v, v.startEdit(t)
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if t, ok := v.selected(); ok {
			v.list.Toggle(t.ID)
			v.clampCursor()
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if t, ok := v.selected(); ok {
			v.list.Delete(t.ID)
			v.clampCursor()
		}
		return v, nil

	case key.Matches(msg, v.keys.ClearCompleted):
		v.list.ClearCompleted()
		v.clampCursor()
		return v, nil

	case key.Matches(msg, v.keys.ClearAll):
		if len(v.list.Tasks()) > 0 {
			v.confirmingClear = true
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.focus = FocusNewInput
		v.newInput.Reset()
		return v, v.newInput.Focus()

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		return v, v.searchInput.Focus()

	case key.Matches(msg, v.keys.Filter):
		v.list.SetFilter(nextFilter(v.list.Filter()))
		v.cursor = 0
		v.scrollY = 0
		return v, nil

	case key.Matches(msg, v.keys.Back):
		v.armedID = ""
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateNewInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.newInput.Blur()
		v.focus = FocusTaskList
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		if _, ok := v.list.Add(v.newInput.Value()); ok {
			v.newInput.Reset()
			v.cursor = 0
			v.scrollY = 0
		}
		return v, nil
	}
	var cmd tea.Cmd
	v.newInput, cmd = v.newInput.Update(msg)
	return v, cmd
}

func (v *TaskListView) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
		v.searchInput.Blur()
		v.focus = FocusTaskList
		return v, nil
	}
	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	v.list.SetSearch(v.searchInput.Value())
	v.cursor = 0
	v.scrollY = 0
	return v, cmd
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.list.CancelEdit(v.list.Editing())
		v.editInput.Blur()
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		v.commitEdit()
		return v, nil
	case msg.Type == tea.KeyUp || msg.Type == tea.KeyDown:
		// Moving away from the row counts as losing focus.
		v.commitEdit()
		return v.updateNormal(msg)
	}
	var cmd tea.Cmd
	v.editInput, cmd = v.editInput.Update(msg)
	return v, cmd
}

func (v *TaskListView) updateConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.list.ClearAll(true)
		v.confirmingClear = false
		v.cursor = 0
		v.scrollY = 0
	case "n", "N", "esc":
		v.confirmingClear = false
	}
	return v, nil
}

func (v *TaskListView) startEdit(t models.Task) tea.Cmd {
	title, ok := v.list.BeginEdit(t.ID)
	if !ok {
		return nil
	}
	v.armedID = ""
	v.editInput.SetValue(title)
	v.editInput.CursorEnd()
	return v.editInput.Focus()
}

func (v *TaskListView) commitEdit() {
	id := v.list.Editing()
	if id == "" {
		return
	}
	v.list.CommitEdit(id, v.editInput.Value())
	v.editInput.Blur()
	v.clampCursor()
}

func (v *TaskListView) clampCursor() {
	n := len(v.items())
	v.cursor = clamp(v.cursor, 0, max(n-1, 0))
	v.ensureVisible()
}

func (v *TaskListView) ensureVisible() {
	visibleItems := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func (v *TaskListView) visibleItems() int {
	// header, inputs, counts and help take roughly 12 lines
	return max(v.height-12, 1)
}

func nextFilter(f models.Filter) models.Filter {
	for i, candidate := range models.Filters {
		if candidate == f {
			return models.Filters[(i+1)%len(models.Filters)]
		}
	}
	return models.FilterAll
}

// View renders the view
func (v *TaskListView) View() string {
	if v.confirmingClear {
		return v.renderClearConfirm()
	}

	view := v.list.Render()

	var b strings.Builder
	b.WriteString(v.renderHeader(view))
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList(view))
	b.WriteString("\n")
	b.WriteString(v.styles.StatusBar.Render(view.Counts()))
	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *TaskListView) renderHeader(view tasks.View) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	newStyle := s.Input
	if v.focus == FocusNewInput {
		newStyle = s.InputFocused
	}
	newBox := newStyle.Width(clamp(contentWidth-4, 20, 60)).Render(v.newInput.View())

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchBox := searchStyle.Width(clamp(contentWidth-30, 10, 30)).Render(v.searchInput.View())

	var filters []string
	for _, f := range models.Filters {
		label := strings.ToUpper(string(f[:1])) + string(f[1:])
		if f == view.Filter {
			filters = append(filters, s.ButtonPrimary.Render(label))
		} else {
			filters = append(filters, s.FilterButton.Render(label))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Todo"),
		newBox,
		lipgloss.JoinHorizontal(lipgloss.Center, searchBox, "  ", strings.Join(filters, " ")),
	)
}

func (v *TaskListView) renderTaskList(view tasks.View) string {
	s := v.styles

	if len(view.Items) == 0 {
		if view.Total == 0 {
			return s.TitleMuted.Render("No tasks. Press 'n' to add one.")
		}
		return s.TitleMuted.Render("Nothing matches.")
	}

	var items []string
	end := min(v.scrollY+v.visibleItems(), len(view.Items))
	for i := v.scrollY; i < end; i++ {
		items = append(items, v.renderTaskItem(view.Items[i], i == v.cursor && v.focus == FocusTaskList, view.Editing))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool, editing string) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}

	if task.ID == editing {
		return s.TaskItem.Render(box + " " + v.editInput.View())
	}

	title := s.TaskTitle.Render(task.Title)
	if task.Completed {
		title = s.TaskDone.Render(task.Title)
	}
	line := fmt.Sprintf("%s %s", box, title)

	if selected {
		return s.ListSelected.Width(width).Render(line)
	}
	return s.ListItem.Width(width).Render(line)
}

func (v *TaskListView) renderHelp() string {
	s := v.styles
	if v.list.Editing() != "" {
		return s.Help.Render(fmt.Sprintf("%s save • %s cancel",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("esc"),
		))
	}
	return s.Help.Render(
		fmt.Sprintf("%s new • %s done • %s edit • %s del • %s clear done • %s clear all • %s search • %s filter • %s quit",
			s.HelpKey.Render("n"),
			s.HelpKey.Render("space"),
			s.HelpKey.Render("e"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("c"),
			s.HelpKey.Render("X"),
			s.HelpKey.Render("/"),
			s.HelpKey.Render("f"),
			s.HelpKey.Render("q"),
		),
	)
}

func (v *TaskListView) renderClearConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Clear all tasks?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%d tasks will be removed.", len(v.list.Tasks()))),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	return lipgloss.Place(contentWidth, max(v.height-4, 1),
		lipgloss.Center, lipgloss.Center,
		content,
	)
}
