package tasks

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/stw/internal/models"
	"github.com/tgienger/stw/internal/storage"
)

// StorageKey is the key the task list is persisted under.
const StorageKey = "todo_local_v1"

// List owns the task list and the view state (filter, search, edit target).
// Every mutation is mirrored to the store; store failures are logged and
// otherwise ignored.
type List struct {
	store   storage.Store
	tasks   []models.Task
	filter  models.Filter
	search  string
	editing string

	now   func() time.Time
	newID func() string
}

// Option customizes a List.
type Option func(*List)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *List) { l.now = now }
}

// WithIDs overrides the identifier generator.
func WithIDs(newID func() string) Option {
	return func(l *List) { l.newID = newID }
}

// New creates a List backed by store and loads the persisted tasks.
func New(store storage.Store, opts ...Option) *List {
	l := &List{
		store:  store,
		filter: models.FilterAll,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.Load()
	return l
}

// Load replaces the in-memory list with the persisted one. A missing,
// unreadable or corrupt record yields an empty list.
func (l *List) Load() {
	var tasks []models.Task
	if _, err := storage.GetJSON(l.store, StorageKey, &tasks); err != nil {
		log.Printf("tasks: load: %v", err)
		tasks = nil
	}
	l.tasks = tasks
}

func (l *List) save() {
	tasks := l.tasks
	if tasks == nil {
		tasks = []models.Task{}
	}
	if err := storage.SetJSON(l.store, StorageKey, tasks); err != nil {
		log.Printf("tasks: save: %v", err)
	}
}

// Tasks returns a copy of the stored list.
func (l *List) Tasks() []models.Task {
	out := make([]models.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

func (l *List) index(id string) int {
	for i, t := range l.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Add inserts a task at the front of the list. Blank titles are ignored.
func (l *List) Add(title string) (models.Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, false
	}
	t := models.Task{
		ID:      l.newID(),
		Title:   title,
		Created: l.now().UTC(),
	}
	l.tasks = append([]models.Task{t}, l.tasks...)
	l.save()
	return t, true
}

// Toggle flips the completed flag of the task with the given id.
func (l *List) Toggle(id string) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.tasks[i].Completed = !l.tasks[i].Completed
	l.save()
	return true
}

// BeginEdit marks a task as being edited and returns its current title.
func (l *List) BeginEdit(id string) (string, bool) {
	i := l.index(id)
	if i < 0 {
		return "", false
	}
	l.editing = id
	return l.tasks[i].Title, true
}

// Editing returns the id of the task being edited, or "".
func (l *List) Editing() string { return l.editing }

// CommitEdit saves a new title. An empty title deletes the task.
func (l *List) CommitEdit(id, title string) {
	if l.editing == id {
		l.editing = ""
	}
	i := l.index(id)
	if i < 0 {
		return
	}
	title = strings.TrimSpace(title)
	if title == "" {
		l.remove(i)
		l.save()
		return
	}
	now := l.now().UTC()
	l.tasks[i].Title = title
	l.tasks[i].Updated = &now
	l.save()
}

// CancelEdit ends editing without touching the stored title.
func (l *List) CancelEdit(id string) {
	if l.editing == id {
		l.editing = ""
	}
}

// Delete removes the task with the given id.
func (l *List) Delete(id string) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.remove(i)
	l.save()
	return true
}

func (l *List) remove(i int) {
	if l.tasks[i].ID == l.editing {
		l.editing = ""
	}
	l.tasks = append(l.tasks[:i:i], l.tasks[i+1:]...)
}

// ClearCompleted removes every completed task and returns how many went.
func (l *List) ClearCompleted() int {
	kept := make([]models.Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	n := len(l.tasks) - len(kept)
	l.tasks = kept
	l.save()
	return n
}

// ClearAll empties the list. It does nothing unless the user confirmed.
func (l *List) ClearAll(confirmed bool) bool {
	if !confirmed {
		return false
	}
	l.tasks = nil
	l.editing = ""
	l.save()
	return true
}

func (l *List) SetFilter(f models.Filter) { l.filter = f }
func (l *List) Filter() models.Filter     { return l.filter }
func (l *List) SetSearch(text string)     { l.search = text }
func (l *List) Search() string            { return l.search }

// View is the projection of the list that gets displayed.
type View struct {
	Items     []models.Task
	Remaining int
	Total     int
	Filter    models.Filter
	Search    string
	Editing   string
}

// Counts renders the footer line, e.g. "2 active • 5 total".
func (v View) Counts() string {
	return fmt.Sprintf("%d active • %d total", v.Remaining, v.Total)
}

// Render projects the current state. It never modifies the stored list.
func (l *List) Render() View {
	return Project(l.tasks, l.filter, l.search, l.editing)
}

// Project applies filter then case-insensitive title search, keeping order.
func Project(tasks []models.Task, filter models.Filter, search, editing string) View {
	q := strings.ToLower(strings.TrimSpace(search))
	v := View{
		Items:   []models.Task{},
		Total:   len(tasks),
		Filter:  filter,
		Search:  search,
		Editing: editing,
	}
	for _, t := range tasks {
		if !t.Completed {
			v.Remaining++
		}
		switch filter {
		case models.FilterActive:
			if t.Completed {
				continue
			}
		case models.FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Title), q) {
			continue
		}
		v.Items = append(v.Items, t)
	}
	return v
}
