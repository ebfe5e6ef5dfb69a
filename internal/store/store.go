package store

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/ldi/jot/pkg/models"
)

// ErrNotFound is returned when an operation references a task id that is not
// in the collection. Callers may treat it as a safe no-op.
var ErrNotFound = errors.New("task not found")

// Store owns the authoritative in-memory task list. All mutations go through
// it; the UI and other surfaces only ever read copies via List or Tasks.
//
// The store is single-actor by design: one caller issues one mutation at a
// time, each completing (including its triggered save) before the next.
type Store struct {
	tasks    []models.Task
	onChange func()
}

// New creates a store seeded with the given tasks, typically the result of a
// snapshot load. The slice is copied; insertion order is preserved.
func New(initial []models.Task) *Store {
	s := &Store{}
	s.tasks = append(s.tasks, initial...)
	return s
}

// SetOnChange sets a hook that fires after every successful mutation. The
// wiring installs the snapshot auto-save here.
func (s *Store) SetOnChange(fn func()) {
	s.onChange = fn
}

func (s *Store) triggerChange() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Add appends a new task with a fresh id and Completed false. Blank or
// whitespace-only text is silently rejected and nil is returned; no save is
// triggered. Date and time are trusted to be well-formed "YYYY-MM-DD" and
// "HH:MM" strings; the store does not validate them.
func (s *Store) Add(text, date, time string) *models.Task {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	t := models.Task{
		ID:   uuid.New().String(),
		Text: text,
		Date: date,
		Time: time,
	}
	s.tasks = append(s.tasks, t)

	s.triggerChange()
	return &t
}

// UpdateText replaces only the text of the task with the given id. Blank new
// text is a silent no-op, mirroring Add's rejection policy. Returns
// ErrNotFound if the id is absent, in which case nothing changes and no save
// is triggered.
func (s *Store) UpdateText(id, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.tasks[i].Text = text

	s.triggerChange()
	return nil
}

// SetCompleted sets the completion flag of the task with the given id.
func (s *Store) SetCompleted(id string, completed bool) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.tasks[i].Completed = completed

	s.triggerChange()
	return nil
}

// Remove deletes the task with the given id. A second Remove of the same id
// yields ErrNotFound and changes nothing.
func (s *Store) Remove(id string) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)

	s.triggerChange()
	return nil
}

// Get returns a copy of the task with the given id, or nil if absent.
func (s *Store) Get(id string) *models.Task {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	t := s.tasks[i]
	return &t
}

// List returns a fresh slice of the collection in display order: ascending
// by the date+time sort key compared as strings, ties keeping insertion
// order. The stored order is not mutated.
func (s *Store) List() []models.Task {
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortKey() < out[j].SortKey()
	})
	return out
}

// Tasks returns a fresh slice of the collection in insertion order. This is
// the order that gets persisted, so tie-breaking survives a restart exactly.
func (s *Store) Tasks() []models.Task {
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks in the collection.
func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) index(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
