package snapshot

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ldi/jot/pkg/models"
)

// Gateway translates between the in-memory task list and a single JSON
// snapshot file on disk. The file holds the full collection as a flat array
// of task records; every save overwrites the whole snapshot.
type Gateway struct {
	path string
}

func New(path string) *Gateway {
	return &Gateway{path: path}
}

// Path returns the snapshot file location.
func (g *Gateway) Path() string {
	return g.path
}

// record mirrors models.Task with pointer fields so that a record missing a
// required field is detectable after unmarshalling.
type record struct {
	ID        *string `json:"id"`
	Text      *string `json:"text"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Completed *bool   `json:"isCompleted"`
}

// Load reads the snapshot and returns the persisted tasks in file order.
//
// A missing file is a first run and yields an empty list. A structurally
// invalid file (malformed JSON, a record missing a required field, wrong
// field type) also yields an empty list: recovery is all-or-nothing, a
// partially readable snapshot is never returned. The unreadable file is
// renamed aside to <path>.corrupt first so the data stays available for
// manual recovery. Load never returns an error.
func (g *Gateway) Load() []models.Task {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("snapshot: read %s: %v", g.path, err)
		}
		return nil
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		g.quarantine(fmt.Sprintf("malformed JSON: %v", err))
		return nil
	}

	tasks := make([]models.Task, 0, len(records))
	for i, r := range records {
		if r.ID == nil || r.Text == nil || r.Date == nil || r.Time == nil || r.Completed == nil {
			g.quarantine(fmt.Sprintf("record %d is missing a required field", i))
			return nil
		}
		tasks = append(tasks, models.Task{
			ID:        *r.ID,
			Text:      *r.Text,
			Date:      *r.Date,
			Time:      *r.Time,
			Completed: *r.Completed,
		})
	}
	return tasks
}

// quarantine moves an unreadable snapshot out of the way so the next save
// does not clobber it.
func (g *Gateway) quarantine(reason string) {
	aside := g.path + ".corrupt"
	if err := os.Rename(g.path, aside); err != nil {
		log.Printf("snapshot: %s is unreadable (%s) and could not be moved aside: %v", g.path, reason, err)
		return
	}
	log.Printf("snapshot: %s is unreadable (%s); moved aside to %s, starting empty", g.path, reason, aside)
}

// Save writes the full collection to the snapshot file, replacing the prior
// contents. The write goes to a temporary file in the same directory which
// is synced and then atomically renamed over the snapshot, so an interrupted
// save never leaves a truncated file behind.
func (g *Gateway) Save(tasks []models.Task) error {
	dir := filepath.Dir(g.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	// Marshal the concrete slice, not a nil one: an empty collection must
	// encode as [] rather than null.
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, "tasks-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempFile.Name())
		}
	}()

	if _, err := tempFile.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	filename := tempFile.Name()
	tempFile = nil // Prevent defer from removing it

	if err := os.Rename(filename, g.path); err != nil {
		os.Remove(filename)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// AutoSave returns an on-change hook that persists the store's current tasks
// after every mutation. Failures are logged and otherwise ignored: memory
// remains the source of truth for the session and the next successful save
// includes everything written since the failure.
func (g *Gateway) AutoSave(tasks func() []models.Task) func() {
	return func() {
		if err := g.Save(tasks()); err != nil {
			log.Printf("snapshot: save failed: %v", err)
		}
	}
}
