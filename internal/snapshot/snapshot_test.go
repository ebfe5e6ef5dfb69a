package snapshot

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ldi/jot/pkg/models"
)

func testTasks() []models.Task {
	return []models.Task{
		{ID: "11111111-1111-1111-1111-111111111111", Text: "Buy milk", Date: "2024-06-01", Time: "08:00"},
		{ID: "22222222-2222-2222-2222-222222222222", Text: "Call dentist", Date: "2024-06-01", Time: "08:00", Completed: true},
		{ID: "33333333-3333-3333-3333-333333333333", Text: "Water plants", Date: "2023-12-31", Time: "23:59"},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := New(filepath.Join(t.TempDir(), "tasks.json"))
	want := testTasks()

	if err := g.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := g.Load()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	g := New(filepath.Join(t.TempDir(), "tasks.json"))

	if got := g.Load(); len(got) != 0 {
		t.Errorf("Expected empty list for missing file, got %+v", got)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	g := New(path)
	if got := g.Load(); len(got) != 0 {
		t.Errorf("Expected empty list for malformed file, got %+v", got)
	}
}

func TestLoadMissingRequiredField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	// Second record has no "time": the whole load fails soft, no partial list.
	content := `[
		{"id":"a","text":"ok","date":"2024-06-01","time":"08:00","isCompleted":false},
		{"id":"b","text":"broken","date":"2024-06-01","isCompleted":false}
	]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	g := New(path)
	if got := g.Load(); len(got) != 0 {
		t.Errorf("Expected empty list for record missing a field, got %+v", got)
	}
}

func TestLoadWrongFieldType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	content := `[{"id":"a","text":"ok","date":"2024-06-01","time":"08:00","isCompleted":"yes"}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	g := New(path)
	if got := g.Load(); len(got) != 0 {
		t.Errorf("Expected empty list for wrong field type, got %+v", got)
	}
}

func TestLoadQuarantinesCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	g := New(path)
	g.Load()

	if _, err := os.Stat(path + ".corrupt"); err != nil {
		t.Errorf("Expected corrupt snapshot moved aside: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected original snapshot gone, stat err: %v", err)
	}

	// A save after quarantine starts a fresh snapshot.
	if err := g.Save([]models.Task{{ID: "a", Text: "new", Date: "2024-06-01", Time: "08:00"}}); err != nil {
		t.Fatalf("Save after quarantine failed: %v", err)
	}
	if got := g.Load(); len(got) != 1 {
		t.Errorf("Expected fresh snapshot with 1 task, got %+v", got)
	}
}

func TestSaveEmptyEncodesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	g := New(path)

	if err := g.Save(nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("Expected empty array, got %s", data)
	}

	if got := g.Load(); len(got) != 0 {
		t.Errorf("Expected empty list, got %+v", got)
	}
}

func TestSaveOverwritesFully(t *testing.T) {
	g := New(filepath.Join(t.TempDir(), "tasks.json"))

	if err := g.Save(testTasks()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	want := testTasks()[:1]
	if err := g.Save(want); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	got := g.Load()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected full overwrite:\n got %+v\nwant %+v", got, want)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tasks.json")
	g := New(path)

	if err := g.Save(testTasks()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got := g.Load(); len(got) != 3 {
		t.Errorf("Expected 3 tasks, got %d", len(got))
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	g := New(filepath.Join(dir, "tasks.json"))

	if err := g.Save(testTasks()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "tasks.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected only tasks.json, got %v", names)
	}
}

func TestLoadToleratesUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	content := `[{"id":"a","text":"ok","date":"2024-06-01","time":"08:00","isCompleted":false,"color":"red"}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	g := New(path)
	got := g.Load()
	if len(got) != 1 || got[0].Text != "ok" {
		t.Errorf("Expected record with extra fields to load, got %+v", got)
	}
}

func TestAutoSave(t *testing.T) {
	g := New(filepath.Join(t.TempDir(), "tasks.json"))
	tasks := testTasks()

	hook := g.AutoSave(func() []models.Task { return tasks })
	hook()

	got := g.Load()
	if !reflect.DeepEqual(got, tasks) {
		t.Errorf("AutoSave hook did not persist tasks:\n got %+v\nwant %+v", got, tasks)
	}
}
