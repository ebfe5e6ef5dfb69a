package models

// Task is a single to-do item. Date and Time are the creation stamp in the
// fixed zero-padded forms "YYYY-MM-DD" and "HH:MM"; both are immutable after
// creation, as is ID.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Completed bool   `json:"isCompleted"`
}

// SortKey returns the display-ordering key. Because the date and time forms
// are fixed-width and zero-padded, plain string comparison of the
// concatenation orders tasks chronologically.
func (t Task) SortKey() string {
	return t.Date + t.Time
}
