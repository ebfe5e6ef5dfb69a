package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ldi/jot/internal/store"
	"github.com/ldi/jot/pkg/models"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	itemStyle     = lipgloss.NewStyle().PaddingLeft(1)
	selectedStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("12")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	stampStyle    = lipgloss.NewStyle().Faint(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

// Model is the interactive task list. It holds only presentation state; the
// store remains the single owner of the task collection and the model
// re-reads its display order after every mutation.
type Model struct {
	store  *store.Store
	tasks  []models.Task
	cursor int
	mode   mode
	input  textinput.Model
	status string

	// editingID is the ephemeral "currently editing" selection. It is set
	// when edit mode opens, cleared after a successful update, and abandoned
	// if the task disappears before the edit is submitted.
	editingID string

	confirmDel bool
	pendingDel *models.Task

	quitting bool
	now      func() time.Time
}

func NewModel(s *store.Store) Model {
	ti := textinput.New()
	ti.Placeholder = "Task text"
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		store:  s,
		tasks:  s.List(),
		input:  ti,
		status: "Press 'a' to add, space to toggle, 'e' to edit, 'd' to delete.",
		now:    time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg.String(), msg)
		case modeEdit:
			return m.updateEditMode(msg.String(), msg)
		default:
			return m.updateListMode(msg.String())
		}
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}

	case "a":
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Focus()
		m.status = "New task: type text and press enter (esc to cancel)"

	case "e":
		if len(m.tasks) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		task := m.tasks[m.cursor]
		m.mode = modeEdit
		m.editingID = task.ID
		m.input.SetValue(task.Text)
		m.input.CursorEnd()
		m.input.Focus()
		m.status = "Edit task: change text and press enter (esc to cancel)"

	case " ", "x":
		if len(m.tasks) == 0 {
			return m, nil
		}
		task := m.tasks[m.cursor]
		if err := m.store.SetCompleted(task.ID, !task.Completed); err != nil {
			m.status = "Task no longer exists"
		} else {
			m.status = "Toggled"
		}
		m.reload()

	case "d":
		if len(m.tasks) == 0 {
			return m, nil
		}
		task := m.tasks[m.cursor]
		m.confirmDel = true
		m.pendingDel = &task
		m.status = fmt.Sprintf("Delete %q? y/n", task.Text)
	}
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.leaveInput("Cancelled")
		return m, nil
	case "enter":
		text := m.input.Value()
		date, clock := m.stampNow()
		task := m.store.Add(text, date, clock)
		if task == nil {
			m.status = "Task text cannot be empty"
			return m, nil
		}
		m.leaveInput("Added task")
		m.reload()
		m.moveCursorTo(task.ID)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateEditMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.leaveInput("Cancelled")
		return m, nil
	case "enter":
		if m.store.Get(m.editingID) == nil {
			// The edit target vanished while the input was open. Drop the
			// stale selection instead of resurrecting the task.
			m.leaveInput("Task no longer exists")
			m.reload()
			return m, nil
		}
		text := m.input.Value()
		if strings.TrimSpace(text) == "" {
			m.status = "Task text cannot be empty"
			return m, nil
		}
		if err := m.store.UpdateText(m.editingID, text); err != nil {
			m.leaveInput("Task no longer exists")
		} else {
			m.leaveInput("Updated task")
		}
		m.reload()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		if m.pendingDel != nil {
			if err := m.store.Remove(m.pendingDel.ID); err != nil {
				m.status = "Task was already gone"
			} else {
				m.status = "Deleted task"
			}
		}
		m.confirmDel = false
		m.pendingDel = nil
		m.reload()
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
	}
	return m, nil
}

// leaveInput closes the text input and returns to list mode, clearing the
// edit selection.
func (m *Model) leaveInput(status string) {
	m.mode = modeList
	m.editingID = ""
	m.input.SetValue("")
	m.input.Blur()
	m.status = status
}

// reload refreshes the display list from the store and clamps the cursor.
func (m *Model) reload() {
	m.tasks = m.store.List()
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) moveCursorTo(id string) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

// stampNow derives the creation stamp from the wall clock in the fixed
// zero-padded forms the store and snapshot rely on.
func (m Model) stampNow() (date, clock string) {
	t := m.now()
	return t.Format("2006-01-02"), t.Format("15:04")
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("jot"))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(itemStyle.Render("No tasks yet. Press 'a' to add one."))
		b.WriteString("\n")
	} else {
		for i, t := range m.tasks {
			cursor := " "
			if m.cursor == i && m.mode == modeList && !m.confirmDel {
				cursor = ">"
			}

			checkbox := "[ ]"
			text := t.Text
			if t.Completed {
				checkbox = "[x]"
				text = doneStyle.Render(text)
			}

			line := fmt.Sprintf("%s %s %s %s", cursor, checkbox, text,
				stampStyle.Render(t.Date+" "+t.Time))
			if m.cursor == i && m.mode == modeList && !m.confirmDel {
				b.WriteString(selectedStyle.Render(line))
			} else {
				b.WriteString(itemStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	if m.mode == modeAdd || m.mode == modeEdit {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k move • a add • e edit • space toggle • d delete • q quit"))
	b.WriteString("\n")

	return b.String()
}

// Run starts the interactive task list and blocks until the user quits.
func Run(s *store.Store) error {
	p := tea.NewProgram(NewModel(s))
	_, err := p.Run()
	return err
}
