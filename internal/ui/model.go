package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/hawk-journal/hawk/internal/api"
	"github.com/hawk-journal/hawk/internal/config"
	"github.com/hawk-journal/hawk/internal/i18n"
	"github.com/hawk-journal/hawk/internal/journal"
	"github.com/hawk-journal/hawk/internal/notes"
	"github.com/hawk-journal/hawk/internal/reconcile"
)

type Mode int

const (
	ModeList Mode = iota
	ModeEditing
	ModeNewCollection
	ModeConfirmTrash
	ModeConfirmForever
	ModeConfirmEmpty
	ModeJournal
	ModeJournalEntry
)

type Pane int

const (
	PaneCollections Pane = iota
	PaneNotes
	PaneEditor
)

var moods = []string{"", "great", "good", "meh", "bad", "awful"}

type Model struct {
	client *api.Client
	rec    *reconcile.Reconciler
	cache  *reconcile.Cache
	saver  *reconcile.Saver
	cfg    *config.Config
	alerts chan string

	collections []notes.Collection
	colCursor   int

	list      []notes.NoteMetadata
	cursor    int
	trashView bool

	current *notes.NoteRecord

	day     *journal.Day
	dayHour int

	textarea  textarea.Model
	textinput textinput.Model

	mode Mode
	pane Pane
	keys KeyMap

	width  int
	height int

	status string
	alert  string
	err    error
}

// Messages

type collectionsMsg []notes.Collection
type refreshedMsg struct{ err error }
type noteLoadedMsg struct {
	note *notes.NoteRecord
	err  error
}
type opDoneMsg struct{ err error }
type alertMsg string
type dayMsg struct {
	day *journal.Day
	err error
}
type tickMsg time.Time

func NewModel(client *api.Client, cfg *config.Config) Model {
	alerts := make(chan string, 8)
	cache := reconcile.NewCache()
	rec := reconcile.NewReconciler(client, cache, func(msg string) {
		select {
		case alerts <- msg:
		default:
		}
	})
	saver := reconcile.NewSaver(client, cache, cfg.SaveDebounce)

	ta := textarea.New()
	ta.Placeholder = i18n.T().NewNote
	ti := textinput.New()

	return Model{
		client:    client,
		rec:       rec,
		cache:     cache,
		saver:     saver,
		cfg:       cfg,
		alerts:    alerts,
		textarea:  ta,
		textinput: ti,
		keys:      NewKeyMap(),
		mode:      ModeList,
		pane:      PaneNotes,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCollections, m.refresh, m.listenAlerts, m.tick())
}

// Commands

func (m Model) loadCollections() tea.Msg {
	collections, err := m.client.Collections()
	if err != nil {
		return refreshedMsg{err: err}
	}
	return collectionsMsg(collections)
}

func (m Model) refresh() tea.Msg {
	return refreshedMsg{err: m.rec.Refresh()}
}

func (m Model) loadNote(id string) tea.Cmd {
	return func() tea.Msg {
		note, err := m.client.GetNote(id)
		return noteLoadedMsg{note: note, err: err}
	}
}

func commit(op func() error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: op()}
	}
}

func (m Model) listenAlerts() tea.Msg {
	return alertMsg(<-m.alerts)
}

func (m Model) loadDay(date string) tea.Cmd {
	return func() tea.Msg {
		day, err := m.client.JournalDay(date)
		return dayMsg{day: day, err: err}
	}
}

func (m Model) saveDay(day journal.Day) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: m.client.SaveJournalDay(day)}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.RefreshEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textarea.SetWidth(m.editorWidth())
		m.textarea.SetHeight(m.height - 8)
		return m, nil

	case collectionsMsg:
		m.collections = msg
		if m.colCursor >= len(m.collections) {
			m.colCursor = 0
		}
		m.relist()
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			m.status = i18n.T().Offline
		} else {
			m.status = i18n.T().Online
			m.relist()
		}
		return m, nil

	case noteLoadedMsg:
		if msg.err == nil {
			m.current = msg.note
			m.textarea.SetValue(noteText(*msg.note))
		}
		return m, nil

	case opDoneMsg:
		// Rollback and alerting already happened inside the commit.
		m.relist()
		return m, nil

	case alertMsg:
		m.alert = string(msg)
		m.relist()
		return m, m.listenAlerts

	case dayMsg:
		if msg.err == nil {
			m.day = msg.day
			if m.day.Entries == nil {
				m.day.Entries = make(map[int]string)
			}
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh, m.tick())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeEditing:
		return m.updateEditing(msg)
	case ModeNewCollection:
		return m.updateNewCollection(msg)
	case ModeConfirmTrash, ModeConfirmForever, ModeConfirmEmpty:
		return m.updateConfirm(msg)
	case ModeJournal:
		return m.updateJournal(msg)
	case ModeJournalEntry:
		return m.updateJournalEntry(msg)
	}
	return m.updateList(msg)
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saver.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextPane):
		if m.pane == PaneCollections {
			m.pane = PaneNotes
		} else {
			m.pane = PaneCollections
		}

	case key.Matches(msg, m.keys.Up):
		if m.pane == PaneCollections {
			if m.colCursor > 0 {
				m.colCursor--
				m.cursor = 0
				m.relist()
			}
		} else if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.pane == PaneCollections {
			if m.colCursor < len(m.collections)-1 {
				m.colCursor++
				m.cursor = 0
				m.relist()
			}
		} else if m.cursor < len(m.list)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Edit):
		if m.pane == PaneNotes && m.cursor < len(m.list) && !m.trashView {
			m.mode = ModeEditing
			m.alert = ""
			m.textarea.Focus()
			return m, m.loadNote(m.list[m.cursor].ID)
		}

	case key.Matches(msg, m.keys.New):
		if cid := m.currentCID(); cid != "" && !m.trashView {
			rec := m.rec.CreateNote(cid)
			m.current = &rec
			m.relist()
			m.cursor = 0
			m.mode = ModeEditing
			m.alert = ""
			m.textarea.SetValue("")
			m.textarea.Focus()
		}

	case key.Matches(msg, m.keys.NewCollection):
		m.mode = ModeNewCollection
		m.textinput.Placeholder = i18n.T().CollectionPlaceholder
		m.textinput.SetValue("")
		m.textinput.Focus()

	case key.Matches(msg, m.keys.Delete):
		if m.cursor < len(m.list) {
			if m.trashView {
				m.mode = ModeConfirmForever
			} else {
				m.mode = ModeConfirmTrash
			}
		}

	case key.Matches(msg, m.keys.Restore):
		if m.trashView && m.cursor < len(m.list) {
			op := m.rec.RestoreNote(m.list[m.cursor].ID)
			m.relist()
			return m, commit(op)
		}

	case key.Matches(msg, m.keys.ToggleTrash):
		m.trashView = !m.trashView
		m.cursor = 0
		m.relist()

	case key.Matches(msg, m.keys.EmptyTrash):
		if m.trashView && len(m.list) > 0 {
			m.mode = ModeConfirmEmpty
		}

	case key.Matches(msg, m.keys.Journal):
		m.mode = ModeJournal
		m.dayHour = time.Now().Hour()
		return m, m.loadDay(time.Now().Format("2006-01-02"))

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh
	}

	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) {
		m.mode = ModeList
		m.textarea.Blur()
		m.saver.Flush()
		m.relist()
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)

	if m.current != nil {
		title, content := splitNote(m.textarea.Value())
		m.current.Title = title
		m.current.Content = content
		m.saver.Queue(*m.current)
	}
	return m, cmd
}

func (m Model) updateNewCollection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeList
		m.textinput.Blur()
		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.textinput.Value())
		m.mode = ModeList
		m.textinput.Blur()
		if name == "" {
			return m, nil
		}
		m.collections = append(m.collections, notes.Collection{
			ID:   uuid.New().String(),
			Name: name,
		})
		m.colCursor = len(m.collections) - 1
		m.relist()
		collections := m.collections
		return m, func() tea.Msg {
			return opDoneMsg{err: m.client.SaveCollections(collections)}
		}
	}

	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode := m.mode
	m.mode = ModeList

	if msg.String() != "y" {
		return m, nil
	}
	// A background refresh can empty the list while the modal is open.
	if mode != ModeConfirmEmpty && m.cursor >= len(m.list) {
		return m, nil
	}

	switch mode {
	case ModeConfirmTrash:
		op := m.rec.TrashNote(m.list[m.cursor].ID)
		m.relist()
		return m, commit(op)
	case ModeConfirmForever:
		op := m.rec.DeleteForever(m.list[m.cursor].ID)
		m.relist()
		return m, commit(op)
	case ModeConfirmEmpty:
		op := m.rec.EmptyTrash(m.currentCID())
		m.relist()
		return m, commit(op)
	}
	return m, nil
}

func (m Model) updateJournal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.mode = ModeList
		return m, nil

	case msg.String() == "+", key.Matches(msg, m.keys.Down):
		if m.dayHour < 23 {
			m.dayHour++
		}

	case msg.String() == "-", key.Matches(msg, m.keys.Up):
		if m.dayHour > 0 {
			m.dayHour--
		}

	case msg.String() == "m":
		if m.day != nil {
			m.day.Mood = nextMood(m.day.Mood)
			return m, m.saveDay(*m.day)
		}

	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Edit):
		if m.day != nil {
			m.mode = ModeJournalEntry
			m.textinput.Placeholder = ""
			m.textinput.SetValue(m.day.Entries[m.dayHour])
			m.textinput.Focus()
		}
	}
	return m, nil
}

func (m Model) updateJournalEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeJournal
		m.textinput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = ModeJournal
		m.textinput.Blur()
		if m.day != nil {
			m.day.Entries[m.dayHour] = strings.TrimSpace(m.textinput.Value())
			return m, m.saveDay(*m.day)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	return m, cmd
}

// Derived state

func (m *Model) currentCID() string {
	if m.colCursor < len(m.collections) {
		return m.collections[m.colCursor].ID
	}
	return ""
}

func (m *Model) relist() {
	cid := m.currentCID()
	if cid == "" {
		m.list = nil
		return
	}
	if m.trashView {
		m.list = m.cache.Trashed(cid)
	} else {
		m.list = m.cache.Active(cid)
	}
	if m.cursor >= len(m.list) {
		m.cursor = 0
	}
}

func noteText(rec notes.NoteRecord) string {
	if rec.Content == "" {
		return rec.Title
	}
	return rec.Title + "\n" + rec.Content
}

func splitNote(text string) (title, content string) {
	title, content, _ = strings.Cut(text, "\n")
	return title, content
}

func nextMood(current string) string {
	for i, mood := range moods {
		if mood == current {
			return moods[(i+1)%len(moods)]
		}
	}
	return moods[0]
}

// View

func (m Model) View() string {
	if m.width == 0 {
		return i18n.T().Loading
	}
	if m.mode == ModeJournal || m.mode == ModeJournalEntry {
		return m.journalView()
	}
	return m.notesView()
}

func (m Model) editorWidth() int {
	return max(20, m.width-44)
}

func (m Model) notesView() string {
	t := i18n.T()

	var cols strings.Builder
	cols.WriteString(TitleStyle.Render(t.Collections) + "\n")
	for i, c := range m.collections {
		line := c.Name
		if i == m.colCursor {
			line = SelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		cols.WriteString(line + "\n")
	}

	listTitle := t.Notes
	if m.trashView {
		listTitle = t.Trash
	}
	var list strings.Builder
	list.WriteString(TitleStyle.Render(listTitle) + "\n")
	if len(m.list) == 0 {
		if m.trashView {
			list.WriteString(MutedStyle.Render(t.EmptyTrashList))
		} else {
			list.WriteString(MutedStyle.Render(t.EmptyList))
		}
	}
	for i, meta := range m.list {
		title := meta.Title
		if title == "" {
			title = t.NewNote
		}
		line := title
		switch {
		case i == m.cursor && m.pane == PaneNotes:
			line = SelectedStyle.Render("> " + line)
		case meta.DeletedAt != 0:
			line = TrashedStyle.Render("  " + line)
		default:
			line = "  " + line
		}
		list.WriteString(line + "\n")
	}

	var editor string
	switch {
	case m.mode == ModeNewCollection:
		editor = t.NewCollection + "\n\n" + m.textinput.View()
	case m.mode == ModeConfirmTrash:
		editor = AlertStyle.Render(t.DeleteConfirm)
	case m.mode == ModeConfirmForever:
		editor = AlertStyle.Render(t.DeleteForeverConfirm)
	case m.mode == ModeConfirmEmpty:
		editor = AlertStyle.Render(t.EmptyTrashConfirm)
	case m.mode == ModeEditing:
		editor = m.textarea.View()
	default:
		editor = MutedStyle.Render(t.NoNoteSelected)
	}

	colPane := PanelStyle.Width(18)
	listPane := PanelStyle.Width(24)
	editPane := PanelStyle.Width(m.editorWidth())
	if m.pane == PaneCollections {
		colPane = ActivePanelStyle.Width(18)
	} else if m.mode == ModeEditing {
		editPane = ActivePanelStyle.Width(m.editorWidth())
	} else {
		listPane = ActivePanelStyle.Width(24)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		colPane.Render(cols.String()),
		listPane.Render(list.String()),
		editPane.Render(editor),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render("Hawk"),
		body,
		m.statusBar(),
	)
}

func (m Model) journalView() string {
	t := i18n.T()

	var b strings.Builder
	date := time.Now().Format("2006-01-02")
	if m.day != nil {
		date = m.day.Date
	}
	b.WriteString(TitleStyle.Render(t.Journal+" "+date) + "\n")
	if m.day != nil && m.day.Mood != "" {
		b.WriteString(t.Mood + ": " + MoodStyle.Render(m.day.Mood) + "\n")
	}
	b.WriteString("\n")

	for hour := 0; hour < 24; hour++ {
		entry := ""
		if m.day != nil {
			entry = m.day.Entries[hour]
		}
		line := fmt.Sprintf("%02d:00  %s", hour, entry)
		if hour == m.dayHour {
			if m.mode == ModeJournalEntry {
				line = fmt.Sprintf("%02d:00  %s", hour, m.textinput.View())
			}
			line = SelectedStyle.Render(line)
		} else if entry == "" {
			line = MutedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + MutedStyle.Render(t.HourHint))

	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render("Hawk"),
		PanelStyle.Width(max(40, m.width-4)).Render(b.String()),
		m.statusBar(),
	)
}

func (m Model) statusBar() string {
	t := i18n.T()

	parts := []string{m.status}
	if m.saver.PendingCount() > 0 {
		parts = append(parts, t.Unsaved)
	}
	if m.alert != "" {
		parts = append(parts, AlertStyle.Render(m.alert))
	}
	return StatusBarStyle.Render(strings.Join(parts, "  •  "))
}
