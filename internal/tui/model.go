// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/derdiedas/internal/history"
	"github.com/verte-zerg/derdiedas/internal/model"
	"github.com/verte-zerg/derdiedas/internal/quiz"
	"github.com/verte-zerg/derdiedas/internal/wordtable"
)

var (
	wordStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
)

// Model implements the Bubble Tea quiz UI. It mirrors the fixed-run
// semantics: quit tokens stop early, unrecognized answers are counted but
// not scored.
type Model struct {
	table    *wordtable.Table
	store    *history.Store
	listName string
	length   int
	endless  bool

	input textinput.Model

	pairs []wordtable.Pair
	idx   int

	answered int
	correct  int
	words    map[string]*model.WordStats

	feedback string

	started   bool
	startedAt time.Time
	aborted   bool
	finished  bool

	width  int
	height int

	err error
}

// NewModel constructs a quiz TUI model and samples the first batch.
func NewModel(table *wordtable.Table, store *history.Store, listName string, length int, endless bool) (*Model, error) {
	input := textinput.New()
	input.Placeholder = "der / die / das"
	input.CharLimit = 32
	input.Width = 24
	input.Focus()

	m := &Model{
		table:    table,
		store:    store,
		listName: listName,
		length:   length,
		endless:  endless,
		input:    input,
		words:    map[string]*model.WordStats{},
	}
	if err := m.nextBatch(); err != nil {
		return nil, err
	}
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			m.finishSession()
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyRunes:
			if !m.started {
				m.started = true
				m.startedAt = time.Now()
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.pairs) == 0 {
		return noticeStyle.Render("The word list is empty. Add words first.")
	}
	if m.idx >= len(m.pairs) {
		return ""
	}
	word := m.pairs[m.idx].Word

	var b strings.Builder
	b.WriteString(questionStyle.Render("What is the gender of ") + wordStyle.Render(word) + questionStyle.Render("?"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	if m.feedback != "" {
		b.WriteString(m.feedback)
		b.WriteString("\n")
	}
	content := b.String()

	footer := footerStyle.Render(m.footerText())
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

// Answered returns how many questions received a response.
func (m *Model) Answered() int {
	return m.answered
}

// CorrectCount returns how many answers were right.
func (m *Model) CorrectCount() int {
	return m.correct
}

// Err returns a table error that aborted the quiz, if any.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) footerText() string {
	position := fmt.Sprintf("Question %d", m.answered+1)
	if !m.endless {
		position = fmt.Sprintf("Question %d/%d", m.idx+1, len(m.pairs))
	}
	accuracy := "-"
	if m.answered > 0 {
		accuracy = fmt.Sprintf("%.0f%%", float64(m.correct)/float64(m.answered)*100)
	}
	return fmt.Sprintf("%s  Correct %d/%d · %s  type quit or press esc to stop", position, m.correct, m.answered, accuracy)
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	if m.idx >= len(m.pairs) {
		return m, tea.Quit
	}
	guess := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if guess == "" {
		return m, nil
	}

	if quiz.IsQuit(guess) {
		m.aborted = true
		m.finishSession()
		return m, tea.Quit
	}

	pair := m.pairs[m.idx]
	m.answered++

	resolved, err := m.table.Set().Format(guess)
	if err != nil {
		m.feedback = noticeStyle.Render(fmt.Sprintf("Unrecognised answer %q, not scored.", guess))
		return m.advance()
	}

	accurate := resolved == pair.Gender
	if err := m.table.UpdateWeight(pair.Word, accurate); err != nil {
		m.err = err
		m.finishSession()
		return m, tea.Quit
	}
	m.recordWord(pair.Word, accurate)

	display := m.table.Set().Display(pair.Gender)
	if accurate {
		m.correct++
		m.feedback = correctStyle.Render("Correct!")
	} else {
		m.feedback = wrongStyle.Render(fmt.Sprintf("Incorrect! The correct gender is %s %s.", display, pair.Word))
	}
	return m.advance()
}

func (m *Model) advance() (tea.Model, tea.Cmd) {
	m.idx++
	if m.idx < len(m.pairs) {
		return m, nil
	}
	if m.endless {
		if err := m.nextBatch(); err != nil {
			m.err = err
			m.finishSession()
			return m, tea.Quit
		}
		if len(m.pairs) > 0 {
			return m, nil
		}
	}
	m.finishSession()
	return m, tea.Quit
}

func (m *Model) nextBatch() error {
	n := m.length
	if m.endless {
		n = quiz.EndlessBatchSize
	}
	pairs, err := m.table.Sample(n, wordtable.Weighted)
	if err != nil {
		return err
	}
	m.pairs = pairs
	m.idx = 0
	return nil
}

func (m *Model) recordWord(word string, accurate bool) {
	ws, ok := m.words[word]
	if !ok {
		ws = &model.WordStats{Word: word}
		m.words[word] = ws
	}
	if accurate {
		ws.Correct++
	} else {
		ws.Incorrect++
	}
}

func (m *Model) finishSession() {
	if m.finished {
		return
	}
	m.finished = true
	if m.store == nil || m.answered == 0 {
		return
	}
	startedAt := m.startedAt
	if !m.started {
		startedAt = time.Now()
	}
	endedAt := time.Now()
	mode := model.ModeFixed
	if m.endless {
		mode = model.ModeEndless
	}
	stats := model.SessionStats{
		StartedAt:  startedAt,
		EndedAt:    endedAt,
		List:       m.listName,
		Mode:       mode,
		Answered:   m.answered,
		Correct:    m.correct,
		DurationMs: endedAt.Sub(startedAt).Milliseconds(),
	}
	wordStats := make([]model.WordStats, 0, len(m.words))
	for _, ws := range m.words {
		wordStats = append(wordStats, *ws)
	}
	if _, err := m.store.InsertSession(context.Background(), stats, wordStats); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
