// Package tui is the terminal host of the memo pad view.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/memopad/internal/apperr"
	"github.com/starford/memopad/internal/view"
)

// Memo is the memo state the view edits.
type Memo interface {
	Text() string
	OnTextChanged(ctx context.Context, text string) error
}

// NoticeMsg carries a notice transition into the program.
type NoticeMsg struct {
	Visible bool
}

// ReloadMsg carries text adopted from storage after an external change.
type ReloadMsg struct {
	Text string
}

// ErrReadOnly is reported when the text surface cannot hold the memo exactly
// (tabs, carriage returns or more characters than the limit). Editing such a
// memo would rewrite it, so the editor stays read-only until the text changes.
var ErrReadOnly = errors.New("memo has tabs, carriage returns or exceeds the limit; opened read-only")

// KeyMap defines the keyboard bindings besides text entry.
type KeyMap struct {
	Quit key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// Model is the bubbletea model: heading, label, text surface and the
// conditional saved notice.
type Model struct {
	ctx    context.Context
	memo   Memo
	labels view.Labels
	keys   KeyMap
	theme  Theme

	input         textarea.Model
	noticeVisible bool
	readOnly      bool
	err           error
	width         int
}

// New creates a model showing the holder's current text.
func New(ctx context.Context, memo Memo, labels view.Labels, maxLength int) Model {
	ta := textarea.New()
	ta.Placeholder = labels.Placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = maxLength
	ta.MaxHeight = 0
	ta.SetWidth(60)
	ta.SetHeight(12)

	m := Model{
		ctx:    ctx,
		memo:   memo,
		labels: labels,
		keys:   DefaultKeyMap(),
		theme:  DefaultTheme(),
		input:  ta,
		width:  64,
	}
	m.load(memo.Text())
	return m
}

// load shows text and turns editing off when the textarea would not keep it verbatim.
func (m *Model) load(text string) {
	m.input.SetValue(text)
	if m.input.Value() != text {
		m.readOnly = true
		m.input.Blur()
		m.err = ErrReadOnly
		return
	}
	if m.readOnly {
		m.readOnly = false
		if errors.Is(m.err, ErrReadOnly) {
			m.err = nil
		}
	}
	m.input.Focus()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 4; w > 10 {
			m.input.SetWidth(w)
		}
		if h := msg.Height - 8; h > 3 {
			m.input.SetHeight(h)
		}
		return m, nil

	case NoticeMsg:
		m.noticeVisible = msg.Visible
		return m, nil

	case ReloadMsg:
		if msg.Text != m.input.Value() || m.readOnly {
			m.load(msg.Text)
		}
		return m, nil
	}

	if m.readOnly {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.err = m.memo.OnTextChanged(m.ctx, after)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Heading.Render(m.labels.Heading))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Label.Render(m.labels.Label))
	b.WriteString("\n")
	b.WriteString(m.theme.Input.Render(m.input.View()))
	b.WriteString("\n")
	if m.noticeVisible {
		b.WriteString(m.theme.Notice.Render(m.labels.Notice))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.theme.Error.Render(errorText(m.err)))
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render(m.keys.Quit.Help().Key + " " + m.keys.Quit.Help().Desc))
	return b.String()
}

// Text returns the current content of the text surface.
func (m Model) Text() string {
	return m.input.Value()
}

func errorText(err error) string {
	switch {
	case errors.Is(err, apperr.ErrStorageUnavailable):
		return "storage unavailable, changes are not persisted"
	case errors.Is(err, apperr.ErrTooLarge):
		return "memo too large"
	default:
		return err.Error()
	}
}
