package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vk/hbsbind/internal/ctxlog"
	"github.com/vk/hbsbind/internal/explorer"
)

type focus int

const (
	focusCards focus = iota
	focusFrom
	focusTo
)

// Options connect the model to whoever owns the explorer.
type Options struct {
	// Heading names the marker being bound.
	Heading string
	// Confirm applies the selection. An error keeps the explorer open and
	// is shown inline. Defaults to confirming the explorer itself.
	Confirm func(ctx context.Context) error
	// Cancel discards the explorer. Defaults to cancelling it directly.
	Cancel func(ctx context.Context)
}

// Model is a tea.Model over one explorer.Session.
type Model struct {
	ctx context.Context
	exp *explorer.Session
	opt Options

	cards  []explorer.Card
	cursor int
	focus  focus

	fromInput textinput.Model
	toInput   textinput.Model

	message   string
	done      bool
	confirmed bool
}

// New builds a model for exp.
func New(ctx context.Context, exp *explorer.Session, opt Options) Model {
	if opt.Confirm == nil {
		opt.Confirm = func(ctx context.Context) error {
			_, err := exp.Confirm(ctx)
			return err
		}
	}
	if opt.Cancel == nil {
		opt.Cancel = func(context.Context) { exp.Cancel() }
	}

	from := textinput.New()
	from.Placeholder = "0"
	from.CharLimit = 9
	from.Width = 10
	to := textinput.New()
	to.Placeholder = "last"
	to.CharLimit = 9
	to.Width = 10

	m := Model{ctx: ctx, exp: exp, opt: opt, fromInput: from, toInput: to}
	m.refresh()
	return m
}

// Done reports whether the user confirmed or cancelled.
func (m Model) Done() bool { return m.done }

// Confirmed reports whether the selection was applied.
func (m Model) Confirmed() bool { return m.confirmed }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.done {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Interrupt):
		return m.cancel()
	case key.Matches(keyMsg, keys.Confirm):
		return m.confirm()
	case key.Matches(keyMsg, keys.Focus):
		return m.cycleFocus(keyMsg.String() == "shift+tab")
	}

	if m.focus != focusCards {
		if keyMsg.String() == "esc" {
			return m.cycleFocusTo(focusCards)
		}
		var cmd tea.Cmd
		if m.focus == focusFrom {
			m.fromInput, cmd = m.fromInput.Update(msg)
		} else {
			m.toInput, cmd = m.toInput.Update(msg)
		}
		return m, cmd
	}

	m.message = ""
	switch {
	case key.Matches(keyMsg, keys.Cancel):
		return m.cancel()
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.cards)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.Open):
		if card, ok := m.current(); ok {
			m.apply(m.exp.Click(m.ctx, card.Path))
		}
	case key.Matches(keyMsg, keys.Select):
		if card, ok := m.current(); ok {
			m.apply(m.exp.Select(m.ctx, card.Path))
		}
	case key.Matches(keyMsg, keys.Parent):
		crumbs := m.exp.Breadcrumbs()
		if len(crumbs) > 1 {
			m.apply(m.exp.Jump(m.ctx, crumbs[len(crumbs)-2].Path))
		}
	default:
		if s := keyMsg.String(); len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
			crumbs := m.exp.Breadcrumbs()
			if i := int(s[0] - '0'); i < len(crumbs) {
				m.apply(m.exp.Jump(m.ctx, crumbs[i].Path))
			}
		}
	}
	return m, nil
}

func (m Model) current() (explorer.Card, bool) {
	if m.cursor < 0 || m.cursor >= len(m.cards) {
		return explorer.Card{}, false
	}
	return m.cards[m.cursor], true
}

// apply records an explorer error and reloads the cards. The cursor is
// reset when the container changed.
func (m *Model) apply(err error) {
	if err != nil {
		m.message = err.Error()
		return
	}
	m.refresh()
}

func (m *Model) refresh() {
	prev := ""
	if len(m.cards) > 0 {
		prev = m.cards[0].Path
	}
	m.cards = m.exp.Cards(m.ctx)
	if len(m.cards) == 0 || m.cards[0].Path != prev {
		m.cursor = 0
	}
	if m.cursor >= len(m.cards) {
		m.cursor = max(len(m.cards)-1, 0)
	}
}

func (m Model) cycleFocus(back bool) (tea.Model, tea.Cmd) {
	if m.exp.Mode() != explorer.ModeIteration {
		return m, nil
	}
	next := (m.focus + 1) % 3
	if back {
		next = (m.focus + 2) % 3
	}
	return m.cycleFocusTo(next)
}

func (m Model) cycleFocusTo(f focus) (tea.Model, tea.Cmd) {
	m.fromInput.Blur()
	m.toInput.Blur()
	m.focus = f
	switch f {
	case focusFrom:
		return m, m.fromInput.Focus()
	case focusTo:
		return m, m.toInput.Focus()
	}
	return m, nil
}

func (m Model) confirm() (tea.Model, tea.Cmd) {
	logger := ctxlog.FromContext(m.ctx)
	if m.exp.Mode() == explorer.ModeIteration {
		from, err := parseBound("from", m.fromInput.Value())
		if err != nil {
			m.message = err.Error()
			return m, nil
		}
		to, err := parseBound("to", m.toInput.Value())
		if err != nil {
			m.message = err.Error()
			return m, nil
		}
		if err := m.exp.SetRange(from, to); err != nil {
			m.message = err.Error()
			return m, nil
		}
	}

	if err := m.opt.Confirm(m.ctx); err != nil {
		logger.Debug("Confirm rejected.", "error", err)
		m.message = err.Error()
		return m, nil
	}
	m.done, m.confirmed = true, true
	return m, tea.Quit
}

func (m Model) cancel() (tea.Model, tea.Cmd) {
	m.opt.Cancel(m.ctx)
	m.done = true
	return m, tea.Quit
}

var errNotNumber = errors.New("must be a whole number")

// parseBound reads an optional range input; blank means absent.
func parseBound(name, s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%s %w", name, errNotNumber)
	}
	return &v, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder

	title := m.exp.Mode().Title()
	if m.opt.Heading != "" {
		title += "  " + m.opt.Heading
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.renderCrumbs())
	b.WriteString("\n\n")

	selected, _, _ := m.exp.Selected()
	if len(m.cards) == 0 {
		b.WriteString(valueStyle.Render("(empty)"))
		b.WriteString("\n")
	}
	for i, c := range m.cards {
		cursor := "  "
		if i == m.cursor && m.focus == focusCards {
			cursor = cursorStyle.Render("> ")
		}
		label := c.Label
		if c.Path == selected {
			label = selectedStyle.Render("● " + label)
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", cursor, label, badgeStyle.Render(c.Badge), valueStyle.Render(c.Preview))
	}

	if m.exp.Mode() == explorer.ModeIteration {
		b.WriteString("\n")
		b.WriteString(inputLabelStyle.Render("from") + m.fromInput.View() + "\n")
		b.WriteString(inputLabelStyle.Render("to") + m.toInput.View() + "\n")
	}

	b.WriteString(previewStyle.Render(m.exp.Preview(m.ctx)))
	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.message))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) renderCrumbs() string {
	crumbs := m.exp.Breadcrumbs()
	parts := make([]string, len(crumbs))
	for i, c := range crumbs {
		label := fmt.Sprintf("%d:%s", i, c.Label)
		if i == len(crumbs)-1 {
			parts[i] = crumbCurrentStyle.Render(label)
		} else {
			parts[i] = crumbStyle.Render(label)
		}
	}
	return strings.Join(parts, crumbStyle.Render(" › "))
}

func (m Model) help() string {
	bindings := []key.Binding{keys.Up, keys.Down, keys.Open, keys.Select, keys.Parent}
	if m.exp.Mode() == explorer.ModeIteration {
		bindings = append(bindings, keys.Focus)
	}
	bindings = append(bindings, keys.Confirm, keys.Cancel)

	parts := make([]string, 0, len(bindings)+1)
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	parts = append(parts, "0-9: crumb")
	return strings.Join(parts, " • ")
}
