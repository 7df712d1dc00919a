package tui

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const faultNotice = "Something went wrong."

// pane is a region of the screen hosted by the shell.
type pane interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (pane, tea.Cmd)
	View(width, height int) string
}

// faultBoundary is shared by every copy of the shell model so a panic caught
// in View (value receiver) still sticks.
type faultBoundary struct {
	faulted bool
	cause   string
}

func (b *faultBoundary) trip(r any, log *zap.Logger) {
	if b.faulted {
		return
	}
	b.faulted = true
	b.cause = fmt.Sprint(r)
	log.Error("list view faulted", zap.String("panic", b.cause), zap.Stack("stack"))
}

type shellModel struct {
	title    string
	subtitle string
	footer   string

	child    pane
	boundary *faultBoundary

	width  int
	height int

	// screenUp is set once the program switched to the alternate screen.
	// Nothing is drawn before that, so the primary screen keeps only what the
	// caller printed.
	screenUp bool

	ready   *sync.Once
	onReady func()
	log     *zap.Logger
}

func newShell(child pane, title, subtitle, footer string, onReady func(), log *zap.Logger) shellModel {
	if log == nil {
		log = zap.NewNop()
	}
	return shellModel{
		title:    title,
		subtitle: subtitle,
		footer:   footer,
		child:    child,
		boundary: &faultBoundary{},
		width:    80,
		height:   24,
		ready:    &sync.Once{},
		onReady:  onReady,
		log:      log,
	}
}

// Init signals readiness while the primary screen is still showing, then
// switches to the alternate screen.
func (m shellModel) Init() (cmd tea.Cmd) {
	m.ready.Do(func() {
		if m.onReady != nil {
			m.onReady()
		}
	})
	defer func() {
		if r := recover(); r != nil {
			m.boundary.trip(r, m.log)
			cmd = tea.EnterAltScreen
		}
	}()
	return tea.Batch(tea.EnterAltScreen, m.child.Init())
}

func isEnterAltScreen(msg tea.Msg) bool {
	return msg == tea.EnterAltScreen()
}

func (m shellModel) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	if isEnterAltScreen(msg) {
		m.screenUp = true
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	}
	if m.boundary.faulted {
		return m, nil
	}

	defer func() {
		if r := recover(); r != nil {
			m.boundary.trip(r, m.log)
			model, cmd = m, nil
		}
	}()
	child, cmd := m.child.Update(msg)
	m.child = child
	return m, cmd
}

func (m shellModel) View() string {
	if !m.screenUp {
		return ""
	}
	header := m.headerView()
	footer := m.footerView()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := m.bodyView(bodyHeight)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m shellModel) bodyView(height int) (body string) {
	if m.boundary.faulted {
		return faultView(height)
	}
	defer func() {
		if r := recover(); r != nil {
			m.boundary.trip(r, m.log)
			body = faultView(height)
		}
	}()
	body = m.child.View(m.width, height)
	// Pad so the footer stays pinned to the bottom.
	if n := lipgloss.Height(body); n < height {
		body += strings.Repeat("\n", height-n)
	}
	return body
}

func faultView(height int) string {
	out := styleError().Render(faultNotice)
	if height > 1 {
		out += strings.Repeat("\n", height-1)
	}
	return out
}

func (m shellModel) headerView() string {
	line := styleHeader().Render(m.title)
	if s := strings.TrimSpace(m.subtitle); s != "" {
		line += " " + styleMuted().Render(s)
	}
	return line + "\n" + styleMuted().Render(strings.Repeat(glyphHRule(), max(1, m.width)))
}

func (m shellModel) footerView() string {
	rule := styleMuted().Render(strings.Repeat(glyphHRule(), max(1, m.width)))
	if strings.TrimSpace(m.footer) == "" {
		return rule
	}
	return rule + "\n" + styleMuted().Render(m.footer)
}
