package tui

import (
	"fmt"
	"strings"

	"oer-catalog/internal/catalog"
	"oer-catalog/internal/controller"
	"oer-catalog/internal/docs"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// listModel is the interactive resource list. The controller holds the list
// state; listModel only adds cursor, scroll and overlay state on top.
type listModel struct {
	ctl  *controller.Controller
	keys keyMap
	log  *zap.Logger

	spinner spinner.Model

	cursor int
	offset int

	showHelp bool
	flash    string
}

func newListModel(ctl *controller.Controller, log *zap.Logger) *listModel {
	if log == nil {
		log = zap.NewNop()
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleMuted()))
	if glyphs() == glyphSetASCII {
		sp.Spinner = spinner.Line
	}
	return &listModel{
		ctl:     ctl,
		keys:    defaultKeyMap(),
		log:     log,
		spinner: sp,
	}
}

func (m *listModel) Init() tea.Cmd {
	return m.runCycle(m.ctl.Start())
}

// runCycle resets view state for a new page and starts the spinner.
func (m *listModel) runCycle(tasks []controller.Task) tea.Cmd {
	if tasks == nil {
		return nil
	}
	m.cursor, m.offset = 0, 0
	m.flash = ""
	cmds := taskCmds(tasks)
	cmds = append(cmds, m.spinner.Tick)
	return tea.Batch(cmds...)
}

func (m *listModel) Update(msg tea.Msg) (pane, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.ctl.Apply(msg.ev)
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		if !m.ctl.State().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case urlOpenDoneMsg:
		if msg.err != nil {
			m.log.Warn("open resource failed", zap.Error(msg.err))
			m.flash = "Could not open resource: " + msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *listModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
			m.showHelp = false
		}
		return nil
	}

	items := m.ctl.State().Items
	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		return tea.Batch(taskCmds(m.ctl.ToggleExpand(m.cursor))...)
	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(items) {
			return openURL(items[m.cursor].Link)
		}
	case key.Matches(msg, m.keys.Next):
		return m.runCycle(m.ctl.NextPage())
	case key.Matches(msg, m.keys.Prev):
		return m.runCycle(m.ctl.PreviousPage())
	case key.Matches(msg, m.keys.Reload):
		return m.runCycle(m.ctl.Reload())
	}
	return nil
}

func (m *listModel) clampCursor() {
	n := len(m.ctl.State().Items)
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
}

func (m *listModel) View(width, height int) string {
	if m.showHelp {
		md, _ := docs.Get("keys")
		return strings.TrimRight(RenderMarkdown(md, width), "\n")
	}

	st := m.ctl.State()
	var top []string
	switch {
	case st.Loading:
		top = append(top, m.spinner.View()+" "+styleMuted().Render("Loading resources"+glyphEllipsis()))
	case st.Error != "":
		top = append(top, styleError().Render(st.Error))
	}
	bottom := []string{"", paginationBar(st)}
	if m.flash != "" {
		bottom = append(bottom, styleError().Render(m.flash))
	}

	if len(st.Items) == 0 {
		if !st.Loading && st.Error == "" {
			top = append(top, styleMuted().Render("No resources found."))
		}
		return strings.Join(append(top, bottom...), "\n")
	}

	blocks := make([][]string, len(st.Items))
	for i, it := range st.Items {
		open := st.IsOpen(i)
		blocks[i] = renderRow(it, open, i == m.cursor, width).lines(open)
	}
	avail := height - len(top) - len(bottom)
	m.scrollTo(blocks, avail)

	lines := append([]string{}, top...)
	used := 0
	for i := m.offset; i < len(blocks); i++ {
		if used > 0 && used+len(blocks[i]) > avail {
			break
		}
		lines = append(lines, blocks[i]...)
		used += len(blocks[i])
	}
	return strings.Join(append(lines, bottom...), "\n")
}

// scrollTo moves the window so the cursor block is fully visible when it fits.
func (m *listModel) scrollTo(blocks [][]string, avail int) {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	for m.offset < m.cursor {
		used := 0
		for i := m.offset; i <= m.cursor; i++ {
			used += len(blocks[i])
		}
		if used <= avail {
			return
		}
		m.offset++
	}
}

func paginationBar(st catalog.State) string {
	parts := []string{
		fmt.Sprintf("Showing %d out of %d results", len(st.Items), st.Total),
		fmt.Sprintf("Page %d", st.Page),
	}
	if st.Page > 1 {
		parts = append(parts, "[p] Previous Page")
	}
	parts = append(parts, "[n] Next Page", "[?] Help")
	return styleMuted().Render(strings.Join(parts, " "+glyphDot()+" "))
}
