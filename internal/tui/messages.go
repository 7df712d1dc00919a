package tui

import (
	"oer-catalog/internal/catalog"
	"oer-catalog/internal/controller"

	tea "github.com/charmbracelet/bubbletea"
)

// eventMsg carries a finished controller task back into the update loop.
type eventMsg struct{ ev catalog.Event }

type urlOpenDoneMsg struct{ err error }

// taskCmds turns controller tasks into commands; Bubble Tea runs each one on
// its own goroutine and delivers the result as an eventMsg.
func taskCmds(tasks []controller.Task) []tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(tasks))
	for _, t := range tasks {
		t := t
		cmds = append(cmds, func() tea.Msg { return eventMsg{ev: t()} })
	}
	return cmds
}
