// Package tui is the interactive catalog browser: a static shell with a
// failure boundary around the resource list.
package tui

import (
	"oer-catalog/internal/controller"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	Controller *controller.Controller
	Title      string
	Subtitle   string
	Footer     string
	Logger     *zap.Logger
	// OnReady is called once, when the shell mounts and before the alternate
	// screen is entered.
	OnReady func()
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference()

	defer opts.Controller.Close()

	list := newListModel(opts.Controller, opts.Logger)
	m := newShell(list, opts.Title, opts.Subtitle, opts.Footer, opts.OnReady, opts.Logger)
	// The shell enters the alternate screen itself, after OnReady.
	_, err := tea.NewProgram(m).Run()
	return err
}
