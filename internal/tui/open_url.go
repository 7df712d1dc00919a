package tui

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// browserCommand builds the command that opens u. Tests replace it.
var browserCommand = func(u string) *exec.Cmd {
	args := browserArgs(runtime.GOOS, u)
	return exec.Command(args[0], args[1:]...)
}

// browserArgs returns the platform launcher argv. Windows goes through
// rundll32 so the link is never parsed by cmd.exe.
func browserArgs(goos, u string) []string {
	switch goos {
	case "darwin":
		return []string{"open", u}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler", u}
	default:
		return []string{"xdg-open", u}
	}
}

// webLink returns u when it is an absolute http(s) URL with a host.
func webLink(u string) (string, error) {
	u = strings.TrimSpace(u)
	if u == "" {
		return "", errors.New("resource has no link")
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return "", fmt.Errorf("invalid resource link: %w", err)
	}
	if s := strings.ToLower(parsed.Scheme); (s != "http" && s != "https") || parsed.Host == "" {
		return "", fmt.Errorf("refusing to open non-web link %q", u)
	}
	return parsed.String(), nil
}

func openURL(u string) tea.Cmd {
	link, err := webLink(u)
	if err != nil {
		return func() tea.Msg { return urlOpenDoneMsg{err: err} }
	}
	return func() tea.Msg {
		cmd := browserCommand(link)
		// Keep browser chatter out of the terminal.
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
		if err := cmd.Start(); err != nil {
			return urlOpenDoneMsg{err: err}
		}
		return urlOpenDoneMsg{err: cmd.Wait()}
	}
}
