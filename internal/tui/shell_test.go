package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

type boomMsg struct{}

// stubPane panics on demand.
type stubPane struct {
	updates     *int
	panicRender bool
}

func (p stubPane) Init() tea.Cmd { return nil }

func (p stubPane) Update(msg tea.Msg) (pane, tea.Cmd) {
	*p.updates++
	if _, ok := msg.(boomMsg); ok {
		panic("list exploded")
	}
	return p, nil
}

func (p stubPane) View(width, height int) string {
	if p.panicRender {
		panic("render exploded")
	}
	return "resource list"
}

// mounted delivers the alternate-screen switch the program performs after Init.
func mounted(t *testing.T, m shellModel) shellModel {
	t.Helper()
	next, cmd := m.Update(tea.EnterAltScreen())
	if cmd != nil {
		t.Fatalf("expected no command for the screen switch")
	}
	return next.(shellModel)
}

func TestShell_UpdatePanicFaultsBoundary(t *testing.T) {
	updates := 0
	m := mounted(t, newShell(stubPane{updates: &updates}, "OER Collection", "from BCcampus", "footer notice", nil, nil))

	next, cmd := m.Update(boomMsg{})
	if cmd != nil {
		t.Fatalf("expected no command after fault")
	}
	sh := next.(shellModel)
	if !sh.boundary.faulted {
		t.Fatalf("expected boundary to be faulted")
	}

	view := xansi.Strip(sh.View())
	for _, want := range []string{"OER Collection", "from BCcampus", faultNotice, "footer notice"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view; got:\n%s", want, view)
		}
	}
	if strings.Contains(view, "resource list") {
		t.Fatalf("faulted view must not render the list")
	}

	// No recovery: later messages never reach the child.
	next, _ = sh.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if updates != 1 {
		t.Fatalf("expected child to see exactly one update; got %d", updates)
	}
	if !next.(shellModel).boundary.faulted {
		t.Fatalf("boundary must stay faulted")
	}
}

func TestShell_ViewPanicFaultsBoundary(t *testing.T) {
	updates := 0
	m := mounted(t, newShell(stubPane{updates: &updates, panicRender: true}, "Title", "", "", nil, nil))

	if view := xansi.Strip(m.View()); !strings.Contains(view, faultNotice) {
		t.Fatalf("expected fault notice; got:\n%s", view)
	}
	if !m.boundary.faulted {
		t.Fatalf("expected boundary to be faulted after render panic")
	}
}

func TestShell_QuitWorksWhenFaulted(t *testing.T) {
	updates := 0
	m := newShell(stubPane{updates: &updates}, "Title", "", "", nil, nil)
	m.boundary.faulted = true

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestShell_InitSignalsReadyOnce(t *testing.T) {
	updates := 0
	calls := 0
	m := newShell(stubPane{updates: &updates}, "Title", "", "", func() { calls++ }, nil)
	m.Init()
	m.Init()
	if calls != 1 {
		t.Fatalf("expected ready callback once; got %d", calls)
	}

	// A missing callback is tolerated.
	newShell(stubPane{updates: &updates}, "Title", "", "", nil, nil).Init()
}

func TestShell_ReadyBeforeAlternateScreen(t *testing.T) {
	updates := 0
	var order []string
	m := newShell(stubPane{updates: &updates}, "Title", "", "", func() { order = append(order, "ready") }, nil)

	cmd := m.Init()
	order = append(order, "init returned")
	if len(order) != 2 || order[0] != "ready" {
		t.Fatalf("expected ready callback during Init; got %v", order)
	}

	// Init asks for the alternate screen; nothing is drawn until it is up.
	var msgs []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		msgs = append(msgs, msg)
	}
	found := false
	for _, msg := range msgs {
		found = found || isEnterAltScreen(msg)
	}
	if !found {
		t.Fatalf("expected Init to request the alternate screen; got %#v", msgs)
	}
	if v := m.View(); v != "" {
		t.Fatalf("expected nothing drawn before the screen switch; got %q", v)
	}

	up := mounted(t, m)
	if v := xansi.Strip(up.View()); !strings.Contains(v, "Title") {
		t.Fatalf("expected frame after the screen switch; got %q", v)
	}
	if updates != 0 {
		t.Fatalf("screen switch must not reach the list; got %d updates", updates)
	}
}
