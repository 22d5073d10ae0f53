package testutil

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// AwaitTimeout bounds how long Await waits for a matching message.
const AwaitTimeout = 2 * time.Second

// ModelHarness wraps a tea.Model for testing, providing helpers to simulate
// user interactions and inspect state.
type ModelHarness struct {
	model tea.Model
	cmds  []tea.Cmd
}

// NewModelHarness creates a test harness for m and captures its init command.
func NewModelHarness(m tea.Model) *ModelHarness {
	h := &ModelHarness{model: m}
	if cmd := m.Init(); cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return h
}

// Model returns the current model for type assertion.
func (h *ModelHarness) Model() tea.Model {
	return h.model
}

// View returns the model's rendered content.
func (h *ModelHarness) View() string {
	return h.model.View()
}

// SetSize sends a window size message.
func (h *ModelHarness) SetSize(width, height int) tea.Cmd {
	return h.SendMsg(tea.WindowSizeMsg{Width: width, Height: height})
}

// SendMsg sends any message to the model and returns the resulting command.
func (h *ModelHarness) SendMsg(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.model, cmd = h.model.Update(msg)
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return cmd
}

// SendKey simulates a key press by creating a tea.KeyMsg.
func (h *ModelHarness) SendKey(key string) tea.Cmd {
	return h.SendMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

// SendSpecialKey sends a special key (enter, escape, tab, etc.).
func (h *ModelHarness) SendSpecialKey(keyType tea.KeyType) tea.Cmd {
	return h.SendMsg(tea.KeyMsg{Type: keyType})
}

// SendEnter sends the enter key.
func (h *ModelHarness) SendEnter() tea.Cmd {
	return h.SendSpecialKey(tea.KeyEnter)
}

// SendEscape sends the escape key.
func (h *ModelHarness) SendEscape() tea.Cmd {
	return h.SendSpecialKey(tea.KeyEscape)
}

// Type sends each rune of text as a key press.
func (h *ModelHarness) Type(text string) {
	for _, r := range text {
		h.SendKey(string(r))
	}
}

// Commands returns all commands collected since creation or last ClearCommands.
func (h *ModelHarness) Commands() []tea.Cmd {
	return h.cmds
}

// LastCommand returns the most recent command, or nil if none.
func (h *ModelHarness) LastCommand() tea.Cmd {
	if len(h.cmds) == 0 {
		return nil
	}
	return h.cmds[len(h.cmds)-1]
}

// ClearCommands clears the collected commands.
func (h *ModelHarness) ClearCommands() {
	h.cmds = nil
}

// ExecuteCmd runs a command and returns the resulting message.
// This is useful for testing async command flows.
func ExecuteCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// Await runs cmd, expanding batches, and feeds the first message accepted by
// match back into the model. Commands that block (timers, channel waits) run
// in their own goroutines and are abandoned once a match arrives.
func (h *ModelHarness) Await(t testing.TB, cmd tea.Cmd, match func(tea.Msg) bool) tea.Msg {
	t.Helper()

	msgs := make(chan tea.Msg)
	done := make(chan struct{})
	defer close(done)

	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					run(sub)
				}
				return
			}
			select {
			case msgs <- msg:
			case <-done:
			}
		}()
	}
	run(cmd)

	timeout := time.After(AwaitTimeout)
	for {
		select {
		case msg := <-msgs:
			if msg != nil && match(msg) {
				h.SendMsg(msg)
				return msg
			}
		case <-timeout:
			t.Fatal("timed out waiting for message")
			return nil
		}
	}
}

// MsgOf matches messages of type T, for use with Await.
func MsgOf[T any](msg tea.Msg) bool {
	_, ok := msg.(T)
	return ok
}

// ViewContains checks if the model's view contains the given substring.
func (h *ModelHarness) ViewContains(substr string) bool {
	return FindLine(h.View(), substr) != ""
}
