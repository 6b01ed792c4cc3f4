// Package teatest drives a bubbletea model from a test without a terminal.
//
// Every input goes straight to Update, and the Cmds it returns run one after
// another on a work queue before the next input is accepted. A dashboard
// write issued by a key press or a mouse release is therefore in the
// repository by the time the helper returns.
//
// Cmds that sleep (spinner frames, cursor blinks, label ticks slower than
// the driver's timeout) are abandoned instead of awaited.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// DefaultCmdTimeout is long enough for an in-memory SQLite write and
	// shorter than a spinner frame (~83ms).
	DefaultCmdTimeout = 40 * time.Millisecond

	// maxSteps bounds the Cmds run for one input so a self-rescheduling
	// tick can't hang the test.
	maxSteps = 200
)

// Driver feeds input to a tea.Model and settles its Cmds synchronously.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting records that a Cmd produced tea.QuitMsg. A real program
	// would stop there, so later input is dropped.
	Quitting bool

	timeout time.Duration
}

// Option customizes a Driver.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else, the way a
// program's first frame does.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// WithCmdTimeout changes how long a single Cmd may block.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) { d.timeout = timeout }
}

// New wraps model. Follow it with DrainInit to run the model's Init Cmd.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, timeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) DrainInit() {
	d.T.Helper()
	d.settle(d.Model.Init())
}

// Send delivers msg and settles every Cmd that follows from it.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.settle(cmd)
}

func (d *Driver) View() string { return d.Model.View() }

// keyboard

func (d *Driver) press(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

// PressKey types a single printable character.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Type sends s one rune at a time, as a user typing into a form would.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

func (d *Driver) PressEnter() { d.T.Helper(); d.press(tea.KeyEnter) }
func (d *Driver) PressTab()   { d.T.Helper(); d.press(tea.KeyTab) }
func (d *Driver) PressEsc()   { d.T.Helper(); d.press(tea.KeyEsc) }
func (d *Driver) PressCtrlC() { d.T.Helper(); d.press(tea.KeyCtrlC) }
func (d *Driver) PressUp()    { d.T.Helper(); d.press(tea.KeyUp) }
func (d *Driver) PressDown()  { d.T.Helper(); d.press(tea.KeyDown) }

// mouse; coordinates are screen cells, (0, 0) top left

func (d *Driver) pointer(x, y int, action tea.MouseAction, button tea.MouseButton) {
	d.T.Helper()
	d.Send(tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
}

func (d *Driver) MouseDown(x, y int) {
	d.T.Helper()
	d.pointer(x, y, tea.MouseActionPress, tea.MouseButtonLeft)
}

// MouseMove reports motion with the left button held.
func (d *Driver) MouseMove(x, y int) {
	d.T.Helper()
	d.pointer(x, y, tea.MouseActionMotion, tea.MouseButtonLeft)
}

func (d *Driver) MouseUp(x, y int) {
	d.T.Helper()
	d.pointer(x, y, tea.MouseActionRelease, tea.MouseButtonLeft)
}

// Drag is a press at (x0, y0), one motion event to (x1, y1) and a release
// there. Bars and outline rows only see the endpoints.
func (d *Driver) Drag(x0, y0, x1, y1 int) {
	d.T.Helper()
	d.MouseDown(x0, y0)
	d.MouseMove(x1, y1)
	d.MouseUp(x1, y1)
}

// Click is a press and release at the same cell.
func (d *Driver) Click(x, y int) {
	d.T.Helper()
	d.MouseDown(x, y)
	d.MouseUp(x, y)
}

// Wheel sends |notches| wheel events at (x, y), upward when notches < 0.
func (d *Driver) Wheel(x, y, notches int) {
	d.T.Helper()
	button := tea.MouseButtonWheelDown
	if notches < 0 {
		button, notches = tea.MouseButtonWheelUp, -notches
	}
	for range notches {
		d.pointer(x, y, tea.MouseActionPress, button)
	}
}

// settle runs cmd and everything it leads to, breadth first. Batches are
// flattened onto the queue; each resulting message goes through Update and
// its Cmd joins the queue.
func (d *Driver) settle(cmd tea.Cmd) {
	d.T.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps == maxSteps {
			d.T.Logf("teatest: gave up after %d Cmds for one input", maxSteps)
			return
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := d.run(next).(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			d.Quitting = true
			d.Model, _ = d.Model.Update(msg)
			return
		default:
			if isBlink(msg) {
				continue
			}
			var more tea.Cmd
			d.Model, more = d.Model.Update(msg)
			queue = append(queue, more)
		}
	}
}

// run calls cmd on its own goroutine and returns nil if it outlives the
// timeout. The abandoned goroutine finishes on its own.
func (d *Driver) run(cmd tea.Cmd) tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(d.timeout):
		return nil
	}
}

// isBlink matches the textinput cursor's blink messages, whose types are
// unexported. Feeding one back starts another sleeping blink Cmd.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
