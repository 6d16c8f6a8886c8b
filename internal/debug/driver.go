package debug

import (
	"fmt"
	"strings"

	"RealisticRender/internal/logger"

	"go.uber.org/zap"
)

// Driver is the operator surface of a Panel: one control is selected at a
// time and can be nudged by its step. The window layer maps keys to these
// calls.
type Driver struct {
	panel    *Panel
	selected int
	onStatus func(string)
}

// NewDriver returns a driver that reports status lines to onStatus (for
// example the window title). onStatus may be nil.
func NewDriver(p *Panel, onStatus func(string)) *Driver {
	return &Driver{panel: p, onStatus: onStatus}
}

// Selected returns the current control, or nil if the panel is empty.
func (d *Driver) Selected() *Binding {
	bs := d.panel.bindings
	if len(bs) == 0 {
		return nil
	}
	if d.selected >= len(bs) {
		d.selected = len(bs) - 1
	}
	return bs[d.selected]
}

// Next selects the following control, wrapping around.
func (d *Driver) Next() {
	if n := len(d.panel.bindings); n > 0 {
		d.selected = (d.selected + 1) % n
	}
	d.report()
}

// Prev selects the preceding control, wrapping around.
func (d *Driver) Prev() {
	if n := len(d.panel.bindings); n > 0 {
		d.selected = (d.selected - 1 + n) % n
	}
	d.report()
}

// Nudge moves the selected control by dir steps, ten times as far when
// coarse is set. Enum controls cycle through their options instead.
func (d *Driver) Nudge(dir int, coarse bool) {
	b := d.Selected()
	if b == nil || dir == 0 {
		return
	}
	if b.IsEnum() {
		b.Set(float64(nextOption(b, dir)))
		d.report()
		return
	}
	step := b.step
	if step == 0 {
		step = (b.max - b.min) / 100
	}
	if coarse {
		step *= 10
	}
	b.Set(b.Value() + float64(dir)*step)
	d.report()
}

func nextOption(b *Binding, dir int) int {
	cur := int(b.Value())
	idx := 0
	for i, o := range b.options {
		if o.Value == cur {
			idx = i
			break
		}
	}
	n := len(b.options)
	idx = ((idx+dir)%n + n) % n
	return b.options[idx].Value
}

// Status describes the selected control, e.g. "lightIntensity = 3.000".
func (d *Driver) Status() string {
	b := d.Selected()
	if b == nil {
		return "no controls"
	}
	return fmt.Sprintf("%s = %s", b.name, b.Format())
}

// Snapshot logs every control and its current value.
func (d *Driver) Snapshot() string {
	var sb strings.Builder
	for i, b := range d.panel.bindings {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%s", b.name, b.Format())
	}
	out := sb.String()
	logger.Log.Info("Debug panel snapshot", zap.String("values", out))
	return out
}

func (d *Driver) report() {
	status := d.Status()
	logger.Log.Debug("Debug panel", zap.String("status", status))
	if d.onStatus != nil {
		d.onStatus(status)
	}
}
