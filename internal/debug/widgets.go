package debug

import (
	"fmt"
	"math"
	"strconv"
)

// Widgets is the immediate-mode toolkit a Panel is drawn with. Each call
// shows one control and reports whether the operator edited it this frame.
type Widgets interface {
	SliderFloat(label string, value *float32, min, max float32, format string) bool
	Combo(label string, selected *int, options []string) bool
}

// Draw shows every binding of p, numeric ones as sliders and enums as
// combos, and routes edits through Binding.Set so clamping and change
// callbacks apply as for any other edit. It returns how many controls were
// edited.
func Draw(p *Panel, w Widgets) int {
	edited := 0
	for i, b := range p.bindings {
		// Labels may repeat; the suffix keeps widget IDs apart.
		label := fmt.Sprintf("%s##%d", b.name, i)

		if b.IsEnum() {
			current := b.optionIndex()
			labels := make([]string, len(b.options))
			for j, o := range b.options {
				labels[j] = o.Label
			}
			if w.Combo(label, &current, labels) && current >= 0 && current < len(b.options) {
				b.Set(float64(b.options[current].Value))
				edited++
			}
			continue
		}

		v := float32(b.Value())
		if w.SliderFloat(label, &v, float32(b.min), float32(b.max), sliderFormat(b.step)) {
			b.Set(float64(v))
			edited++
		}
	}
	return edited
}

// optionIndex is the position of the current value among the options, or
// -1 when the field holds a value no option names.
func (b *Binding) optionIndex() int {
	v := int(b.Value())
	for i, o := range b.options {
		if o.Value == v {
			return i
		}
	}
	return -1
}

// sliderFormat shows as many decimals as the step resolves.
func sliderFormat(step float64) string {
	if step <= 0 {
		return "%.3f"
	}
	decimals := int(math.Max(0, math.Ceil(-math.Log10(step)-1e-9)))
	return "%." + strconv.Itoa(decimals) + "f"
}
