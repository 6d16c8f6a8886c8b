// Package debug implements the live parameter panel: named controls bound to
// fields of running objects, with change callbacks.
package debug

import (
	"fmt"
	"math"
	"strconv"

	"RealisticRender/internal/logger"

	"go.uber.org/zap"
)

// Option is one choice of an enum control.
type Option struct {
	Label string
	Value int
}

// Binding connects one named control to a target field.
type Binding struct {
	name     string
	min, max float64
	step     float64
	options  []Option
	target   any

	get      func() float64
	set      func(float64)
	onChange []func()
	panel    *Panel
}

// Panel is the registry of bindings, in registration order.
type Panel struct {
	bindings []*Binding
	display  map[any]*Binding
}

func NewPanel() *Panel {
	return &Panel{display: make(map[any]*Binding)}
}

// Add binds a float32 field. The range defaults to [0, 1] until Range is
// called.
func (p *Panel) Add(target *float32, name string) *Binding {
	b := &Binding{
		name:   name,
		min:    0,
		max:    1,
		target: target,
		get:    func() float64 { return float64(*target) },
		set:    func(v float64) { *target = float32(v) },
	}
	return p.register(b)
}

// AddEnum binds an integer-like field to a fixed set of options.
func AddEnum[T ~int](p *Panel, target *T, name string, options []Option) *Binding {
	b := &Binding{
		name:    name,
		options: options,
		target:  target,
		get:     func() float64 { return float64(*target) },
		set:     func(v float64) { *target = T(v) },
	}
	if len(options) > 0 {
		b.min, b.max = float64(options[0].Value), float64(options[0].Value)
		for _, o := range options[1:] {
			b.min = math.Min(b.min, float64(o.Value))
			b.max = math.Max(b.max, float64(o.Value))
		}
	}
	return p.register(b)
}

func (p *Panel) register(b *Binding) *Binding {
	b.panel = p
	p.bindings = append(p.bindings, b)
	p.display[b.target] = b
	logger.Log.Debug("Debug control registered", zap.String("name", b.name))
	return b
}

// Bindings returns the registered controls in registration order.
func (p *Panel) Bindings() []*Binding {
	return append([]*Binding(nil), p.bindings...)
}

// Lookup returns the last-registered binding with the given name.
func (p *Panel) Lookup(name string) *Binding {
	for i := len(p.bindings) - 1; i >= 0; i-- {
		if p.bindings[i].name == name {
			return p.bindings[i]
		}
	}
	return nil
}

// DisplayRange returns the range shown for target: the range of the binding
// registered last for it.
func (p *Panel) DisplayRange(target any) (lo, hi float64, ok bool) {
	b, ok := p.display[target]
	if !ok {
		return 0, 0, false
	}
	return b.min, b.max, true
}

// Range sets the inclusive bounds of a numeric control.
func (b *Binding) Range(lo, hi float64) *Binding {
	b.min, b.max = lo, hi
	return b
}

// Step sets the operator nudge increment.
func (b *Binding) Step(step float64) *Binding {
	b.step = step
	return b
}

// Name overrides the control label.
func (b *Binding) Name(name string) *Binding {
	b.name = name
	return b
}

// OnChange appends fn to the callbacks run after every edit.
func (b *Binding) OnChange(fn func()) *Binding {
	b.onChange = append(b.onChange, fn)
	return b
}

func (b *Binding) Label() string { return b.name }

func (b *Binding) Min() float64 { return b.min }

func (b *Binding) Max() float64 { return b.max }

func (b *Binding) StepSize() float64 { return b.step }

func (b *Binding) IsEnum() bool { return len(b.options) > 0 }

func (b *Binding) Options() []Option { return append([]Option(nil), b.options...) }

// Value reads the bound field.
func (b *Binding) Value() float64 {
	return b.get()
}

// Set writes v, clamped to the range, into the bound field and then runs the
// change callbacks before returning. Enum controls only accept option
// values; anything else is ignored.
func (b *Binding) Set(v float64) {
	if b.IsEnum() {
		if !b.hasOption(int(v)) {
			logger.Log.Warn("Ignoring unknown enum value",
				zap.String("control", b.name), zap.Float64("value", v))
			return
		}
	} else if !math.IsNaN(v) {
		v = math.Max(b.min, math.Min(b.max, v))
	} else {
		return
	}

	b.set(v)
	logger.Log.Debug("Debug control changed",
		zap.String("control", b.name), zap.Float64("value", b.get()))
	for _, fn := range b.onChange {
		fn()
	}
}

func (b *Binding) hasOption(v int) bool {
	for _, o := range b.options {
		if o.Value == v {
			return true
		}
	}
	return false
}

// Format renders the current value for display.
func (b *Binding) Format() string {
	if b.IsEnum() {
		v := int(b.Value())
		for _, o := range b.options {
			if o.Value == v {
				return o.Label
			}
		}
		return strconv.Itoa(v)
	}
	return fmt.Sprintf("%.3f", b.Value())
}
