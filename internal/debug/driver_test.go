package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDriverCyclesSelection(t *testing.T) {
	p := NewPanel()
	var a, b float32
	p.Add(&a, "a")
	p.Add(&b, "b")
	d := NewDriver(p, nil)

	assert.Equal(t, "a", d.Selected().Label())
	d.Next()
	assert.Equal(t, "b", d.Selected().Label())
	d.Next()
	assert.Equal(t, "a", d.Selected().Label())
	d.Prev()
	assert.Equal(t, "b", d.Selected().Label())
}

func TestDriverNudgeUsesStep(t *testing.T) {
	p := NewPanel()
	var v float32
	p.Add(&v, "v").Range(0, 10).Step(0.5)
	var status string
	d := NewDriver(p, func(s string) { status = s })

	d.Nudge(1, false)
	assert.Equal(t, float32(0.5), v)

	d.Nudge(1, true)
	assert.Equal(t, float32(5.5), v)

	d.Nudge(-1, true)
	d.Nudge(-1, true)
	assert.Equal(t, float32(0), v)
	assert.Equal(t, "v = 0.000", status)
}

func TestDriverNudgeCyclesEnum(t *testing.T) {
	p := NewPanel()
	m := mode(4)
	AddEnum(p, &m, "toneMapping", modeOptions)
	d := NewDriver(p, nil)

	d.Nudge(1, false)
	assert.Equal(t, mode(0), m)

	d.Nudge(-1, false)
	assert.Equal(t, mode(4), m)
}

func TestDriverEmptyPanel(t *testing.T) {
	d := NewDriver(NewPanel(), nil)

	d.Next()
	d.Nudge(1, false)

	assert.Nil(t, d.Selected())
	assert.Equal(t, "no controls", d.Status())
}

func TestDriverSnapshot(t *testing.T) {
	p := NewPanel()
	x := float32(0.25)
	p.Add(&x, "lightX").Range(-5, 5)
	m := mode(4)
	AddEnum(p, &m, "toneMapping", modeOptions)

	assert.Equal(t, "lightX=0.250, toneMapping=ACESFilmic", NewDriver(p, nil).Snapshot())
}
